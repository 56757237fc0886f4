package version

import (
	"runtime/debug"
	"strings"
	"testing"
	"time"
)

func stubBuildInfo(t *testing.T, bi *debug.BuildInfo) {
	t.Helper()
	origVersion, origCommit, origBuildTime := Version, GitCommit, BuildTime
	origRead := readBuildInfo
	t.Cleanup(func() {
		Version, GitCommit, BuildTime = origVersion, origCommit, origBuildTime
		readBuildInfo = origRead
	})
	readBuildInfo = func() (*debug.BuildInfo, bool) { return bi, bi != nil }
	Version, GitCommit, BuildTime = "dev", "", ""
}

func TestGetDefaults(t *testing.T) {
	stubBuildInfo(t, nil)

	info := Get()
	if info.Version != "dev" {
		t.Errorf("expected dev, got %q", info.Version)
	}
	if info.IsRelease {
		t.Error("dev build should not be a release")
	}
	if info.Short() != "dev" {
		t.Errorf("expected short dev, got %q", info.Short())
	}
	if !info.BuildDate.IsZero() {
		t.Errorf("expected no build date, got %v", info.BuildDate)
	}
}

func TestGetLdflags(t *testing.T) {
	stubBuildInfo(t, nil)
	Version = "1.4.0"
	GitCommit = "abc1234"
	BuildTime = "2026-01-02T03:04:05Z"

	info := Get()
	if !info.IsRelease {
		t.Error("expected release build")
	}
	if got := info.Short(); got != "1.4.0-abc1234" {
		t.Errorf("unexpected short version %q", got)
	}
	want := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	if !info.BuildDate.Equal(want) {
		t.Errorf("expected %v, got %v", want, info.BuildDate)
	}
	if !strings.Contains(info.String(), "(built 2026-01-02T03:04:05Z)") {
		t.Errorf("unexpected string %q", info.String())
	}
}

func TestGetBuildInfo(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{
		GoVersion: "go1.26.0",
		Main:      debug.Module{Version: "(devel)"},
		Settings: []debug.BuildSetting{
			{Key: "vcs.revision", Value: "0123456789abcdef"},
			{Key: "vcs.modified", Value: "true"},
			{Key: "vcs.time", Value: "2026-03-04T05:06:07Z"},
		},
	})

	info := Get()
	if info.GitCommit != "0123456" {
		t.Errorf("expected truncated commit, got %q", info.GitCommit)
	}
	if !info.IsDirty {
		t.Error("expected dirty build")
	}
	if info.GoVersion != "go1.26.0" {
		t.Errorf("unexpected go version %q", info.GoVersion)
	}
	if got := info.Short(); got != "dev-0123456-dirty" {
		t.Errorf("unexpected short version %q", got)
	}
	fields := info.Fields()
	if fields["commit"] != "0123456" || fields["go_version"] != "go1.26.0" {
		t.Errorf("unexpected fields %v", fields)
	}
}

func TestGetModuleVersion(t *testing.T) {
	stubBuildInfo(t, &debug.BuildInfo{Main: debug.Module{Version: "v0.3.1"}})

	info := Get()
	if info.Version != "v0.3.1" || !info.IsRelease {
		t.Errorf("expected module version as release, got %+v", info)
	}
	if Short() != "v0.3.1" {
		t.Errorf("unexpected package Short %q", Short())
	}
}
