package config

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"

	"github.com/kbukum/linepar/errors"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Workers != runtime.NumCPU() {
		t.Errorf("workers: expected %d, got %d", runtime.NumCPU(), cfg.Workers)
	}
	if cfg.ChunkSize != 1000 {
		t.Errorf("chunk_size: expected 1000, got %d", cfg.ChunkSize)
	}
	if cfg.Newline != "lf" {
		t.Errorf("newline: expected lf, got %q", cfg.Newline)
	}
	if !cfg.Async {
		t.Error("expected async reading by default")
	}
	if cfg.Ordered {
		t.Error("expected unordered by default")
	}
	if cfg.Transform != "identity" {
		t.Errorf("transform: expected identity, got %q", cfg.Transform)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("logging.level: expected info, got %q", cfg.Logging.Level)
	}
	if cfg.Telemetry.Enabled() {
		t.Error("expected telemetry disabled without an endpoint")
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"zero chunk size", func(c *Config) { c.ChunkSize = 0 }, "chunk_size"},
		{"bad newline", func(c *Config) { c.Newline = "cr" }, "newline"},
		{"budget below -1", func(c *Config) { c.EstimateBudget = -2 }, "estimate_budget"},
		{"missing transform", func(c *Config) { c.Transform = "" }, "transform"},
		{"bad log level", func(c *Config) { c.Logging.Level = "loud" }, "logging"},
		{"sample rate above one", func(c *Config) { c.Telemetry.SampleRate = 1.5 }, "telemetry.sample_rate"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"exec without command", func(c *Config) { c.Transform = "exec" }, "exec.command"},
		{"grep without pattern", func(c *Config) { c.Transform = "grep" }, "pattern"},
		{"grep-v without pattern", func(c *Config) { c.Transform = "grep-v" }, "pattern"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.errMsg) {
				t.Errorf("expected error containing %q, got %q", tc.errMsg, err.Error())
			}
		})
	}
}

// mockFS only knows the files it was given.
type mockFS struct {
	files    map[string]bool
	loaded   []string
	cfgDir   string
	cfgDirOK bool
}

func (m *mockFS) Exists(path string) bool { return m.files[path] }

func (m *mockFS) LoadEnv(path string) error {
	m.loaded = append(m.loaded, path)
	return nil
}

func (m *mockFS) UserConfigDir() (string, error) {
	if !m.cfgDirOK {
		return "", os.ErrNotExist
	}
	return m.cfgDir, nil
}

func TestConfigValidateTransformParameters(t *testing.T) {
	cfg := Default()
	cfg.Transform = "exec"
	cfg.Exec.Command = "tr a-z A-Z"
	if err := cfg.Validate(); err != nil {
		t.Errorf("exec with a command should validate: %v", err)
	}

	cfg = Default()
	cfg.Transform = "grep"
	cfg.Pattern = "^ERR"
	if err := cfg.Validate(); err != nil {
		t.Errorf("grep with a pattern should validate: %v", err)
	}

	cfg = Default()
	cfg.Transform = "exec"
	err := cfg.Validate()
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestLoadTimestampCanBeDisabled(t *testing.T) {
	t.Setenv("LINEPAR_LOGGING_TIMESTAMP", "false")
	cfg, err := Load(WithFileSystem(&mockFS{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.Timestamp {
		t.Error("expected logging.timestamp=false from the environment to stick")
	}
}

func TestLoadTimestampFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linepar.yml")
	if err := os.WriteFile(path, []byte("logging:\n  timestamp: false\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Logging.Timestamp {
		t.Error("expected logging.timestamp=false from the file to stick")
	}
}

func TestDefaultTimestamp(t *testing.T) {
	if !Default().Logging.Timestamp {
		t.Error("expected timestamps on by default")
	}
	cfg, err := Load(WithFileSystem(&mockFS{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cfg.Logging.Timestamp {
		t.Error("expected timestamps on after Load")
	}
}

func TestResolverResolveFiles(t *testing.T) {
	t.Run("explicit paths win", func(t *testing.T) {
		r := &Resolver{FileSystem: &mockFS{files: map[string]bool{"./linepar.yml": true, ".env": true}}}
		got := r.ResolveFiles(LoaderConfig{ConfigFile: "/etc/x.yml", EnvFile: "/etc/x.env"})
		if got.ConfigFile != "/etc/x.yml" || got.EnvFile != "/etc/x.env" {
			t.Errorf("unexpected resolution: %+v", got)
		}
	})

	t.Run("working directory first", func(t *testing.T) {
		r := &Resolver{FileSystem: &mockFS{files: map[string]bool{
			"./linepar.yml":        true,
			"./config/linepar.yml": true,
			".env":                 true,
		}}}
		got := r.ResolveFiles(LoaderConfig{})
		if got.ConfigFile != "./linepar.yml" {
			t.Errorf("expected ./linepar.yml, got %q", got.ConfigFile)
		}
		if got.EnvFile != ".env" {
			t.Errorf("expected .env, got %q", got.EnvFile)
		}
	})

	t.Run("user config dir", func(t *testing.T) {
		path := filepath.Join("/home/u/.config", "linepar", FileName)
		r := &Resolver{FileSystem: &mockFS{
			files:    map[string]bool{path: true},
			cfgDir:   "/home/u/.config",
			cfgDirOK: true,
		}}
		got := r.ResolveFiles(LoaderConfig{})
		if got.ConfigFile != path {
			t.Errorf("expected %q, got %q", path, got.ConfigFile)
		}
		if got.EnvFile != "" {
			t.Errorf("expected no env file, got %q", got.EnvFile)
		}
	})

	t.Run("nothing found", func(t *testing.T) {
		r := &Resolver{FileSystem: &mockFS{}}
		got := r.ResolveFiles(LoaderConfig{})
		if got.ConfigFile != "" || got.EnvFile != "" {
			t.Errorf("expected empty resolution, got %+v", got)
		}
	})
}

func TestLoadDefaultsOnly(t *testing.T) {
	fs := &mockFS{}
	cfg, err := Load(WithFileSystem(fs))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ChunkSize != 1000 || cfg.Transform != "identity" || !cfg.Async {
		t.Errorf("expected defaults, got %+v", cfg)
	}
	if cfg.Telemetry.Interval != 15*time.Second {
		t.Errorf("telemetry.interval: expected 15s, got %v", cfg.Telemetry.Interval)
	}
	if len(fs.loaded) != 0 {
		t.Errorf("expected no env file loaded, got %v", fs.loaded)
	}
}

func TestLoadWithYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "linepar.yml")
	content := `
workers: 3
chunk_size: 50
ordered: true
async: false
newline: crlf
transform: grep
pattern: "^ERR"
exec:
  command: "tr a-z A-Z"
  timeout: 2s
logging:
  level: debug
  format: json
telemetry:
  endpoint: localhost:4318
  sample_rate: 0.25
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 3 || cfg.ChunkSize != 50 {
		t.Errorf("expected workers=3 chunk_size=50, got %d %d", cfg.Workers, cfg.ChunkSize)
	}
	if !cfg.Ordered || cfg.Async {
		t.Errorf("expected ordered=true async=false, got %v %v", cfg.Ordered, cfg.Async)
	}
	if cfg.Newline != "crlf" || cfg.Transform != "grep" || cfg.Pattern != "^ERR" {
		t.Errorf("unexpected transform settings: %+v", cfg)
	}
	if cfg.Exec.Command != "tr a-z A-Z" || cfg.Exec.Timeout != 2*time.Second {
		t.Errorf("unexpected exec settings: %+v", cfg.Exec)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("unexpected logging: %+v", cfg.Logging)
	}
	if !cfg.Telemetry.Enabled() || cfg.Telemetry.SampleRate != 0.25 {
		t.Errorf("unexpected telemetry: %+v", cfg.Telemetry)
	}
	if cfg.Telemetry.ServiceName != "linepar" {
		t.Errorf("expected default service name, got %q", cfg.Telemetry.ServiceName)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(WithConfigFile(filepath.Join(t.TempDir(), "nope.yml")))
	if !errors.Is(err, errors.ErrCodeIO) {
		t.Fatalf("expected IO_ERROR, got %v", err)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yml")
	if err := os.WriteFile(path, []byte("workers: [1,\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(WithConfigFile(path))
	if !errors.Is(err, errors.ErrCodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linepar.yml")
	if err := os.WriteFile(path, []byte("newline: cr\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := Load(WithConfigFile(path))
	if err == nil || !strings.Contains(err.Error(), "newline") {
		t.Fatalf("expected newline validation error, got %v", err)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("LINEPAR_CHUNK_SIZE", "64")
	t.Setenv("LINEPAR_LOGGING_LEVEL", "warn")
	t.Setenv("LINEPAR_ORDERED", "true")

	cfg, err := Load(WithFileSystem(&mockFS{}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ChunkSize != 64 {
		t.Errorf("chunk_size: expected 64, got %d", cfg.ChunkSize)
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("logging.level: expected warn, got %q", cfg.Logging.Level)
	}
	if !cfg.Ordered {
		t.Error("expected ordered from env")
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linepar.yml")
	if err := os.WriteFile(path, []byte("workers: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("LINEPAR_WORKERS", "7")

	cfg, err := Load(WithConfigFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 7 {
		t.Errorf("expected env to win, got %d", cfg.Workers)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	if err := os.WriteFile(path, []byte("LINEPAR_SEPARATOR=|\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	// godotenv never overrides existing variables; register cleanup for the
	// one it sets.
	t.Setenv("LINEPAR_SEPARATOR", "")
	os.Unsetenv("LINEPAR_SEPARATOR")

	cfg, err := Load(WithConfigFile(""), WithEnvFile(path))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Separator != "|" {
		t.Errorf("separator: expected |, got %q", cfg.Separator)
	}
}

func TestLoadFlagsOverrideEnv(t *testing.T) {
	t.Setenv("LINEPAR_WORKERS", "5")
	t.Setenv("LINEPAR_CHUNK_SIZE", "10")

	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.Int("workers", 0, "")
	fs.Int("chunk-size", 0, "")
	fs.String("level", "", "")
	if err := fs.Parse([]string{"--workers=3", "--level=debug"}); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(
		WithFileSystem(&mockFS{}),
		WithFlags(fs, map[string]string{"level": "logging.level"}),
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Workers != 3 {
		t.Errorf("workers: expected flag value 3, got %d", cfg.Workers)
	}
	if cfg.ChunkSize != 10 {
		t.Errorf("chunk_size: unset flag should leave env value 10, got %d", cfg.ChunkSize)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("logging.level: expected debug, got %q", cfg.Logging.Level)
	}
}

func TestGenerateEnvKeyVariants(t *testing.T) {
	tests := []struct {
		input    string
		expected []string
	}{
		{"WORKERS", []string{"workers"}},
		{"CHUNK_SIZE", []string{"chunk_size", "chunk.size"}},
		{"TELEMETRY_SAMPLE_RATE", []string{
			"telemetry_sample_rate",
			"telemetry.sample.rate",
			"telemetry.sample_rate",
			"telemetry_sample.rate",
		}},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := generateEnvKeyVariants(tc.input)
			for _, want := range tc.expected {
				found := false
				for _, g := range got {
					if g == want {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected variant %q in %v", want, got)
				}
			}
			seen := map[string]bool{}
			for _, g := range got {
				if seen[g] {
					t.Errorf("duplicate variant %q", g)
				}
				seen[g] = true
			}
		})
	}
}

func TestLoaderOptions(t *testing.T) {
	fs := &mockFS{}
	flags := pflag.NewFlagSet("x", pflag.ContinueOnError)
	var lc LoaderConfig
	for _, opt := range []LoaderOption{
		WithFileSystem(fs),
		WithConfigFile("a.yml"),
		WithEnvFile("b.env"),
		WithDefaults(map[string]any{"workers": 1}),
		WithFlags(flags, map[string]string{"n": "workers"}),
	} {
		opt(&lc)
	}
	if lc.FileSystem != fs || lc.ConfigFile != "a.yml" || lc.EnvFile != "b.env" {
		t.Errorf("unexpected loader config: %+v", lc)
	}
	if lc.Defaults["workers"] != 1 || lc.Flags != flags || lc.FlagKeys["n"] != "workers" {
		t.Errorf("unexpected defaults or flags: %+v", lc)
	}
	if flagKey("chunk-size", nil) != "chunk_size" {
		t.Errorf("expected dashes to become underscores")
	}
}
