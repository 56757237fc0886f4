package logger

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevel(t *testing.T) {
	cfg := &Config{Level: "invalid-level", Format: "json", Output: "stderr"}
	l := New(cfg, "test")
	if l == nil {
		t.Fatal("expected logger to be created even with invalid level")
	}
}

func TestNewFromEnv(t *testing.T) {
	t.Setenv("LINEPAR_LOGGING_LEVEL", "warn")
	t.Setenv("LINEPAR_LOGGING_FORMAT", "json")

	l := NewFromEnv("env-svc")
	if l.Enabled(zerolog.InfoLevel) {
		t.Error("expected info to be filtered at warn level")
	}
	if !l.Enabled(zerolog.WarnLevel) {
		t.Error("expected warn to be enabled")
	}
}

func TestNewWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "debug", Format: "json"}, "test", &buf)
	l.WithComponent("loader").WithRunID("r-1").Debug("chunk read", Fields(FieldLines, 3))

	var entry map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if entry[FieldComponent] != "loader" {
		t.Errorf("expected component=loader, got %v", entry[FieldComponent])
	}
	if entry[FieldRunID] != "r-1" {
		t.Errorf("expected run_id=r-1, got %v", entry[FieldRunID])
	}
	if entry[FieldLines] != float64(3) {
		t.Errorf("expected lines=3, got %v", entry[FieldLines])
	}
	if entry["message"] != "chunk read" {
		t.Errorf("expected message 'chunk read', got %v", entry["message"])
	}
}

func TestNewWithWriter_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "warn", Format: "json"}, "test", &buf)
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Errorf("expected info to be filtered at warn level, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected warn message, got %q", buf.String())
	}
}

func TestEnabled(t *testing.T) {
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "test", &bytes.Buffer{})
	if l.Enabled(zerolog.DebugLevel) {
		t.Error("expected debug to be disabled at info level")
	}
	if !l.Enabled(zerolog.InfoLevel) {
		t.Error("expected info to be enabled at info level")
	}
}

func TestConsoleNoColor(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "console", NoColor: true}, "test", &buf)
	l.Info("progress", Fields(FieldPercent, 50))
	out := buf.String()
	if !strings.Contains(out, "[INF]") {
		t.Errorf("expected [INF] tag, got %q", out)
	}
	if strings.Contains(out, "\033[") {
		t.Errorf("expected no ANSI escapes, got %q", out)
	}
	if !strings.Contains(out, "percent:") {
		t.Errorf("expected field name, got %q", out)
	}
}

func TestNop(t *testing.T) {
	// must not panic
	Nop().WithComponent("x").Error("discarded")
}

func TestWithComponent(t *testing.T) {
	l := NewDefault("test")
	cl := l.WithComponent("pipeline")
	if cl.service != "test" {
		t.Errorf("service should be preserved, got %q", cl.service)
	}
}

func TestWithFieldsAndError(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: "info", Format: "json"}, "test", &buf)
	l.WithFields(map[string]interface{}{"key": "value"}).WithError(fmt.Errorf("bad")).Error("failed")
	out := buf.String()
	if !strings.Contains(out, `"key":"value"`) || !strings.Contains(out, `"error":"bad"`) {
		t.Errorf("expected key and error fields, got %q", out)
	}
}

func TestInit(t *testing.T) {
	Init(&Config{Level: "info", Format: "console"})
	if GetGlobalLogger() == nil {
		t.Fatal("expected global logger to be set after Init")
	}
}

func TestGetGlobalLoggerDefault(t *testing.T) {
	t.Setenv("LINEPAR_LOGGING_LEVEL", "error")
	SetGlobalLogger(nil)
	t.Cleanup(func() { SetGlobalLogger(nil) })

	l := GetGlobalLogger()
	if l == nil {
		t.Fatal("expected default global logger to be created")
	}
	if l.Enabled(zerolog.WarnLevel) {
		t.Error("expected the default logger to follow LINEPAR_LOGGING_LEVEL")
	}
}

func TestSetGlobalLogger(t *testing.T) {
	l := NewDefault("custom")
	SetGlobalLogger(l)
	if GetGlobalLogger() != l {
		t.Error("expected SetGlobalLogger to set the global logger")
	}
}

func TestConfigApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.Level != "info" {
		t.Errorf("expected level 'info', got %q", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected format 'console', got %q", cfg.Format)
	}
	if cfg.Output != "stderr" {
		t.Errorf("expected output 'stderr', got %q", cfg.Output)
	}
	if cfg.Timestamp {
		t.Error("expected Timestamp to be left as given")
	}

	cfg = Config{Timestamp: true}
	cfg.ApplyDefaults()
	if !cfg.Timestamp {
		t.Error("expected Timestamp to be kept")
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "info", Format: "json", Output: "stderr"}, false},
		{"valid console", Config{Level: "debug", Format: "console", Output: "stdout"}, false},
		{"invalid level", Config{Level: "bad", Format: "json", Output: "stderr"}, true},
		{"invalid format", Config{Level: "info", Format: "xml", Output: "stderr"}, true},
		{"invalid output", Config{Level: "info", Format: "json", Output: "file"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}

	err := (&Config{Level: "loud", Format: "xml", Output: "stderr"}).Validate()
	if err == nil || !strings.Contains(err.Error(), "level") || !strings.Contains(err.Error(), "format") {
		t.Errorf("expected both level and format reported, got %v", err)
	}
}

func TestGetCachesUntilInit(t *testing.T) {
	Init(&Config{Level: "info", Format: "json"})
	first := Get("loader")
	if first == nil {
		t.Fatal("expected non-nil logger for unregistered component")
	}
	if Get("loader") != first {
		t.Error("expected the derived logger to be cached")
	}

	Init(&Config{Level: "error", Format: "json"})
	second := Get("loader")
	if second == first {
		t.Error("expected Init to drop derived loggers")
	}
	if second.Enabled(zerolog.InfoLevel) {
		t.Error("expected the new logger to follow the new level")
	}
}

func TestFields(t *testing.T) {
	tests := []struct {
		name     string
		input    []interface{}
		expected map[string]interface{}
	}{
		{"key-value pairs", []interface{}{"op", "save", "id", 42}, map[string]interface{}{"op": "save", "id": 42}},
		{"odd number of args", []interface{}{"op", "save", "trailing"}, map[string]interface{}{"op": "save"}},
		{"empty", []interface{}{}, map[string]interface{}{}},
		{"non-string key skipped", []interface{}{123, "value", "key", "val"}, map[string]interface{}{"key": "val"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := Fields(tc.input...)
			if len(result) != len(tc.expected) {
				t.Errorf("expected %d fields, got %d", len(tc.expected), len(result))
			}
			for k, v := range tc.expected {
				if result[k] != v {
					t.Errorf("Fields[%q] = %v, expected %v", k, result[k], v)
				}
			}
		})
	}
}

func TestErrorFields(t *testing.T) {
	fields := ErrorFields("read-chunk", fmt.Errorf("something broke"))
	if fields[FieldOperation] != "read-chunk" {
		t.Errorf("expected operation 'read-chunk', got %v", fields[FieldOperation])
	}
	if fields[FieldError] != "something broke" {
		t.Errorf("expected error 'something broke', got %v", fields[FieldError])
	}
}

func TestMergeWithError(t *testing.T) {
	err := fmt.Errorf("test error")
	result := MergeWithError(map[string]interface{}{"op": "save"}, err)
	if result[FieldError] != "test error" || result["op"] != "save" {
		t.Errorf("unexpected merge result %v", result)
	}
	if MergeWithError(nil, err)[FieldError] != "test error" {
		t.Error("expected error field from nil map")
	}
}
