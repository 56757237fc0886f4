package config

import (
	"runtime"
	"strings"

	"github.com/kbukum/linepar/loader"
	"github.com/kbukum/linepar/logger"
	"github.com/kbukum/linepar/observability"
	"github.com/kbukum/linepar/process"
	"github.com/kbukum/linepar/validation"
)

// Config holds the settings for one linepar invocation.
type Config struct {
	Input          string `yaml:"input" mapstructure:"input"`
	Output         string `yaml:"output" mapstructure:"output"`
	Workers        int    `yaml:"workers" mapstructure:"workers" validate:"gte=1"`
	ChunkSize      int    `yaml:"chunk_size" mapstructure:"chunk_size" validate:"gte=1"`
	Ordered        bool   `yaml:"ordered" mapstructure:"ordered"`
	LineNumbers    bool   `yaml:"line_numbers" mapstructure:"line_numbers"`
	Newline        string `yaml:"newline" mapstructure:"newline" validate:"oneof=lf crlf"`
	Async          bool   `yaml:"async" mapstructure:"async"`
	Progress       bool   `yaml:"progress" mapstructure:"progress"`
	EstimateBudget int64  `yaml:"estimate_budget" mapstructure:"estimate_budget" validate:"gte=-1"`

	Transform string         `yaml:"transform" mapstructure:"transform" validate:"required"`
	Pattern   string         `yaml:"pattern" mapstructure:"pattern"`
	Separator string         `yaml:"separator" mapstructure:"separator"`
	Exec      process.Config `yaml:"exec" mapstructure:"exec"`

	Logging   logger.Config        `yaml:"logging" mapstructure:"logging"`
	Telemetry observability.Config `yaml:"telemetry" mapstructure:"telemetry"`
}

// Default returns the built-in settings.
func Default() *Config {
	cfg := &Config{Async: true, Logging: logger.Config{Timestamp: true}}
	cfg.ApplyDefaults()
	return cfg
}

func defaultValues() map[string]any {
	d := Default()
	return map[string]any{
		"workers":                d.Workers,
		"chunk_size":             d.ChunkSize,
		"ordered":                d.Ordered,
		"line_numbers":           d.LineNumbers,
		"newline":                d.Newline,
		"async":                  d.Async,
		"progress":               d.Progress,
		"estimate_budget":        d.EstimateBudget,
		"transform":              d.Transform,
		"logging.level":          d.Logging.Level,
		"logging.format":         d.Logging.Format,
		"logging.output":         d.Logging.Output,
		"logging.timestamp":      d.Logging.Timestamp,
		"telemetry.sample_rate":  d.Telemetry.SampleRate,
		"telemetry.interval":     d.Telemetry.Interval,
		"telemetry.service_name": d.Telemetry.ServiceName,
		"telemetry.environment":  d.Telemetry.Environment,
	}
}

// ApplyDefaults fills unset fields. Booleans are left alone; their defaults
// come from Default and the loader.
func (c *Config) ApplyDefaults() {
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = loader.DefaultChunkSize
	}
	if c.Newline == "" {
		c.Newline = "lf"
	}
	if c.Transform == "" {
		c.Transform = "identity"
	}
	c.Logging.ApplyDefaults()
	c.Telemetry.ApplyDefaults()
}

// Validate checks struct tags, the nested sections and the parameters the
// selected transform needs.
func (c *Config) Validate() error {
	v := validation.New()
	v.Merge("", validation.Validate(c))
	v.Merge("logging", c.Logging.Validate())
	v.Custom(c.Transform != "exec" || strings.TrimSpace(c.Exec.Command) != "",
		"exec.command", "is required by the exec transform")
	v.Custom((c.Transform != "grep" && c.Transform != "grep-v") || c.Pattern != "",
		"pattern", "is required by the "+c.Transform+" transform")
	return v.Err()
}
