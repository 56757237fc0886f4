package process

import (
	"context"
	"strings"
	"time"

	"github.com/kbukum/linepar/errors"
)

// Config configures an Adapter that pipes single lines through a command.
type Config struct {
	// Command is the command line. With Shell it is passed to "sh -c",
	// otherwise it is split on whitespace into binary and arguments.
	Command string `yaml:"command,omitempty" mapstructure:"command"`
	// Shell runs Command through /bin/sh.
	Shell bool `yaml:"shell,omitempty" mapstructure:"shell"`
	// Dir is the working directory.
	Dir string `yaml:"dir,omitempty" mapstructure:"dir"`
	// Env is additional environment variables (key=value).
	Env []string `yaml:"env,omitempty" mapstructure:"env"`
	// GracePeriod is the default grace period for SIGTERM→SIGKILL.
	GracePeriod time.Duration `yaml:"grace_period,omitempty" mapstructure:"grace_period"`
	// Timeout bounds each invocation. Zero means no timeout.
	Timeout time.Duration `yaml:"timeout,omitempty" mapstructure:"timeout" validate:"gte=0"`
}

// Adapter runs a fixed command once per line.
type Adapter struct {
	config Config
	base   Command
}

// NewAdapter creates a new process adapter for cfg.Command.
func NewAdapter(cfg Config) (*Adapter, error) {
	command := strings.TrimSpace(cfg.Command)
	if command == "" {
		return nil, errors.InvalidInput("exec.command", "is required")
	}
	base := Command{Dir: cfg.Dir, Env: cfg.Env, GracePeriod: cfg.GracePeriod}
	if cfg.Shell {
		base.Binary = "sh"
		base.Args = []string{"-c", command}
	} else {
		fields := strings.Fields(command)
		base.Binary = fields[0]
		base.Args = fields[1:]
	}
	return &Adapter{config: cfg, base: base}, nil
}

// Run executes a command, applying adapter-level defaults.
func (a *Adapter) Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.GracePeriod == 0 && a.config.GracePeriod > 0 {
		cmd.GracePeriod = a.config.GracePeriod
	}
	if a.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.config.Timeout)
		defer cancel()
	}
	return Run(ctx, cmd)
}

// Line writes line plus "\n" to the command's stdin and returns its stdout
// with one trailing newline removed. A non-zero exit is an *ExitError
// carrying the command's stderr.
func (a *Adapter) Line(ctx context.Context, line string) (string, error) {
	res, err := a.Run(ctx, a.base.WithStdin(line+"\n"))
	if err != nil {
		return "", err
	}
	return res.Line(), nil
}

// Name returns the binary the adapter runs.
func (a *Adapter) Name() string {
	return a.base.Binary
}
