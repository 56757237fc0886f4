package process

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"syscall"
	"time"

	"github.com/kbukum/linepar/errors"
	"github.com/kbukum/linepar/logger"
)

// Run executes cmd and waits for it. When ctx ends first the process group
// gets SIGTERM, then SIGKILL once the grace period has passed. A non-zero
// exit is returned as *ExitError alongside the Result.
func Run(ctx context.Context, cmd Command) (*Result, error) {
	if cmd.Binary == "" {
		return nil, errors.InvalidInput("binary", "is required")
	}

	c := exec.CommandContext(ctx, cmd.Binary, cmd.Args...) //nolint:gosec // running the configured command is the point
	c.Dir = cmd.Dir
	c.Env = cmd.environ()
	c.Stdin = cmd.Stdin

	var stdout, stderr bytes.Buffer
	c.Stdout = &stdout
	c.Stderr = &stderr

	// Own process group so a shell and its children are signaled together.
	c.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	c.Cancel = func() error {
		if c.Process == nil {
			return nil
		}
		return syscall.Kill(-c.Process.Pid, syscall.SIGTERM)
	}
	c.WaitDelay = cmd.grace()

	start := time.Now()
	err := c.Run()
	res := &Result{
		Stdout:   stdout.Bytes(),
		Stderr:   stderr.Bytes(),
		ExitCode: c.ProcessState.ExitCode(),
		Duration: time.Since(start),
	}

	logger.Get("process").Debug("command finished", logger.Fields(
		logger.FieldOperation, cmd.Binary,
		"exit_code", res.ExitCode,
		logger.FieldDuration, res.Duration.Milliseconds(),
	))

	if err == nil {
		return res, nil
	}
	if ctx.Err() != nil {
		return res, fmt.Errorf("%s: killed: %w", cmd, ctx.Err())
	}
	return res, &ExitError{Command: cmd.String(), Code: res.ExitCode, Stderr: res.StderrText(), Err: err}
}
