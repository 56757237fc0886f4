package process

import (
	"io"
	"os"
	"strings"
	"time"
)

// DefaultGracePeriod is the wait between SIGTERM and SIGKILL when a
// Command does not set one.
const DefaultGracePeriod = 5 * time.Second

// Command is one subprocess invocation.
type Command struct {
	// Binary is the executable path or name (resolved via PATH).
	Binary string
	Args   []string
	// Dir is the working directory. If empty, uses the current directory.
	Dir string
	// Env is appended to the parent environment.
	Env []string
	// Stdin may be nil.
	Stdin io.Reader
	// GracePeriod is how long to wait after SIGTERM before SIGKILL.
	GracePeriod time.Duration
}

// WithStdin returns a copy of c reading s on standard input.
func (c Command) WithStdin(s string) Command {
	c.Stdin = strings.NewReader(s)
	return c
}

// String renders the command line for logs and errors.
func (c Command) String() string {
	if len(c.Args) == 0 {
		return c.Binary
	}
	return c.Binary + " " + strings.Join(c.Args, " ")
}

func (c Command) grace() time.Duration {
	if c.GracePeriod > 0 {
		return c.GracePeriod
	}
	return DefaultGracePeriod
}

// environ returns nil, inheriting the parent environment, unless Env adds
// variables.
func (c Command) environ() []string {
	if len(c.Env) == 0 {
		return nil
	}
	return append(os.Environ(), c.Env...)
}
