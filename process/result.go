package process

import (
	"fmt"
	"strings"
	"time"
)

// Result holds the output and status of a completed subprocess.
type Result struct {
	Stdout []byte
	Stderr []byte
	// ExitCode is -1 if the process was killed.
	ExitCode int
	Duration time.Duration
}

// Line returns stdout with one trailing LF or CRLF removed.
func (r *Result) Line() string {
	out := strings.TrimSuffix(string(r.Stdout), "\n")
	return strings.TrimSuffix(out, "\r")
}

// StderrText returns stderr without surrounding whitespace.
func (r *Result) StderrText() string {
	return strings.TrimSpace(string(r.Stderr))
}

// ExitError reports a command that ran but did not exit cleanly.
type ExitError struct {
	Command string
	Code    int
	Stderr  string
	Err     error
}

func (e *ExitError) Error() string {
	msg := fmt.Sprintf("%s: exit code %d", e.Command, e.Code)
	if e.Stderr != "" {
		msg += ": " + e.Stderr
	}
	return msg
}

func (e *ExitError) Unwrap() error { return e.Err }
