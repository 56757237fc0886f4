package sink

import (
	"strings"

	"github.com/kbukum/linepar/errors"
)

// Sink receives the surviving results of one chunk at a time.
type Sink interface {
	// Write appends lines in the given order.
	Write(lines []string) error
	// Close flushes and releases the sink. It is safe to call more than once.
	Close() error
}

// Newline is a line terminator.
type Newline string

// Supported terminators.
const (
	LF   Newline = "\n"
	CRLF Newline = "\r\n"
)

// String returns the config name of the terminator.
func (n Newline) String() string {
	switch n {
	case LF:
		return "lf"
	case CRLF:
		return "crlf"
	default:
		return "unknown"
	}
}

// Valid reports whether n is LF or CRLF.
func (n Newline) Valid() bool { return n == LF || n == CRLF }

// ParseNewline maps "lf" and "crlf" (any case) to a terminator. The empty
// string selects LF.
func ParseNewline(s string) (Newline, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "lf":
		return LF, nil
	case "crlf":
		return CRLF, nil
	default:
		return "", errors.InvalidInput("newline", "must be one of lf crlf, got "+s)
	}
}
