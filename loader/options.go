package loader

import (
	"io"

	"github.com/kbukum/linepar/logger"
)

// DefaultChunkSize is the number of lines per chunk when none is set.
const DefaultChunkSize = 1000

// Option configures a Loader.
type Option func(*options)

type options struct {
	chunkSize   int
	async       bool
	lineNumbers bool
	name        string
	closer      io.Closer
	log         *logger.Logger
}

func defaultOptions() options {
	return options{
		chunkSize: DefaultChunkSize,
		async:     true,
		name:      "input",
	}
}

// WithChunkSize sets the number of lines per chunk. Values < 1 are ignored.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// WithAsync selects background readahead (true, the default) or reading on
// the caller's goroutine (false).
func WithAsync(async bool) Option {
	return func(o *options) { o.async = async }
}

// WithLineNumbers makes chunks carry 1-based line indices.
func WithLineNumbers(enabled bool) Option {
	return func(o *options) { o.lineNumbers = enabled }
}

// WithName sets the name used for the input in errors and logs.
func WithName(name string) Option {
	return func(o *options) {
		if name != "" {
			o.name = name
		}
	}
}

// WithLogger sets the logger. Defaults to the "loader" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithCloser hands c to the Loader, which closes it on Close.
func WithCloser(c io.Closer) Option {
	return func(o *options) { o.closer = c }
}
