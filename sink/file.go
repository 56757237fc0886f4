package sink

import (
	"bufio"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/kbukum/linepar/errors"
	"github.com/kbukum/linepar/source"
)

// Stdout is the output name that selects standard output.
const Stdout = "-"

const writeBufferSize = 256 << 10

// Option configures a file or writer sink.
type Option func(*fileOptions)

type fileOptions struct {
	newline Newline
	level   int
}

// WithNewline sets the line terminator. Invalid values are ignored.
func WithNewline(n Newline) Option {
	return func(o *fileOptions) {
		if n.Valid() {
			o.newline = n
		}
	}
}

// WithCompressionLevel sets the gzip level used for ".gz" paths.
func WithCompressionLevel(level int) Option {
	return func(o *fileOptions) { o.level = level }
}

// File streams lines to an io.Writer, optionally through gzip.
type File struct {
	name    string
	newline string
	buf     *bufio.Writer
	zw      *gzip.Writer
	closer  io.Closer
	written int64
	bytes   int64
	closed  bool
	err     error
}

// Create truncates or creates path and returns a sink writing to it. A path
// ending in ".gz" is gzip-compressed; "-" writes to standard output.
func Create(path string, opts ...Option) (*File, error) {
	if path == Stdout {
		return NewWriter(os.Stdout, "stdout", opts...), nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.IO("create", path, err)
	}
	o := applyOptions(opts)
	s := &File{name: path, newline: string(o.newline), closer: f}
	if source.IsCompressed(path) {
		zw, err := gzip.NewWriterLevel(f, o.level)
		if err != nil {
			f.Close()
			return nil, errors.InvalidInput("compression_level", err.Error())
		}
		s.zw = zw
		s.buf = bufio.NewWriterSize(zw, writeBufferSize)
	} else {
		s.buf = bufio.NewWriterSize(f, writeBufferSize)
	}
	return s, nil
}

// NewWriter returns a sink writing plain text to w. The sink never closes w.
func NewWriter(w io.Writer, name string, opts ...Option) *File {
	o := applyOptions(opts)
	return &File{
		name:    name,
		newline: string(o.newline),
		buf:     bufio.NewWriterSize(w, writeBufferSize),
	}
}

func applyOptions(opts []Option) fileOptions {
	o := fileOptions{newline: LF, level: gzip.DefaultCompression}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Name returns the output name used in errors.
func (s *File) Name() string { return s.name }

// Written returns the number of lines accepted so far.
func (s *File) Written() int64 { return s.written }

// Bytes returns the number of uncompressed bytes accepted so far,
// terminators included.
func (s *File) Bytes() int64 { return s.bytes }

// Write writes each line followed by the terminator and flushes the chunk
// through to the underlying writer. After the first failure every call
// returns the same TRUNCATED_WRITE error.
func (s *File) Write(lines []string) error {
	if s.err != nil {
		return s.err
	}
	if s.closed {
		return errors.TruncatedWrite(s.name, os.ErrClosed)
	}
	for _, line := range lines {
		if _, err := s.buf.WriteString(line); err != nil {
			return s.fail(err)
		}
		if _, err := s.buf.WriteString(s.newline); err != nil {
			return s.fail(err)
		}
		s.written++
		s.bytes += int64(len(line) + len(s.newline))
	}
	return s.flush()
}

func (s *File) flush() error {
	if err := s.buf.Flush(); err != nil {
		return s.fail(err)
	}
	if s.zw != nil {
		if err := s.zw.Flush(); err != nil {
			return s.fail(err)
		}
	}
	return nil
}

func (s *File) fail(err error) error {
	s.err = errors.TruncatedWrite(s.name, err)
	return s.err
}

// Close flushes buffered data, finishes the gzip stream and closes the
// file. The first error encountered is returned.
func (s *File) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var first error
	if s.err == nil {
		first = s.flush()
	}
	if s.zw != nil {
		if err := s.zw.Close(); err != nil && first == nil {
			first = errors.TruncatedWrite(s.name, err)
		}
	}
	if s.closer != nil {
		if err := s.closer.Close(); err != nil && first == nil {
			first = errors.IO("close", s.name, err)
		}
	}
	return first
}
