package source

import (
	"bytes"
	stderrors "errors"
	"io"

	"github.com/kbukum/linepar/errors"
)

// DefaultCountBufferSize is the read size used by CountLines.
const DefaultCountBufferSize = 4 << 20

// CountOption configures CountLines.
type CountOption func(*countOptions)

type countOptions struct {
	bufSize int
}

// WithBufferSize sets the read buffer size. Values < 1 are ignored.
func WithBufferSize(n int) CountOption {
	return func(o *countOptions) {
		if n > 0 {
			o.bufSize = n
		}
	}
}

// CountLines counts '\n' bytes in r. A final line without a terminator is
// not counted, so "a\nb\nc" yields 2.
func CountLines(r io.Reader, opts ...CountOption) (int64, error) {
	o := countOptions{bufSize: DefaultCountBufferSize}
	for _, opt := range opts {
		opt(&o)
	}

	buf := make([]byte, o.bufSize)
	var count int64
	for {
		n, err := r.Read(buf)
		count += int64(bytes.Count(buf[:n], []byte{'\n'}))
		if stderrors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, err
		}
	}
}

// CountFileLines counts the lines of path, decompressing ".gz" inputs.
func CountFileLines(path string, opts ...CountOption) (int64, error) {
	rc, err := Open(path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()
	n, err := CountLines(rc, opts...)
	if err != nil {
		return n, errors.IO("read", path, err)
	}
	return n, nil
}
