package source

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/kbukum/linepar/errors"
)

// CompressedSuffix marks gzip-compressed inputs.
const CompressedSuffix = ".gz"

// Stdin is the path that selects standard input.
const Stdin = "-"

// IsCompressed reports whether path names a gzip-compressed input.
func IsCompressed(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), CompressedSuffix)
}

// multiReadCloser closes multiple io.Closers when Close() is called.
type multiReadCloser struct {
	io.Reader
	closers []io.Closer
}

func (m *multiReadCloser) Close() error {
	var err error
	for _, c := range m.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// Open returns a reader over the decoded text of path. A ".gz" suffix
// substitutes a gzip decoder over the file; "-" reads standard input.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdin {
		return io.NopCloser(os.Stdin), nil
	}
	fh, err := os.Open(path)
	if err != nil {
		return nil, errors.IO("open", path, err)
	}
	if !IsCompressed(path) {
		return fh, nil
	}
	gr, err := gzip.NewReader(fh)
	if err == io.EOF {
		// zero-byte .gz: treat as an empty input
		return fh, nil
	}
	if err != nil {
		_ = fh.Close()
		return nil, errors.IO("open", path, err)
	}
	return &multiReadCloser{Reader: gr, closers: []io.Closer{gr, fh}}, nil
}

// InputSize returns the byte total progress should be measured against:
// the file size for plain inputs, or EstimateSize for gzip inputs. exact is
// false when the value is an extrapolation. Standard input has no size and
// returns 0.
func InputSize(path string, budget int64) (size int64, exact bool, err error) {
	if path == Stdin {
		return 0, false, nil
	}
	if IsCompressed(path) {
		est, err := EstimateSize(path, budget)
		if err != nil {
			return 0, false, err
		}
		return est.Bytes, est.Exact, nil
	}
	fi, err := os.Stat(path)
	if err != nil {
		return 0, false, errors.IO("stat", path, err)
	}
	return fi.Size(), true, nil
}
