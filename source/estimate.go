package source

import (
	stderrors "errors"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/kbukum/linepar/errors"
)

const (
	// DefaultEstimateBudget is how many decompressed bytes EstimateSize
	// produces before extrapolating.
	DefaultEstimateBudget int64 = 20 << 20
	// EstimateAll makes EstimateSize decompress the whole file and return
	// the exact size.
	EstimateAll int64 = -1
)

// Estimate is the result of EstimateSize.
type Estimate struct {
	// Bytes is the estimated (or exact) decompressed size.
	Bytes int64
	// Exact is true when the whole stream was decompressed.
	Exact bool
	// CompressedSize is the size of the file on disk.
	CompressedSize int64
	// CompressedPrefix is how many compressed bytes were consumed.
	CompressedPrefix int64
	// DecompressedPrefix is how many bytes the consumed prefix expanded to.
	DecompressedPrefix int64
}

// Ratio returns the observed expansion ratio of the sampled prefix.
func (e Estimate) Ratio() float64 {
	if e.CompressedPrefix == 0 {
		return 0
	}
	return float64(e.DecompressedPrefix) / float64(e.CompressedPrefix)
}

// countingReader counts bytes pulled through it.
type countingReader struct {
	r io.Reader
	n int64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += int64(n)
	return n, err
}

// EstimateSize approximates the decompressed size of the gzip file at path
// by decompressing up to budget bytes and scaling the file size by the
// observed ratio. A budget of EstimateAll (or any negative value)
// decompresses everything and returns the exact size; so does a stream that
// ends before the budget is spent. budget == 0 selects DefaultEstimateBudget.
//
// The compressed prefix includes whatever the decoder buffered ahead, so the
// ratio slightly undershoots; callers clamp progress to the estimate.
func EstimateSize(path string, budget int64) (Estimate, error) {
	if !IsCompressed(path) {
		return Estimate{}, errors.InvalidInput("path", "size estimation needs a "+CompressedSuffix+" file, got "+path)
	}
	if budget == 0 {
		budget = DefaultEstimateBudget
	}

	fh, err := os.Open(path)
	if err != nil {
		return Estimate{}, errors.IO("open", path, err)
	}
	defer fh.Close()

	fi, err := fh.Stat()
	if err != nil {
		return Estimate{}, errors.IO("stat", path, err)
	}
	est := Estimate{CompressedSize: fi.Size()}

	cr := &countingReader{r: fh}
	gr, err := gzip.NewReader(cr)
	if err == io.EOF {
		est.Exact = true
		return est, nil
	}
	if err != nil {
		return Estimate{}, errors.IO("read", path, err)
	}
	defer gr.Close()

	var n int64
	if budget < 0 {
		n, err = io.Copy(io.Discard, gr)
		est.Exact = err == nil
	} else {
		n, err = io.CopyN(io.Discard, gr, budget)
		if stderrors.Is(err, io.EOF) {
			est.Exact = true
			err = nil
		}
	}
	if err != nil {
		return Estimate{}, errors.IO("read", path, err)
	}

	est.CompressedPrefix = cr.n
	est.DecompressedPrefix = n
	if est.Exact {
		est.Bytes = n
		return est, nil
	}
	est.Bytes = Extrapolate(est.CompressedSize, est.CompressedPrefix, est.DecompressedPrefix)
	return est, nil
}

// Extrapolate scales compressedSize by decompressedPrefix/compressedPrefix.
func Extrapolate(compressedSize, compressedPrefix, decompressedPrefix int64) int64 {
	if compressedPrefix <= 0 {
		return 0
	}
	return int64(float64(compressedSize) * (float64(decompressedPrefix) / float64(compressedPrefix)))
}
