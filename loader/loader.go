package loader

import (
	"bufio"
	"context"
	stderrors "errors"
	"io"
	"strings"
	"sync"

	"github.com/kbukum/linepar/errors"
	"github.com/kbukum/linepar/logger"
	"github.com/kbukum/linepar/source"
)

const readBufferSize = 1 << 20

// handoff is one message from the background reader. eof marks the last
// message the reader will ever send; err, if set, is why it stopped early.
type handoff struct {
	chunk Chunk
	eof   bool
	err   error
}

// Loader produces chunks of lines from a single input.
//
// Get, EOF and Close must be called from one goroutine.
type Loader struct {
	opts   options
	log    *logger.Logger
	r      *bufio.Reader
	closer io.Closer

	// reader side; touched only by whoever performs reads
	lineNum   int64
	exhausted bool

	// consumer side
	eof     bool
	closed  bool
	started bool
	chunks  int

	ch        chan handoff
	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// Open opens path through source.Open and returns a Loader owning the
// handle. Open failures are returned immediately.
func Open(path string, opts ...Option) (*Loader, error) {
	rc, err := source.Open(path)
	if err != nil {
		return nil, err
	}
	return New(rc, append([]Option{WithName(path)}, append(opts, WithCloser(rc))...)...), nil
}

// New returns a Loader reading from r. The caller keeps ownership of r
// unless it is handed over with WithCloser.
func New(r io.Reader, opts ...Option) *Loader {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	log := o.log
	if log == nil {
		log = logger.Get("loader")
	}
	return &Loader{
		opts:   o,
		closer: o.closer,
		log:    log.WithFields(logger.Fields(logger.FieldPath, o.name)),
		r:      bufio.NewReaderSize(r, readBufferSize),
		ch:     make(chan handoff, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// ChunkSize returns the configured lines per chunk.
func (l *Loader) ChunkSize() int { return l.opts.chunkSize }

// Get returns the next chunk. The zero-length chunk marks end of input; it
// is produced once by the input and returned again by every later call. A
// read error ends the input: Get returns it together with the terminal
// chunk.
func (l *Loader) Get(ctx context.Context) (Chunk, error) {
	if l.eof || l.closed {
		return Chunk{}, nil
	}

	if !l.opts.async {
		chunk, err := l.readChunk()
		if err != nil || chunk.IsTerminal() {
			l.finish(err)
			return Chunk{}, err
		}
		l.observe(chunk)
		return chunk, nil
	}

	if !l.started {
		l.started = true
		go l.readLoop()
	}

	select {
	case msg, ok := <-l.ch:
		if !ok || msg.eof {
			l.finish(msg.err)
			return Chunk{}, msg.err
		}
		l.observe(msg.chunk)
		return msg.chunk, nil
	case <-ctx.Done():
		return Chunk{}, ctx.Err()
	}
}

// EOF reports whether this consumer has already received the terminal chunk.
func (l *Loader) EOF() bool { return l.eof }

// Close stops the background reader, waits for it to exit, and releases
// the input handle if the Loader owns one. Close is idempotent.
//
// The reader only notices the stop between chunks, so Close blocks until
// the chunk being read fills up or the input ends. On a pipe or stdin fed
// by a slow producer that lasts as long as the producer takes to write
// those lines or close its end.
func (l *Loader) Close() error {
	l.closeOnce.Do(func() {
		l.closed = true
		if l.started {
			close(l.stop)
			<-l.done
		}
		if l.closer != nil {
			if err := l.closer.Close(); err != nil {
				l.closeErr = errors.IO("close", l.opts.name, err)
			}
		}
	})
	return l.closeErr
}

// readLoop runs on the background goroutine. Every path out of the loop
// other than Close sends a message tagged eof first.
func (l *Loader) readLoop() {
	defer close(l.done)
	defer close(l.ch)
	for {
		chunk, err := l.readChunk()
		msg := handoff{chunk: chunk}
		if err != nil || chunk.IsTerminal() {
			msg = handoff{eof: true, err: err}
		}
		select {
		case l.ch <- msg:
		case <-l.stop:
			return
		}
		if msg.eof {
			return
		}
	}
}

// readChunk reads up to chunkSize lines. Once the input is exhausted it
// returns the empty chunk without reading again.
func (l *Loader) readChunk() (Chunk, error) {
	if l.exhausted {
		return Chunk{}, nil
	}

	lines := make([]string, 0, l.opts.chunkSize)
	var nbytes int64
	for len(lines) < l.opts.chunkSize {
		raw, err := l.r.ReadString('\n')
		if len(raw) > 0 {
			nbytes += int64(len(raw))
			lines = append(lines, trimNewline(raw))
		}
		if stderrors.Is(err, io.EOF) {
			l.exhausted = true
			break
		}
		if err != nil {
			l.exhausted = true
			return Chunk{}, errors.IO("read", l.opts.name, err)
		}
	}
	if len(lines) == 0 {
		return Chunk{}, nil
	}

	chunk := Chunk{Lines: lines, Bytes: nbytes}
	if l.opts.lineNumbers {
		chunk.First = l.lineNum + 1
	}
	l.lineNum += int64(len(lines))
	return chunk, nil
}

func (l *Loader) observe(chunk Chunk) {
	l.chunks++
	l.log.Debug("chunk loaded", logger.Fields(
		logger.FieldChunk, l.chunks,
		logger.FieldLines, chunk.Len(),
		logger.FieldBytes, chunk.Bytes,
	))
}

func (l *Loader) finish(err error) {
	l.eof = true
	if err != nil {
		l.log.Error("input ended with error", logger.ErrorFields("read", err))
		return
	}
	l.log.Debug("input exhausted", logger.Fields(logger.FieldChunk, l.chunks))
}

// trimNewline strips one trailing "\n" or "\r\n".
func trimNewline(s string) string {
	if !strings.HasSuffix(s, "\n") {
		return s
	}
	s = s[:len(s)-1]
	return strings.TrimSuffix(s, "\r")
}
