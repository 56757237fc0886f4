package pipeline

import (
	"context"
	stderrors "errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/kbukum/linepar/errors"
	"github.com/kbukum/linepar/loader"
)

// job is one line tagged with its position in the chunk.
type job struct {
	seq int
	rec loader.Record
}

// outcome is a transformed line; keep is false for dropped lines.
type outcome struct {
	seq  int
	line string
	keep bool
}

// pool is a fixed set of workers alive for one run. The main goroutine
// dispatches one chunk, collects all of its outcomes, and only then
// dispatches the next, so neither channel ever holds more than one chunk.
type pool struct {
	g       *errgroup.Group
	ctx     context.Context
	fn      Transform
	jobs    chan job
	results chan outcome
	closed  bool
	err     error
}

func newPool(ctx context.Context, workers, chunkSize int, fn Transform) *pool {
	g, gctx := errgroup.WithContext(ctx)
	p := &pool{
		g:       g,
		ctx:     gctx,
		fn:      fn,
		jobs:    make(chan job, chunkSize),
		results: make(chan outcome, chunkSize),
	}
	for range workers {
		g.Go(p.work)
	}
	return p
}

func (p *pool) work() error {
	for {
		select {
		case j, ok := <-p.jobs:
			if !ok {
				return nil
			}
			out, err := p.apply(j)
			if err != nil {
				return err
			}
			p.results <- out
		case <-p.ctx.Done():
			return nil
		}
	}
}

func (p *pool) apply(j job) (out outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.WorkerFailure(j.rec.Index, fmt.Errorf("panic: %v", r))
		}
	}()

	line, err := p.fn(p.ctx, j.rec)
	switch {
	case err == nil:
		return outcome{seq: j.seq, line: line, keep: true}, nil
	case stderrors.Is(err, SkipLine):
		return outcome{seq: j.seq}, nil
	default:
		return outcome{}, errors.WorkerFailure(j.rec.Index, err)
	}
}

// process fans recs out to the workers and returns the kept lines, in input
// order when ordered is set and in completion order otherwise, together
// with the number of dropped lines.
func (p *pool) process(recs []loader.Record, ordered bool) ([]string, int, error) {
	for i, rec := range recs {
		p.jobs <- job{seq: i, rec: rec}
	}

	var slots []outcome
	if ordered {
		slots = make([]outcome, len(recs))
	}
	lines := make([]string, 0, len(recs))
	dropped := 0

	for range recs {
		select {
		case o := <-p.results:
			if !o.keep {
				dropped++
			}
			if ordered {
				slots[o.seq] = o
			} else if o.keep {
				lines = append(lines, o.line)
			}
		case <-p.ctx.Done():
			if err := p.close(); err != nil {
				return nil, 0, err
			}
			return nil, 0, errors.Internal(p.ctx.Err())
		}
	}

	if ordered {
		for _, o := range slots {
			if o.keep {
				lines = append(lines, o.line)
			}
		}
	}
	return lines, dropped, nil
}

// close stops the workers and returns the first worker error. It is safe
// to call more than once.
func (p *pool) close() error {
	if !p.closed {
		p.closed = true
		close(p.jobs)
		p.err = p.g.Wait()
	}
	return p.err
}
