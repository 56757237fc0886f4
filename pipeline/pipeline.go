package pipeline

import (
	"context"

	"github.com/kbukum/linepar/loader"
)

// Iterator provides pull-based sequential access to a stream of values.
type Iterator[T any] interface {
	// Next returns the next value. Returns (zero, false, nil) when exhausted.
	Next(ctx context.Context) (T, bool, error)
	// Close releases any resources held by the iterator.
	Close() error
}

// Chunks adapts a Loader to an Iterator. The terminal chunk ends the
// iteration; it is never yielded as a value.
func Chunks(l *loader.Loader) Iterator[loader.Chunk] {
	return &chunkIter{l: l}
}

type chunkIter struct {
	l *loader.Loader
}

func (it *chunkIter) Next(ctx context.Context) (loader.Chunk, bool, error) {
	chunk, err := it.l.Get(ctx)
	if err != nil {
		return loader.Chunk{}, false, err
	}
	if chunk.IsTerminal() {
		return loader.Chunk{}, false, nil
	}
	return chunk, true, nil
}

func (it *chunkIter) Close() error { return it.l.Close() }

// Drain pulls every value from iter and hands it to fn, stopping at the
// first error. iter is closed on return.
func Drain[T any](ctx context.Context, iter Iterator[T], fn func(context.Context, T) error) (err error) {
	defer func() {
		if cerr := iter.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()
	for {
		val, ok, err := iter.Next(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := fn(ctx, val); err != nil {
			return err
		}
	}
}
