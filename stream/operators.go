package stream

import (
	"context"
	"errors"
)

// Map transforms each chunk using fn.
func Map[T, U any](src Readable[T], fn func(context.Context, T) (U, error)) Readable[U] {
	return &mapReadable[T, U]{source: src, fn: fn}
}

// Tap calls fn as a side-effect for each chunk, then passes the chunk through unchanged.
// Use for logging or metrics.
func Tap[T any](src Readable[T], fn func(context.Context, T) error) Readable[T] {
	return &tapReadable[T]{source: src, fn: fn}
}

// Concat joins multiple sources sequentially.
// All chunks from the first source are yielded before the second, etc.
func Concat[T any](srcs ...Readable[T]) Readable[T] {
	return &concatReadable[T]{sources: srcs}
}

// Collect drains src into a single newly allocated slice and closes src.
func Collect[C ~[]byte](ctx context.Context, src Readable[C]) (out C, err error) {
	defer func() {
		err = errors.Join(err, src.Close())
	}()
	out = C{}
	for {
		chunk, ok, err := src.Read(ctx)
		if err != nil {
			return out, err
		}
		if !ok {
			return out, nil
		}
		out = append(out, chunk...)
	}
}

// CollectChunks drains src, copying every chunk (empty ones included), and closes src.
func CollectChunks[C ~[]byte](ctx context.Context, src Readable[C]) (chunks []C, err error) {
	defer func() {
		err = errors.Join(err, src.Close())
	}()
	for {
		chunk, ok, err := src.Read(ctx)
		if err != nil {
			return chunks, err
		}
		if !ok {
			return chunks, nil
		}
		chunks = append(chunks, append(C{}, chunk...))
	}
}

// --- Readable implementations ---

type mapReadable[T, U any] struct {
	source Readable[T]
	fn     func(context.Context, T) (U, error)
}

func (r *mapReadable[T, U]) Read(ctx context.Context) (U, bool, error) {
	val, ok, err := r.source.Read(ctx)
	if err != nil || !ok {
		var zero U
		return zero, false, err
	}
	out, err := r.fn(ctx, val)
	if err != nil {
		var zero U
		return zero, false, err
	}
	return out, true, nil
}

func (r *mapReadable[T, U]) Close() error { return r.source.Close() }

type tapReadable[T any] struct {
	source Readable[T]
	fn     func(context.Context, T) error
}

func (r *tapReadable[T]) Read(ctx context.Context) (T, bool, error) {
	val, ok, err := r.source.Read(ctx)
	if err != nil || !ok {
		return val, ok, err
	}
	if err := r.fn(ctx, val); err != nil {
		var zero T
		return zero, false, err
	}
	return val, true, nil
}

func (r *tapReadable[T]) Close() error { return r.source.Close() }

type concatReadable[T any] struct {
	sources []Readable[T]
	index   int
}

func (r *concatReadable[T]) Read(ctx context.Context) (T, bool, error) {
	for r.index < len(r.sources) {
		val, ok, err := r.sources[r.index].Read(ctx)
		if err != nil {
			return val, false, err
		}
		if ok {
			return val, true, nil
		}
		r.index++
	}
	var zero T
	return zero, false, nil
}

func (r *concatReadable[T]) Close() error {
	errs := make([]error, 0, len(r.sources))
	for _, src := range r.sources {
		errs = append(errs, src.Close())
	}
	return errors.Join(errs...)
}
