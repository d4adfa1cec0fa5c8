package stream

import (
	"context"
	"errors"
)

// Readable produces chunks on demand.
type Readable[T any] interface {
	// Read returns the next chunk. Returns (zero, false, nil) when exhausted
	// and keeps doing so on every later call.
	Read(ctx context.Context) (T, bool, error)
	// Close releases the underlying resource.
	Close() error
}

// Writable consumes chunks.
type Writable[T any] interface {
	// Write consumes one chunk. The chunk must not be retained after Write returns.
	Write(ctx context.Context, chunk T) error
	// Close flushes any buffered data and releases the underlying resource.
	Close() error
}

// Transform converts a Readable[T] into a Readable[U]. A Transform holds no
// per-stream state: everything lives in the Readable returned by Apply, so
// one Transform may be applied to several sources.
type Transform[T, U any] interface {
	Apply(src Readable[T]) Readable[U]
}

// TransformFunc adapts a function to the Transform interface.
type TransformFunc[T, U any] func(src Readable[T]) Readable[U]

// Apply calls f(src).
func (f TransformFunc[T, U]) Apply(src Readable[T]) Readable[U] { return f(src) }

// PipeThrough attaches t to src. No I/O happens at attach time. Closing the
// returned Readable closes src.
func PipeThrough[T, U any](src Readable[T], t Transform[T, U]) Readable[U] {
	return t.Apply(src)
}

// PipeTo reads every chunk from src and writes it to dst until src is
// exhausted or either side fails. Both endpoints are closed on every exit
// path, dst first so that buffered output is flushed before the source is
// released. Close errors are joined with the error that ended the loop.
func PipeTo[T any](ctx context.Context, src Readable[T], dst Writable[T]) (err error) {
	defer func() {
		err = errors.Join(err, dst.Close(), src.Close())
	}()

	for {
		chunk, ok, err := src.Read(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}
		if err := dst.Write(ctx, chunk); err != nil {
			return err
		}
	}
}

// --- Constructors ---

// SliceReadable yields a fixed list of chunks. It records whether it was closed.
type SliceReadable[T any] struct {
	items  []T
	index  int
	closed bool
}

// FromChunks creates a Readable that yields the given chunks in order.
func FromChunks[T any](chunks ...T) *SliceReadable[T] {
	return &SliceReadable[T]{items: chunks}
}

func (r *SliceReadable[T]) Read(_ context.Context) (T, bool, error) {
	if r.index >= len(r.items) {
		var zero T
		return zero, false, nil
	}
	val := r.items[r.index]
	r.index++
	return val, true, nil
}

func (r *SliceReadable[T]) Close() error {
	r.closed = true
	return nil
}

// Closed reports whether Close was called.
func (r *SliceReadable[T]) Closed() bool { return r.closed }

// ReadFunc adapts a function to the Readable interface. Close is a no-op.
type ReadFunc[T any] func(ctx context.Context) (T, bool, error)

func (f ReadFunc[T]) Read(ctx context.Context) (T, bool, error) { return f(ctx) }

func (f ReadFunc[T]) Close() error { return nil }

// WriterFunc adapts a function to the Writable interface. Close is a no-op.
type WriterFunc[T any] func(ctx context.Context, chunk T) error

func (f WriterFunc[T]) Write(ctx context.Context, chunk T) error { return f(ctx, chunk) }

func (f WriterFunc[T]) Close() error { return nil }

// Discard returns a Writable that drops every chunk.
func Discard[T any]() Writable[T] {
	return WriterFunc[T](func(context.Context, T) error { return nil })
}
