package stream

import (
	"context"
)

// Rechunk re-slices a byte stream into chunks of exactly size bytes; only the
// last chunk may be shorter. Data is copied into a buffer owned by the
// returned Readable, so upstream chunk boundaries never leak through.
// Empty upstream chunks are absorbed. size <= 0 defaults to 1.
//
// An upstream error is held back until the bytes gathered before it have
// been emitted.
func Rechunk[C ~[]byte](src Readable[C], size int) Readable[C] {
	if size <= 0 {
		size = 1
	}
	return &rechunkReadable[C]{source: src, buf: make([]byte, size)}
}

// Rechunker returns Rechunk as a Transform.
func Rechunker[C ~[]byte](size int) Transform[C, C] {
	return TransformFunc[C, C](func(src Readable[C]) Readable[C] {
		return Rechunk(src, size)
	})
}

type rechunkReadable[C ~[]byte] struct {
	source  Readable[C]
	buf     []byte
	pending C
	done    bool
	err     error
}

func (r *rechunkReadable[C]) Read(ctx context.Context) (C, bool, error) {
	if r.err != nil {
		return nil, false, r.err
	}

	n := 0
	for n < len(r.buf) {
		if len(r.pending) == 0 {
			if r.done {
				break
			}
			chunk, ok, err := r.source.Read(ctx)
			if err != nil {
				r.err = err
				if n > 0 {
					break
				}
				return nil, false, err
			}
			if !ok {
				r.done = true
				break
			}
			r.pending = chunk
			continue
		}
		c := copy(r.buf[n:], r.pending)
		r.pending = r.pending[c:]
		n += c
	}

	if n == 0 {
		return nil, false, nil
	}
	return C(r.buf[:n:n]), true, nil
}

func (r *rechunkReadable[C]) Close() error { return r.source.Close() }
