package bytestream

import (
	"context"
	stderrors "errors"
	"io"
	"os"

	"github.com/valyala/bytebufferpool"

	"github.com/kbukum/textstream/errors"
	"github.com/kbukum/textstream/logger"
	"github.com/kbukum/textstream/stream"
)

var pool bytebufferpool.Pool

// Writer is a Writable over an io.WriteCloser. Chunks are staged in a pooled
// buffer and written out size bytes at a time.
type Writer struct {
	w    io.WriteCloser
	buf  *bytebufferpool.ByteBuffer
	size int
}

var _ stream.Writable[[]byte] = (*Writer)(nil)

// NewWriter creates a Writer that writes size bytes at a time.
func NewWriter(w io.WriteCloser, size int) *Writer {
	if size < 1 {
		size = DefaultSize
	}
	return &Writer{w: w, buf: pool.Get(), size: size}
}

// Create creates or truncates the file at path for writing.
func Create(path string, size int) (*Writer, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.IO("create", err).WithDetail(logger.FieldPath, path)
	}
	logger.Get("bytestream").Debug("created output", logger.Fields(logger.FieldPath, path))
	return NewWriter(f, size), nil
}

// Stdout returns a Writer on standard output that leaves it open on Close.
func Stdout(size int) *Writer {
	return NewWriter(NopCloser(os.Stdout), size)
}

// Write stages chunk, writing every buffer it fills. The chunk is not retained.
func (w *Writer) Write(_ context.Context, chunk []byte) error {
	if w.buf == nil {
		return errors.IO("write", os.ErrClosed)
	}
	for len(chunk) > 0 {
		n := min(w.size-len(w.buf.B), len(chunk))
		w.buf.B = append(w.buf.B, chunk[:n]...)
		chunk = chunk[n:]
		if len(w.buf.B) == w.size {
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// Flush writes the staged bytes.
func (w *Writer) Flush() error {
	if w.buf == nil || len(w.buf.B) == 0 {
		return nil
	}
	n, err := w.w.Write(w.buf.B)
	if err == nil && n < len(w.buf.B) {
		err = io.ErrShortWrite
	}
	if err != nil {
		return errors.IO("write", err)
	}
	w.buf.Reset()
	return nil
}

// Close flushes the staged bytes, returns the buffer to the pool and closes
// the destination. Later calls return nil.
func (w *Writer) Close() error {
	if w.buf == nil {
		return nil
	}
	flushErr := w.Flush()
	pool.Put(w.buf)
	w.buf = nil

	var closeErr error
	if err := w.w.Close(); err != nil {
		closeErr = errors.IO("close", err)
	}
	return stderrors.Join(flushErr, closeErr)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

// NopCloser returns an io.WriteCloser whose Close does nothing.
func NopCloser(w io.Writer) io.WriteCloser {
	return nopCloser{w}
}
