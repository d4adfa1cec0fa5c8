package bytestream

import (
	"context"
	"io"
	"os"

	"github.com/kbukum/textstream/errors"
	"github.com/kbukum/textstream/logger"
	"github.com/kbukum/textstream/stream"
)

// DefaultSize is the buffer size used when a size below 1 is given.
const DefaultSize = 1024

// maxEmptyReads bounds consecutive (0, nil) reads before giving up.
const maxEmptyReads = 100

// Reader is a Readable over an io.ReadCloser.
type Reader struct {
	r    io.ReadCloser
	buf  []byte
	done bool
	err  error
}

var _ stream.Readable[[]byte] = (*Reader)(nil)

// NewReader creates a Reader that reads up to size bytes at a time.
func NewReader(r io.ReadCloser, size int) *Reader {
	if size < 1 {
		size = DefaultSize
	}
	return &Reader{r: r, buf: make([]byte, size)}
}

// Open opens the file at path for reading.
func Open(path string, size int) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.IO("open", err).WithDetail(logger.FieldPath, path)
	}
	logger.Get("bytestream").Debug("opened input", logger.Fields(logger.FieldPath, path))
	return NewReader(f, size), nil
}

// Read returns the next chunk read from the underlying reader. The context
// is checked before every read; the read itself is not interruptible.
func (r *Reader) Read(ctx context.Context) ([]byte, bool, error) {
	if r.err != nil {
		return nil, false, r.err
	}
	if r.done {
		return nil, false, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	for i := 0; i < maxEmptyReads; i++ {
		n, err := r.r.Read(r.buf)
		switch {
		case err == io.EOF:
			r.done = true
		case err != nil:
			r.err = errors.IO("read", err)
		}
		if n > 0 {
			return r.buf[:n:n], true, nil
		}
		if r.err != nil {
			return nil, false, r.err
		}
		if r.done {
			return nil, false, nil
		}
	}
	r.err = errors.IO("read", io.ErrNoProgress)
	return nil, false, r.err
}

// Close closes the underlying reader.
func (r *Reader) Close() error {
	if err := r.r.Close(); err != nil {
		return errors.IO("close", err)
	}
	return nil
}
