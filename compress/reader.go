package compress

import (
	"context"
	"io"

	"github.com/kbukum/textstream/logger"
	"github.com/kbukum/textstream/stream"
)

// readableReader adapts a Readable to io.Reader. ctx is the context of the
// Read call that is currently pulling through the adapter.
type readableReader struct {
	src     stream.Readable[[]byte]
	ctx     context.Context
	pending []byte
	eof     bool
	n       int64
}

func (r *readableReader) Read(p []byte) (int, error) {
	for len(r.pending) == 0 {
		if r.eof {
			return 0, io.EOF
		}
		chunk, ok, err := r.src.Read(r.ctx)
		if err != nil {
			return 0, err
		}
		if !ok {
			r.eof = true
			return 0, io.EOF
		}
		r.pending = chunk
	}
	n := copy(p, r.pending)
	r.pending = r.pending[n:]
	r.n += int64(n)
	return n, nil
}

type decompressor struct {
	format  Format
	in      *readableReader
	dec     io.Reader
	release func()
	buf     []byte
	done    bool
	err     error
	out     int64
}

func newDecompressor(src stream.Readable[[]byte], f Format, size int) *decompressor {
	if size < 1 {
		size = defaultSize
	}
	return &decompressor{format: f, in: &readableReader{src: src}, buf: make([]byte, size)}
}

func (d *decompressor) Read(ctx context.Context) ([]byte, bool, error) {
	if d.err != nil {
		return nil, false, d.err
	}
	if d.done {
		return nil, false, nil
	}
	d.in.ctx = ctx
	if d.dec == nil {
		dec, release, err := newDecoder(d.format, d.in)
		if err != nil {
			d.err = ioError(string(d.format)+" decompress", err)
			return nil, false, d.err
		}
		d.dec, d.release = dec, release
	}

	for i := 0; i < maxEmptyReads; i++ {
		n, err := d.dec.Read(d.buf)
		if err == io.EOF {
			d.finish()
		} else if err != nil {
			d.err = ioError(string(d.format)+" decompress", err)
		}
		if n > 0 {
			d.out += int64(n)
			return d.buf[:n:n], true, nil
		}
		if d.err != nil {
			return nil, false, d.err
		}
		if d.done {
			return nil, false, nil
		}
	}
	d.err = ioError(string(d.format)+" decompress", io.ErrNoProgress)
	return nil, false, d.err
}

func (d *decompressor) finish() {
	d.done = true
	logger.Get("compress").Debug("decompressed stream", logger.Fields(
		logger.FieldStage, string(d.format)+" decompress",
		"bytes_in", d.in.n,
		logger.FieldBytes, d.out,
	))
}

func (d *decompressor) Close() error {
	if d.release != nil {
		d.release()
		d.release = nil
	}
	return d.in.src.Close()
}
