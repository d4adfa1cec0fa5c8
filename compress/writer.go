package compress

import (
	"context"

	"github.com/valyala/bytebufferpool"

	"github.com/kbukum/textstream/logger"
	"github.com/kbukum/textstream/stream"
)

const (
	defaultSize   = 1024
	maxEmptyReads = 100
	// blockSize is how much input is handed to the encoder before its
	// output is flushed and returned.
	blockSize = 64 << 10
)

type compressor struct {
	format  Format
	src     stream.Readable[[]byte]
	enc     flushWriter
	out     *bytebufferpool.ByteBuffer
	off     int
	buf     []byte
	pending int
	done    bool
	err     error
	in      int64
	written int64
}

func newCompressor(src stream.Readable[[]byte], f Format, size int) *compressor {
	if size < 1 {
		size = defaultSize
	}
	return &compressor{format: f, src: src, buf: make([]byte, size)}
}

func (c *compressor) Read(ctx context.Context) ([]byte, bool, error) {
	if c.err != nil {
		return nil, false, c.err
	}
	if c.enc == nil && !c.done {
		c.out = bytebufferpool.Get()
		enc, err := newEncoder(c.format, c.out)
		if err != nil {
			return c.fail(err)
		}
		c.enc = enc
	}

	for c.unread() == 0 {
		if c.done {
			return nil, false, nil
		}
		c.out.Reset()
		c.off = 0

		chunk, ok, err := c.src.Read(ctx)
		if err != nil {
			c.err = err
			return nil, false, err
		}
		if !ok {
			if err := c.enc.Close(); err != nil {
				return c.fail(err)
			}
			c.done = true
			logger.Get("compress").Debug("compressed stream", logger.Fields(
				logger.FieldStage, string(c.format)+" compress",
				"bytes_in", c.in,
				logger.FieldBytes, c.written+int64(len(c.out.B)),
			))
			continue
		}
		if _, err := c.enc.Write(chunk); err != nil {
			return c.fail(err)
		}
		c.in += int64(len(chunk))
		c.pending += len(chunk)
		if c.pending >= blockSize {
			if err := c.enc.Flush(); err != nil {
				return c.fail(err)
			}
			c.pending = 0
		}
	}

	n := copy(c.buf, c.out.B[c.off:])
	c.off += n
	c.written += int64(n)
	return c.buf[:n:n], true, nil
}

func (c *compressor) unread() int {
	if c.out == nil {
		return 0
	}
	return len(c.out.B) - c.off
}

func (c *compressor) fail(err error) ([]byte, bool, error) {
	c.err = ioError(string(c.format)+" compress", err)
	return nil, false, c.err
}

func (c *compressor) Close() error {
	if c.enc != nil && !c.done {
		_ = c.enc.Close()
	}
	if c.out != nil {
		bytebufferpool.Put(c.out)
		c.out = nil
	}
	c.done = true
	return c.src.Close()
}
