package compress

import (
	"context"
	stderrors "errors"
	"io"
	"strings"

	"github.com/golang/snappy"
	"github.com/klauspost/compress/zstd"

	"github.com/kbukum/textstream/errors"
	"github.com/kbukum/textstream/stream"
)

// Format is a compression format.
type Format string

const (
	None   Format = "none"
	Zstd   Format = "zstd"
	Snappy Format = "snappy"
)

// Formats lists the accepted format names.
var Formats = []Format{None, Zstd, Snappy}

// ParseFormat parses a format name. The empty string means None.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return None, nil
	case None, Zstd, Snappy:
		return f, nil
	default:
		return "", errors.InvalidConfig("compression", "unknown compression format "+s).
			WithDetail("accepted", Formats)
	}
}

// Decompress returns a Transform that decompresses a stream in format f,
// emitting chunks of at most size bytes. None passes chunks through.
func Decompress(f Format, size int) stream.Transform[[]byte, []byte] {
	return stream.TransformFunc[[]byte, []byte](func(src stream.Readable[[]byte]) stream.Readable[[]byte] {
		if f == None || f == "" {
			return src
		}
		return newDecompressor(src, f, size)
	})
}

// Compress returns a Transform that compresses a stream into format f,
// emitting chunks of at most size bytes. None passes chunks through.
func Compress(f Format, size int) stream.Transform[[]byte, []byte] {
	return stream.TransformFunc[[]byte, []byte](func(src stream.Readable[[]byte]) stream.Readable[[]byte] {
		if f == None || f == "" {
			return src
		}
		return newCompressor(src, f, size)
	})
}

func newDecoder(f Format, r io.Reader) (io.Reader, func(), error) {
	switch f {
	case Zstd:
		dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
		if err != nil {
			return nil, nil, err
		}
		return dec, dec.Close, nil
	case Snappy:
		return snappy.NewReader(r), func() {}, nil
	default:
		return nil, nil, errors.InvalidConfig("compression", "unknown compression format "+string(f))
	}
}

// flushWriter is a compressing writer that can emit everything written so far.
type flushWriter interface {
	io.WriteCloser
	Flush() error
}

func newEncoder(f Format, w io.Writer) (flushWriter, error) {
	switch f {
	case Zstd:
		return zstd.NewWriter(w, zstd.WithEncoderConcurrency(1))
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	default:
		return nil, errors.InvalidConfig("compression", "unknown compression format "+string(f))
	}
}

// ioError wraps codec failures as IO errors. Errors that already carry a
// code, and context errors, pass through.
func ioError(op string, err error) error {
	if errors.IsAppError(err) || stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return errors.IO(op, err)
}
