package main

import (
	"context"
	"io"

	"github.com/kbukum/textstream/bytestream"
	"github.com/kbukum/textstream/charset"
	"github.com/kbukum/textstream/compress"
	"github.com/kbukum/textstream/logger"
	"github.com/kbukum/textstream/observability"
	"github.com/kbukum/textstream/stream"
	"github.com/kbukum/textstream/transcode"
	"github.com/kbukum/textstream/util"
)

// plan is a resolved PipelineConfig for one input file.
type plan struct {
	input      string
	from       *charset.Charset
	to         *charset.Charset
	policy     charset.Policy
	bufferSize int
	readSize   int
	writeSize  int
	decompress compress.Format
	compress   compress.Format
}

// newPlan resolves charsets, sizes and compression formats. An empty To
// selects the platform charset.
func newPlan(cfg PipelineConfig, input string) (*plan, error) {
	from, err := charset.Lookup(cfg.From)
	if err != nil {
		return nil, err
	}
	to := charset.Default()
	if cfg.To != "" {
		if to, err = charset.Lookup(cfg.To); err != nil {
			return nil, err
		}
	}

	p := &plan{
		input:      input,
		from:       from,
		to:         to,
		policy:     charset.Strict,
		bufferSize: int(util.ParseSizeOr(cfg.BufferSize, transcode.DefaultBufferSize)),
		readSize:   int(util.ParseSizeOr(cfg.ReadBuffer, bytestream.DefaultSize)),
		writeSize:  int(util.ParseSizeOr(cfg.WriteBuffer, bytestream.DefaultSize)),
	}
	if cfg.Replace {
		p.policy = charset.Replace
	}
	if p.decompress, err = compress.ParseFormat(cfg.Decompress); err != nil {
		return nil, err
	}
	if p.compress, err = compress.ParseFormat(cfg.Compress); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *plan) fields() map[string]interface{} {
	return logger.Fields(
		logger.FieldPath, p.input,
		observability.AttrCharsetFrom, p.from.Name(),
		observability.AttrCharsetTo, p.to.Name(),
		"policy", p.policy.String(),
		"buffer_size", p.bufferSize,
	)
}

// run streams the input file through
//
//	read → decompress → decode → encode → compress → out
//
// counting every stage on metrics. Every stage is closed on return.
func (p *plan) run(ctx context.Context, out io.Writer, metrics *observability.Metrics, log *logger.Logger) error {
	src, err := bytestream.Open(p.input, p.readSize)
	if err != nil {
		return err
	}

	opts := []transcode.Option{
		transcode.WithBufferSize(p.bufferSize),
		transcode.WithPolicy(p.policy),
		transcode.WithLogger(log),
	}

	raw := stream.PipeThrough[[]byte, []byte](src, compress.Decompress(p.decompress, p.readSize))
	raw = observability.Count(raw, metrics, "read")

	text := stream.PipeThrough[[]byte, transcode.Text](raw, transcode.NewDecoderStream(p.from, opts...))
	text = observability.Count(text, metrics, "decode")

	encoded := stream.PipeThrough[transcode.Text, []byte](text, transcode.NewEncoderStream(p.to, opts...))
	encoded = observability.Count(encoded, metrics, "encode")

	packed := stream.PipeThrough[[]byte, []byte](encoded, compress.Compress(p.compress, p.writeSize))

	dst := bytestream.NewWriter(bytestream.NopCloser(out), p.writeSize)
	return stream.PipeTo[[]byte](ctx, packed, dst)
}
