package transcode

import (
	"github.com/kbukum/textstream/charset"
	"github.com/kbukum/textstream/logger"
)

// DefaultBufferSize is the output buffer capacity, in bytes, used when no
// WithBufferSize option is given.
const DefaultBufferSize = 1024

type options struct {
	bufferSize int
	policy     charset.Policy
	unbounded  bool
	log        *logger.Logger
}

// Option configures a DecoderStream or EncoderStream.
type Option func(*options)

// WithBufferSize sets the output buffer capacity in bytes. Values below 1
// keep the default.
//
// The buffer must hold the largest unit the codec writes at once, or Read
// fails with BUFFER_TOO_SMALL:
//
//   - decoders emit UTF-8, so 4 bytes cover any character;
//   - UTF-16 encoders need 4 bytes for a surrogate pair;
//   - ISO-2022-JP encoders need 5 bytes for a mode escape plus a
//     two-byte character.
func WithBufferSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.bufferSize = n
		}
	}
}

// WithPolicy selects how malformed input and unmappable characters are
// handled. The default is charset.Strict.
func WithPolicy(p charset.Policy) Option {
	return func(o *options) { o.policy = p }
}

// WithUnboundedBuffer lets the output buffer grow instead of overflowing.
// Each upstream chunk then yields at most one output chunk.
func WithUnboundedBuffer() Option {
	return func(o *options) { o.unbounded = true }
}

// WithLogger sets the logger used for debug output.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func newOptions(opts []Option) options {
	o := options{bufferSize: DefaultBufferSize, policy: charset.Strict}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Get("transcode")
	}
	return o
}
