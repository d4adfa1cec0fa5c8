package transcode

import (
	"github.com/kbukum/textstream/charset"
	"github.com/kbukum/textstream/stream"
)

// Text is UTF-8 encoded text.
type Text []byte

// DecoderStream is a Transform from bytes in a charset to Text.
type DecoderStream struct {
	cs   *charset.Charset
	opts options
}

var _ stream.Transform[[]byte, Text] = (*DecoderStream)(nil)

// NewDecoderStream creates a decoding transform for cs.
func NewDecoderStream(cs *charset.Charset, opts ...Option) *DecoderStream {
	return &DecoderStream{cs: cs, opts: newOptions(opts)}
}

// DecoderFor creates a decoding transform for the named charset.
func DecoderFor(name string, opts ...Option) (*DecoderStream, error) {
	cs, err := charset.Lookup(name)
	if err != nil {
		return nil, err
	}
	return NewDecoderStream(cs, opts...), nil
}

// Charset returns the charset being decoded.
func (d *DecoderStream) Charset() *charset.Charset { return d.cs }

// Apply attaches a fresh codec session to src. Nothing is read until the
// returned Readable is read.
func (d *DecoderStream) Apply(src stream.Readable[[]byte]) stream.Readable[Text] {
	return newEngine[[]byte, Text](src, d.cs.NewDecoder(d.opts.policy), "decode", d.cs.Name(), d.opts)
}

// EncoderStream is a Transform from Text to bytes in a charset.
type EncoderStream struct {
	cs   *charset.Charset
	opts options
}

var _ stream.Transform[Text, []byte] = (*EncoderStream)(nil)

// NewEncoderStream creates an encoding transform for cs.
func NewEncoderStream(cs *charset.Charset, opts ...Option) *EncoderStream {
	return &EncoderStream{cs: cs, opts: newOptions(opts)}
}

// EncoderFor creates an encoding transform for the named charset.
func EncoderFor(name string, opts ...Option) (*EncoderStream, error) {
	cs, err := charset.Lookup(name)
	if err != nil {
		return nil, err
	}
	return NewEncoderStream(cs, opts...), nil
}

// Charset returns the target charset.
func (e *EncoderStream) Charset() *charset.Charset { return e.cs }

// Apply attaches a fresh codec session to src.
func (e *EncoderStream) Apply(src stream.Readable[Text]) stream.Readable[[]byte] {
	return newEngine[Text, []byte](src, e.cs.NewEncoder(e.opts.policy), "encode", e.cs.Name(), e.opts)
}

// --- Shortcuts ---

func UTF8Decoder(opts ...Option) *DecoderStream    { return NewDecoderStream(charset.UTF8, opts...) }
func UTF8Encoder(opts ...Option) *EncoderStream    { return NewEncoderStream(charset.UTF8, opts...) }
func UTF16Decoder(opts ...Option) *DecoderStream   { return NewDecoderStream(charset.UTF16, opts...) }
func UTF16Encoder(opts ...Option) *EncoderStream   { return NewEncoderStream(charset.UTF16, opts...) }
func UTF16BEDecoder(opts ...Option) *DecoderStream { return NewDecoderStream(charset.UTF16BE, opts...) }
func UTF16BEEncoder(opts ...Option) *EncoderStream { return NewEncoderStream(charset.UTF16BE, opts...) }
func UTF16LEDecoder(opts ...Option) *DecoderStream { return NewDecoderStream(charset.UTF16LE, opts...) }
func UTF16LEEncoder(opts ...Option) *EncoderStream { return NewEncoderStream(charset.UTF16LE, opts...) }
func Latin1Decoder(opts ...Option) *DecoderStream  { return NewDecoderStream(charset.ISO88591, opts...) }
func Latin1Encoder(opts ...Option) *EncoderStream  { return NewEncoderStream(charset.ISO88591, opts...) }
func ASCIIDecoder(opts ...Option) *DecoderStream   { return NewDecoderStream(charset.USASCII, opts...) }
func ASCIIEncoder(opts ...Option) *EncoderStream   { return NewEncoderStream(charset.USASCII, opts...) }

// DefaultDecoder decodes the platform charset.
func DefaultDecoder(opts ...Option) *DecoderStream { return NewDecoderStream(charset.Default(), opts...) }

// DefaultEncoder encodes to the platform charset.
func DefaultEncoder(opts ...Option) *EncoderStream { return NewEncoderStream(charset.Default(), opts...) }
