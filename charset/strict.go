package charset

import (
	"bytes"
	stderrors "errors"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	errOddLength     = stderrors.New("truncated UTF-16 code unit")
	errLoneSurrogate = stderrors.New("unpaired UTF-16 surrogate")
	errUndefined     = stderrors.New("byte is not defined in the charset")
	errNonASCII      = stderrors.New("byte is outside US-ASCII")
	errUnmappable    = stderrors.New("character cannot be encoded in the charset")
	errInvalid       = stderrors.New("invalid byte sequence for the charset")
)

// replacementUTF8 is U+FFFD as emitted by the x/text decoders.
const replacementUTF8 = "\uFFFD"

// utf16Validator passes UTF-16 through unchanged and fails on truncated code
// units and unpaired surrogates. Chained in front of the x/text decoder,
// which would otherwise substitute U+FFFD.
type utf16Validator struct {
	initial   unicode.Endianness
	order     unicode.Endianness
	detectBOM bool
	started   bool
}

func newUTF16Validator(order unicode.Endianness, detectBOM bool) *utf16Validator {
	return &utf16Validator{initial: order, order: order, detectBOM: detectBOM}
}

func (v *utf16Validator) Reset() {
	v.order = v.initial
	v.started = false
}

func (v *utf16Validator) unit(b []byte) uint16 {
	if v.order == unicode.LittleEndian {
		return uint16(b[1])<<8 | uint16(b[0])
	}
	return uint16(b[0])<<8 | uint16(b[1])
}

func (v *utf16Validator) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if !v.started && v.detectBOM {
		if len(src) < 2 && !atEOF {
			if len(src) == 0 {
				return 0, 0, nil
			}
			return 0, 0, transform.ErrShortSrc
		}
		if len(src) >= 2 {
			switch {
			case src[0] == 0xfe && src[1] == 0xff:
				v.order = unicode.BigEndian
			case src[0] == 0xff && src[1] == 0xfe:
				v.order = unicode.LittleEndian
			}
		}
	}
	if len(src) > 0 {
		v.started = true
	}

	for nSrc < len(src) {
		size := 2
		if nSrc+2 > len(src) {
			if atEOF {
				return nSrc, nSrc, errOddLength
			}
			return nSrc, nSrc, transform.ErrShortSrc
		}
		u := rune(v.unit(src[nSrc:]))
		switch {
		case 0xd800 <= u && u < 0xdc00:
			if nSrc+4 > len(src) {
				if atEOF {
					return nSrc, nSrc, errLoneSurrogate
				}
				return nSrc, nSrc, transform.ErrShortSrc
			}
			if r := utf16.DecodeRune(u, rune(v.unit(src[nSrc+2:]))); r == utf8.RuneError {
				return nSrc, nSrc, errLoneSurrogate
			}
			size = 4
		case utf16.IsSurrogate(u):
			return nSrc, nSrc, errLoneSurrogate
		}
		if nSrc+size > len(dst) {
			return nSrc, nSrc, transform.ErrShortDst
		}
		copy(dst[nSrc:], src[nSrc:nSrc+size])
		nSrc += size
	}
	return nSrc, nSrc, nil
}

// charmapDecoder decodes a single-byte charset and fails on bytes the
// charset leaves undefined, which x/text maps to U+FFFD.
type charmapDecoder struct {
	transform.NopResetter
	cm *charmap.Charmap
}

func (d charmapDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for i, c := range src {
		r := d.cm.DecodeByte(c)
		if r == utf8.RuneError {
			return nDst, i, errUndefined
		}
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, i, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
	}
	return nDst, len(src), nil
}

// asciiDecoder decodes US-ASCII. Bytes above 0x7f fail, or become U+FFFD
// when replace is set.
type asciiDecoder struct {
	transform.NopResetter
	replace bool
}

func (d asciiDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for i, c := range src {
		if c < utf8.RuneSelf {
			if nDst >= len(dst) {
				return nDst, i, transform.ErrShortDst
			}
			dst[nDst] = c
			nDst++
			continue
		}
		if !d.replace {
			return nDst, i, errNonASCII
		}
		if nDst+utf8.RuneLen(utf8.RuneError) > len(dst) {
			return nDst, i, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], utf8.RuneError)
	}
	return nDst, len(src), nil
}

// asciiEncoder encodes UTF-8 as US-ASCII. Characters outside ASCII fail, or
// become a single ASCII SUB (0x1a) per character when replace is set. Characters split
// across calls are held back so that they are replaced only once.
type asciiEncoder struct {
	transform.NopResetter
	replace bool
}

func (e asciiEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		c := src[nSrc]
		size := 1
		if c >= utf8.RuneSelf {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			r, n := utf8.DecodeRune(src[nSrc:])
			if !e.replace {
				if r == utf8.RuneError && n <= 1 {
					return nDst, nSrc, encoding.ErrInvalidUTF8
				}
				return nDst, nSrc, errUnmappable
			}
			c, size = encoding.ASCIISub, n
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = c
		nDst++
		nSrc += size
	}
	return nDst, nSrc, nil
}

// substitutionDecoder wraps an x/text decoder that replaces invalid input
// with U+FFFD and fails instead. Input is fed one character at a time so the
// error offset points at the offending sequence. A U+FFFD decoded from
// literal, the charset's own encoding of U+FFFD, is kept.
type substitutionDecoder struct {
	inner   transform.Transformer
	literal []byte
}

func newSubstitutionDecoder(enc encoding.Encoding) *substitutionDecoder {
	literal, err := enc.NewEncoder().Bytes([]byte(replacementUTF8))
	if err != nil {
		literal = nil
	}
	return &substitutionDecoder{inner: enc.NewDecoder(), literal: literal}
}

func (d *substitutionDecoder) Reset() { d.inner.Reset() }

func (d *substitutionDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		n, c, err := d.step(dst[nDst:], src[nSrc:], atEOF)
		if err != nil {
			return nDst, nSrc, err
		}
		nDst += n
		nSrc += c
	}
	return nDst, nSrc, nil
}

// step decodes the shortest prefix of src the inner decoder accepts.
func (d *substitutionDecoder) step(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for k := 1; k <= len(src); k++ {
		last := k == len(src)
		nDst, nSrc, err = d.inner.Transform(dst, src[:k], atEOF && last)
		if err == transform.ErrShortSrc || (err == nil && nSrc == 0) {
			if last {
				return 0, 0, transform.ErrShortSrc
			}
			continue
		}
		if err != nil {
			return 0, 0, err
		}
		if bytes.Contains(dst[:nDst], []byte(replacementUTF8)) && !bytes.Equal(src[:nSrc], d.literal) {
			return 0, 0, errInvalid
		}
		return nDst, nSrc, nil
	}
	return 0, 0, transform.ErrShortSrc
}
