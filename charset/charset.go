package charset

import (
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/kbukum/textstream/errors"
)

type kind int

const (
	kindUTF8 kind = iota
	kindUTF16
	kindCharmap
	kindASCII
	kindOther
)

// Charset is a named character encoding.
type Charset struct {
	name  string
	kind  kind
	enc   encoding.Encoding
	order unicode.Endianness
	bom   bool
}

// Standard charsets.
var (
	UTF8     = &Charset{name: "UTF-8", kind: kindUTF8, enc: unicode.UTF8}
	UTF16BE  = &Charset{name: "UTF-16BE", kind: kindUTF16, enc: unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), order: unicode.BigEndian}
	UTF16LE  = &Charset{name: "UTF-16LE", kind: kindUTF16, enc: unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), order: unicode.LittleEndian}
	UTF16    = &Charset{name: "UTF-16", kind: kindUTF16, enc: unicode.UTF16(unicode.BigEndian, unicode.UseBOM), order: unicode.BigEndian, bom: true}
	ISO88591 = &Charset{name: "ISO-8859-1", kind: kindCharmap, enc: charmap.ISO8859_1}
	USASCII  = &Charset{name: "US-ASCII", kind: kindASCII, enc: asciiEncoding()}
)

// Standard returns the charsets every installation supports.
func Standard() []*Charset {
	return []*Charset{UTF8, UTF16BE, UTF16LE, UTF16, ISO88591, USASCII}
}

func asciiEncoding() encoding.Encoding {
	enc, err := ianaindex.IANA.Encoding("US-ASCII")
	if err != nil || enc == nil {
		return encoding.Nop
	}
	return enc
}

// Name returns the preferred name of the charset.
func (c *Charset) Name() string { return c.name }

func (c *Charset) String() string { return c.name }

// Encoding returns the underlying x/text encoding.
func (c *Charset) Encoding() encoding.Encoding { return c.enc }

// NewDecoder returns a session converting bytes in c to UTF-8.
func (c *Charset) NewDecoder(p Policy) *Session {
	return newSession(c.name, c.decoder(p))
}

// NewEncoder returns a session converting UTF-8 to bytes in c.
func (c *Charset) NewEncoder(p Policy) *Session {
	return newSession(c.name, c.encoder(p))
}

func (c *Charset) decoder(p Policy) transform.Transformer {
	if p == Replace {
		if c.kind == kindASCII {
			return asciiDecoder{replace: true}
		}
		return c.enc.NewDecoder()
	}
	switch c.kind {
	case kindUTF8:
		return encoding.UTF8Validator
	case kindUTF16:
		return transform.Chain(newUTF16Validator(c.order, c.bom), c.enc.NewDecoder())
	case kindCharmap:
		return charmapDecoder{cm: c.enc.(*charmap.Charmap)}
	case kindASCII:
		return asciiDecoder{}
	default:
		return newSubstitutionDecoder(c.enc)
	}
}

func (c *Charset) encoder(p Policy) transform.Transformer {
	switch c.kind {
	case kindASCII:
		return asciiEncoder{replace: p == Replace}
	case kindUTF8:
		if p == Strict {
			return encoding.UTF8Validator
		}
		return c.enc.NewEncoder()
	}
	if p == Replace {
		return encoding.ReplaceUnsupported(c.enc.NewEncoder())
	}
	if c.kind == kindCharmap {
		// charmap encoders already fail on invalid UTF-8 and unmappable runes.
		return c.enc.NewEncoder()
	}
	return transform.Chain(encoding.UTF8Validator, c.enc.NewEncoder())
}

// asciiAliases are US-ASCII names missing from the IANA index. The WHATWG
// index would map them to windows-1252.
var asciiAliases = map[string]bool{
	"ascii":            true,
	"ascii7":           true,
	"646":              true,
	"iso_646.irv:1983": true,
}

// Lookup resolves a charset by IANA name or alias, falling back to the WHATWG
// names. Unknown or unsupported names fail with UNKNOWN_CHARSET.
func Lookup(name string) (*Charset, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil, errors.UnknownCharset(name)
	}
	if asciiAliases[strings.ToLower(trimmed)] {
		return USASCII, nil
	}
	enc, err := ianaindex.IANA.Encoding(trimmed)
	if err != nil || enc == nil {
		enc, err = htmlindex.Get(trimmed)
		if err != nil || enc == nil {
			return nil, errors.UnknownCharset(name)
		}
	}
	for _, cs := range Standard() {
		if cs.enc == enc {
			return cs, nil
		}
	}
	return fromEncoding(enc, trimmed), nil
}

// MustLookup is like Lookup but panics on unknown names.
func MustLookup(name string) *Charset {
	cs, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return cs
}

func fromEncoding(enc encoding.Encoding, requested string) *Charset {
	cs := &Charset{name: canonicalName(enc, requested), kind: kindOther, enc: enc}
	if _, ok := enc.(*charmap.Charmap); ok {
		cs.kind = kindCharmap
	}
	return cs
}

func canonicalName(enc encoding.Encoding, fallback string) string {
	for _, idx := range []*ianaindex.Index{ianaindex.MIME, ianaindex.IANA} {
		if name, err := idx.Name(enc); err == nil && name != "" {
			return name
		}
	}
	return fallback
}

// Default returns the platform charset from the locale environment
// (LC_ALL, then LC_CTYPE, then LANG). It falls back to UTF-8 when no
// locale names a known codeset.
func Default() *Charset {
	return defaultFrom(os.Getenv)
}

func defaultFrom(getenv func(string) string) *Charset {
	for _, key := range []string{"LC_ALL", "LC_CTYPE", "LANG"} {
		locale := getenv(key)
		if locale == "" {
			continue
		}
		codeset := localeCodeset(locale)
		if codeset == "" {
			break
		}
		if cs, err := Lookup(codeset); err == nil {
			return cs
		}
		break
	}
	return UTF8
}

// localeCodeset extracts "UTF-8" from "en_US.UTF-8@euro".
func localeCodeset(locale string) string {
	if i := strings.IndexByte(locale, '@'); i >= 0 {
		locale = locale[:i]
	}
	i := strings.IndexByte(locale, '.')
	if i < 0 {
		return ""
	}
	return locale[i+1:]
}
