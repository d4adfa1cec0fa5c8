package charset

import (
	"fmt"
	"testing"

	"golang.org/x/text/encoding/unicode"

	"github.com/kbukum/textstream/errors"
)

type codecCase struct {
	name    string
	codec   func() Codec
	input   string
	want    string
	wantErr bool
}

func bytewise(s string) [][]byte {
	chunks := make([][]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		chunks = append(chunks, []byte{s[i]})
	}
	return chunks
}

func runCodecCases(t *testing.T, tests []codecCase) {
	t.Helper()
	for _, tt := range tests {
		if tt.wantErr {
			t.Run(tt.name, func(t *testing.T) {
				_, err := convertAll(t, tt.codec(), [][]byte{[]byte(tt.input)}, 64)
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.HasCode(err, errors.ErrCodeConversion) {
					t.Errorf("expected conversion error, got %v", err)
				}
			})
			continue
		}
		for _, size := range []int{4, 64} {
			chunkings := map[string][][]byte{
				"whole":    {[]byte(tt.input)},
				"bytewise": bytewise(tt.input),
			}
			for mode, chunks := range chunkings {
				t.Run(fmt.Sprintf("%s/%s/dst=%d", tt.name, mode, size), func(t *testing.T) {
					out, err := convertAll(t, tt.codec(), chunks, size)
					if err != nil {
						t.Fatalf("unexpected error: %v", err)
					}
					if string(out) != tt.want {
						t.Errorf("expected %q, got %q", tt.want, out)
					}
				})
			}
		}
	}
}

func decoder(cs *Charset, p Policy) func() Codec {
	return func() Codec { return cs.NewDecoder(p) }
}

func encoder(cs *Charset, p Policy) func() Codec {
	return func() Codec { return cs.NewEncoder(p) }
}

func TestDecoders(t *testing.T) {
	runCodecCases(t, []codecCase{
		{name: "utf8", codec: decoder(UTF8, Strict), input: "héllo €", want: "héllo €"},
		{name: "utf8 invalid", codec: decoder(UTF8, Strict), input: "a\xffb", wantErr: true},
		{name: "utf8 invalid replace", codec: decoder(UTF8, Replace), input: "a\xffb", want: "a�b"},

		{name: "utf16be", codec: decoder(UTF16BE, Strict), input: "\x00a\xd8\x3d\xde\x00", want: "a😀"},
		{name: "utf16le", codec: decoder(UTF16LE, Strict), input: "a\x00\x3d\xd8\x00\xde", want: "a😀"},
		{name: "utf16 no bom", codec: decoder(UTF16, Strict), input: "\x00a\x00b", want: "ab"},
		{name: "utf16 bom be", codec: decoder(UTF16, Strict), input: "\xfe\xff\x00a", want: "a"},
		{name: "utf16 bom le", codec: decoder(UTF16, Strict), input: "\xff\xfea\x00\x3d\xd8\x00\xde", want: "a😀"},
		{name: "utf16be odd length", codec: decoder(UTF16BE, Strict), input: "\x00a\x00", wantErr: true},
		{name: "utf16be lone high", codec: decoder(UTF16BE, Strict), input: "\xd8\x3d\x00a", wantErr: true},
		{name: "utf16be lone low", codec: decoder(UTF16BE, Strict), input: "\xde\x00", wantErr: true},
		{name: "utf16be truncated pair", codec: decoder(UTF16BE, Strict), input: "\x00a\xd8\x3d", wantErr: true},
		{name: "utf16be lone low replace", codec: decoder(UTF16BE, Replace), input: "\xde\x00\x00a", want: "�a"},

		{name: "latin1", codec: decoder(ISO88591, Strict), input: "caf\xe9", want: "café"},
		{name: "ascii", codec: decoder(USASCII, Strict), input: "plain", want: "plain"},
		{name: "ascii high byte", codec: decoder(USASCII, Strict), input: "a\x80", wantErr: true},
		{name: "ascii high byte replace", codec: decoder(USASCII, Replace), input: "a\x80b", want: "a�b"},
	})
}

func TestEncoders(t *testing.T) {
	runCodecCases(t, []codecCase{
		{name: "utf8", codec: encoder(UTF8, Strict), input: "héllo", want: "héllo"},
		{name: "utf8 invalid", codec: encoder(UTF8, Strict), input: "a\xff", wantErr: true},
		{name: "utf8 invalid replace", codec: encoder(UTF8, Replace), input: "a\xffb", want: "a�b"},

		{name: "utf16be", codec: encoder(UTF16BE, Strict), input: "a😀", want: "\x00a\xd8\x3d\xde\x00"},
		{name: "utf16le", codec: encoder(UTF16LE, Strict), input: "a😀", want: "a\x00\x3d\xd8\x00\xde"},
		{name: "utf16 writes bom", codec: encoder(UTF16, Strict), input: "a", want: "\xfe\xff\x00a"},
		{name: "utf16be invalid", codec: encoder(UTF16BE, Strict), input: "a\xff", wantErr: true},

		{name: "latin1", codec: encoder(ISO88591, Strict), input: "café", want: "caf\xe9"},
		{name: "latin1 unmappable", codec: encoder(ISO88591, Strict), input: "a€b", wantErr: true},
		{name: "latin1 unmappable replace", codec: encoder(ISO88591, Replace), input: "a€b", want: "a\x1ab"},

		{name: "ascii", codec: encoder(USASCII, Strict), input: "plain", want: "plain"},
		{name: "ascii unmappable", codec: encoder(USASCII, Strict), input: "a€b", wantErr: true},
		{name: "ascii invalid", codec: encoder(USASCII, Strict), input: "a\xff", wantErr: true},
		{name: "ascii unmappable replace", codec: encoder(USASCII, Replace), input: "a€b😀", want: "a\x1ab\x1a"},
	})
}

func TestEncoder_UnmappableOffset(t *testing.T) {
	_, err := convertAll(t, ISO88591.NewEncoder(Strict), [][]byte{[]byte("ab€")}, 64)
	appErr, ok := errors.AsAppError(err)
	if !ok {
		t.Fatalf("expected AppError, got %v", err)
	}
	if got := appErr.Details["offset"]; got != int64(2) {
		t.Errorf("expected offset 2, got %v", got)
	}
	if got := appErr.Details["charset"]; got != "ISO-8859-1" {
		t.Errorf("expected charset ISO-8859-1, got %v", got)
	}
}

func TestUTF16Validator_Reset(t *testing.T) {
	v := newUTF16Validator(unicode.BigEndian, true)
	dst := make([]byte, 8)
	if _, _, err := v.Transform(dst, []byte("\xff\xfea\x00"), true); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.order == v.initial {
		t.Fatal("expected byte order mark to switch order")
	}
	v.Reset()
	if v.order != v.initial || v.started {
		t.Error("Reset did not restore the initial state")
	}
}
