package compress

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/kbukum/textstream/errors"
	"github.com/kbukum/textstream/stream"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "", want: None},
		{input: "none", want: None},
		{input: "ZSTD", want: Zstd},
		{input: " snappy ", want: Snappy},
		{input: "gzip", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.HasCode(err, errors.ErrCodeInvalidConfig) {
					t.Errorf("expected %s, got %v", errors.ErrCodeInvalidConfig, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func roundTrip(t *testing.T, f Format, input []byte, chunkSize, outSize int) []byte {
	t.Helper()
	ctx := context.Background()
	src := stream.Rechunk[[]byte](stream.FromChunks(input), chunkSize)
	compressed := stream.PipeThrough(src, Compress(f, outSize))
	rechunked := stream.Rechunk[[]byte](compressed, chunkSize)
	plain := stream.PipeThrough(rechunked, Decompress(f, outSize))

	got, err := stream.Collect(ctx, plain)
	if err != nil {
		t.Fatalf("round trip: %v", err)
	}
	return got
}

func TestRoundTrip(t *testing.T) {
	small := []byte("hello, compressed world")
	large := bytes.Repeat([]byte("the quick brown fox jumps over the lazy dog. "), 4000)

	for _, f := range Formats {
		for _, input := range [][]byte{{}, small, large} {
			for _, chunk := range []int{1, 7, 1024} {
				if chunk == 1 && len(input) > len(small) {
					continue
				}
				name := fmt.Sprintf("%s/len=%d/chunk=%d", f, len(input), chunk)
				t.Run(name, func(t *testing.T) {
					got := roundTrip(t, f, input, chunk, 333)
					if !bytes.Equal(got, input) {
						t.Errorf("round trip mismatch: got %d bytes, want %d", len(got), len(input))
					}
				})
			}
		}
	}
}

func TestCompress_Shrinks(t *testing.T) {
	input := bytes.Repeat([]byte("aaaaaaaaaa"), 10000)
	for _, f := range []Format{Zstd, Snappy} {
		t.Run(string(f), func(t *testing.T) {
			out, err := stream.Collect(context.Background(), stream.PipeThrough(stream.Readable[[]byte](stream.FromChunks(input)), Compress(f, 0)))
			if err != nil {
				t.Fatalf("compress: %v", err)
			}
			if len(out) >= len(input)/10 {
				t.Errorf("expected compression, got %d bytes from %d", len(out), len(input))
			}
		})
	}
}

func TestDecompress_Corrupt(t *testing.T) {
	for _, f := range []Format{Zstd, Snappy} {
		t.Run(string(f), func(t *testing.T) {
			src := stream.Readable[[]byte](stream.FromChunks([]byte(strings.Repeat("not compressed at all ", 10))))
			_, err := stream.Collect(context.Background(), stream.PipeThrough(src, Decompress(f, 64)))
			if !errors.HasCode(err, errors.ErrCodeIO) {
				t.Errorf("expected %s, got %v", errors.ErrCodeIO, err)
			}
		})
	}
}

func TestDecompress_UpstreamErrorPassesThrough(t *testing.T) {
	upstream := errors.IO("read", stderrors.New("boom"))
	src := stream.ReadFunc[[]byte](func(context.Context) ([]byte, bool, error) {
		return nil, false, upstream
	})
	_, err := stream.Collect(context.Background(), stream.PipeThrough[[]byte, []byte](src, Decompress(Snappy, 64)))
	if !stderrors.Is(err, upstream) {
		t.Errorf("expected upstream error, got %v", err)
	}
}

func TestTransforms_AreLazyAndClose(t *testing.T) {
	for _, f := range Formats {
		t.Run(string(f), func(t *testing.T) {
			for _, tr := range []stream.Transform[[]byte, []byte]{Compress(f, 8), Decompress(f, 8)} {
				src := stream.FromChunks([]byte("x"))
				r := stream.PipeThrough[[]byte, []byte](src, tr)
				if err := r.Close(); err != nil {
					t.Fatalf("Close: %v", err)
				}
				if !src.Closed() {
					t.Error("expected source to be closed")
				}
			}
		})
	}
}

func TestCompress_ChunkSize(t *testing.T) {
	input := bytes.Repeat([]byte{0, 1, 2, 3, 4, 5, 6, 7}, 1000)
	r := stream.PipeThrough(stream.Readable[[]byte](stream.FromChunks(input)), Compress(Snappy, 16))
	chunks, err := stream.CollectChunks(context.Background(), r)
	if err != nil {
		t.Fatalf("compress: %v", err)
	}
	for i, c := range chunks {
		if len(c) > 16 || len(c) == 0 {
			t.Errorf("chunk %d has %d bytes", i, len(c))
		}
	}
}
