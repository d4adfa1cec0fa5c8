package stream

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// recordingSink appends written chunks and records the close order.
type recordingSink struct {
	got      []string
	closed   bool
	writeErr error
	closeErr error
	order    *[]string
}

func (s *recordingSink) Write(_ context.Context, chunk []byte) error {
	if s.writeErr != nil {
		return s.writeErr
	}
	s.got = append(s.got, string(chunk))
	return nil
}

func (s *recordingSink) Close() error {
	s.closed = true
	if s.order != nil {
		*s.order = append(*s.order, "sink")
	}
	return s.closeErr
}

// orderedSource wraps a Readable and records when it is closed.
type orderedSource struct {
	Readable[[]byte]
	order    *[]string
	closeErr error
}

func (s *orderedSource) Close() error {
	*s.order = append(*s.order, "source")
	_ = s.Readable.Close()
	return s.closeErr
}

func TestFromChunks(t *testing.T) {
	ctx := context.Background()
	src := FromChunks("a", "b")
	for _, want := range []string{"a", "b"} {
		got, ok, err := src.Read(ctx)
		if err != nil || !ok || got != want {
			t.Fatalf("Read() = %q, %v, %v; want %q", got, ok, err, want)
		}
	}
	for i := 0; i < 3; i++ {
		if _, ok, err := src.Read(ctx); ok || err != nil {
			t.Fatalf("expected repeated end, got ok=%v err=%v", ok, err)
		}
	}
}

func TestPipeThrough_LazyAndClose(t *testing.T) {
	pulled := 0
	src := FromChunks([]byte("x"))
	counted := TransformFunc[[]byte, []byte](func(r Readable[[]byte]) Readable[[]byte] {
		return Tap(r, func(context.Context, []byte) error {
			pulled++
			return nil
		})
	})

	out := PipeThrough[[]byte, []byte](src, counted)
	if pulled != 0 {
		t.Fatal("expected no pulls at attach time")
	}
	if err := out.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !src.Closed() {
		t.Error("expected Close to reach the source")
	}
}

func TestPipeTo_Success(t *testing.T) {
	var order []string
	src := &orderedSource{Readable: FromChunks([]byte("ab"), []byte{}, []byte("c")), order: &order}
	sink := &recordingSink{order: &order}

	if err := PipeTo(context.Background(), Readable[[]byte](src), Writable[[]byte](sink)); err != nil {
		t.Fatalf("PipeTo: %v", err)
	}
	if got := strings.Join(sink.got, "|"); got != "ab||c" {
		t.Errorf("sink got %q, want %q", got, "ab||c")
	}
	if strings.Join(order, ",") != "sink,source" {
		t.Errorf("close order = %v, want sink then source", order)
	}
}

func TestPipeTo_ErrorPaths(t *testing.T) {
	readErr := errors.New("read failed")
	writeErr := errors.New("write failed")
	closeErr := errors.New("close failed")

	tests := []struct {
		name     string
		src      Readable[[]byte]
		sink     *recordingSink
		wantErrs []error
	}{
		{
			name: "read error",
			src: ReadFunc[[]byte](func(context.Context) ([]byte, bool, error) {
				return nil, false, readErr
			}),
			sink:     &recordingSink{},
			wantErrs: []error{readErr},
		},
		{
			name:     "write error",
			src:      FromChunks([]byte("a")),
			sink:     &recordingSink{writeErr: writeErr},
			wantErrs: []error{writeErr},
		},
		{
			name:     "sink close error",
			src:      FromChunks([]byte("a")),
			sink:     &recordingSink{closeErr: closeErr},
			wantErrs: []error{closeErr},
		},
		{
			name: "read error joined with close error",
			src: ReadFunc[[]byte](func(context.Context) ([]byte, bool, error) {
				return nil, false, readErr
			}),
			sink:     &recordingSink{closeErr: closeErr},
			wantErrs: []error{readErr, closeErr},
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := PipeTo(context.Background(), tc.src, Writable[[]byte](tc.sink))
			if err == nil {
				t.Fatal("expected error")
			}
			for _, want := range tc.wantErrs {
				if !errors.Is(err, want) {
					t.Errorf("expected %v in %v", want, err)
				}
			}
			if !tc.sink.closed {
				t.Error("expected sink to be closed")
			}
		})
	}
}

func TestPipeTo_SourceClosedOnWriteError(t *testing.T) {
	var order []string
	src := &orderedSource{Readable: FromChunks([]byte("a")), order: &order}
	sink := &recordingSink{writeErr: errors.New("disk full"), order: &order}

	_ = PipeTo(context.Background(), Readable[[]byte](src), Writable[[]byte](sink))
	if strings.Join(order, ",") != "sink,source" {
		t.Errorf("close order = %v, want sink then source", order)
	}
}

func TestWriterFuncAndDiscard(t *testing.T) {
	var n int
	w := WriterFunc[int](func(_ context.Context, v int) error {
		n += v
		return nil
	})
	if err := PipeTo(context.Background(), Readable[int](FromChunks(1, 2, 3)), Writable[int](w)); err != nil {
		t.Fatal(err)
	}
	if n != 6 {
		t.Errorf("expected 6, got %d", n)
	}
	if err := PipeTo(context.Background(), Readable[int](FromChunks(1)), Discard[int]()); err != nil {
		t.Fatal(err)
	}
}

func ExamplePipeTo() {
	src := FromChunks([]byte("hello, "), []byte("world"))
	sink := WriterFunc[[]byte](func(_ context.Context, chunk []byte) error {
		fmt.Print(string(chunk))
		return nil
	})
	if err := PipeTo[[]byte](context.Background(), src, sink); err != nil {
		fmt.Println(err)
	}
	// Output: hello, world
}
