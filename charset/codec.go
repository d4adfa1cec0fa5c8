package charset

// Result reports why a conversion step stopped.
type Result int

const (
	// Underflow means all input was consumed; more input is needed to continue.
	Underflow Result = iota
	// Overflow means the output buffer is full; call again with more room.
	Overflow
)

func (r Result) String() string {
	switch r {
	case Underflow:
		return "underflow"
	case Overflow:
		return "overflow"
	default:
		return "unknown"
	}
}

// Codec converts a byte stream incrementally. Errors are the third outcome
// besides Underflow and Overflow.
type Codec interface {
	// Convert converts as much of src into dst as fits and reports how many
	// bytes of each were used. Incomplete trailing input is kept by the codec
	// and completed by the next call, in which case it counts as consumed.
	// final marks src as the last input of the stream.
	Convert(dst, src []byte, final bool) (nDst, nSrc int, res Result, err error)
	// Flush writes output the codec has buffered. With final set it also ends
	// the stream: held incomplete input becomes an error or a replacement.
	// Flush reports Overflow until everything buffered has been written.
	Flush(dst []byte, final bool) (nDst int, res Result, err error)
	// Reset clears all state so the codec can start a new stream.
	Reset()
}

// Policy selects how malformed input and unmappable characters are handled.
type Policy int

const (
	// Strict reports malformed or unmappable input as a conversion error.
	Strict Policy = iota
	// Replace substitutes U+FFFD when decoding and the charset's replacement
	// byte when encoding.
	Replace
)

func (p Policy) String() string {
	if p == Replace {
		return "replace"
	}
	return "strict"
}
