package charset

import (
	stderrors "errors"

	"golang.org/x/text/transform"

	"github.com/kbukum/textstream/errors"
)

// maxCarry bounds the incomplete trailing input a Session holds between calls.
// It comfortably exceeds the longest sequence of any supported charset.
const maxCarry = 64

var errSequenceTooLong = stderrors.New("incomplete sequence exceeds the longest character of the charset")

// Session is a Codec backed by a transform.Transformer. It is not safe for
// concurrent use.
type Session struct {
	name string
	t    transform.Transformer

	scratch  [maxCarry]byte
	carry    []byte // view into scratch
	consumed int64  // input bytes accepted by t, used for error offsets
}

var _ Codec = (*Session)(nil)

func newSession(name string, t transform.Transformer) *Session {
	return &Session{name: name, t: t}
}

// Name returns the charset name used in error reports.
func (s *Session) Name() string { return s.name }

// Convert implements Codec.
func (s *Session) Convert(dst, src []byte, final bool) (nDst, nSrc int, res Result, err error) {
	if len(s.carry) > 0 {
		var done bool
		nDst, nSrc, res, done, err = s.convertCarry(dst, src, final)
		if done || err != nil {
			return nDst, nSrc, res, err
		}
	}

	n, c, terr := s.t.Transform(dst[nDst:], src[nSrc:], final)
	nDst += n
	nSrc += c
	s.consumed += int64(c)

	switch terr {
	case nil:
		return nDst, nSrc, Underflow, nil
	case transform.ErrShortDst:
		return nDst, nSrc, Overflow, nil
	case transform.ErrShortSrc:
		tail := src[nSrc:]
		if len(tail) > maxCarry {
			return nDst, nSrc, Underflow, s.fail(errSequenceTooLong)
		}
		s.carry = s.scratch[:copy(s.scratch[:], tail)]
		return nDst, len(src), Underflow, nil
	default:
		return nDst, nSrc, Underflow, s.fail(terr)
	}
}

// convertCarry feeds the held bytes together with the head of src to the
// transformer. done reports that the call is complete; otherwise the held
// bytes are gone and conversion continues at src[nSrc:].
func (s *Session) convertCarry(dst, src []byte, final bool) (nDst, nSrc int, res Result, done bool, err error) {
	held := len(s.carry)
	n := copy(s.scratch[held:], src)
	buf := s.scratch[:held+n]
	all := n == len(src)

	nDst, c, terr := s.t.Transform(dst, buf, final && all)
	s.consumed += int64(c)

	switch terr {
	case nil, transform.ErrShortSrc, transform.ErrShortDst:
	default:
		return nDst, 0, Underflow, true, s.fail(terr)
	}

	switch {
	case c < held && terr == transform.ErrShortDst:
		// The held sequence did not fit in dst.
		s.carry = s.scratch[:copy(s.scratch[:], buf[c:held])]
		return nDst, 0, Overflow, true, nil
	case terr == transform.ErrShortSrc && all:
		// Everything left is still an incomplete sequence.
		s.carry = s.scratch[:copy(s.scratch[:], buf[c:])]
		return nDst, len(src), Underflow, true, nil
	case c < held:
		return nDst, 0, Underflow, true, s.fail(errSequenceTooLong)
	}

	s.carry = nil
	nSrc = c - held
	if terr == transform.ErrShortDst {
		return nDst, nSrc, Overflow, true, nil
	}
	if nSrc == len(src) {
		return nDst, nSrc, Underflow, true, nil
	}
	return nDst, nSrc, Underflow, false, nil
}

// Flush implements Codec.
func (s *Session) Flush(dst []byte, final bool) (nDst int, res Result, err error) {
	nDst, _, res, err = s.Convert(dst, nil, final)
	return nDst, res, err
}

// Reset implements Codec.
func (s *Session) Reset() {
	s.t.Reset()
	s.carry = nil
	s.consumed = 0
}

func (s *Session) fail(cause error) error {
	return errors.Conversion(s.name, s.consumed, cause)
}
