package transcode

import (
	"context"

	"github.com/kbukum/textstream/charset"
	"github.com/kbukum/textstream/errors"
	"github.com/kbukum/textstream/logger"
	"github.com/kbukum/textstream/stream"
)

type state int

const (
	stateNeedInput state = iota
	stateConverting
	stateDraining // mid-stream flush
	stateFlushing // final flush
	stateDone
)

func (s state) String() string {
	switch s {
	case stateNeedInput:
		return "need_input"
	case stateConverting:
		return "converting"
	case stateDraining:
		return "draining"
	case stateFlushing:
		return "flushing"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// engine pulls chunks from source, runs them through codec and returns the
// output in chunks of at most len(buf) bytes. Returned chunks alias buf.
//
// At most one of pending input and an overflowed flush drives the next
// Read: pending input is only held in stateConverting, an overflowed flush
// only in stateDraining or stateFlushing.
type engine[In, Out ~[]byte] struct {
	source stream.Readable[In]
	codec  charset.Codec

	buf       []byte
	pos       int
	pending   []byte
	state     state
	unbounded bool
	err       error
	closed    bool

	stage   string
	charset string
	log     *logger.Logger
	chunks  int64
	bytesIn int64
	bytes   int64
}

func newEngine[In, Out ~[]byte](src stream.Readable[In], codec charset.Codec, stage, name string, o options) *engine[In, Out] {
	return &engine[In, Out]{
		source:    src,
		codec:     codec,
		buf:       make([]byte, o.bufferSize),
		unbounded: o.unbounded,
		stage:     stage,
		charset:   name,
		log:       o.log,
	}
}

// Read implements stream.Readable.
func (e *engine[In, Out]) Read(ctx context.Context) (Out, bool, error) {
	if e.err != nil {
		return nil, false, e.err
	}
	e.pos = 0

	for {
		switch e.state {
		case stateDone:
			return e.end()

		case stateNeedInput:
			if e.pos == len(e.buf) {
				return e.emit()
			}
			chunk, ok, err := e.source.Read(ctx)
			if err != nil {
				return e.fail(err)
			}
			if !ok {
				e.state = stateFlushing
				continue
			}
			e.bytesIn += int64(len(chunk))
			e.pending = []byte(chunk)
			e.state = stateConverting

		case stateConverting:
			n, c, res, err := e.codec.Convert(e.buf[e.pos:], e.pending, false)
			e.pos += n
			e.pending = e.pending[c:]
			if err != nil {
				return e.fail(err)
			}
			if res == charset.Overflow {
				ret, err := e.overflow()
				if err != nil {
					return e.fail(err)
				}
				if ret {
					return e.emit()
				}
				continue
			}
			e.pending = nil
			e.state = stateDraining

		case stateDraining:
			n, res, err := e.codec.Flush(e.buf[e.pos:], false)
			e.pos += n
			if err != nil {
				return e.fail(err)
			}
			if res == charset.Overflow {
				ret, err := e.overflow()
				if err != nil {
					return e.fail(err)
				}
				if ret {
					return e.emit()
				}
				continue
			}
			e.state = stateNeedInput
			if e.unbounded && e.pos > 0 {
				return e.emit()
			}

		case stateFlushing:
			n, res, err := e.codec.Flush(e.buf[e.pos:], true)
			e.pos += n
			if err != nil {
				return e.fail(err)
			}
			if res == charset.Overflow {
				ret, err := e.overflow()
				if err != nil {
					return e.fail(err)
				}
				if ret {
					return e.emit()
				}
				continue
			}
			e.state = stateDone
			e.codec.Reset()
			e.log.Debug("end of stream", e.fields())
			if e.pos > 0 {
				return e.emit()
			}
			return e.end()
		}
	}
}

// overflow handles a full output buffer and reports whether Read should
// return what it holds. An unbounded engine grows instead.
func (e *engine[In, Out]) overflow() (bool, error) {
	if e.unbounded {
		grown := make([]byte, 2*len(e.buf))
		copy(grown, e.buf[:e.pos])
		e.buf = grown
		return false, nil
	}
	if e.pos == 0 {
		return false, errors.BufferTooSmall(len(e.buf))
	}
	return true, nil
}

func (e *engine[In, Out]) emit() (Out, bool, error) {
	e.chunks++
	e.bytes += int64(e.pos)
	return Out(e.buf[:e.pos:e.pos]), true, nil
}

func (e *engine[In, Out]) end() (Out, bool, error) {
	return nil, false, nil
}

// fail makes err sticky. Output converted before the failure is returned
// first; the error follows on the next Read.
func (e *engine[In, Out]) fail(err error) (Out, bool, error) {
	e.err = err
	e.pending = nil
	f := logger.MergeWithError(e.fields(), err)
	f["state"] = e.state.String()
	e.log.Debug("transcoding failed", f)
	if e.pos > 0 {
		return e.emit()
	}
	return nil, false, err
}

func (e *engine[In, Out]) fields() map[string]interface{} {
	f := logger.StageFields(e.stage, e.chunks, e.bytes)
	f[logger.FieldCharset] = e.charset
	f["bytes_in"] = e.bytesIn
	return f
}

// Close closes the source and resets the codec. Later calls do nothing and
// Read reports end of stream.
func (e *engine[In, Out]) Close() error {
	if e.closed {
		return nil
	}
	e.closed = true
	e.state = stateDone
	e.pending = nil
	e.err = nil
	e.codec.Reset()
	return e.source.Close()
}
