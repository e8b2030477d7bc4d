// Package wire adapts the teacher corpus's buffered message writer/reader
// idiom into the Writer/Reader contract converters are written against,
// adding flush-mode bookkeeping and a single-use initialize/use/reset
// lifecycle.
package wire

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"log/slog"

	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/convert"
	"github.com/outrigger-db/pgparam/pgerr"
)

// FlushMode tags a Writer with whether, and how, it may flush.
type FlushMode int

const (
	// FlushNone permits no flushing; the writer only accumulates in
	// memory (used by param.Capture).
	FlushNone FlushMode = iota
	// FlushBlocking permits only the synchronous Flush.
	FlushBlocking
	// FlushNonBlocking permits only the asynchronous FlushAsync.
	FlushNonBlocking
)

// Writer is the PostgreSQL wire writer contract converters are written
// against, grounded on the teacher's pkg/buffer.Writer but generalized
// with the format/flush-mode state the parameter writer manipulates.
type Writer struct {
	out       io.Writer
	logger    *slog.Logger
	frame     bytes.Buffer
	putbuf    [8]byte
	err       error
	format    convert.DataFormat
	flushMode FlushMode
	inUse     bool
}

// NewWriter constructs a Writer over out in the given flush mode.
func NewWriter(logger *slog.Logger, out io.Writer, mode FlushMode) *Writer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{out: out, logger: logger, flushMode: mode}
}

// Initialize begins a new single-use span over this writer. A second
// Initialize before Reset fails with concurrent_use, per §5.
func (w *Writer) Initialize() error {
	if w.inUse {
		return pgerr.WithKind(errConcurrentUse, pgerr.KindConcurrentUse)
	}
	w.inUse = true
	w.frame.Reset()
	w.err = nil
	return nil
}

// Reset ends the current span, returning the writer to its unused state.
func (w *Writer) Reset() {
	w.frame.Reset()
	w.err = nil
	w.inUse = false
}

func (w *Writer) CurrentFormat() convert.DataFormat      { return w.format }
func (w *Writer) SetCurrentFormat(f convert.DataFormat)  { w.format = f }
func (w *Writer) FlushMode() FlushMode                   { return w.flushMode }
func (w *Writer) Error() error                           { return w.err }
func (w *Writer) Bytes() []byte                          { return w.frame.Bytes() }
func (w *Writer) Len() int                                { return w.frame.Len() }

func (w *Writer) WriteByte(b byte) error {
	if w.err != nil {
		return w.err
	}
	w.err = w.frame.WriteByte(b)
	return w.err
}

func (w *Writer) WriteInt16(v int16) error {
	if w.err != nil {
		return w.err
	}
	binary.BigEndian.PutUint16(w.putbuf[:2], uint16(v))
	_, w.err = w.frame.Write(w.putbuf[:2])
	return w.err
}

func (w *Writer) WriteInt32(v int32) error {
	if w.err != nil {
		return w.err
	}
	binary.BigEndian.PutUint32(w.putbuf[:4], uint32(v))
	_, w.err = w.frame.Write(w.putbuf[:4])
	return w.err
}

func (w *Writer) WriteInt64(v int64) error {
	if w.err != nil {
		return w.err
	}
	binary.BigEndian.PutUint64(w.putbuf[:8], uint64(v))
	_, w.err = w.frame.Write(w.putbuf[:8])
	return w.err
}

func (w *Writer) WriteUint32(v uint32) error {
	if w.err != nil {
		return w.err
	}
	binary.BigEndian.PutUint32(w.putbuf[:4], v)
	_, w.err = w.frame.Write(w.putbuf[:4])
	return w.err
}

// WriteText writes s without a length prefix; the caller owns framing.
func (w *Writer) WriteText(s string) error {
	if w.err != nil {
		return w.err
	}
	_, w.err = w.frame.WriteString(s)
	return w.err
}

// WriteRaw appends a possibly large byte sequence, flushing as needed so a
// single oversized value doesn't force unbounded buffering.
func (w *Writer) WriteRaw(b []byte) error {
	if w.err != nil {
		return w.err
	}

	const chunk = 8192
	for len(b) > 0 {
		n := len(b)
		if n > chunk {
			n = chunk
		}
		if _, err := w.frame.Write(b[:n]); err != nil {
			w.err = err
			return err
		}
		b = b[n:]

		if len(b) > 0 && w.flushMode == FlushBlocking {
			if err := w.Flush(); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteRawAsync is WriteRaw's suspendable counterpart; it checks ctx at
// each chunk boundary and flushes asynchronously between chunks.
func (w *Writer) WriteRawAsync(ctx context.Context, b []byte) error {
	if w.err != nil {
		return w.err
	}

	const chunk = 8192
	for len(b) > 0 {
		if err := ctx.Err(); err != nil {
			return err
		}

		n := len(b)
		if n > chunk {
			n = chunk
		}
		if _, err := w.frame.Write(b[:n]); err != nil {
			w.err = err
			return err
		}
		b = b[n:]

		if len(b) > 0 && w.flushMode == FlushNonBlocking {
			if err := w.FlushAsync(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteAsOID resolves id through cat and writes the resulting OID as a raw
// uint32; it never caches the OID beyond this call.
func (w *Writer) WriteAsOID(cat *catalog.TypeCatalog, id catalog.WireTypeID) error {
	oidValue, err := cat.OIDOf(id)
	if err != nil {
		return err
	}
	return w.WriteUint32(uint32(oidValue))
}

// Flush is the Blocking flush. Calling it against any other flush mode
// fails with wrong_flush_mode.
func (w *Writer) Flush() error {
	if w.flushMode != FlushBlocking {
		return pgerr.WithKind(errWrongFlushMode, pgerr.KindWrongFlushMode)
	}
	if w.err != nil {
		return w.err
	}

	_, err := w.out.Write(w.frame.Bytes())
	w.frame.Reset()
	if err != nil {
		w.err = err
	}
	w.logger.Debug("flushed writer frame")
	return err
}

// FlushAsync is the NonBlocking flush's suspension point.
func (w *Writer) FlushAsync(ctx context.Context) error {
	if w.flushMode != FlushNonBlocking {
		return pgerr.WithKind(errWrongFlushMode, pgerr.KindWrongFlushMode)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if w.err != nil {
		return w.err
	}

	_, err := w.out.Write(w.frame.Bytes())
	w.frame.Reset()
	if err != nil {
		w.err = err
	}
	w.logger.Debug("flushed writer frame (async)")
	return err
}

var (
	errConcurrentUse  = errString("writer or reader re-initialized before reset")
	errWrongFlushMode = errString("write call does not match writer's flush mode")
)

type errString string

func (e errString) Error() string { return string(e) }

var (
	_ convert.Writer      = (*Writer)(nil)
	_ convert.AsyncWriter = (*Writer)(nil)
)
