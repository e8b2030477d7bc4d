package wire

import (
	"strconv"

	"github.com/outrigger-db/pgparam/pgerr"
)

// errField tags a single field within a Postgres ErrorResponse message.
// http://www.postgresql.org/docs/current/static/protocol-error-fields.html
type errField byte

const (
	errFieldSeverity    errField = 'S'
	errFieldMsgPrimary  errField = 'M'
	errFieldSQLState    errField = 'C'
	errFieldDetail      errField = 'D'
	errFieldHint        errField = 'H'
	errFieldSrcFile     errField = 'F'
	errFieldSrcLine     errField = 'L'
	errFieldSrcFunction errField = 'R'
)

// serverErrorResponse is the ErrorResponse message-type byte.
const serverErrorResponse = byte('E')

// WriteErrorResponse flattens err through pgerr.Flatten and writes it into
// w as a single ErrorResponse message body: a type byte, then the severity,
// SQLSTATE and message fields, the hint and detail fields when non-empty,
// and the source file, line and function when a source is attached,
// terminated by a zero byte. Kind, WireType, AppType and Value are not
// written. w must be freshly Initialize'd; the caller owns flushing it.
func WriteErrorResponse(w *Writer, err error) error {
	desc := pgerr.Flatten(err)

	if writeErr := w.WriteByte(serverErrorResponse); writeErr != nil {
		return writeErr
	}

	if err := writeErrField(w, errFieldSeverity, string(desc.Severity)); err != nil {
		return err
	}
	if err := writeErrField(w, errFieldSQLState, string(desc.Code)); err != nil {
		return err
	}
	if err := writeErrField(w, errFieldMsgPrimary, desc.Message); err != nil {
		return err
	}

	if desc.Hint != "" {
		if err := writeErrField(w, errFieldHint, desc.Hint); err != nil {
			return err
		}
	}

	if desc.Detail != "" {
		if err := writeErrField(w, errFieldDetail, desc.Detail); err != nil {
			return err
		}
	}

	if desc.Source != nil {
		if err := writeErrField(w, errFieldSrcFile, desc.Source.File); err != nil {
			return err
		}
		if err := writeErrField(w, errFieldSrcLine, strconv.Itoa(int(desc.Source.Line))); err != nil {
			return err
		}
		if err := writeErrField(w, errFieldSrcFunction, desc.Source.Function); err != nil {
			return err
		}
	}

	return w.WriteByte(0)
}

func writeErrField(w *Writer, field errField, value string) error {
	if err := w.WriteByte(byte(field)); err != nil {
		return err
	}
	if err := w.WriteText(value); err != nil {
		return err
	}
	return w.WriteByte(0)
}
