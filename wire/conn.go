package wire

import (
	"io"
	"log/slog"
)

// Conn pairs a Writer and Reader over one underlying connection, giving
// callers a single place to drive the initialize -> use -> reset lifecycle
// for both directions of one logical flow.
type Conn struct {
	Writer *Writer
	Reader *Reader
}

// NewConn builds a Conn. mode is the writer's flush mode; the reader has
// no flush mode since it only ever consumes bytes already delivered.
func NewConn(logger *slog.Logger, out io.Writer, mode FlushMode) *Conn {
	return &Conn{
		Writer: NewWriter(logger, out, mode),
		Reader: NewReader(nil),
	}
}
