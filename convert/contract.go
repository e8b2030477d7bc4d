package convert

import (
	"context"

	"github.com/outrigger-db/pgparam/catalog"
)

// Writer is the subset of wire.Writer a Converter needs. It is declared
// here, rather than imported from package wire, so convert has no
// dependency on the wire package's flush-mode bookkeeping; wire.Writer
// satisfies this interface structurally.
type Writer interface {
	WriteByte(b byte) error
	WriteInt16(v int16) error
	WriteInt32(v int32) error
	WriteInt64(v int64) error
	WriteUint32(v uint32) error
	WriteText(s string) error
	WriteRaw(b []byte) error
	// WriteAsOID resolves id through cat and writes the resulting OID as a
	// raw uint32; the array converter uses this to write an element's wire
	// type identity without ever caching an OID across sessions itself.
	WriteAsOID(cat *catalog.TypeCatalog, id catalog.WireTypeID) error
	CurrentFormat() DataFormat
	SetCurrentFormat(DataFormat)
}

// AsyncWriter is the suspendable counterpart of Writer, consumed by
// *Async converter methods.
type AsyncWriter interface {
	Writer
	FlushAsync(ctx context.Context) error
}

// Reader is the subset of wire.Reader a Converter needs.
type Reader interface {
	ReadByte() (byte, error)
	ReadInt16() (int16, error)
	ReadInt32() (int32, error)
	ReadInt64() (int64, error)
	ReadUint32() (uint32, error)
	ReadBytes(n int) ([]byte, error)
	// Len reports how many bytes remain in the Reader. TextConverter and
	// NumericConverter read all remaining bytes as one value, so they need a
	// Reader positioned over exactly one value's payload.
	Len() int
}

// AsyncReader is the suspendable counterpart of Reader.
type AsyncReader interface {
	Reader
	FillAsync(ctx context.Context) error
}

// SizeContext carries the information a converter's GetSize needs and the
// slot it populates for the later write phase.
type SizeContext struct {
	// BufferLength is how much room is already committed in the caller's
	// output buffer; informational only, some converters use it to decide
	// whether a resumable text encode can complete inline.
	BufferLength int
	// Format is the negotiated DataFormat this value will be written in.
	Format DataFormat
	// WriteState is populated by GetSize and handed back unchanged to
	// Write/WriteAsync for the same (converter, value) pair.
	WriteState any
}
