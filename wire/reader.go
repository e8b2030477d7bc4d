package wire

import (
	"context"
	"encoding/binary"
	"fmt"

	"github.com/outrigger-db/pgparam/convert"
	"github.com/outrigger-db/pgparam/pgerr"
)

// Reader is the PostgreSQL wire reader contract converters are written
// against: a cursor over an already-received parameter payload. Grounded
// on the teacher's pkg/buffer.Reader GetBytes/GetUint16/GetInt32 slicing
// idiom, generalized with the async fill suspension point from §5.
type Reader struct {
	msg   []byte
	inUse bool
}

// NewReader wraps msg, the exact bytes of one parameter's wire payload.
func NewReader(msg []byte) *Reader {
	return &Reader{msg: msg}
}

// Initialize begins a new single-use span over this reader.
func (r *Reader) Initialize(msg []byte) error {
	if r.inUse {
		return pgerr.WithKind(errConcurrentUse, pgerr.KindConcurrentUse)
	}
	r.inUse = true
	r.msg = msg
	return nil
}

// Reset ends the current span.
func (r *Reader) Reset() {
	r.msg = nil
	r.inUse = false
}

// Len reports how many bytes of the current parameter frame remain.
func (r *Reader) Len() int { return len(r.msg) }

func (r *Reader) ReadByte() (byte, error) {
	if len(r.msg) < 1 {
		return 0, insufficientData(len(r.msg))
	}
	b := r.msg[0]
	r.msg = r.msg[1:]
	return b, nil
}

func (r *Reader) ReadInt16() (int16, error) {
	if len(r.msg) < 2 {
		return 0, insufficientData(len(r.msg))
	}
	v := int16(binary.BigEndian.Uint16(r.msg[:2]))
	r.msg = r.msg[2:]
	return v, nil
}

func (r *Reader) ReadInt32() (int32, error) {
	if len(r.msg) < 4 {
		return 0, insufficientData(len(r.msg))
	}
	v := int32(binary.BigEndian.Uint32(r.msg[:4]))
	r.msg = r.msg[4:]
	return v, nil
}

func (r *Reader) ReadInt64() (int64, error) {
	if len(r.msg) < 8 {
		return 0, insufficientData(len(r.msg))
	}
	v := int64(binary.BigEndian.Uint64(r.msg[:8]))
	r.msg = r.msg[8:]
	return v, nil
}

func (r *Reader) ReadUint32() (uint32, error) {
	if len(r.msg) < 4 {
		return 0, insufficientData(len(r.msg))
	}
	v := binary.BigEndian.Uint32(r.msg[:4])
	r.msg = r.msg[4:]
	return v, nil
}

// ReadBytes returns a borrowed span of n bytes, valid until the next call.
func (r *Reader) ReadBytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, insufficientData(len(r.msg))
	}
	if len(r.msg) < n {
		return nil, insufficientData(len(r.msg))
	}
	v := r.msg[:n]
	r.msg = r.msg[n:]
	return v, nil
}

// FillAsync is the async suspension point for refilling the reader from
// upstream when bytes have not yet arrived. This Reader is always
// constructed over an already-fully-received parameter payload (the
// message framing layer outside this module's scope has already done the
// upstream read), so FillAsync only needs to honor cancellation.
func (r *Reader) FillAsync(ctx context.Context) error {
	return ctx.Err()
}

func insufficientData(have int) error {
	return pgerr.WithKind(
		fmt.Errorf("insufficient data: %d bytes remaining", have),
		pgerr.KindInvalidWireData,
	)
}

var (
	_ convert.Reader      = (*Reader)(nil)
	_ convert.AsyncReader = (*Reader)(nil)
)
