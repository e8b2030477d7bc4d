package convert_test

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/convert"
	"github.com/outrigger-db/pgparam/pgerr"
)

// memWriter is a minimal convert.Writer backed by a byte
// buffer, used only to exercise converters directly without the wire
// package's flush-mode bookkeeping.
type memWriter struct {
	buf    bytes.Buffer
	format convert.DataFormat
}

func (w *memWriter) WriteByte(b byte) error        { return w.buf.WriteByte(b) }
func (w *memWriter) WriteInt16(v int16) error       { return binary.Write(&w.buf, binary.BigEndian, v) }
func (w *memWriter) WriteInt32(v int32) error       { return binary.Write(&w.buf, binary.BigEndian, v) }
func (w *memWriter) WriteInt64(v int64) error       { return binary.Write(&w.buf, binary.BigEndian, v) }
func (w *memWriter) WriteUint32(v uint32) error     { return binary.Write(&w.buf, binary.BigEndian, v) }
func (w *memWriter) WriteText(s string) error       { _, err := w.buf.WriteString(s); return err }
func (w *memWriter) WriteRaw(b []byte) error        { _, err := w.buf.Write(b); return err }
func (w *memWriter) WriteAsOID(cat *catalog.TypeCatalog, id catalog.WireTypeID) error {
	oidValue, err := cat.OIDOf(id)
	if err != nil {
		return err
	}
	return w.WriteUint32(uint32(oidValue))
}
func (w *memWriter) CurrentFormat() convert.DataFormat { return w.format }
func (w *memWriter) SetCurrentFormat(f convert.DataFormat) { w.format = f }

type memReader struct {
	buf *bytes.Reader
}

func newMemReader(b []byte) *memReader { return &memReader{buf: bytes.NewReader(b)} }

func (r *memReader) ReadByte() (byte, error)    { return r.buf.ReadByte() }
func (r *memReader) ReadInt16() (int16, error) {
	var v int16
	err := binary.Read(r.buf, binary.BigEndian, &v)
	return v, err
}
func (r *memReader) ReadInt32() (int32, error) {
	var v int32
	err := binary.Read(r.buf, binary.BigEndian, &v)
	return v, err
}
func (r *memReader) ReadInt64() (int64, error) {
	var v int64
	err := binary.Read(r.buf, binary.BigEndian, &v)
	return v, err
}
func (r *memReader) ReadUint32() (uint32, error) {
	var v uint32
	err := binary.Read(r.buf, binary.BigEndian, &v)
	return v, err
}
func (r *memReader) ReadBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	_, err := r.buf.Read(b)
	return b, err
}
func (r *memReader) Len() int { return r.buf.Len() }

// TestScenarioA_Int4Binary is the spec's scenario A.
func TestScenarioA_Int4Binary(t *testing.T) {
	c := convert.NewInt4Converter()
	w := &memWriter{}

	ctx := &convert.SizeContext{Format: convert.BinaryFormat}
	size, err := c.GetSize(ctx, 42)
	require.NoError(t, err)
	assert.Equal(t, convert.SizeExact, size.Kind())
	assert.Equal(t, 4, size.N())

	require.NoError(t, c.Write(w, 42, ctx.WriteState))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x2A}, w.buf.Bytes())
}

// TestScenarioB_Int8CoercedToInt4 is the spec's scenario B.
func TestScenarioB_Int8CoercedToInt4(t *testing.T) {
	inner := convert.NewInt4Converter()
	c := convert.NewNumericCoercion[int64, int32](inner)
	w := &memWriter{}

	ctx := &convert.SizeContext{Format: convert.BinaryFormat}
	size, err := c.GetSize(ctx, int64(42))
	require.NoError(t, err)
	assert.Equal(t, 4, size.N())

	require.NoError(t, c.Write(w, int64(42), ctx.WriteState))
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x2A}, w.buf.Bytes())
}

// TestScenarioC_Int8OutOfRangeForInt4 is the spec's scenario C.
func TestScenarioC_Int8OutOfRangeForInt4(t *testing.T) {
	inner := convert.NewInt4Converter()
	c := convert.NewNumericCoercion[int64, int32](inner)

	ctx := &convert.SizeContext{Format: convert.BinaryFormat}
	_, err := c.GetSize(ctx, int64(2_147_483_648))
	require.Error(t, err)
	assert.Equal(t, pgerr.KindValueOutOfRange, pgerr.GetKind(err))
}

// TestScenarioD_NullableInt4IsNull is the spec's scenario D.
func TestScenarioD_NullableInt4IsNull(t *testing.T) {
	inner := convert.NewInt4Converter()
	c := convert.NewNullableConverter[int32](inner)

	value := convert.Null[int32]()
	assert.True(t, c.IsDBNull(value))
}

// TestScenarioE_TextArray is the spec's scenario E.
func TestScenarioE_TextArray(t *testing.T) {
	elem := convert.NewTextConverter()
	cat := catalog.New()
	c := convert.NewArrayConverter[string](elem, cat, catalog.ByName("text"))
	w := &memWriter{}

	ctx := &convert.SizeContext{Format: convert.BinaryFormat}
	value := []string{"a", "b"}
	size, err := c.GetSize(ctx, value)
	require.NoError(t, err)
	assert.Equal(t, convert.SizeExact, size.Kind())

	require.NoError(t, c.Write(w, value, ctx.WriteState))

	got := w.buf.Bytes()
	expectHeader := []byte{
		0, 0, 0, 1, // ndim
		0, 0, 0, 0, // has_nulls
		0, 0, 0, 25, // element_oid
		0, 0, 0, 1, // lower_bound
		0, 0, 0, 2, // length
	}
	assert.Equal(t, expectHeader, got[:len(expectHeader)])

	rest := got[len(expectHeader):]
	expectRest := []byte{0, 0, 0, 1, 'a', 0, 0, 0, 1, 'b'}
	assert.Equal(t, expectRest, rest)
}

func TestArrayRoundTrip(t *testing.T) {
	elem := convert.NewInt4Converter()
	cat := catalog.New()
	c := convert.NewArrayConverter[int32](elem, cat, catalog.ByName("int4"))
	w := &memWriter{}

	ctx := &convert.SizeContext{Format: convert.BinaryFormat}
	value := []int32{1, 2, 3}
	_, err := c.GetSize(ctx, value)
	require.NoError(t, err)
	require.NoError(t, c.Write(w, value, ctx.WriteState))

	r := newMemReader(w.buf.Bytes())
	got, err := c.Read(r)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestNullableRoundTripNonNull(t *testing.T) {
	inner := convert.NewFloat8Converter()
	c := convert.NewNullableConverter[float64](inner)
	w := &memWriter{}

	value := convert.Some(3.5)
	ctx := &convert.SizeContext{Format: convert.BinaryFormat}
	_, err := c.GetSize(ctx, value)
	require.NoError(t, err)
	require.NoError(t, c.Write(w, value, ctx.WriteState))

	r := newMemReader(w.buf.Bytes())
	got, err := c.Read(r)
	require.NoError(t, err)
	assert.Equal(t, value, got)
}

func TestBoolRoundTrip(t *testing.T) {
	c := convert.NewBoolConverter()
	w := &memWriter{}
	require.NoError(t, c.Write(w, true, nil))

	r := newMemReader(w.buf.Bytes())
	got, err := c.Read(r)
	require.NoError(t, err)
	assert.True(t, got)
}

func TestTextRoundTrip(t *testing.T) {
	c := convert.NewTextConverter()
	w := &memWriter{}
	require.NoError(t, c.Write(w, "hello", nil))

	r := newMemReader(w.buf.Bytes())
	got, err := c.Read(r)
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
}
