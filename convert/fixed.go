package convert

import (
	"context"
	"fmt"
	"math"

	"github.com/outrigger-db/pgparam/pgerr"
)

// fixedWidthConverter is the shared base for primitive converters whose
// size is always Exact(n) for a fixed small n, binary-only. It is not a
// distinct exported type; each concrete converter embeds it for CanConvert,
// NullPredicateKind and sizeExact and defines its own Read and Write for
// its width.
type fixedWidthConverter struct {
	width int
}

func (f fixedWidthConverter) CanConvert(format DataFormat) bool {
	return format == BinaryFormat
}

func (f fixedWidthConverter) NullPredicateKind() DbNullPredicateKind {
	return PredicateNone
}

func (f fixedWidthConverter) sizeExact() (ValueSize, error) {
	return Exact(f.width), nil
}

func formatNotSupported(appType string, format DataFormat) error {
	return pgerr.WithKind(
		pgerr.WithAppType(fmt.Errorf("%s converter does not support %s format", appType, format), appType),
		pgerr.KindFormatNotSupported,
	)
}

// Int2Converter converts between Go int16 and PostgreSQL int2.
type Int2Converter struct{ fixedWidthConverter }

func NewInt2Converter() Int2Converter { return Int2Converter{fixedWidthConverter{width: 2}} }

func (Int2Converter) IsDBNull(int16) bool { return false }

func (c Int2Converter) GetSize(_ *SizeContext, _ int16) (ValueSize, error) { return c.sizeExact() }

func (Int2Converter) Write(w Writer, value int16, _ any) error {
	return w.WriteInt16(value)
}

func (c Int2Converter) WriteAsync(_ context.Context, w AsyncWriter, value int16, writeState any) error {
	return c.Write(w, value, writeState)
}

func (Int2Converter) Read(r Reader) (int16, error) { return r.ReadInt16() }

func (c Int2Converter) ReadAsync(_ context.Context, r AsyncReader) (int16, error) {
	return c.Read(r)
}

// Int4Converter converts between Go int32 and PostgreSQL int4.
type Int4Converter struct{ fixedWidthConverter }

func NewInt4Converter() Int4Converter { return Int4Converter{fixedWidthConverter{width: 4}} }

func (Int4Converter) IsDBNull(int32) bool { return false }

func (c Int4Converter) GetSize(_ *SizeContext, _ int32) (ValueSize, error) { return c.sizeExact() }

func (Int4Converter) Write(w Writer, value int32, _ any) error { return w.WriteInt32(value) }

func (c Int4Converter) WriteAsync(_ context.Context, w AsyncWriter, value int32, writeState any) error {
	return c.Write(w, value, writeState)
}

func (Int4Converter) Read(r Reader) (int32, error) { return r.ReadInt32() }

func (c Int4Converter) ReadAsync(_ context.Context, r AsyncReader) (int32, error) {
	return c.Read(r)
}

// Int8Converter converts between Go int64 and PostgreSQL int8.
type Int8Converter struct{ fixedWidthConverter }

func NewInt8Converter() Int8Converter { return Int8Converter{fixedWidthConverter{width: 8}} }

func (Int8Converter) IsDBNull(int64) bool { return false }

func (c Int8Converter) GetSize(_ *SizeContext, _ int64) (ValueSize, error) { return c.sizeExact() }

func (Int8Converter) Write(w Writer, value int64, _ any) error { return w.WriteInt64(value) }

func (c Int8Converter) WriteAsync(_ context.Context, w AsyncWriter, value int64, writeState any) error {
	return c.Write(w, value, writeState)
}

func (Int8Converter) Read(r Reader) (int64, error) { return r.ReadInt64() }

func (c Int8Converter) ReadAsync(_ context.Context, r AsyncReader) (int64, error) {
	return c.Read(r)
}

// BoolConverter converts between Go bool and PostgreSQL bool.
type BoolConverter struct{ fixedWidthConverter }

func NewBoolConverter() BoolConverter { return BoolConverter{fixedWidthConverter{width: 1}} }

func (BoolConverter) IsDBNull(bool) bool { return false }

func (c BoolConverter) GetSize(_ *SizeContext, _ bool) (ValueSize, error) { return c.sizeExact() }

func (BoolConverter) Write(w Writer, value bool, _ any) error {
	var b byte
	if value {
		b = 1
	}
	return w.WriteByte(b)
}

func (c BoolConverter) WriteAsync(_ context.Context, w AsyncWriter, value bool, writeState any) error {
	return c.Write(w, value, writeState)
}

func (BoolConverter) Read(r Reader) (bool, error) {
	b, err := r.ReadByte()
	if err != nil {
		return false, err
	}
	return b != 0, nil
}

func (c BoolConverter) ReadAsync(_ context.Context, r AsyncReader) (bool, error) {
	return c.Read(r)
}

// Float4Converter converts between Go float32 and PostgreSQL float4.
type Float4Converter struct{ fixedWidthConverter }

func NewFloat4Converter() Float4Converter { return Float4Converter{fixedWidthConverter{width: 4}} }

func (Float4Converter) IsDBNull(float32) bool { return false }

func (c Float4Converter) GetSize(_ *SizeContext, _ float32) (ValueSize, error) { return c.sizeExact() }

func (Float4Converter) Write(w Writer, value float32, _ any) error {
	return w.WriteInt32(int32(math.Float32bits(value)))
}

func (c Float4Converter) WriteAsync(_ context.Context, w AsyncWriter, value float32, writeState any) error {
	return c.Write(w, value, writeState)
}

func (Float4Converter) Read(r Reader) (float32, error) {
	raw, err := r.ReadInt32()
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(uint32(raw)), nil
}

func (c Float4Converter) ReadAsync(_ context.Context, r AsyncReader) (float32, error) {
	return c.Read(r)
}

// Float8Converter converts between Go float64 and PostgreSQL float8.
type Float8Converter struct{ fixedWidthConverter }

func NewFloat8Converter() Float8Converter { return Float8Converter{fixedWidthConverter{width: 8}} }

func (Float8Converter) IsDBNull(float64) bool { return false }

func (c Float8Converter) GetSize(_ *SizeContext, _ float64) (ValueSize, error) { return c.sizeExact() }

func (Float8Converter) Write(w Writer, value float64, _ any) error {
	return w.WriteInt64(int64(math.Float64bits(value)))
}

func (c Float8Converter) WriteAsync(_ context.Context, w AsyncWriter, value float64, writeState any) error {
	return c.Write(w, value, writeState)
}

func (Float8Converter) Read(r Reader) (float64, error) {
	raw, err := r.ReadInt64()
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(uint64(raw)), nil
}

func (c Float8Converter) ReadAsync(_ context.Context, r AsyncReader) (float64, error) {
	return c.Read(r)
}

var (
	_ Converter[int16]   = Int2Converter{}
	_ Converter[int32]   = Int4Converter{}
	_ Converter[int64]   = Int8Converter{}
	_ Converter[bool]    = BoolConverter{}
	_ Converter[float32] = Float4Converter{}
	_ Converter[float64] = Float8Converter{}
)
