package convert

import (
	"context"
	"fmt"
	"math"

	"github.com/outrigger-db/pgparam/pgerr"
)

// Integer constrains the application-side and wire-side numeric types
// NumericCoercion can bridge. Coercion is checked in both directions;
// out-of-range values fail rather than wrap or truncate.
type Integer interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~int |
		~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uint
}

// NumericCoercion wraps Converter[U] (bound to some wire-numeric primitive,
// e.g. int32 for int4) into Converter[T] for any other integer
// application type T, checking range on every encode and decode.
type NumericCoercion[T Integer, U Integer] struct {
	inner Converter[U]
}

// NewNumericCoercion builds the coercion decorator targeting the wire width
// that inner already encodes/decodes.
func NewNumericCoercion[T Integer, U Integer](inner Converter[U]) NumericCoercion[T, U] {
	return NumericCoercion[T, U]{inner: inner}
}

func (n NumericCoercion[T, U]) CanConvert(format DataFormat) bool {
	return n.inner.CanConvert(format)
}

func (n NumericCoercion[T, U]) NullPredicateKind() DbNullPredicateKind {
	return n.inner.NullPredicateKind()
}

func (n NumericCoercion[T, U]) IsDBNull(T) bool { return false }

func (n NumericCoercion[T, U]) GetSize(ctx *SizeContext, value T) (ValueSize, error) {
	narrowed, err := coerce[U](value)
	if err != nil {
		return ValueSize{}, err
	}
	ctx.WriteState = narrowed
	return n.inner.GetSize(ctx, narrowed)
}

func (n NumericCoercion[T, U]) Write(w Writer, value T, writeState any) error {
	narrowed, ok := writeState.(U)
	if !ok {
		var err error
		narrowed, err = coerce[U](value)
		if err != nil {
			return err
		}
	}
	return n.inner.Write(w, narrowed, nil)
}

func (n NumericCoercion[T, U]) WriteAsync(ctx context.Context, w AsyncWriter, value T, writeState any) error {
	narrowed, ok := writeState.(U)
	if !ok {
		var err error
		narrowed, err = coerce[U](value)
		if err != nil {
			return err
		}
	}
	return n.inner.WriteAsync(ctx, w, narrowed, nil)
}

func (n NumericCoercion[T, U]) Read(r Reader) (T, error) {
	wide, err := n.inner.Read(r)
	if err != nil {
		var zero T
		return zero, err
	}
	return coerce[T](wide)
}

func (n NumericCoercion[T, U]) ReadAsync(ctx context.Context, r AsyncReader) (T, error) {
	wide, err := n.inner.ReadAsync(ctx, r)
	if err != nil {
		var zero T
		return zero, err
	}
	return coerce[T](wide)
}

// coerce performs a checked numeric conversion from any Integer to any
// Integer, returning value_out_of_range rather than wrapping or truncating
// when out's range cannot represent in. A 64-bit unsigned Out is treated as
// capped at math.MaxInt64.
func coerce[Out Integer, In Integer](in In) (Out, error) {
	var zero Out

	bounds := minMax[Out]()

	if minMax[In]().lo == 0 {
		u := uint64(in)
		if u > uint64(bounds.hi) {
			return zero, outOfRange(in, zero)
		}
		return Out(u), nil
	}

	value := int64(in)
	if value < bounds.lo || value > bounds.hi {
		return zero, outOfRange(in, zero)
	}

	return Out(value), nil
}

type rangeI64 struct{ lo, hi int64 }

func minMax[T Integer]() rangeI64 {
	var z T
	switch any(z).(type) {
	case int8:
		return rangeI64{math.MinInt8, math.MaxInt8}
	case int16:
		return rangeI64{math.MinInt16, math.MaxInt16}
	case int32:
		return rangeI64{math.MinInt32, math.MaxInt32}
	case int64, int:
		return rangeI64{math.MinInt64, math.MaxInt64}
	case uint8:
		return rangeI64{0, math.MaxUint8}
	case uint16:
		return rangeI64{0, math.MaxUint16}
	case uint32:
		return rangeI64{0, math.MaxUint32}
	case uint64, uint:
		return rangeI64{0, math.MaxInt64}
	default:
		return rangeI64{math.MinInt64, math.MaxInt64}
	}
}

func outOfRange[In Integer, Out Integer](in In, _ Out) error {
	bounds := minMax[Out]()
	return pgerr.WithKind(
		pgerr.WithDetail(
			pgerr.WithValue(
				pgerr.WithAppType(fmt.Errorf("value %v out of range for target numeric type", in), fmt.Sprintf("%T", in)),
				fmt.Sprintf("%v", in),
			),
			fmt.Sprintf("target type accepts values from %d to %d", bounds.lo, bounds.hi),
		),
		pgerr.KindValueOutOfRange,
	)
}

var _ Converter[int8] = NumericCoercion[int8, int32]{}
