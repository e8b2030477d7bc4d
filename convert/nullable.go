package convert

import "context"

// Nullable lifts a non-nullable application value U into one that can also
// represent SQL NULL, the way the corpus's NullString/NullFloat32 types do.
type Nullable[U any] struct {
	Value U
	Valid bool
}

// Null constructs a Nullable[U] representing SQL NULL.
func Null[U any]() Nullable[U] {
	return Nullable[U]{}
}

// Some constructs a Nullable[U] wrapping a present value.
func Some[U any](v U) Nullable[U] {
	return Nullable[U]{Value: v, Valid: true}
}

// NullableConverter wraps Converter[U] into Converter[Nullable[U]]. Valid =
// false maps to db_null; Valid = true delegates to the inner converter.
type NullableConverter[U any] struct {
	inner Converter[U]
}

// NewNullableConverter builds the nullable lift decorator over inner.
func NewNullableConverter[U any](inner Converter[U]) NullableConverter[U] {
	return NullableConverter[U]{inner: inner}
}

func (n NullableConverter[U]) CanConvert(format DataFormat) bool {
	return n.inner.CanConvert(format)
}

// NullPredicateKind is always at least PredicateDefault (the Valid flag
// itself is the sentinel); it upgrades to PredicateExtended if the wrapped
// converter already inspects contents, per the "Extended on any inner
// Extended" rule.
func (n NullableConverter[U]) NullPredicateKind() DbNullPredicateKind {
	if n.inner.NullPredicateKind() == PredicateExtended {
		return PredicateExtended
	}
	return PredicateDefault
}

func (n NullableConverter[U]) IsDBNull(value Nullable[U]) bool {
	if !value.Valid {
		return true
	}
	return n.inner.IsDBNull(value.Value)
}

func (n NullableConverter[U]) GetSize(ctx *SizeContext, value Nullable[U]) (ValueSize, error) {
	return n.inner.GetSize(ctx, value.Value)
}

func (n NullableConverter[U]) Write(w Writer, value Nullable[U], writeState any) error {
	return n.inner.Write(w, value.Value, writeState)
}

func (n NullableConverter[U]) WriteAsync(ctx context.Context, w AsyncWriter, value Nullable[U], writeState any) error {
	return n.inner.WriteAsync(ctx, w, value.Value, writeState)
}

func (n NullableConverter[U]) Read(r Reader) (Nullable[U], error) {
	v, err := n.inner.Read(r)
	if err != nil {
		return Nullable[U]{}, err
	}
	return Some(v), nil
}

func (n NullableConverter[U]) ReadAsync(ctx context.Context, r AsyncReader) (Nullable[U], error) {
	v, err := n.inner.ReadAsync(ctx, r)
	if err != nil {
		return Nullable[U]{}, err
	}
	return Some(v), nil
}

var _ Converter[Nullable[int32]] = NullableConverter[int32]{}
