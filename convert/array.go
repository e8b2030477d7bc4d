package convert

import (
	"context"

	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/pgerr"
)

// ArrayConverter lifts Converter[U] to Converter[[]U], targeting the
// element's array wire type. Outside this package's tests it is built only
// by the array factory in package resolve, once it has located both the
// element converter and the element's array wire identity.
type ArrayConverter[U any] struct {
	elem         Converter[U]
	cat          *catalog.TypeCatalog
	elemWireType catalog.WireTypeID
}

// NewArrayConverter is exported for package resolve's array factory (and
// this package's tests). elemWireType is resolved through cat, via Writer.WriteAsOID, at write
// time rather than cached as a raw OID on the converter.
func NewArrayConverter[U any](elem Converter[U], cat *catalog.TypeCatalog, elemWireType catalog.WireTypeID) ArrayConverter[U] {
	return ArrayConverter[U]{elem: elem, cat: cat, elemWireType: elemWireType}
}

func (a ArrayConverter[U]) CanConvert(format DataFormat) bool {
	return format == BinaryFormat && a.elem.CanConvert(BinaryFormat)
}

func (a ArrayConverter[U]) NullPredicateKind() DbNullPredicateKind {
	return PredicateDefault
}

func (a ArrayConverter[U]) IsDBNull(value []U) bool {
	return value == nil
}

// arrayWriteState caches per-element ValueSize and WriteState so Write
// doesn't recompute them.
type arrayWriteState struct {
	elementSizes  []ValueSize
	elementStates []any
}

func (a ArrayConverter[U]) GetSize(ctx *SizeContext, value []U) (ValueSize, error) {
	// header: ndim(4) + has_nulls(4) + element_oid(4) + per-dim {lb(4) len(4)}
	total := 4 + 4 + 4 + 4 + 4

	state := &arrayWriteState{
		elementSizes:  make([]ValueSize, len(value)),
		elementStates: make([]any, len(value)),
	}

	for i, v := range value {
		elemCtx := &SizeContext{Format: ctx.Format}
		size, err := a.elem.GetSize(elemCtx, v)
		if err != nil {
			return ValueSize{}, err
		}

		state.elementSizes[i] = size
		state.elementStates[i] = elemCtx.WriteState

		// each element is length-prefixed (4 bytes) regardless of size kind
		total += 4
		if size.Kind() == SizeExact || size.Kind() == SizeUpperBound {
			total += size.N()
		}
	}

	ctx.WriteState = state

	if anyUnknown(state.elementSizes) {
		return Unknown(), nil
	}
	if anyUpperBound(state.elementSizes) {
		return UpperBound(total), nil
	}
	return Exact(total), nil
}

func anyUnknown(sizes []ValueSize) bool {
	for _, s := range sizes {
		if s.Kind() == SizeUnknown {
			return true
		}
	}
	return false
}

func anyUpperBound(sizes []ValueSize) bool {
	for _, s := range sizes {
		if s.Kind() == SizeUpperBound {
			return true
		}
	}
	return false
}

func (a ArrayConverter[U]) Write(w Writer, value []U, writeState any) error {
	state, ok := writeState.(*arrayWriteState)
	if !ok {
		return pgerr.WithKind(errNoWriteState, pgerr.KindInvalidWireData)
	}

	if err := writeArrayHeader(w, len(value), a.cat, a.elemWireType); err != nil {
		return err
	}

	for i, v := range value {
		size := state.elementSizes[i]
		if size.Kind() != SizeExact {
			return pgerr.WithKind(errArrayElementSizeNotExact, pgerr.KindInvalidWireData)
		}
		if err := w.WriteInt32(int32(size.N())); err != nil {
			return err
		}
		if err := a.elem.Write(w, v, state.elementStates[i]); err != nil {
			return err
		}
	}

	return nil
}

func (a ArrayConverter[U]) WriteAsync(ctx context.Context, w AsyncWriter, value []U, writeState any) error {
	state, ok := writeState.(*arrayWriteState)
	if !ok {
		return pgerr.WithKind(errNoWriteState, pgerr.KindInvalidWireData)
	}

	if err := writeArrayHeader(w, len(value), a.cat, a.elemWireType); err != nil {
		return err
	}

	for i, v := range value {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		size := state.elementSizes[i]
		if size.Kind() != SizeExact {
			return pgerr.WithKind(errArrayElementSizeNotExact, pgerr.KindInvalidWireData)
		}
		if err := w.WriteInt32(int32(size.N())); err != nil {
			return err
		}
		if err := a.elem.WriteAsync(ctx, w, v, state.elementStates[i]); err != nil {
			return err
		}
	}

	return nil
}

func writeArrayHeader(w Writer, n int, cat *catalog.TypeCatalog, elemWireType catalog.WireTypeID) error {
	if err := w.WriteInt32(1); err != nil { // ndim
		return err
	}
	if err := w.WriteInt32(0); err != nil { // has_nulls
		return err
	}
	if err := w.WriteAsOID(cat, elemWireType); err != nil {
		return err
	}
	if err := w.WriteInt32(1); err != nil { // lower_bound
		return err
	}
	return w.WriteInt32(int32(n)) // length
}

func (a ArrayConverter[U]) Read(r Reader) ([]U, error) {
	ndim, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}
	if ndim == 0 {
		return []U{}, nil
	}

	if _, err := r.ReadInt32(); err != nil { // has_nulls
		return nil, err
	}
	if _, err := r.ReadUint32(); err != nil { // element_oid
		return nil, err
	}
	if _, err := r.ReadInt32(); err != nil { // lower_bound
		return nil, err
	}
	length, err := r.ReadInt32()
	if err != nil {
		return nil, err
	}

	out := make([]U, 0, length)
	for i := int32(0); i < length; i++ {
		elemLen, err := r.ReadInt32()
		if err != nil {
			return nil, err
		}
		if elemLen == -1 {
			var zero U
			out = append(out, zero)
			continue
		}
		v, err := a.elem.Read(r)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}

	return out, nil
}

func (a ArrayConverter[U]) ReadAsync(ctx context.Context, r AsyncReader) ([]U, error) {
	return a.Read(r)
}

var (
	errNoWriteState             = errStr("array write called without a prior GetSize call")
	errArrayElementSizeNotExact = errStr("array elements must report Exact size")
)

type errStr string

func (e errStr) Error() string { return string(e) }

var _ Converter[[]int32] = ArrayConverter[int32]{}
