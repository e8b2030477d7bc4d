package convert

import "context"

// Converter is the primitive encode/decode unit for one application type T
// bound to one (or more, via format negotiation) wire representation. A
// Converter instance is immutable after construction and safe to share
// across sessions; call sites that know T statically should hold a
// Converter[T] directly so the compiler can inline and devirtualize the
// call, rather than going through ObjectConverter.
type Converter[T any] interface {
	// CanConvert reports whether this converter supports the given format.
	CanConvert(format DataFormat) bool

	// NullPredicateKind reports how IsDBNull should be interpreted.
	NullPredicateKind() DbNullPredicateKind

	// IsDBNull reports whether value should be treated as SQL NULL. Callers
	// skip GetSize/Write entirely when this returns true.
	IsDBNull(value T) bool

	// GetSize computes the size of value's wire representation without
	// writing it, optionally populating ctx.WriteState for reuse by Write.
	GetSize(ctx *SizeContext, value T) (ValueSize, error)

	// Write synchronously serializes value. May call w's flush only if w's
	// flush mode is Blocking.
	Write(w Writer, value T, writeState any) error

	// WriteAsync is the suspendable counterpart of Write. May call w's
	// async flush only if w's flush mode is NonBlocking.
	WriteAsync(ctx context.Context, w AsyncWriter, value T, writeState any) error

	// Read synchronously decodes a T.
	Read(r Reader) (T, error)

	// ReadAsync is the suspendable counterpart of Read.
	ReadAsync(ctx context.Context, r AsyncReader) (T, error)
}

// ObjectConverter is the non-generic, object-safe façade over a
// Converter[T] for boxed/dynamic call sites, where the concrete T is not
// known until runtime. It exists purely to avoid forcing every call site in
// the codebase to be generic. Only a Converter[T] held directly bypasses it;
// the converters package resolve hands out, including the Converter[T]
// inside an Info[T], are adapters over an ObjectConverter.
type ObjectConverter interface {
	CanConvert(format DataFormat) bool
	NullPredicateKind() DbNullPredicateKind
	IsDBNullObject(value any) bool
	GetSizeObject(ctx *SizeContext, value any) (ValueSize, error)
	WriteObject(w Writer, value any, writeState any) error
	WriteAsyncObject(ctx context.Context, w AsyncWriter, value any, writeState any) error
	ReadObject(r Reader) (any, error)
	ReadAsyncObject(ctx context.Context, r AsyncReader) (any, error)
}

// AsObject adapts a Converter[T] to the object-safe ObjectConverter facade.
// Each call through the facade does exactly one type assertion before
// dispatching to the generic method; the generic method itself remains
// monomorphized and devirtualized at its own call sites.
func AsObject[T any](inner Converter[T]) ObjectConverter {
	return &objectConverter[T]{inner: inner}
}

type objectConverter[T any] struct {
	inner Converter[T]
}

func (o *objectConverter[T]) CanConvert(format DataFormat) bool {
	return o.inner.CanConvert(format)
}

func (o *objectConverter[T]) NullPredicateKind() DbNullPredicateKind {
	return o.inner.NullPredicateKind()
}

func (o *objectConverter[T]) IsDBNullObject(value any) bool {
	typed, _ := value.(T)
	if value == nil {
		var zero T
		typed = zero
	}
	return o.inner.IsDBNull(typed)
}

func (o *objectConverter[T]) GetSizeObject(ctx *SizeContext, value any) (ValueSize, error) {
	typed := value.(T)
	return o.inner.GetSize(ctx, typed)
}

func (o *objectConverter[T]) WriteObject(w Writer, value any, writeState any) error {
	typed := value.(T)
	return o.inner.Write(w, typed, writeState)
}

func (o *objectConverter[T]) WriteAsyncObject(ctx context.Context, w AsyncWriter, value any, writeState any) error {
	typed := value.(T)
	return o.inner.WriteAsync(ctx, w, typed, writeState)
}

func (o *objectConverter[T]) ReadObject(r Reader) (any, error) {
	return o.inner.Read(r)
}

func (o *objectConverter[T]) ReadAsyncObject(ctx context.Context, r AsyncReader) (any, error) {
	return o.inner.ReadAsync(ctx, r)
}
