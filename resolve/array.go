package resolve

import (
	"context"
	"fmt"
	"reflect"

	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/convert"
	"github.com/outrigger-db/pgparam/pgerr"
)

// arrayFactory recognizes any slice-of-U application type and constructs
// the array decorator over the chain's resolution for element type U. It
// is a Factory rather than a direct construction because it is generic
// over whatever element wire type the slice's element type resolves to.
type arrayFactory struct{}

func (arrayFactory) TryResolve(chain *Chain, appType reflect.Type, wireType *catalog.WireTypeID) (ObjectInfo, bool, error) {
	if appType.Kind() != reflect.Slice {
		return ObjectInfo{}, false, nil
	}

	elemType := appType.Elem()

	var elemWireType *catalog.WireTypeID
	elemCanonical, hasDefault := chain.defaultPairs[elemType]
	if hasDefault {
		id := catalog.ByName(elemCanonical)
		elemWireType = &id
	}

	elemInfo, err := chain.Resolve(elemType, elemWireType)
	if err != nil {
		return ObjectInfo{}, false, nil //nolint:nilerr // no resolution for this slice's element; not this factory's match
	}

	elemName, ok := elemInfo.WireType.NameValue()
	if !ok {
		resolvedName, err := chain.catalog.NameOf(mustOID(elemInfo.WireType))
		if err != nil {
			return ObjectInfo{}, false, err
		}
		elemName = resolvedName
	}

	arrayName, err := chain.catalog.ArrayOf(elemName)
	if err != nil {
		return ObjectInfo{}, false, err
	}

	conv, err := buildArrayConverter(elemType, elemInfo, chain.catalog)
	if err != nil {
		return ObjectInfo{}, false, err
	}

	return ObjectInfo{
		Converter:       conv,
		WireType:        arrayName,
		PreferredFormat: convert.BinaryFormat,
	}, true, nil
}

// buildArrayConverter instantiates convert.ArrayConverter[U] for the
// concrete element kind and boxes it. Only the kinds this library ships
// primitive converters for are enumerated; anything else falls through to
// resolution_failed, same as any other unmatched factory.
func buildArrayConverter(elemType reflect.Type, elemInfo ObjectInfo, cat *catalog.TypeCatalog) (convert.ObjectConverter, error) {
	switch elemType.Kind() {
	case reflect.Int32:
		inner := typedConverter[int32](elemInfo.Converter)
		return convert.AsObject[[]int32](convert.NewArrayConverter[int32](inner, cat, elemInfo.WireType)), nil
	case reflect.Int64:
		inner := typedConverter[int64](elemInfo.Converter)
		return convert.AsObject[[]int64](convert.NewArrayConverter[int64](inner, cat, elemInfo.WireType)), nil
	case reflect.Int16:
		inner := typedConverter[int16](elemInfo.Converter)
		return convert.AsObject[[]int16](convert.NewArrayConverter[int16](inner, cat, elemInfo.WireType)), nil
	case reflect.Float64:
		inner := typedConverter[float64](elemInfo.Converter)
		return convert.AsObject[[]float64](convert.NewArrayConverter[float64](inner, cat, elemInfo.WireType)), nil
	case reflect.Float32:
		inner := typedConverter[float32](elemInfo.Converter)
		return convert.AsObject[[]float32](convert.NewArrayConverter[float32](inner, cat, elemInfo.WireType)), nil
	case reflect.Bool:
		inner := typedConverter[bool](elemInfo.Converter)
		return convert.AsObject[[]bool](convert.NewArrayConverter[bool](inner, cat, elemInfo.WireType)), nil
	case reflect.String:
		inner := typedConverter[string](elemInfo.Converter)
		return convert.AsObject[[]string](convert.NewArrayConverter[string](inner, cat, elemInfo.WireType)), nil
	default:
		return nil, pgerr.WithKind(
			fmt.Errorf("no array converter for element kind %s", elemType.Kind()),
			pgerr.KindResolutionFailed,
		)
	}
}

// typedConverter re-exposes the object-safe converter as the concrete
// Converter[T] the array decorator needs. ObjectConverter was itself built
// from a Converter[T] moments earlier in this same resolution, so this
// downcast always succeeds for the element kinds buildArrayConverter
// dispatches on.
func typedConverter[T any](oc convert.ObjectConverter) convert.Converter[T] {
	return objectAsTyped[T]{oc}
}

type objectAsTyped[T any] struct {
	oc convert.ObjectConverter
}

func (o objectAsTyped[T]) CanConvert(f convert.DataFormat) bool { return o.oc.CanConvert(f) }
func (o objectAsTyped[T]) NullPredicateKind() convert.DbNullPredicateKind {
	return o.oc.NullPredicateKind()
}
func (o objectAsTyped[T]) IsDBNull(v T) bool { return o.oc.IsDBNullObject(v) }
func (o objectAsTyped[T]) GetSize(ctx *convert.SizeContext, v T) (convert.ValueSize, error) {
	return o.oc.GetSizeObject(ctx, v)
}
func (o objectAsTyped[T]) Write(w convert.Writer, v T, ws any) error {
	return o.oc.WriteObject(w, v, ws)
}
func (o objectAsTyped[T]) WriteAsync(ctx context.Context, w convert.AsyncWriter, v T, ws any) error {
	return o.oc.WriteAsyncObject(ctx, w, v, ws)
}
func (o objectAsTyped[T]) Read(r convert.Reader) (T, error) {
	v, err := o.oc.ReadObject(r)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
func (o objectAsTyped[T]) ReadAsync(ctx context.Context, r convert.AsyncReader) (T, error) {
	v, err := o.oc.ReadAsyncObject(ctx, r)
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}

var _ convert.Converter[int32] = objectAsTyped[int32]{}

func mustOID(id catalog.WireTypeID) catalog.OID {
	v, _ := id.OIDValue()
	return v
}
