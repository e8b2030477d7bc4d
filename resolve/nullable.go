package resolve

import (
	"reflect"

	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/convert"
	"github.com/outrigger-db/pgparam/pgerr"
)

// nullableFactory recognizes any convert.Nullable[U] application type and
// constructs the nullable-lift decorator over the chain's resolution for
// the wrapped element type U, targeting the same wire type U would have
// targeted on its own (nullability is a Go-level wrapper, not a distinct
// wire type).
type nullableFactory struct{}

var nullableType = reflect.TypeOf(convert.Nullable[struct{}]{})

func (nullableFactory) TryResolve(chain *Chain, appType reflect.Type, wireType *catalog.WireTypeID) (ObjectInfo, bool, error) {
	if !isNullableShape(appType) {
		return ObjectInfo{}, false, nil
	}

	elemType := appType.Field(0).Type

	elemInfo, err := chain.Resolve(elemType, wireType)
	if err != nil {
		return ObjectInfo{}, false, nil //nolint:nilerr // the wrapped element type has no resolution; not this factory's match
	}

	conv, err := buildNullableConverter(elemType, elemInfo.Converter)
	if err != nil {
		return ObjectInfo{}, false, err
	}

	return ObjectInfo{
		Converter:       conv,
		WireType:        elemInfo.WireType,
		PreferredFormat: elemInfo.PreferredFormat,
	}, true, nil
}

// isNullableShape reports whether t is some instantiation of
// convert.Nullable[U]: same package, same base name, two fields shaped
// like {Value U; Valid bool}.
func isNullableShape(t reflect.Type) bool {
	if t.Kind() != reflect.Struct || t.NumField() != 2 {
		return false
	}
	if t.PkgPath() != nullableType.PkgPath() {
		return false
	}
	if t.Field(0).Name != "Value" || t.Field(1).Name != "Valid" {
		return false
	}
	return t.Field(1).Type.Kind() == reflect.Bool
}

func buildNullableConverter(elemType reflect.Type, elemConv convert.ObjectConverter) (convert.ObjectConverter, error) {
	switch elemType.Kind() {
	case reflect.Int32:
		inner := typedConverter[int32](elemConv)
		return convert.AsObject[convert.Nullable[int32]](convert.NewNullableConverter[int32](inner)), nil
	case reflect.Int64:
		inner := typedConverter[int64](elemConv)
		return convert.AsObject[convert.Nullable[int64]](convert.NewNullableConverter[int64](inner)), nil
	case reflect.Int16:
		inner := typedConverter[int16](elemConv)
		return convert.AsObject[convert.Nullable[int16]](convert.NewNullableConverter[int16](inner)), nil
	case reflect.Float64:
		inner := typedConverter[float64](elemConv)
		return convert.AsObject[convert.Nullable[float64]](convert.NewNullableConverter[float64](inner)), nil
	case reflect.Float32:
		inner := typedConverter[float32](elemConv)
		return convert.AsObject[convert.Nullable[float32]](convert.NewNullableConverter[float32](inner)), nil
	case reflect.Bool:
		inner := typedConverter[bool](elemConv)
		return convert.AsObject[convert.Nullable[bool]](convert.NewNullableConverter[bool](inner)), nil
	case reflect.String:
		inner := typedConverter[string](elemConv)
		return convert.AsObject[convert.Nullable[string]](convert.NewNullableConverter[string](inner)), nil
	default:
		return nil, pgerr.WithKind(
			pgerr.WithAppType(errString("no nullable lift for element kind"), elemType.String()),
			pgerr.KindResolutionFailed,
		)
	}
}

type errString string

func (e errString) Error() string { return string(e) }
