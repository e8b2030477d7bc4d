package resolve

import (
	"reflect"

	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/convert"
)

// ResolveFor is the statically-typed resolution entry point: T is known at
// the call site and the returned Info[T] exposes a Converter[T]. That
// Converter[T] is an adapter over the chain's ObjectConverter, so each of
// its calls still passes through the object facade and a type assertion.
func ResolveFor[T any](chain *Chain, wireType *catalog.WireTypeID) (Info[T], error) {
	var zero T
	appType := reflect.TypeOf(zero)
	if appType == nil {
		appType = reflect.TypeOf(&zero).Elem()
	}

	obj, err := chain.Resolve(appType, wireType)
	if err != nil {
		return Info[T]{}, err
	}

	typed := typedConverter[T](obj.Converter)
	return NewInfo[T](typed, obj.WireType, obj.PreferredFormat, obj.IsDefaultMapping), nil
}

// ResolveForValue is the dynamic/boxed resolution entry point: used when
// the value's concrete type is only known at runtime. It returns the
// object-safe converter facade directly rather than an Info[T].
func ResolveForValue(chain *Chain, value any, wireType *catalog.WireTypeID) (ObjectInfo, error) {
	return chain.Resolve(reflect.TypeOf(value), wireType)
}
