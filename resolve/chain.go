package resolve

import (
	"fmt"
	"reflect"

	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/convert"
	"github.com/outrigger-db/pgparam/pgconfig"
	"github.com/outrigger-db/pgparam/pgerr"
	"github.com/shopspring/decimal"
)

// ObjectInfo is the object-safe (reflect-keyed) result of resolution. The
// generic Info[T] entry points below wrap an ObjectInfo once they've
// confirmed its converter really is a Converter[T].
type ObjectInfo struct {
	Converter        convert.ObjectConverter
	WireType         catalog.WireTypeID
	PreferredFormat  convert.DataFormat
	IsDefaultMapping bool
}

// Factory is offered an (appType, wireType) pair it didn't match through
// the numeric/text fast paths, in registration order; the first to return
// ok=true wins. Array support is implemented as a Factory.
type Factory interface {
	TryResolve(chain *Chain, appType reflect.Type, wireType *catalog.WireTypeID) (ObjectInfo, bool, error)
}

// Chain is a ConverterInfoResolver: the default-pair table, the catalog it
// resolves wire identities against, and the ordered factory fallback list.
// A Chain is built once per process and is safe for concurrent use; it
// holds no per-session state itself (TypeCatalog does).
type Chain struct {
	catalog      *catalog.TypeCatalog
	cfg          *pgconfig.Config
	defaultPairs map[reflect.Type]catalog.WireTypeName
	numeric      map[catalog.WireTypeName]func() convert.ObjectConverter
	factories    []Factory
}

// NewChain builds the default resolver with pgconfig.New()'s defaults. Use
// NewChainWithConfig to control ambient behavior such as
// EnableInfinityConversions.
func NewChain(cat *catalog.TypeCatalog) *Chain {
	return NewChainWithConfig(cat, pgconfig.New())
}

// NewChainWithConfig builds the default resolver: canonical pairs for Go's
// numeric, string and timestamp types, the shared text converter, and the
// nullable/array factories.
func NewChainWithConfig(cat *catalog.TypeCatalog, cfg *pgconfig.Config) *Chain {
	c := &Chain{
		catalog:      cat,
		cfg:          cfg,
		defaultPairs: make(map[reflect.Type]catalog.WireTypeName),
		numeric:      make(map[catalog.WireTypeName]func() convert.ObjectConverter),
	}

	c.defaultPairs[reflect.TypeOf(int32(0))] = "int4"
	c.defaultPairs[reflect.TypeOf(int64(0))] = "int8"
	c.defaultPairs[reflect.TypeOf(int16(0))] = "int2"
	c.defaultPairs[reflect.TypeOf(int8(0))] = "int2"
	c.defaultPairs[reflect.TypeOf(uint8(0))] = "int2"
	c.defaultPairs[reflect.TypeOf(uint16(0))] = "int4"
	c.defaultPairs[reflect.TypeOf(uint32(0))] = "int8"
	c.defaultPairs[reflect.TypeOf(float32(0))] = "float4"
	c.defaultPairs[reflect.TypeOf(float64(0))] = "float8"
	c.defaultPairs[reflect.TypeOf(true)] = "bool"
	c.defaultPairs[reflect.TypeOf("")] = "text"
	c.defaultPairs[reflect.TypeOf(decimal.Decimal{})] = "numeric"
	c.defaultPairs[reflect.TypeOf(convert.Timestamp{})] = "timestamp"

	c.numeric["int2"] = func() convert.ObjectConverter { return convert.AsObject[int16](convert.NewInt2Converter()) }
	c.numeric["int4"] = func() convert.ObjectConverter { return convert.AsObject[int32](convert.NewInt4Converter()) }
	c.numeric["int8"] = func() convert.ObjectConverter { return convert.AsObject[int64](convert.NewInt8Converter()) }
	c.numeric["float4"] = func() convert.ObjectConverter { return convert.AsObject[float32](convert.NewFloat4Converter()) }
	c.numeric["float8"] = func() convert.ObjectConverter { return convert.AsObject[float64](convert.NewFloat8Converter()) }
	c.numeric["bool"] = func() convert.ObjectConverter { return convert.AsObject[bool](convert.NewBoolConverter()) }

	c.factories = append(c.factories, nullableFactory{}, arrayFactory{})

	return c
}

// Catalog returns the catalog this chain resolves wire identities against.
func (c *Chain) Catalog() *catalog.TypeCatalog { return c.catalog }

// canonicalPair fills in wireType from the default-pair table when it is
// absent and appType has a canonical wire type. It is legitimate for
// neither to be resolvable here: application types with no scalar default
// (slices, for instance) are left for the factory path to canonicalize
// from their own element type.
func (c *Chain) canonicalPair(appType reflect.Type, wireType *catalog.WireTypeID) (*catalog.WireTypeID, bool) {
	canonicalName, hasDefault := c.defaultPairs[appType]

	if wireType == nil {
		if !hasDefault {
			return nil, false
		}
		id := catalog.ByName(canonicalName)
		return &id, true
	}

	isDefault := hasDefault && !wireType.IsOID() && wireType.String() == string(canonicalName)
	return wireType, isDefault
}

// Resolve runs the resolution algorithm from §4.5: canonicalize, numeric
// path (which also covers bool), text path, decimal path, timestamp path,
// factory path, else resolution_failed.
func (c *Chain) Resolve(appType reflect.Type, wireType *catalog.WireTypeID) (ObjectInfo, error) {
	resolvedWireType, isDefault := c.canonicalPair(appType, wireType)

	if resolvedWireType != nil && (isNumericKind(appType) || appType.Kind() == reflect.Bool) {
		if info, ok, err := c.resolveNumeric(appType, *resolvedWireType, isDefault); err != nil {
			return ObjectInfo{}, err
		} else if ok {
			return info, nil
		}
	}

	if resolvedWireType != nil && appType.Kind() == reflect.String {
		conv := convert.AsObject[string](convert.NewTextConverter())
		return ObjectInfo{
			Converter:        conv,
			WireType:         *resolvedWireType,
			PreferredFormat:  convert.TextFormat,
			IsDefaultMapping: isDefault,
		}, nil
	}

	if resolvedWireType != nil && appType == reflect.TypeOf(decimal.Decimal{}) {
		conv := convert.AsObject[decimal.Decimal](convert.NewNumericConverter())
		return ObjectInfo{
			Converter:        conv,
			WireType:         *resolvedWireType,
			PreferredFormat:  convert.TextFormat,
			IsDefaultMapping: isDefault,
		}, nil
	}

	if resolvedWireType != nil && appType == reflect.TypeOf(convert.Timestamp{}) {
		conv := convert.AsObject[convert.Timestamp](convert.NewTimestampConverter(c.cfg))
		return ObjectInfo{
			Converter:        conv,
			WireType:         *resolvedWireType,
			PreferredFormat:  convert.BinaryFormat,
			IsDefaultMapping: isDefault,
		}, nil
	}

	for _, f := range c.factories {
		info, ok, err := f.TryResolve(c, appType, resolvedWireType)
		if err != nil {
			return ObjectInfo{}, err
		}
		if ok {
			info.IsDefaultMapping = isDefault
			return info, nil
		}
	}

	return ObjectInfo{}, pgerr.WithKind(
		pgerr.WithDetail(
			pgerr.WithAppType(fmt.Errorf("no converter resolved for application type %s", appType), appType.String()),
			"checked the numeric, string, decimal and timestamp canonical paths and the nullable and array factories",
		),
		pgerr.KindResolutionFailed,
	)
}

// resolveNumeric implements the numeric path of §4.5 step 3: an exact
// width match (appType is the primitive converter's own Go type for the
// requested wire type) uses the primitive converter directly; otherwise the
// primitive converter targeting the requested wire type is wrapped in the
// numeric-coercion decorator.
func (c *Chain) resolveNumeric(appType reflect.Type, wireType catalog.WireTypeID, isDefault bool) (ObjectInfo, bool, error) {
	var name catalog.WireTypeName
	if oid, ok := wireType.OIDValue(); ok {
		resolved, err := c.catalog.NameOf(oid)
		if err != nil {
			return ObjectInfo{}, false, err
		}
		name = resolved
	} else {
		name, _ = wireType.NameValue()
	}

	build, ok := c.numeric[name]
	if !ok {
		return ObjectInfo{}, false, nil
	}

	primitiveTypes := map[catalog.WireTypeName]reflect.Type{
		"int2":   reflect.TypeOf(int16(0)),
		"int4":   reflect.TypeOf(int32(0)),
		"int8":   reflect.TypeOf(int64(0)),
		"float4": reflect.TypeOf(float32(0)),
		"float8": reflect.TypeOf(float64(0)),
		"bool":   reflect.TypeOf(false),
	}
	exactWidthMatches := primitiveTypes[name] == appType
	var conv convert.ObjectConverter
	if exactWidthMatches {
		conv = build()
	} else {
		var err error
		conv, err = coerceTo(appType, name)
		if err != nil {
			return ObjectInfo{}, false, err
		}
	}

	return ObjectInfo{
		Converter:        conv,
		WireType:         wireType,
		PreferredFormat:  convert.BinaryFormat,
		IsDefaultMapping: isDefault,
	}, true, nil
}

func isNumericKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// coerceTo builds the ObjectConverter for appType against the requested
// wire-numeric name, wrapping the matching primitive converter in
// NumericCoercion. Only the width combinations actually reachable from
// Go's numeric kinds are enumerated; anything else is a resolution_failed.
func coerceTo(appType reflect.Type, wireName catalog.WireTypeName) (convert.ObjectConverter, error) {
	switch wireName {
	case "int2":
		return coerceNumericKindTo(appType, convert.NewInt2Converter())
	case "int4":
		return coerceNumericKindTo(appType, convert.NewInt4Converter())
	case "int8":
		return coerceNumericKindTo(appType, convert.NewInt8Converter())
	default:
		return nil, pgerr.WithKind(
			fmt.Errorf("no numeric coercion path to wire type %q", wireName),
			pgerr.KindResolutionFailed,
		)
	}
}

// coerceNumericKindTo builds a NumericCoercion[T, U] for appType's concrete
// kind wrapping inner, boxed into an ObjectConverter. Each case instantiates
// a distinct generic pair; because the result is boxed, every encode/decode
// call reaches it through the ObjectConverter facade.
func coerceNumericKindTo[U convert.Integer](appType reflect.Type, inner convert.Converter[U]) (convert.ObjectConverter, error) {
	switch appType.Kind() {
	case reflect.Int8:
		return convert.AsObject[int8](convert.NewNumericCoercion[int8, U](inner)), nil
	case reflect.Int16:
		return convert.AsObject[int16](convert.NewNumericCoercion[int16, U](inner)), nil
	case reflect.Int32:
		return convert.AsObject[int32](convert.NewNumericCoercion[int32, U](inner)), nil
	case reflect.Int64:
		return convert.AsObject[int64](convert.NewNumericCoercion[int64, U](inner)), nil
	case reflect.Int:
		return convert.AsObject[int](convert.NewNumericCoercion[int, U](inner)), nil
	case reflect.Uint8:
		return convert.AsObject[uint8](convert.NewNumericCoercion[uint8, U](inner)), nil
	case reflect.Uint16:
		return convert.AsObject[uint16](convert.NewNumericCoercion[uint16, U](inner)), nil
	case reflect.Uint32:
		return convert.AsObject[uint32](convert.NewNumericCoercion[uint32, U](inner)), nil
	case reflect.Uint64:
		return convert.AsObject[uint64](convert.NewNumericCoercion[uint64, U](inner)), nil
	case reflect.Uint:
		return convert.AsObject[uint](convert.NewNumericCoercion[uint, U](inner)), nil
	default:
		return nil, pgerr.WithKind(
			fmt.Errorf("%s is not an integer coercion target", appType),
			pgerr.KindResolutionFailed,
		)
	}
}
