// Package resolve maps an application type and/or a wire type identity to
// the Converter that should handle it, following the PostgreSQL client's
// default-pair / numeric / text / factory resolution order.
package resolve

import (
	"fmt"

	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/convert"
	"github.com/outrigger-db/pgparam/pgerr"
)

// Resolution pairs a converter with the wire type identity it will target
// for one call.
type Resolution[T any] struct {
	Converter convert.Converter[T]
	WireType  catalog.WireTypeID
}

// Info pairs a Converter with its negotiated wire identity and format
// preference. It is long-lived and safe to cache keyed by (T, wire type).
type Info[T any] struct {
	converter        convert.Converter[T]
	wireType         catalog.WireTypeID
	preferredFormat  convert.DataFormat
	isDefaultMapping bool
}

// NewInfo builds a ConverterInfo. isDefaultMapping should be true only when
// (T, wireType) equals the resolver's canonical pair for T.
func NewInfo[T any](conv convert.Converter[T], wireType catalog.WireTypeID, preferredFormat convert.DataFormat, isDefaultMapping bool) Info[T] {
	return Info[T]{
		converter:        conv,
		wireType:         wireType,
		preferredFormat:  preferredFormat,
		isDefaultMapping: isDefaultMapping,
	}
}

func (i Info[T]) IsDefaultMapping() bool { return i.isDefaultMapping }

func (i Info[T]) WireType() catalog.WireTypeID { return i.wireType }

// GetResolution resolves for a statically-typed value.
func (i Info[T]) GetResolution(_ T) Resolution[T] {
	return Resolution[T]{Converter: i.converter, WireType: i.wireType}
}

// GetResolutionAsObject resolves for a boxed/dynamic value, returning the
// object-safe converter facade for polymorphic call sites.
func (i Info[T]) GetResolutionAsObject(_ any) (convert.ObjectConverter, catalog.WireTypeID) {
	return convert.AsObject[T](i.converter), i.wireType
}

// GetPreferredSize negotiates format (preferring preferredFormat if given,
// else the converter's own preference) and computes the value's size.
func (i Info[T]) GetPreferredSize(value T, bufferLength int, preferredFormat *convert.DataFormat) (convert.ValueSize, any, convert.DataFormat, error) {
	format, err := negotiateFormat(i.converter, i.preferredFormat, preferredFormat)
	if err != nil {
		return convert.ValueSize{}, nil, 0, err
	}

	ctx := &convert.SizeContext{BufferLength: bufferLength, Format: format}
	size, err := i.converter.GetSize(ctx, value)
	if err != nil {
		return convert.ValueSize{}, nil, 0, err
	}

	return size, ctx.WriteState, format, nil
}

// negotiateFormat implements testable property 6: caller hint wins if
// supported, else the converter's own preferred format if supported, else
// the first of binary and text the converter supports, else
// format_not_supported.
func negotiateFormat[T any](conv convert.Converter[T], converterPreferred convert.DataFormat, callerHint *convert.DataFormat) (convert.DataFormat, error) {
	if callerHint != nil && conv.CanConvert(*callerHint) {
		return *callerHint, nil
	}

	if conv.CanConvert(converterPreferred) {
		return converterPreferred, nil
	}

	for _, f := range []convert.DataFormat{convert.BinaryFormat, convert.TextFormat} {
		if conv.CanConvert(f) {
			return f, nil
		}
	}

	return 0, pgerr.WithKind(
		fmt.Errorf("converter supports neither requested nor preferred format"),
		pgerr.KindFormatNotSupported,
	)
}
