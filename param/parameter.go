// Package param orchestrates the two-phase PostgreSQL extended-query
// protocol for a single parameter: resolve, size, then serialize.
package param

import (
	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/convert"
	"github.com/outrigger-db/pgparam/resolve"
)

// Parameter is the request-scoped record the two-phase writer builds and
// consumes. IsNull=true means size=None in spec terms: no resolution
// writing occurs and the caller's length prefix alone encodes SQL NULL.
type Parameter[T any] struct {
	Value      T
	Info       resolve.Info[T]
	Resolution resolve.Resolution[T]
	Size       convert.ValueSize
	IsNull     bool
	Format     convert.DataFormat
	WriteState any
}

// DynamicParameter is Parameter's boxed counterpart for the dynamic entry
// point, where the concrete application type is only known at runtime.
type DynamicParameter struct {
	Value      any
	Converter  convert.ObjectConverter
	WireType   catalog.WireTypeID
	Size       convert.ValueSize
	IsNull     bool
	Format     convert.DataFormat
	WriteState any
}
