// Package convert defines the Converter contract, its decorators, and the
// concrete encode/decode pairs for the wire types this library knows about.
package convert

// DataFormat is the wire representation a value is encoded in. It mirrors
// the FormatCode the PostgreSQL frontend/backend protocol carries on every
// bind and column-description message.
type DataFormat int16

const (
	// TextFormat is PostgreSQL's format code 0.
	TextFormat DataFormat = 0
	// BinaryFormat is PostgreSQL's format code 1.
	BinaryFormat DataFormat = 1
)

func (f DataFormat) String() string {
	switch f {
	case TextFormat:
		return "text"
	case BinaryFormat:
		return "binary"
	default:
		return "unknown"
	}
}

// DbNullPredicateKind classifies how a Converter decides SQL NULL-ness.
type DbNullPredicateKind int

const (
	// PredicateNone means the application type has no null sentinel; the
	// converter's IsDBNull always returns false.
	PredicateNone DbNullPredicateKind = iota
	// PredicateDefault means the language's own empty/zero sentinel encodes
	// as SQL NULL (e.g. a nil slice, or the zero value of a Nullable).
	PredicateDefault
	// PredicateExtended means the converter inspects value contents to
	// decide null-ness (e.g. an empty container may or may not be null).
	PredicateExtended
)

// ValueSizeKind discriminates the three ValueSize variants.
type ValueSizeKind int

const (
	SizeExact ValueSizeKind = iota
	SizeUpperBound
	SizeUnknown
)

// ValueSize is the result of a converter's size phase: either an exact byte
// count, an upper bound, or "unknown" (computed only by writing).
type ValueSize struct {
	kind ValueSizeKind
	n    int
}

// Exact returns a ValueSize declaring precisely n bytes will be written.
func Exact(n int) ValueSize { return ValueSize{kind: SizeExact, n: n} }

// UpperBound returns a ValueSize declaring at most n bytes will be written.
func UpperBound(n int) ValueSize { return ValueSize{kind: SizeUpperBound, n: n} }

// Unknown returns a ValueSize that carries no size information.
func Unknown() ValueSize { return ValueSize{kind: SizeUnknown} }

func (v ValueSize) Kind() ValueSizeKind { return v.kind }

// N returns the byte count for SizeExact/SizeUpperBound; it is meaningless
// for SizeUnknown.
func (v ValueSize) N() int { return v.n }
