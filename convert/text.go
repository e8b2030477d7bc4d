package convert

import (
	"context"
)

// TextConverter converts between Go string and PostgreSQL text, in both
// text and binary format (PostgreSQL's binary text representation is
// identical to its text representation: raw UTF-8 bytes).
type TextConverter struct{}

func NewTextConverter() TextConverter { return TextConverter{} }

func (TextConverter) CanConvert(format DataFormat) bool {
	return format == TextFormat || format == BinaryFormat
}

func (TextConverter) NullPredicateKind() DbNullPredicateKind { return PredicateNone }

func (TextConverter) IsDBNull(string) bool { return false }

func (TextConverter) GetSize(_ *SizeContext, value string) (ValueSize, error) {
	return Exact(len(value)), nil
}

func (TextConverter) Write(w Writer, value string, _ any) error {
	return w.WriteText(value)
}

func (c TextConverter) WriteAsync(_ context.Context, w AsyncWriter, value string, writeState any) error {
	return c.Write(w, value, writeState)
}

func (TextConverter) Read(r Reader) (string, error) {
	b, err := r.ReadBytes(r.Len())
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (c TextConverter) ReadAsync(_ context.Context, r AsyncReader) (string, error) {
	return c.Read(r)
}

var _ Converter[string] = TextConverter{}
