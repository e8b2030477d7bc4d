package pgerr

import (
	"errors"

	"github.com/outrigger-db/pgparam/codes"
)

// Kind classifies a converter-layer error per the seven kinds the type
// conversion and parameter binding core can signal. Recovery is always the
// caller's concern; the converter layer never retries internally.
type Kind string

const (
	KindUnknownType        Kind = "unknown_type"
	KindFormatNotSupported Kind = "format_not_supported"
	KindValueOutOfRange    Kind = "value_out_of_range"
	KindInvalidWireData    Kind = "invalid_wire_data"
	KindConcurrentUse      Kind = "concurrent_use"
	KindWrongFlushMode     Kind = "wrong_flush_mode"
	KindResolutionFailed   Kind = "resolution_failed"
)

// sqlStateFor maps a Kind to the closest-matching SQLSTATE class so errors
// surfaced by this layer remain consistent with the rest of the wire codes
// table when propagated to a client.
func sqlStateFor(kind Kind) codes.Code {
	switch kind {
	case KindUnknownType:
		return codes.UndefinedObject
	case KindFormatNotSupported:
		return codes.FeatureNotSupported
	case KindValueOutOfRange:
		return codes.NumericValueOutOfRange
	case KindInvalidWireData:
		return codes.DataCorrupted
	case KindConcurrentUse:
		return codes.ObjectNotInPrerequisiteState
	case KindWrongFlushMode:
		return codes.InvalidParameterValue
	case KindResolutionFailed:
		return codes.DatatypeMismatch
	default:
		return codes.Uncategorized
	}
}

// severityFor maps a Kind to the severity a client should treat it with.
// Concurrency and flush-mode misuse indicate the caller broke the writer's
// single-use contract, not a recoverable data problem, so they're FATAL;
// everything else is a plain ERROR.
func severityFor(kind Kind) Severity {
	switch kind {
	case KindConcurrentUse, KindWrongFlushMode:
		return LevelFatal
	default:
		return LevelError
	}
}

// hintFor supplies the fixed, kind-level hint text every error of that Kind
// shares. Value-specific detail belongs in WithDetail at the call site, not
// here.
func hintFor(kind Kind) string {
	switch kind {
	case KindUnknownType:
		return "check the wire type name for typos or register it with catalog.RegisterType"
	case KindFormatNotSupported:
		return "request a format the converter's CanConvert accepts, or wrap it in a coercion"
	case KindValueOutOfRange:
		return "the value does not fit the target wire type's range"
	case KindInvalidWireData:
		return "the wire buffer is truncated or was not produced by a matching converter"
	case KindConcurrentUse:
		return "call Reset before reusing this writer or reader"
	case KindWrongFlushMode:
		return "use the flush method matching this writer's FlushMode"
	case KindResolutionFailed:
		return "no converter or factory in the chain matched this application type"
	default:
		return ""
	}
}

// WithKind decorates err with a Kind, the matching SQLSTATE-shaped code, a
// default severity, a kind-level hint, and the caller's source location.
func WithKind(err error, kind Kind) error {
	if err == nil {
		return nil
	}

	decorated := WithCode(err, sqlStateFor(kind))
	decorated = WithSeverity(decorated, severityFor(kind))
	if hint := hintFor(kind); hint != "" {
		decorated = WithHint(decorated, hint)
	}
	decorated = withCallerSource(decorated)

	return &withKind{cause: decorated, kind: kind}
}

// GetKind returns the Kind carried by err, or an empty Kind if none.
func GetKind(err error) Kind {
	if k, ok := err.(*withKind); ok {
		return k.kind
	}

	if n := errors.Unwrap(err); n != nil {
		return GetKind(n)
	}

	return ""
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return GetKind(err) == kind
}

type withKind struct {
	cause error
	kind  Kind
}

func (w *withKind) Error() string { return w.cause.Error() }
func (w *withKind) Unwrap() error { return w.cause }

// WithWireType annotates err with the wire type name involved, for the
// user-visible failure message required by spec §7.
func WithWireType(err error, name string) error {
	if err == nil {
		return nil
	}
	return &withWireType{cause: err, name: name}
}

func GetWireType(err error) string {
	if w, ok := err.(*withWireType); ok {
		return w.name
	}
	if n := errors.Unwrap(err); n != nil {
		return GetWireType(n)
	}
	return ""
}

type withWireType struct {
	cause error
	name  string
}

func (w *withWireType) Error() string { return w.cause.Error() }
func (w *withWireType) Unwrap() error { return w.cause }

// WithAppType annotates err with the application (Go) type name involved.
func WithAppType(err error, name string) error {
	if err == nil {
		return nil
	}
	return &withAppType{cause: err, name: name}
}

func GetAppType(err error) string {
	if w, ok := err.(*withAppType); ok {
		return w.name
	}
	if n := errors.Unwrap(err); n != nil {
		return GetAppType(n)
	}
	return ""
}

type withAppType struct {
	cause error
	name  string
}

func (w *withAppType) Error() string { return w.cause.Error() }
func (w *withAppType) Unwrap() error { return w.cause }

// WithValue annotates err with a safely-loggable representation of the
// offending value. Callers are responsible for redacting anything that
// should not be logged before calling this.
func WithValue(err error, value string) error {
	if err == nil {
		return nil
	}
	return &withValue{cause: err, value: value}
}

func GetValue(err error) string {
	if w, ok := err.(*withValue); ok {
		return w.value
	}
	if n := errors.Unwrap(err); n != nil {
		return GetValue(n)
	}
	return ""
}

type withValue struct {
	cause error
	value string
}

func (w *withValue) Error() string { return w.cause.Error() }
func (w *withValue) Unwrap() error { return w.cause }
