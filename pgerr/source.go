package pgerr

import (
	"errors"
	"runtime"
)

// WithSource decorates the error with a Postgres error source
func WithSource(err error, file string, line int32, function string) error {
	if err == nil {
		return nil
	}

	return &withSource{cause: err, file: file, line: line, function: function}
}

// withCallerSource attaches the file, line and function two frames up from
// itself: the converter or resolver call site that invoked WithKind, not
// WithKind's own line. It is a no-op if the runtime can't recover a frame.
func withCallerSource(err error) error {
	if err == nil {
		return nil
	}

	pc, file, line, ok := runtime.Caller(2)
	if !ok {
		return err
	}

	function := ""
	if fn := runtime.FuncForPC(pc); fn != nil {
		function = fn.Name()
	}

	return WithSource(err, file, int32(line), function)
}

// GetSource returns the Postgres source inside the given error. If no
// source is attached, nil is returned.
func GetSource(err error) *Source {
	if s, ok := err.(*withSource); ok {
		return &Source{File: s.file, Line: s.line, Function: s.function}
	}

	if n := errors.Unwrap(err); n != nil {
		return GetSource(n)
	}

	return nil
}

type withSource struct {
	cause    error
	file     string
	line     int32
	function string
}

func (w *withSource) Error() string { return w.cause.Error() }
func (w *withSource) Unwrap() error { return w.cause }
