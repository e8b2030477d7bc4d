package param

import (
	"context"
	"fmt"

	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/convert"
	"github.com/outrigger-db/pgparam/pgerr"
	"github.com/outrigger-db/pgparam/resolve"
	"github.com/outrigger-db/pgparam/wire"
)

// PrepareStatic runs phase 1 (sizing) for a statically-typed value: it
// resolves the converter, checks the null predicate, and if the value is
// not null negotiates format and computes size, stashing WriteState for
// the write phase.
func PrepareStatic[T any](chain *resolve.Chain, value T, wireType *catalog.WireTypeID, bufferLength int, preferredFormat *convert.DataFormat) (*Parameter[T], error) {
	info, err := resolve.ResolveFor[T](chain, wireType)
	if err != nil {
		return nil, err
	}

	resolution := info.GetResolution(value)

	p := &Parameter[T]{Value: value, Info: info, Resolution: resolution}

	if resolution.Converter.IsDBNull(value) {
		p.IsNull = true
		return p, nil
	}

	size, writeState, format, err := info.GetPreferredSize(value, bufferLength, preferredFormat)
	if err != nil {
		return nil, err
	}

	p.Size = size
	p.WriteState = writeState
	p.Format = format
	return p, nil
}

// WriteStatic runs phase 2 (synchronous write) for a Parameter built by
// PrepareStatic. It rejects a writer tagged for the wrong flush mode,
// skips entirely for null parameters, and otherwise sets the negotiated
// format and invokes the converter.
func WriteStatic[T any](w *wire.Writer, p *Parameter[T]) error {
	if w.FlushMode() == wire.FlushNonBlocking {
		return pgerr.WithKind(errWrongFlushModeSync, pgerr.KindWrongFlushMode)
	}

	if p.IsNull {
		return nil
	}

	w.SetCurrentFormat(p.Format)
	return p.Resolution.Converter.Write(w, p.Value, p.WriteState)
}

// WriteStaticAsync is WriteStatic's asynchronous counterpart.
func WriteStaticAsync[T any](ctx context.Context, w *wire.Writer, p *Parameter[T]) error {
	if w.FlushMode() == wire.FlushBlocking {
		return pgerr.WithKind(errWrongFlushModeAsync, pgerr.KindWrongFlushMode)
	}

	if p.IsNull {
		return nil
	}

	w.SetCurrentFormat(p.Format)
	return p.Resolution.Converter.WriteAsync(ctx, w, p.Value, p.WriteState)
}

// PrepareDynamic is PrepareStatic's boxed counterpart: the dynamic entry
// point invoked when value's concrete type is only known at runtime. It
// calls the non-generic ObjectConverter facade directly with the boxed
// value; the Converter[T] PrepareStatic uses is an adapter over the same
// facade, so both paths pay for this indirection.
func PrepareDynamic(chain *resolve.Chain, value any, wireType *catalog.WireTypeID, bufferLength int, preferredFormat *convert.DataFormat) (*DynamicParameter, error) {
	info, err := resolve.ResolveForValue(chain, value, wireType)
	if err != nil {
		return nil, err
	}

	p := &DynamicParameter{Value: value, Converter: info.Converter, WireType: info.WireType}

	if info.Converter.IsDBNullObject(value) {
		p.IsNull = true
		return p, nil
	}

	format, err := negotiateDynamicFormat(info.Converter, info.PreferredFormat, preferredFormat)
	if err != nil {
		return nil, err
	}

	ctx := &convert.SizeContext{BufferLength: bufferLength, Format: format}
	size, err := info.Converter.GetSizeObject(ctx, value)
	if err != nil {
		return nil, err
	}

	p.Size = size
	p.WriteState = ctx.WriteState
	p.Format = format
	return p, nil
}

func negotiateDynamicFormat(conv convert.ObjectConverter, converterPreferred convert.DataFormat, callerHint *convert.DataFormat) (convert.DataFormat, error) {
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

// WriteDynamic is WriteStatic's boxed counterpart.
func WriteDynamic(w *wire.Writer, p *DynamicParameter) error {
	if w.FlushMode() == wire.FlushNonBlocking {
		return pgerr.WithKind(errWrongFlushModeSync, pgerr.KindWrongFlushMode)
	}

	if p.IsNull {
		return nil
	}

	w.SetCurrentFormat(p.Format)
	return p.Converter.WriteObject(w, p.Value, p.WriteState)
}

// WriteDynamicAsync is WriteDynamic's asynchronous counterpart.
func WriteDynamicAsync(ctx context.Context, w *wire.Writer, p *DynamicParameter) error {
	if w.FlushMode() == wire.FlushBlocking {
		return pgerr.WithKind(errWrongFlushModeAsync, pgerr.KindWrongFlushMode)
	}

	if p.IsNull {
		return nil
	}

	w.SetCurrentFormat(p.Format)
	return p.Converter.WriteAsyncObject(ctx, w, p.Value, p.WriteState)
}

var (
	errWrongFlushModeSync  = errString("sync write called against a NonBlocking writer")
	errWrongFlushModeAsync = errString("async write called against a Blocking writer")
)

type errString string

func (e errString) Error() string { return string(e) }
