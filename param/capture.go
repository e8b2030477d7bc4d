package param

import (
	"log/slog"
	"sync"

	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/convert"
	"github.com/outrigger-db/pgparam/resolve"
	"github.com/outrigger-db/pgparam/wire"
)

// bufferPool backs Capture's in-memory writer so repeated prepared-
// statement parameter caching doesn't allocate a fresh buffer per call.
var bufferPool = sync.Pool{
	New: func() any { return wire.NewWriter(slog.Default(), nil, wire.FlushNone) },
}

// Capture collects a parameter's wire bytes into an in-memory buffer
// rather than streaming them, for prepared-statement parameter caching.
// The size phase always runs before the write phase captures bytes; the
// pooled buffer is not pre-sized from that result and grows as the write
// needs.
func Capture[T any](chain *resolve.Chain, value T, wireType *catalog.WireTypeID, preferredFormat *convert.DataFormat) (bytes []byte, isNull bool, err error) {
	p, err := PrepareStatic[T](chain, value, wireType, 0, preferredFormat)
	if err != nil {
		return nil, false, err
	}
	if p.IsNull {
		return nil, true, nil
	}

	w := bufferPool.Get().(*wire.Writer)
	defer func() {
		w.Reset()
		bufferPool.Put(w)
	}()

	if err := w.Initialize(); err != nil {
		return nil, false, err
	}

	if err := WriteStatic[T](w, p); err != nil {
		return nil, false, err
	}

	out := make([]byte, w.Len())
	copy(out, w.Bytes())
	return out, false, nil
}
