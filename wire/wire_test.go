package wire_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/pgerr"
	"github.com/outrigger-db/pgparam/wire"
)

func TestWriterInt32RoundTrip(t *testing.T) {
	logger := slogt.New(t)
	var out bytes.Buffer
	w := wire.NewWriter(logger, &out, wire.FlushBlocking)

	require.NoError(t, w.Initialize())
	require.NoError(t, w.WriteInt32(42))
	require.NoError(t, w.Flush())

	assert.Equal(t, []byte{0, 0, 0, 42}, out.Bytes())
}

// TestWriterWriteAsOID is spec.md's write_as_oid operation: it resolves a
// WireTypeID through the catalog at write time rather than accepting a
// pre-resolved OID.
func TestWriterWriteAsOID(t *testing.T) {
	logger := slogt.New(t)
	var out bytes.Buffer
	w := wire.NewWriter(logger, &out, wire.FlushBlocking)
	cat := catalog.New()

	require.NoError(t, w.Initialize())
	require.NoError(t, w.WriteAsOID(cat, catalog.ByName("int4")))
	require.NoError(t, w.Flush())

	oidValue, err := cat.OIDOf(catalog.ByName("int4"))
	require.NoError(t, err)
	assert.Equal(t, []byte{
		byte(oidValue >> 24), byte(oidValue >> 16), byte(oidValue >> 8), byte(oidValue),
	}, out.Bytes())
}

func TestWriterWriteAsOIDUnknownType(t *testing.T) {
	logger := slogt.New(t)
	var out bytes.Buffer
	w := wire.NewWriter(logger, &out, wire.FlushBlocking)
	cat := catalog.New()

	require.NoError(t, w.Initialize())
	err := w.WriteAsOID(cat, catalog.ByName("not_a_real_type"))
	require.Error(t, err)
	assert.Equal(t, pgerr.KindUnknownType, pgerr.GetKind(err))
}

func TestWriterConcurrentUse(t *testing.T) {
	logger := slogt.New(t)
	var out bytes.Buffer
	w := wire.NewWriter(logger, &out, wire.FlushBlocking)

	require.NoError(t, w.Initialize())
	err := w.Initialize()
	require.Error(t, err)
	assert.Equal(t, pgerr.KindConcurrentUse, pgerr.GetKind(err))
}

func TestWriterWrongFlushMode(t *testing.T) {
	logger := slogt.New(t)
	var out bytes.Buffer
	w := wire.NewWriter(logger, &out, wire.FlushNone)

	require.NoError(t, w.Initialize())
	err := w.Flush()
	require.Error(t, err)
	assert.Equal(t, pgerr.KindWrongFlushMode, pgerr.GetKind(err))
}

func TestWriterAsyncWrongFlushMode(t *testing.T) {
	logger := slogt.New(t)
	var out bytes.Buffer
	w := wire.NewWriter(logger, &out, wire.FlushBlocking)

	require.NoError(t, w.Initialize())
	err := w.FlushAsync(context.Background())
	require.Error(t, err)
	assert.Equal(t, pgerr.KindWrongFlushMode, pgerr.GetKind(err))
}

func TestReaderReadBytes(t *testing.T) {
	r := wire.NewReader([]byte("hello"))
	b, err := r.ReadBytes(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
	assert.Equal(t, 0, r.Len())
}

func TestReaderInsufficientData(t *testing.T) {
	r := wire.NewReader([]byte{1, 2})
	_, err := r.ReadInt32()
	require.Error(t, err)
	assert.Equal(t, pgerr.KindInvalidWireData, pgerr.GetKind(err))
}

func TestReaderConcurrentUse(t *testing.T) {
	r := wire.NewReader(nil)
	require.NoError(t, r.Initialize([]byte("abc")))
	err := r.Initialize([]byte("def"))
	require.Error(t, err)
	assert.Equal(t, pgerr.KindConcurrentUse, pgerr.GetKind(err))
}
