package param_test

import (
	"bytes"
	"testing"

	"github.com/neilotoole/slogt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outrigger-db/pgparam/catalog"
	"github.com/outrigger-db/pgparam/convert"
	"github.com/outrigger-db/pgparam/param"
	"github.com/outrigger-db/pgparam/pgerr"
	"github.com/outrigger-db/pgparam/resolve"
	"github.com/outrigger-db/pgparam/wire"
)

func newHarness(t *testing.T) (*resolve.Chain, *wire.Writer, *bytes.Buffer) {
	cat := catalog.New()
	chain := resolve.NewChain(cat)
	logger := slogt.New(t)
	var out bytes.Buffer
	w := wire.NewWriter(logger, &out, wire.FlushBlocking)
	require.NoError(t, w.Initialize())
	return chain, w, &out
}

// TestScenarioA is the spec's scenario A: int32=42 as int4 binary.
func TestScenarioA(t *testing.T) {
	chain, w, out := newHarness(t)

	p, err := param.PrepareStatic[int32](chain, 42, nil, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, convert.SizeExact, p.Size.Kind())
	assert.Equal(t, 4, p.Size.N())
	assert.Equal(t, convert.BinaryFormat, p.Format)

	require.NoError(t, param.WriteStatic[int32](w, p))
	require.NoError(t, w.Flush())

	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x2A}, out.Bytes())
}

// TestScenarioB is the spec's scenario B: int64=42 coerced to int4.
func TestScenarioB(t *testing.T) {
	chain, w, out := newHarness(t)

	wireType := catalog.ByName("int4")
	p, err := param.PrepareStatic[int64](chain, 42, &wireType, 0, nil)
	require.NoError(t, err)
	assert.Equal(t, 4, p.Size.N())

	require.NoError(t, param.WriteStatic[int64](w, p))
	require.NoError(t, w.Flush())

	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x2A}, out.Bytes())
}

// TestScenarioC is the spec's scenario C: int64 overflow against int4.
func TestScenarioC(t *testing.T) {
	chain, _, _ := newHarness(t)

	wireType := catalog.ByName("int4")
	_, err := param.PrepareStatic[int64](chain, 2_147_483_648, &wireType, 0, nil)
	require.Error(t, err)
	assert.Equal(t, pgerr.KindValueOutOfRange, pgerr.GetKind(err))
}

// TestScenarioD is the spec's scenario D: nullable int4 carrying SQL NULL.
func TestScenarioD(t *testing.T) {
	chain, w, out := newHarness(t)

	value := convert.Null[int32]()
	p, err := param.PrepareStatic[convert.Nullable[int32]](chain, value, nil, 0, nil)
	require.NoError(t, err)
	assert.True(t, p.IsNull)

	require.NoError(t, param.WriteStatic[convert.Nullable[int32]](w, p))
	require.NoError(t, w.Flush())
	assert.Empty(t, out.Bytes())
}

// TestScenarioE is the spec's scenario E: ["a","b"] as text[].
func TestScenarioE(t *testing.T) {
	chain, w, out := newHarness(t)

	value := []string{"a", "b"}
	p, err := param.PrepareStatic[[]string](chain, value, nil, 0, nil)
	require.NoError(t, err)

	require.NoError(t, param.WriteStatic[[]string](w, p))
	require.NoError(t, w.Flush())

	got := out.Bytes()
	assert.Equal(t, int32(1), beInt32(got[0:4]))  // ndim
	assert.Equal(t, int32(0), beInt32(got[4:8]))  // has_nulls
	assert.Equal(t, int32(1), beInt32(got[12:16])) // lower_bound
	assert.Equal(t, int32(2), beInt32(got[16:20])) // length
	rest := got[20:]
	assert.Equal(t, []byte{0, 0, 0, 1, 'a', 0, 0, 0, 1, 'b'}, rest)
}

func beInt32(b []byte) int32 {
	return int32(uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3]))
}

func TestDynamicEntryMatchesStatic(t *testing.T) {
	chain, w, out := newHarness(t)

	p, err := param.PrepareDynamic(chain, int32(42), nil, 0, nil)
	require.NoError(t, err)

	require.NoError(t, param.WriteDynamic(w, p))
	require.NoError(t, w.Flush())
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x2A}, out.Bytes())
}

func TestCaptureSizesBeforeWriting(t *testing.T) {
	chain, _, _ := newHarness(t)

	got, isNull, err := param.Capture[int32](chain, 42, nil, nil)
	require.NoError(t, err)
	assert.False(t, isNull)
	assert.Equal(t, []byte{0x00, 0x00, 0x00, 0x2A}, got)
}

func TestCaptureNull(t *testing.T) {
	chain, _, _ := newHarness(t)

	value := convert.Null[int32]()
	got, isNull, err := param.Capture[convert.Nullable[int32]](chain, value, nil, nil)
	require.NoError(t, err)
	assert.True(t, isNull)
	assert.Nil(t, got)
}

func TestWriteStaticRejectsNonBlockingWriter(t *testing.T) {
	chain, _, _ := newHarness(t)
	logger := slogt.New(t)
	var out bytes.Buffer
	asyncWriter := wire.NewWriter(logger, &out, wire.FlushNonBlocking)
	require.NoError(t, asyncWriter.Initialize())

	p, err := param.PrepareStatic[int32](chain, 42, nil, 0, nil)
	require.NoError(t, err)

	err = param.WriteStatic[int32](asyncWriter, p)
	require.Error(t, err)
	assert.Equal(t, pgerr.KindWrongFlushMode, pgerr.GetKind(err))
}
