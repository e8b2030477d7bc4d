package convert_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/outrigger-db/pgparam/convert"
	"github.com/outrigger-db/pgparam/pgconfig"
	"github.com/outrigger-db/pgparam/pgerr"
)

// TestScenarioF is the spec's scenario F: a Timestamp whose InfinityModifier
// is Infinity encodes as i64::MAX when infinity conversions are enabled, and
// re-decoding those bytes with the flag off is rejected. A finite Time is
// never mapped to the sentinel.
func TestScenarioF(t *testing.T) {
	enabled := convert.NewTimestampConverter(pgconfig.New(pgconfig.EnableInfinityConversions(true)))

	w := &memWriter{}
	require.NoError(t, enabled.Write(w, convert.Timestamp{InfinityModifier: convert.Infinity}, nil))
	assert.Equal(t, []byte{0x7F, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}, w.buf.Bytes())

	disabled := convert.NewTimestampConverter(pgconfig.New())
	r := newMemReader(w.buf.Bytes())
	_, err := disabled.Read(r)
	require.Error(t, err)
	assert.Equal(t, pgerr.KindInvalidWireData, pgerr.GetKind(err))
}

func TestTimestampRoundTripFinite(t *testing.T) {
	conv := convert.NewTimestampConverter(pgconfig.New())
	value := convert.Timestamp{Time: time.Date(2024, time.March, 15, 12, 30, 0, 0, time.UTC)}

	w := &memWriter{}
	require.NoError(t, conv.Write(w, value, nil))

	r := newMemReader(w.buf.Bytes())
	got, err := conv.Read(r)
	require.NoError(t, err)
	assert.True(t, value.Time.Equal(got.Time))
	assert.Equal(t, convert.Finite, got.InfinityModifier)
}

func TestTimestampNegativeInfinityRejectedByDefault(t *testing.T) {
	conv := convert.NewTimestampConverter(pgconfig.New())

	w := &memWriter{}
	err := conv.Write(w, convert.Timestamp{InfinityModifier: convert.NegativeInfinity}, nil)
	require.Error(t, err)
	assert.Equal(t, pgerr.KindInvalidWireData, pgerr.GetKind(err))
}
