package convert

import (
	"context"
	"time"

	"github.com/outrigger-db/pgparam/pgconfig"
	"github.com/outrigger-db/pgparam/pgerr"
)

// InfinityModifier tags a Timestamp as a finite value or one of the two
// infinity sentinels, following the pgtype family's convention of keeping
// infinity out of the Go time.Time value itself.
type InfinityModifier int8

const (
	NegativeInfinity InfinityModifier = -1
	Finite           InfinityModifier = 0
	Infinity         InfinityModifier = 1
)

func (im InfinityModifier) String() string {
	switch im {
	case NegativeInfinity:
		return "-infinity"
	case Infinity:
		return "infinity"
	default:
		return "finite"
	}
}

// Timestamp is the application-side timestamp value: a finite time.Time, or
// one of the infinity sentinels wire-encoded as i64::MIN / i64::MAX.
type Timestamp struct {
	Time             time.Time
	InfinityModifier InfinityModifier
}

// pgEpoch is the wire epoch: 2000-01-01 00:00:00 UTC. The spec's tick-based
// offset (630822816000000000 / 10, relative to a year-1 100ns-tick epoch)
// is exactly this instant expressed in a different calendar's clock; since
// Go's clock is already Unix-based, the conversion is a plain time.Sub.
var pgEpoch = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

const (
	sentinelPosInfinity int64 = 1<<63 - 1
	sentinelNegInfinity int64 = -1 << 63
)

// TimestampConverter encodes Timestamp as the wire "timestamp"/"timestamptz"
// binary i64 (microseconds since 2000-01-01), honoring cfg's
// EnableInfinityConversions gate for the ±infinity sentinels.
type TimestampConverter struct {
	cfg *pgconfig.Config
}

// NewTimestampConverter builds a TimestampConverter bound to cfg. A nil cfg
// behaves as EnableInfinityConversions=false.
func NewTimestampConverter(cfg *pgconfig.Config) TimestampConverter {
	return TimestampConverter{cfg: cfg}
}

func (c TimestampConverter) infinityEnabled() bool {
	return c.cfg != nil && c.cfg.EnableInfinityConversions
}

func (TimestampConverter) CanConvert(format DataFormat) bool { return format == BinaryFormat }

func (TimestampConverter) NullPredicateKind() DbNullPredicateKind { return PredicateNone }

func (TimestampConverter) IsDBNull(Timestamp) bool { return false }

func (c TimestampConverter) GetSize(*SizeContext, Timestamp) (ValueSize, error) {
	return Exact(8), nil
}

func (c TimestampConverter) toMicros(v Timestamp) (int64, error) {
	switch v.InfinityModifier {
	case Infinity:
		if !c.infinityEnabled() {
			return 0, pgerr.WithKind(errStr("infinity conversion requires EnableInfinityConversions"), pgerr.KindInvalidWireData)
		}
		return sentinelPosInfinity, nil
	case NegativeInfinity:
		if !c.infinityEnabled() {
			return 0, pgerr.WithKind(errStr("infinity conversion requires EnableInfinityConversions"), pgerr.KindInvalidWireData)
		}
		return sentinelNegInfinity, nil
	default:
		return v.Time.UTC().Sub(pgEpoch).Microseconds(), nil
	}
}

func (c TimestampConverter) Write(w Writer, v Timestamp, _ any) error {
	micros, err := c.toMicros(v)
	if err != nil {
		return err
	}
	return w.WriteInt64(micros)
}

func (c TimestampConverter) WriteAsync(ctx context.Context, w AsyncWriter, v Timestamp, ws any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.Write(w, v, ws)
}

func (c TimestampConverter) fromMicros(micros int64) (Timestamp, error) {
	switch micros {
	case sentinelPosInfinity:
		if !c.infinityEnabled() {
			return Timestamp{}, pgerr.WithKind(errStr("reserved infinity sentinel without EnableInfinityConversions"), pgerr.KindInvalidWireData)
		}
		return Timestamp{InfinityModifier: Infinity}, nil
	case sentinelNegInfinity:
		if !c.infinityEnabled() {
			return Timestamp{}, pgerr.WithKind(errStr("reserved infinity sentinel without EnableInfinityConversions"), pgerr.KindInvalidWireData)
		}
		return Timestamp{InfinityModifier: NegativeInfinity}, nil
	default:
		return Timestamp{Time: pgEpoch.Add(time.Duration(micros) * time.Microsecond)}, nil
	}
}

func (c TimestampConverter) Read(r Reader) (Timestamp, error) {
	micros, err := r.ReadInt64()
	if err != nil {
		return Timestamp{}, err
	}
	return c.fromMicros(micros)
}

func (c TimestampConverter) ReadAsync(ctx context.Context, r AsyncReader) (Timestamp, error) {
	if err := ctx.Err(); err != nil {
		return Timestamp{}, err
	}
	return c.Read(r)
}

var _ Converter[Timestamp] = TimestampConverter{}
