// Package cpdatetime implements ChainPack's DateTime payload codec: the
// signed varint packing of an epoch-relative millisecond instant together
// with a sub-second presence flag and a packed timezone offset.
//
// The bit layout is ported from the reference implementation's
// CPDateTime (src/cpdatetime.rs): a plain Go function pair operating on
// (unixMilli, offsetSeconds) rather than a host DateTime<FixedOffset>
// type, mirroring how the rest of this module prefers closed data over a
// bridged object graph.
package cpdatetime

import (
	"fmt"
	"math"
	"time"

	"github.com/fvacek/chainpack-go/errs"
)

// Epoch is the ChainPack epoch, 2018-02-02T00:00:00Z, expressed as
// milliseconds since the Unix epoch. Every DateTime payload is a signed
// millisecond offset from this instant.
const Epoch int64 = 1_517_529_600_000

const (
	flagHasTZ   = 1
	flagNoMsec  = 2
	maxQuarters = 63  // 15h45m in 15-minute units
	minQuarters = -64
)

// Pack computes the signed varint payload for a DateTime carrying
// unixMilli (milliseconds since the Unix epoch) and offsetSeconds (the
// zone's distance east of UTC, in seconds).
//
// offsetSeconds is truncated toward zero to a whole number of 15-minute
// units before packing; round-tripping is only lossless when offsetSeconds is already
// a multiple of 900 and within ±15h45m (spec §4.3's invariant).
func Pack(unixMilli int64, offsetSeconds int32) (int64, error) {
	val := unixMilli - Epoch

	noMsec := val%1000 == 0
	if noMsec {
		val /= 1000
	}

	hasTZ := offsetSeconds != 0
	if hasTZ {
		quarters := int64(offsetSeconds) / 60 / 15
		if quarters > maxQuarters || quarters < minQuarters {
			return 0, fmt.Errorf("%w: timezone offset %ds exceeds ±15h45m", errs.ErrInvalidDateTime, offsetSeconds)
		}

		val <<= 7
		val |= quarters & 0x7F
	}

	val <<= 2
	if hasTZ {
		val |= flagHasTZ
	}
	if noMsec {
		val |= flagNoMsec
	}

	return val, nil
}

// Unpack inverts Pack, recovering (unixMilli, offsetSeconds) from a
// decoded signed varint payload. Returns ErrInvalidDateTime if the
// decoded instant does not fit int64 milliseconds since the Unix epoch.
func Unpack(payload int64) (unixMilli int64, offsetSeconds int32, err error) {
	hasTZ := payload&flagHasTZ != 0
	noMsec := payload&flagNoMsec != 0
	val := payload >> 2

	if hasTZ {
		quarters := val & 0x7F
		val >>= 7
		if quarters&0x40 != 0 {
			quarters |= ^int64(0x7F) // sign-extend the 7-bit field
		}
		offsetSeconds = int32(quarters * 15 * 60)
	}

	if noMsec {
		if val > math.MaxInt64/1000 || val < math.MinInt64/1000 {
			return 0, 0, fmt.Errorf("%w: payload %d overflows the millisecond range", errs.ErrInvalidDateTime, payload)
		}
		val *= 1000
	}

	if val > math.MaxInt64-Epoch {
		return 0, 0, fmt.Errorf("%w: payload %d overflows the millisecond range", errs.ErrInvalidDateTime, payload)
	}

	unixMilli = val + Epoch

	return unixMilli, offsetSeconds, nil
}

// FromTime packs t into a DateTime payload, using t's own zone offset.
func FromTime(t time.Time) (int64, error) {
	_, offset := t.Zone()

	return Pack(t.UnixMilli(), int32(offset)) //nolint:gosec
}

// ToTime unpacks payload into a time.Time in a fixed zone carrying the
// decoded offset. Returns ErrInvalidDateTime if the payload's instant
// does not fit int64 milliseconds (see Unpack).
func ToTime(payload int64) (time.Time, error) {
	unixMilli, offsetSeconds, err := Unpack(payload)
	if err != nil {
		return time.Time{}, err
	}

	loc := time.FixedZone("", int(offsetSeconds))

	return time.UnixMilli(unixMilli).In(loc), nil
}
