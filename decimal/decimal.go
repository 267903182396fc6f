// Package decimal implements ChainPack's Decimal value: a mantissa
// scaled by a power of ten, encoded as two back-to-back signed varints.
//
// Grounded on the reference implementation's CPDecimal
// (src/cpdecimal.rs): mantissa is a 64-bit signed integer, exponent an
// 8-bit signed integer, value = mantissa * 10^exponent.
package decimal

import (
	"fmt"
	"math"

	"github.com/fvacek/chainpack-go/errs"
	"github.com/fvacek/chainpack-go/varint"
)

// Decimal is a mantissa x 10^exponent fixed-point value.
type Decimal struct {
	Mantissa int64
	Exponent int8
}

// New constructs a Decimal. It is a thin named-field convenience; the
// zero Decimal{} is valid and represents 0.
func New(mantissa int64, exponent int8) Decimal {
	return Decimal{Mantissa: mantissa, Exponent: exponent}
}

// Float64 returns the decimal's value as a float64, matching CPDecimal::to_f64.
func (d Decimal) Float64() float64 {
	return float64(d.Mantissa) * math.Pow10(int(d.Exponent))
}

// Append appends the Decimal's wire payload (mantissa varint, then
// exponent varint) to dst, WITHOUT the leading CP_DECIMAL tag byte — the
// tag belongs to the value encoder, which dispatches here.
func Append(dst []byte, d Decimal) ([]byte, error) {
	dst, err := varint.AppendInt(dst, d.Mantissa)
	if err != nil {
		return dst, fmt.Errorf("decimal mantissa: %w", err)
	}

	dst, err = varint.AppendInt(dst, int64(d.Exponent))
	if err != nil {
		return dst, fmt.Errorf("decimal exponent: %w", err)
	}

	return dst, nil
}

// Read decodes a Decimal payload (mantissa varint, exponent varint) from
// the front of src, not including the tag byte.
func Read(src []byte) (d Decimal, n int, err error) {
	mantissa, n1, err := varint.Varint(src)
	if err != nil {
		return Decimal{}, 0, fmt.Errorf("decimal mantissa: %w", err)
	}

	exponent, n2, err := varint.Varint(src[n1:])
	if err != nil {
		return Decimal{}, 0, fmt.Errorf("decimal exponent: %w", err)
	}

	d, err = FromWire(mantissa, exponent)

	return d, n1 + n2, err
}

// FromWire builds a Decimal from a decoded mantissa and a wire exponent,
// validating that the exponent fits int8. Per spec's Open Question,
// decoders accept any varint-representable exponent on the wire and only
// the typed Decimal rejects what doesn't fit — this is the shared
// validation point for both Read (byte-slice source) and a streaming
// decoder reading the two varints directly off an io.Reader.
func FromWire(mantissa int64, exponent int64) (Decimal, error) {
	if exponent < math.MinInt8 || exponent > math.MaxInt8 {
		return Decimal{}, fmt.Errorf("%w: decimal exponent %d does not fit int8", errs.ErrUnsupportedType, exponent)
	}

	return Decimal{Mantissa: mantissa, Exponent: int8(exponent)}, nil
}
