// Package chainpack provides a compact, self-describing binary
// serialization format for structured values: integers, strings, blobs,
// lists, maps, integer-keyed maps, IEEE-754 doubles, timezone-aware
// timestamps, and arbitrary-precision decimals.
//
// ChainPack is schema-optional: every value on the wire carries its own
// type tag, so a decoder never needs an external schema to know what
// it's looking at. Small integers (0..63 in either sign) fold into a
// single tag byte; everything else pays one tag byte plus a
// variable-length payload.
//
// # Core Features
//
//   - Inline fast path for small integers — the tag byte doubles as the value
//   - Sign-magnitude variable-length integers for compact negative numbers
//   - Unterminated, sentinel-closed containers (List, Map, IMap) — no length prefix to get wrong
//   - Timezone-aware DateTime packed into a single signed varint
//   - Optional in-memory blob compaction via pluggable compress.Codec implementations
//
// # Basic Usage
//
// Encoding a value to bytes:
//
//	import "github.com/fvacek/chainpack-go"
//
//	v := chainpack.Map([]chainpack.MapEntry{
//	    {Key: "name", Value: chainpack.String("sensor-1")},
//	    {Key: "reading", Value: chainpack.Double(21.5)},
//	})
//	raw, err := chainpack.Marshal(v)
//
// Decoding bytes back to a value:
//
//	v, err := chainpack.Unmarshal(raw)
//	entries, err := v.AsMap()
//
// # Package Structure
//
// This file provides convenient top-level wrappers around package value,
// package encoder, and package decoder. For streaming encode/decode
// against an io.Writer/io.Reader, or for per-kind calls suited to a
// generic data-model bridge, use those packages directly.
package chainpack

import (
	"github.com/fvacek/chainpack-go/decimal"
	"github.com/fvacek/chainpack-go/decoder"
	"github.com/fvacek/chainpack-go/encoder"
	"github.com/fvacek/chainpack-go/value"
)

// Value, Kind, DateTime, MapEntry, and IMapEntry are re-exported from
// package value so that most callers never need to import it directly.
type (
	Value     = value.Value
	Kind      = value.Kind
	DateTime  = value.DateTime
	MapEntry  = value.MapEntry
	IMapEntry = value.IMapEntry
	Decimal   = decimal.Decimal
)

// Constructors re-exported from package value.
var (
	Null         = value.Null
	Bool         = value.Bool
	Int          = value.Int
	UInt         = value.UInt
	Double       = value.Double
	DecimalValue = value.Decimal
	DateTimeVal  = value.DateTimeValue
	Blob         = value.Blob
	String       = value.String
	List         = value.List
	Map          = value.Map
	IMap         = value.IMap
	Variant      = value.Variant
)

// NewDecimal constructs a Decimal from a mantissa and exponent.
func NewDecimal(mantissa int64, exponent int8) Decimal {
	return decimal.New(mantissa, exponent)
}

// Marshal encodes v to a freshly allocated byte slice.
func Marshal(v Value) ([]byte, error) {
	return encoder.Append(nil, v)
}

// Unmarshal decodes the first complete Value from raw and returns it;
// any bytes after that value are ignored. Callers who need to decode a
// stream of several values, or who need an error on trailing bytes,
// should use package decoder directly.
func Unmarshal(raw []byte) (Value, error) {
	return decoder.NewFromBytes(raw).Decode()
}
