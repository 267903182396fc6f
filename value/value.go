// Package value defines Value, a closed tagged-union representation of
// every logical kind the ChainPack wire format carries. Package encoder
// and package decoder are the only other packages that need to know how
// a Value is laid out; everything else goes through the constructors and
// accessors below.
package value

import (
	"fmt"

	"github.com/fvacek/chainpack-go/compress"
	"github.com/fvacek/chainpack-go/decimal"
	"github.com/fvacek/chainpack-go/errs"
)

// Kind identifies which field of a Value is live.
type Kind uint8

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindUInt
	KindDouble
	KindDecimal
	KindDateTime
	KindBlob
	KindString
	KindList
	KindMap
	KindIMap
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindInt:
		return "Int"
	case KindUInt:
		return "UInt"
	case KindDouble:
		return "Double"
	case KindDecimal:
		return "Decimal"
	case KindDateTime:
		return "DateTime"
	case KindBlob:
		return "Blob"
	case KindString:
		return "String"
	case KindList:
		return "List"
	case KindMap:
		return "Map"
	case KindIMap:
		return "IMap"
	default:
		return "Unknown"
	}
}

// DateTime is a decoded ChainPack timestamp: a millisecond instant since
// the Unix epoch plus the zone offset (in seconds) packed alongside it.
// It deliberately does not wrap time.Time: ToTime/FromTime in package
// cpdatetime handle that bridge for callers who want one.
type DateTime struct {
	UnixMilli     int64
	OffsetSeconds int32
}

// MapEntry is one key/value pair of a Map value.
type MapEntry struct {
	Key   string
	Value Value
}

// IMapEntry is one key/value pair of an IMap value.
type IMapEntry struct {
	Key   int64
	Value Value
}

// Value is a single ChainPack logical value. The zero Value is Null.
// Only the field matching Kind is meaningful; Value is immutable once
// constructed and safe to copy.
type Value struct {
	kind Kind
	b    bool
	i    int64
	u    uint64
	f    float64
	dec  decimal.Decimal
	dt   DateTime
	blob       []byte
	blobCodec  compress.Codec // non-nil => blob holds compressed bytes
	blobRawLen int            // decompressed length, for pre-sizing
	str        string
	list []Value
	m    []MapEntry
	im   []IMapEntry
}

// Null returns the Null value.
func Null() Value { return Value{kind: KindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int wraps a signed integer.
func Int(v int64) Value { return Value{kind: KindInt, i: v} }

// UInt wraps an unsigned integer.
func UInt(v uint64) Value { return Value{kind: KindUInt, u: v} }

// Double wraps an IEEE-754 binary64 value.
func Double(v float64) Value { return Value{kind: KindDouble, f: v} }

// Decimal wraps a mantissa/exponent decimal.
func Decimal(d decimal.Decimal) Value { return Value{kind: KindDecimal, dec: d} }

// DateTimeValue wraps a decoded timestamp.
func DateTimeValue(dt DateTime) Value { return Value{kind: KindDateTime, dt: dt} }

// Blob wraps opaque bytes. The slice is retained, not copied; callers
// that mutate it afterward invalidate the Value.
func Blob(b []byte) Value { return Value{kind: KindBlob, blob: b} }

// String wraps UTF-8 text.
func String(s string) Value { return Value{kind: KindString, str: s} }

// List wraps an ordered sequence of values. The slice is retained.
func List(items []Value) Value { return Value{kind: KindList, list: items} }

// Map wraps a string-keyed mapping in producer order. The slice is
// retained; ChainPack defines no canonical key ordering.
func Map(entries []MapEntry) Value { return Value{kind: KindMap, m: entries} }

// IMap wraps an integer-keyed mapping in producer order.
func IMap(entries []IMapEntry) Value { return Value{kind: KindIMap, im: entries} }

// Kind reports which logical kind v holds.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether v is Null.
func (v Value) IsNull() bool { return v.kind == KindNull }

func mismatch(want Kind, got Kind) error {
	return fmt.Errorf("%w: expected %s, got %s", errs.ErrInvalidType, want, got)
}

// AsBool returns v's boolean, or an error if v is not a Bool.
func (v Value) AsBool() (bool, error) {
	if v.kind != KindBool {
		return false, mismatch(KindBool, v.kind)
	}

	return v.b, nil
}

// AsInt returns v's signed integer, or an error if v is not an Int.
func (v Value) AsInt() (int64, error) {
	if v.kind != KindInt {
		return 0, mismatch(KindInt, v.kind)
	}

	return v.i, nil
}

// AsUInt returns v's unsigned integer, or an error if v is not a UInt.
func (v Value) AsUInt() (uint64, error) {
	if v.kind != KindUInt {
		return 0, mismatch(KindUInt, v.kind)
	}

	return v.u, nil
}

// AsDouble returns v's float64, or an error if v is not a Double.
func (v Value) AsDouble() (float64, error) {
	if v.kind != KindDouble {
		return 0, mismatch(KindDouble, v.kind)
	}

	return v.f, nil
}

// AsDecimal returns v's Decimal, or an error if v is not a Decimal.
func (v Value) AsDecimal() (decimal.Decimal, error) {
	if v.kind != KindDecimal {
		return decimal.Decimal{}, mismatch(KindDecimal, v.kind)
	}

	return v.dec, nil
}

// AsDateTime returns v's DateTime, or an error if v is not a DateTime.
func (v Value) AsDateTime() (DateTime, error) {
	if v.kind != KindDateTime {
		return DateTime{}, mismatch(KindDateTime, v.kind)
	}

	return v.dt, nil
}

// AsBlob returns v's bytes, or an error if v is not a Blob. If v was
// produced by CompactBlob, the bytes are transparently decompressed;
// the wire format and the Value API never expose compression to callers.
func (v Value) AsBlob() ([]byte, error) {
	if v.kind != KindBlob {
		return nil, mismatch(KindBlob, v.kind)
	}

	if v.blobCodec == nil {
		return v.blob, nil
	}

	return v.blobCodec.Decompress(v.blob)
}

// CompactBlob returns a copy of v with its blob payload compressed
// in-memory using codec. This never changes what AsBlob returns or how
// the value encodes on the wire: ChainPack blobs are never compressed on
// the wire (spec §1 excludes framing/transport concerns), only how much
// heap the decoded Value occupies while it is held in memory.
//
// CompactBlob returns an error, unchanged, if v is not a Blob.
func CompactBlob(v Value, codec compress.Codec) (Value, error) {
	if v.kind != KindBlob {
		return v, mismatch(KindBlob, v.kind)
	}

	raw, err := v.AsBlob()
	if err != nil {
		return v, err
	}

	compressed, err := codec.Compress(raw)
	if err != nil {
		return v, fmt.Errorf("compact blob: %w", err)
	}

	return Value{kind: KindBlob, blob: compressed, blobCodec: codec, blobRawLen: len(raw)}, nil
}

// IsCompactBlob reports whether v's blob payload is currently held
// compressed in memory.
func (v Value) IsCompactBlob() bool {
	return v.kind == KindBlob && v.blobCodec != nil
}

// CompactBlobLen returns the decompressed length of a compact blob
// without paying for decompression, or -1 if v is not a compact blob.
func (v Value) CompactBlobLen() int {
	if !v.IsCompactBlob() {
		return -1
	}

	return v.blobRawLen
}

// AsString returns v's text, or an error if v is not a String.
func (v Value) AsString() (string, error) {
	if v.kind != KindString {
		return "", mismatch(KindString, v.kind)
	}

	return v.str, nil
}

// AsList returns v's elements, or an error if v is not a List.
func (v Value) AsList() ([]Value, error) {
	if v.kind != KindList {
		return nil, mismatch(KindList, v.kind)
	}

	return v.list, nil
}

// AsMap returns v's entries, or an error if v is not a Map.
func (v Value) AsMap() ([]MapEntry, error) {
	if v.kind != KindMap {
		return nil, mismatch(KindMap, v.kind)
	}

	return v.m, nil
}

// AsIMap returns v's entries, or an error if v is not an IMap.
func (v Value) AsIMap() ([]IMapEntry, error) {
	if v.kind != KindIMap {
		return nil, mismatch(KindIMap, v.kind)
	}

	return v.im, nil
}

// Variant builds the single-entry-map encoding used for enum
// newtype/tuple/struct variants: a Map with exactly one entry, the
// variant's name mapped to its payload.
func Variant(name string, payload Value) Value {
	return Map([]MapEntry{{Key: name, Value: payload}})
}

// IsVariant reports whether v has the shape Variant produces: a Map
// with exactly one entry.
func (v Value) IsVariant() bool {
	return v.kind == KindMap && len(v.m) == 1
}

// AsVariant reads back the (name, payload) pair Variant encoded. It
// returns errs.ErrInvalidType if v is not a single-entry Map.
func (v Value) AsVariant() (name string, payload Value, err error) {
	if !v.IsVariant() {
		return "", Value{}, fmt.Errorf("%w: value is not a single-entry variant map", errs.ErrInvalidType)
	}

	entry := v.m[0]

	return entry.Key, entry.Value, nil
}
