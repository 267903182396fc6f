// Package encoder writes Value trees to the ChainPack wire format.
//
// Append is the pure, allocation-explicit core: it appends one encoded
// value to a byte slice and returns the extended slice, mirroring the
// varint package's Append-style API. Encoder wraps Append with a pooled
// buffer and an io.Writer, for callers who want a stream-oriented or
// data-model-bridge-style surface instead of building a Value tree
// up front.
package encoder

import (
	"fmt"
	"io"
	"math"
	"unicode/utf8"

	"github.com/fvacek/chainpack-go/cpdatetime"
	"github.com/fvacek/chainpack-go/decimal"
	"github.com/fvacek/chainpack-go/endian"
	"github.com/fvacek/chainpack-go/errs"
	"github.com/fvacek/chainpack-go/format"
	"github.com/fvacek/chainpack-go/internal/options"
	"github.com/fvacek/chainpack-go/internal/pool"
	"github.com/fvacek/chainpack-go/value"
	"github.com/fvacek/chainpack-go/varint"
)

// Append appends the wire encoding of v to dst and returns the extended
// slice. It is the recursive core used by both Encoder and by callers
// who want to build a payload without an io.Writer.
func Append(dst []byte, v value.Value) ([]byte, error) {
	switch v.Kind() {
	case value.KindNull:
		return append(dst, byte(format.TagNull)), nil

	case value.KindBool:
		b, _ := v.AsBool()
		if b {
			return append(dst, byte(format.TagTrue)), nil
		}

		return append(dst, byte(format.TagFalse)), nil

	case value.KindInt:
		i, _ := v.AsInt()
		return appendInt(dst, i)

	case value.KindUInt:
		u, _ := v.AsUInt()
		return appendUInt(dst, u), nil

	case value.KindDouble:
		f, _ := v.AsDouble()
		return appendDouble(dst, f), nil

	case value.KindDecimal:
		d, _ := v.AsDecimal()
		return appendDecimal(dst, d)

	case value.KindDateTime:
		dt, _ := v.AsDateTime()
		return appendDateTime(dst, dt)

	case value.KindBlob:
		b, err := v.AsBlob()
		if err != nil {
			return dst, err
		}

		return appendBlob(dst, b), nil

	case value.KindString:
		s, _ := v.AsString()
		return appendString(dst, s)

	case value.KindList:
		items, _ := v.AsList()
		return appendList(dst, items)

	case value.KindMap:
		entries, _ := v.AsMap()
		return appendMap(dst, entries)

	case value.KindIMap:
		entries, _ := v.AsIMap()
		return appendIMap(dst, entries)

	default:
		return dst, fmt.Errorf("%w: unrecognized value kind %v", errs.ErrUnsupportedType, v.Kind())
	}
}

// appendInt appends a signed integer, using the inline tag-byte fast
// path for 0 <= v < 64.
func appendInt(dst []byte, v int64) ([]byte, error) {
	if v >= 0 && v < 64 {
		return append(dst, format.InlineIntBase+byte(v)), nil
	}

	dst = append(dst, byte(format.TagInt))

	return varint.AppendInt(dst, v)
}

// appendUInt appends an unsigned integer, using the inline tag-byte fast
// path for v < 64.
func appendUInt(dst []byte, v uint64) []byte {
	if v < 64 {
		return append(dst, byte(v))
	}

	dst = append(dst, byte(format.TagUInt))

	return varint.AppendUint(dst, v)
}

func appendDouble(dst []byte, f float64) []byte {
	dst = append(dst, byte(format.TagDouble))

	return endian.GetLittleEndianEngine().AppendUint64(dst, math.Float64bits(f))
}

func appendDecimal(dst []byte, d decimal.Decimal) ([]byte, error) {
	dst = append(dst, byte(format.TagDecimal))

	return decimal.Append(dst, d)
}

func appendDateTime(dst []byte, dt value.DateTime) ([]byte, error) {
	payload, err := cpdatetime.Pack(dt.UnixMilli, dt.OffsetSeconds)
	if err != nil {
		return dst, err
	}

	dst = append(dst, byte(format.TagDateTime))

	return varint.AppendInt(dst, payload)
}

func appendBlob(dst []byte, b []byte) []byte {
	dst = append(dst, byte(format.TagBlob))
	dst = varint.AppendUint(dst, uint64(len(b)))

	return append(dst, b...)
}

func appendString(dst []byte, s string) ([]byte, error) {
	if !utf8.ValidString(s) {
		return dst, fmt.Errorf("%w: string value is not valid UTF-8", errs.ErrInvalidUTF8)
	}

	dst = append(dst, byte(format.TagString))
	dst = varint.AppendUint(dst, uint64(len(s)))

	return append(dst, s...), nil
}

func appendList(dst []byte, items []value.Value) ([]byte, error) {
	dst = append(dst, byte(format.TagList))

	var err error
	for _, item := range items {
		dst, err = Append(dst, item)
		if err != nil {
			return dst, err
		}
	}

	return append(dst, byte(format.TagTerm)), nil
}

func appendMap(dst []byte, entries []value.MapEntry) ([]byte, error) {
	dst = append(dst, byte(format.TagMap))

	var err error
	for _, entry := range entries {
		dst, err = appendString(dst, entry.Key)
		if err != nil {
			return dst, err
		}

		dst, err = Append(dst, entry.Value)
		if err != nil {
			return dst, err
		}
	}

	return append(dst, byte(format.TagTerm)), nil
}

func appendIMap(dst []byte, entries []value.IMapEntry) ([]byte, error) {
	dst = append(dst, byte(format.TagIMap))

	var err error
	for _, entry := range entries {
		dst, err = appendInt(dst, entry.Key)
		if err != nil {
			return dst, err
		}

		dst, err = Append(dst, entry.Value)
		if err != nil {
			return dst, err
		}
	}

	return append(dst, byte(format.TagTerm)), nil
}

// Option configures an Encoder. See internal/options for the underlying
// functional-option machinery shared across this module.
type Option = options.Option[*Encoder]

// WithBufferSize sets the initial capacity of the Encoder's pooled
// scratch buffer. Most callers never need this; it exists for producers
// that know their values run much larger than the pool's default size
// and want to avoid a mid-encode regrowth.
func WithBufferSize(n int) Option {
	return options.NoError(func(e *Encoder) {
		e.buf = pool.NewByteBuffer(n)
	})
}

// Encoder writes Values to an underlying io.Writer, one at a time.
//
// An Encoder is not safe for concurrent use. Call Release when done to
// return its scratch buffer to the shared pool.
type Encoder struct {
	w   io.Writer
	buf *pool.ByteBuffer
}

// New creates an Encoder writing to w.
func New(w io.Writer, opts ...Option) (*Encoder, error) {
	e := &Encoder{w: w, buf: pool.GetBlobBuffer()}

	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Release returns the Encoder's scratch buffer to the shared pool. The
// Encoder must not be used afterward.
func (e *Encoder) Release() {
	pool.PutBlobBuffer(e.buf)
}

// Encode writes v's wire encoding to the underlying writer.
func (e *Encoder) Encode(v value.Value) error {
	e.buf.Reset()

	b, err := Append(e.buf.Bytes(), v)
	if err != nil {
		return err
	}

	e.buf.B = b

	_, err = e.buf.WriteTo(e.w)

	return err
}

// EncodeInt writes a signed integer, for callers integrating with a
// generic data-model bridge that calls per-kind methods rather than
// building a value.Value.
func (e *Encoder) EncodeInt(v int64) error { return e.Encode(value.Int(v)) }

// EncodeUInt writes an unsigned integer.
func (e *Encoder) EncodeUInt(v uint64) error { return e.Encode(value.UInt(v)) }

// EncodeDouble writes an IEEE-754 binary64 value.
func (e *Encoder) EncodeDouble(v float64) error { return e.Encode(value.Double(v)) }

// EncodeString writes UTF-8 text.
func (e *Encoder) EncodeString(s string) error { return e.Encode(value.String(s)) }

// EncodeBlob writes opaque bytes.
func (e *Encoder) EncodeBlob(b []byte) error { return e.Encode(value.Blob(b)) }

// EncodeBool writes a boolean.
func (e *Encoder) EncodeBool(b bool) error { return e.Encode(value.Bool(b)) }

// EncodeNull writes the Null tag.
func (e *Encoder) EncodeNull() error { return e.Encode(value.Null()) }

// EncodeDateTime writes a timestamp.
func (e *Encoder) EncodeDateTime(dt value.DateTime) error { return e.Encode(value.DateTimeValue(dt)) }

// EncodeDecimal writes a mantissa/exponent decimal.
func (e *Encoder) EncodeDecimal(d decimal.Decimal) error { return e.Encode(value.Decimal(d)) }

// BeginList writes the List tag. The caller must follow with zero or
// more Encode* calls for the elements, then EndList.
func (e *Encoder) BeginList() error { return e.writeTag(format.TagList) }

// EndList writes the terminator closing a list opened with BeginList.
func (e *Encoder) EndList() error { return e.writeTag(format.TagTerm) }

// BeginMap writes the Map tag. The caller must follow with alternating
// EncodeString (key) / Encode* (value) calls, then EndMap.
func (e *Encoder) BeginMap() error { return e.writeTag(format.TagMap) }

// EndMap writes the terminator closing a map opened with BeginMap.
func (e *Encoder) EndMap() error { return e.writeTag(format.TagTerm) }

// BeginIMap writes the IMap tag. The caller must follow with alternating
// EncodeInt (key) / Encode* (value) calls, then EndIMap.
func (e *Encoder) BeginIMap() error { return e.writeTag(format.TagIMap) }

// EndIMap writes the terminator closing an imap opened with BeginIMap.
func (e *Encoder) EndIMap() error { return e.writeTag(format.TagTerm) }

func (e *Encoder) writeTag(tag format.Tag) error {
	e.buf.Reset()
	e.buf.B = append(e.buf.B, byte(tag))
	_, err := e.buf.WriteTo(e.w)

	return err
}
