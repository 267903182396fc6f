// Package decoder reads the ChainPack wire format back into Values.
//
// Decoder wraps a bufio.Reader so that container iteration and optional
// decoding can use a one-byte look-ahead (Peek) instead of a full read
// that could desynchronize the stream — the discipline spec §4.6 and §9
// require for terminator detection.
//
// Decode recurses once per nested List/Map/IMap; WithMaxDepth bounds
// that recursion so a deeply-nested but otherwise well-formed input
// fails cleanly instead of overflowing the stack. DecodeVarint,
// DecodeUvarint, DecodeDouble, DecodeDateTime, DecodeDecimal,
// DecodeString, and DecodeBlob are exported per-kind helpers for
// callers integrating with a generic data-model bridge, mirroring
// Encoder's EncodeX methods.
package decoder

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"
	"math"
	"unicode/utf8"

	"github.com/fvacek/chainpack-go/cpdatetime"
	"github.com/fvacek/chainpack-go/decimal"
	"github.com/fvacek/chainpack-go/endian"
	"github.com/fvacek/chainpack-go/errs"
	"github.com/fvacek/chainpack-go/format"
	"github.com/fvacek/chainpack-go/internal/hash"
	"github.com/fvacek/chainpack-go/internal/options"
	"github.com/fvacek/chainpack-go/value"
	"github.com/fvacek/chainpack-go/varint"
)

// defaultMaxDepth is the nesting depth permitted for List/Map/IMap
// containers before Decode gives up with errs.ErrMaxDepthExceeded,
// rather than recursing until the goroutine stack overflows.
const defaultMaxDepth = 200

// Decoder reads Values from an underlying byte stream, one at a time.
//
// A Decoder is not safe for concurrent use. A partial read caused by a
// malformed value leaves the Decoder's position undefined; per spec §5,
// the instance must be discarded rather than reused.
type Decoder struct {
	r        *bufio.Reader
	interned map[uint64]string
	maxDepth int
	depth    int
}

// Option configures a Decoder. See internal/options for the underlying
// functional-option machinery shared across this module.
type Option = options.Option[*Decoder]

// WithMaxDepth sets the maximum nesting depth permitted for List/Map/IMap
// containers; exceeding it fails with errs.ErrMaxDepthExceeded instead of
// recursing further. The default is defaultMaxDepth. Every Option the
// Decoder accepts is error-free (options.NoError), so applying them here
// cannot fail.
func WithMaxDepth(n int) Option {
	return options.NoError(func(d *Decoder) {
		d.maxDepth = n
	})
}

// New creates a Decoder reading from r.
func New(r io.Reader, opts ...Option) *Decoder {
	br, ok := r.(*bufio.Reader)
	if !ok {
		br = bufio.NewReader(r)
	}

	d := &Decoder{r: br, interned: make(map[uint64]string), maxDepth: defaultMaxDepth}
	_ = options.Apply(d, opts...)

	return d
}

// NewFromBytes creates a Decoder reading from an in-memory buffer.
func NewFromBytes(b []byte, opts ...Option) *Decoder {
	return New(bytes.NewReader(b), opts...)
}

// enterContainer increments the nesting depth for a List/Map/IMap about
// to be decoded, failing once maxDepth is exceeded. Call leaveContainer
// to restore the prior depth once the container's elements are read.
func (d *Decoder) enterContainer() error {
	d.depth++
	if d.depth > d.maxDepth {
		return fmt.Errorf("%w: depth %d exceeds limit %d", errs.ErrMaxDepthExceeded, d.depth, d.maxDepth)
	}

	return nil
}

func (d *Decoder) leaveContainer() {
	d.depth--
}

// internString canonicalizes repeated map keys to a single shared
// string, trading an xxhash lookup for the allocation a fresh key string
// would otherwise cost on every map entry. This is purely an in-memory
// optimization: it changes nothing about what bytes were read or what
// Decode returns, only how many distinct key string headers exist.
func (d *Decoder) internString(s string) string {
	id := hash.ID(s)
	if existing, ok := d.interned[id]; ok {
		return existing
	}

	d.interned[id] = s

	return s
}

func eofWrap(err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return errs.ErrEOF
	}

	return err
}

// PeekTag reports the tag byte of the next value without consuming it.
func (d *Decoder) PeekTag() (format.Tag, error) {
	b, err := d.r.Peek(1)
	if err != nil {
		return 0, eofWrap(err)
	}

	return format.Tag(b[0]), nil
}

func (d *Decoder) readFull(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(d.r, buf); err != nil {
		return nil, eofWrap(err)
	}

	return buf, nil
}

func (d *Decoder) readUvarint() (uint64, error) {
	b0, err := d.r.ReadByte()
	if err != nil {
		return 0, eofWrap(err)
	}

	buf, err := d.readVarintBytes(b0)
	if err != nil {
		return 0, err
	}

	v, _, err := varint.Uvarint(buf)

	return v, err
}

func (d *Decoder) readVarint() (int64, error) {
	b0, err := d.r.ReadByte()
	if err != nil {
		return 0, eofWrap(err)
	}

	buf, err := d.readVarintBytes(b0)
	if err != nil {
		return 0, err
	}

	v, _, err := varint.Varint(buf)

	return v, err
}

// readVarintBytes assembles the full byte span of a varint/varuint given
// its already-consumed first byte, reading exactly as many further bytes
// as the first byte's length prefix promises.
func (d *Decoder) readVarintBytes(b0 byte) ([]byte, error) {
	total := varint.TotalLen(b0)
	if total == 1 {
		return []byte{b0}, nil
	}

	rest, err := d.readFull(total - 1)
	if err != nil {
		return nil, err
	}

	return append([]byte{b0}, rest...), nil
}

// Decode reads and returns the next Value from the stream.
func (d *Decoder) Decode() (value.Value, error) {
	b0, err := d.r.ReadByte()
	if err != nil {
		return value.Value{}, eofWrap(err)
	}

	switch {
	case format.IsInlineUInt(b0):
		return value.UInt(uint64(b0)), nil
	case format.IsInlineInt(b0):
		return value.Int(int64(b0 - format.InlineIntBase)), nil
	}

	return d.decodeTag(format.Tag(b0))
}

// DecodeVarint reads a signed varint payload, for a caller integrating
// with a generic data-model bridge that decodes per-kind rather than
// through the full tag-dispatching Decode. The TagInt byte must already
// be consumed (typically via PeekTag/ReadByte on the caller's side).
func (d *Decoder) DecodeVarint() (int64, error) { return d.readVarint() }

// DecodeUvarint reads an unsigned varint payload. The TagUInt byte must
// already be consumed by the caller.
func (d *Decoder) DecodeUvarint() (uint64, error) { return d.readUvarint() }

// DecodeDouble reads an IEEE-754 binary64 payload. The TagDouble byte
// must already be consumed by the caller.
func (d *Decoder) DecodeDouble() (float64, error) { return d.readDoubleRaw() }

// DecodeDateTime reads a packed timestamp payload. The TagDateTime byte
// must already be consumed by the caller.
func (d *Decoder) DecodeDateTime() (value.DateTime, error) { return d.readDateTimeRaw() }

// DecodeDecimal reads a mantissa/exponent decimal payload. The
// TagDecimal byte must already be consumed by the caller.
func (d *Decoder) DecodeDecimal() (decimal.Decimal, error) { return d.readDecimalRaw() }

// DecodeString reads a length-prefixed UTF-8 payload. The TagString
// byte must already be consumed by the caller.
func (d *Decoder) DecodeString() (string, error) { return d.readStringRaw() }

// DecodeBlob reads a length-prefixed opaque-bytes payload. The TagBlob
// byte must already be consumed by the caller.
func (d *Decoder) DecodeBlob() ([]byte, error) { return d.readBlobRaw() }

func (d *Decoder) decodeTag(tag format.Tag) (value.Value, error) {
	switch tag {
	case format.TagNull:
		return value.Null(), nil

	case format.TagTrue:
		return value.Bool(true), nil

	case format.TagFalse:
		return value.Bool(false), nil

	case format.TagInt:
		v, err := d.readVarint()
		if err != nil {
			return value.Value{}, err
		}

		return value.Int(v), nil

	case format.TagUInt:
		v, err := d.readUvarint()
		if err != nil {
			return value.Value{}, err
		}

		return value.UInt(v), nil

	case format.TagDouble:
		return d.decodeDouble()

	case format.TagDecimal:
		return d.decodeDecimal()

	case format.TagDateTime:
		return d.decodeDateTime()

	case format.TagBlob:
		return d.decodeBlob()

	case format.TagString:
		return d.decodeString()

	case format.TagList:
		return d.decodeList()

	case format.TagMap:
		return d.decodeMap()

	case format.TagIMap:
		return d.decodeIMap()

	case format.TagTerm:
		return value.Value{}, fmt.Errorf("%w: unexpected terminator", errs.ErrInvalidType)

	default:
		return value.Value{}, fmt.Errorf("%w: tag byte 0x%02x", errs.ErrInvalidType, byte(tag))
	}
}

func (d *Decoder) decodeDouble() (value.Value, error) {
	f, err := d.readDoubleRaw()
	if err != nil {
		return value.Value{}, err
	}

	return value.Double(f), nil
}

func (d *Decoder) readDoubleRaw() (float64, error) {
	raw, err := d.readFull(8)
	if err != nil {
		return 0, err
	}

	bits := endian.GetLittleEndianEngine().Uint64(raw)

	return math.Float64frombits(bits), nil
}

func (d *Decoder) decodeDecimal() (value.Value, error) {
	dec, err := d.readDecimalRaw()
	if err != nil {
		return value.Value{}, err
	}

	return value.Decimal(dec), nil
}

func (d *Decoder) readDecimalRaw() (decimal.Decimal, error) {
	mantissa, err := d.readVarint()
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decimal mantissa: %w", err)
	}

	exponent, err := d.readVarint()
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("decimal exponent: %w", err)
	}

	return decimal.FromWire(mantissa, exponent)
}

func (d *Decoder) decodeDateTime() (value.Value, error) {
	dt, err := d.readDateTimeRaw()
	if err != nil {
		return value.Value{}, err
	}

	return value.DateTimeValue(dt), nil
}

func (d *Decoder) readDateTimeRaw() (value.DateTime, error) {
	payload, err := d.readVarint()
	if err != nil {
		return value.DateTime{}, err
	}

	unixMilli, offsetSeconds, err := cpdatetime.Unpack(payload)
	if err != nil {
		return value.DateTime{}, err
	}

	return value.DateTime{UnixMilli: unixMilli, OffsetSeconds: offsetSeconds}, nil
}

func (d *Decoder) decodeBlob() (value.Value, error) {
	raw, err := d.readBlobRaw()
	if err != nil {
		return value.Value{}, err
	}

	return value.Blob(raw), nil
}

func (d *Decoder) readBlobRaw() ([]byte, error) {
	n, err := d.readUvarint()
	if err != nil {
		return nil, err
	}

	return d.readFull(int(n))
}

func (d *Decoder) decodeString() (value.Value, error) {
	s, err := d.readStringRaw()
	if err != nil {
		return value.Value{}, err
	}

	return value.String(s), nil
}

func (d *Decoder) readStringRaw() (string, error) {
	n, err := d.readUvarint()
	if err != nil {
		return "", err
	}

	raw, err := d.readFull(int(n))
	if err != nil {
		return "", err
	}

	if !utf8.Valid(raw) {
		return "", fmt.Errorf("%w: string payload", errs.ErrInvalidUTF8)
	}

	return string(raw), nil
}

func (d *Decoder) decodeList() (value.Value, error) {
	if err := d.enterContainer(); err != nil {
		return value.Value{}, err
	}
	defer d.leaveContainer()

	var items []value.Value
	for v, err := range d.ListItems() {
		if err != nil {
			return value.Value{}, err
		}

		items = append(items, v)
	}

	return value.List(items), nil
}

func (d *Decoder) decodeMap() (value.Value, error) {
	if err := d.enterContainer(); err != nil {
		return value.Value{}, err
	}
	defer d.leaveContainer()

	var entries []value.MapEntry
	for entry, err := range d.MapItems() {
		if err != nil {
			return value.Value{}, err
		}

		entries = append(entries, entry)
	}

	return value.Map(entries), nil
}

func (d *Decoder) decodeIMap() (value.Value, error) {
	if err := d.enterContainer(); err != nil {
		return value.Value{}, err
	}
	defer d.leaveContainer()

	var entries []value.IMapEntry
	for entry, err := range d.IMapItems() {
		if err != nil {
			return value.Value{}, err
		}

		entries = append(entries, entry)
	}

	return value.IMap(entries), nil
}

// ListItems lazily iterates the elements of a list whose TagList byte
// has already been consumed (by Decode's dispatch, or by a bridge-style
// caller that read the tag itself). Iteration stops, without an error,
// the moment a TagTerm byte is peeked.
func (d *Decoder) ListItems() iter.Seq2[value.Value, error] {
	return func(yield func(value.Value, error) bool) {
		for {
			tag, err := d.PeekTag()
			if err != nil {
				yield(value.Value{}, err)

				return
			}

			if tag == format.TagTerm {
				_, _ = d.r.ReadByte()

				return
			}

			v, err := d.Decode()
			if !yield(v, err) || err != nil {
				return
			}
		}
	}
}

// MapItems lazily iterates the (key, value) pairs of a string-keyed map
// whose TagMap byte has already been consumed. Keys are interned (see
// internString) to cut down on repeated-key allocation.
func (d *Decoder) MapItems() iter.Seq2[value.MapEntry, error] {
	return func(yield func(value.MapEntry, error) bool) {
		for {
			tag, err := d.PeekTag()
			if err != nil {
				yield(value.MapEntry{}, err)

				return
			}

			if tag == format.TagTerm {
				_, _ = d.r.ReadByte()

				return
			}

			keyVal, err := d.Decode()
			if err != nil {
				yield(value.MapEntry{}, err)

				return
			}

			key, err := keyVal.AsString()
			if err != nil {
				yield(value.MapEntry{}, err)

				return
			}

			val, err := d.Decode()
			entry := value.MapEntry{Key: d.internString(key), Value: val}

			if !yield(entry, err) || err != nil {
				return
			}
		}
	}
}

// IMapItems lazily iterates the (key, value) pairs of an integer-keyed
// map whose TagIMap byte has already been consumed.
func (d *Decoder) IMapItems() iter.Seq2[value.IMapEntry, error] {
	return func(yield func(value.IMapEntry, error) bool) {
		for {
			tag, err := d.PeekTag()
			if err != nil {
				yield(value.IMapEntry{}, err)

				return
			}

			if tag == format.TagTerm {
				_, _ = d.r.ReadByte()

				return
			}

			keyVal, err := d.Decode()
			if err != nil {
				yield(value.IMapEntry{}, err)

				return
			}

			key, err := keyVal.AsInt()
			if err != nil {
				yield(value.IMapEntry{}, err)

				return
			}

			val, err := d.Decode()
			entry := value.IMapEntry{Key: key, Value: val}

			if !yield(entry, err) || err != nil {
				return
			}
		}
	}
}
