// Package format defines the ChainPack wire-format tag byte alphabet.
//
// Every value on the wire begins with one byte: either one of the inline
// small-integer ranges, or one of the Tag constants below. The two ranges
// and the enumerated tags partition the full byte space so that a decoder
// can dispatch on the first byte alone.
package format

// Tag identifies the wire representation of a ChainPack value.
type Tag byte

const (
	TagNull     Tag = 0x80 // Absence / unit value.
	TagTrue     Tag = 0x81
	TagFalse    Tag = 0x82
	TagInt      Tag = 0x83 // Tag + signed varint.
	TagUInt     Tag = 0x84 // Tag + unsigned varint.
	TagDouble   Tag = 0x85 // Tag + 8 little-endian IEEE-754 bytes.
	TagDecimal  Tag = 0x86 // Tag + signed varint mantissa + signed varint exponent.
	TagBlob     Tag = 0x87 // Tag + uvarint length + bytes.
	TagString   Tag = 0x88 // Tag + uvarint length + UTF-8 bytes.
	TagList     Tag = 0x89 // Tag + values... + TagTerm.
	TagMap      Tag = 0x8A // Tag + (string, value)... + TagTerm.
	TagIMap     Tag = 0x8B // Tag + (int, value)... + TagTerm.
	TagDateTime Tag = 0x8C // Tag + signed varint payload.
	TagTerm     Tag = 0x8D // Closes List/Map/IMap.
)

const (
	// InlineUIntMax is the highest byte value carrying an inline unsigned
	// value (0x00..=0x3F, value = byte).
	InlineUIntMax byte = 0x3F

	// InlineIntBase is the first byte value of the inline signed range
	// (0x40..=0x7F, value = byte - InlineIntBase, always 0..63).
	InlineIntBase byte = 0x40

	// InlineIntMax is the last byte value of the inline signed range.
	InlineIntMax byte = 0x7F
)

// IsInlineUInt reports whether b is a self-contained small unsigned value.
func IsInlineUInt(b byte) bool { return b <= InlineUIntMax }

// IsInlineInt reports whether b is a self-contained small non-negative
// signed value (the inline signed range never encodes negative numbers).
func IsInlineInt(b byte) bool { return b >= InlineIntBase && b <= InlineIntMax }

func (t Tag) String() string {
	switch t {
	case TagNull:
		return "Null"
	case TagTrue:
		return "True"
	case TagFalse:
		return "False"
	case TagInt:
		return "Int"
	case TagUInt:
		return "UInt"
	case TagDouble:
		return "Double"
	case TagDecimal:
		return "Decimal"
	case TagBlob:
		return "Blob"
	case TagString:
		return "String"
	case TagList:
		return "List"
	case TagMap:
		return "Map"
	case TagIMap:
		return "IMap"
	case TagDateTime:
		return "DateTime"
	case TagTerm:
		return "Term"
	default:
		return "Unknown"
	}
}
