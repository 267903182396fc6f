package value

import (
	"testing"

	"github.com/fvacek/chainpack-go/compress"
	"github.com/fvacek/chainpack-go/decimal"
	"github.com/fvacek/chainpack-go/errs"
	"github.com/stretchr/testify/require"
)

func TestConstructorsAndAccessors(t *testing.T) {
	require.True(t, Null().IsNull())
	require.Equal(t, KindNull, Null().Kind())

	b, err := Bool(true).AsBool()
	require.NoError(t, err)
	require.True(t, b)

	i, err := Int(-7).AsInt()
	require.NoError(t, err)
	require.Equal(t, int64(-7), i)

	u, err := UInt(7).AsUInt()
	require.NoError(t, err)
	require.Equal(t, uint64(7), u)

	f, err := Double(3.5).AsDouble()
	require.NoError(t, err)
	require.InDelta(t, 3.5, f, 1e-9)

	d, err := Decimal(decimal.New(1, -2)).AsDecimal()
	require.NoError(t, err)
	require.Equal(t, decimal.New(1, -2), d)

	dt, err := DateTimeValue(DateTime{UnixMilli: 1000, OffsetSeconds: 3600}).AsDateTime()
	require.NoError(t, err)
	require.Equal(t, DateTime{UnixMilli: 1000, OffsetSeconds: 3600}, dt)

	blob, err := Blob([]byte{1, 2, 3}).AsBlob()
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, blob)

	s, err := String("hello").AsString()
	require.NoError(t, err)
	require.Equal(t, "hello", s)

	list, err := List([]Value{Int(1), Int(2)}).AsList()
	require.NoError(t, err)
	require.Len(t, list, 2)

	m, err := Map([]MapEntry{{Key: "a", Value: Int(1)}}).AsMap()
	require.NoError(t, err)
	require.Len(t, m, 1)

	im, err := IMap([]IMapEntry{{Key: 1, Value: Int(2)}}).AsIMap()
	require.NoError(t, err)
	require.Len(t, im, 1)
}

func TestAccessorMismatchReturnsInvalidType(t *testing.T) {
	_, err := Int(1).AsString()
	require.ErrorIs(t, err, errs.ErrInvalidType)

	_, err = String("x").AsInt()
	require.ErrorIs(t, err, errs.ErrInvalidType)
}

func TestVariant(t *testing.T) {
	v := Variant("Added", Int(5))
	require.True(t, v.IsVariant())

	name, payload, err := v.AsVariant()
	require.NoError(t, err)
	require.Equal(t, "Added", name)

	n, err := payload.AsInt()
	require.NoError(t, err)
	require.Equal(t, int64(5), n)
}

func TestAsVariantRejectsNonVariantShapes(t *testing.T) {
	_, _, err := Int(1).AsVariant()
	require.ErrorIs(t, err, errs.ErrInvalidType)

	multiEntry := Map([]MapEntry{{Key: "a", Value: Int(1)}, {Key: "b", Value: Int(2)}})
	require.False(t, multiEntry.IsVariant())
	_, _, err = multiEntry.AsVariant()
	require.ErrorIs(t, err, errs.ErrInvalidType)
}

func TestCompactBlobRoundTrips(t *testing.T) {
	codec := compress.NewNoOpCompressor()

	original := Blob([]byte("hello compact world"))
	compacted, err := CompactBlob(original, codec)
	require.NoError(t, err)
	require.True(t, compacted.IsCompactBlob())
	require.Equal(t, len("hello compact world"), compacted.CompactBlobLen())

	got, err := compacted.AsBlob()
	require.NoError(t, err)
	require.Equal(t, "hello compact world", string(got))
}

func TestCompactBlobRejectsNonBlob(t *testing.T) {
	_, err := CompactBlob(Int(1), compress.NewNoOpCompressor())
	require.ErrorIs(t, err, errs.ErrInvalidType)
}

func TestCompactBlobLenOnPlainBlobIsNegativeOne(t *testing.T) {
	require.Equal(t, -1, Blob([]byte("x")).CompactBlobLen())
}
