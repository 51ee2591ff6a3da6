package column

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wilhasse/innopage/format"
	"github.com/wilhasse/innopage/record"
	"github.com/wilhasse/innopage/schema"
)

func TestIntegers(t *testing.T) {
	cases := []struct {
		col  schema.Column
		data []byte
		want interface{}
	}{
		{schema.Column{Type: schema.TypeTinyInt}, []byte{0x80}, int64(0)},
		{schema.Column{Type: schema.TypeTinyInt}, []byte{0x7f}, int64(-1)},
		{schema.Column{Type: schema.TypeTinyInt, Unsigned: true}, []byte{0xff}, uint64(255)},
		{schema.Column{Type: schema.TypeSmallInt}, []byte{0x80, 0x10}, int64(16)},
		{schema.Column{Type: schema.TypeMediumInt}, []byte{0x7f, 0xff, 0xfe}, int64(-2)},
		{schema.Column{Type: schema.TypeMediumInt}, []byte{0x80, 0x01, 0x00}, int64(256)},
		{schema.Column{Type: schema.TypeInt}, []byte{0x80, 0, 0, 42}, int64(42)},
		{schema.Column{Type: schema.TypeInt}, []byte{0x7f, 0xff, 0xff, 0xd6}, int64(-42)},
		{schema.Column{Type: schema.TypeInt, Unsigned: true}, []byte{0, 0, 1, 0}, uint64(256)},
		{schema.Column{Type: schema.TypeBigInt}, []byte{0x80, 0, 0, 0, 0, 0, 0, 7}, int64(7)},
		{schema.Column{Type: schema.TypeBigInt}, []byte{0, 0, 0, 0, 0, 0, 0, 0}, int64(-1 << 63)},
		{schema.Column{Type: schema.TypeBoolean}, []byte{0x81}, true},
		{schema.Column{Type: schema.TypeTrxID}, []byte{0, 0, 0, 0, 0x05, 0x01}, uint64(0x0501)},
	}
	for _, tc := range cases {
		got, err := Decode(tc.data, false, &tc.col)
		require.NoError(t, err, "%s %x", tc.col.Type, tc.data)
		assert.Equal(t, tc.want, got, "%s %x", tc.col.Type, tc.data)
	}

	_, err := Decode([]byte{1}, false, &schema.Column{Name: "n", Type: schema.TypeInt})
	assert.True(t, errors.Is(err, format.ErrShortRead))
}

func TestRollPtr(t *testing.T) {
	v, err := Decode([]byte{0x85, 0x00, 0x00, 0x01, 0x02, 0x01, 0x10}, false, &schema.Column{Type: schema.TypeRollPtr})
	require.NoError(t, err)
	rp := DecodeRollPtr(v.(uint64))
	assert.True(t, rp.Insert)
	assert.Equal(t, uint8(5), rp.RsegID)
	assert.Equal(t, uint32(0x0102), rp.PageNo)
	assert.Equal(t, uint16(0x0110), rp.Offset)
}

func TestStrings(t *testing.T) {
	v, err := Decode([]byte("ab  "), false, &schema.Column{Type: schema.TypeChar})
	require.NoError(t, err)
	assert.Equal(t, "ab", v)

	v, err = Decode([]byte("hello "), false, &schema.Column{Type: schema.TypeVarchar})
	require.NoError(t, err)
	assert.Equal(t, "hello ", v)

	v, err = Decode([]byte{1, 2}, false, &schema.Column{Type: schema.TypeVarBinary})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, v)
	assert.Equal(t, "0x0102", Format(v))

	enum := &schema.Column{Type: schema.TypeEnum, EnumValues: []string{"a", "b", "c"}}
	v, err = Decode([]byte{2}, false, enum)
	require.NoError(t, err)
	assert.Equal(t, "b", v)

	set := &schema.Column{Type: schema.TypeSet, SetValues: []string{"x", "y", "z"}}
	v, err = Decode([]byte{5}, false, set)
	require.NoError(t, err)
	assert.Equal(t, "x,z", v)

	v, err = Decode([]byte{0x01, 0x01}, false, &schema.Column{Type: schema.TypeBit, Length: 9})
	require.NoError(t, err)
	assert.Equal(t, uint64(257), v)
}

func TestDateTime(t *testing.T) {
	// 2024-03-15: 2024<<9 | 3<<5 | 15
	date := uint32(2024<<9|3<<5|15) ^ 0x800000
	v, err := Decode([]byte{byte(date >> 16), byte(date >> 8), byte(date)}, false, &schema.Column{Type: schema.TypeDate})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15", v)

	// 2024-03-15 10:20:30
	ym := uint64(2024*13 + 3)
	packed := uint64(1)<<39 | ym<<22 | 15<<17 | 10<<12 | 20<<6 | 30
	dt := []byte{byte(packed >> 32), byte(packed >> 24), byte(packed >> 16), byte(packed >> 8), byte(packed)}
	v, err = Decode(dt, false, &schema.Column{Type: schema.TypeDateTime})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15 10:20:30", v)

	v, err = Decode(append(dt, 0x04, 0xd2), false, &schema.Column{Type: schema.TypeDateTime, Precision: 4})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15 10:20:30.1234", v)

	v, err = Decode([]byte{0x65, 0xf4, 0x20, 0xee}, false, &schema.Column{Type: schema.TypeTimestamp})
	require.NoError(t, err)
	assert.Equal(t, "2024-03-15 10:20:30", v)

	// 10:20:30 and -10:20:30
	tp := int64(10<<12 | 20<<6 | 30)
	pos := uint64(0x800000 + tp)
	v, err = Decode([]byte{byte(pos >> 16), byte(pos >> 8), byte(pos)}, false, &schema.Column{Type: schema.TypeTime})
	require.NoError(t, err)
	assert.Equal(t, "10:20:30", v)
	neg := uint64(0x800000 - tp)
	v, err = Decode([]byte{byte(neg >> 16), byte(neg >> 8), byte(neg)}, false, &schema.Column{Type: schema.TypeTime})
	require.NoError(t, err)
	assert.Equal(t, "-10:20:30", v)

	v, err = Decode([]byte{124}, false, &schema.Column{Type: schema.TypeYear})
	require.NoError(t, err)
	assert.Equal(t, uint16(2024), v)
}

func TestDecimal(t *testing.T) {
	col := &schema.Column{Type: schema.TypeDecimal, Precision: 5, Scale: 2}
	v, err := Decode([]byte{0x80, 0x7b, 0x2d}, false, col)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("123.45").Equal(v.(decimal.Decimal)), "%v", v)

	v, err = Decode([]byte{0x7f, 0x84, 0xd2}, false, col)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("-123.45").Equal(v.(decimal.Decimal)), "%v", v)
	assert.Equal(t, "-123.45", Format(v))

	wide := &schema.Column{Type: schema.TypeDecimal, Precision: 20, Scale: 10}
	data := []byte{0x81, 0x0d, 0xfb, 0x38, 0xd2, 0x1d, 0xcd, 0x65, 0x00, 0x00}
	v, err = Decode(data, false, wide)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("1234567890.5").Equal(v.(decimal.Decimal)), "%v", v)

	_, err = Decode([]byte{0x80}, false, col)
	assert.Error(t, err)
	_, err = Decode([]byte{0x80}, false, &schema.Column{Type: schema.TypeDecimal})
	assert.Error(t, err)
}

func TestFloats(t *testing.T) {
	v, err := Decode([]byte{0, 0, 0xc0, 0x3f}, false, &schema.Column{Type: schema.TypeFloat})
	require.NoError(t, err)
	assert.Equal(t, float32(1.5), v)

	v, err = Decode([]byte{0, 0, 0, 0, 0, 0, 0x04, 0xc0}, false, &schema.Column{Type: schema.TypeDouble})
	require.NoError(t, err)
	assert.Equal(t, -2.5, v)
}

func TestNullAndUnsupported(t *testing.T) {
	v, err := Decode(nil, true, &schema.Column{Type: schema.TypeInt})
	require.NoError(t, err)
	assert.Nil(t, v)
	assert.Equal(t, "NULL", Format(v))

	_, err = Decode([]byte{1}, false, &schema.Column{Type: "GEOMETRY"})
	assert.True(t, errors.Is(err, schema.ErrUnsupportedType))
}

func TestLayout(t *testing.T) {
	td, err := schema.ParseTableDefFromSQL(`CREATE TABLE t (
		id int,
		code char(4) CHARACTER SET latin1 NOT NULL,
		name varchar(100),
		tag varchar(10) CHARACTER SET latin1,
		body text,
		PRIMARY KEY (id)
	)`)
	require.NoError(t, err)

	got := Layout(td.ClusteredFields())
	assert.Equal(t, []record.Column{
		{Fixed: 4},
		{Fixed: 6},
		{Fixed: 7},
		{Fixed: 4},
		{Nullable: true, Big: true},
		{Nullable: true},
		{Nullable: true, Big: true},
	}, got)

	ptr := Layout(td.NodePointerFields())
	assert.Equal(t, []record.Column{{Fixed: 4}, {Fixed: 4}}, ptr)
}
