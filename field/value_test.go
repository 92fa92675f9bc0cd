package field

import (
	"math"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNullValue(t *testing.T) {
	var v Value
	assert.True(t, v.IsNull())
	assert.Equal(t, KindNull, v.Kind())
	assert.Nil(t, v.Interface())
	assert.True(t, math.IsNaN(v.Float()))
	assert.Nil(t, v.Bytes())
	assert.Equal(t, "NULL", v.String())
}

func TestValueConversions(t *testing.T) {
	v := IntValue(-7)
	assert.Equal(t, int64(-7), v.Int())
	assert.Equal(t, float64(-7), v.Float())
	assert.True(t, v.Decimal().Equal(decimal.NewFromInt(-7)))
	assert.Equal(t, "-7", v.String())

	v = UintValue(math.MaxUint64)
	assert.Equal(t, "18446744073709551615", v.String())
	assert.Equal(t, uint64(math.MaxUint64), v.Interface())

	v = DecimalValue(decimal.RequireFromString("10.50"))
	assert.Equal(t, "10.50", v.String())
	assert.Equal(t, 10.5, v.Float())

	v = Float32Value(0.1)
	assert.Equal(t, "0.1", v.String())
	assert.Equal(t, float32(0.1), v.Interface())

	v = BytesValue([]byte("x"))
	assert.Equal(t, []byte("x"), v.Interface())
	assert.Equal(t, "bytes", v.Kind().String())
	assert.Equal(t, "kind(42)", Kind(42).String())
}

func TestBits(t *testing.T) {
	b := Bits{Value: 0b1010, Width: 6}
	assert.True(t, b.Has(1))
	assert.False(t, b.Has(0))
	assert.False(t, b.Has(64))
	assert.Equal(t, "b'001010'", b.String())
	assert.Equal(t, "b'0'", Bits{}.String())

	v := BitsValue(b)
	assert.Equal(t, b, v.Bits())
	assert.Equal(t, uint64(0b1010), v.Uint())
	assert.Equal(t, Bits{}, IntValue(1).Bits())
}

func TestValueTime(t *testing.T) {
	_, err := TemporalValue("12:34:56").Time()
	assert.Error(t, err)
	_, err = TemporalValue("0000-00-00").Time()
	assert.Error(t, err)
	_, err = IntValue(1).Time()
	assert.Error(t, err)
	// Day 31 passes the decoder's range check but is not a calendar date.
	_, err = TemporalValue("2024-02-31").Time()
	assert.Error(t, err)
}
