package field

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/siddontang/go/hack"
)

// Kind tags which member of a Value is set.
type Kind uint8

const (
	KindNull Kind = iota
	KindInt
	KindUint
	KindFloat32
	KindFloat64
	KindDecimal
	KindBytes
	KindTemporal
	KindBits
)

var kindNames = [...]string{"null", "int", "uint", "float32", "float64", "decimal", "bytes", "temporal", "bits"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// Bits is a raw bitmap from a SET or BIT column. Bit i of Value is element i
// of a SET, or the i-th least significant bit of a BIT column.
type Bits struct {
	Value uint64
	Width int
}

// Has reports whether bit i is set.
func (b Bits) Has(i int) bool {
	if i < 0 || i >= 64 {
		return false
	}
	return b.Value&(1<<uint(i)) != 0
}

// String renders the bitmap MSB first, e.g. "b'0101'".
func (b Bits) String() string {
	w := b.Width
	if w <= 0 {
		w = 1
	}
	var sb strings.Builder
	sb.Grow(w + 3)
	sb.WriteString("b'")
	for i := w - 1; i >= 0; i-- {
		if b.Has(i) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}

// Value is one decoded column value. The zero Value is SQL NULL.
type Value struct {
	kind Kind
	i    int64
	u    uint64
	f    float64
	d    decimal.Decimal
	b    []byte
	s    string
}

// Null is the SQL NULL value.
var Null = Value{}

func IntValue(v int64) Value { return Value{kind: KindInt, i: v} }
func UintValue(v uint64) Value { return Value{kind: KindUint, u: v} }
func Float32Value(v float32) Value { return Value{kind: KindFloat32, f: float64(v)} }
func Float64Value(v float64) Value { return Value{kind: KindFloat64, f: v} }
func BytesValue(b []byte) Value { return Value{kind: KindBytes, b: b} }
func BitsValue(b Bits) Value { return Value{kind: KindBits, u: b.Value, i: int64(b.Width)} }

// DecimalValue holds an exact decimal alongside its float64 approximation.
func DecimalValue(d decimal.Decimal) Value {
	return Value{kind: KindDecimal, d: d, f: d.InexactFloat64()}
}

// TemporalValue holds MySQL's textual form of a date or time value.
func TemporalValue(s string) Value {
	return Value{kind: KindTemporal, s: s}
}

// timestampValue keeps the epoch next to the text so nothing is lost to
// formatting.
func timestampValue(s string, sec int64, usec uint64) Value {
	return Value{kind: KindTemporal, s: s, i: sec, u: usec}
}

func (v Value) Kind() Kind   { return v.kind }
func (v Value) IsNull() bool { return v.kind == KindNull }

// Int returns the signed integer, or the unix seconds of a TIMESTAMP.
func (v Value) Int() int64 {
	switch v.kind {
	case KindInt, KindTemporal:
		return v.i
	case KindUint, KindBits:
		return int64(v.u)
	}
	return 0
}

// Uint returns the unsigned integer, ENUM index, SET/BIT bitmap, or the
// microseconds of a TIMESTAMP.
func (v Value) Uint() uint64 {
	switch v.kind {
	case KindUint, KindBits, KindTemporal:
		return v.u
	case KindInt:
		return uint64(v.i)
	}
	return 0
}

// Float returns floating point and decimal values as float64.
func (v Value) Float() float64 {
	switch v.kind {
	case KindFloat32, KindFloat64, KindDecimal:
		return v.f
	case KindInt:
		return float64(v.i)
	case KindUint:
		return float64(v.u)
	}
	return math.NaN()
}

// Decimal returns the exact value of a DECIMAL column.
func (v Value) Decimal() decimal.Decimal {
	switch v.kind {
	case KindDecimal:
		return v.d
	case KindInt:
		return decimal.NewFromInt(v.i)
	case KindUint:
		return decimal.NewFromUint64(v.u)
	case KindFloat32, KindFloat64:
		return decimal.NewFromFloat(v.f)
	}
	return decimal.Zero
}

// Bytes returns the raw payload of a string or blob column. It aliases the
// row buffer.
func (v Value) Bytes() []byte {
	if v.kind == KindBytes {
		return v.b
	}
	return nil
}

func (v Value) Bits() Bits {
	if v.kind == KindBits {
		return Bits{Value: v.u, Width: int(v.i)}
	}
	return Bits{}
}

// String renders the value the way the mysql client would print it.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "NULL"
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindUint:
		return strconv.FormatUint(v.u, 10)
	case KindFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case KindFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindDecimal:
		if e := v.d.Exponent(); e < 0 {
			return v.d.StringFixed(-e)
		}
		return v.d.String()
	case KindBytes:
		return hack.String(v.b)
	case KindTemporal:
		return v.s
	case KindBits:
		return v.Bits().String()
	}
	return fmt.Sprintf("<%s>", v.kind)
}

// Interface returns the value as a plain Go value: nil, int64, uint64,
// float32, float64, decimal.Decimal, []byte, string or Bits.
func (v Value) Interface() any {
	switch v.kind {
	case KindInt:
		return v.i
	case KindUint:
		return v.u
	case KindFloat32:
		return float32(v.f)
	case KindFloat64:
		return v.f
	case KindDecimal:
		return v.d
	case KindBytes:
		return v.b
	case KindTemporal:
		return v.s
	case KindBits:
		return v.Bits()
	}
	return nil
}

const (
	dateLayout     = "2006-01-02"
	datetimeLayout = "2006-01-02 15:04:05"
)

// Time parses a DATE, DATETIME or TIMESTAMP value in UTC. Zero dates and
// TIME values are not calendar values and return an error.
func (v Value) Time() (time.Time, error) {
	if v.kind != KindTemporal {
		return time.Time{}, fmt.Errorf("field: %s value is not temporal", v.kind)
	}
	if strings.HasPrefix(v.s, "0000-00-00") {
		return time.Time{}, fmt.Errorf("field: zero date %q", v.s)
	}
	switch {
	case len(v.s) == len(dateLayout):
		return time.ParseInLocation(dateLayout, v.s, time.UTC)
	case len(v.s) >= len("2006-01-02 15:04:05") && v.s[4] == '-':
		return time.ParseInLocation(datetimeLayout, v.s, time.UTC)
	}
	return time.Time{}, fmt.Errorf("field: %q is not a calendar value", v.s)
}
