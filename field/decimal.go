package field

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

const digitsPerGroup = 9

// dig2bytes maps a count of leftover digits to the bytes MySQL packs them in.
var dig2bytes = [digitsPerGroup + 1]int{0, 1, 1, 2, 2, 3, 3, 4, 4, 4}

var powers10 = [digitsPerGroup + 1]uint32{1, 10, 100, 1000, 10000, 100000, 1000000, 10000000, 100000000, 1000000000}

// decimalBinSize is the width of DECIMAL(precision, scale) in decimal2bin
// format.
func decimalBinSize(precision, scale int) int {
	intg := precision - scale
	return intg/digitsPerGroup*4 + dig2bytes[intg%digitsPerGroup] +
		scale/digitsPerGroup*4 + dig2bytes[scale%digitsPerGroup]
}

// decimalField decodes DECIMAL columns. Integer and fractional digits are
// stored separately, each as 4-byte big-endian groups of nine digits with
// the leftover digits packed into 1-4 bytes: in front of the integer part
// and behind the fractional part. The high bit of the first byte is set for
// non-negative values; negative values have every byte complemented.
type decimalField struct {
	base
	precision, scale int
}

func (d *decimalField) Unpack(c *Cursor) (Value, int, error) {
	data, start, err := d.take(c)
	if err != nil {
		return Null, 0, err
	}
	n := len(data)

	buf := make([]byte, n)
	copy(buf, data)
	negative := buf[0]&0x80 == 0
	buf[0] ^= 0x80
	if negative {
		for i := range buf {
			buf[i] = ^buf[i]
		}
	}

	intg := d.precision - d.scale
	var sb strings.Builder
	sb.Grow(d.precision + 3)
	if negative {
		sb.WriteByte('-')
	}

	g := groupReader{buf: buf}
	wrote := false
	if lead := intg % digitsPerGroup; lead > 0 {
		if !g.read(&sb, lead) {
			return Null, n, d.malformed(start, g.reason)
		}
		wrote = true
	}
	for i := 0; i < intg/digitsPerGroup; i++ {
		if !g.read(&sb, digitsPerGroup) {
			return Null, n, d.malformed(start, g.reason)
		}
		wrote = true
	}
	if !wrote {
		sb.WriteByte('0')
	}
	if d.scale > 0 {
		sb.WriteByte('.')
		for i := 0; i < d.scale/digitsPerGroup; i++ {
			if !g.read(&sb, digitsPerGroup) {
				return Null, n, d.malformed(start, g.reason)
			}
		}
		if trail := d.scale % digitsPerGroup; trail > 0 {
			if !g.read(&sb, trail) {
				return Null, n, d.malformed(start, g.reason)
			}
		}
	}

	v, err := decimal.NewFromString(sb.String())
	if err != nil {
		return Null, n, d.malformed(start, err.Error())
	}
	return DecimalValue(v), n, nil
}

// groupReader walks the digit groups of an unsigned decimal2bin image.
type groupReader struct {
	buf    []byte
	pos    int
	reason string
}

// read appends one group of the given digit count, zero padded.
func (g *groupReader) read(sb *strings.Builder, digits int) bool {
	size := dig2bytes[digits]
	v := uint32(uintBE(g.buf[g.pos : g.pos+size]))
	if v >= powers10[digits] {
		g.reason = "digit group " + strconv.FormatUint(uint64(v), 10) +
			" exceeds " + strconv.Itoa(digits) + " digits"
		return false
	}
	g.pos += size
	s := strconv.FormatUint(uint64(v), 10)
	for i := len(s); i < digits; i++ {
		sb.WriteByte('0')
	}
	sb.WriteString(s)
	return true
}
