package field

import (
	"encoding/binary"
	"math"
)

// integer decodes TINYINT through BIGINT: little-endian, sign taken from
// the column declaration.
type integer struct {
	base
	unsigned bool
}

func (d *integer) Unpack(c *Cursor) (Value, int, error) {
	data, _, err := d.take(c)
	if err != nil {
		return Null, 0, err
	}
	n := d.packLength
	if d.unsigned {
		return UintValue(uintLE(data)), n, nil
	}
	var v int64
	switch n {
	case 1:
		v = int64(int8(data[0]))
	case 2:
		v = int64(int16(binary.LittleEndian.Uint16(data)))
	case 3:
		v = int64(int24(data))
	case 4:
		v = int64(int32(binary.LittleEndian.Uint32(data)))
	case 8:
		v = int64(binary.LittleEndian.Uint64(data))
	}
	return IntValue(v), n, nil
}

// int24 assembles a signed MEDIUMINT; Go has no 3-byte integer.
func int24(b []byte) int32 {
	u := uint32(b[0]) | uint32(b[1])<<8 | uint32(b[2])<<16
	if u&0x800000 != 0 {
		u |= 0xFF000000
	}
	return int32(u)
}

// year decodes YEAR: one byte holding the offset from 1900, 0 for 0000.
type year struct{ base }

func (d *year) Unpack(c *Cursor) (Value, int, error) {
	data, _, err := d.take(c)
	if err != nil {
		return Null, 0, err
	}
	if data[0] == 0 {
		return UintValue(0), 1, nil
	}
	return UintValue(1900 + uint64(data[0])), 1, nil
}

// float decodes FLOAT and DOUBLE as little-endian IEEE-754.
type float struct{ base }

func (d *float) Unpack(c *Cursor) (Value, int, error) {
	data, _, err := d.take(c)
	if err != nil {
		return Null, 0, err
	}
	if d.packLength == 4 {
		return Float32Value(math.Float32frombits(binary.LittleEndian.Uint32(data))), 4, nil
	}
	return Float64Value(math.Float64frombits(binary.LittleEndian.Uint64(data))), 8, nil
}
