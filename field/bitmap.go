package field

import "fmt"

// enum decodes ENUM as its raw 1-based element index; 0 is the empty value
// MySQL stores for invalid input.
type enum struct {
	base
	elements int
}

func enumPackLength(elements int) int {
	if elements < 255 {
		return 1
	}
	return 2
}

func (d *enum) Unpack(c *Cursor) (Value, int, error) {
	data, start, err := d.take(c)
	if err != nil {
		return Null, 0, err
	}
	idx := uintLE(data)
	if d.elements > 0 && idx > uint64(d.elements) {
		return Null, d.packLength, d.malformed(start,
			fmt.Sprintf("index %d beyond %d elements", idx, d.elements))
	}
	return UintValue(idx), d.packLength, nil
}

// set decodes SET as a little-endian bitmap, bit i standing for element i.
type set struct {
	base
	elements int
}

func setPackLength(elements int) int {
	n := (elements + 7) / 8
	if n > 4 {
		return 8
	}
	return n
}

func (d *set) Unpack(c *Cursor) (Value, int, error) {
	data, start, err := d.take(c)
	if err != nil {
		return Null, 0, err
	}
	v := uintLE(data)
	if d.elements < 64 && v>>uint(d.elements) != 0 {
		return Null, d.packLength, d.malformed(start,
			fmt.Sprintf("bitmap %#x has bits beyond %d elements", v, d.elements))
	}
	return BitsValue(Bits{Value: v, Width: d.elements}), d.packLength, nil
}

// bit decodes BIT(M): (M+7)/8 bytes, most significant byte first. The
// leading byte carries the M%8 high-order bits.
type bit struct {
	base
	bits int
}

func (d *bit) Unpack(c *Cursor) (Value, int, error) {
	data, start, err := d.take(c)
	if err != nil {
		return Null, 0, err
	}
	v := uintBE(data)
	if d.bits < 64 && v>>uint(d.bits) != 0 {
		return Null, d.packLength, d.malformed(start,
			fmt.Sprintf("value %#x wider than %d bits", v, d.bits))
	}
	return BitsValue(Bits{Value: v, Width: d.bits}), d.packLength, nil
}
