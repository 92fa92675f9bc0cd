package field

// varString decodes VARCHAR, VAR_STRING and binlog CHAR: a little-endian
// length prefix of prefixWidth bytes, then the payload.
type varString struct {
	base
	prefixWidth int
	collation   Collation
}

// lengthPrefixed reads a width-byte little-endian length and the payload it
// announces. Nothing is consumed unless both fit.
func lengthPrefixed(c *Cursor, name string, width int) ([]byte, int, error) {
	prefix, err := c.peek(name, width)
	if err != nil {
		return nil, 0, err
	}
	length := uintLE(prefix)
	if length > uint64(c.Len()-width) {
		return nil, 0, &BufferUnderrunError{
			Field:  name,
			Offset: c.Offset(),
			Need:   width + int(min(length, uint64(1<<32))),
			Have:   c.Len(),
		}
	}
	n := width + int(length)
	data, err := c.take(name, n)
	if err != nil {
		return nil, 0, err
	}
	return data[width:], n, nil
}

func (d *varString) Unpack(c *Cursor) (Value, int, error) {
	data, n, err := lengthPrefixed(c, d.name, d.prefixWidth)
	if err != nil {
		return Null, 0, err
	}
	return BytesValue(data), n, nil
}

// Collation returns the column's collation for the caller's collator.
func (d *varString) Collation() Collation { return d.collation }

// fixedString decodes CHAR stored at its full declared width. Pad bytes are
// left in place; trimming them depends on the collation.
type fixedString struct {
	base
	collation Collation
}

func (d *fixedString) Unpack(c *Cursor) (Value, int, error) {
	data, _, err := d.take(c)
	if err != nil {
		return Null, 0, err
	}
	return BytesValue(data), d.packLength, nil
}

func (d *fixedString) Collation() Collation { return d.collation }

// blob decodes the BLOB/TEXT family, JSON and GEOMETRY, which share one
// wire format: a 1-4 byte little-endian length, then the payload.
type blob struct {
	base
	prefixWidth int
	collation   Collation
}

func (d *blob) Unpack(c *Cursor) (Value, int, error) {
	data, n, err := lengthPrefixed(c, d.name, d.prefixWidth)
	if err != nil {
		return Null, 0, err
	}
	return BytesValue(data), n, nil
}

func (d *blob) Collation() Collation { return d.collation }

// Collated is implemented by decoders of character columns.
type Collated interface {
	Collation() Collation
}
