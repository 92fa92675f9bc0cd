package field

// Decoder reads one column value out of a row image.
//
// Decoders are immutable once built and may be shared by goroutines that
// decode different rows of the same table.
type Decoder interface {
	// Name is the column name the decoder was built for.
	Name() string
	// Type is the storage type tag, e.g. "tinyint" or "varchar".
	Type() string
	// PackLength is the encoded width in bytes. For variable-width columns
	// it is only an upper bound and FixedSize reports false.
	PackLength() int
	FixedSize() bool
	Meta() Meta
	// Unpack decodes the value at the cursor and returns it together with
	// the number of bytes consumed.
	Unpack(c *Cursor) (Value, int, error)

	sealed()
}

type base struct {
	name       string
	typ        string
	packLength int
	fixed      bool
	meta       Meta
}

func (b *base) Name() string    { return b.name }
func (b *base) Type() string    { return b.typ }
func (b *base) PackLength() int { return b.packLength }
func (b *base) FixedSize() bool { return b.fixed }
func (b *base) Meta() Meta      { return b.meta }
func (b *base) sealed()         {}

func (b *base) malformed(off int, reason string) *MalformedValueError {
	return &MalformedValueError{Field: b.name, Type: b.typ, Offset: off, Reason: reason}
}

// take consumes exactly PackLength bytes and returns where they started.
func (b *base) take(c *Cursor) ([]byte, int, error) {
	start := c.Offset()
	data, err := c.take(b.name, b.packLength)
	if err != nil {
		return nil, 0, err
	}
	return data, start, nil
}

// null decodes TypeNull columns, which occupy no bytes.
type null struct{ base }

func (d *null) Unpack(c *Cursor) (Value, int, error) {
	return Null, 0, nil
}
