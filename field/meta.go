package field

// Storage selects between MySQL's two on-disk encodings of a column.
type Storage uint8

const (
	// StorageDefault lets the type code decide.
	StorageDefault Storage = iota
	// OldStorage is the pre-5.6.4 temporal packing, or the fixed-width
	// CHAR encoding for TypeString.
	OldStorage
	// NewStorage is the 5.6.4+ packed temporal encoding.
	NewStorage
)

func (s Storage) String() string {
	switch s {
	case OldStorage:
		return "old"
	case NewStorage:
		return "new"
	}
	return "default"
}

// Collation identifies the character set a string column is stored in.
// Bytes are never transcoded; MaxLen is only used to size length prefixes.
type Collation struct {
	ID     int
	MaxLen int // bytes per character, 0 means 1
}

// BinaryCollationID is the id of the "binary" collation.
const BinaryCollationID = 63

// Binary reports whether values in this collation are raw bytes.
func (c Collation) Binary() bool {
	return c.ID == BinaryCollationID
}

func (c Collation) maxLen() int {
	if c.MaxLen <= 0 {
		return 1
	}
	return c.MaxLen
}

// Meta carries the per-column metadata a decoder needs. Fields that do not
// apply to a column's type are ignored.
type Meta struct {
	Unsigned    bool
	Length      int // declared max length in characters
	Precision   int
	Scale       int
	FSP         int // fractional seconds precision, 0..6
	Elements    int // ENUM/SET element count
	Bits        int // BIT(M)
	LengthBytes int // BLOB length prefix width, 1..4
	Storage     Storage
	Collation   Collation
}
