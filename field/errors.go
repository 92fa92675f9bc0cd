package field

import "fmt"

// UnsupportedTypeError is returned by New for a type code it has no
// decoder for. The table cannot be decoded until its schema is re-learned.
type UnsupportedTypeError struct {
	Field string
	Type  Type
}

func (e *UnsupportedTypeError) Error() string {
	return fmt.Sprintf("field: %s: unsupported column type %s", e.Field, e.Type)
}

// InvalidMetaError is returned by New when the metadata cannot describe a
// column of the requested type.
type InvalidMetaError struct {
	Field  string
	Type   Type
	Reason string
}

func (e *InvalidMetaError) Error() string {
	return fmt.Sprintf("field: %s: invalid %s metadata: %s", e.Field, e.Type, e.Reason)
}

// BufferUnderrunError means a read would run past the end of the row
// buffer. The cursor is left where the field started and the rest of the
// row cannot be trusted.
type BufferUnderrunError struct {
	Field  string
	Offset int
	Need   int
	Have   int
}

func (e *BufferUnderrunError) Error() string {
	name := e.Field
	if name == "" {
		name = "<unnamed>"
	}
	return fmt.Sprintf("field: %s: buffer underrun at offset %d: need %d bytes, have %d",
		name, e.Offset, e.Need, e.Have)
}

// MalformedValueError means the bytes were consumed but do not form a valid
// value of the column's type. The cursor is past the field, so the rest of
// the row is still in sync.
type MalformedValueError struct {
	Field  string
	Type   string
	Offset int
	Reason string
}

func (e *MalformedValueError) Error() string {
	return fmt.Sprintf("field: %s: malformed %s value at offset %d: %s",
		e.Field, e.Type, e.Offset, e.Reason)
}
