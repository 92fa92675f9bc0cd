package scanner

import "reflect"

// Column describes one output column. The method set mirrors
// database/sql.ColumnType so codecs can treat every source alike.
type Column interface {
	Name() string
	Length() (length int64, ok bool)
	DecimalSize() (precision, scale int64, ok bool)
	ScanType() reflect.Type
	Nullable() (nullable, ok bool)
	DatabaseTypeName() string
}

type column struct {
	index    int
	name     string
	typeName string
	scanType reflect.Type

	length         int64
	hasLength      bool
	precision      int64
	scale          int64
	hasDecimalSize bool
	nullable       bool
	hasNullable    bool
}

// Index returns the column's position in the row.
func (c *column) Index() int {
	return c.index
}

func (c *column) Name() string {
	return c.name
}

func (c *column) Length() (length int64, ok bool) {
	return c.length, c.hasLength
}

func (c *column) DecimalSize() (precision, scale int64, ok bool) {
	return c.precision, c.scale, c.hasDecimalSize
}

func (c *column) ScanType() reflect.Type {
	return c.scanType
}

func (c *column) Nullable() (nullable, ok bool) {
	return c.nullable, c.hasNullable
}

func (c *column) DatabaseTypeName() string {
	return c.typeName
}
