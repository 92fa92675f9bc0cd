package scanner

import (
	"errors"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/siddontang/go/hack"

	"github.com/go-data-exporter/binlogrow/field"
	"github.com/go-data-exporter/binlogrow/table"
)

// imageRowsScanner decodes row images lazily, one per call to Next.
type imageRowsScanner struct {
	table   *table.Table
	columns []Column
	present table.Bitmap
	cursor  *field.Cursor
	lastRow []any
	err     error
}

// FromImages creates a Rows scanner that decodes the consecutive row images
// in data with t. Decoding stops at the first failing row; the error is
// reported by Err.
func FromImages(t *table.Table, data []byte, present table.Bitmap) Rows {
	return &imageRowsScanner{
		table:   t,
		columns: tableColumns(t),
		present: present,
		cursor:  field.NewCursor(data),
	}
}

func (s *imageRowsScanner) Next() bool {
	s.lastRow = nil
	if s.err != nil || s.cursor.Len() == 0 {
		return false
	}
	row, err := s.table.DecodeRow(s.cursor, s.present)
	if err != nil {
		s.err = err
		return false
	}
	s.lastRow = goValues(s.table.Decoders(), row)
	return true
}

func (s *imageRowsScanner) ScanRow() ([]any, error) {
	if s.lastRow == nil {
		if s.err != nil {
			return nil, s.err
		}
		return nil, errors.New("binlogrow: scan called without calling Next")
	}
	return s.lastRow, nil
}

func (s *imageRowsScanner) Columns() ([]Column, error) {
	return s.columns, nil
}

func (s *imageRowsScanner) Driver() string {
	return Driver
}

func (s *imageRowsScanner) Err() error {
	return s.err
}

var (
	int64Type   = reflect.TypeOf(int64(0))
	uint64Type  = reflect.TypeOf(uint64(0))
	float32Type = reflect.TypeOf(float32(0))
	float64Type = reflect.TypeOf(float64(0))
	decimalType = reflect.TypeOf(decimal.Decimal{})
	stringType  = reflect.TypeOf("")
	bytesType   = reflect.TypeOf([]byte(nil))
	bitsType    = reflect.TypeOf(field.Bits{})
)

// tableColumns describes the columns of t in the terms of
// database/sql.ColumnType, e.g. "UNSIGNED INT" or "DECIMAL".
func tableColumns(t *table.Table) []Column {
	defs := t.Columns()
	columns := make([]Column, len(defs))
	for i, d := range t.Decoders() {
		m := d.Meta()
		c := &column{
			index:       i,
			name:        d.Name(),
			typeName:    strings.ToUpper(d.Type()),
			nullable:    defs[i].Nullable,
			hasNullable: true,
		}
		switch d.Type() {
		case "tinyint", "smallint", "mediumint", "int", "bigint":
			c.scanType = int64Type
			if m.Unsigned {
				c.typeName = "UNSIGNED " + c.typeName
				c.scanType = uint64Type
			}
		case "year", "enum":
			c.scanType = uint64Type
		case "float":
			c.scanType = float32Type
		case "double":
			c.scanType = float64Type
		case "decimal":
			c.scanType = decimalType
			c.precision, c.scale, c.hasDecimalSize = int64(m.Precision), int64(m.Scale), true
		case "set", "bit":
			c.scanType = bitsType
		case "null":
		default:
			c.scanType = stringType
			if isBinary(d) {
				c.scanType = bytesType
			}
			if _, ok := d.(field.Collated); ok && m.Length > 0 {
				c.length, c.hasLength = int64(m.Length), true
			}
		}
		columns[i] = c
	}
	return columns
}

// isBinary reports whether a string-like column holds bytes rather than
// text: binary collations, JSON (stored in MySQL's binary form) and
// GEOMETRY.
func isBinary(d field.Decoder) bool {
	switch d.Type() {
	case "json", "geometry":
		return true
	}
	coll, ok := d.(field.Collated)
	return ok && coll.Collation().Binary()
}

// goValues converts a decoded row to the plain Go values codecs expect.
// Text columns alias the row image.
func goValues(decoders []field.Decoder, row table.Row) []any {
	values := make([]any, len(row.Values))
	for i, v := range row.Values {
		if v.Kind() == field.KindBytes && !isBinary(decoders[i]) {
			values[i] = hack.String(v.Bytes())
			continue
		}
		values[i] = v.Interface()
	}
	return values
}
