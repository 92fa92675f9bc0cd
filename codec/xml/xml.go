// Package xmlcodec writes rows as an XML document: one element per row and
// one child element per non-NULL column.
package xmlcodec

import (
	"bufio"
	"encoding/xml"
	"io"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-data-exporter/binlogrow/scanner"
	"github.com/go-data-exporter/binlogrow/tostring"
)

const declaration = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"

type xmlCodec struct {
	customMapper     map[reflect.Type]func(any, scanner.Metadata) tostring.String
	preProcessorFunc func(rowID int, row []string) ([]string, bool)
	rootElement      string
	rowElement       string
	limit            int
}

type Option func(*xmlCodec)

func New(opts ...Option) *xmlCodec {
	c := &xmlCodec{
		customMapper: make(map[reflect.Type]func(any, scanner.Metadata) tostring.String),
		rootElement:  "data",
		rowElement:   "row",
		limit:        -1,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// WithCustomType registers a string conversion for values of type T.
func WithCustomType[T any](fn func(v T, metadata scanner.Metadata) tostring.String) Option {
	return func(c *xmlCodec) {
		var zero T
		typ := reflect.TypeOf(zero)
		if c.customMapper == nil {
			c.customMapper = make(map[reflect.Type]func(any, scanner.Metadata) tostring.String)
		}
		c.customMapper[typ] = func(v any, metadata scanner.Metadata) tostring.String {
			return fn(v.(T), metadata)
		}
	}
}

func WithPreProcessorFunc(fn func(rowID int, row []string) ([]string, bool)) Option {
	return func(c *xmlCodec) {
		c.preProcessorFunc = fn
	}
}

// WithLimit stops after limit rows. Negative means unlimited.
func WithLimit(limit int) Option {
	return func(c *xmlCodec) {
		c.limit = limit
	}
}

// WithElementNames sets the document and row element names.
func WithElementNames(root, row string) Option {
	return func(c *xmlCodec) {
		c.rootElement = elementName(root)
		c.rowElement = elementName(row)
	}
}

// Write writes nothing when there are no rows. Rows written before a scan
// error are kept and the document is closed.
func (c *xmlCodec) Write(rows scanner.Rows, writer io.Writer) error {
	if c.limit == 0 {
		return nil
	}
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = elementName(col.Name())
	}
	w := bufio.NewWriter(writer)
	written, err := c.writeRows(rows, cols, names, w)
	if written > 0 {
		w.WriteString("</" + c.rootElement + ">\n")
	}
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	return err
}

func (c *xmlCodec) writeRows(rows scanner.Rows, cols []scanner.Column, names []string, w *bufio.Writer) (int, error) {
	written := 0
	rowID := 0
	for rows.Next() {
		values, err := rows.ScanRow()
		if err != nil {
			return written, err
		}
		rowID++
		row := make([]string, len(values))
		null := make([]bool, len(values))
		for i := range values {
			meta := scanner.Metadata{
				RowID:  rowID,
				Driver: rows.Driver(),
				Column: cols[i],
			}
			s := c.toString(values[i], meta)
			row[i], null[i] = s.String, s.IsNULL
		}

		if c.preProcessorFunc != nil {
			var ok bool
			if row, ok = c.preProcessorFunc(rowID, row); !ok {
				continue
			}
		}
		if written == 0 {
			w.WriteString(declaration)
			w.WriteString("<" + c.rootElement + ">\n")
		}
		w.WriteString("<" + c.rowElement + ">")
		for i := range row {
			if i >= len(names) {
				break
			}
			if null[i] {
				continue
			}
			w.WriteString("<" + names[i] + ">")
			if err := xml.EscapeText(w, []byte(row[i])); err != nil {
				return written, err
			}
			w.WriteString("</" + names[i] + ">")
		}
		w.WriteString("</" + c.rowElement + ">\n")
		written++
		if c.limit > 0 && written >= c.limit {
			return written, nil
		}
	}
	return written, rows.Err()
}

// toString applies a custom mapper for the value's type, if any, and falls
// back to tostring.ToString.
func (c *xmlCodec) toString(v any, metadata scanner.Metadata) tostring.String {
	if v == nil {
		return tostring.String{IsNULL: true}
	}
	if fn, ok := c.customMapper[reflect.TypeOf(v)]; ok {
		return fn(v, metadata)
	}
	return tostring.ToString(v)
}

// elementName turns a column name into a valid XML element name. Characters
// that may not appear in a name become '_'.
func elementName(name string) string {
	var b strings.Builder
	for i, r := range name {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && (r == '-' || r == '.' || unicode.IsDigit(r)):
		case i == 0 && unicode.IsDigit(r):
			b.WriteByte('_')
		default:
			r = '_'
		}
		b.WriteRune(r)
	}
	if b.Len() == 0 {
		return "_"
	}
	return b.String()
}
