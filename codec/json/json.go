// Package jsoncodec writes rows as a JSON array of objects, or as
// newline-delimited JSON.
package jsoncodec

import (
	"bufio"
	"io"
	"reflect"

	jsoniter "github.com/json-iterator/go"

	"github.com/go-data-exporter/binlogrow/field"
	"github.com/go-data-exporter/binlogrow/scanner"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type Option func(*jsonCodec)

type jsonCodec struct {
	customMapper     map[reflect.Type]func(any, scanner.Metadata) any
	preProcessorFunc func(rowID int, row map[string]any) (map[string]any, bool)
	newlineDelimited bool
	limit            int
}

// New returns a JSON codec. SET and BIT values are written as their integer
// bitmap unless a custom mapper for field.Bits is registered.
func New(opts ...Option) *jsonCodec {
	c := &jsonCodec{
		customMapper: make(map[reflect.Type]func(any, scanner.Metadata) any),
		limit:        -1,
	}
	WithCustomType(func(b field.Bits, _ scanner.Metadata) any { return b.Value })(c)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func WithPreProcessorFunc(fn func(rowID int, row map[string]any) (map[string]any, bool)) Option {
	return func(c *jsonCodec) {
		c.preProcessorFunc = fn
	}
}

func WithNewlineDelimited(isNewlineDelimited bool) Option {
	return func(c *jsonCodec) {
		c.newlineDelimited = isNewlineDelimited
	}
}

func WithCustomType[T any](fn func(v T, metadata scanner.Metadata) any) Option {
	return func(c *jsonCodec) {
		var zero T
		typ := reflect.TypeOf(zero)
		if c.customMapper == nil {
			c.customMapper = make(map[reflect.Type]func(any, scanner.Metadata) any)
		}
		c.customMapper[typ] = func(v any, metadata scanner.Metadata) any {
			return fn(v.(T), metadata)
		}
	}
}

// WithLimit stops after limit rows. Negative means unlimited.
func WithLimit(limit int) Option {
	return func(c *jsonCodec) {
		c.limit = limit
	}
}

func (c *jsonCodec) Write(rows scanner.Rows, writer io.Writer) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	w := bufio.NewWriter(writer)
	// Rows written before a failure are kept and the array is closed.
	written, err := c.writeRows(rows, cols, w)
	if !c.newlineDelimited {
		if written == 0 {
			w.WriteString("[]\n")
		} else {
			w.WriteString("\n]\n")
		}
	}
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	return err
}

func (c *jsonCodec) writeRows(rows scanner.Rows, cols []scanner.Column, w *bufio.Writer) (int, error) {
	written := 0
	if c.limit == 0 {
		return 0, nil
	}
	rowID := 1
	for rows.Next() {
		values, err := rows.ScanRow()
		if err != nil {
			return written, err
		}
		row := make(map[string]any, len(values))
		for i, col := range cols {
			row[col.Name()] = values[i]
			if fn, ok := c.customMapper[reflect.TypeOf(values[i])]; ok {
				meta := scanner.Metadata{
					RowID:  rowID,
					Driver: rows.Driver(),
					Column: col,
				}
				row[col.Name()] = fn(values[i], meta)
			}
		}

		writeRow := true
		if c.preProcessorFunc != nil {
			row, writeRow = c.preProcessorFunc(rowID, row)
		}
		rowID++
		if !writeRow {
			continue
		}

		data, err := json.Marshal(row)
		if err != nil {
			return written, err
		}
		if c.newlineDelimited {
			w.Write(data)
			w.WriteByte('\n')
		} else {
			if written == 0 {
				w.WriteString("[\n")
			} else {
				w.WriteString(",\n")
			}
			w.Write(data)
		}
		written++
		if c.limit > 0 && written >= c.limit {
			return written, nil
		}
	}
	return written, rows.Err()
}
