// Package htmlcodec renders rows as a standalone HTML page holding one table.
package htmlcodec

import (
	"bufio"
	"html"
	"io"
	"reflect"
	"strings"

	"github.com/go-data-exporter/binlogrow/scanner"
	"github.com/go-data-exporter/binlogrow/tostring"
)

type htmlCodec struct {
	customMapper      map[reflect.Type]func(any, string, scanner.Column) tostring.String
	preProcessorFunc  func(row []string) ([]string, bool)
	toStringFunc      func(v any) tostring.String
	title             string
	writeHeader       bool
	writeHeaderNoData bool
	nullValue         string
}

type Option func(*htmlCodec)

func New(opts ...Option) *htmlCodec {
	cw := &htmlCodec{
		customMapper:      make(map[reflect.Type]func(any, string, scanner.Column) tostring.String),
		toStringFunc:      tostring.ToString,
		title:             "binlog rows",
		writeHeader:       true,
		writeHeaderNoData: true,
		nullValue:         `<span style="color:#aaaaaa;">[NULL]</span>`,
	}
	for _, opt := range opts {
		opt(cw)
	}
	return cw
}

func WithCustomType[T any](fn func(v T, driver string, column scanner.Column) tostring.String) Option {
	return func(cw *htmlCodec) {
		var zero T
		typ := reflect.TypeOf(zero)
		if cw.customMapper == nil {
			cw.customMapper = make(map[reflect.Type]func(any, string, scanner.Column) tostring.String)
		}
		cw.customMapper[typ] = func(v any, driver string, column scanner.Column) tostring.String {
			return fn(v.(T), driver, column)
		}
	}
}

// WithPreProcessorFunc filters or rewrites rows. Cells are already HTML
// escaped when fn sees them.
func WithPreProcessorFunc(fn func(row []string) ([]string, bool)) Option {
	return func(cw *htmlCodec) {
		cw.preProcessorFunc = fn
	}
}

func WithCustomToStringFunc(fn func(v any) tostring.String) Option {
	return func(cw *htmlCodec) {
		cw.toStringFunc = fn
	}
}

func WithTitle(title string) Option {
	return func(cw *htmlCodec) {
		cw.title = title
	}
}

func WithHeader(writeHeader bool) Option {
	return func(cw *htmlCodec) {
		cw.writeHeader = writeHeader
	}
}

// WithCustomNULL sets the markup written for NULL cells. It is not escaped.
func WithCustomNULL(nullValue string) Option {
	return func(cw *htmlCodec) {
		cw.nullValue = nullValue
	}
}

// WithWriteHeaderWhenNoData writes the page and the header row even when
// there are no rows.
func WithWriteHeaderWhenNoData(writeHeaderNoData bool) Option {
	return func(cw *htmlCodec) {
		cw.writeHeaderNoData = writeHeaderNoData
	}
}

var style = strings.Join(strings.Fields(`<style>
	body, html { margin: 0; padding: 0; }
	th { border: 1px solid #dedede; border-top: 0; border-left: 0; padding: 15px; }
	td { border: 1px solid #dedede; border-top: 0; border-left: 0; padding: 10px;
	  max-width: 700px; overflow-x: auto; white-space: nowrap; }
	p.typ { margin-top: 5px; color: #333; }
	</style>`), " ")

// Write writes nothing when there are no rows, unless the header is
// written for empty results. Rows written before a scan error are kept and
// the page is closed.
func (c *htmlCodec) Write(rows scanner.Rows, writer io.Writer) error {
	cols, err := rows.Columns()
	if err != nil {
		return err
	}
	w := bufio.NewWriter(writer)
	opened := false
	open := func() {
		if opened {
			return
		}
		opened = true
		c.writeHead(w, cols)
	}
	if c.writeHeader && c.writeHeaderNoData && len(cols) != 0 {
		open()
	}
	err = c.writeRows(rows, cols, w, open)
	if opened {
		w.WriteString(`</tbody></table></body></html>`)
	}
	if flushErr := w.Flush(); err == nil {
		err = flushErr
	}
	return err
}

func (c *htmlCodec) writeHead(w *bufio.Writer, cols []scanner.Column) {
	w.WriteString(`<!DOCTYPE html><html><head><meta charset="utf-8"><title>`)
	w.WriteString(html.EscapeString(c.title))
	w.WriteString(`</title>`)
	w.WriteString(style)
	w.WriteString(`</head><body><table style="width:100%;border-spacing:0px;">`)
	if c.writeHeader {
		w.WriteString(`<thead style="position:sticky;top:0;z-index:99;background:#f9f9f9;"><tr>`)
		for _, col := range cols {
			w.WriteString(`<th><p>` + html.EscapeString(col.Name()) + `</p><p class=typ>` +
				html.EscapeString(strings.ToLower(col.DatabaseTypeName())) + `</p></th>`)
		}
		w.WriteString(`</tr></thead>`)
	}
	w.WriteString(`<tbody>`)
}

func (c *htmlCodec) writeRows(rows scanner.Rows, cols []scanner.Column, w *bufio.Writer, open func()) error {
	for rows.Next() {
		values, err := rows.ScanRow()
		if err != nil {
			return err
		}
		row := make([]string, len(values))
		for i := range values {
			row[i] = c.toString(values[i], rows.Driver(), cols[i])
		}
		writeRow := true
		if c.preProcessorFunc != nil {
			row, writeRow = c.preProcessorFunc(row)
		}
		if !writeRow {
			continue
		}
		open()
		w.WriteString(`<tr>`)
		for i := range row {
			w.WriteString(`<td>` + row[i] + `</td>`)
		}
		w.WriteString(`</tr>`)
	}
	return rows.Err()
}

// toString returns the escaped cell text, or the NULL markup.
func (c *htmlCodec) toString(v any, driver string, column scanner.Column) string {
	if v == nil {
		return c.nullValue
	}
	var s tostring.String
	if fn, ok := c.customMapper[reflect.TypeOf(v)]; ok {
		s = fn(v, driver, column)
	} else {
		s = c.toStringFunc(v)
	}
	if s.IsNULL {
		return c.nullValue
	}
	return html.EscapeString(s.String)
}
