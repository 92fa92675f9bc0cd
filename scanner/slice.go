// Package scanner defines interfaces and implementations for reading tabular data.
// This file provides in-memory implementations of Rows backed by slices.
package scanner

import (
	"errors"
	"fmt"
	"io"
	"reflect"

	"github.com/go-data-exporter/binlogrow/table"
)

// sliceRowsScanner implements the Rows interface over rows that are already
// in memory: either raw values or decoded table rows.
type sliceRowsScanner struct {
	rows    [][]any  // Each inner slice is a row.
	columns []Column // Derived column metadata.
	driver  string
	lastRow []any // The last read row, cached after Next().
	cursor  int   // The index of the current row.
}

// FromData creates a new Rows scanner from a 2D slice of data.
// Each inner slice represents a row. Column metadata is inferred from the first row.
func FromData(rows [][]any) Rows {
	s := &sliceRowsScanner{rows: rows, driver: "go-slice"}
	s.columns = inferColumns(rows)
	return s
}

// FromRows creates a Rows scanner over rows decoded from t. Column metadata
// comes from the table definition.
func FromRows(t *table.Table, rows []table.Row) Rows {
	s := &sliceRowsScanner{
		rows:    make([][]any, len(rows)),
		columns: tableColumns(t),
		driver:  Driver,
	}
	decoders := t.Decoders()
	for i, row := range rows {
		s.rows[i] = goValues(decoders, row)
	}
	return s
}

func (s *sliceRowsScanner) Driver() string {
	return s.driver
}

// Err always returns nil for sliceRowsScanner since errors are handled immediately.
func (s *sliceRowsScanner) Err() error {
	return nil
}

// Next prepares the next row for reading. Returns false when no more rows are available.
func (s *sliceRowsScanner) Next() bool {
	if s.cursor >= len(s.rows) {
		return false
	}
	s.lastRow = s.rows[s.cursor]
	return true
}

// ScanRow returns the current row's data.
// It must be called only after a successful call to Next().
func (s *sliceRowsScanner) ScanRow() ([]any, error) {
	if s.cursor >= len(s.rows) {
		return nil, io.EOF
	}
	if s.lastRow == nil {
		return nil, errors.New("binlogrow: scan called without calling Next")
	}
	if len(s.lastRow) != len(s.columns) {
		return nil, fmt.Errorf("length of row %d != number of columns: %d != %d", s.cursor+1, len(s.lastRow), len(s.columns))
	}
	s.cursor++
	return s.lastRow, nil
}

func (s *sliceRowsScanner) Columns() ([]Column, error) {
	return s.columns, nil
}

func inferColumns(rows [][]any) []Column {
	if len(rows) == 0 {
		return nil
	}
	columns := make([]Column, len(rows[0]))
	for i, v := range rows[0] {
		c := &column{
			index: i,
			name:  fmt.Sprintf("column_%d", i),
		}
		if v == nil {
			c.typeName = "nil"
		} else {
			c.scanType = reflect.TypeOf(v)
			c.typeName = c.scanType.String()
		}
		columns[i] = c
	}
	return columns
}
