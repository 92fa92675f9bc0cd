// Package table assembles decoded rows out of rows-event row images, using
// one field.Decoder per column of a table-map definition.
package table

import (
	"fmt"

	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/go-data-exporter/binlogrow/field"
)

// Column is one column of a table-map definition.
type Column struct {
	Name     string
	Type     field.Type
	Meta     field.Meta
	Nullable bool
}

type Option func(*Table)

// WithLogger sets the logger for aborted and partial rows.
func WithLogger(logger *zap.Logger) Option {
	return func(t *Table) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithPartialRows keeps rows whose values are malformed: the offending
// columns are set to NULL and the failures recorded in Row.Errs. By default
// any decode failure aborts the row.
func WithPartialRows(partial bool) Option {
	return func(t *Table) {
		t.partial = partial
	}
}

// Table is an immutable decoder list for one table id.
type Table struct {
	Schema string
	Name   string

	columns  []Column
	decoders []field.Decoder
	logger   *zap.Logger
	partial  bool
}

// New builds a decoder for every column. It fails on the first column whose
// type is unknown or whose metadata is invalid.
func New(schema, name string, columns []Column, opts ...Option) (*Table, error) {
	t := &Table{
		Schema:   schema,
		Name:     name,
		columns:  append([]Column(nil), columns...),
		decoders: make([]field.Decoder, len(columns)),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	for i, col := range columns {
		d, err := field.New(col.Name, col.Type, col.Meta)
		if err != nil {
			return nil, errors.Annotatef(err, "table %s column %d", t, i)
		}
		t.decoders[i] = d
	}
	t.logger = t.logger.With(zap.String("table", t.String()))
	return t, nil
}

func (t *Table) String() string {
	if t.Schema == "" {
		return t.Name
	}
	return fmt.Sprintf("%s.%s", t.Schema, t.Name)
}

// Columns returns a copy of the column definitions.
func (t *Table) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

func (t *Table) Decoders() []field.Decoder {
	return t.decoders
}

func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// AllPresent returns a columns-present bitmap with every column set.
func (t *Table) AllPresent() Bitmap {
	return NewBitmap(len(t.columns))
}
