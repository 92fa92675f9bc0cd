package main

import (
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/juju/errors"

	"github.com/go-data-exporter/binlogrow/field"
	"github.com/go-data-exporter/binlogrow/table"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// tableConfig is the JSON form of a table-map definition:
//
//	{"schema":"shop","name":"orders","columns":[
//	  {"name":"id","type":"long","unsigned":true},
//	  {"name":"amount","type":"newdecimal","precision":10,"scale":2}]}
//
// Type names are the lower-case MySQL type code names, e.g. "varchar",
// "datetime2" or "medium_blob". A column may instead carry its SQL
// definition, {"name":"amount","definition":"decimal(10,2)"}, which sets
// the type and the metadata; storage, collation and charset_max_len still
// apply on top of it.
type tableConfig struct {
	Schema  string         `json:"schema"`
	Name    string         `json:"name"`
	Columns []columnConfig `json:"columns"`
}

type columnConfig struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Definition  string `json:"definition"`
	Unsigned    bool   `json:"unsigned"`
	Nullable    bool   `json:"nullable"`
	Length      int    `json:"length"`
	Precision   int    `json:"precision"`
	Scale       int    `json:"scale"`
	FSP         int    `json:"fsp"`
	Elements    int    `json:"elements"`
	Bits        int    `json:"bits"`
	LengthBytes int    `json:"length_bytes"`
	Storage     string `json:"storage"`
	Collation   int    `json:"collation"`
	MaxLen      int    `json:"charset_max_len"`
}

func parseStorage(s string) (field.Storage, error) {
	switch s {
	case "", "default":
		return field.StorageDefault, nil
	case "old":
		return field.OldStorage, nil
	case "new":
		return field.NewStorage, nil
	}
	return 0, errors.NotValidf("storage %q", s)
}

func (c columnConfig) column() (table.Column, error) {
	if c.Definition != "" {
		return c.definedColumn()
	}
	typ, ok := field.ParseType(c.Type)
	if !ok {
		return table.Column{}, errors.NotValidf("column %q type %q", c.Name, c.Type)
	}
	storage, err := parseStorage(c.Storage)
	if err != nil {
		return table.Column{}, errors.Annotatef(err, "column %q", c.Name)
	}
	return table.Column{
		Name:     c.Name,
		Type:     typ,
		Nullable: c.Nullable,
		Meta: field.Meta{
			Unsigned:    c.Unsigned,
			Length:      c.Length,
			Precision:   c.Precision,
			Scale:       c.Scale,
			FSP:         c.FSP,
			Elements:    c.Elements,
			Bits:        c.Bits,
			LengthBytes: c.LengthBytes,
			Storage:     storage,
			Collation:   field.Collation{ID: c.Collation, MaxLen: c.MaxLen},
		},
	}, nil
}

func (c columnConfig) definedColumn() (table.Column, error) {
	if c.Type != "" {
		return table.Column{}, errors.NotValidf("column %q with both type and definition", c.Name)
	}
	typ, meta, err := parseDefinition(c.Definition)
	if err != nil {
		return table.Column{}, errors.Annotatef(err, "column %q", c.Name)
	}
	if meta.Storage, err = parseStorage(c.Storage); err != nil {
		return table.Column{}, errors.Annotatef(err, "column %q", c.Name)
	}
	if legacy, ok := legacyTemporal[typ]; ok && meta.Storage == field.OldStorage {
		typ = legacy
	}
	if c.Collation != 0 {
		meta.Collation.ID = c.Collation
	}
	if c.MaxLen != 0 {
		meta.Collation.MaxLen = c.MaxLen
	}
	return table.Column{Name: c.Name, Type: typ, Nullable: c.Nullable, Meta: meta}, nil
}

// parseTable builds a table from its JSON definition.
func parseTable(data []byte, opts ...table.Option) (*table.Table, error) {
	var cfg tableConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Annotate(err, "parse table definition")
	}
	if cfg.Name == "" {
		return nil, errors.NotValidf("table definition without name")
	}
	if len(cfg.Columns) == 0 {
		return nil, errors.NotValidf("table %q without columns", cfg.Name)
	}
	columns := make([]table.Column, len(cfg.Columns))
	for i, c := range cfg.Columns {
		col, err := c.column()
		if err != nil {
			return nil, err
		}
		columns[i] = col
	}
	return table.New(cfg.Schema, cfg.Name, columns, opts...)
}

func loadTable(path string, opts ...table.Option) (*table.Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Trace(err)
	}
	return parseTable(data, opts...)
}
