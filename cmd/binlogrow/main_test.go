package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/juju/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/go-data-exporter/binlogrow/field"
)

const ordersJSON = `{
  "schema": "shop",
  "name": "orders",
  "columns": [
    {"name": "id", "type": "tiny"},
    {"name": "name", "type": "varchar", "length": 100, "nullable": true},
    {"name": "created", "type": "datetime", "storage": "new"},
    {"name": "amount", "type": "newdecimal", "precision": 4, "scale": 2}
  ]
}`

func TestParseTable(t *testing.T) {
	tbl, err := parseTable([]byte(ordersJSON))
	require.NoError(t, err)
	assert.Equal(t, "shop.orders", tbl.String())
	cols := tbl.Columns()
	require.Len(t, cols, 4)
	assert.Equal(t, field.TypeVarchar, cols[1].Type)
	assert.True(t, cols[1].Nullable)
	assert.Equal(t, field.NewStorage, cols[2].Meta.Storage)
	assert.Equal(t, 2, cols[3].Meta.Scale)
	assert.Equal(t, 5, tbl.Decoders()[2].PackLength())
}

func TestParseTableErrors(t *testing.T) {
	tests := map[string]string{
		"syntax":       `{"name":`,
		"no name":      `{"columns":[{"name":"id","type":"tiny"}]}`,
		"no columns":   `{"name":"t"}`,
		"unknown type": `{"name":"t","columns":[{"name":"id","type":"integer"}]}`,
		"storage":      `{"name":"t","columns":[{"name":"at","type":"datetime","storage":"newest"}]}`,
		"meta":         `{"name":"t","columns":[{"name":"amount","type":"newdecimal","precision":70}]}`,
	}
	for name, def := range tests {
		_, err := parseTable([]byte(def))
		assert.Error(t, err, name)
	}

	_, err := parseTable([]byte(`{"name":"t","columns":[{"name":"id","type":"integer"}]}`))
	assert.True(t, errors.IsNotValid(err), "%v", err)
}

func TestReadImages(t *testing.T) {
	in := "# first row\n007f 03616263\n\n  99b2dedb5e  \n"
	data, err := readImages(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, []byte{0x00, 0x7F, 0x03, 'a', 'b', 'c', 153, 178, 222, 219, 94}, data)

	_, err = readImages(strings.NewReader("00\nzz\n"))
	assert.ErrorContains(t, err, "line 2")
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "orders.json")
	require.NoError(t, os.WriteFile(path, []byte(ordersJSON), 0o644))

	in := "007f0361626399b2dedb5e8c22\n" + // 127, abc, 2024-03-15 13:45:30, 12.34
		"02 01 99b2dedb5e 73dd\n" // 1, NULL, 2024-03-15 13:45:30, -12.34
	var out bytes.Buffer
	err := run(zap.NewNop(), path, "csv", "", "", false, strings.NewReader(in), &out)
	require.NoError(t, err)
	assert.Equal(t,
		"id,name,created,amount\n"+
			"127,abc,2024-03-15 13:45:30,12.34\n"+
			"1,NULL,2024-03-15 13:45:30,-12.34\n",
		out.String())

	// Only id and amount present.
	out.Reset()
	err = run(zap.NewNop(), path, "ndjson", "", "09", false, strings.NewReader("00058c22\n"), &out)
	require.NoError(t, err)
	assert.Equal(t, `{"amount":"12.34","created":null,"id":5,"name":null}`+"\n", out.String())

	out.Reset()
	require.NoError(t, run(zap.NewNop(), path, "xml", "", "09", false, strings.NewReader("00058c22\n"), &out))
	assert.Equal(t,
		`<?xml version="1.0" encoding="UTF-8"?>`+"\n<data>\n<row><id>5</id><amount>12.34</amount></row>\n</data>\n",
		out.String())

	out.Reset()
	require.NoError(t, run(zap.NewNop(), path, "html", "", "", false, strings.NewReader(in), &out))
	assert.Contains(t, out.String(), "<td>abc</td>")

	outPath := filepath.Join(dir, "rows.json")
	require.NoError(t, run(zap.NewNop(), path, "json", outPath, "", false, strings.NewReader(in), &out))
	written, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(written), "[\n"))

	assert.Error(t, run(zap.NewNop(), "", "json", "", "", false, strings.NewReader(in), &out))
	assert.Error(t, run(zap.NewNop(), path, "yaml", "", "", false, strings.NewReader(in), &out))
	assert.Error(t, run(zap.NewNop(), path, "json", "", "zz", false, strings.NewReader(in), &out))
}

func TestRunPartialRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "orders.json")
	require.NoError(t, os.WriteFile(path, []byte(ordersJSON), 0o644))
	in := "0001 0378797a 99b2dedb5e e400\n" // amount is malformed

	var out bytes.Buffer
	err := run(zap.NewNop(), path, "csv", "", "", false, strings.NewReader(in), &out)
	var malformed *field.MalformedValueError
	require.True(t, errors.As(err, &malformed), "%v", err)

	out.Reset()
	require.NoError(t, run(zap.NewNop(), path, "csv", "", "", true, strings.NewReader(in), &out))
	assert.Equal(t, "id,name,created,amount\n1,xyz,2024-03-15 13:45:30,NULL\n", out.String())
}
