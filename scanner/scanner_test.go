package scanner

import (
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/go-data-exporter/binlogrow/field"
	"github.com/go-data-exporter/binlogrow/table"
)

func testTable(t *testing.T) *table.Table {
	t.Helper()
	tbl, err := table.New("shop", "orders", []table.Column{
		{Name: "id", Type: field.TypeLong, Meta: field.Meta{Unsigned: true}},
		{Name: "name", Type: field.TypeVarchar, Meta: field.Meta{Length: 32}, Nullable: true},
		{Name: "digest", Type: field.TypeString, Meta: field.Meta{Length: 4, Collation: field.Collation{ID: field.BinaryCollationID}}},
		{Name: "amount", Type: field.TypeNewDecimal, Meta: field.Meta{Precision: 4, Scale: 2}},
		{Name: "flags", Type: field.TypeBit, Meta: field.Meta{Bits: 4}},
	})
	if err != nil {
		t.Fatalf("table.New: %v", err)
	}
	return tbl
}

// Two rows; the second has a NULL name.
var images = []byte{
	0x00, 0x01, 0x00, 0x00, 0x00, 0x02, 'h', 'i', 0x02, 0xCA, 0xFE, 0x8C, 0x22, 0x05,
	0x02, 0x02, 0x00, 0x00, 0x00, 0x00, 0x73, 0xDD, 0x0F,
}

func TestFromImages(t *testing.T) {
	s := FromImages(testTable(t), images, nil)
	if s.Driver() != Driver {
		t.Errorf("driver = %q", s.Driver())
	}
	var got [][]any
	for s.Next() {
		row, err := s.ScanRow()
		if err != nil {
			t.Fatalf("ScanRow: %v", err)
		}
		got = append(got, row)
	}
	if err := s.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d rows, want 2", len(got))
	}

	first := got[0]
	if first[0] != uint64(1) {
		t.Errorf("id = %#v", first[0])
	}
	if first[1] != "hi" {
		t.Errorf("name = %#v", first[1])
	}
	if !reflect.DeepEqual(first[2], []byte{0xCA, 0xFE}) {
		t.Errorf("digest = %#v", first[2])
	}
	if d, ok := first[3].(decimal.Decimal); !ok || d.String() != "12.34" {
		t.Errorf("amount = %#v", first[3])
	}
	if b, ok := first[4].(field.Bits); !ok || b.String() != "b'0101'" {
		t.Errorf("flags = %#v", first[4])
	}

	second := got[1]
	if second[1] != nil {
		t.Errorf("name = %#v, want nil", second[1])
	}
	if d := second[3].(decimal.Decimal); d.String() != "-12.34" {
		t.Errorf("amount = %s", d)
	}
}

func TestFromImagesError(t *testing.T) {
	s := FromImages(testTable(t), images[:10], nil)
	if s.Next() {
		t.Fatal("Next succeeded on a truncated row")
	}
	var under *field.BufferUnderrunError
	if !errors.As(s.Err(), &under) {
		t.Fatalf("Err = %v, want buffer underrun", s.Err())
	}
	if _, err := s.ScanRow(); err == nil {
		t.Error("ScanRow after failure returned no error")
	}
}

func TestTableColumns(t *testing.T) {
	cols, err := FromImages(testTable(t), nil, nil).Columns()
	if err != nil {
		t.Fatal(err)
	}
	want := []struct {
		name, typ string
		scan      reflect.Type
		nullable  bool
	}{
		{"id", "UNSIGNED INT", uint64Type, false},
		{"name", "VARCHAR", stringType, true},
		{"digest", "CHAR", bytesType, false},
		{"amount", "DECIMAL", decimalType, false},
		{"flags", "BIT", bitsType, false},
	}
	for i, w := range want {
		c := cols[i]
		if c.Name() != w.name || c.DatabaseTypeName() != w.typ || c.ScanType() != w.scan {
			t.Errorf("column %d = %s %s %v", i, c.Name(), c.DatabaseTypeName(), c.ScanType())
		}
		if nullable, ok := c.Nullable(); !ok || nullable != w.nullable {
			t.Errorf("column %d nullable = %v, %v", i, nullable, ok)
		}
	}
	if p, s, ok := cols[3].DecimalSize(); !ok || p != 4 || s != 2 {
		t.Errorf("DecimalSize = %d, %d, %v", p, s, ok)
	}
	if n, ok := cols[1].Length(); !ok || n != 32 {
		t.Errorf("Length = %d, %v", n, ok)
	}
	if _, ok := cols[0].Length(); ok {
		t.Error("integer column reports a length")
	}
}

func TestFromRows(t *testing.T) {
	tbl := testTable(t)
	rows, err := tbl.DecodeRows(images, nil)
	if err != nil {
		t.Fatal(err)
	}
	s := FromRows(tbl, rows)
	if _, err := s.ScanRow(); err == nil {
		t.Error("ScanRow before Next returned no error")
	}
	n := 0
	for s.Next() {
		if _, err := s.ScanRow(); err != nil {
			t.Fatal(err)
		}
		n++
	}
	if n != 2 {
		t.Errorf("scanned %d rows", n)
	}
	if _, err := s.ScanRow(); err != io.EOF {
		t.Errorf("ScanRow at end = %v, want EOF", err)
	}
}

func TestFromData(t *testing.T) {
	s := FromData([][]any{{1, "a", nil}, {2, "b"}})
	cols, _ := s.Columns()
	if len(cols) != 3 || cols[0].DatabaseTypeName() != "int" || cols[2].DatabaseTypeName() != "nil" {
		t.Fatalf("unexpected columns %v", cols)
	}
	if !s.Next() {
		t.Fatal("no first row")
	}
	if _, err := s.ScanRow(); err != nil {
		t.Fatal(err)
	}
	if !s.Next() {
		t.Fatal("no second row")
	}
	if _, err := s.ScanRow(); err == nil {
		t.Error("short row accepted")
	}
}
