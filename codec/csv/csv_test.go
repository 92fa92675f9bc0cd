package csvcodec

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/go-data-exporter/binlogrow/field"
	"github.com/go-data-exporter/binlogrow/scanner"
)

func TestWrite(t *testing.T) {
	data := [][]any{
		{int64(1), "a,b", decimal.RequireFromString("12.50"), field.Bits{Value: 5, Width: 4}},
		{int64(2), nil, decimal.RequireFromString("-1.00"), []byte("raw")},
	}
	var buf bytes.Buffer
	if err := New(WithCustomNULL("\\N")).Write(scanner.FromData(data), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := "column_0,column_1,column_2,column_3\n" +
		"1,\"a,b\",12.50,5\n" +
		"2,\\N,-1.00,raw\n"
	if buf.String() != want {
		t.Errorf("got\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteOptions(t *testing.T) {
	data := [][]any{{1, "x"}, {2, "y"}}
	c := New(
		WithCustomDelimiter(';'),
		WithCRLF(true),
		WithCustomHeader([]string{"id", "name"}),
		WithCustomType(func(v int, driver string, _ scanner.Column) string {
			return driver + ":" + string(rune('0'+v))
		}),
		WithPreProcessorFunc(func(row []string) ([]string, bool) {
			return row, row[1] != "y"
		}),
	)
	var buf bytes.Buffer
	if err := c.Write(scanner.FromData(data), &buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "id;name\r\ngo-slice:1;x\r\n" {
		t.Errorf("got %q", got)
	}

	buf.Reset()
	if err := New(WithHeader(false)).Write(scanner.FromData(data), &buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "1,x\n2,y\n" {
		t.Errorf("got %q", got)
	}

	err := New(WithCustomHeader([]string{"only"})).Write(scanner.FromData(data), &buf)
	if err == nil {
		t.Error("mismatched header accepted")
	}
}

func TestWriteFieldValues(t *testing.T) {
	data := [][]any{{field.Null, field.TemporalValue("2024-03-15 13:45:30"), field.UintValue(7)}}
	var buf bytes.Buffer
	if err := New(WithHeader(false), WithCustomNULL("NULL")).Write(scanner.FromData(data), &buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "NULL,2024-03-15 13:45:30,7\n" {
		t.Errorf("got %q", got)
	}
}
