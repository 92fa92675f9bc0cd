package jsoncodec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/go-data-exporter/binlogrow/field"
	"github.com/go-data-exporter/binlogrow/scanner"
)

type failingRows struct {
	scanner.Rows
	err error
}

func (f failingRows) Err() error { return f.err }

func TestWriteArray(t *testing.T) {
	data := [][]any{
		{int64(1), "a", decimal.RequireFromString("12.50"), field.Bits{Value: 5, Width: 4}},
		{int64(2), nil, decimal.RequireFromString("-1.00"), field.Bits{Value: 0, Width: 4}},
	}
	var buf bytes.Buffer
	if err := New().Write(scanner.FromData(data), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	want := "[\n" +
		`{"column_0":1,"column_1":"a","column_2":"12.5","column_3":5}` + ",\n" +
		`{"column_0":2,"column_1":null,"column_2":"-1","column_3":0}` +
		"\n]\n"
	if buf.String() != want {
		t.Errorf("got\n%s\nwant\n%s", buf.String(), want)
	}
}

func TestWriteNewlineDelimited(t *testing.T) {
	data := [][]any{{1}, {2}, {3}}
	var buf bytes.Buffer
	if err := New(WithNewlineDelimited(true), WithLimit(2)).Write(scanner.FromData(data), &buf); err != nil {
		t.Fatal(err)
	}
	if got := buf.String(); got != "{\"column_0\":1}\n{\"column_0\":2}\n" {
		t.Errorf("got %q", got)
	}
}

func TestWriteEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(scanner.FromData(nil), &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("got %q", buf.String())
	}

	buf.Reset()
	if err := New(WithLimit(0)).Write(scanner.FromData([][]any{{1}}), &buf); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("limit 0 wrote %q", buf.String())
	}
}

func TestCustomTypeAndPreProcessor(t *testing.T) {
	data := [][]any{{"keep"}, {"drop"}, {"keep too"}}
	c := New(
		WithCustomType(func(s string, m scanner.Metadata) any {
			return strings.ToUpper(s)
		}),
		WithPreProcessorFunc(func(rowID int, row map[string]any) (map[string]any, bool) {
			return row, rowID != 2
		}),
		WithCustomType(func(b field.Bits, _ scanner.Metadata) any { return b.String() }),
	)
	var buf bytes.Buffer
	if err := c.Write(scanner.FromData(data), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "DROP") || !strings.Contains(out, "KEEP TOO") {
		t.Errorf("unexpected output %s", out)
	}

	buf.Reset()
	if err := c.Write(scanner.FromData([][]any{{field.Bits{Value: 2, Width: 3}}}), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"b'010'"`) {
		t.Errorf("custom Bits mapper not applied: %s", buf.String())
	}
}

func TestWriteReportsRowsErr(t *testing.T) {
	boom := errors.New("boom")
	rows := failingRows{Rows: scanner.FromData([][]any{{1}}), err: boom}
	if err := New().Write(rows, &bytes.Buffer{}); !errors.Is(err, boom) {
		t.Errorf("Write = %v, want %v", err, boom)
	}
}

func TestWriteKeepsRowsBeforeError(t *testing.T) {
	boom := errors.New("boom")
	data := [][]any{{1}, {2}}

	var buf bytes.Buffer
	err := New().Write(failingRows{Rows: scanner.FromData(data), err: boom}, &buf)
	if !errors.Is(err, boom) {
		t.Fatalf("Write = %v, want %v", err, boom)
	}
	if want := "[\n{\"column_0\":1},\n{\"column_0\":2}\n]\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}

	buf.Reset()
	err = New(WithNewlineDelimited(true)).Write(failingRows{Rows: scanner.FromData(data), err: boom}, &buf)
	if !errors.Is(err, boom) {
		t.Fatalf("Write = %v, want %v", err, boom)
	}
	if want := "{\"column_0\":1}\n{\"column_0\":2}\n"; buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestWriteClosesLargeArrayOnError(t *testing.T) {
	data := make([][]any, 500)
	for i := range data {
		data[i] = []any{strings.Repeat("x", 32)}
	}
	var buf bytes.Buffer
	err := New().Write(failingRows{Rows: scanner.FromData(data), err: errors.New("boom")}, &buf)
	if err == nil {
		t.Fatal("expected error")
	}
	out := buf.String()
	if !strings.HasSuffix(out, "\n]\n") {
		t.Errorf("array not closed: ...%q", out[len(out)-20:])
	}
	if n := strings.Count(out, "column_0"); n != 500 {
		t.Errorf("got %d rows, want 500", n)
	}
}
