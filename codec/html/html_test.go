package htmlcodec

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/go-data-exporter/binlogrow/field"
	"github.com/go-data-exporter/binlogrow/scanner"
	"github.com/go-data-exporter/binlogrow/tostring"
)

type failingRows struct {
	scanner.Rows
	err error
}

func (f failingRows) Err() error { return f.err }

// noRows keeps the columns of the wrapped scanner but yields no rows.
type noRows struct {
	scanner.Rows
}

func (noRows) Next() bool { return false }

func TestWrite(t *testing.T) {
	data := [][]any{
		{1, "<b>bold</b>", decimal.RequireFromString("12.50")},
		{2, nil, decimal.RequireFromString("-1.00")},
	}
	var buf bytes.Buffer
	if err := New(WithTitle("shop.orders")).Write(scanner.FromData(data), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, `<!DOCTYPE html><html><head><meta charset="utf-8"><title>shop.orders</title>`) {
		t.Errorf("missing page prefix: %s", out)
	}
	if !strings.Contains(out, `<th><p>column_0</p><p class=typ>int</p></th>`) {
		t.Errorf("missing header cell: %s", out)
	}
	if !strings.Contains(out, `<tr><td>1</td><td>&lt;b&gt;bold&lt;/b&gt;</td><td>12.50</td></tr>`) {
		t.Errorf("first row not escaped or formatted: %s", out)
	}
	if !strings.Contains(out, `<tr><td>2</td><td><span style="color:#aaaaaa;">[NULL]</span></td><td>-1.00</td></tr>`) {
		t.Errorf("NULL markup missing: %s", out)
	}
	if !strings.HasSuffix(out, `</tbody></table></body></html>`) {
		t.Errorf("page not closed: %s", out)
	}
}

func TestWriteDecodedValues(t *testing.T) {
	data := [][]any{{field.Bits{Value: 6, Width: 3}, []byte("raw"), field.Value{}}}
	var buf bytes.Buffer
	if err := New(WithCustomNULL("-")).Write(scanner.FromData(data), &buf); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if !strings.Contains(buf.String(), `<tr><td>6</td><td>raw</td><td>-</td></tr>`) {
		t.Errorf("unexpected output: %s", buf.String())
	}
}

func TestWriteNoData(t *testing.T) {
	var buf bytes.Buffer
	if err := New().Write(scanner.FromData(nil), &buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("no columns should produce no output, got %q", buf.String())
	}

	if err := New().Write(noRows{scanner.FromData([][]any{{1}})}, &buf); err != nil {
		t.Fatal(err)
	}
	if out := buf.String(); !strings.Contains(out, "<thead") || !strings.HasSuffix(out, `<tbody></tbody></table></body></html>`) {
		t.Errorf("header-only page expected, got %s", out)
	}

	buf.Reset()
	if err := New(WithWriteHeaderWhenNoData(false)).Write(noRows{scanner.FromData([][]any{{1}})}, &buf); err != nil {
		t.Fatal(err)
	}
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestWithoutHeader(t *testing.T) {
	var buf bytes.Buffer
	if err := New(WithHeader(false)).Write(scanner.FromData([][]any{{1}}), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if strings.Contains(out, "<thead") {
		t.Errorf("header written: %s", out)
	}
	if !strings.Contains(out, `<tbody><tr><td>1</td></tr></tbody></table></body></html>`) {
		t.Errorf("unexpected body: %s", out)
	}
}

func TestCustomTypeAndPreProcessor(t *testing.T) {
	c := New(
		WithCustomType(func(v int, driver string, _ scanner.Column) tostring.String {
			return tostring.String{String: driver + "#" + tostring.ToString(v).String}
		}),
		WithPreProcessorFunc(func(row []string) ([]string, bool) {
			return row, row[0] != "go-slice#2"
		}),
	)
	var buf bytes.Buffer
	if err := c.Write(scanner.FromData([][]any{{1}, {2}, {3}}), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	if !strings.Contains(out, "go-slice#1") || !strings.Contains(out, "go-slice#3") || strings.Contains(out, "go-slice#2") {
		t.Errorf("unexpected output: %s", out)
	}

	buf.Reset()
	c = New(WithCustomToStringFunc(func(v any) tostring.String { return tostring.String{IsNULL: true} }))
	if err := c.Write(scanner.FromData([][]any{{1}}), &buf); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "[NULL]") {
		t.Errorf("custom toString not applied: %s", buf.String())
	}
}

func TestWriteKeepsRowsBeforeError(t *testing.T) {
	boom := errors.New("boom")
	var buf bytes.Buffer
	err := New().Write(failingRows{Rows: scanner.FromData([][]any{{1}}), err: boom}, &buf)
	if !errors.Is(err, boom) {
		t.Fatalf("Write = %v, want %v", err, boom)
	}
	if !strings.HasSuffix(buf.String(), `<tr><td>1</td></tr></tbody></table></body></html>`) {
		t.Errorf("rows before the error were lost: %s", buf.String())
	}
}
