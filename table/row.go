package table

import (
	"github.com/juju/errors"
	"go.uber.org/zap"

	"github.com/go-data-exporter/binlogrow/field"
)

// Row is one decoded row image. Values has an entry for every column of the
// table; columns missing from the image and NULL columns hold field.Null.
type Row struct {
	Values  []field.Value
	Present Bitmap
	// Errs maps column index to the malformed-value error that replaced the
	// column with NULL. It is only populated with WithPartialRows.
	Errs map[int]error
}

// Missing reports whether column i was left out of the row image.
func (r Row) Missing(i int) bool {
	return !r.Present.IsSet(i)
}

// Partial reports whether some column could not be decoded.
func (r Row) Partial() bool {
	return len(r.Errs) > 0
}

func (t *Table) checkPresent(present Bitmap) (Bitmap, error) {
	if present == nil {
		return t.AllPresent(), nil
	}
	if len(present) < BitmapSize(len(t.columns)) {
		return nil, errors.Errorf("table %s: columns-present bitmap of %d bytes, want %d",
			t, len(present), BitmapSize(len(t.columns)))
	}
	return present, nil
}

// DecodeRow decodes the row image at the cursor: a null bitmap with one bit
// per present column, then the values of the present non-NULL columns in
// column order. A nil present bitmap means every column is present.
//
// On failure the cursor is moved back to the start of the row.
func (t *Table) DecodeRow(c *field.Cursor, present Bitmap) (Row, error) {
	present, err := t.checkPresent(present)
	if err != nil {
		return Row{}, err
	}
	start := c.Offset()
	row, err := t.decodeRow(c, present)
	if err != nil {
		c.Seek(start)
		t.logger.Debug("row aborted", zap.Int("offset", start), zap.Error(err))
		return Row{}, err
	}
	return row, nil
}

func (t *Table) decodeRow(c *field.Cursor, present Bitmap) (Row, error) {
	start := c.Offset()
	raw, err := c.Next(BitmapSize(present.Count(len(t.columns))))
	if err != nil {
		return Row{}, errors.Annotatef(err, "table %s: null bitmap at offset %d", t, start)
	}
	nulls := Bitmap(raw)

	row := Row{
		Values:  make([]field.Value, len(t.columns)),
		Present: present,
	}
	nullIndex := 0
	for i, d := range t.decoders {
		if !present.IsSet(i) {
			continue
		}
		isNull := nulls.IsSet(nullIndex)
		nullIndex++
		if isNull {
			continue
		}

		v, _, err := d.Unpack(c)
		if err == nil {
			row.Values[i] = v
			continue
		}
		var malformed *field.MalformedValueError
		if !t.partial || !errors.As(err, &malformed) {
			return Row{}, errors.Annotatef(err, "table %s: row at offset %d", t, start)
		}
		if row.Errs == nil {
			row.Errs = make(map[int]error)
		}
		row.Errs[i] = err
		t.logger.Warn("malformed column replaced with NULL",
			zap.Int("column", i),
			zap.String("name", d.Name()),
			zap.Int("offset", malformed.Offset),
			zap.Error(err))
	}
	return row, nil
}

// DecodeRows decodes consecutive row images until data is exhausted, as in
// the body of a write or delete rows event.
func (t *Table) DecodeRows(data []byte, present Bitmap) ([]Row, error) {
	c := field.NewCursor(data)
	var rows []Row
	for c.Len() > 0 {
		start := c.Offset()
		row, err := t.DecodeRow(c, present)
		if err != nil {
			return rows, errors.Trace(err)
		}
		if c.Offset() == start {
			return rows, errors.Errorf("table %s: no columns present, %d bytes left", t, c.Len())
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Update is the before and after image of one updated row.
type Update struct {
	Before Row
	After  Row
}

// DecodeUpdates decodes pairs of row images, as in the body of an update
// rows event, where before and after may list different columns.
func (t *Table) DecodeUpdates(data []byte, before, after Bitmap) ([]Update, error) {
	c := field.NewCursor(data)
	var updates []Update
	for c.Len() > 0 {
		start := c.Offset()
		b, err := t.DecodeRow(c, before)
		if err != nil {
			return updates, errors.Trace(err)
		}
		a, err := t.DecodeRow(c, after)
		if err != nil {
			c.Seek(start)
			return updates, errors.Annotate(err, "after image")
		}
		if c.Offset() == start {
			return updates, errors.Errorf("table %s: no columns present, %d bytes left", t, c.Len())
		}
		updates = append(updates, Update{Before: b, After: a})
	}
	return updates, nil
}
