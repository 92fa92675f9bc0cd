package field

import "fmt"

// Cursor is a read position into one row image. Reads never go past the
// end of the buffer and never advance on failure.
type Cursor struct {
	buf []byte
	off int
}

func NewCursor(buf []byte) *Cursor {
	return &Cursor{buf: buf}
}

// Offset returns the position of the next unread byte.
func (c *Cursor) Offset() int {
	return c.off
}

// Len returns the number of unread bytes.
func (c *Cursor) Len() int {
	return len(c.buf) - c.off
}

// Seek moves the cursor to an absolute offset. An offset outside the buffer
// is an error and leaves the cursor where it was.
func (c *Cursor) Seek(off int) error {
	if off < 0 || off > len(c.buf) {
		return fmt.Errorf("field: seek to %d outside %d byte buffer", off, len(c.buf))
	}
	c.off = off
	return nil
}

func (c *Cursor) underrun(name string, n int) *BufferUnderrunError {
	return &BufferUnderrunError{Field: name, Offset: c.off, Need: n, Have: c.Len()}
}

// peek returns the next n bytes without consuming them.
func (c *Cursor) peek(name string, n int) ([]byte, error) {
	if n < 0 || n > c.Len() {
		return nil, c.underrun(name, n)
	}
	return c.buf[c.off : c.off+n], nil
}

// take consumes the next n bytes. The returned slice aliases the buffer.
func (c *Cursor) take(name string, n int) ([]byte, error) {
	b, err := c.peek(name, n)
	if err != nil {
		return nil, err
	}
	c.off += n
	return b, nil
}

// Next consumes n raw bytes, for callers that walk the row image around the
// column values (null bitmaps and the like).
func (c *Cursor) Next(n int) ([]byte, error) {
	return c.take("", n)
}

func uintLE(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}

func uintBE(b []byte) uint64 {
	var v uint64
	for _, x := range b {
		v = v<<8 | uint64(x)
	}
	return v
}
