package table

// Bitmap is a little-endian bit array as found in rows events: bit i of
// byte i/8 stands for column i.
type Bitmap []byte

// BitmapSize returns the number of bytes a bitmap of n bits occupies.
func BitmapSize(n int) int {
	return (n + 7) / 8
}

// NewBitmap returns a bitmap of n bits, all set.
func NewBitmap(n int) Bitmap {
	b := make(Bitmap, BitmapSize(n))
	for i := 0; i < n; i++ {
		b.Set(i)
	}
	return b
}

// IsSet reports whether bit i is set. Bits past the end are clear.
func (b Bitmap) IsSet(i int) bool {
	if i < 0 || i>>3 >= len(b) {
		return false
	}
	return b[i>>3]&(1<<(uint(i)&7)) != 0
}

func (b Bitmap) Set(i int) {
	b[i>>3] |= 1 << (uint(i) & 7)
}

func (b Bitmap) Clear(i int) {
	b[i>>3] &^= 1 << (uint(i) & 7)
}

// Count returns how many of the first n bits are set.
func (b Bitmap) Count(n int) int {
	count := 0
	for i := 0; i < n; i++ {
		if b.IsSet(i) {
			count++
		}
	}
	return count
}
