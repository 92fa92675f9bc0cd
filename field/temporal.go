package field

import (
	"fmt"
	"time"
)

// FracBytes returns how many bytes the new temporal formats spend on
// fractional seconds of the given precision.
func FracBytes(fsp int) int {
	return (fsp + 1) / 2
}

const (
	datetimeIntOfs = 0x8000000000
	timeIntOfs     = 0x800000
	timeOfs        = 0x800000000000
)

// readFrac converts the trailing fractional-seconds bytes to microseconds.
func readFrac(b []byte, fsp int) int64 {
	switch fsp {
	case 1, 2:
		return int64(b[0]) * 10000
	case 3, 4:
		return int64(uintBE(b[:2])) * 100
	case 5, 6:
		return int64(uintBE(b[:3]))
	}
	return 0
}

func fracText(usec int64, fsp int) string {
	if fsp <= 0 {
		return ""
	}
	return fmt.Sprintf(".%06d", usec)[:fsp+1]
}

func zeroDatetime(fsp int) string {
	return "0000-00-00 00:00:00" + fracText(0, fsp)
}

type calendar struct {
	year, month, day, hour, minute, second int
}

func (t calendar) check() string {
	switch {
	case t.month > 12:
		return fmt.Sprintf("month %d out of range", t.month)
	case t.day > 31:
		return fmt.Sprintf("day %d out of range", t.day)
	case t.hour > 23:
		return fmt.Sprintf("hour %d out of range", t.hour)
	case t.minute > 59 || t.second > 59:
		return fmt.Sprintf("minute/second %d:%d out of range", t.minute, t.second)
	}
	return ""
}

func (t calendar) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d",
		t.year, t.month, t.day, t.hour, t.minute, t.second)
}

// timestamp decodes TIMESTAMP. The old format is a little-endian uint32 of
// unix seconds; the new one is big-endian followed by fractional bytes.
type timestamp struct {
	base
	storage Storage
	fsp     int
}

func (d *timestamp) Unpack(c *Cursor) (Value, int, error) {
	data, _, err := d.take(c)
	if err != nil {
		return Null, 0, err
	}
	var sec int64
	var usec int64
	if d.storage == OldStorage {
		sec = int64(uintLE(data))
	} else {
		sec = int64(uintBE(data[:4]))
		usec = readFrac(data[4:], d.fsp)
	}
	if sec == 0 {
		return timestampValue(zeroDatetime(d.fsp), 0, uint64(usec)), d.packLength, nil
	}
	s := time.Unix(sec, 0).UTC().Format("2006-01-02 15:04:05") + fracText(usec, d.fsp)
	return timestampValue(s, sec, uint64(usec)), d.packLength, nil
}

// datetime decodes DATETIME. The old format is a little-endian uint64
// spelling YYYYMMDDhhmmss in decimal. The new format is 5 big-endian bytes
// biased by 0x8000000000:
//
//	1 bit sign, 17 bits year*13+month, 5 bits day,
//	5 bits hour, 6 bits minute, 6 bits second
//
// followed by fractional bytes.
type datetime struct {
	base
	storage Storage
	fsp     int
}

func (d *datetime) Unpack(c *Cursor) (Value, int, error) {
	data, start, err := d.take(c)
	if err != nil {
		return Null, 0, err
	}
	n := d.packLength
	var t calendar
	var usec int64
	if d.storage == OldStorage {
		v := uintLE(data)
		if v == 0 {
			return TemporalValue(zeroDatetime(0)), n, nil
		}
		ymd, hms := v/1000000, v%1000000
		t = calendar{
			year: int(ymd / 10000), month: int(ymd % 10000 / 100), day: int(ymd % 100),
			hour: int(hms / 10000), minute: int(hms % 10000 / 100), second: int(hms % 100),
		}
	} else {
		packed := int64(uintBE(data[:5])) - datetimeIntOfs
		usec = readFrac(data[5:], d.fsp)
		if packed < 0 {
			return Null, n, d.malformed(start, "negative datetime")
		}
		if packed == 0 {
			return TemporalValue(zeroDatetime(d.fsp)), n, nil
		}
		ymd, hms := packed>>17, packed&(1<<17-1)
		ym := ymd >> 5
		t = calendar{
			year: int(ym / 13), month: int(ym % 13), day: int(ymd & 31),
			hour: int(hms >> 12), minute: int(hms >> 6 & 63), second: int(hms & 63),
		}
	}
	if reason := t.check(); reason != "" {
		return Null, n, d.malformed(start, reason)
	}
	return TemporalValue(t.String() + fracText(usec, d.fsp)), n, nil
}

// timeField decodes TIME. The old format is a signed 3-byte little-endian
// integer spelling HHMMSS. The new format is 3 big-endian bytes biased by
// 0x800000 (1 bit sign, 1 unused, 10 bits hour, 6 minute, 6 second)
// followed by fractional bytes.
type timeField struct {
	base
	storage Storage
	fsp     int
}

func (d *timeField) Unpack(c *Cursor) (Value, int, error) {
	data, start, err := d.take(c)
	if err != nil {
		return Null, 0, err
	}
	n := d.packLength
	if d.storage == OldStorage {
		v := int64(int24(data))
		sign := ""
		if v < 0 {
			sign, v = "-", -v
		}
		h, m, s := v/10000, v%10000/100, v%100
		if m > 59 || s > 59 {
			return Null, n, d.malformed(start, fmt.Sprintf("minute/second %d:%d out of range", m, s))
		}
		return TemporalValue(fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s)), n, nil
	}

	packed := timePacked(data, d.fsp)
	sign := ""
	if packed < 0 {
		sign, packed = "-", -packed
	}
	hms := packed >> 24
	usec := packed % (1 << 24)
	h, m, s := hms>>12%(1<<10), hms>>6%(1<<6), hms%(1<<6)
	if m > 59 || s > 59 || usec > 999999 {
		return Null, n, d.malformed(start, fmt.Sprintf("time %d:%d:%d.%d out of range", h, m, s, usec))
	}
	return TemporalValue(fmt.Sprintf("%s%02d:%02d:%02d", sign, h, m, s) + fracText(usec, d.fsp)), n, nil
}

// timePacked rebuilds MySQL's in-memory packed TIME (hms<<24 | usec, signed)
// from its binary form. Negative values keep their fractional part in
// reverse order so that the bytes sort correctly.
func timePacked(b []byte, fsp int) int64 {
	switch fsp {
	case 1, 2:
		intPart := int64(uintBE(b[:3])) - timeIntOfs
		frac := int64(b[3])
		if intPart < 0 && frac != 0 {
			intPart++
			frac -= 0x100
		}
		return intPart<<24 + frac*10000
	case 3, 4:
		intPart := int64(uintBE(b[:3])) - timeIntOfs
		frac := int64(uintBE(b[3:5]))
		if intPart < 0 && frac != 0 {
			intPart++
			frac -= 0x10000
		}
		return intPart<<24 + frac*100
	case 5, 6:
		return int64(uintBE(b[:6])) - timeOfs
	}
	return (int64(uintBE(b[:3])) - timeIntOfs) << 24
}

// date decodes DATE: 3 little-endian bytes, year<<9 | month<<5 | day.
type date struct{ base }

func (d *date) Unpack(c *Cursor) (Value, int, error) {
	data, start, err := d.take(c)
	if err != nil {
		return Null, 0, err
	}
	v := uintLE(data)
	day, month, year := v&31, v>>5&15, v>>9
	if month > 12 {
		return Null, 3, d.malformed(start, fmt.Sprintf("month %d out of range", month))
	}
	return TemporalValue(fmt.Sprintf("%04d-%02d-%02d", year, month, day)), 3, nil
}
