package field

import (
	"fmt"
	"math"
	"sort"
)

type constructor func(name string, t Type, m Meta) (Decoder, error)

var registry = map[Type]constructor{
	TypeNull: func(name string, t Type, m Meta) (Decoder, error) {
		return &null{base{name: name, typ: "null", fixed: true, meta: m}}, nil
	},

	TypeTiny:     newInteger("tinyint", 1),
	TypeShort:    newInteger("smallint", 2),
	TypeInt24:    newInteger("mediumint", 3),
	TypeLong:     newInteger("int", 4),
	TypeLongLong: newInteger("bigint", 8),
	TypeYear: func(name string, t Type, m Meta) (Decoder, error) {
		return &year{base{name: name, typ: "year", packLength: 1, fixed: true, meta: m}}, nil
	},

	TypeFloat:  newFloat("float", 4),
	TypeDouble: newFloat("double", 8),

	TypeDecimal:    newDecimal,
	TypeNewDecimal: newDecimal,

	TypeTimestamp:  newTimestamp,
	TypeTimestamp2: newTimestamp,
	TypeDateTime:   newDatetime,
	TypeDateTime2:  newDatetime,
	TypeTime:       newTime,
	TypeTime2:      newTime,
	TypeDate:       newDate,
	TypeNewDate:    newDate,

	TypeVarchar:   newVarString("varchar"),
	TypeVarString: newVarString("varchar"),
	TypeString:    newString,

	TypeTinyBlob:   newBlob("tinyblob", 1),
	TypeBlob:       newBlob("blob", 0),
	TypeMediumBlob: newBlob("mediumblob", 3),
	TypeLongBlob:   newBlob("longblob", 4),
	TypeJSON:       newBlob("json", 4),
	TypeGeometry:   newBlob("geometry", 4),

	TypeEnum: newEnum,
	TypeSet:  newSet,
	TypeBit:  newBit,
}

// New builds the decoder for column name of type t. It is the only place
// unknown type codes are detected.
func New(name string, t Type, m Meta) (Decoder, error) {
	ctor, ok := registry[t]
	if !ok {
		return nil, &UnsupportedTypeError{Field: name, Type: t}
	}
	return ctor(name, t, m)
}

// Supported lists every type code New accepts, in ascending order.
func Supported() []Type {
	types := make([]Type, 0, len(registry))
	for t := range registry {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func invalid(name string, t Type, format string, args ...any) error {
	return &InvalidMetaError{Field: name, Type: t, Reason: fmt.Sprintf(format, args...)}
}

func newInteger(typ string, size int) constructor {
	return func(name string, t Type, m Meta) (Decoder, error) {
		return &integer{
			base:     base{name: name, typ: typ, packLength: size, fixed: true, meta: m},
			unsigned: m.Unsigned,
		}, nil
	}
}

func newFloat(typ string, size int) constructor {
	return func(name string, t Type, m Meta) (Decoder, error) {
		return &float{base{name: name, typ: typ, packLength: size, fixed: true, meta: m}}, nil
	}
}

const (
	maxDecimalPrecision = 65
	maxDecimalScale     = 30
)

func newDecimal(name string, t Type, m Meta) (Decoder, error) {
	switch {
	case m.Precision < 1 || m.Precision > maxDecimalPrecision:
		return nil, invalid(name, t, "precision %d not in 1..%d", m.Precision, maxDecimalPrecision)
	case m.Scale < 0 || m.Scale > maxDecimalScale:
		return nil, invalid(name, t, "scale %d not in 0..%d", m.Scale, maxDecimalScale)
	case m.Scale > m.Precision:
		return nil, invalid(name, t, "scale %d exceeds precision %d", m.Scale, m.Precision)
	}
	return &decimalField{
		base: base{
			name:       name,
			typ:        "decimal",
			packLength: decimalBinSize(m.Precision, m.Scale),
			fixed:      true,
			meta:       m,
		},
		precision: m.Precision,
		scale:     m.Scale,
	}, nil
}

// temporalStorage resolves which encoding a temporal column uses. The
// "2" type codes only exist in the new format; the legacy codes follow
// the metadata and default to the old format.
func temporalStorage(name string, t Type, m Meta) (Storage, error) {
	switch t {
	case TypeTimestamp2, TypeDateTime2, TypeTime2:
		if m.Storage == OldStorage {
			return 0, invalid(name, t, "old storage requested for a new-format type")
		}
		return NewStorage, nil
	}
	if m.Storage == NewStorage {
		return NewStorage, nil
	}
	return OldStorage, nil
}

func temporalBase(name string, t Type, m Meta, typ string, oldSize, newSize int) (base, Storage, error) {
	s, err := temporalStorage(name, t, m)
	if err != nil {
		return base{}, 0, err
	}
	b := base{name: name, typ: typ, fixed: true, meta: m}
	if s == OldStorage {
		b.packLength = oldSize
		return b, s, nil
	}
	if m.FSP < 0 || m.FSP > 6 {
		return base{}, 0, invalid(name, t, "fractional seconds precision %d not in 0..6", m.FSP)
	}
	b.packLength = newSize + FracBytes(m.FSP)
	return b, s, nil
}

func newTimestamp(name string, t Type, m Meta) (Decoder, error) {
	b, s, err := temporalBase(name, t, m, "timestamp", 4, 4)
	if err != nil {
		return nil, err
	}
	return &timestamp{base: b, storage: s, fsp: fspFor(s, m)}, nil
}

func newDatetime(name string, t Type, m Meta) (Decoder, error) {
	b, s, err := temporalBase(name, t, m, "datetime", 8, 5)
	if err != nil {
		return nil, err
	}
	return &datetime{base: b, storage: s, fsp: fspFor(s, m)}, nil
}

func newTime(name string, t Type, m Meta) (Decoder, error) {
	b, s, err := temporalBase(name, t, m, "time", 3, 3)
	if err != nil {
		return nil, err
	}
	return &timeField{base: b, storage: s, fsp: fspFor(s, m)}, nil
}

// fspFor drops the precision of old-format columns, which cannot store it.
func fspFor(s Storage, m Meta) int {
	if s == OldStorage {
		return 0
	}
	return m.FSP
}

func newDate(name string, t Type, m Meta) (Decoder, error) {
	return &date{base{name: name, typ: "date", packLength: 3, fixed: true, meta: m}}, nil
}

// varStringPrefix is 1 when every value of a column of byteLength bytes
// fits a one-byte length, else 2.
func varStringPrefix(byteLength int) int {
	if byteLength < 256 {
		return 1
	}
	return 2
}

func newVarString(typ string) constructor {
	return func(name string, t Type, m Meta) (Decoder, error) {
		if m.Length < 0 {
			return nil, invalid(name, t, "negative length %d", m.Length)
		}
		byteLength := m.Length * m.Collation.maxLen()
		if byteLength > 0xFFFF {
			return nil, invalid(name, t, "length %d bytes exceeds 65535", byteLength)
		}
		prefix := varStringPrefix(byteLength)
		return &varString{
			base:        base{name: name, typ: typ, packLength: byteLength + prefix, meta: m},
			prefixWidth: prefix,
			collation:   m.Collation,
		}, nil
	}
}

// newString handles CHAR. Row images length-prefix it like VARCHAR; with
// OldStorage it is read at its full declared width instead.
func newString(name string, t Type, m Meta) (Decoder, error) {
	if m.Storage != OldStorage {
		return newVarString("char")(name, t, m)
	}
	if m.Length < 0 || m.Length > 255 {
		return nil, invalid(name, t, "length %d not in 0..255", m.Length)
	}
	return &fixedString{
		base:      base{name: name, typ: "char", packLength: m.Length * m.Collation.maxLen(), fixed: true, meta: m},
		collation: m.Collation,
	}, nil
}

// blobBound is the largest payload a prefix of w bytes can announce,
// capped to what an int can hold everywhere.
func blobBound(w int) int {
	return int(min(uint64(1)<<(8*uint(w))-1, math.MaxInt32-4))
}

// newBlob builds a blob decoder with a fixed prefix width; width 0 takes it
// from Meta.LengthBytes, defaulting to 2.
func newBlob(typ string, width int) constructor {
	return func(name string, t Type, m Meta) (Decoder, error) {
		w, tag := width, typ
		if w == 0 {
			w = m.LengthBytes
			if w == 0 {
				w = 2
			}
			if w < 1 || w > 4 {
				return nil, invalid(name, t, "length prefix of %d bytes not in 1..4", w)
			}
			tag = blobTypes[w]
		}
		return &blob{
			base:        base{name: name, typ: tag, packLength: w + blobBound(w), meta: m},
			prefixWidth: w,
			collation:   m.Collation,
		}, nil
	}
}

var blobTypes = [5]string{"", "tinyblob", "blob", "mediumblob", "longblob"}

func newEnum(name string, t Type, m Meta) (Decoder, error) {
	if m.Elements < 0 || m.Elements > 65535 {
		return nil, invalid(name, t, "element count %d not in 0..65535", m.Elements)
	}
	return &enum{
		base:     base{name: name, typ: "enum", packLength: enumPackLength(m.Elements), fixed: true, meta: m},
		elements: m.Elements,
	}, nil
}

func newSet(name string, t Type, m Meta) (Decoder, error) {
	if m.Elements < 1 || m.Elements > 64 {
		return nil, invalid(name, t, "element count %d not in 1..64", m.Elements)
	}
	return &set{
		base:     base{name: name, typ: "set", packLength: setPackLength(m.Elements), fixed: true, meta: m},
		elements: m.Elements,
	}, nil
}

func newBit(name string, t Type, m Meta) (Decoder, error) {
	if m.Bits < 1 || m.Bits > 64 {
		return nil, invalid(name, t, "bit width %d not in 1..64", m.Bits)
	}
	return &bit{
		base: base{name: name, typ: "bit", packLength: (m.Bits + 7) / 8, fixed: true, meta: m},
		bits: m.Bits,
	}, nil
}
