package main

import (
	"strconv"
	"strings"

	"github.com/juju/errors"

	"github.com/go-data-exporter/binlogrow/field"
)

// Legacy type codes for temporal columns written with the old packing.
var legacyTemporal = map[field.Type]field.Type{
	field.TypeTimestamp2: field.TypeTimestamp,
	field.TypeDateTime2:  field.TypeDateTime,
	field.TypeTime2:      field.TypeTime,
}

var blobDefinitions = map[string]field.Type{
	"tinyblob":   field.TypeTinyBlob,
	"tinytext":   field.TypeTinyBlob,
	"blob":       field.TypeBlob,
	"text":       field.TypeBlob,
	"mediumblob": field.TypeMediumBlob,
	"mediumtext": field.TypeMediumBlob,
	"longblob":   field.TypeLongBlob,
	"longtext":   field.TypeLongBlob,
}

var integerDefinitions = map[string]field.Type{
	"tinyint":   field.TypeTiny,
	"bool":      field.TypeTiny,
	"boolean":   field.TypeTiny,
	"smallint":  field.TypeShort,
	"mediumint": field.TypeInt24,
	"int":       field.TypeLong,
	"integer":   field.TypeLong,
	"bigint":    field.TypeLongLong,
}

var geometryDefinitions = map[string]bool{
	"geometry":           true,
	"point":              true,
	"linestring":         true,
	"polygon":            true,
	"multipoint":         true,
	"multilinestring":    true,
	"multipolygon":       true,
	"geometrycollection": true,
}

// parseDefinition reads a column type as MySQL prints it in
// information_schema.COLUMNS.COLUMN_TYPE, e.g. "varchar(100)",
// "decimal(10,2)", "int(11) unsigned" or "enum('a','b')". Temporal types
// map to their 5.6.4+ codes.
func parseDefinition(def string) (field.Type, field.Meta, error) {
	var m field.Meta
	s := strings.ToLower(strings.TrimSpace(def))
	name, args, rest := s, "", ""
	hasArgs := false
	if i := strings.IndexByte(s, '('); i >= 0 {
		j := closingParen(s, i)
		if j < 0 {
			return 0, m, errors.NotValidf("definition %q", def)
		}
		name, args, rest, hasArgs = strings.TrimSpace(s[:i]), s[i+1:j], s[j+1:], true
	} else if i := strings.IndexByte(s, ' '); i >= 0 {
		name, rest = s[:i], s[i:]
	}
	for _, attr := range strings.Fields(rest) {
		switch attr {
		case "unsigned":
			m.Unsigned = true
		case "signed", "zerofill", "precision":
		default:
			return 0, m, errors.NotValidf("definition %q attribute %q", def, attr)
		}
	}

	// ints reads the numeric arguments, n of them at most.
	ints := func(n int) ([]int, error) {
		if !hasArgs {
			return nil, nil
		}
		parts := strings.Split(args, ",")
		if len(parts) > n {
			return nil, errors.NotValidf("definition %q arguments", def)
		}
		out := make([]int, len(parts))
		for i, p := range parts {
			v, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return nil, errors.NotValidf("definition %q argument %q", def, p)
			}
			out[i] = v
		}
		return out, nil
	}
	arg := func(dflt int) (int, error) {
		v, err := ints(1)
		if err != nil || len(v) == 0 {
			return dflt, err
		}
		return v[0], nil
	}

	if typ, ok := integerDefinitions[name]; ok {
		// The display width does not change the storage.
		_, err := ints(1)
		return typ, m, err
	}
	if typ, ok := blobDefinitions[name]; ok {
		if strings.HasSuffix(name, "blob") {
			m.Collation.ID = field.BinaryCollationID
		}
		_, err := ints(1)
		return typ, m, err
	}
	if geometryDefinitions[name] {
		return field.TypeGeometry, m, nil
	}

	var err error
	switch name {
	case "float":
		// FLOAT(p) with p > 24 is stored as DOUBLE.
		var v []int
		if v, err = ints(2); err == nil && len(v) == 1 && v[0] > 24 {
			return field.TypeDouble, m, nil
		}
		return field.TypeFloat, m, err
	case "double", "real":
		_, err = ints(2)
		return field.TypeDouble, m, err
	case "decimal", "numeric", "dec", "fixed":
		m.Precision, m.Scale = 10, 0
		var v []int
		if v, err = ints(2); err == nil && len(v) > 0 {
			m.Precision = v[0]
			if len(v) > 1 {
				m.Scale = v[1]
			}
		}
		return field.TypeNewDecimal, m, err
	case "year":
		_, err = ints(1)
		return field.TypeYear, m, err
	case "date":
		return field.TypeDate, m, nil
	case "datetime":
		m.FSP, err = arg(0)
		return field.TypeDateTime2, m, err
	case "timestamp":
		m.FSP, err = arg(0)
		return field.TypeTimestamp2, m, err
	case "time":
		m.FSP, err = arg(0)
		return field.TypeTime2, m, err
	case "char", "binary":
		m.Length, err = arg(1)
		if name == "binary" {
			m.Collation.ID = field.BinaryCollationID
		}
		return field.TypeString, m, err
	case "varchar", "varbinary":
		if !hasArgs {
			return 0, m, errors.NotValidf("definition %q without length", def)
		}
		m.Length, err = arg(0)
		if name == "varbinary" {
			m.Collation.ID = field.BinaryCollationID
		}
		return field.TypeVarchar, m, err
	case "json":
		return field.TypeJSON, m, nil
	case "enum", "set":
		if m.Elements, err = countElements(args); err != nil {
			return 0, m, err
		}
		if name == "set" {
			return field.TypeSet, m, nil
		}
		return field.TypeEnum, m, nil
	case "bit":
		m.Bits, err = arg(1)
		return field.TypeBit, m, err
	}
	return 0, m, errors.NotValidf("definition %q", def)
}

// closingParen returns the index of the ')' matching the '(' at open,
// skipping quoted ENUM and SET values, or -1.
func closingParen(s string, open int) int {
	inQuote := false
	for i := open + 1; i < len(s); i++ {
		switch ch := s[i]; {
		case inQuote && ch == '\\':
			i++
		case ch == '\'':
			inQuote = !inQuote
		case !inQuote && ch == ')':
			return i
		}
	}
	return -1
}

// countElements counts the quoted values of an ENUM or SET value list.
// Quotes inside a value are doubled or backslash escaped.
func countElements(list string) (int, error) {
	n, inQuote := 0, false
	for i := 0; i < len(list); i++ {
		ch := list[i]
		switch {
		case inQuote && ch == '\\':
			i++
		case inQuote && ch == '\'' && i+1 < len(list) && list[i+1] == '\'':
			i++
		case ch == '\'':
			if !inQuote {
				n++
			}
			inQuote = !inQuote
		case !inQuote && ch != ',' && ch != ' ':
			return 0, errors.NotValidf("value list %q", list)
		}
	}
	if inQuote || n == 0 {
		return 0, errors.NotValidf("value list %q", list)
	}
	return n, nil
}
