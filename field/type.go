// Package field decodes single column values out of MySQL row-based binlog
// row images. A Decoder is built once per column from its type code and
// metadata and then reused for every row of the table.
package field

import (
	"strconv"

	"github.com/go-mysql-org/go-mysql/mysql"
)

// Type is a MySQL column type code as it appears in table-map events.
type Type byte

const (
	TypeDecimal    = Type(mysql.MYSQL_TYPE_DECIMAL)
	TypeTiny       = Type(mysql.MYSQL_TYPE_TINY)
	TypeShort      = Type(mysql.MYSQL_TYPE_SHORT)
	TypeLong       = Type(mysql.MYSQL_TYPE_LONG)
	TypeFloat      = Type(mysql.MYSQL_TYPE_FLOAT)
	TypeDouble     = Type(mysql.MYSQL_TYPE_DOUBLE)
	TypeNull       = Type(mysql.MYSQL_TYPE_NULL)
	TypeTimestamp  = Type(mysql.MYSQL_TYPE_TIMESTAMP)
	TypeLongLong   = Type(mysql.MYSQL_TYPE_LONGLONG)
	TypeInt24      = Type(mysql.MYSQL_TYPE_INT24)
	TypeDate       = Type(mysql.MYSQL_TYPE_DATE)
	TypeTime       = Type(mysql.MYSQL_TYPE_TIME)
	TypeDateTime   = Type(mysql.MYSQL_TYPE_DATETIME)
	TypeYear       = Type(mysql.MYSQL_TYPE_YEAR)
	TypeNewDate    = Type(mysql.MYSQL_TYPE_NEWDATE)
	TypeVarchar    = Type(mysql.MYSQL_TYPE_VARCHAR)
	TypeBit        = Type(mysql.MYSQL_TYPE_BIT)
	TypeTimestamp2 = Type(mysql.MYSQL_TYPE_TIMESTAMP2)
	TypeDateTime2  = Type(mysql.MYSQL_TYPE_DATETIME2)
	TypeTime2      = Type(mysql.MYSQL_TYPE_TIME2)
	TypeJSON       = Type(mysql.MYSQL_TYPE_JSON)
	TypeNewDecimal = Type(mysql.MYSQL_TYPE_NEWDECIMAL)
	TypeEnum       = Type(mysql.MYSQL_TYPE_ENUM)
	TypeSet        = Type(mysql.MYSQL_TYPE_SET)
	TypeTinyBlob   = Type(mysql.MYSQL_TYPE_TINY_BLOB)
	TypeMediumBlob = Type(mysql.MYSQL_TYPE_MEDIUM_BLOB)
	TypeLongBlob   = Type(mysql.MYSQL_TYPE_LONG_BLOB)
	TypeBlob       = Type(mysql.MYSQL_TYPE_BLOB)
	TypeVarString  = Type(mysql.MYSQL_TYPE_VAR_STRING)
	TypeString     = Type(mysql.MYSQL_TYPE_STRING)
	TypeGeometry   = Type(mysql.MYSQL_TYPE_GEOMETRY)
)

var typeNames = map[Type]string{
	TypeDecimal:    "decimal",
	TypeTiny:       "tiny",
	TypeShort:      "short",
	TypeLong:       "long",
	TypeFloat:      "float",
	TypeDouble:     "double",
	TypeNull:       "null",
	TypeTimestamp:  "timestamp",
	TypeLongLong:   "longlong",
	TypeInt24:      "int24",
	TypeDate:       "date",
	TypeTime:       "time",
	TypeDateTime:   "datetime",
	TypeYear:       "year",
	TypeNewDate:    "newdate",
	TypeVarchar:    "varchar",
	TypeBit:        "bit",
	TypeTimestamp2: "timestamp2",
	TypeDateTime2:  "datetime2",
	TypeTime2:      "time2",
	TypeJSON:       "json",
	TypeNewDecimal: "newdecimal",
	TypeEnum:       "enum",
	TypeSet:        "set",
	TypeTinyBlob:   "tiny_blob",
	TypeMediumBlob: "medium_blob",
	TypeLongBlob:   "long_blob",
	TypeBlob:       "blob",
	TypeVarString:  "var_string",
	TypeString:     "string",
	TypeGeometry:   "geometry",
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// ParseType resolves a lower-case type name as returned by Type.String.
func ParseType(name string) (Type, bool) {
	for t, s := range typeNames {
		if s == name {
			return t, true
		}
	}
	return 0, false
}
