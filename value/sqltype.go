package value

import (
	"strconv"
	"strings"
	"time"
)

// SQLType is the declared column type known from the query's type system.
// It selects the encode and decode behavior for a value.
type SQLType int

const (
	// TypeBool is stored as integer 0/1.
	TypeBool SQLType = iota + 1
	// TypeSmallInt, TypeInteger and TypeBigInt are 16, 32 and 64-bit integers.
	TypeSmallInt
	TypeInteger
	TypeBigInt
	// TypeFloat and TypeDouble are 32 and 64-bit floats.
	TypeFloat
	TypeDouble
	TypeText
	TypeBinary
	// TypeDate, TypeTime and TypeTimestamp are stored as text.
	TypeDate
	TypeTime
	TypeTimestamp
)

var sqlTypeNames = map[SQLType]string{
	TypeBool:      "Bool",
	TypeSmallInt:  "SmallInt",
	TypeInteger:   "Integer",
	TypeBigInt:    "BigInt",
	TypeFloat:     "Float",
	TypeDouble:    "Double",
	TypeText:      "Text",
	TypeBinary:    "Binary",
	TypeDate:      "Date",
	TypeTime:      "Time",
	TypeTimestamp: "Timestamp",
}

// String returns the SQL type name.
func (t SQLType) String() string {
	if name, ok := sqlTypeNames[t]; ok {
		return name
	}
	return "SQLType(" + strconv.Itoa(int(t)) + ")"
}

// Tag returns the wire tag values of this type are encoded with.
func (t SQLType) Tag() Tag {
	switch t {
	case TypeBool, TypeSmallInt, TypeInteger, TypeBigInt:
		return TagInteger
	case TypeFloat, TypeDouble:
		return TagDouble
	case TypeText, TypeDate, TypeTime, TypeTimestamp:
		return TagText
	case TypeBinary:
		return TagBlob
	default:
		return TagNull
	}
}

// Valid reports whether t is a known type.
func (t SQLType) Valid() bool {
	_, ok := sqlTypeNames[t]
	return ok
}

// ParseSQLType resolves a type name such as "bigint" or "TIMESTAMP".
func ParseSQLType(name string) (SQLType, bool) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "bool", "boolean":
		return TypeBool, true
	case "smallint", "int2":
		return TypeSmallInt, true
	case "integer", "int", "int4":
		return TypeInteger, true
	case "bigint", "int8":
		return TypeBigInt, true
	case "float", "real", "float4":
		return TypeFloat, true
	case "double", "float8":
		return TypeDouble, true
	case "text", "varchar":
		return TypeText, true
	case "binary", "blob", "bytea":
		return TypeBinary, true
	case "date":
		return TypeDate, true
	case "time":
		return TypeTime, true
	case "timestamp", "datetime":
		return TypeTimestamp, true
	}
	return 0, false
}

// Infer picks a declared type for an untyped Go value. Unknown kinds fall
// back to Text.
func Infer(v any) SQLType {
	switch x := v.(type) {
	case bool, *bool:
		return TypeBool
	case int16, *int16, int8, *int8, uint8, *uint8:
		return TypeSmallInt
	case int32, *int32, uint16, *uint16:
		return TypeInteger
	case int, *int, int64, *int64, uint32, *uint32, uint, *uint, uint64, *uint64:
		return TypeBigInt
	case float32, *float32:
		return TypeFloat
	case float64, *float64:
		return TypeDouble
	case []byte:
		return TypeBinary
	case time.Time, *time.Time:
		return TypeTimestamp
	case Value:
		switch x.Tag() {
		case TagInteger:
			return TypeBigInt
		case TagDouble:
			return TypeDouble
		case TagBlob:
			return TypeBinary
		}
		return TypeText
	default:
		return TypeText
	}
}
