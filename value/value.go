// Package value converts between typed Go column values and the dynamic
// scalars understood by the host binding.
package value

import (
	"fmt"
	"strconv"
)

// Tag identifies the wire representation of an encoded value. The host
// binding needs a different call shape per tag.
type Tag int

const (
	// TagNull is SQL NULL.
	TagNull Tag = iota
	// TagInteger is a 64-bit signed integer.
	TagInteger
	// TagDouble is a 64-bit float.
	TagDouble
	// TagText is a UTF-8 string.
	TagText
	// TagBlob is a byte sequence.
	TagBlob
)

// String returns the tag name.
func (t Tag) String() string {
	switch t {
	case TagNull:
		return "null"
	case TagInteger:
		return "integer"
	case TagDouble:
		return "double"
	case TagText:
		return "text"
	case TagBlob:
		return "blob"
	default:
		return "Tag(" + strconv.Itoa(int(t)) + ")"
	}
}

// Value is an encoded scalar. The zero Value is NULL.
type Value struct {
	tag Tag
	i   int64
	f   float64
	s   string
	b   []byte
}

// Null returns the NULL value.
func Null() Value { return Value{} }

// Integer returns an integer value.
func Integer(i int64) Value { return Value{tag: TagInteger, i: i} }

// Double returns a double value.
func Double(f float64) Value { return Value{tag: TagDouble, f: f} }

// Text returns a text value.
func Text(s string) Value { return Value{tag: TagText, s: s} }

// Blob returns a blob value. A nil slice is kept as an empty blob, not NULL.
func Blob(b []byte) Value {
	if b == nil {
		b = []byte{}
	}
	return Value{tag: TagBlob, b: b}
}

// Tag returns the declared wire tag.
func (v Value) Tag() Tag { return v.tag }

// IsNull reports whether v is NULL.
func (v Value) IsNull() bool { return v.tag == TagNull }

// Int64 returns the integer payload.
func (v Value) Int64() int64 { return v.i }

// Float64 returns the double payload.
func (v Value) Float64() float64 { return v.f }

// Str returns the text payload.
func (v Value) Str() string { return v.s }

// Bytes returns the blob payload.
func (v Value) Bytes() []byte { return v.b }

// Any returns the dynamic form handed to the host: nil, int64, float64,
// string or []byte.
func (v Value) Any() any {
	switch v.tag {
	case TagInteger:
		return v.i
	case TagDouble:
		return v.f
	case TagText:
		return v.s
	case TagBlob:
		return v.b
	default:
		return nil
	}
}

// String formats the value for logs.
func (v Value) String() string {
	switch v.tag {
	case TagNull:
		return "NULL"
	case TagInteger:
		return strconv.FormatInt(v.i, 10)
	case TagDouble:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TagText:
		return strconv.Quote(v.s)
	case TagBlob:
		return fmt.Sprintf("x'%x'", v.b)
	default:
		return v.tag.String()
	}
}
