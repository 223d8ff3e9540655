package value

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"
)

var (
	errWrongKind   = errors.New("wrong Go type for column")
	errOutOfRange  = errors.New("out of range")
	errNotFinite   = errors.New("NaN and infinite floats have no host representation")
	errTagMismatch = errors.New("encoded tag does not match column")
)

// Encode converts a Go value declared as t into its wire Value.
//
// nil, nil pointers and NULL Values encode as NULL. Pointers are followed
// and driver.Valuer implementations are resolved first.
func Encode(t SQLType, v any) (Value, error) {
	v, err := resolve(v)
	if err != nil {
		return Value{}, &EncodeError{Type: t, Value: v, Cause: err}
	}
	if v == nil {
		return Null(), nil
	}
	if val, ok := v.(Value); ok {
		if val.IsNull() || val.Tag() == t.Tag() {
			return val, nil
		}
		return Value{}, &EncodeError{Type: t, Value: v, Cause: errTagMismatch}
	}

	switch t {
	case TypeBool:
		b, ok := v.(bool)
		if !ok {
			return Value{}, &EncodeError{Type: t, Value: v, Cause: errWrongKind}
		}
		if b {
			return Integer(1), nil
		}
		return Integer(0), nil

	case TypeSmallInt:
		return encodeInt(t, v, math.MinInt16, math.MaxInt16)
	case TypeInteger:
		return encodeInt(t, v, math.MinInt32, math.MaxInt32)
	case TypeBigInt:
		return encodeInt(t, v, math.MinInt64, math.MaxInt64)

	case TypeFloat, TypeDouble:
		f, ok := toFloat64(v)
		if !ok {
			return Value{}, &EncodeError{Type: t, Value: v, Cause: errWrongKind}
		}
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return Value{}, &EncodeError{Type: t, Value: v, Cause: errNotFinite}
		}
		if t == TypeFloat && math.Abs(f) > math.MaxFloat32 {
			return Value{}, &EncodeError{Type: t, Value: v, Cause: errOutOfRange}
		}
		return Double(f), nil

	case TypeText:
		s, ok := v.(string)
		if !ok {
			return Value{}, &EncodeError{Type: t, Value: v, Cause: errWrongKind}
		}
		return Text(s), nil

	case TypeBinary:
		b, ok := v.([]byte)
		if !ok {
			return Value{}, &EncodeError{Type: t, Value: v, Cause: errWrongKind}
		}
		return Blob(b), nil

	case TypeDate, TypeTime, TypeTimestamp:
		switch x := v.(type) {
		case string:
			return Text(x), nil
		case time.Time:
			switch t {
			case TypeDate:
				return Text(FormatDate(x)), nil
			case TypeTime:
				return Text(FormatTime(x)), nil
			default:
				return Text(FormatTimestamp(x)), nil
			}
		}
		return Value{}, &EncodeError{Type: t, Value: v, Cause: errWrongKind}
	}

	return Value{}, &EncodeError{Type: t, Value: v, Cause: fmt.Errorf("unknown column type %d", int(t))}
}

// Decode converts a dynamic host value into the Go value for t: bool,
// int16, int32, int64, float32, float64, string, []byte or time.Time.
// A nil host value decodes to nil.
func Decode(t SQLType, raw any) (any, error) {
	if raw == nil {
		return nil, nil
	}
	switch t {
	case TypeBool:
		return DecodeBool(raw)
	case TypeSmallInt:
		return DecodeInt16(raw)
	case TypeInteger:
		return DecodeInt32(raw)
	case TypeBigInt:
		return DecodeInt64(raw)
	case TypeFloat:
		return DecodeFloat32(raw)
	case TypeDouble:
		return DecodeFloat64(raw)
	case TypeText:
		return DecodeText(raw)
	case TypeBinary:
		return DecodeBlob(raw)
	case TypeDate:
		return DecodeDate(raw)
	case TypeTime:
		return DecodeTime(raw)
	case TypeTimestamp:
		return DecodeTimestamp(raw)
	}
	return nil, &DecodeError{Type: t, Raw: raw, Cause: fmt.Errorf("unknown column type %d", int(t))}
}

// DecodeBool reads a boolean stored as 0/1. Any other number means the
// column does not hold booleans at all, and DecodeBool panics with a
// *ContractViolation rather than returning an error.
func DecodeBool(raw any) (bool, error) {
	if raw == nil {
		return false, nullError(TypeBool)
	}
	if b, ok := raw.(bool); ok {
		return b, nil
	}
	f, ok := readNumber(raw)
	if !ok {
		return false, &DecodeError{Type: TypeBool, Raw: raw}
	}
	if f != 0 && f != 1 {
		panic(&ContractViolation{Type: TypeBool, Raw: raw})
	}
	return f == 1, nil
}

// DecodeInt16 narrows a host number to int16, saturating at the bounds.
func DecodeInt16(raw any) (int16, error) {
	n, err := decodeInt(TypeSmallInt, raw, math.MinInt16, math.MaxInt16)
	return int16(n), err
}

// DecodeInt32 narrows a host number to int32, saturating at the bounds.
func DecodeInt32(raw any) (int32, error) {
	n, err := decodeInt(TypeInteger, raw, math.MinInt32, math.MaxInt32)
	return int32(n), err
}

// DecodeInt64 reads a host number as int64. Hosts that only carry float64
// lose precision beyond 2^53; that loss is not corrected.
func DecodeInt64(raw any) (int64, error) {
	return decodeInt(TypeBigInt, raw, math.MinInt64, math.MaxInt64)
}

// DecodeFloat32 reads a host number as float32.
func DecodeFloat32(raw any) (float32, error) {
	f, err := DecodeFloat64(raw)
	if err != nil {
		if de, ok := err.(*DecodeError); ok {
			de.Type = TypeFloat
		}
		return 0, err
	}
	return float32(f), nil
}

// DecodeFloat64 reads a host number as float64.
func DecodeFloat64(raw any) (float64, error) {
	if raw == nil {
		return 0, nullError(TypeDouble)
	}
	f, ok := readNumber(raw)
	if !ok {
		return 0, &DecodeError{Type: TypeDouble, Raw: raw}
	}
	return f, nil
}

// DecodeText reads a host string.
func DecodeText(raw any) (string, error) {
	return readString(TypeText, raw)
}

// DecodeBlob reads a byte-array-shaped host value. JSON hosts deliver blobs
// as arrays of numbers, which are accepted when every element is a byte.
func DecodeBlob(raw any) ([]byte, error) {
	switch x := raw.(type) {
	case nil:
		return nil, nullError(TypeBinary)
	case []byte:
		return x, nil
	case []any:
		out := make([]byte, len(x))
		for i, el := range x {
			f, ok := readNumber(el)
			if !ok || f < 0 || f > 255 || f != math.Trunc(f) {
				return nil, &DecodeError{Type: TypeBinary, Raw: raw, Cause: fmt.Errorf("element %d is not a byte", i)}
			}
			out[i] = byte(f)
		}
		return out, nil
	}
	return nil, &DecodeError{Type: TypeBinary, Raw: raw}
}

// DecodeDate reads a YYYY-MM-DD date.
func DecodeDate(raw any) (time.Time, error) {
	if t, ok := raw.(time.Time); ok {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	text, err := readString(TypeDate, raw)
	if err != nil {
		return time.Time{}, err
	}
	return ParseDate(text)
}

// DecodeTime reads a clock value in any of the accepted layouts.
func DecodeTime(raw any) (time.Time, error) {
	if t, ok := raw.(time.Time); ok {
		return time.Date(0, 1, 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC), nil
	}
	text, err := readString(TypeTime, raw)
	if err != nil {
		return time.Time{}, err
	}
	return ParseTime(text)
}

// DecodeTimestamp reads a timestamp from text in any accepted layout, a
// Julian day number written as text, or a Julian day number stored as REAL.
func DecodeTimestamp(raw any) (time.Time, error) {
	switch x := raw.(type) {
	case time.Time:
		return naive(x), nil
	case string:
		return ParseTimestamp(x)
	}
	if days, ok := readNumber(raw); ok {
		t, err := FromJulianDay(days)
		if err != nil {
			return time.Time{}, &DecodeError{Type: TypeTimestamp, Raw: raw, Cause: err}
		}
		return t, nil
	}
	if raw == nil {
		return time.Time{}, nullError(TypeTimestamp)
	}
	return time.Time{}, &DecodeError{Type: TypeTimestamp, Raw: raw}
}

func encodeInt(t SQLType, v any, lo, hi int64) (Value, error) {
	rv := reflect.ValueOf(v)
	var n int64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return Value{}, &EncodeError{Type: t, Value: v, Cause: errOutOfRange}
		}
		n = int64(u)
	default:
		return Value{}, &EncodeError{Type: t, Value: v, Cause: errWrongKind}
	}
	if n < lo || n > hi {
		return Value{}, &EncodeError{Type: t, Value: v, Cause: errOutOfRange}
	}
	return Integer(n), nil
}

func decodeInt(t SQLType, raw any, lo, hi int64) (int64, error) {
	switch x := raw.(type) {
	case nil:
		return 0, nullError(t)
	case int64:
		return clampInt(x, lo, hi), nil
	case int:
		return clampInt(int64(x), lo, hi), nil
	}
	f, ok := readNumber(raw)
	if !ok {
		return 0, &DecodeError{Type: t, Raw: raw}
	}
	return saturate(f, lo, hi), nil
}

func clampInt(n, lo, hi int64) int64 {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

// saturate truncates f toward zero and clamps it to [lo, hi]; NaN becomes 0.
func saturate(f float64, lo, hi int64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f <= float64(lo):
		return lo
	case f >= float64(hi):
		return hi
	}
	return int64(f)
}

func readNumber(raw any) (float64, bool) {
	switch x := raw.(type) {
	case float64:
		return x, true
	case float32:
		return float64(x), true
	case int64:
		return float64(x), true
	case int:
		return float64(x), true
	case int32:
		return float64(x), true
	case json.Number:
		f, err := x.Float64()
		return f, err == nil
	}
	return 0, false
}

func readString(t SQLType, raw any) (string, error) {
	switch x := raw.(type) {
	case nil:
		return "", nullError(t)
	case string:
		return x, nil
	}
	return "", &DecodeError{Type: t, Raw: raw}
}

func toFloat64(v any) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	}
	return 0, false
}

// resolve unwraps driver.Valuer implementations and pointers. It returns nil
// for nil interfaces and nil pointers.
func resolve(v any) (any, error) {
	for i := 0; i < 8; i++ {
		if v == nil {
			return nil, nil
		}
		if _, ok := v.(Value); ok {
			return v, nil
		}
		if valuer, ok := v.(driver.Valuer); ok {
			rv := reflect.ValueOf(v)
			if rv.Kind() == reflect.Pointer && rv.IsNil() {
				return nil, nil
			}
			next, err := valuer.Value()
			if err != nil {
				return v, err
			}
			v = next
			continue
		}
		rv := reflect.ValueOf(v)
		if rv.Kind() != reflect.Pointer {
			return v, nil
		}
		if rv.IsNil() {
			return nil, nil
		}
		v = rv.Elem().Interface()
	}
	return v, nil
}

func nullError(t SQLType) error {
	return &DecodeError{Type: t, Cause: ErrNull}
}
