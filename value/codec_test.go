package value

import (
	"database/sql"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeTags(t *testing.T) {
	tests := []struct {
		name    string
		typ     SQLType
		in      any
		wantTag Tag
		want    any
	}{
		{"true", TypeBool, true, TagInteger, int64(1)},
		{"false", TypeBool, false, TagInteger, int64(0)},
		{"smallint", TypeSmallInt, int16(-12), TagInteger, int64(-12)},
		{"integer from int", TypeInteger, 42, TagInteger, int64(42)},
		{"bigint", TypeBigInt, int64(1) << 40, TagInteger, int64(1) << 40},
		{"float", TypeFloat, float32(1.5), TagDouble, 1.5},
		{"double", TypeDouble, 3.25, TagDouble, 3.25},
		{"text", TypeText, "hello", TagText, "hello"},
		{"blob", TypeBinary, []byte{1, 2, 3}, TagBlob, []byte{1, 2, 3}},
		{"date", TypeDate, time.Date(2021, 7, 1, 13, 0, 0, 0, time.UTC), TagText, "2021-07-01"},
		{"date as text", TypeDate, "2021-07-01", TagText, "2021-07-01"},
		{"time whole second", TypeTime, time.Date(0, 1, 1, 10, 4, 5, 0, time.UTC), TagText, "10:04:05"},
		{"time fraction", TypeTime, time.Date(0, 1, 1, 10, 4, 5, 123456000, time.UTC), TagText, "10:04:05.123456"},
		{"timestamp whole second", TypeTimestamp, time.Date(2021, 7, 1, 10, 0, 0, 0, time.UTC), TagText, "2021-07-01 10:00:00"},
		{"timestamp fraction", TypeTimestamp, time.Date(2021, 7, 1, 10, 0, 0, 500000000, time.UTC), TagText, "2021-07-01 10:00:00.500000"},
		{"nil", TypeText, nil, TagNull, nil},
		{"nil pointer", TypeBigInt, (*int64)(nil), TagNull, nil},
		{"pointer", TypeBigInt, ptr(int64(7)), TagInteger, int64(7)},
		{"valuer", TypeBigInt, sql.NullInt64{Int64: 9, Valid: true}, TagInteger, int64(9)},
		{"null valuer", TypeBigInt, sql.NullInt64{}, TagNull, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Encode(tt.typ, tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.wantTag, v.Tag())
			assert.Equal(t, tt.want, v.Any())
		})
	}
}

func TestEncodeErrors(t *testing.T) {
	tests := []struct {
		name string
		typ  SQLType
		in   any
	}{
		{"bool from int", TypeBool, 1},
		{"smallint overflow", TypeSmallInt, 40000},
		{"integer overflow", TypeInteger, int64(math.MaxInt32) + 1},
		{"bigint from huge uint", TypeBigInt, uint64(math.MaxUint64)},
		{"text from int", TypeText, 5},
		{"blob from string", TypeBinary, "abc"},
		{"NaN", TypeDouble, math.NaN()},
		{"positive infinity", TypeDouble, math.Inf(1)},
		{"negative infinity", TypeFloat, math.Inf(-1)},
		{"float32 overflow", TypeFloat, math.MaxFloat64},
		{"timestamp from int", TypeTimestamp, 12},
		{"tag mismatch", TypeText, Integer(1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Encode(tt.typ, tt.in)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrEncode))

			var encErr *EncodeError
			require.True(t, errors.As(err, &encErr))
			assert.Equal(t, tt.typ, encErr.Type)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		typ  SQLType
		in   any
	}{
		{"bool true", TypeBool, true},
		{"bool false", TypeBool, false},
		{"smallint", TypeSmallInt, int16(math.MinInt16)},
		{"integer", TypeInteger, int32(math.MaxInt32)},
		{"bigint within 2^53", TypeBigInt, int64(1)<<53 - 1},
		{"negative bigint", TypeBigInt, int64(-987654321)},
		{"float", TypeFloat, float32(0.25)},
		{"double", TypeDouble, -1234.5678},
		{"text", TypeText, "héllo `world`"},
		{"empty text", TypeText, ""},
		{"blob", TypeBinary, []byte{0, 255, 10}},
		{"date", TypeDate, time.Date(1999, 12, 31, 0, 0, 0, 0, time.UTC)},
		{"time", TypeTime, time.Date(0, 1, 1, 23, 59, 58, 0, time.UTC)},
		{"time micro", TypeTime, time.Date(0, 1, 1, 1, 2, 3, 4000, time.UTC)},
		{"timestamp", TypeTimestamp, time.Date(2021, 7, 1, 10, 0, 0, 0, time.UTC)},
		{"timestamp micro", TypeTimestamp, time.Date(2024, 2, 29, 12, 30, 45, 999999000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Encode(tt.typ, tt.in)
			require.NoError(t, err)

			// hosts that only know JSON numbers hand integers back as float64
			raw := v.Any()
			if v.Tag() == TagInteger {
				raw = float64(v.Int64())
			}

			got, err := Decode(tt.typ, raw)
			require.NoError(t, err)
			assert.Equal(t, tt.in, got)
		})
	}
}

func TestBigIntPrecisionLoss(t *testing.T) {
	n := int64(1)<<53 + 1
	v, err := Encode(TypeBigInt, n)
	require.NoError(t, err)

	got, err := DecodeInt64(float64(v.Int64()))
	require.NoError(t, err)
	assert.NotEqual(t, n, got)
	assert.Equal(t, int64(1)<<53, got)

	// integer-carrying hosts keep every bit
	got, err = DecodeInt64(v.Int64())
	require.NoError(t, err)
	assert.Equal(t, n, got)
}

func TestDecodeBool(t *testing.T) {
	b, err := DecodeBool(1.0)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = DecodeBool(int64(0))
	require.NoError(t, err)
	assert.False(t, b)

	b, err = DecodeBool(true)
	require.NoError(t, err)
	assert.True(t, b)

	_, err = DecodeBool("true")
	assert.ErrorIs(t, err, ErrDecode)

	assert.PanicsWithError(t, "corrupt Bool value 2", func() {
		_, _ = DecodeBool(2.0)
	})
	assert.Panics(t, func() {
		_, _ = DecodeBool(0.5)
	})
}

func TestDecodeNarrowing(t *testing.T) {
	n16, err := DecodeInt16(70000.0)
	require.NoError(t, err)
	assert.Equal(t, int16(math.MaxInt16), n16)

	n32, err := DecodeInt32(-12.9)
	require.NoError(t, err)
	assert.Equal(t, int32(-12), n32)

	n64, err := DecodeInt64(math.NaN())
	require.NoError(t, err)
	assert.Equal(t, int64(0), n64)

	_, err = DecodeInt32("12")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeBlob(t *testing.T) {
	b, err := DecodeBlob([]any{1.0, 2.0, 255.0})
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 255}, b)

	_, err = DecodeBlob([]any{256.0})
	assert.ErrorIs(t, err, ErrDecode)

	_, err = DecodeBlob("AQID")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestDecodeNull(t *testing.T) {
	got, err := Decode(TypeTimestamp, nil)
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = DecodeText(nil)
	assert.ErrorIs(t, err, ErrNull)
	assert.ErrorIs(t, err, ErrDecode)
}

func TestInfer(t *testing.T) {
	assert.Equal(t, TypeBool, Infer(true))
	assert.Equal(t, TypeBigInt, Infer(3))
	assert.Equal(t, TypeSmallInt, Infer(int16(3)))
	assert.Equal(t, TypeDouble, Infer(1.5))
	assert.Equal(t, TypeBinary, Infer([]byte("x")))
	assert.Equal(t, TypeTimestamp, Infer(time.Now()))
	assert.Equal(t, TypeText, Infer("x"))
	assert.Equal(t, TypeText, Infer(struct{}{}))
}

func TestParseSQLType(t *testing.T) {
	typ, ok := ParseSQLType(" DateTime ")
	require.True(t, ok)
	assert.Equal(t, TypeTimestamp, typ)
	assert.Equal(t, TagText, typ.Tag())

	_, ok = ParseSQLType("uuid")
	assert.False(t, ok)
}

func ptr[T any](v T) *T { return &v }
