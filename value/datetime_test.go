package value

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampLayouts(t *testing.T) {
	want := time.Date(2021, 7, 1, 10, 0, 0, 0, time.UTC)
	wantMinute := time.Date(2021, 7, 1, 10, 0, 0, 0, time.UTC)
	wantFrac := time.Date(2021, 7, 1, 10, 0, 0, 250000000, time.UTC)

	tests := []struct {
		in   string
		want time.Time
	}{
		{"2021-07-01 10:00:00", want},
		{"2021-07-01 10:00:00.25", wantFrac},
		{"2021-07-01 10:00:00.25+02:00", wantFrac},
		{"2021-07-01 10:00:00-05:00", want},
		{"2021-07-01 10:00", wantMinute},
		{"2021-07-01 10:00Z", wantMinute},
		{"2021-07-01 10:00+01:00", wantMinute},
		{"2021-07-01 10:00:00Z", want},
		{"2021-07-01 10:00:00.25Z", wantFrac},
		{"2021-07-01T10:00", wantMinute},
		{"2021-07-01T10:00Z", wantMinute},
		{"2021-07-01T10:00-03:30", wantMinute},
		{"2021-07-01T10:00:00", want},
		{"2021-07-01T10:00:00Z", want},
		{"2021-07-01T10:00:00+09:00", want},
		{"2021-07-01T10:00:00.25", wantFrac},
		{"2021-07-01T10:00:00.25Z", wantFrac},
		{"2021-07-01T10:00:00.25-07:00", wantFrac},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTimestamp(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseTimestampJulianFallback(t *testing.T) {
	got, err := ParseTimestamp("2459396.5")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 7, 1, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseTimestamp("2459396.75")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2021, 7, 1, 6, 0, 0, 0, time.UTC), got)

	got, err = DecodeTimestamp(2440587.5)
	require.NoError(t, err)
	assert.Equal(t, time.Unix(0, 0).UTC(), got)
}

func TestParseTimestampFailure(t *testing.T) {
	for _, in := range []string{"not-a-date", "NaN", "1e300", "2021-13-01 10:00:00"} {
		t.Run(in, func(t *testing.T) {
			_, err := ParseTimestamp(in)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDecode)

			var decErr *DecodeError
			require.True(t, errors.As(err, &decErr))
			assert.Equal(t, in, decErr.Text)
			assert.Contains(t, err.Error(), in)
		})
	}
}

func TestParseTime(t *testing.T) {
	tests := []struct {
		in   string
		want time.Time
	}{
		{"10:04:05", time.Date(0, 1, 1, 10, 4, 5, 0, time.UTC)},
		{"10:04:05.5", time.Date(0, 1, 1, 10, 4, 5, 500000000, time.UTC)},
		{"10:04", time.Date(0, 1, 1, 10, 4, 0, 0, time.UTC)},
		{"10:04Z", time.Date(0, 1, 1, 10, 4, 0, 0, time.UTC)},
		{"10:04+02:00", time.Date(0, 1, 1, 10, 4, 0, 0, time.UTC)},
		{"10:04:05Z", time.Date(0, 1, 1, 10, 4, 5, 0, time.UTC)},
		{"10:04:05.5Z", time.Date(0, 1, 1, 10, 4, 5, 500000000, time.UTC)},
		{"10:04:05-01:00", time.Date(0, 1, 1, 10, 4, 5, 0, time.UTC)},
		{"10:04:05.5-01:00", time.Date(0, 1, 1, 10, 4, 5, 500000000, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseTime(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseTime("25:00")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2020-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 2, 29, 0, 0, 0, 0, time.UTC), got)

	_, err = ParseDate("2021-07-01T10:00:00Z")
	assert.ErrorIs(t, err, ErrDecode)
}

func TestJulianDay(t *testing.T) {
	ts := time.Date(2021, 7, 1, 6, 0, 0, 0, time.UTC)
	assert.InDelta(t, 2459396.75, JulianDay(ts), 1e-9)

	back, err := FromJulianDay(JulianDay(ts))
	require.NoError(t, err)
	assert.WithinDuration(t, ts, back, time.Millisecond)

	_, err = FromJulianDay(1e12)
	assert.Error(t, err)
}

func TestFormatTimestampUsesWallClock(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	ts := time.Date(2021, 7, 1, 12, 0, 0, 0, zone)
	assert.Equal(t, "2021-07-01 12:00:00", FormatTimestamp(ts))
}
