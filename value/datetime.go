package value

import (
	"errors"
	"math"
	"strconv"
	"time"
)

// Canonical encode layouts. The fractional part is appended only when the
// microsecond component is non-zero.
const (
	dateLayout          = "2006-01-02"
	timeLayout          = "15:04:05"
	timestampLayout     = "2006-01-02 15:04:05"
	fractionLayout      = ".000000"
	julianEpochDays     = 2_440_587.5
	secondsPerDay       = 86400.0
	minTimestampSeconds = -62135596800 // 0001-01-01T00:00:00Z
	maxTimestampSeconds = 253402300799 // 9999-12-31T23:59:59Z
)

// timeLayouts is tried in order when decoding a TIME column. Go accepts an
// optional fraction right after the seconds field, so each seconds layout
// also covers its ".fff" variant.
var timeLayouts = []string{
	// most likely
	"15:04:05.999999999",
	// everything else, in order of increasing specificity
	"15:04",
	"15:04Z",
	"15:04-07:00",
	"15:04:05Z",
	"15:04:05-07:00",
}

// timestampLayouts is tried in order when decoding a TIMESTAMP column.
var timestampLayouts = []string{
	// most likely
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05.999999999-07:00",
	// everything else, in order of increasing specificity
	"2006-01-02 15:04",
	"2006-01-02 15:04Z",
	"2006-01-02 15:04-07:00",
	"2006-01-02 15:04:05.999999999Z",
	"2006-01-02T15:04",
	"2006-01-02T15:04Z",
	"2006-01-02T15:04-07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05.999999999Z",
	"2006-01-02T15:04:05.999999999-07:00",
}

var errJulianRange = errors.New("julian day out of range")

// FormatDate renders the date part of t.
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatTime renders the clock part of t, with microseconds when non-zero.
func FormatTime(t time.Time) string {
	if t.Nanosecond()/1000 == 0 {
		return t.Format(timeLayout)
	}
	return t.Format(timeLayout + fractionLayout)
}

// FormatTimestamp renders t as a naive timestamp, with microseconds when
// non-zero. The wall clock of t's own location is used.
func FormatTimestamp(t time.Time) string {
	if t.Nanosecond()/1000 == 0 {
		return t.Format(timestampLayout)
	}
	return t.Format(timestampLayout + fractionLayout)
}

// ParseDate parses a YYYY-MM-DD date at midnight UTC.
func ParseDate(text string) (time.Time, error) {
	t, err := time.Parse(dateLayout, text)
	if err != nil {
		return time.Time{}, &DecodeError{Type: TypeDate, Raw: text, Text: text, Cause: err}
	}
	return t, nil
}

// ParseTime parses a clock value. The result is dated 0000-01-01 UTC; any
// offset in the input is dropped.
func ParseTime(text string) (time.Time, error) {
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return naive(t), nil
		}
	}
	return time.Time{}, &DecodeError{Type: TypeTime, Raw: text, Text: text}
}

// ParseTimestamp parses a naive timestamp, trying every textual layout
// before falling back to a Julian day number. Offsets are accepted and
// dropped: the wall clock as written is returned in UTC.
func ParseTimestamp(text string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return naive(t), nil
		}
	}
	if days, err := strconv.ParseFloat(text, 64); err == nil {
		if t, err := FromJulianDay(days); err == nil {
			return t, nil
		}
	}
	return time.Time{}, &DecodeError{Type: TypeTimestamp, Raw: text, Text: text}
}

// FromJulianDay converts a Julian day number to a UTC timestamp. The
// seconds are truncated and the remaining fraction of a second becomes
// nanoseconds.
func FromJulianDay(days float64) (time.Time, error) {
	if math.IsNaN(days) || math.IsInf(days, 0) {
		return time.Time{}, errJulianRange
	}
	ts := (days - julianEpochDays) * secondsPerDay
	secs := math.Trunc(ts)
	if secs < minTimestampSeconds || secs > maxTimestampSeconds {
		return time.Time{}, errJulianRange
	}
	nanos := int64((ts - secs) * 1e9)
	return time.Unix(int64(secs), nanos).UTC(), nil
}

// JulianDay converts t to a Julian day number.
func JulianDay(t time.Time) float64 {
	secs := float64(t.Unix()) + float64(t.Nanosecond())/1e9
	return secs/secondsPerDay + julianEpochDays
}

func naive(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
}
