// Package row exposes result records as rows of named, lazily decoded
// fields.
package row

import (
	"database/sql"
	"errors"
	"fmt"
	"iter"
	"time"

	"github.com/kiurchv/go-d1/host"
	"github.com/kiurchv/go-d1/value"
)

// ErrScanCount is returned when Scan gets the wrong number of destinations.
var ErrScanCount = errors.New("row: destination count does not match field count")

// Columns is the ordered column-name list shared by every row of a result
// set. It is taken from the first record; lookups are linear.
type Columns struct {
	names []string
}

// NewColumns returns a column list over names.
func NewColumns(names []string) *Columns {
	return &Columns{names: names}
}

// ColumnsOf takes the column list from rec. A nil record gives an empty
// list.
func ColumnsOf(rec host.Record) *Columns {
	if rec == nil {
		return &Columns{}
	}
	return &Columns{names: rec.Keys()}
}

// Names returns the column names in order.
func (c *Columns) Names() []string { return c.names }

// Len returns the number of columns.
func (c *Columns) Len() int { return len(c.names) }

// Name returns the i-th column name.
func (c *Columns) Name(i int) (string, bool) {
	if i < 0 || i >= len(c.names) {
		return "", false
	}
	return c.names[i], true
}

// Index returns the position of name.
func (c *Columns) Index(name string) (int, bool) {
	for i, n := range c.names {
		if n == name {
			return i, true
		}
	}
	return 0, false
}

// Row is one result record viewed through the shared column list.
type Row struct {
	record  host.Record
	columns *Columns
}

// New wraps rec using cols for every lookup.
func New(rec host.Record, cols *Columns) *Row {
	return &Row{record: rec, columns: cols}
}

// Record returns the underlying host record.
func (r *Row) Record() host.Record { return r.record }

// Columns returns the shared column list.
func (r *Row) Columns() *Columns { return r.columns }

// FieldCount returns the number of fields, which is the length of the
// shared column list.
func (r *Row) FieldCount() int { return r.columns.Len() }

// Field returns the field at position i.
func (r *Row) Field(i int) (Field, bool) {
	if i < 0 || i >= r.columns.Len() {
		return Field{}, false
	}
	return Field{row: r, index: i}, true
}

// FieldByName returns the field called name. Names missing from the
// first record of the result set are absent for every row.
func (r *Row) FieldByName(name string) (Field, bool) {
	i, ok := r.columns.Index(name)
	if !ok {
		return Field{}, false
	}
	return Field{row: r, index: i}, true
}

// Scan decodes the fields in order into dest. Supported destinations are
// *bool, *int16, *int32, *int64, *int, *float32, *float64, *string,
// *[]byte, *time.Time, *any and sql.Scanner.
func (r *Row) Scan(dest ...any) error {
	if len(dest) != r.FieldCount() {
		return fmt.Errorf("%w: %d destinations for %d fields", ErrScanCount, len(dest), r.FieldCount())
	}
	for i, d := range dest {
		f, _ := r.Field(i)
		raw, _ := f.Value()
		if err := scanInto(d, raw); err != nil {
			return fmt.Errorf("row: scan field %q: %w", f.Name(), err)
		}
	}
	return nil
}

// Field is a handle on one column of a row. The value is read from the
// record each time it is asked for.
type Field struct {
	row   *Row
	index int
}

// Name returns the column name.
func (f Field) Name() string {
	name, _ := f.row.columns.Name(f.index)
	return name
}

// Value returns the raw host value. It reports false when the record has
// no entry for the column or the entry is null.
func (f Field) Value() (any, bool) {
	v, ok := f.row.record.Get(f.Name())
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// IsNull reports whether the field holds no value.
func (f Field) IsNull() bool {
	_, ok := f.Value()
	return !ok
}

// Decode converts the field to the Go form of t. Null decodes to nil.
func (f Field) Decode(t value.SQLType) (any, error) {
	raw, _ := f.Value()
	return value.Decode(t, raw)
}

func scanInto(dest, raw any) error {
	var err error
	switch d := dest.(type) {
	case *any:
		*d = raw
	case sql.Scanner:
		err = d.Scan(raw)
	case *bool:
		*d, err = value.DecodeBool(raw)
	case *int16:
		*d, err = value.DecodeInt16(raw)
	case *int32:
		*d, err = value.DecodeInt32(raw)
	case *int64:
		*d, err = value.DecodeInt64(raw)
	case *int:
		var n int64
		n, err = value.DecodeInt64(raw)
		*d = int(n)
	case *float32:
		*d, err = value.DecodeFloat32(raw)
	case *float64:
		*d, err = value.DecodeFloat64(raw)
	case *string:
		*d, err = value.DecodeText(raw)
	case *[]byte:
		*d, err = value.DecodeBlob(raw)
	case *time.Time:
		*d, err = decodeTime(raw)
	default:
		err = fmt.Errorf("unsupported destination %T", dest)
	}
	return err
}

// decodeTime accepts timestamp, date or clock text, in that order. The
// timestamp error is reported when nothing matches.
func decodeTime(raw any) (time.Time, error) {
	t, err := value.DecodeTimestamp(raw)
	if err == nil {
		return t, nil
	}
	text, ok := raw.(string)
	if !ok {
		return time.Time{}, err
	}
	if d, dateErr := value.ParseDate(text); dateErr == nil {
		return d, nil
	}
	if c, timeErr := value.ParseTime(text); timeErr == nil {
		return c, nil
	}
	return time.Time{}, err
}

// Rows is a cursor over a materialized result set.
type Rows struct {
	records []host.Record
	columns *Columns
	pos     int
}

// NewRows builds a cursor over records. The column list comes from the
// first record, or is empty when there are none.
func NewRows(records []host.Record) *Rows {
	var first host.Record
	if len(records) > 0 {
		first = records[0]
	}
	return &Rows{records: records, columns: ColumnsOf(first), pos: -1}
}

// Next advances to the next row.
func (rs *Rows) Next() bool {
	if rs.pos+1 >= len(rs.records) {
		rs.pos = len(rs.records)
		return false
	}
	rs.pos++
	return true
}

// Row returns the current row, or nil before the first Next or after the
// last.
func (rs *Rows) Row() *Row {
	if rs.pos < 0 || rs.pos >= len(rs.records) {
		return nil
	}
	return New(rs.records[rs.pos], rs.columns)
}

// Scan decodes the current row into dest.
func (rs *Rows) Scan(dest ...any) error {
	r := rs.Row()
	if r == nil {
		return errors.New("row: Scan called without a current row")
	}
	return r.Scan(dest...)
}

// Len returns the number of rows in the result set.
func (rs *Rows) Len() int { return len(rs.records) }

// Columns returns the shared column list.
func (rs *Rows) Columns() *Columns { return rs.columns }

// All yields every row from the start, independent of the cursor.
func (rs *Rows) All() iter.Seq[*Row] {
	return func(yield func(*Row) bool) {
		for _, rec := range rs.records {
			if !yield(New(rec, rs.columns)) {
				return
			}
		}
	}
}
