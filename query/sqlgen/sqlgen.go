// Package sqlgen renders SQLite-dialect SQL text and its bind parameters
// in a single pass.
package sqlgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kiurchv/go-d1/value"
)

var (
	// ErrEmptyUpdate is returned for an UPDATE without assignments.
	ErrEmptyUpdate = errors.New("sqlgen: update has no assignments")

	// ErrRowShape is returned when an INSERT row does not match its columns.
	ErrRowShape = errors.New("sqlgen: insert row does not match column list")
)

// OrderBy represents an ORDER BY clause
type OrderBy struct {
	Field     string
	Direction string // "ASC" or "DESC"
}

func writeOrderBy(out *Out, orderBy []OrderBy) {
	if len(orderBy) == 0 {
		return
	}
	out.WriteRaw(" ORDER BY ")
	for i, ob := range orderBy {
		if i > 0 {
			out.WriteRaw(", ")
		}
		direction := "ASC"
		if strings.EqualFold(ob.Direction, "DESC") {
			direction = "DESC"
		}
		out.WriteColumn(ob.Field)
		out.WriteRaw(" " + direction)
	}
}

// Select is a SELECT statement.
type Select struct {
	Table      string
	Columns    []string // empty selects *
	Distinct   bool
	Joins      []Join
	Aggregates []AggregateFunction
	Where      *WhereClause
	GroupBy    *GroupBy
	Having     *Having
	OrderBy    []OrderBy
	// Page is a LimitOffsetClause, a BoxedLimitOffsetClause or nil.
	Page Fragment
}

// WalkAST implements Fragment.
func (s Select) WalkAST(out *Out) error {
	out.WriteRaw("SELECT ")
	if s.Distinct {
		out.WriteRaw("DISTINCT ")
	}

	switch {
	case len(s.Aggregates) > 0:
		for i, agg := range s.Aggregates {
			if i > 0 {
				out.WriteRaw(", ")
			}
			if err := agg.walk(out); err != nil {
				return err
			}
		}
		// grouped fields are selected alongside the aggregates
		if s.GroupBy != nil {
			for _, f := range s.GroupBy.Fields {
				out.WriteRaw(", ")
				out.WriteColumn(f)
			}
		}
	case len(s.Joins) > 0:
		writeJoinColumns(out, s.Table, s.Columns, s.Joins)
	case len(s.Columns) == 0:
		out.WriteRaw("*")
	default:
		for i, c := range s.Columns {
			if i > 0 {
				out.WriteRaw(", ")
			}
			out.WriteColumn(c)
		}
	}

	out.WriteRaw(" FROM ")
	out.WriteIdentifier(s.Table)

	if err := writeJoins(out, s.Joins); err != nil {
		return err
	}
	if err := s.Where.WalkAST(out); err != nil {
		return err
	}
	s.GroupBy.walk(out)
	if err := s.Having.walk(out); err != nil {
		return err
	}
	writeOrderBy(out, s.OrderBy)

	if s.Page != nil {
		return s.Page.WalkAST(out)
	}
	return nil
}

// Default marks a column value that should take the column default. SQLite
// has no DEFAULT keyword inside VALUES, so rendering it fails.
var Default = defaultValue{}

type defaultValue struct{}

// OnConflict is an upsert clause. An empty Set means DO NOTHING.
type OnConflict struct {
	Target []string
	Set    []Assignment
}

func (c *OnConflict) walk(out *Out) error {
	if c == nil {
		return nil
	}
	if !out.Dialect().SupportsOnConflict() {
		return out.Dialect().unsupported("ON CONFLICT")
	}
	out.WriteRaw(" ON CONFLICT")
	if len(c.Target) > 0 {
		out.WriteRaw(" (")
		for i, t := range c.Target {
			if i > 0 {
				out.WriteRaw(", ")
			}
			out.WriteIdentifier(t)
		}
		out.WriteRaw(")")
	}
	if len(c.Set) == 0 {
		out.WriteRaw(" DO NOTHING")
		return nil
	}
	if len(c.Target) == 0 {
		return out.Dialect().unsupported("ON CONFLICT DO UPDATE without a conflict target")
	}
	out.WriteRaw(" DO UPDATE SET ")
	return writeAssignments(out, c.Set)
}

// Insert is an INSERT statement, optionally multi-row.
type Insert struct {
	Table   string
	Columns []string
	// Types declares the column types; when empty or zero they are
	// inferred from each value.
	Types      []value.SQLType
	Rows       [][]any
	OrIgnore   bool
	OnConflict *OnConflict
}

// WalkAST implements Fragment.
func (ins Insert) WalkAST(out *Out) error {
	out.WriteRaw("INSERT ")
	if ins.OrIgnore {
		out.WriteRaw("OR IGNORE ")
	}
	out.WriteRaw("INTO ")
	out.WriteIdentifier(ins.Table)

	if len(ins.Columns) == 0 {
		if len(ins.Rows) > 1 || (len(ins.Rows) == 1 && len(ins.Rows[0]) > 0) {
			return ErrRowShape
		}
		out.WriteRaw(" DEFAULT VALUES")
		return ins.OnConflict.walk(out)
	}

	out.WriteRaw(" (")
	for i, c := range ins.Columns {
		if i > 0 {
			out.WriteRaw(", ")
		}
		out.WriteIdentifier(c)
	}
	out.WriteRaw(") VALUES ")

	if len(ins.Rows) == 0 {
		return ErrRowShape
	}
	for r, row := range ins.Rows {
		if len(row) != len(ins.Columns) {
			return fmt.Errorf("%w: row %d has %d values for %d columns", ErrRowShape, r, len(row), len(ins.Columns))
		}
		if r > 0 {
			out.WriteRaw(", ")
		}
		out.WriteRaw("(")
		for i, v := range row {
			if i > 0 {
				out.WriteRaw(", ")
			}
			if _, ok := v.(defaultValue); ok {
				return out.Dialect().unsupported("DEFAULT in VALUES")
			}
			if err := writeValue(out, ins.columnType(i), v); err != nil {
				return err
			}
		}
		out.WriteRaw(")")
	}
	return ins.OnConflict.walk(out)
}

func (ins Insert) columnType(i int) value.SQLType {
	if i < len(ins.Types) {
		return ins.Types[i]
	}
	return 0
}

// Assignment is one "column = value" pair of an UPDATE.
type Assignment struct {
	Column string
	Value  any
	Type   value.SQLType
}

// Set builds an assignment with an inferred type.
func Set(column string, v any) Assignment {
	return Assignment{Column: column, Value: v}
}

func writeAssignments(out *Out, set []Assignment) error {
	for i, a := range set {
		if i > 0 {
			out.WriteRaw(", ")
		}
		out.WriteIdentifier(a.Column)
		out.WriteRaw(" = ")
		if err := writeValue(out, a.Type, a.Value); err != nil {
			return err
		}
	}
	return nil
}

// Update is an UPDATE statement.
type Update struct {
	Table string
	Set   []Assignment
	Where *WhereClause
}

// WalkAST implements Fragment.
func (u Update) WalkAST(out *Out) error {
	if len(u.Set) == 0 {
		return ErrEmptyUpdate
	}
	out.WriteRaw("UPDATE ")
	out.WriteIdentifier(u.Table)
	out.WriteRaw(" SET ")
	if err := writeAssignments(out, u.Set); err != nil {
		return err
	}
	return u.Where.WalkAST(out)
}

// Delete is a DELETE statement. Without a WHERE clause nothing is deleted
// unless All is set.
type Delete struct {
	Table string
	Where *WhereClause
	All   bool
}

// WalkAST implements Fragment.
func (d Delete) WalkAST(out *Out) error {
	out.WriteRaw("DELETE FROM ")
	out.WriteIdentifier(d.Table)
	if d.Where.IsEmpty() {
		if !d.All {
			out.WriteRaw(" WHERE 1=0")
		}
		return nil
	}
	return d.Where.WalkAST(out)
}

// Concat joins expressions with the dialect's concatenation operator.
func Concat(parts ...Fragment) Fragment {
	return FragmentFunc(func(out *Out) error {
		out.WriteRaw("(")
		for i, p := range parts {
			if i > 0 {
				out.WriteRaw(out.Dialect().ConcatOperator())
			}
			if err := p.WalkAST(out); err != nil {
				return err
			}
		}
		out.WriteRaw(")")
		return nil
	})
}

// Column is a column reference usable wherever a Fragment is expected.
func Column(name string) Fragment {
	return FragmentFunc(func(out *Out) error {
		out.WriteColumn(name)
		return nil
	})
}
