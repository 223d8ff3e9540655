package sqlgen

import "github.com/kiurchv/go-d1/value"

// Logical connectives for WhereClause.Operator.
const (
	And = "AND"
	Or  = "OR"
)

// WhereClause is a boolean tree of conditions. Conditions come first,
// followed by nested groups, all joined by Operator. An empty Operator
// means AND.
type WhereClause struct {
	Conditions []Condition
	Groups     []*WhereClause
	Operator   string
	IsNot      bool
}

// Condition compares one column against a value. Operator is one of
// = != > < >= <= LIKE, IN and NOT IN (Value is a slice), IS NULL and
// IS NOT NULL (Value is ignored).
type Condition struct {
	Field    string
	Operator string
	Value    any
	Type     value.SQLType // zero infers the type from Value
}

// Where joins conds with AND.
func Where(conds ...Condition) *WhereClause {
	return &WhereClause{Conditions: conds, Operator: And}
}

// AnyOf joins conds with OR.
func AnyOf(conds ...Condition) *WhereClause {
	return &WhereClause{Conditions: conds, Operator: Or}
}

// Not negates w in place and returns it.
func Not(w *WhereClause) *WhereClause {
	w.IsNot = !w.IsNot
	return w
}

// Eq is shorthand for an equality condition.
func Eq(field string, v any) Condition {
	return Condition{Field: field, Operator: "=", Value: v}
}

// IsNull matches rows where field is NULL.
func IsNull(field string) Condition {
	return Condition{Field: field, Operator: "IS NULL"}
}

// In matches rows where field is one of the elements of list.
func In(field string, list any) Condition {
	return Condition{Field: field, Operator: "IN", Value: list}
}

// Group appends nested clauses to w and returns it.
func (w *WhereClause) Group(groups ...*WhereClause) *WhereClause {
	w.Groups = append(w.Groups, groups...)
	return w
}

// IsEmpty reports whether w renders nothing: it has no conditions and
// every nested group is itself empty.
func (w *WhereClause) IsEmpty() bool {
	if w == nil || len(w.Conditions) > 0 {
		return w == nil
	}
	for _, g := range w.Groups {
		if !g.IsEmpty() {
			return false
		}
	}
	return true
}

// WalkAST renders " WHERE ..." or nothing for an empty clause.
func (w *WhereClause) WalkAST(out *Out) error {
	if w.IsEmpty() {
		return nil
	}
	out.WriteRaw(" WHERE ")
	_, err := writeWhere(out, w, out.WriteColumn)
	return err
}
