package sqlgen

import (
	"fmt"
	"strings"
)

// AggregateFunction represents an aggregation function
type AggregateFunction struct {
	Function string // "COUNT", "SUM", "AVG", "MIN", "MAX", "TOTAL", "GROUP_CONCAT"
	Field    string // Field to aggregate on ("*" for COUNT(*))
	Alias    string // Alias for the result
}

// Count is COUNT(*) AS alias.
func Count(alias string) AggregateFunction {
	return AggregateFunction{Function: "COUNT", Field: "*", Alias: alias}
}

// GroupBy represents a GROUP BY clause
type GroupBy struct {
	Fields []string
}

// Having represents a HAVING clause (similar to WHERE but for aggregates).
// Condition fields are aggregate expressions and are written verbatim.
type Having struct {
	Conditions []Condition
	Operator   string // "AND" or "OR"
}

var aggregateFunctions = map[string]bool{
	"COUNT": true, "SUM": true, "AVG": true, "MIN": true,
	"MAX": true, "TOTAL": true, "GROUP_CONCAT": true,
}

func (a AggregateFunction) walk(out *Out) error {
	fn := strings.ToUpper(a.Function)
	if !aggregateFunctions[fn] {
		return fmt.Errorf("sqlgen: unknown aggregate %q", a.Function)
	}
	out.WriteRaw(fn + "(")
	out.WriteColumn(a.Field)
	out.WriteRaw(")")
	if a.Alias != "" {
		out.WriteRaw(" AS ")
		out.WriteIdentifier(a.Alias)
	}
	return nil
}

func (g *GroupBy) walk(out *Out) {
	if g == nil || len(g.Fields) == 0 {
		return
	}
	out.WriteRaw(" GROUP BY ")
	for i, f := range g.Fields {
		if i > 0 {
			out.WriteRaw(", ")
		}
		out.WriteColumn(f)
	}
}

func (h *Having) walk(out *Out) error {
	if h == nil || len(h.Conditions) == 0 {
		return nil
	}
	out.WriteRaw(" HAVING ")
	_, err := writeWhere(out, &WhereClause{Conditions: h.Conditions, Operator: h.Operator}, out.WriteRaw)
	return err
}
