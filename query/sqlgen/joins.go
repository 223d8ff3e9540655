package sqlgen

import (
	"fmt"
	"strings"
)

// Join represents a JOIN clause
type Join struct {
	Type      string   // "LEFT", "INNER", "CROSS"
	Table     string   // Table to join
	Alias     string   // Table alias
	Condition string   // JOIN condition (e.g., "post.author_id = user.id")
	Columns   []string // Columns to select from this table
}

func (j Join) name() string {
	if j.Alias != "" {
		return j.Alias
	}
	return j.Table
}

func (j Join) keyword() (string, error) {
	switch t := strings.ToUpper(strings.TrimSpace(j.Type)); t {
	case "", "INNER":
		return "INNER JOIN", nil
	case "LEFT", "CROSS":
		return t + " JOIN", nil
	case "RIGHT", "FULL":
		return "", SQLite.unsupported(t + " JOIN")
	default:
		return "", fmt.Errorf("sqlgen: unknown join type %q", j.Type)
	}
}

// writeJoinColumns renders the select list of a joined query, prefixing
// every column with its table.
func writeJoinColumns(out *Out, table string, columns []string, joins []Join) {
	first := true
	col := func(tbl, c string) {
		if !first {
			out.WriteRaw(", ")
		}
		first = false
		if c == "*" {
			out.WriteIdentifier(tbl)
			out.WriteRaw(".*")
			return
		}
		out.WriteQualified(tbl, c)
	}

	if len(columns) == 0 {
		col(table, "*")
	}
	for _, c := range columns {
		col(table, c)
	}
	for _, j := range joins {
		if len(j.Columns) == 0 {
			col(j.name(), "*")
		}
		for _, c := range j.Columns {
			col(j.name(), c)
		}
	}
}

// writeJoins renders the JOIN clauses following FROM.
func writeJoins(out *Out, joins []Join) error {
	for _, j := range joins {
		kw, err := j.keyword()
		if err != nil {
			return err
		}
		out.WriteRaw(" " + kw + " ")
		out.WriteIdentifier(j.Table)
		if j.Alias != "" {
			out.WriteRaw(" AS ")
			out.WriteIdentifier(j.Alias)
		}
		if j.Condition != "" {
			out.WriteRaw(" ON " + j.Condition)
		}
	}
	return nil
}
