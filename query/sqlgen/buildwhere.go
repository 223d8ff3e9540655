package sqlgen

import (
	"fmt"
	"reflect"
	"strings"
)

// writeWhere renders a WHERE body with support for nested conditions. It
// reports whether anything was written.
func writeWhere(out *Out, where *WhereClause, field func(string)) (bool, error) {
	if where.IsEmpty() {
		return false, nil
	}

	op := " AND "
	if strings.EqualFold(where.Operator, Or) {
		op = " OR "
	}

	if where.IsNot {
		out.WriteRaw("NOT (")
	}

	wrote := false
	sep := func() {
		if wrote {
			out.WriteRaw(op)
		}
		wrote = true
	}

	for _, cond := range where.Conditions {
		sep()
		if err := writeCondition(out, cond, field); err != nil {
			return false, err
		}
	}

	for _, group := range where.Groups {
		if group.IsEmpty() {
			continue
		}
		sep()
		// Wrap in parentheses for precedence (NOT is handled inside)
		out.WriteRaw("(")
		if _, err := writeWhere(out, group, field); err != nil {
			return false, err
		}
		out.WriteRaw(")")
	}

	if where.IsNot {
		out.WriteRaw(")")
	}
	return wrote, nil
}

// writeCondition renders a single condition
func writeCondition(out *Out, cond Condition, field func(string)) error {
	bind := func(v any) error {
		return writeValue(out, cond.Type, v)
	}

	switch op := strings.ToUpper(cond.Operator); op {
	case "=", "!=", ">", "<", ">=", "<=", "LIKE":
		field(cond.Field)
		out.WriteRaw(" " + op + " ")
		return bind(cond.Value)

	case "IN", "NOT IN":
		values, ok := listValues(cond.Value)
		if !ok {
			return fmt.Errorf("sqlgen: %s on %q needs a slice, got %T", op, cond.Field, cond.Value)
		}
		if len(values) == 0 {
			// x IN () is always false, x NOT IN () always true
			if op == "IN" {
				out.WriteRaw("1=0")
			} else {
				out.WriteRaw("1=1")
			}
			return nil
		}
		field(cond.Field)
		out.WriteRaw(" " + op + " (")
		for i, v := range values {
			if i > 0 {
				out.WriteRaw(", ")
			}
			if err := bind(v); err != nil {
				return err
			}
		}
		out.WriteRaw(")")
		return nil

	case "IS NULL", "IS NOT NULL":
		field(cond.Field)
		out.WriteRaw(" " + op)
		return nil

	default:
		return fmt.Errorf("sqlgen: unknown operator %q", cond.Operator)
	}
}

func listValues(v any) ([]any, bool) {
	if values, ok := v.([]any); ok {
		return values, true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	if rv.Type().Elem().Kind() == reflect.Uint8 {
		return nil, false
	}
	values := make([]any, rv.Len())
	for i := range values {
		values[i] = rv.Index(i).Interface()
	}
	return values, true
}
