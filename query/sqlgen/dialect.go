package sqlgen

// Dialect describes what the SQLite-compatible backend can express.
type Dialect struct {
	name string
}

// SQLite is the only dialect this package renders.
var SQLite = Dialect{name: "sqlite"}

// Name returns the dialect name.
func (d Dialect) Name() string { return d.name }

// SupportsReturning reports whether INSERT/UPDATE/DELETE ... RETURNING is
// available. The host cannot return rows from a write, so it never is.
func (d Dialect) SupportsReturning() bool { return false }

// SupportsOnConflict reports whether ON CONFLICT clauses are available.
func (d Dialect) SupportsOnConflict() bool { return true }

// SupportsDefaultKeyword reports whether DEFAULT may appear in a VALUES
// list. It may not, so multi-row inserts must supply every column.
func (d Dialect) SupportsDefaultKeyword() bool { return false }

// ConcatOperator is the string concatenation operator.
func (d Dialect) ConcatOperator() string { return " || " }

func (d Dialect) unsupported(clause string) error {
	return &DialectError{Dialect: d.name, Clause: clause}
}

// Returning is a RETURNING clause. Rendering it always fails before any
// text is written.
type Returning struct {
	Columns []string
}

// WalkAST implements Fragment.
func (r Returning) WalkAST(out *Out) error {
	if !out.Dialect().SupportsReturning() {
		return out.Dialect().unsupported("RETURNING")
	}
	out.WriteRaw(" RETURNING ")
	for i, c := range r.Columns {
		if i > 0 {
			out.WriteRaw(", ")
		}
		out.WriteColumn(c)
	}
	return nil
}
