package sqlgen

import (
	"strings"

	"github.com/kiurchv/go-d1/value"
)

// Fragment is any piece of a statement that can write itself into Out.
type Fragment interface {
	WalkAST(out *Out) error
}

// FragmentFunc adapts a function to the Fragment interface.
type FragmentFunc func(out *Out) error

// WalkAST calls f(out).
func (f FragmentFunc) WalkAST(out *Out) error { return f(out) }

// Out is the single pass that renders a statement. It owns both the text
// builder and the bind collector so every placeholder written has exactly
// one bind behind it.
type Out struct {
	sql     *Builder
	binds   *BindCollector
	dialect Dialect
}

func newOut() *Out {
	return &Out{sql: NewBuilder(), binds: &BindCollector{}, dialect: SQLite}
}

// Dialect returns the dialect being rendered.
func (o *Out) Dialect() Dialect { return o.dialect }

// WriteRaw appends SQL text.
func (o *Out) WriteRaw(s string) { o.sql.WriteRaw(s) }

// WriteIdentifier appends a quoted identifier.
func (o *Out) WriteIdentifier(name string) { o.sql.WriteIdentifier(name) }

// WriteQualified appends a quoted, dot-separated identifier path.
func (o *Out) WriteQualified(parts ...string) { o.sql.WriteQualified(parts...) }

// WriteColumn appends a column reference. A name of the form "t.c" is
// written as a qualified identifier and "*" is written bare.
func (o *Out) WriteColumn(name string) {
	switch {
	case name == "*":
		o.sql.WriteRaw("*")
	case strings.HasSuffix(name, ".*"):
		o.sql.WriteIdentifier(strings.TrimSuffix(name, ".*"))
		o.sql.WriteRaw(".*")
	case strings.Contains(name, "."):
		o.sql.WriteQualified(strings.Split(name, ".")...)
	default:
		o.sql.WriteIdentifier(name)
	}
}

// PushBind encodes v as t and writes its placeholder.
func (o *Out) PushBind(t value.SQLType, v any) error {
	if err := o.binds.Push(t, v); err != nil {
		return err
	}
	o.sql.WritePlaceholder()
	return nil
}

// PushValue binds v using the type inferred from its Go type.
func (o *Out) PushValue(v any) error {
	return o.PushBind(value.Infer(v), v)
}

// Statement is a fully rendered statement. Binds line up one to one with
// the '?' markers in SQL.
type Statement struct {
	SQL   string
	Binds []Bind
}

// Values returns the encoded bind values in placeholder order.
func (s Statement) Values() []value.Value {
	return bindValues(s.Binds)
}

// Render walks f once and returns the resulting statement. Any error
// discards the partial output.
func Render(f Fragment) (Statement, error) {
	out := newOut()
	if err := f.WalkAST(out); err != nil {
		return Statement{}, err
	}
	return Statement{SQL: out.sql.Finish(), Binds: out.binds.Binds()}, nil
}

// Raw is literal SQL with its parameters. Args are bound in order; each
// must match one '?' in SQL.
type Raw struct {
	SQL  string
	Args []TypedArg
}

// TypedArg is a parameter with an explicit declared type. A zero Type
// means the type is inferred from the Go value.
type TypedArg struct {
	Type  value.SQLType
	Value any
}

// Arg builds a TypedArg with an explicit type.
func Arg(t value.SQLType, v any) TypedArg {
	return TypedArg{Type: t, Value: v}
}

// NewRaw builds a Raw fragment with inferred parameter types.
func NewRaw(sql string, args ...any) Raw {
	typed := make([]TypedArg, len(args))
	for i, a := range args {
		if ta, ok := a.(TypedArg); ok {
			typed[i] = ta
			continue
		}
		typed[i] = TypedArg{Value: a}
	}
	return Raw{SQL: sql, Args: typed}
}

// WalkAST writes the SQL text, emitting one bind per '?' outside string
// literals, quoted identifiers and comments.
func (r Raw) WalkAST(out *Out) error {
	next := 0
	var quote byte
	start := 0
	for i := 0; i < len(r.SQL); i++ {
		c := r.SQL[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
		case c == '\'' || c == '"' || c == '`':
			quote = c
		case c == '-' || c == '/':
			if end := commentEnd(r.SQL, i); end >= 0 {
				i = end
			}
		case c == '?':
			if next >= len(r.Args) {
				return &SerializationError{Index: next, Err: errMissingArg}
			}
			out.WriteRaw(r.SQL[start:i])
			if err := r.Args[next].WalkAST(out); err != nil {
				return err
			}
			next++
			start = i + 1
		}
	}
	out.WriteRaw(r.SQL[start:])
	if next != len(r.Args) {
		return &SerializationError{Index: next, Err: errExtraArgs}
	}
	return nil
}

// writeValue renders v as an expression: fragments walk themselves and
// anything else becomes a bind of type t.
func writeValue(out *Out, t value.SQLType, v any) error {
	if frag, ok := v.(Fragment); ok {
		return frag.WalkAST(out)
	}
	return TypedArg{Type: t, Value: v}.WalkAST(out)
}
