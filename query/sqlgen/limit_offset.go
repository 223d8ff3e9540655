package sqlgen

import "github.com/kiurchv/go-d1/value"

// unboundedLimit is the limit SQLite reads as "no limit". The dialect
// rejects OFFSET without a preceding LIMIT, so offset-only clauses carry it.
const unboundedLimit = " LIMIT -1"

// LimitOffsetClause is a limit/offset pair known when the query is built.
type LimitOffsetClause struct {
	Limit  *int64
	Offset *int64
}

// Limit returns a clause with only a limit.
func Limit(n int64) LimitOffsetClause {
	return LimitOffsetClause{Limit: &n}
}

// Offset returns a clause with only an offset.
func Offset(n int64) LimitOffsetClause {
	return LimitOffsetClause{Offset: &n}
}

// LimitOffset returns a clause with both bounds.
func LimitOffset(limit, offset int64) LimitOffsetClause {
	return LimitOffsetClause{Limit: &limit, Offset: &offset}
}

// WalkAST implements Fragment.
func (c LimitOffsetClause) WalkAST(out *Out) error {
	switch {
	case c.Limit == nil && c.Offset == nil:
		return nil
	case c.Offset == nil:
		out.WriteRaw(" LIMIT ")
		return out.PushBind(value.TypeBigInt, *c.Limit)
	case c.Limit == nil:
		out.WriteRaw(unboundedLimit + " OFFSET ")
		return out.PushBind(value.TypeBigInt, *c.Offset)
	default:
		out.WriteRaw(" LIMIT ")
		if err := out.PushBind(value.TypeBigInt, *c.Limit); err != nil {
			return err
		}
		out.WriteRaw(" OFFSET ")
		return out.PushBind(value.TypeBigInt, *c.Offset)
	}
}

// Boxed converts the clause into its dynamic form, keeping which sides
// are present.
func (c LimitOffsetClause) Boxed() BoxedLimitOffsetClause {
	var boxed BoxedLimitOffsetClause
	if c.Limit != nil {
		boxed.Limit = Arg(value.TypeBigInt, *c.Limit)
	}
	if c.Offset != nil {
		boxed.Offset = Arg(value.TypeBigInt, *c.Offset)
	}
	return boxed
}

// BoxedLimitOffsetClause is a limit/offset pair whose expressions are only
// known at render time. A nil side is absent.
type BoxedLimitOffsetClause struct {
	Limit  Fragment
	Offset Fragment
}

// WalkAST implements Fragment.
func (c BoxedLimitOffsetClause) WalkAST(out *Out) error {
	switch {
	case c.Limit != nil && c.Offset != nil:
		out.WriteRaw(" LIMIT ")
		if err := c.Limit.WalkAST(out); err != nil {
			return err
		}
		out.WriteRaw(" OFFSET ")
		return c.Offset.WalkAST(out)
	case c.Limit != nil:
		out.WriteRaw(" LIMIT ")
		return c.Limit.WalkAST(out)
	case c.Offset != nil:
		out.WriteRaw(unboundedLimit + " OFFSET ")
		return c.Offset.WalkAST(out)
	default:
		return nil
	}
}

// WalkAST binds the argument as a single expression.
func (a TypedArg) WalkAST(out *Out) error {
	t := a.Type
	if t == 0 {
		t = value.Infer(a.Value)
	}
	return out.PushBind(t, a.Value)
}
