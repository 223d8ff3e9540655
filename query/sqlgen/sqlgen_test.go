package sqlgen

import (
	"errors"
	"testing"

	"github.com/kiurchv/go-d1/value"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdentifier(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"users", "`users`"},
		{"a`b", "`a``b`"},
		{"select", "`select`"},
		{"", "``"},
		{"``", "``````"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, QuoteIdentifier(tt.in))
		})
	}
}

func TestBuilder(t *testing.T) {
	b := NewBuilder()
	b.WriteRaw("SELECT ")
	b.WriteIdentifier("id")
	b.WriteRaw(" FROM ")
	b.WriteQualified("main", "users")
	b.WriteRaw(" WHERE ")
	b.WriteIdentifier("id")
	b.WriteRaw(" = ")
	b.WritePlaceholder()

	assert.Equal(t, "SELECT `id` FROM `main`.`users` WHERE `id` = ?", b.Finish())
	assert.Panics(t, func() { b.WriteRaw("x") })
	assert.Panics(t, func() { b.Finish() })
}

func TestLimitOffset(t *testing.T) {
	tests := []struct {
		name   string
		clause LimitOffsetClause
		sql    string
		binds  []value.Value
	}{
		{"none", LimitOffsetClause{}, "SELECT * FROM `users`", nil},
		{"limit only", Limit(5), "SELECT * FROM `users` LIMIT ?", []value.Value{value.Integer(5)}},
		{"offset only", Offset(10), "SELECT * FROM `users` LIMIT -1 OFFSET ?", []value.Value{value.Integer(10)}},
		{"both", LimitOffset(5, 10), "SELECT * FROM `users` LIMIT ? OFFSET ?", []value.Value{value.Integer(5), value.Integer(10)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			static, err := Render(Select{Table: "users", Page: tt.clause})
			require.NoError(t, err)
			assert.Equal(t, tt.sql, static.SQL)
			assert.Equal(t, len(tt.binds), len(static.Binds))
			if len(tt.binds) > 0 {
				assert.Equal(t, tt.binds, static.Values())
			}

			boxed, err := Render(Select{Table: "users", Page: tt.clause.Boxed()})
			require.NoError(t, err)
			assert.Equal(t, static.SQL, boxed.SQL)
			assert.Equal(t, static.Binds, boxed.Binds)
		})
	}
}

func TestBoxedLimitOffsetWithExpressions(t *testing.T) {
	stmt, err := Render(Select{
		Table: "users",
		Page:  BoxedLimitOffsetClause{Offset: NewRaw("(SELECT ? * 2)", 3)},
	})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `users` LIMIT -1 OFFSET (SELECT ? * 2)", stmt.SQL)
	assert.Equal(t, []value.Value{value.Integer(3)}, stmt.Values())
}

func TestBindOrderMatchesPlaceholders(t *testing.T) {
	where := Where(
		Eq("name", "bob"),
		Condition{Field: "age", Operator: ">", Value: 30},
	)
	stmt, err := Render(Select{
		Table:   "users",
		Columns: []string{"id", "name"},
		Where:   where,
		OrderBy: []OrderBy{{Field: "age", Direction: "desc"}, {Field: "id"}},
		Page:    LimitOffset(20, 40),
	})
	require.NoError(t, err)

	assert.Equal(t,
		"SELECT `id`, `name` FROM `users` WHERE `name` = ? AND `age` > ? ORDER BY `age` DESC, `id` ASC LIMIT ? OFFSET ?",
		stmt.SQL)
	assert.Equal(t, []value.Value{
		value.Text("bob"),
		value.Integer(30),
		value.Integer(20),
		value.Integer(40),
	}, stmt.Values())
}

func TestNestedWhere(t *testing.T) {
	w := AnyOf(Eq("a", 1)).Group(
		Not(Where(In("b", []int{1, 2}), IsNull("c"))),
		Where(),
	)

	stmt, err := Render(Select{Table: "t", Where: w})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `t` WHERE `a` = ? OR (NOT (`b` IN (?, ?) AND `c` IS NULL))", stmt.SQL)
	assert.Len(t, stmt.Binds, 3)
}

func TestEmptyInList(t *testing.T) {
	stmt, err := Render(Select{Table: "t", Where: Where(
		Condition{Field: "id", Operator: "IN", Value: []any{}},
		Condition{Field: "id", Operator: "NOT IN", Value: []string{}},
	)})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `t` WHERE 1=0 AND 1=1", stmt.SQL)
	assert.Empty(t, stmt.Binds)

	_, err = Render(Select{Table: "t", Where: Where(Condition{Field: "id", Operator: "IN", Value: 3})})
	assert.Error(t, err)

	_, err = Render(Select{Table: "t", Where: Where(Condition{Field: "id", Operator: "~"})})
	assert.Error(t, err)
}

func TestSerializationErrorDiscardsStatement(t *testing.T) {
	stmt, err := Render(Select{Table: "t", Where: Where(
		Eq("ok", 1),
		Condition{Field: "n", Operator: "=", Value: 100000, Type: value.TypeSmallInt},
	)})
	require.Error(t, err)
	assert.Empty(t, stmt.SQL)
	assert.Empty(t, stmt.Binds)

	var serErr *SerializationError
	require.True(t, errors.As(err, &serErr))
	assert.Equal(t, 1, serErr.Index)
	assert.ErrorIs(t, err, ErrSerialization)
	assert.ErrorIs(t, err, value.ErrEncode)
}

func TestReturningIsRejected(t *testing.T) {
	assert.False(t, SQLite.SupportsReturning())

	_, err := Render(Returning{Columns: []string{"id"}})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnsupportedClause)

	var dialectErr *DialectError
	require.True(t, errors.As(err, &dialectErr))
	assert.Equal(t, "RETURNING", dialectErr.Clause)
	assert.Equal(t, "sqlite", dialectErr.Dialect)
}

func TestInsert(t *testing.T) {
	stmt, err := Render(Insert{
		Table:      "t",
		Columns:    []string{"a", "b"},
		Types:      []value.SQLType{value.TypeInteger},
		Rows:       [][]any{{1, "x"}, {2, nil}},
		OnConflict: &OnConflict{Target: []string{"a"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `t` (`a`, `b`) VALUES (?, ?), (?, ?) ON CONFLICT (`a`) DO NOTHING", stmt.SQL)
	assert.Equal(t, []value.Value{value.Integer(1), value.Text("x"), value.Integer(2), value.Null()}, stmt.Values())
	assert.Equal(t, value.TypeInteger, stmt.Binds[0].Type)

	stmt, err = Render(Insert{
		Table:   "t",
		Columns: []string{"a", "b"},
		Rows:    [][]any{{1, 2}},
		OnConflict: &OnConflict{
			Target: []string{"a"},
			Set:    []Assignment{Set("b", Column("excluded.b"))},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO `t` (`a`, `b`) VALUES (?, ?) ON CONFLICT (`a`) DO UPDATE SET `b` = `excluded`.`b`", stmt.SQL)

	stmt, err = Render(Insert{Table: "t", OrIgnore: true})
	require.NoError(t, err)
	assert.Equal(t, "INSERT OR IGNORE INTO `t` DEFAULT VALUES", stmt.SQL)
}

func TestInsertErrors(t *testing.T) {
	_, err := Render(Insert{Table: "t", Columns: []string{"a"}, Rows: [][]any{{Default}}})
	assert.ErrorIs(t, err, ErrUnsupportedClause)

	_, err = Render(Insert{Table: "t", Columns: []string{"a", "b"}, Rows: [][]any{{1}}})
	assert.ErrorIs(t, err, ErrRowShape)

	_, err = Render(Insert{Table: "t", Columns: []string{"a"}})
	assert.ErrorIs(t, err, ErrRowShape)

	_, err = Render(Insert{
		Table:      "t",
		Columns:    []string{"a"},
		Rows:       [][]any{{1}},
		OnConflict: &OnConflict{Set: []Assignment{Set("a", 2)}},
	})
	assert.ErrorIs(t, err, ErrUnsupportedClause)
}

func TestUpdate(t *testing.T) {
	stmt, err := Render(Update{
		Table: "t",
		Set: []Assignment{
			Set("a", 1),
			{Column: "flag", Value: true, Type: value.TypeBool},
			Set("name", Concat(Column("name"), Arg(value.TypeText, "!"))),
		},
		Where: Where(Eq("id", 2)),
	})
	require.NoError(t, err)
	assert.Equal(t, "UPDATE `t` SET `a` = ?, `flag` = ?, `name` = (`name` || ?) WHERE `id` = ?", stmt.SQL)
	assert.Equal(t, []value.Value{value.Integer(1), value.Integer(1), value.Text("!"), value.Integer(2)}, stmt.Values())

	_, err = Render(Update{Table: "t"})
	assert.ErrorIs(t, err, ErrEmptyUpdate)
}

func TestDelete(t *testing.T) {
	stmt, err := Render(Delete{Table: "t"})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `t` WHERE 1=0", stmt.SQL)

	stmt, err = Render(Delete{Table: "t", All: true})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `t`", stmt.SQL)

	stmt, err = Render(Delete{Table: "t", Where: Where(Condition{Field: "deleted_at", Operator: "IS NOT NULL"})})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `t` WHERE `deleted_at` IS NOT NULL", stmt.SQL)

	// only empty groups still count as no filter
	stmt, err = Render(Delete{Table: "t", Where: Where().Group(Where(), Not(AnyOf()))})
	require.NoError(t, err)
	assert.Equal(t, "DELETE FROM `t` WHERE 1=0", stmt.SQL)

	stmt, err = Render(Select{Table: "t", Where: &WhereClause{Groups: []*WhereClause{{}}}})
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM `t`", stmt.SQL)
}

func TestSelectWithJoins(t *testing.T) {
	stmt, err := Render(Select{
		Table:   "post",
		Columns: []string{"id"},
		Joins: []Join{{
			Type:      "left",
			Table:     "user",
			Alias:     "u",
			Condition: "`u`.`id` = `post`.`author_id`",
			Columns:   []string{"name"},
		}},
		Where: Where(Eq("u.name", "ann")),
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT `post`.`id`, `u`.`name` FROM `post` LEFT JOIN `user` AS `u` ON `u`.`id` = `post`.`author_id` WHERE `u`.`name` = ?",
		stmt.SQL)

	_, err = Render(Select{Table: "a", Joins: []Join{{Type: "RIGHT", Table: "b"}}})
	assert.ErrorIs(t, err, ErrUnsupportedClause)
}

func TestSelectAggregates(t *testing.T) {
	stmt, err := Render(Select{
		Table: "orders",
		Aggregates: []AggregateFunction{
			Count("n"),
			{Function: "sum", Field: "total", Alias: "s"},
		},
		GroupBy: &GroupBy{Fields: []string{"customer"}},
		Having:  &Having{Conditions: []Condition{{Field: "COUNT(*)", Operator: ">", Value: 1}}},
	})
	require.NoError(t, err)
	assert.Equal(t,
		"SELECT COUNT(*) AS `n`, SUM(`total`) AS `s`, `customer` FROM `orders` GROUP BY `customer` HAVING COUNT(*) > ?",
		stmt.SQL)
	assert.Equal(t, []value.Value{value.Integer(1)}, stmt.Values())

	_, err = Render(Select{Table: "t", Aggregates: []AggregateFunction{{Function: "MEDIAN", Field: "x"}}})
	assert.Error(t, err)
}

func TestRaw(t *testing.T) {
	stmt, err := Render(NewRaw("SELECT * FROM t WHERE a = ? AND b = '?' AND `c?` = ?", 1, Arg(value.TypeDate, "2021-07-01")))
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a = ? AND b = '?' AND `c?` = ?", stmt.SQL)
	require.Len(t, stmt.Binds, 2)
	assert.Equal(t, value.TypeBigInt, stmt.Binds[0].Type)
	assert.Equal(t, value.TypeDate, stmt.Binds[1].Type)

	_, err = Render(NewRaw("SELECT ?, ?", 1))
	assert.ErrorIs(t, err, ErrSerialization)

	_, err = Render(NewRaw("SELECT 1", 1))
	assert.ErrorIs(t, err, ErrSerialization)
}

func TestRawSkipsComments(t *testing.T) {
	tests := []struct {
		name  string
		sql   string
		binds int
	}{
		{"line comment", "SELECT ? -- why?", 1},
		{"line comment then more", "SELECT ? -- why?\nFROM t WHERE a = ?", 2},
		{"block comment", "SELECT /* ? */ ? FROM t", 1},
		{"unterminated block", "SELECT ? /* ?", 1},
		{"arithmetic", "SELECT ? - 1, 4 / ?", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := make([]any, tt.binds)
			for i := range args {
				args[i] = i + 1
			}
			stmt, err := Render(NewRaw(tt.sql, args...))
			require.NoError(t, err)
			assert.Equal(t, tt.sql, stmt.SQL)
			assert.Len(t, stmt.Binds, tt.binds)
		})
	}
}

func TestBindCollector(t *testing.T) {
	var c BindCollector
	require.NoError(t, c.Push(value.TypeText, "a"))
	require.NoError(t, c.Push(value.TypeText, "a"))
	require.NoError(t, c.Push(value.TypeBool, false))

	err := c.Push(value.TypeBinary, "nope")
	require.Error(t, err)
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []value.Value{value.Text("a"), value.Text("a"), value.Integer(0)}, c.Values())
}
