// Package host defines the asynchronous, dynamically typed database binding
// the driver talks to, along with small concrete helpers for implementing it.
package host

import (
	"context"

	"github.com/kiurchv/go-d1/value"
)

// Database is the host's database handle. It has no native transactions;
// Batch is the only atomic multi-statement primitive.
type Database interface {
	Prepare(ctx context.Context, sql string) (PreparedStatement, error)
	// Batch executes stmts atomically, in order, returning one result per
	// statement. Either every statement applies or none does.
	Batch(ctx context.Context, stmts []BoundStatement) ([]Result, error)
}

// PreparedStatement is a statement awaiting its parameters.
type PreparedStatement interface {
	Bind(ctx context.Context, values ...value.Value) (BoundStatement, error)
}

// BoundStatement is ready to run.
type BoundStatement interface {
	All(ctx context.Context) (Result, error)
}

// Result is the outcome of one statement.
type Result interface {
	// Error returns the host's error message, if the statement failed.
	Error() (string, bool)
	// Records returns the result rows, if the statement produced any.
	Records() ([]Record, bool)
	// Meta carries execution metadata; "changes" holds the affected row
	// count as a number.
	Meta() map[string]any
}

// Record is one opaque result row keyed by column name.
type Record interface {
	Keys() []string
	Get(name string) (any, bool)
}

// MetaChanges is the Meta key holding the affected row count.
const MetaChanges = "changes"

// Changes reads the affected row count from r's metadata.
func Changes(r Result) (int64, bool) {
	switch n := r.Meta()[MetaChanges].(type) {
	case float64:
		return int64(n), true
	case int64:
		return n, true
	case int:
		return int64(n), true
	default:
		return 0, false
	}
}
