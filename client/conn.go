// Package client is the connection façade: it renders statements, runs
// them against a host database, and emulates transactions with batches.
package client

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/kiurchv/go-d1/host"
	"github.com/kiurchv/go-d1/internal/debug"
	"github.com/kiurchv/go-d1/query/sqlgen"
	"github.com/kiurchv/go-d1/row"
	"github.com/kiurchv/go-d1/tx"
)

// Conn is a single logical connection. It is not safe for concurrent use.
type Conn struct {
	db     host.Database
	tx     *tx.Manager
	chain  middlewareChain
	logger *slog.Logger
	id     string
}

// Option is a function that configures the connection.
type Option func(*Conn)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Conn) {
		c.logger = logger
	}
}

// WithMiddleware appends middleware around every host call.
func WithMiddleware(mw ...Middleware) Option {
	return func(c *Conn) {
		c.chain.Use(mw...)
	}
}

// WithConnectionID overrides the generated connection ID.
func WithConnectionID(id string) Option {
	return func(c *Conn) {
		c.id = id
	}
}

// New wraps db.
func New(db host.Database, opts ...Option) *Conn {
	c := &Conn{
		db: db,
		tx: tx.NewManager(),
		id: uuid.NewString(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.logger == nil {
		c.logger = debug.Logger()
	}
	c.logger = c.logger.With("conn_id", c.id)
	return c
}

// ID returns the connection ID attached to every event.
func (c *Conn) ID() string { return c.id }

// Use appends middleware to the chain.
func (c *Conn) Use(mw ...Middleware) { c.chain.Use(mw...) }

// Load runs a row-returning statement and returns its rows. Inside a
// transaction it still runs immediately.
func (c *Conn) Load(ctx context.Context, f sqlgen.Fragment) (*row.Rows, error) {
	stmt, err := sqlgen.Render(f)
	if err != nil {
		return nil, err
	}

	var rows *row.Rows
	err = c.run(ctx, OpLoad, stmt, func(ctx context.Context, ev *QueryEvent) error {
		res, err := c.all(ctx, stmt)
		if err != nil {
			return err
		}
		records, ok := res.Records()
		if !ok {
			panic(fmt.Sprintf("client: host returned no result set for %q", stmt.SQL))
		}
		rows = row.NewRows(records)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// Execute runs a statement and returns the number of rows it changed.
// Inside a transaction the statement is queued for the commit batch
// instead and Execute returns 0.
func (c *Conn) Execute(ctx context.Context, f sqlgen.Fragment) (int64, error) {
	stmt, err := sqlgen.Render(f)
	if err != nil {
		return 0, err
	}

	if c.tx.InTransaction() {
		c.logger.DebugContext(ctx, "statement queued", "sql", stmt.SQL, "queued", c.tx.Len()+1)
		return 0, c.tx.Enqueue(stmt)
	}

	var changes int64
	err = c.run(ctx, OpExecute, stmt, func(ctx context.Context, ev *QueryEvent) error {
		res, err := c.all(ctx, stmt)
		if err != nil {
			return err
		}
		n, ok := host.Changes(res)
		if !ok {
			panic(fmt.Sprintf("client: host result for %q has no numeric %q", stmt.SQL, host.MetaChanges))
		}
		changes = n
		ev.RowsAffected = n
		return nil
	})
	return changes, err
}

// BatchExecute sends raw SQL text, which may hold several statements, as
// a one-statement batch. Inside a transaction the text is queued for the
// commit batch instead.
func (c *Conn) BatchExecute(ctx context.Context, sql string) error {
	stmt := sqlgen.Statement{SQL: sql}
	if c.tx.InTransaction() {
		c.logger.DebugContext(ctx, "script queued", "sql", sql, "queued", c.tx.Len()+1)
		return c.tx.Enqueue(stmt)
	}
	return c.run(ctx, OpBatch, stmt, func(ctx context.Context, ev *QueryEvent) error {
		n, err := c.batch(ctx, []sqlgen.Statement{stmt})
		ev.RowsAffected = n
		return err
	})
}

// Begin opens a transaction.
func (c *Conn) Begin() error {
	return c.tx.Begin()
}

// Commit sends every queued statement as one atomic batch.
func (c *Conn) Commit(ctx context.Context) error {
	return c.tx.Commit(ctx, c.runBatch)
}

// Rollback discards the queued statements.
func (c *Conn) Rollback() error {
	return c.tx.Rollback()
}

// Transaction runs fn inside Begin/Commit. An error or panic from fn rolls
// back instead.
func (c *Conn) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := c.Begin(); err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			_ = c.Rollback()
			panic(p)
		}
	}()

	if err := fn(ctx); err != nil {
		if rbErr := c.Rollback(); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}
	return c.Commit(ctx)
}

// InTransaction reports whether a transaction is open.
func (c *Conn) InTransaction() bool { return c.tx.InTransaction() }

// TransactionState reports idle, active or in-error.
func (c *Conn) TransactionState() tx.State { return c.tx.State() }

// ResetTransaction clears a failed commit.
func (c *Conn) ResetTransaction() { c.tx.Reset() }

func (c *Conn) run(ctx context.Context, op Operation, stmt sqlgen.Statement, handler Next) error {
	ctx, traceID := ensureTraceID(ctx)
	ev := &QueryEvent{
		Operation:    op,
		SQL:          stmt.SQL,
		Binds:        len(stmt.Binds),
		Statements:   1,
		TraceID:      traceID,
		ConnectionID: c.id,
	}
	return c.chain.execute(ctx, ev, handler)
}

func (c *Conn) runBatch(ctx context.Context, stmts []sqlgen.Statement) error {
	ctx, traceID := ensureTraceID(ctx)
	binds := 0
	for _, s := range stmts {
		binds += len(s.Binds)
	}
	ev := &QueryEvent{
		Operation:    OpCommit,
		SQL:          joinSQL(stmts),
		Binds:        binds,
		Statements:   len(stmts),
		TraceID:      traceID,
		ConnectionID: c.id,
	}
	return c.chain.execute(ctx, ev, func(ctx context.Context, ev *QueryEvent) error {
		n, err := c.batch(ctx, stmts)
		ev.RowsAffected = n
		return err
	})
}

func (c *Conn) bind(ctx context.Context, stmt sqlgen.Statement) (host.BoundStatement, error) {
	prepared, err := c.db.Prepare(ctx, stmt.SQL)
	if err != nil {
		return nil, newDatabaseError(err.Error(), stmt.SQL, err)
	}
	bound, err := prepared.Bind(ctx, stmt.Values()...)
	if err != nil {
		return nil, newDatabaseError(err.Error(), stmt.SQL, err)
	}
	return bound, nil
}

func (c *Conn) all(ctx context.Context, stmt sqlgen.Statement) (host.Result, error) {
	bound, err := c.bind(ctx, stmt)
	if err != nil {
		return nil, err
	}
	res, err := bound.All(ctx)
	if err != nil {
		return nil, newDatabaseError(err.Error(), stmt.SQL, err)
	}
	if res == nil {
		panic(fmt.Sprintf("client: host returned neither result nor error for %q", stmt.SQL))
	}
	if msg, failed := res.Error(); failed {
		return nil, newDatabaseError(msg, stmt.SQL, nil)
	}
	return res, nil
}

// batch submits stmts as one host batch and sums the changes the host
// reports for them.
func (c *Conn) batch(ctx context.Context, stmts []sqlgen.Statement) (int64, error) {
	bound := make([]host.BoundStatement, len(stmts))
	for i, s := range stmts {
		b, err := c.bind(ctx, s)
		if err != nil {
			return 0, err
		}
		bound[i] = b
	}

	results, err := c.db.Batch(ctx, bound)
	if err != nil {
		return 0, newDatabaseError(err.Error(), joinSQL(stmts), err)
	}
	var total int64
	for i, res := range results {
		if res == nil {
			continue
		}
		if msg, failed := res.Error(); failed {
			return 0, newDatabaseError(msg, stmts[i].SQL, nil)
		}
		if n, ok := host.Changes(res); ok {
			total += n
		}
	}
	return total, nil
}

func joinSQL(stmts []sqlgen.Statement) string {
	parts := make([]string, len(stmts))
	for i, s := range stmts {
		parts[i] = s.SQL
	}
	return strings.Join(parts, "; ")
}
