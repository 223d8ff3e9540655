// Package sqlitehost implements the host binding on top of a local SQLite
// database. Values cross the boundary in the same loose shape a JSON host
// would use: every number is a float64, blobs are bytes, rows are ordered
// records.
package sqlitehost

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"

	"github.com/kiurchv/go-d1/host"
	"github.com/kiurchv/go-d1/internal/debug"
	"github.com/kiurchv/go-d1/query/sqlgen"
	"github.com/kiurchv/go-d1/value"
)

// DB is a host.Database backed by SQLite.
type DB struct {
	db *sqlx.DB
}

// Open connects to the SQLite database at dsn (a file path or ":memory:").
func Open(ctx context.Context, dsn string) (*DB, error) {
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// a single connection keeps ":memory:" databases alive and makes
	// total_changes() refer to this connection
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Enable foreign keys (disabled by default in SQLite)
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	debug.Debug("sqlite host opened", "dsn", dsn)
	return &DB{db: db}, nil
}

// Close closes the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Prepare implements host.Database. The text is only compiled when run.
func (d *DB) Prepare(ctx context.Context, sql string) (host.PreparedStatement, error) {
	if strings.TrimSpace(sql) == "" {
		return nil, errors.New("sqlitehost: empty statement")
	}
	return &statement{db: d, sql: sql}, nil
}

// Batch implements host.Database. Statements run inside one SQLite
// transaction; the first failure rolls everything back.
func (d *DB) Batch(ctx context.Context, stmts []host.BoundStatement) ([]host.Result, error) {
	bound := make([]*boundStatement, len(stmts))
	for i, s := range stmts {
		b, ok := s.(*boundStatement)
		if !ok || b.db != d {
			return nil, fmt.Errorf("sqlitehost: batch statement %d was not prepared by this database", i)
		}
		bound[i] = b
	}

	tx, err := d.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			debug.Error("sqlite batch rollback failed", "error", err)
		}
	}()

	results := make([]host.Result, len(bound))
	for i, b := range bound {
		res, err := run(ctx, tx, b.sql, b.args)
		if err != nil {
			return nil, fmt.Errorf("batch statement %d: %w", i, err)
		}
		results[i] = res
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}
	debug.Debug("sqlite batch committed", "statements", len(bound))
	return results, nil
}

type statement struct {
	db  *DB
	sql string
}

func (s *statement) Bind(ctx context.Context, values ...value.Value) (host.BoundStatement, error) {
	args := make([]any, len(values))
	for i, v := range values {
		args[i] = v.Any()
	}
	return &boundStatement{db: s.db, sql: s.sql, args: args}, nil
}

type boundStatement struct {
	db   *DB
	sql  string
	args []any
}

// All runs the statement. SQL errors come back as a failed result, the
// way a remote host reports them; anything else is returned as an error.
func (b *boundStatement) All(ctx context.Context) (host.Result, error) {
	res, err := run(ctx, b.db.db, b.sql, b.args)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) {
			return host.Failure(err.Error()), nil
		}
		return nil, err
	}
	return res, nil
}

type queryer interface {
	sqlx.QueryerContext
	sqlx.ExecerContext
}

func run(ctx context.Context, q queryer, sql string, args []any) (host.Result, error) {
	if len(sqlgen.SplitStatements(sql)) > 1 {
		res, err := q.ExecContext(ctx, sql, args...)
		if err != nil {
			return nil, err
		}
		n, _ := res.RowsAffected()
		return host.Success([]host.Record{}, n), nil
	}

	before, err := totalChanges(ctx, q)
	if err != nil {
		return nil, err
	}

	rows, err := q.QueryxContext(ctx, sql, args...)
	if err != nil {
		return nil, err
	}
	types, err := rows.ColumnTypes()
	if err != nil {
		rows.Close()
		return nil, err
	}
	columns := make([]string, len(types))
	for i, t := range types {
		columns[i] = t.Name()
	}

	records := []host.Record{}
	for rows.Next() {
		vals, err := rows.SliceScan()
		if err != nil {
			rows.Close()
			return nil, err
		}
		for i, v := range vals {
			vals[i] = normalize(v, types[i].DatabaseTypeName())
		}
		records = append(records, host.NewRecord(columns, vals))
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, err
	}
	rows.Close()

	var changes int64
	if len(columns) == 0 {
		after, err := totalChanges(ctx, q)
		if err != nil {
			return nil, err
		}
		changes = after - before
	}
	return host.Success(records, changes), nil
}

func totalChanges(ctx context.Context, q queryer) (int64, error) {
	var n int64
	err := q.QueryRowxContext(ctx, "SELECT total_changes()").Scan(&n)
	return n, err
}

// normalize converts a driver value into the host's loose value model.
func normalize(v any, declType string) any {
	switch x := v.(type) {
	case int64:
		return float64(x)
	case bool:
		if x {
			return 1.0
		}
		return 0.0
	case time.Time:
		if strings.EqualFold(declType, "DATE") {
			return value.FormatDate(x)
		}
		return value.FormatTimestamp(x)
	default:
		return v
	}
}
