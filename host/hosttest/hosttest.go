// Package hosttest provides a scripted in-memory host database that
// records every call made to it.
package hosttest

import (
	"context"
	"errors"
	"sync"

	"github.com/kiurchv/go-d1/host"
	"github.com/kiurchv/go-d1/value"
)

// Call is one bound statement as the host saw it.
type Call struct {
	SQL    string
	Values []value.Value
}

// DB is a fake host.Database. Results are looked up by exact SQL text;
// unknown statements succeed with no rows and zero changes.
type DB struct {
	mu sync.Mutex

	results map[string]host.Result
	errs    map[string]error

	// PrepareErr, BindErr and BatchErr make the matching host call fail.
	PrepareErr error
	BindErr    error
	BatchErr   error

	prepared []string
	all      []Call
	batches  [][]Call
}

// New returns an empty fake.
func New() *DB {
	return &DB{
		results: make(map[string]host.Result),
		errs:    make(map[string]error),
	}
}

// On scripts the result returned by All for sql.
func (db *DB) On(sql string, res host.Result) *DB {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.results[sql] = res
	return db
}

// Rows scripts sql to return records built from columns and rows.
func (db *DB) Rows(sql string, columns []string, rows ...[]any) *DB {
	records := make([]host.Record, len(rows))
	for i, r := range rows {
		records[i] = host.NewRecord(columns, r)
	}
	return db.On(sql, host.Success(records, 0))
}

// Changes scripts sql to report n affected rows.
func (db *DB) Changes(sql string, n int64) *DB {
	return db.On(sql, host.Success([]host.Record{}, n))
}

// Fail scripts All for sql to be rejected with err.
func (db *DB) Fail(sql string, err error) *DB {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.errs[sql] = err
	return db
}

// Prepare implements host.Database.
func (db *DB) Prepare(ctx context.Context, sql string) (host.PreparedStatement, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.prepared = append(db.prepared, sql)
	if db.PrepareErr != nil {
		return nil, db.PrepareErr
	}
	return &prepared{db: db, sql: sql}, nil
}

// Batch implements host.Database.
func (db *DB) Batch(ctx context.Context, stmts []host.BoundStatement) ([]host.Result, error) {
	calls := make([]Call, len(stmts))
	for i, s := range stmts {
		b, ok := s.(*bound)
		if !ok {
			return nil, errors.New("hosttest: statement was not bound by this database")
		}
		calls[i] = b.call
	}

	db.mu.Lock()
	db.batches = append(db.batches, calls)
	batchErr := db.BatchErr
	db.mu.Unlock()

	if batchErr != nil {
		return nil, batchErr
	}
	results := make([]host.Result, len(stmts))
	for i, c := range calls {
		results[i] = db.resultFor(c.SQL)
	}
	return results, nil
}

func (db *DB) resultFor(sql string) host.Result {
	db.mu.Lock()
	defer db.mu.Unlock()
	if res, ok := db.results[sql]; ok {
		return res
	}
	return host.Success([]host.Record{}, 0)
}

// Prepared returns the SQL of every Prepare call.
func (db *DB) Prepared() []string {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]string(nil), db.prepared...)
}

// AllCalls returns every statement run individually.
func (db *DB) AllCalls() []Call {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([]Call(nil), db.all...)
}

// Batches returns every batch submitted.
func (db *DB) Batches() [][]Call {
	db.mu.Lock()
	defer db.mu.Unlock()
	return append([][]Call(nil), db.batches...)
}

type prepared struct {
	db  *DB
	sql string
}

func (p *prepared) Bind(ctx context.Context, values ...value.Value) (host.BoundStatement, error) {
	if p.db.BindErr != nil {
		return nil, p.db.BindErr
	}
	return &bound{db: p.db, call: Call{SQL: p.sql, Values: values}}, nil
}

type bound struct {
	db   *DB
	call Call
}

func (b *bound) All(ctx context.Context) (host.Result, error) {
	b.db.mu.Lock()
	b.db.all = append(b.db.all, b.call)
	err := b.db.errs[b.call.SQL]
	b.db.mu.Unlock()

	if err != nil {
		return nil, err
	}
	return b.db.resultFor(b.call.SQL), nil
}
