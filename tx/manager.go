// Package tx emulates single-level transactions on a backend that only
// offers atomic batches: statements are queued while a transaction is open
// and submitted together on commit.
package tx

import (
	"context"
	"fmt"

	"github.com/kiurchv/go-d1/internal/debug"
	"github.com/kiurchv/go-d1/query/sqlgen"
)

// Status records whether the last commit succeeded.
type Status int

const (
	StatusValid Status = iota
	StatusInError
)

func (s Status) String() string {
	if s == StatusInError {
		return "in-error"
	}
	return "valid"
}

// State is the observable state of a Manager.
type State int

const (
	Idle State = iota
	Active
	InError
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case InError:
		return "in-error"
	default:
		return "idle"
	}
}

// SubmitFunc sends the queued statements to the host as one atomic batch.
type SubmitFunc func(ctx context.Context, stmts []sqlgen.Statement) error

// Manager is the transaction state machine. It is not safe for concurrent
// use; it belongs to a single connection.
type Manager struct {
	active bool
	queue  []sqlgen.Statement
	status Status
}

// NewManager returns an idle manager.
func NewManager() *Manager {
	return &Manager{}
}

// Begin opens a transaction.
func (m *Manager) Begin() error {
	switch {
	case m.active:
		return &StateError{Op: "begin", Err: ErrNestedTransaction}
	case m.status == StatusInError:
		return &StateError{Op: "begin", Err: ErrInErrorState}
	}
	m.active = true
	m.queue = nil
	debug.Debug("transaction begin")
	return nil
}

// Enqueue appends stmt to the commit batch.
func (m *Manager) Enqueue(stmt sqlgen.Statement) error {
	if !m.active {
		return &StateError{Op: "enqueue", Err: ErrNotInTransaction}
	}
	m.queue = append(m.queue, stmt)
	return nil
}

// Rollback discards the queue. Nothing has reached the host, so there is
// nothing to undo there.
func (m *Manager) Rollback() error {
	if !m.active {
		return &StateError{Op: "rollback", Err: ErrNotInTransaction}
	}
	debug.Debug("transaction rollback", "discarded", len(m.queue))
	m.finish()
	return nil
}

// Commit submits the queue in one call. An empty queue commits without
// calling submit. If submit fails the manager moves to InError and the
// error is returned.
func (m *Manager) Commit(ctx context.Context, submit SubmitFunc) error {
	if !m.active {
		return &StateError{Op: "commit", Err: ErrNotInTransaction}
	}
	queue := m.queue
	m.finish()

	if len(queue) == 0 {
		debug.Debug("transaction commit", "statements", 0)
		return nil
	}

	debug.Debug("transaction commit", "statements", len(queue))
	if err := submit(ctx, queue); err != nil {
		m.status = StatusInError
		return fmt.Errorf("tx: commit: %w", err)
	}
	return nil
}

// Reset clears a failed commit so Begin may be used again.
func (m *Manager) Reset() {
	m.finish()
	m.status = StatusValid
}

func (m *Manager) finish() {
	m.active = false
	m.queue = nil
}

// InTransaction reports whether a transaction is open.
func (m *Manager) InTransaction() bool { return m.active }

// Status returns the result of the last commit.
func (m *Manager) Status() Status { return m.status }

// State returns Idle, Active or InError.
func (m *Manager) State() State {
	switch {
	case m.active:
		return Active
	case m.status == StatusInError:
		return InError
	default:
		return Idle
	}
}

// Queue returns a copy of the statements waiting for commit.
func (m *Manager) Queue() []sqlgen.Statement {
	return append([]sqlgen.Statement(nil), m.queue...)
}

// Len returns the number of queued statements.
func (m *Manager) Len() int { return len(m.queue) }
