package tx

import (
	"errors"
	"fmt"
)

var (
	// ErrTransactionState is matched by every *StateError.
	ErrTransactionState = errors.New("invalid transaction state")

	// ErrNotInTransaction is returned by Commit, Rollback and Enqueue
	// outside a transaction.
	ErrNotInTransaction = errors.New("not in a transaction")

	// ErrNestedTransaction is returned by Begin inside a transaction.
	ErrNestedTransaction = errors.New("nested transactions are not supported")

	// ErrInErrorState is returned by Begin after a failed commit until the
	// manager is reset.
	ErrInErrorState = errors.New("previous commit failed; reset required")
)

// StateError reports a transaction verb used in the wrong state.
type StateError struct {
	Op  string
	Err error
}

func (e *StateError) Error() string {
	return fmt.Sprintf("tx: %s: %v", e.Op, e.Err)
}

func (e *StateError) Unwrap() error { return e.Err }

func (e *StateError) Is(target error) bool { return target == ErrTransactionState }
