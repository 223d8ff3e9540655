package client

import (
	"errors"
	"strings"

	"github.com/kiurchv/go-d1/query/sqlgen"
	"github.com/kiurchv/go-d1/tx"
	"github.com/kiurchv/go-d1/value"
)

// Error kinds recognized in host error messages.
var (
	// ErrDatabase is matched by every *DatabaseError.
	ErrDatabase = errors.New("database error")

	// ErrUniqueConstraint is returned when a unique constraint is violated.
	ErrUniqueConstraint = errors.New("unique constraint violation")

	// ErrForeignKeyConstraint is returned when a foreign key constraint is violated.
	ErrForeignKeyConstraint = errors.New("foreign key constraint violation")

	// ErrNullConstraint is returned when a NOT NULL constraint is violated.
	ErrNullConstraint = errors.New("null constraint violation")

	// ErrCheckConstraint is returned when a CHECK constraint is violated.
	ErrCheckConstraint = errors.New("check constraint violation")
)

// DatabaseError is a failure reported by the host. The host only supplies
// a message; the structured accessors exist for callers that expect them
// and always return "".
type DatabaseError struct {
	Message string
	// SQL is the statement that failed, when known.
	SQL   string
	Cause error
	kind  error
}

func newDatabaseError(msg, sql string, cause error) *DatabaseError {
	return &DatabaseError{Message: msg, SQL: sql, Cause: cause, kind: classify(msg)}
}

// Error implements the error interface.
func (e *DatabaseError) Error() string { return e.Message }

// Unwrap returns the underlying error.
func (e *DatabaseError) Unwrap() error { return e.Cause }

// Is matches ErrDatabase and the constraint kind parsed from the message.
func (e *DatabaseError) Is(target error) bool {
	return target == ErrDatabase || (e.kind != nil && target == e.kind)
}

func (e *DatabaseError) Details() string        { return "" }
func (e *DatabaseError) Hint() string           { return "" }
func (e *DatabaseError) TableName() string      { return "" }
func (e *DatabaseError) ColumnName() string     { return "" }
func (e *DatabaseError) ConstraintName() string { return "" }

func classify(msg string) error {
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return ErrUniqueConstraint
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return ErrForeignKeyConstraint
	case strings.Contains(msg, "NOT NULL constraint failed"):
		return ErrNullConstraint
	case strings.Contains(msg, "CHECK constraint failed"):
		return ErrCheckConstraint
	default:
		return nil
	}
}

// IsEncodeError checks if err is a value encoding failure.
func IsEncodeError(err error) bool {
	return errors.Is(err, value.ErrEncode)
}

// IsDecodeError checks if err is a value decoding failure.
func IsDecodeError(err error) bool {
	return errors.Is(err, value.ErrDecode)
}

// IsSerializationError checks if err is a bind parameter failure.
func IsSerializationError(err error) bool {
	return errors.Is(err, sqlgen.ErrSerialization)
}

// IsDialectError checks if err is an unsupported clause.
func IsDialectError(err error) bool {
	var de *sqlgen.DialectError
	return errors.As(err, &de)
}

// IsDatabaseError checks if err was reported by the host.
func IsDatabaseError(err error) bool {
	return errors.Is(err, ErrDatabase)
}

// IsTransactionStateError checks if err is a transaction verb used in the
// wrong state.
func IsTransactionStateError(err error) bool {
	return errors.Is(err, tx.ErrTransactionState)
}

// IsUniqueConstraint checks if an error is a unique constraint violation.
func IsUniqueConstraint(err error) bool {
	return errors.Is(err, ErrUniqueConstraint)
}

// IsForeignKeyConstraint checks if an error is a foreign key constraint violation.
func IsForeignKeyConstraint(err error) bool {
	return errors.Is(err, ErrForeignKeyConstraint)
}
