package sqlgen

import (
	"errors"
	"fmt"
)

var (
	// ErrSerialization is matched by every *SerializationError.
	ErrSerialization = errors.New("bind parameter cannot be serialized")

	// ErrUnsupportedClause is wrapped by DialectError.
	ErrUnsupportedClause = errors.New("clause not supported by dialect")
)

// SerializationError reports a bind parameter the codec rejected. The
// statement being rendered must be discarded.
type SerializationError struct {
	Index int
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("bind parameter %d: %v", e.Index, e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

func (e *SerializationError) Is(target error) bool { return target == ErrSerialization }

// DialectError reports a clause the dialect cannot express.
type DialectError struct {
	Dialect string
	Clause  string
}

func (e *DialectError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Dialect, e.Clause, ErrUnsupportedClause)
}

func (e *DialectError) Unwrap() error { return ErrUnsupportedClause }

var (
	errMissingArg = errors.New("placeholder has no argument")
	errExtraArgs  = errors.New("more arguments than placeholders")
)
