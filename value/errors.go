package value

import (
	"errors"
	"fmt"
)

var (
	// ErrEncode is returned when a Go value cannot be represented as a host value.
	ErrEncode = errors.New("value cannot be encoded")

	// ErrDecode is returned when a host value does not match the declared type.
	ErrDecode = errors.New("value cannot be decoded")

	// ErrNull is wrapped by DecodeError when a typed decode meets NULL.
	ErrNull = errors.New("unexpected null")
)

// EncodeError describes a value that has no host representation.
type EncodeError struct {
	Type  SQLType
	Value any
	Cause error
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("encode %s from %T: %v", e.Type, e.Value, e.Cause)
	}
	return fmt.Sprintf("encode %s from %T: unsupported value", e.Type, e.Value)
}

// Unwrap returns the underlying error.
func (e *EncodeError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrEncode.
func (e *EncodeError) Is(target error) bool { return target == ErrEncode }

// DecodeError describes a host value that does not match its declared type.
// Text carries the original textual input when there was one.
type DecodeError struct {
	Type  SQLType
	Raw   any
	Text  string
	Cause error
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	switch {
	case e.Text != "" && e.Cause != nil:
		return fmt.Sprintf("decode %s from %q: %v", e.Type, e.Text, e.Cause)
	case e.Text != "":
		return fmt.Sprintf("invalid %s %q", e.Type, e.Text)
	case e.Cause != nil:
		return fmt.Sprintf("decode %s from %T: %v", e.Type, e.Raw, e.Cause)
	default:
		return fmt.Sprintf("decode %s from %T: type mismatch", e.Type, e.Raw)
	}
}

// Unwrap returns the underlying error.
func (e *DecodeError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ContractViolation is the panic payload raised when the host hands back a
// value that breaks the storage contract, such as a boolean column holding 2.
type ContractViolation struct {
	Type SQLType
	Raw  any
}

func (c *ContractViolation) Error() string {
	return fmt.Sprintf("corrupt %s value %v", c.Type, c.Raw)
}
