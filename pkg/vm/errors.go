package vm

import (
	"errors"
	"fmt"
)

// RuntimeError is implemented by the failures the core propagates to its
// caller. Everything else is either swallowed by legacy policy or a panic.
type RuntimeError interface {
	error
	Kind() string // "Thrown", "Recursion"
	Message() string
	Unwrap() error
}

// --- Concrete Error Types ---

// ThrownError carries a value raised by script code. Dispatch and coercion
// pass it through untouched.
type ThrownError struct {
	Value Value
	Cause error // Go-side failure that triggered the throw, if any
}

func (e *ThrownError) Error() string   { return "uncaught exception: " + e.Value.Inspect() }
func (e *ThrownError) Kind() string    { return "Thrown" }
func (e *ThrownError) Message() string { return e.Value.Inspect() }
func (e *ThrownError) Unwrap() error   { return e.Cause }

// Throw returns an error that raises v in script code.
func Throw(v Value) error {
	return &ThrownError{Value: v}
}

// RecursionError aborts a call chain nested deeper than the configured
// limit.
type RecursionError struct {
	Limit int
}

func (e *RecursionError) Error() string {
	return fmt.Sprintf("%d levels of recursion were exceeded in one action list", e.Limit)
}
func (e *RecursionError) Kind() string    { return "Recursion" }
func (e *RecursionError) Message() string { return e.Error() }
func (e *RecursionError) Unwrap() error   { return nil }

// IsThrown extracts the script value from a ThrownError anywhere in err's
// chain.
func IsThrown(err error) (Value, bool) {
	var thrown *ThrownError
	if errors.As(err, &thrown) {
		return thrown.Value, true
	}
	return Undefined, false
}

var (
	_ RuntimeError = (*ThrownError)(nil)
	_ RuntimeError = (*RecursionError)(nil)
)
