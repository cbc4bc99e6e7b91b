package types

import "fmt"

// TypeMismatchError reports a value or aggregate applied to an incompatible
// type, e.g. SUM over a text column or comparing an INT against a STRING.
// Schemas are statically typed, so these are normally raised while a query is
// compiled, before any row is processed.
type TypeMismatchError struct {
	// Context names the operation that failed, e.g. "SUM(name)" or "salary > 'x'".
	Context  string
	Expected string
	Actual   Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("type mismatch in %s: expected %s, got %s",
		e.Context, e.Expected, e.Actual)
}

// NewTypeMismatch builds a TypeMismatchError for the given operation context.
func NewTypeMismatch(context, expected string, actual Type) *TypeMismatchError {
	return &TypeMismatchError{Context: context, Expected: expected, Actual: actual}
}
