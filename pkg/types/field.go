package types

// Field is a single scalar value inside a tuple.
//
// SQL NULL is not a Field: a nil Field inside a tuple denotes NULL, and all
// NULL-sensitive logic (three-valued comparisons, grouping-key equality,
// aggregate NULL rules) lives above this interface. Implementations therefore
// only ever compare real values against real values.
type Field interface {
	// Compare evaluates `this op other` and returns the boolean result.
	// Comparing against a field of a different type is a type error.
	Compare(op Predicate, other Field) (bool, error)

	// Equals reports whether the other field holds the same typed value.
	Equals(other Field) bool

	// Hash returns a stable hash of the value, used for group partitioning.
	Hash() uint32

	// Type returns the scalar type of this field.
	Type() Type

	// String renders the value for display and for key encoding.
	String() string
}
