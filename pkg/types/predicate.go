package types

// Predicate is a comparison operation between two scalar values.
type Predicate int

const (
	Equals Predicate = iota
	NotEqual
	LessThan
	LessThanOrEqual
	GreaterThan
	GreaterThanOrEqual
)

func (p Predicate) String() string {
	switch p {
	case Equals:
		return "="
	case NotEqual:
		return "<>"
	case LessThan:
		return "<"
	case LessThanOrEqual:
		return "<="
	case GreaterThan:
		return ">"
	case GreaterThanOrEqual:
		return ">="
	default:
		return "UNKNOWN"
	}
}

// compareOrdered evaluates op over any ordered Go type.
// Shared by the numeric, string and date field implementations.
func compareOrdered[T int64 | float64 | string](a, b T, op Predicate) bool {
	switch op {
	case Equals:
		return a == b
	case NotEqual:
		return a != b
	case LessThan:
		return a < b
	case LessThanOrEqual:
		return a <= b
	case GreaterThan:
		return a > b
	case GreaterThanOrEqual:
		return a >= b
	default:
		return false
	}
}
