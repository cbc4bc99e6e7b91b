package types

// Type identifies the scalar type of a column or field value.
type Type int

const (
	IntType Type = iota
	FloatType
	StringType
	BoolType
	DateType
)

// String returns a string representation of the type.
func (t Type) String() string {
	switch t {
	case IntType:
		return "INT"
	case FloatType:
		return "FLOAT"
	case StringType:
		return "STRING"
	case BoolType:
		return "BOOL"
	case DateType:
		return "DATE"
	default:
		return "UNKNOWN"
	}
}

// Numeric reports whether values of this type support SUM and AVG.
func (t Type) Numeric() bool {
	return t == IntType || t == FloatType
}

// Comparable reports whether values of this type support MIN/MAX and
// ordering comparisons. All current scalar types are comparable except BOOL.
func (t Type) Comparable() bool {
	return t != BoolType
}
