package types

// BoolField represents a boolean value. It supports only equality
// comparisons; booleans have no defined ordering here.
type BoolField struct {
	Value bool
}

func NewBoolField(value bool) *BoolField {
	return &BoolField{Value: value}
}

func (f *BoolField) Compare(op Predicate, other Field) (bool, error) {
	o, ok := other.(*BoolField)
	if !ok {
		return false, NewTypeMismatch(
			"BOOL "+op.String()+" "+other.Type().String(), "BOOL operand", other.Type())
	}

	switch op {
	case Equals:
		return f.Value == o.Value, nil
	case NotEqual:
		return f.Value != o.Value, nil
	default:
		return false, NewTypeMismatch("BOOL "+op.String(), "equality comparison", BoolType)
	}
}

func (f *BoolField) Equals(other Field) bool {
	o, ok := other.(*BoolField)
	return ok && f.Value == o.Value
}

func (f *BoolField) Hash() uint32 {
	if f.Value {
		return 1
	}
	return 0
}

func (f *BoolField) Type() Type {
	return BoolType
}

func (f *BoolField) String() string {
	if f.Value {
		return "true"
	}
	return "false"
}
