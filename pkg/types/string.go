package types

import "hash/fnv"

// StringField represents a text value.
type StringField struct {
	Value string
}

func NewStringField(value string) *StringField {
	return &StringField{Value: value}
}

func (f *StringField) Compare(op Predicate, other Field) (bool, error) {
	o, ok := other.(*StringField)
	if !ok {
		return false, NewTypeMismatch(
			"STRING "+op.String()+" "+other.Type().String(), "STRING operand", other.Type())
	}
	return compareOrdered(f.Value, o.Value, op), nil
}

func (f *StringField) Equals(other Field) bool {
	o, ok := other.(*StringField)
	return ok && f.Value == o.Value
}

func (f *StringField) Hash() uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(f.Value))
	return h.Sum32()
}

func (f *StringField) Type() Type {
	return StringType
}

func (f *StringField) String() string {
	return f.Value
}
