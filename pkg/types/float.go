package types

import (
	"encoding/binary"
	"hash/fnv"
	"math"
	"strconv"
)

// FloatField represents a 64-bit floating point value.
type FloatField struct {
	Value float64
}

func NewFloatField(value float64) *FloatField {
	return &FloatField{Value: value}
}

func (f *FloatField) Compare(op Predicate, other Field) (bool, error) {
	switch o := other.(type) {
	case *FloatField:
		return compareOrdered(f.Value, o.Value, op), nil
	case *IntField:
		return compareOrdered(f.Value, float64(o.Value), op), nil
	default:
		return false, NewTypeMismatch(
			"FLOAT "+op.String()+" "+other.Type().String(), "numeric operand", other.Type())
	}
}

func (f *FloatField) Equals(other Field) bool {
	o, ok := other.(*FloatField)
	return ok && f.Value == o.Value
}

func (f *FloatField) Hash() uint32 {
	h := fnv.New32a()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(f.Value))
	_, _ = h.Write(buf[:])
	return h.Sum32()
}

func (f *FloatField) Type() Type {
	return FloatType
}

func (f *FloatField) String() string {
	return strconv.FormatFloat(f.Value, 'g', -1, 64)
}
