package types

import (
	"encoding/binary"
	"hash/fnv"
	"strconv"
)

// IntField represents a 64-bit signed integer value.
type IntField struct {
	Value int64
}

func NewIntField(value int64) *IntField {
	return &IntField{Value: value}
}

func (f *IntField) Compare(op Predicate, other Field) (bool, error) {
	switch o := other.(type) {
	case *IntField:
		return compareOrdered(f.Value, o.Value, op), nil
	case *FloatField:
		// Numeric cross-type comparison promotes to float.
		return compareOrdered(float64(f.Value), o.Value, op), nil
	default:
		return false, NewTypeMismatch(
			"INT "+op.String()+" "+other.Type().String(), "numeric operand", other.Type())
	}
}

func (f *IntField) Equals(other Field) bool {
	o, ok := other.(*IntField)
	return ok && f.Value == o.Value
}

func (f *IntField) Hash() uint32 {
	h := fnv.New32a()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(f.Value)) // #nosec G115
	_, _ = h.Write(buf[:])
	return h.Sum32()
}

func (f *IntField) Type() Type {
	return IntType
}

func (f *IntField) String() string {
	return strconv.FormatInt(f.Value, 10)
}
