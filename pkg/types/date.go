package types

import (
	"encoding/binary"
	"hash/fnv"
	"time"
)

// DateLayout is the canonical rendering of date values.
const DateLayout = "2006-01-02"

// DateField represents a calendar date. Values are normalized to UTC
// midnight so that equality and grouping ignore time-of-day and zone.
type DateField struct {
	Value time.Time
}

func NewDateField(value time.Time) *DateField {
	y, m, d := value.Date()
	return &DateField{Value: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate builds a DateField from its canonical YYYY-MM-DD form.
func ParseDate(s string) (*DateField, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return nil, err
	}
	return NewDateField(t), nil
}

func (f *DateField) Compare(op Predicate, other Field) (bool, error) {
	o, ok := other.(*DateField)
	if !ok {
		return false, NewTypeMismatch(
			"DATE "+op.String()+" "+other.Type().String(), "DATE operand", other.Type())
	}
	return compareOrdered(f.Value.Unix(), o.Value.Unix(), op), nil
}

func (f *DateField) Equals(other Field) bool {
	o, ok := other.(*DateField)
	return ok && f.Value.Equal(o.Value)
}

func (f *DateField) Hash() uint32 {
	h := fnv.New32a()
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(f.Value.Unix())) // #nosec G115
	_, _ = h.Write(buf[:])
	return h.Sum32()
}

func (f *DateField) Type() Type {
	return DateType
}

func (f *DateField) String() string {
	return f.Value.Format(DateLayout)
}
