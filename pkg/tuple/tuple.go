package tuple

import (
	"fmt"
	"strings"

	"rollup/pkg/types"
)

// Tuple is a single row: an ordered set of fields conforming to a schema.
// A nil field denotes SQL NULL. Tuples are treated as immutable once a
// pipeline stage has emitted them; operators that change values build new
// tuples instead of mutating inputs.
type Tuple struct {
	TupleDesc *TupleDescription
	fields    []types.Field
}

// NewTuple creates an empty tuple for the given schema. All fields start
// as NULL until set.
func NewTuple(td *TupleDescription) *Tuple {
	return &Tuple{
		TupleDesc: td,
		fields:    make([]types.Field, td.NumFields()),
	}
}

// SetField assigns the ith field. A nil field sets the column to NULL;
// a non-nil field must match the schema type for that column.
func (t *Tuple) SetField(i int, field types.Field) error {
	if i < 0 || i >= len(t.fields) {
		return fmt.Errorf("field index %d out of bounds [0, %d)", i, len(t.fields))
	}

	if field != nil {
		expectedType, _ := t.TupleDesc.TypeAtIndex(i)
		if field.Type() != expectedType {
			return types.NewTypeMismatch(
				fmt.Sprintf("set field %d", i), expectedType.String(), field.Type())
		}
	}

	t.fields[i] = field
	return nil
}

// GetField returns the ith field. A nil result with a nil error means NULL.
func (t *Tuple) GetField(i int) (types.Field, error) {
	if i < 0 || i >= len(t.fields) {
		return nil, fmt.Errorf("field index %d out of bounds [0, %d)", i, len(t.fields))
	}
	return t.fields[i], nil
}

// IsNull reports whether the ith field is NULL.
func (t *Tuple) IsNull(i int) (bool, error) {
	f, err := t.GetField(i)
	if err != nil {
		return false, err
	}
	return f == nil, nil
}

// Clone creates a copy of this tuple sharing the same schema and fields.
// Fields are immutable values, so a shallow copy is sufficient.
func (t *Tuple) Clone() *Tuple {
	clone := NewTuple(t.TupleDesc)
	copy(clone.fields, t.fields)
	return clone
}

// String renders the row as tab-separated values with NULL spelled out.
func (t *Tuple) String() string {
	parts := make([]string, len(t.fields))
	for i, field := range t.fields {
		if field != nil {
			parts[i] = field.String()
		} else {
			parts[i] = "NULL"
		}
	}
	return strings.Join(parts, "\t")
}
