package tuple

import (
	"fmt"
	"time"

	"rollup/pkg/types"
)

// Builder assembles tuples against a fixed schema by column name.
// Mainly a convenience for row sources and tests.
type Builder struct {
	td  *TupleDescription
	tup *Tuple
	err error
}

func NewBuilder(td *TupleDescription) *Builder {
	return &Builder{td: td, tup: NewTuple(td)}
}

// Set assigns a column from a native Go value. Supported values: int,
// int64, float64, string, bool, time.Time, a types.Field, or nil for NULL.
func (b *Builder) Set(column string, value any) *Builder {
	if b.err != nil {
		return b
	}

	idx, err := b.td.FindFieldIndex(column)
	if err != nil {
		b.err = err
		return b
	}

	field, err := fieldOf(value)
	if err != nil {
		b.err = fmt.Errorf("column %s: %w", column, err)
		return b
	}

	b.err = b.tup.SetField(idx, field)
	return b
}

// Build returns the assembled tuple, or the first error encountered.
// The builder is reset so it can assemble the next row.
func (b *Builder) Build() (*Tuple, error) {
	if b.err != nil {
		err := b.err
		b.err = nil
		b.tup = NewTuple(b.td)
		return nil, err
	}

	tup := b.tup
	b.tup = NewTuple(b.td)
	return tup, nil
}

func fieldOf(value any) (types.Field, error) {
	switch v := value.(type) {
	case nil:
		return nil, nil
	case types.Field:
		return v, nil
	case int:
		return types.NewIntField(int64(v)), nil
	case int64:
		return types.NewIntField(v), nil
	case float64:
		return types.NewFloatField(v), nil
	case string:
		return types.NewStringField(v), nil
	case bool:
		return types.NewBoolField(v), nil
	case time.Time:
		return types.NewDateField(v), nil
	default:
		return nil, fmt.Errorf("unsupported value type %T", value)
	}
}
