package aggregation

import (
	"fmt"

	"rollup/pkg/expr"
	"rollup/pkg/types"
)

// Spec describes one aggregate computed by the grouping engine: the
// function, its input column (resolved to an index), and the name of the
// output column it produces in the aggregated schema.
type Spec struct {
	Func     expr.AggFunc
	Column   int    // input column index; -1 for COUNT(*)
	Distinct bool
	Name     string // output column name, e.g. "SUM(salary)"
}

// Options carries dialect choices for aggregate finalization.
type Options struct {
	// SumAllNullAsZero makes SUM over zero non-NULL inputs yield 0 instead
	// of the standard SQL NULL.
	SumAllNullAsZero bool
}

// resultType returns the output type of a spec over the given input type.
// COUNT and APPROX_COUNT_DISTINCT always produce INT; the other functions
// keep the input column's type (AVG over INT uses integer division, the
// same precision as its SUM).
func (s Spec) resultType(inputType types.Type) types.Type {
	switch s.Func {
	case expr.Count, expr.ApproxCountDistinct:
		return types.IntType
	default:
		return inputType
	}
}

// validate checks the aggregate against its input column type. Schemas are
// statically typed, so every mismatch surfaces here at construction time.
func (s Spec) validate(inputType types.Type) error {
	switch s.Func {
	case expr.Count, expr.ApproxCountDistinct:
		return nil
	case expr.Sum, expr.Avg:
		if !inputType.Numeric() {
			return types.NewTypeMismatch(s.Name, "numeric column", inputType)
		}
		return nil
	case expr.Min, expr.Max:
		if !inputType.Comparable() {
			return types.NewTypeMismatch(s.Name, "comparable column", inputType)
		}
		return nil
	default:
		return fmt.Errorf("unsupported aggregate function %s", s.Func)
	}
}
