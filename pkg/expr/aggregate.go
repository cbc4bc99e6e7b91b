package expr

import (
	"fmt"

	"rollup/pkg/tuple"
	"rollup/pkg/types"
)

// AggFunc names an aggregate function.
type AggFunc int

const (
	Count AggFunc = iota
	Sum
	Avg
	Min
	Max
	ApproxCountDistinct
)

func (f AggFunc) String() string {
	switch f {
	case Count:
		return "COUNT"
	case Sum:
		return "SUM"
	case Avg:
		return "AVG"
	case Min:
		return "MIN"
	case Max:
		return "MAX"
	case ApproxCountDistinct:
		return "APPROX_COUNT_DISTINCT"
	default:
		return "UNKNOWN"
	}
}

// Aggregate is a reference to an aggregate function application, e.g.
// COUNT(*), SUM(salary) or COUNT(DISTINCT dept).
//
// Aggregates are not evaluated per input row. The grouping stage computes
// them and publishes one output column per distinct aggregate, named by the
// aggregate's canonical String form; Bind resolves this node against that
// aggregated schema, after which it reads like a plain column. Where a node
// may legally appear (never in WHERE, only over grouped input in SELECT and
// HAVING) is enforced by query compilation, not here.
type Aggregate struct {
	Func     AggFunc
	Column   string // input column name; empty for COUNT(*)
	Star     bool   // COUNT(*) form
	Distinct bool

	index int
	typ   types.Type
	bound bool
}

// NewAggregate builds an aggregate over a named input column.
func NewAggregate(fn AggFunc, column string) *Aggregate {
	return &Aggregate{Func: fn, Column: column}
}

// NewCountStar builds the COUNT(*) aggregate.
func NewCountStar() *Aggregate {
	return &Aggregate{Func: Count, Star: true}
}

// NewDistinctAggregate builds an aggregate over the distinct values of a column.
func NewDistinctAggregate(fn AggFunc, column string) *Aggregate {
	return &Aggregate{Func: fn, Column: column, Distinct: true}
}

func (a *Aggregate) Bind(td *tuple.TupleDescription) error {
	idx, err := td.FindFieldIndex(a.String())
	if err != nil {
		return fmt.Errorf("aggregate %s not present in aggregated schema", a)
	}

	a.index = idx
	a.typ, _ = td.TypeAtIndex(idx)
	a.bound = true
	return nil
}

func (a *Aggregate) Eval(t *tuple.Tuple) (types.Field, error) {
	if !a.bound {
		return nil, fmt.Errorf("aggregate %s evaluated before binding", a)
	}
	return t.GetField(a.index)
}

func (a *Aggregate) ResultType() types.Type { return a.typ }

func (a *Aggregate) Children() []Expr { return nil }

// String is the canonical name of the aggregate output column.
func (a *Aggregate) String() string {
	if a.Star {
		return "COUNT(*)"
	}
	if a.Distinct {
		return fmt.Sprintf("%s(DISTINCT %s)", a.Func, a.Column)
	}
	return fmt.Sprintf("%s(%s)", a.Func, a.Column)
}
