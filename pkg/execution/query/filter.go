// Package query implements the single-input relational operators of the
// pipeline: predicate filtering (WHERE and HAVING), projection, ordering
// and row limiting. Every operator implements iterator.DbIterator and is
// composed into a tree by the planner.
package query

import (
	"fmt"

	"rollup/pkg/expr"
	"rollup/pkg/iterator"
	"rollup/pkg/tuple"
)

// Filter passes through only the tuples whose predicate evaluates to TRUE.
// Three-valued semantics apply: both FALSE and UNKNOWN (a NULL comparison
// result) exclude the tuple. The same operator serves WHERE over raw rows
// and HAVING over finalized group rows; the planner validates which
// expressions are legal in each position.
type Filter struct {
	*iterator.UnaryOperator
	predicate expr.Expr
}

// NewFilter creates a Filter over a bound boolean expression.
func NewFilter(predicate expr.Expr, source iterator.DbIterator) (*Filter, error) {
	if predicate == nil {
		return nil, fmt.Errorf("predicate cannot be nil")
	}

	f := &Filter{predicate: predicate}
	unaryOp, err := iterator.NewUnaryOperator(source, f.readNext)
	if err != nil {
		return nil, err
	}
	f.UnaryOperator = unaryOp
	return f, nil
}

// readNext pulls tuples from the source until one satisfies the predicate
// or the input is exhausted.
func (f *Filter) readNext() (*tuple.Tuple, error) {
	for {
		t, err := f.FetchNext()
		if err != nil || t == nil {
			return t, err
		}

		result, err := expr.EvalBool(f.predicate, t)
		if err != nil {
			return nil, fmt.Errorf("predicate evaluation failed: %w", err)
		}

		if result.Passes() {
			return t, nil
		}
	}
}
