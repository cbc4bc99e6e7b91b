package query

import (
	"fmt"

	"rollup/pkg/expr"
	"rollup/pkg/iterator"
	"rollup/pkg/tuple"
	"rollup/pkg/types"
)

// OutputColumn is one item of a validated select list: a bound expression
// and the name it carries in the output schema.
type OutputColumn struct {
	Expr expr.Expr
	Name string
}

// Project evaluates the select list against each input tuple and emits
// output rows with exactly the declared columns. Expressions must already
// be bound to the source schema; the projection rule (no bare ungrouped
// columns next to aggregates) is enforced by the planner before this
// operator is ever constructed.
type Project struct {
	*iterator.UnaryOperator
	columns   []OutputColumn
	tupleDesc *tuple.TupleDescription
}

// NewProject creates a Project operator emitting the given output columns.
func NewProject(columns []OutputColumn, source iterator.DbIterator) (*Project, error) {
	if len(columns) == 0 {
		return nil, fmt.Errorf("must project at least one column")
	}

	fieldTypes := make([]types.Type, len(columns))
	fieldNames := make([]string, len(columns))
	for i, col := range columns {
		if col.Expr == nil {
			return nil, fmt.Errorf("projection column %d has nil expression", i)
		}
		fieldTypes[i] = col.Expr.ResultType()
		fieldNames[i] = col.Name
	}

	tupleDesc, err := tuple.NewTupleDesc(fieldTypes, fieldNames)
	if err != nil {
		return nil, fmt.Errorf("failed to create output tuple desc: %w", err)
	}

	p := &Project{columns: columns, tupleDesc: tupleDesc}
	unaryOp, err := iterator.NewUnaryOperator(source, p.readNext)
	if err != nil {
		return nil, err
	}
	p.UnaryOperator = unaryOp
	return p, nil
}

func (p *Project) readNext() (*tuple.Tuple, error) {
	t, err := p.FetchNext()
	if err != nil || t == nil {
		return t, err
	}

	out := tuple.NewTuple(p.tupleDesc)
	for i, col := range p.columns {
		value, err := col.Expr.Eval(t)
		if err != nil {
			return nil, fmt.Errorf("failed to evaluate %s: %w", col.Name, err)
		}
		if err := out.SetField(i, value); err != nil {
			return nil, fmt.Errorf("failed to set output column %s: %w", col.Name, err)
		}
	}
	return out, nil
}

// GetTupleDesc returns the projected output schema.
func (p *Project) GetTupleDesc() *tuple.TupleDescription {
	return p.tupleDesc
}
