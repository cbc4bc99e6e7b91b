// Package expr implements the expression trees evaluated by the query
// pipeline: column references, literals, comparisons, boolean logic and
// arithmetic, plus aggregate references that bind against an aggregated
// schema.
//
// Expressions follow a compile-then-execute design. Bind resolves column
// names to indexes and checks operand types against a schema before any row
// is read; Eval then runs per row without further validation. A nil
// types.Field result from Eval denotes SQL NULL.
package expr

import (
	"fmt"

	"rollup/pkg/tuple"
	"rollup/pkg/types"
)

// Expr is a node in a validated expression tree.
type Expr interface {
	// Bind resolves column references against the given schema and type
	// checks the node. Must be called before Eval.
	Bind(td *tuple.TupleDescription) error

	// Eval computes the node's value for one tuple. A nil field is NULL.
	Eval(t *tuple.Tuple) (types.Field, error)

	// ResultType returns the type produced by this node. Valid after Bind.
	ResultType() types.Type

	// Children returns the node's direct sub-expressions.
	Children() []Expr

	String() string
}

// Walk visits e and all of its descendants in pre-order.
func Walk(e Expr, visit func(Expr)) {
	if e == nil {
		return
	}
	visit(e)
	for _, child := range e.Children() {
		Walk(child, visit)
	}
}

// ContainsAggregate reports whether the tree holds any aggregate reference.
func ContainsAggregate(e Expr) bool {
	found := false
	Walk(e, func(node Expr) {
		if _, ok := node.(*Aggregate); ok {
			found = true
		}
	})
	return found
}

// Columns returns the names of all bare column references in the tree.
// Columns inside aggregate references are not included; an aggregate owns
// its input column.
func Columns(e Expr) []string {
	var cols []string
	Walk(e, func(node Expr) {
		if c, ok := node.(*Column); ok {
			cols = append(cols, c.Name)
		}
	})
	return cols
}

// Column is a reference to a named column of the input schema.
type Column struct {
	Name string

	index int
	typ   types.Type
	bound bool
}

func NewColumn(name string) *Column {
	return &Column{Name: name}
}

func (c *Column) Bind(td *tuple.TupleDescription) error {
	idx, err := td.FindFieldIndex(c.Name)
	if err != nil {
		return err
	}

	c.index = idx
	c.typ, _ = td.TypeAtIndex(idx)
	c.bound = true
	return nil
}

func (c *Column) Eval(t *tuple.Tuple) (types.Field, error) {
	if !c.bound {
		return nil, fmt.Errorf("column %s evaluated before binding", c.Name)
	}
	return t.GetField(c.index)
}

func (c *Column) ResultType() types.Type { return c.typ }

func (c *Column) Children() []Expr { return nil }

func (c *Column) String() string { return c.Name }

// Literal is a constant scalar value.
type Literal struct {
	Value types.Field
}

func NewLiteral(value types.Field) *Literal {
	return &Literal{Value: value}
}

func (l *Literal) Bind(td *tuple.TupleDescription) error {
	if l.Value == nil {
		return fmt.Errorf("literal value cannot be nil")
	}
	return nil
}

func (l *Literal) Eval(t *tuple.Tuple) (types.Field, error) {
	return l.Value, nil
}

func (l *Literal) ResultType() types.Type { return l.Value.Type() }

func (l *Literal) Children() []Expr { return nil }

func (l *Literal) String() string {
	if l.Value.Type() == types.StringType {
		return "'" + l.Value.String() + "'"
	}
	return l.Value.String()
}
