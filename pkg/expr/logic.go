package expr

import (
	"fmt"

	"rollup/pkg/tuple"
	"rollup/pkg/types"
)

// EvalBool evaluates an expression as a three-valued boolean. A NULL result
// maps to Unknown; callers at filter boundaries fold Unknown to excluded.
func EvalBool(e Expr, t *tuple.Tuple) (types.TriBool, error) {
	field, err := e.Eval(t)
	if err != nil {
		return types.Unknown, err
	}
	if field == nil {
		return types.Unknown, nil
	}

	boolField, ok := field.(*types.BoolField)
	if !ok {
		return types.Unknown, types.NewTypeMismatch(
			e.String(), "BOOL result", field.Type())
	}
	return types.TriBoolOf(boolField.Value), nil
}

// Comparison compares two sub-expressions with a relational operator.
// If either side evaluates to NULL the comparison result is NULL (Unknown).
type Comparison struct {
	Left  Expr
	Op    types.Predicate
	Right Expr
}

func NewComparison(left Expr, op types.Predicate, right Expr) *Comparison {
	return &Comparison{Left: left, Op: op, Right: right}
}

func (c *Comparison) Bind(td *tuple.TupleDescription) error {
	if err := c.Left.Bind(td); err != nil {
		return err
	}
	if err := c.Right.Bind(td); err != nil {
		return err
	}

	lt, rt := c.Left.ResultType(), c.Right.ResultType()
	if !comparableTypes(lt, rt) {
		return types.NewTypeMismatch(c.String(), lt.String()+" operand", rt)
	}
	return nil
}

func (c *Comparison) Eval(t *tuple.Tuple) (types.Field, error) {
	left, err := c.Left.Eval(t)
	if err != nil {
		return nil, err
	}
	right, err := c.Right.Eval(t)
	if err != nil {
		return nil, err
	}

	// NULL never compares equal (or unequal) to anything, including NULL.
	if left == nil || right == nil {
		return nil, nil
	}

	result, err := left.Compare(c.Op, right)
	if err != nil {
		return nil, err
	}
	return types.NewBoolField(result), nil
}

func (c *Comparison) ResultType() types.Type { return types.BoolType }

func (c *Comparison) Children() []Expr { return []Expr{c.Left, c.Right} }

func (c *Comparison) String() string {
	return fmt.Sprintf("%s %s %s", c.Left, c.Op, c.Right)
}

// comparableTypes reports whether two scalar types may be compared.
// Numeric types compare across INT/FLOAT; everything else must match.
func comparableTypes(a, b types.Type) bool {
	if a.Numeric() && b.Numeric() {
		return true
	}
	return a == b
}

// LogicalOp is a binary boolean connective.
type LogicalOp int

const (
	OpAnd LogicalOp = iota
	OpOr
)

func (op LogicalOp) String() string {
	if op == OpAnd {
		return "AND"
	}
	return "OR"
}

// Logical combines two boolean sub-expressions under Kleene three-valued
// semantics, short-circuiting on a dominant left result.
type Logical struct {
	Left  Expr
	Op    LogicalOp
	Right Expr
}

func NewAnd(left, right Expr) *Logical {
	return &Logical{Left: left, Op: OpAnd, Right: right}
}

func NewOr(left, right Expr) *Logical {
	return &Logical{Left: left, Op: OpOr, Right: right}
}

func (l *Logical) Bind(td *tuple.TupleDescription) error {
	if err := l.Left.Bind(td); err != nil {
		return err
	}
	if err := l.Right.Bind(td); err != nil {
		return err
	}

	if lt := l.Left.ResultType(); lt != types.BoolType {
		return types.NewTypeMismatch(l.String(), "BOOL operand", lt)
	}
	if rt := l.Right.ResultType(); rt != types.BoolType {
		return types.NewTypeMismatch(l.String(), "BOOL operand", rt)
	}
	return nil
}

func (l *Logical) Eval(t *tuple.Tuple) (types.Field, error) {
	left, err := EvalBool(l.Left, t)
	if err != nil {
		return nil, err
	}

	// FALSE AND x and TRUE OR x are decided without the right side.
	if l.Op == OpAnd && left == types.False {
		return types.NewBoolField(false), nil
	}
	if l.Op == OpOr && left == types.True {
		return types.NewBoolField(true), nil
	}

	right, err := EvalBool(l.Right, t)
	if err != nil {
		return nil, err
	}

	var combined types.TriBool
	if l.Op == OpAnd {
		combined = left.And(right)
	} else {
		combined = left.Or(right)
	}

	if combined == types.Unknown {
		return nil, nil
	}
	return types.NewBoolField(combined == types.True), nil
}

func (l *Logical) ResultType() types.Type { return types.BoolType }

func (l *Logical) Children() []Expr { return []Expr{l.Left, l.Right} }

func (l *Logical) String() string {
	return fmt.Sprintf("(%s %s %s)", l.Left, l.Op, l.Right)
}

// Not negates a boolean sub-expression; NOT NULL stays NULL.
type Not struct {
	Inner Expr
}

func NewNot(inner Expr) *Not {
	return &Not{Inner: inner}
}

func (n *Not) Bind(td *tuple.TupleDescription) error {
	if err := n.Inner.Bind(td); err != nil {
		return err
	}
	if it := n.Inner.ResultType(); it != types.BoolType {
		return types.NewTypeMismatch(n.String(), "BOOL operand", it)
	}
	return nil
}

func (n *Not) Eval(t *tuple.Tuple) (types.Field, error) {
	inner, err := EvalBool(n.Inner, t)
	if err != nil {
		return nil, err
	}

	switch inner.Not() {
	case types.True:
		return types.NewBoolField(true), nil
	case types.False:
		return types.NewBoolField(false), nil
	default:
		return nil, nil
	}
}

func (n *Not) ResultType() types.Type { return types.BoolType }

func (n *Not) Children() []Expr { return []Expr{n.Inner} }

func (n *Not) String() string { return fmt.Sprintf("NOT (%s)", n.Inner) }
