package expr

import (
	"fmt"

	"rollup/pkg/tuple"
	"rollup/pkg/types"
)

// ArithOp is a binary arithmetic operator.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpMul
	OpDiv
)

func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	default:
		return "?"
	}
}

// Arithmetic computes a binary numeric operation over two sub-expressions,
// typically derived values over aggregates such as MAX(x) - MIN(x).
// A NULL operand yields NULL; division by zero yields NULL, never an error.
type Arithmetic struct {
	Left  Expr
	Op    ArithOp
	Right Expr

	typ types.Type
}

func NewArithmetic(left Expr, op ArithOp, right Expr) *Arithmetic {
	return &Arithmetic{Left: left, Op: op, Right: right}
}

func (a *Arithmetic) Bind(td *tuple.TupleDescription) error {
	if err := a.Left.Bind(td); err != nil {
		return err
	}
	if err := a.Right.Bind(td); err != nil {
		return err
	}

	lt, rt := a.Left.ResultType(), a.Right.ResultType()
	if !lt.Numeric() {
		return types.NewTypeMismatch(a.String(), "numeric operand", lt)
	}
	if !rt.Numeric() {
		return types.NewTypeMismatch(a.String(), "numeric operand", rt)
	}

	// INT op INT stays INT; any FLOAT operand widens the result.
	if lt == types.FloatType || rt == types.FloatType {
		a.typ = types.FloatType
	} else {
		a.typ = types.IntType
	}
	return nil
}

func (a *Arithmetic) Eval(t *tuple.Tuple) (types.Field, error) {
	left, err := a.Left.Eval(t)
	if err != nil {
		return nil, err
	}
	right, err := a.Right.Eval(t)
	if err != nil {
		return nil, err
	}
	if left == nil || right == nil {
		return nil, nil
	}

	if a.typ == types.IntType {
		lv := left.(*types.IntField).Value
		rv := right.(*types.IntField).Value
		return a.evalInt(lv, rv)
	}

	lv, err := asFloat(left)
	if err != nil {
		return nil, err
	}
	rv, err := asFloat(right)
	if err != nil {
		return nil, err
	}
	return a.evalFloat(lv, rv)
}

func (a *Arithmetic) evalInt(lv, rv int64) (types.Field, error) {
	switch a.Op {
	case OpAdd:
		return types.NewIntField(lv + rv), nil
	case OpSub:
		return types.NewIntField(lv - rv), nil
	case OpMul:
		return types.NewIntField(lv * rv), nil
	case OpDiv:
		if rv == 0 {
			return nil, nil
		}
		return types.NewIntField(lv / rv), nil
	default:
		return nil, fmt.Errorf("unknown arithmetic operator %d", a.Op)
	}
}

func (a *Arithmetic) evalFloat(lv, rv float64) (types.Field, error) {
	switch a.Op {
	case OpAdd:
		return types.NewFloatField(lv + rv), nil
	case OpSub:
		return types.NewFloatField(lv - rv), nil
	case OpMul:
		return types.NewFloatField(lv * rv), nil
	case OpDiv:
		if rv == 0 {
			return nil, nil
		}
		return types.NewFloatField(lv / rv), nil
	default:
		return nil, fmt.Errorf("unknown arithmetic operator %d", a.Op)
	}
}

func (a *Arithmetic) ResultType() types.Type { return a.typ }

func (a *Arithmetic) Children() []Expr { return []Expr{a.Left, a.Right} }

func (a *Arithmetic) String() string {
	return fmt.Sprintf("(%s %s %s)", a.Left, a.Op, a.Right)
}

func asFloat(f types.Field) (float64, error) {
	switch v := f.(type) {
	case *types.FloatField:
		return v.Value, nil
	case *types.IntField:
		return float64(v.Value), nil
	default:
		return 0, types.NewTypeMismatch("arithmetic operand", "numeric value", f.Type())
	}
}
