package aggregation

import (
	"fmt"

	"rollup/pkg/expr"
	"rollup/pkg/types"
)

// Accumulator is the per-group running state of one aggregate function.
//
// Add is called exactly once per input row of the group, with a nil field
// for a NULL input value; implementations own the NULL rules (COUNT(*)
// counts everything, the rest ignore NULLs). Result finalizes the state
// into a scalar where nil means the SQL NULL result. Merge folds another
// accumulator of the same kind in; it exists for partition-parallel
// grouping and must be equivalent to having Added the other side's rows.
type Accumulator interface {
	Add(f types.Field) error
	Merge(other Accumulator) error
	Result() types.Field
}

// newAccumulator builds the accumulator for a spec over the given input
// column type. The Spec must already have passed validate.
func newAccumulator(s Spec, inputType types.Type, opts Options) (Accumulator, error) {
	var acc Accumulator
	switch s.Func {
	case expr.Count:
		acc = &countAcc{countNulls: s.Column < 0}
	case expr.Sum:
		if inputType == types.FloatType {
			acc = &sumFloatAcc{asZero: opts.SumAllNullAsZero}
		} else {
			acc = &sumIntAcc{asZero: opts.SumAllNullAsZero}
		}
	case expr.Avg:
		if inputType == types.FloatType {
			acc = &avgFloatAcc{}
		} else {
			acc = &avgIntAcc{}
		}
	case expr.Min:
		acc = &minMaxAcc{keep: types.LessThan}
	case expr.Max:
		acc = &minMaxAcc{keep: types.GreaterThan}
	case expr.ApproxCountDistinct:
		acc = newApproxDistinctAcc()
	default:
		return nil, fmt.Errorf("unsupported aggregate function %s", s.Func)
	}

	if s.Distinct && s.Func != expr.ApproxCountDistinct {
		acc = &distinctAcc{inner: acc, seen: make(map[string]types.Field)}
	}
	return acc, nil
}

// countAcc implements COUNT(col) and COUNT(*). Its result is never NULL.
type countAcc struct {
	countNulls bool
	count      int64
}

func (a *countAcc) Add(f types.Field) error {
	if f != nil || a.countNulls {
		a.count++
	}
	return nil
}

func (a *countAcc) Merge(other Accumulator) error {
	o, ok := other.(*countAcc)
	if !ok {
		return fmt.Errorf("cannot merge %T into countAcc", other)
	}
	a.count += o.count
	return nil
}

func (a *countAcc) Result() types.Field {
	return types.NewIntField(a.count)
}

// sumIntAcc implements SUM over integer columns.
type sumIntAcc struct {
	sum    int64
	seen   bool
	asZero bool
}

func (a *sumIntAcc) Add(f types.Field) error {
	if f == nil {
		return nil
	}
	v, ok := f.(*types.IntField)
	if !ok {
		return types.NewTypeMismatch("SUM", "INT value", f.Type())
	}
	a.sum += v.Value
	a.seen = true
	return nil
}

func (a *sumIntAcc) Merge(other Accumulator) error {
	o, ok := other.(*sumIntAcc)
	if !ok {
		return fmt.Errorf("cannot merge %T into sumIntAcc", other)
	}
	a.sum += o.sum
	a.seen = a.seen || o.seen
	return nil
}

func (a *sumIntAcc) Result() types.Field {
	if !a.seen {
		if a.asZero {
			return types.NewIntField(0)
		}
		return nil
	}
	return types.NewIntField(a.sum)
}

// sumFloatAcc implements SUM over float columns.
type sumFloatAcc struct {
	sum    float64
	seen   bool
	asZero bool
}

func (a *sumFloatAcc) Add(f types.Field) error {
	if f == nil {
		return nil
	}
	v, ok := f.(*types.FloatField)
	if !ok {
		return types.NewTypeMismatch("SUM", "FLOAT value", f.Type())
	}
	a.sum += v.Value
	a.seen = true
	return nil
}

func (a *sumFloatAcc) Merge(other Accumulator) error {
	o, ok := other.(*sumFloatAcc)
	if !ok {
		return fmt.Errorf("cannot merge %T into sumFloatAcc", other)
	}
	a.sum += o.sum
	a.seen = a.seen || o.seen
	return nil
}

func (a *sumFloatAcc) Result() types.Field {
	if !a.seen {
		if a.asZero {
			return types.NewFloatField(0)
		}
		return nil
	}
	return types.NewFloatField(a.sum)
}

// avgIntAcc implements AVG over integer columns: SUM / COUNT of non-NULL
// inputs with integer division, matching SUM's precision. Zero non-NULL
// inputs yield NULL, never a division error.
type avgIntAcc struct {
	sum   int64
	count int64
}

func (a *avgIntAcc) Add(f types.Field) error {
	if f == nil {
		return nil
	}
	v, ok := f.(*types.IntField)
	if !ok {
		return types.NewTypeMismatch("AVG", "INT value", f.Type())
	}
	a.sum += v.Value
	a.count++
	return nil
}

func (a *avgIntAcc) Merge(other Accumulator) error {
	o, ok := other.(*avgIntAcc)
	if !ok {
		return fmt.Errorf("cannot merge %T into avgIntAcc", other)
	}
	a.sum += o.sum
	a.count += o.count
	return nil
}

func (a *avgIntAcc) Result() types.Field {
	if a.count == 0 {
		return nil
	}
	return types.NewIntField(a.sum / a.count)
}

// avgFloatAcc implements AVG over float columns.
type avgFloatAcc struct {
	sum   float64
	count int64
}

func (a *avgFloatAcc) Add(f types.Field) error {
	if f == nil {
		return nil
	}
	v, ok := f.(*types.FloatField)
	if !ok {
		return types.NewTypeMismatch("AVG", "FLOAT value", f.Type())
	}
	a.sum += v.Value
	a.count++
	return nil
}

func (a *avgFloatAcc) Merge(other Accumulator) error {
	o, ok := other.(*avgFloatAcc)
	if !ok {
		return fmt.Errorf("cannot merge %T into avgFloatAcc", other)
	}
	a.sum += o.sum
	a.count += o.count
	return nil
}

func (a *avgFloatAcc) Result() types.Field {
	if a.count == 0 {
		return nil
	}
	return types.NewFloatField(a.sum / float64(a.count))
}

// minMaxAcc implements MIN and MAX over any comparable column. keep is the
// comparison a candidate must win against the current best to replace it.
type minMaxAcc struct {
	keep types.Predicate
	best types.Field
}

func (a *minMaxAcc) Add(f types.Field) error {
	if f == nil {
		return nil
	}
	if a.best == nil {
		a.best = f
		return nil
	}

	better, err := f.Compare(a.keep, a.best)
	if err != nil {
		return err
	}
	if better {
		a.best = f
	}
	return nil
}

func (a *minMaxAcc) Merge(other Accumulator) error {
	o, ok := other.(*minMaxAcc)
	if !ok {
		return fmt.Errorf("cannot merge %T into minMaxAcc", other)
	}
	if o.best == nil {
		return nil
	}
	return a.Add(o.best)
}

func (a *minMaxAcc) Result() types.Field {
	return a.best
}

// distinctAcc deduplicates non-NULL input values before feeding the inner
// accumulator. Seen values are retained so two partial accumulators can be
// merged without double counting.
type distinctAcc struct {
	inner Accumulator
	seen  map[string]types.Field
}

func (a *distinctAcc) Add(f types.Field) error {
	if f == nil {
		return a.inner.Add(nil)
	}

	key := f.String()
	if _, ok := a.seen[key]; ok {
		return nil
	}
	a.seen[key] = f
	return a.inner.Add(f)
}

func (a *distinctAcc) Merge(other Accumulator) error {
	o, ok := other.(*distinctAcc)
	if !ok {
		return fmt.Errorf("cannot merge %T into distinctAcc", other)
	}

	for key, f := range o.seen {
		if _, dup := a.seen[key]; dup {
			continue
		}
		a.seen[key] = f
		if err := a.inner.Add(f); err != nil {
			return err
		}
	}
	return nil
}

func (a *distinctAcc) Result() types.Field {
	return a.inner.Result()
}
