package aggregation

import (
	"fmt"

	hll "github.com/axiomhq/hyperloglog"

	"rollup/pkg/types"
)

// approxDistinctAcc implements APPROX_COUNT_DISTINCT with a HyperLogLog
// sketch. Memory stays constant regardless of cardinality, at the cost of
// a small relative error. NULL inputs are ignored, matching COUNT(col).
type approxDistinctAcc struct {
	sketch *hll.Sketch
}

func newApproxDistinctAcc() *approxDistinctAcc {
	return &approxDistinctAcc{sketch: hll.New()}
}

func (a *approxDistinctAcc) Add(f types.Field) error {
	if f == nil {
		return nil
	}
	a.sketch.Insert([]byte(f.String()))
	return nil
}

func (a *approxDistinctAcc) Merge(other Accumulator) error {
	o, ok := other.(*approxDistinctAcc)
	if !ok {
		return fmt.Errorf("cannot merge %T into approxDistinctAcc", other)
	}
	return a.sketch.Merge(o.sketch)
}

func (a *approxDistinctAcc) Result() types.Field {
	return types.NewIntField(int64(a.sketch.Estimate())) // #nosec G115
}
