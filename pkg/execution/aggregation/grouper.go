package aggregation

import (
	"fmt"
	"sort"

	"rollup/pkg/tuple"
	"rollup/pkg/types"
)

// Config describes one grouping run: the grouping columns (empty for the
// single implicit group over all rows), the aggregates to compute, and the
// dialect options.
type Config struct {
	GroupBy []int
	Specs   []Spec
	Options Options
}

// group is the running state for one group key: the key's field values,
// one accumulator per aggregate, and the input position of the first row
// routed here (used to keep first-seen output order, also across merges).
type group struct {
	keyFields []types.Field
	accs      []Accumulator
	firstRow  int64
}

// GroupAggregator is the grouping engine: a single pass over the input
// routes every row to exactly one group, created lazily on first sight.
// Groups are finalized only after the full input has been consumed, so a
// downstream HAVING filter can never observe partial aggregates.
type GroupAggregator struct {
	cfg        Config
	inputDesc  *tuple.TupleDescription
	resultDesc *tuple.TupleDescription
	groups     map[string]*group
	order      []string
	rows       int64
}

// NewGroupAggregator validates the configuration against the input schema
// and builds the aggregated output schema: grouping columns first, then
// one column per aggregate named by its canonical form.
func NewGroupAggregator(inputDesc *tuple.TupleDescription, cfg Config) (*GroupAggregator, error) {
	if inputDesc == nil {
		return nil, fmt.Errorf("input tuple description cannot be nil")
	}
	if len(cfg.GroupBy)+len(cfg.Specs) == 0 {
		return nil, fmt.Errorf("grouping requires at least one group column or aggregate")
	}

	var fieldTypes []types.Type
	var fieldNames []string

	for _, col := range cfg.GroupBy {
		colType, err := inputDesc.TypeAtIndex(col)
		if err != nil {
			return nil, fmt.Errorf("invalid grouping column: %w", err)
		}
		name, _ := inputDesc.GetFieldName(col)
		fieldTypes = append(fieldTypes, colType)
		fieldNames = append(fieldNames, name)
	}

	for _, spec := range cfg.Specs {
		inputType := types.IntType
		if spec.Column >= 0 {
			var err error
			inputType, err = inputDesc.TypeAtIndex(spec.Column)
			if err != nil {
				return nil, fmt.Errorf("invalid aggregate column in %s: %w", spec.Name, err)
			}
		}
		if err := spec.validate(inputType); err != nil {
			return nil, err
		}
		fieldTypes = append(fieldTypes, spec.resultType(inputType))
		fieldNames = append(fieldNames, spec.Name)
	}

	resultDesc, err := tuple.NewTupleDesc(fieldTypes, fieldNames)
	if err != nil {
		return nil, err
	}

	return &GroupAggregator{
		cfg:        cfg,
		inputDesc:  inputDesc,
		resultDesc: resultDesc,
		groups:     make(map[string]*group),
	}, nil
}

// ResultDesc returns the aggregated output schema.
func (ga *GroupAggregator) ResultDesc() *tuple.TupleDescription {
	return ga.resultDesc
}

// Merge routes one row into its group and advances every accumulator.
func (ga *GroupAggregator) Merge(tup *tuple.Tuple) error {
	row := ga.rows
	ga.rows++
	return ga.mergeAt(tup, row)
}

// mergeAt is Merge with an explicit input position; the parallel drain
// supplies global positions so first-seen order survives partitioning.
func (ga *GroupAggregator) mergeAt(tup *tuple.Tuple, row int64) error {
	keyFields := make([]types.Field, len(ga.cfg.GroupBy))
	for i, col := range ga.cfg.GroupBy {
		f, err := tup.GetField(col)
		if err != nil {
			return fmt.Errorf("failed to read grouping column %d: %w", col, err)
		}
		keyFields[i] = f
	}

	g, err := ga.ensureGroup(encodeGroupKey(keyFields), keyFields, row)
	if err != nil {
		return err
	}

	for i, spec := range ga.cfg.Specs {
		var f types.Field
		if spec.Column >= 0 {
			f, err = tup.GetField(spec.Column)
			if err != nil {
				return fmt.Errorf("failed to read aggregate column for %s: %w", spec.Name, err)
			}
		}
		if err := g.accs[i].Add(f); err != nil {
			return fmt.Errorf("%s: %w", spec.Name, err)
		}
	}
	return nil
}

func (ga *GroupAggregator) ensureGroup(key string, keyFields []types.Field, row int64) (*group, error) {
	if g, ok := ga.groups[key]; ok {
		if row < g.firstRow {
			g.firstRow = row
		}
		return g, nil
	}

	g := &group{keyFields: keyFields, firstRow: row}
	for _, spec := range ga.cfg.Specs {
		inputType := types.IntType
		if spec.Column >= 0 {
			inputType, _ = ga.inputDesc.TypeAtIndex(spec.Column)
		}
		acc, err := newAccumulator(spec, inputType, ga.cfg.Options)
		if err != nil {
			return nil, err
		}
		g.accs = append(g.accs, acc)
	}

	ga.groups[key] = g
	ga.order = append(ga.order, key)
	return g, nil
}

// InitializeDefault creates the implicit group for whole-table aggregation
// so that COUNT(*) over empty input still yields a single row with 0.
// Grouped aggregation deliberately emits nothing for empty input: empty
// groups do not exist.
func (ga *GroupAggregator) InitializeDefault() error {
	if len(ga.cfg.GroupBy) != 0 {
		return nil
	}
	_, err := ga.ensureGroup(encodeGroupKey(nil), nil, 0)
	return err
}

// mergeFrom folds another aggregator's groups into this one. Both must
// share the same configuration. Disjoint groups are adopted as-is;
// overlapping groups merge accumulator by accumulator.
func (ga *GroupAggregator) mergeFrom(other *GroupAggregator) error {
	for _, key := range other.order {
		og := other.groups[key]
		mine, ok := ga.groups[key]
		if !ok {
			ga.groups[key] = og
			ga.order = append(ga.order, key)
			continue
		}

		if og.firstRow < mine.firstRow {
			mine.firstRow = og.firstRow
		}
		for i := range mine.accs {
			if err := mine.accs[i].Merge(og.accs[i]); err != nil {
				return err
			}
		}
	}
	return nil
}

// sortByFirstSeen restores global first-seen order after partitioned
// aggregators have been merged in partition order.
func (ga *GroupAggregator) sortByFirstSeen() {
	sort.SliceStable(ga.order, func(i, j int) bool {
		return ga.groups[ga.order[i]].firstRow < ga.groups[ga.order[j]].firstRow
	})
}

// Results finalizes every group into an output tuple, in first-seen order:
// grouping key columns followed by the finalized aggregate values.
func (ga *GroupAggregator) Results() ([]*tuple.Tuple, error) {
	results := make([]*tuple.Tuple, 0, len(ga.order))

	for _, key := range ga.order {
		g := ga.groups[key]
		out := tuple.NewTuple(ga.resultDesc)

		for i, f := range g.keyFields {
			if err := out.SetField(i, f); err != nil {
				return nil, fmt.Errorf("failed to set group column %d: %w", i, err)
			}
		}
		base := len(g.keyFields)
		for i, acc := range g.accs {
			if err := out.SetField(base+i, acc.Result()); err != nil {
				return nil, fmt.Errorf("failed to set %s: %w", ga.cfg.Specs[i].Name, err)
			}
		}
		results = append(results, out)
	}
	return results, nil
}

// NumGroups returns the number of groups seen so far.
func (ga *GroupAggregator) NumGroups() int {
	return len(ga.groups)
}
