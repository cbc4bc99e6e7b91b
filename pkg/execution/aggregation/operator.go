package aggregation

import (
	"fmt"

	"rollup/pkg/iterator"
	"rollup/pkg/tuple"
)

// Aggregate is the blocking grouping operator. Open drains the entire
// child input into the grouping engine - the hard ordering barrier that
// guarantees downstream stages only ever see fully finalized groups - and
// then streams one output row per group in first-seen order.
type Aggregate struct {
	base        *iterator.BaseIterator
	child       iterator.DbIterator
	cfg         Config
	grouper     *GroupAggregator
	parallelism int
	results     *iterator.SliceIterator[*tuple.Tuple]
	drained     bool
}

// NewAggregate creates the grouping operator. parallelism > 1 enables
// hash-partitioned parallel grouping across that many workers; 0 or 1
// keeps the single-threaded reference path.
func NewAggregate(child iterator.DbIterator, cfg Config, parallelism int) (*Aggregate, error) {
	if child == nil {
		return nil, fmt.Errorf("child operator cannot be nil")
	}

	grouper, err := NewGroupAggregator(child.GetTupleDesc(), cfg)
	if err != nil {
		return nil, err
	}

	a := &Aggregate{
		child:       child,
		cfg:         cfg,
		grouper:     grouper,
		parallelism: parallelism,
	}
	a.base = iterator.NewBaseIterator(a.readNext)
	return a, nil
}

// Open opens the child, consumes it to completion and finalizes all groups.
func (a *Aggregate) Open() error {
	if err := a.child.Open(); err != nil {
		return fmt.Errorf("failed to open child operator: %w", err)
	}

	if !a.drained {
		// A fresh grouper per drain keeps reopened pipelines from
		// accumulating on top of a previous run's groups.
		grouper, err := NewGroupAggregator(a.child.GetTupleDesc(), a.cfg)
		if err != nil {
			return err
		}
		a.grouper = grouper

		if err := a.grouper.InitializeDefault(); err != nil {
			return err
		}

		if a.parallelism > 1 {
			err = a.drainParallel(a.parallelism)
		} else {
			err = a.drainSequential()
		}
		if err != nil {
			return err
		}

		results, err := a.grouper.Results()
		if err != nil {
			return err
		}
		a.results = iterator.NewSliceIterator(results)
		a.drained = true
	}

	a.base.MarkOpened()
	return nil
}

func (a *Aggregate) drainSequential() error {
	return iterator.ForEach(a.child, a.grouper.Merge)
}

func (a *Aggregate) readNext() (*tuple.Tuple, error) {
	if a.results == nil || a.results.Remaining() == 0 {
		return nil, nil
	}
	return a.results.Next()
}

// HasNext checks if more group rows are available.
func (a *Aggregate) HasNext() (bool, error) { return a.base.HasNext() }

// Next returns the next finalized group row.
func (a *Aggregate) Next() (*tuple.Tuple, error) { return a.base.Next() }

// Rewind resets the read position over the finalized groups without
// re-aggregating.
func (a *Aggregate) Rewind() error {
	if a.results != nil {
		a.results.Rewind()
	}
	return a.base.Rewind()
}

// Close closes the child and releases the buffered results.
func (a *Aggregate) Close() error {
	a.results = nil
	a.drained = false

	if err := a.child.Close(); err != nil {
		return fmt.Errorf("failed to close child operator: %w", err)
	}
	return a.base.Close()
}

// GetTupleDesc returns the aggregated schema: group columns, then one
// column per aggregate.
func (a *Aggregate) GetTupleDesc() *tuple.TupleDescription {
	return a.grouper.ResultDesc()
}
