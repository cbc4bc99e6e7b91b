package query

import (
	"fmt"
	"sort"

	"rollup/pkg/iterator"
	"rollup/pkg/tuple"
	"rollup/pkg/types"
)

// SortKey identifies one ORDER BY key: an output column index and direction.
type SortKey struct {
	Column    int
	Ascending bool
}

// Sort orders tuples by one or more keys. It is a blocking operator: all
// input is materialized and sorted before the first output row is produced.
//
// NULL ordering: NULLs sort before all values in ascending order and after
// them in descending order. The sort is stable, so rows that compare equal
// on every key keep their upstream order - the documented tie-break rule.
type Sort struct {
	base         *iterator.BaseIterator
	child        iterator.DbIterator
	keys         []SortKey
	sorted       *iterator.SliceIterator[*tuple.Tuple]
	materialized bool
}

// NewSort creates a Sort operator over the given keys. Key column indexes
// refer to the child's output schema.
func NewSort(child iterator.DbIterator, keys []SortKey) (*Sort, error) {
	if child == nil {
		return nil, fmt.Errorf("child operator cannot be nil")
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("sort requires at least one key")
	}

	td := child.GetTupleDesc()
	if td == nil {
		return nil, fmt.Errorf("child operator has nil tuple descriptor")
	}
	for _, key := range keys {
		if key.Column < 0 || key.Column >= td.NumFields() {
			return nil, fmt.Errorf("sort key index %d out of bounds (schema has %d fields)",
				key.Column, td.NumFields())
		}
	}

	s := &Sort{child: child, keys: keys}
	s.base = iterator.NewBaseIterator(s.readNext)
	return s, nil
}

// materializeTuples drains the child and sorts the buffered rows.
func (s *Sort) materializeTuples() error {
	tuples, err := iterator.Collect(s.child)
	if err != nil {
		return fmt.Errorf("error draining sort input: %w", err)
	}

	if err := s.sortTuples(tuples); err != nil {
		return err
	}

	s.sorted = iterator.NewSliceIterator(tuples)
	s.materialized = true
	return nil
}

func (s *Sort) sortTuples(tuples []*tuple.Tuple) error {
	var sortErr error

	sort.SliceStable(tuples, func(i, j int) bool {
		if sortErr != nil {
			return false
		}

		for _, key := range s.keys {
			less, equal, err := s.compareKey(tuples[i], tuples[j], key)
			if err != nil {
				sortErr = err
				return false
			}
			if !equal {
				return less
			}
		}
		return false
	})

	return sortErr
}

// compareKey orders two tuples on a single key with NULL-aware semantics.
func (s *Sort) compareKey(a, b *tuple.Tuple, key SortKey) (less, equal bool, err error) {
	fa, err := a.GetField(key.Column)
	if err != nil {
		return false, false, err
	}
	fb, err := b.GetField(key.Column)
	if err != nil {
		return false, false, err
	}

	switch {
	case fa == nil && fb == nil:
		return false, true, nil
	case fa == nil:
		return key.Ascending, false, nil
	case fb == nil:
		return !key.Ascending, false, nil
	}

	if fa.Equals(fb) {
		return false, true, nil
	}

	var lessThan bool
	if key.Ascending {
		lessThan, err = fa.Compare(types.LessThan, fb)
	} else {
		lessThan, err = fb.Compare(types.LessThan, fa)
	}
	if err != nil {
		return false, false, fmt.Errorf("failed to compare sort keys: %w", err)
	}
	return lessThan, false, nil
}

func (s *Sort) readNext() (*tuple.Tuple, error) {
	if !s.materialized {
		if err := s.materializeTuples(); err != nil {
			return nil, err
		}
	}

	if s.sorted.Remaining() == 0 {
		return nil, nil
	}
	return s.sorted.Next()
}

// Open opens the child; materialization is deferred to the first read.
func (s *Sort) Open() error {
	if err := s.child.Open(); err != nil {
		return fmt.Errorf("failed to open child operator: %w", err)
	}

	s.materialized = false
	s.base.MarkOpened()
	return nil
}

// Close releases the buffered rows and closes the child.
func (s *Sort) Close() error {
	s.materialized = false
	s.sorted = nil

	if err := s.child.Close(); err != nil {
		return fmt.Errorf("failed to close child operator: %w", err)
	}
	return s.base.Close()
}

// HasNext checks if more sorted tuples are available.
func (s *Sort) HasNext() (bool, error) { return s.base.HasNext() }

// Next returns the next tuple in sort order.
func (s *Sort) Next() (*tuple.Tuple, error) { return s.base.Next() }

// Rewind resets the read position without re-sorting.
func (s *Sort) Rewind() error {
	if s.sorted != nil {
		s.sorted.Rewind()
	}
	return s.base.Rewind()
}

// GetTupleDesc returns the child schema; Sort only reorders rows.
func (s *Sort) GetTupleDesc() *tuple.TupleDescription {
	return s.child.GetTupleDesc()
}
