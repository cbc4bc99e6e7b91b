package iterator

import "rollup/pkg/tuple"

// DbIterator is the contract every pipeline stage implements. Operators are
// composed into a tree; pulling from the root drives the whole pipeline one
// row at a time (the volcano model).
type DbIterator interface {
	// Open initializes the iterator and prepares it for tuple retrieval.
	// Must be called before any other iterator operation.
	Open() error

	// HasNext checks if there are more tuples available without consuming
	// them. Can be called repeatedly without advancing the position.
	HasNext() (bool, error)

	// Next retrieves the next tuple and advances the position.
	Next() (*tuple.Tuple, error)

	// Rewind resets the iterator position to the beginning of the sequence.
	Rewind() error

	// Close releases resources. Closing an already closed iterator is safe.
	Close() error

	// GetTupleDesc returns the schema of tuples produced by this iterator.
	// Callable regardless of iterator state.
	GetTupleDesc() *tuple.TupleDescription
}

// iterate encapsulates the HasNext/Next ceremony, skipping nil tuples.
// processFunc returns false to stop early.
func iterate(iter DbIterator, processFunc func(*tuple.Tuple) (bool, error)) error {
	for {
		hasNext, err := iter.HasNext()
		if err != nil {
			return err
		}
		if !hasNext {
			return nil
		}

		tup, err := iter.Next()
		if err != nil {
			return err
		}
		if tup == nil {
			continue
		}

		shouldContinue, err := processFunc(tup)
		if err != nil {
			return err
		}
		if !shouldContinue {
			return nil
		}
	}
}

// ForEach applies a processing function to each remaining tuple.
// The iterator must already be open.
func ForEach(iter DbIterator, processFunc func(*tuple.Tuple) error) error {
	return iterate(iter, func(tup *tuple.Tuple) (bool, error) {
		return true, processFunc(tup)
	})
}

// Collect drains the iterator into a slice. Loads everything into memory.
func Collect(iter DbIterator) ([]*tuple.Tuple, error) {
	var results []*tuple.Tuple
	err := iterate(iter, func(tup *tuple.Tuple) (bool, error) {
		results = append(results, tup)
		return true, nil
	})
	return results, err
}
