package iterator

import "fmt"

// SliceIterator iterates over materialized data held in a slice. Blocking
// operators (sort, aggregation) buffer their results and stream them out
// through one of these.
type SliceIterator[T any] struct {
	data         []T
	currentIndex int
}

// NewSliceIterator wraps a slice; the iterator is immediately usable.
func NewSliceIterator[T any](data []T) *SliceIterator[T] {
	return &SliceIterator[T]{data: data}
}

// HasNext reports whether at least one more element remains.
func (it *SliceIterator[T]) HasNext() bool {
	return it.currentIndex < len(it.data)
}

// Next returns the next element and advances the position.
func (it *SliceIterator[T]) Next() (T, error) {
	var zero T
	if it.currentIndex >= len(it.data) {
		return zero, fmt.Errorf("no more elements in slice iterator")
	}

	element := it.data[it.currentIndex]
	it.currentIndex++
	return element, nil
}

// Rewind resets the read position without touching the data.
func (it *SliceIterator[T]) Rewind() {
	it.currentIndex = 0
}

// Remaining returns the number of elements left to iterate.
func (it *SliceIterator[T]) Remaining() int {
	if it.currentIndex >= len(it.data) {
		return 0
	}
	return len(it.data) - it.currentIndex
}

// Len returns the total number of elements.
func (it *SliceIterator[T]) Len() int {
	return len(it.data)
}
