package iterator

import (
	"fmt"

	"rollup/pkg/tuple"
)

// ReadNextFunc produces the next tuple from an operator's underlying logic.
// It returns (nil, nil) when the stream is exhausted.
type ReadNextFunc func() (*tuple.Tuple, error)

// BaseIterator implements the caching and open-state management shared by
// all operators. An operator embeds or holds one and supplies its readNext
// function; BaseIterator turns that into the HasNext/Next lookahead contract.
type BaseIterator struct {
	nextTuple    *tuple.Tuple
	opened       bool
	readNextFunc ReadNextFunc
}

// NewBaseIterator creates a base iterator around the given read function.
// The iterator starts closed; call MarkOpened from the operator's Open.
func NewBaseIterator(readNextFunc ReadNextFunc) *BaseIterator {
	return &BaseIterator{readNextFunc: readNextFunc}
}

// HasNext reports whether another tuple is available, caching it for Next.
func (it *BaseIterator) HasNext() (bool, error) {
	if !it.opened {
		return false, fmt.Errorf("iterator not opened")
	}

	if it.nextTuple == nil {
		var err error
		it.nextTuple, err = it.readNextFunc()
		if err != nil {
			return false, err
		}
	}
	return it.nextTuple != nil, nil
}

// Next returns the cached tuple if HasNext fetched one, otherwise reads ahead.
func (it *BaseIterator) Next() (*tuple.Tuple, error) {
	if !it.opened {
		return nil, fmt.Errorf("iterator not opened")
	}

	if it.nextTuple == nil {
		var err error
		it.nextTuple, err = it.readNextFunc()
		if err != nil {
			return nil, err
		}
		if it.nextTuple == nil {
			return nil, fmt.Errorf("no more tuples")
		}
	}

	result := it.nextTuple
	it.nextTuple = nil
	return result, nil
}

// MarkOpened marks the iterator as opened and clears any stale cache.
func (it *BaseIterator) MarkOpened() {
	it.opened = true
	it.nextTuple = nil
}

// Rewind clears the lookahead cache; the owning operator rewinds its source.
func (it *BaseIterator) Rewind() error {
	if !it.opened {
		return fmt.Errorf("iterator not opened")
	}
	it.nextTuple = nil
	return nil
}

// Close clears state and marks the iterator closed.
func (it *BaseIterator) Close() error {
	it.nextTuple = nil
	it.opened = false
	return nil
}
