package query

import (
	"fmt"

	"rollup/pkg/iterator"
	"rollup/pkg/tuple"
)

// Limit truncates the result stream after a maximum number of tuples,
// optionally skipping a number of leading tuples first (OFFSET).
type Limit struct {
	*iterator.UnaryOperator
	limit  int
	offset int
	count  int
}

// NewLimit creates a Limit operator. Both limit and offset must be
// non-negative; a zero limit produces no rows.
func NewLimit(child iterator.DbIterator, limit, offset int) (*Limit, error) {
	if limit < 0 {
		return nil, fmt.Errorf("limit cannot be negative: %d", limit)
	}
	if offset < 0 {
		return nil, fmt.Errorf("offset cannot be negative: %d", offset)
	}

	l := &Limit{limit: limit, offset: offset}
	unaryOp, err := iterator.NewUnaryOperator(child, l.readNext)
	if err != nil {
		return nil, err
	}
	l.UnaryOperator = unaryOp
	return l, nil
}

// Open opens the child and discards the offset tuples.
func (l *Limit) Open() error {
	if err := l.UnaryOperator.Open(); err != nil {
		return err
	}

	l.count = 0
	return l.skipOffset()
}

func (l *Limit) readNext() (*tuple.Tuple, error) {
	if l.count >= l.limit {
		return nil, nil
	}

	t, err := l.FetchNext()
	if err != nil || t == nil {
		return t, err
	}

	l.count++
	return t, nil
}

// Rewind resets the child and re-applies the offset.
func (l *Limit) Rewind() error {
	l.count = 0
	if err := l.UnaryOperator.Rewind(); err != nil {
		return err
	}
	return l.skipOffset()
}

func (l *Limit) skipOffset() error {
	for i := 0; i < l.offset; i++ {
		t, err := l.FetchNext()
		if err != nil {
			return err
		}
		if t == nil {
			break
		}
	}
	return nil
}
