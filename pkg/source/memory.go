// Package source provides row source adapters feeding the pipeline: an
// in-memory source for embedded use and tests, and a database/sql adapter
// for pulling rows out of an external database.
package source

import (
	"fmt"

	"rollup/pkg/iterator"
	"rollup/pkg/tuple"
)

// Memory is a row source over an in-memory slice of tuples.
type Memory struct {
	desc   *tuple.TupleDescription
	rows   *iterator.SliceIterator[*tuple.Tuple]
	opened bool
}

// NewMemory creates a memory source. Every tuple must conform to the
// declared schema.
func NewMemory(desc *tuple.TupleDescription, rows []*tuple.Tuple) (*Memory, error) {
	if desc == nil {
		return nil, fmt.Errorf("tuple description cannot be nil")
	}
	for i, row := range rows {
		if row == nil {
			return nil, fmt.Errorf("row %d is nil", i)
		}
		if !row.TupleDesc.Equals(desc) {
			return nil, fmt.Errorf("row %d does not match the declared schema", i)
		}
	}

	return &Memory{desc: desc, rows: iterator.NewSliceIterator(rows)}, nil
}

func (m *Memory) Open() error {
	m.rows.Rewind()
	m.opened = true
	return nil
}

func (m *Memory) HasNext() (bool, error) {
	if !m.opened {
		return false, fmt.Errorf("memory source not opened")
	}
	return m.rows.Remaining() > 0, nil
}

func (m *Memory) Next() (*tuple.Tuple, error) {
	if !m.opened {
		return nil, fmt.Errorf("memory source not opened")
	}
	return m.rows.Next()
}

func (m *Memory) Rewind() error {
	if !m.opened {
		return fmt.Errorf("memory source not opened")
	}
	m.rows.Rewind()
	return nil
}

func (m *Memory) Close() error {
	m.opened = false
	return nil
}

func (m *Memory) GetTupleDesc() *tuple.TupleDescription {
	return m.desc
}
