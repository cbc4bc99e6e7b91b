package iterator

import (
	"testing"

	"rollup/pkg/tuple"
	"rollup/pkg/types"
)

func intTuple(t *testing.T, td *tuple.TupleDescription, v int64) *tuple.Tuple {
	t.Helper()
	tup := tuple.NewTuple(td)
	if err := tup.SetField(0, types.NewIntField(v)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return tup
}

func intDesc(t *testing.T) *tuple.TupleDescription {
	t.Helper()
	td, err := tuple.NewTupleDesc([]types.Type{types.IntType}, []string{"v"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return td
}

func TestSliceIterator(t *testing.T) {
	it := NewSliceIterator([]int{1, 2, 3})

	if it.Len() != 3 || it.Remaining() != 3 {
		t.Fatalf("Expected 3 elements, got len=%d remaining=%d", it.Len(), it.Remaining())
	}

	var seen []int
	for it.HasNext() {
		v, err := it.Next()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		seen = append(seen, v)
	}
	if len(seen) != 3 || seen[0] != 1 || seen[2] != 3 {
		t.Errorf("Expected [1 2 3], got %v", seen)
	}

	if _, err := it.Next(); err == nil {
		t.Error("Expected Next past the end to fail")
	}

	it.Rewind()
	if it.Remaining() != 3 {
		t.Error("Expected rewind to restore all elements")
	}
}

func TestBaseIterator_CachesLookahead(t *testing.T) {
	td := intDesc(t)
	values := []int64{10, 20}
	pos := 0

	base := NewBaseIterator(func() (*tuple.Tuple, error) {
		if pos >= len(values) {
			return nil, nil
		}
		tup := intTuple(t, td, values[pos])
		pos++
		return tup, nil
	})
	base.MarkOpened()

	// Repeated HasNext calls must not consume input.
	for i := 0; i < 3; i++ {
		has, err := base.HasNext()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !has {
			t.Fatal("Expected a next tuple")
		}
	}

	first, err := base.Next()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	f, _ := first.GetField(0)
	if !f.Equals(types.NewIntField(10)) {
		t.Errorf("Expected 10, got %v", f)
	}
}

func TestBaseIterator_RequiresOpen(t *testing.T) {
	base := NewBaseIterator(func() (*tuple.Tuple, error) { return nil, nil })

	if _, err := base.HasNext(); err == nil {
		t.Error("Expected HasNext before open to fail")
	}
	if _, err := base.Next(); err == nil {
		t.Error("Expected Next before open to fail")
	}
}

func TestForEach(t *testing.T) {
	td := intDesc(t)
	rows := []*tuple.Tuple{intTuple(t, td, 1), intTuple(t, td, 2)}
	it := newStubIterator(td, rows)
	if err := it.Open(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	count := 0
	err := ForEach(it, func(*tuple.Tuple) error {
		count++
		return nil
	})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 visits, got %d", count)
	}
}

func TestCollect(t *testing.T) {
	td := intDesc(t)
	rows := []*tuple.Tuple{intTuple(t, td, 1), intTuple(t, td, 2), intTuple(t, td, 3)}
	it := newStubIterator(td, rows)
	if err := it.Open(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	collected, err := Collect(it)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(collected) != 3 {
		t.Errorf("Expected 3 tuples, got %d", len(collected))
	}
}

// stubIterator is a minimal DbIterator over a fixed slice, used to test
// the iteration helpers without pulling in a real source.
type stubIterator struct {
	base *BaseIterator
	td   *tuple.TupleDescription
	rows *SliceIterator[*tuple.Tuple]
}

func newStubIterator(td *tuple.TupleDescription, rows []*tuple.Tuple) *stubIterator {
	s := &stubIterator{td: td, rows: NewSliceIterator(rows)}
	s.base = NewBaseIterator(s.readNext)
	return s
}

func (s *stubIterator) readNext() (*tuple.Tuple, error) {
	if s.rows.Remaining() == 0 {
		return nil, nil
	}
	return s.rows.Next()
}

func (s *stubIterator) Open() error {
	s.base.MarkOpened()
	return nil
}

func (s *stubIterator) HasNext() (bool, error)               { return s.base.HasNext() }
func (s *stubIterator) Next() (*tuple.Tuple, error)          { return s.base.Next() }
func (s *stubIterator) Close() error                         { return s.base.Close() }
func (s *stubIterator) GetTupleDesc() *tuple.TupleDescription { return s.td }

func (s *stubIterator) Rewind() error {
	s.rows.Rewind()
	return s.base.Rewind()
}
