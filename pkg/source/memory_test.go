package source

import (
	"testing"

	"rollup/pkg/iterator"
	"rollup/pkg/tuple"
	"rollup/pkg/types"
)

func rowDesc(t *testing.T) *tuple.TupleDescription {
	t.Helper()
	td, err := tuple.NewTupleDesc(
		[]types.Type{types.StringType, types.IntType},
		[]string{"dept", "salary"},
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return td
}

func makeRows(t *testing.T, td *tuple.TupleDescription, salaries []any) []*tuple.Tuple {
	t.Helper()
	b := tuple.NewBuilder(td)
	rows := make([]*tuple.Tuple, 0, len(salaries))
	for _, s := range salaries {
		tup, err := b.Set("dept", "IT").Set("salary", s).Build()
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		rows = append(rows, tup)
	}
	return rows
}

func TestMemory_Iteration(t *testing.T) {
	td := rowDesc(t)
	src, err := NewMemory(td, makeRows(t, td, []any{100, 200, 300}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := src.Open(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer src.Close()

	results, err := iterator.Collect(src)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("Expected 3 rows, got %d", len(results))
	}
}

func TestMemory_RequiresOpen(t *testing.T) {
	td := rowDesc(t)
	src, err := NewMemory(td, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := src.HasNext(); err == nil {
		t.Error("Expected HasNext before Open to fail")
	}
	if err := src.Rewind(); err == nil {
		t.Error("Expected Rewind before Open to fail")
	}
}

func TestMemory_Rewind(t *testing.T) {
	td := rowDesc(t)
	src, err := NewMemory(td, makeRows(t, td, []any{1, 2}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := src.Open(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer src.Close()

	first, err := iterator.Collect(src)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := src.Rewind(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	second, err := iterator.Collect(src)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(first) != 2 || len(second) != 2 {
		t.Errorf("Expected 2 rows before and after rewind, got %d and %d", len(first), len(second))
	}
}

func TestMemory_SchemaMismatch(t *testing.T) {
	td := rowDesc(t)
	otherDesc, err := tuple.NewTupleDesc([]types.Type{types.IntType}, []string{"x"})
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if _, err := NewMemory(td, []*tuple.Tuple{tuple.NewTuple(otherDesc)}); err == nil {
		t.Error("Expected a schema mismatch error")
	}
}

func TestMemory_NullValuesFlowThrough(t *testing.T) {
	td := rowDesc(t)
	src, err := NewMemory(td, makeRows(t, td, []any{nil}))
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if err := src.Open(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	defer src.Close()

	results, err := iterator.Collect(src)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	isNull, _ := results[0].IsNull(1)
	if !isNull {
		t.Error("Expected the NULL salary to survive materialization")
	}
}
