package tuple

import (
	"testing"

	"rollup/pkg/types"
)

func mustDesc(t *testing.T) *TupleDescription {
	t.Helper()
	td, err := NewTupleDesc(
		[]types.Type{types.StringType, types.IntType},
		[]string{"name", "salary"},
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return td
}

func TestNewTupleDesc_Validation(t *testing.T) {
	if _, err := NewTupleDesc([]types.Type{}, []string{}); err == nil {
		t.Error("Expected an error for an empty schema")
	}

	if _, err := NewTupleDesc([]types.Type{types.IntType}, []string{"a", "b"}); err == nil {
		t.Error("Expected an error when name and type counts differ")
	}

	if _, err := NewTupleDesc([]types.Type{types.IntType}, nil); err == nil {
		t.Error("Expected an error for missing names")
	}
}

func TestTupleDesc_FindFieldIndex(t *testing.T) {
	td := mustDesc(t)

	idx, err := td.FindFieldIndex("salary")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if idx != 1 {
		t.Errorf("Expected index 1, got %d", idx)
	}

	if _, err := td.FindFieldIndex("missing"); err == nil {
		t.Error("Expected an error for an unknown column")
	}
}

func TestTuple_FieldsStartNull(t *testing.T) {
	tup := NewTuple(mustDesc(t))

	for i := 0; i < 2; i++ {
		isNull, err := tup.IsNull(i)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !isNull {
			t.Errorf("Expected field %d to start as NULL", i)
		}
	}
}

func TestTuple_SetField(t *testing.T) {
	tup := NewTuple(mustDesc(t))

	if err := tup.SetField(0, types.NewStringField("alice")); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := tup.SetField(1, types.NewIntField(70000)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	f, err := tup.GetField(1)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if !f.Equals(types.NewIntField(70000)) {
		t.Errorf("Expected 70000, got %v", f)
	}
}

func TestTuple_SetField_TypeMismatch(t *testing.T) {
	tup := NewTuple(mustDesc(t))

	err := tup.SetField(1, types.NewStringField("not a number"))
	if err == nil {
		t.Fatal("Expected a type mismatch error")
	}
	if _, ok := err.(*types.TypeMismatchError); !ok {
		t.Errorf("Expected *types.TypeMismatchError, got %T", err)
	}
}

func TestTuple_SetField_NullAllowed(t *testing.T) {
	tup := NewTuple(mustDesc(t))

	if err := tup.SetField(1, types.NewIntField(1)); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if err := tup.SetField(1, nil); err != nil {
		t.Fatalf("Expected NULL assignment to succeed, got %v", err)
	}

	isNull, _ := tup.IsNull(1)
	if !isNull {
		t.Error("Expected field to be NULL after nil assignment")
	}
}

func TestTuple_SetField_OutOfBounds(t *testing.T) {
	tup := NewTuple(mustDesc(t))

	if err := tup.SetField(5, types.NewIntField(1)); err == nil {
		t.Error("Expected an out of bounds error")
	}
	if _, err := tup.GetField(-1); err == nil {
		t.Error("Expected an out of bounds error")
	}
}

func TestTuple_Clone(t *testing.T) {
	tup := NewTuple(mustDesc(t))
	_ = tup.SetField(0, types.NewStringField("bob"))

	clone := tup.Clone()
	_ = clone.SetField(0, types.NewStringField("carol"))

	orig, _ := tup.GetField(0)
	if !orig.Equals(types.NewStringField("bob")) {
		t.Error("Expected clone mutation to leave the original untouched")
	}
}

func TestTuple_String_SpellsNull(t *testing.T) {
	tup := NewTuple(mustDesc(t))
	_ = tup.SetField(0, types.NewStringField("dave"))

	if got := tup.String(); got != "dave\tNULL" {
		t.Errorf("Expected 'dave\\tNULL', got %q", got)
	}
}

func TestBuilder(t *testing.T) {
	td := mustDesc(t)
	b := NewBuilder(td)

	tup, err := b.Set("name", "erin").Set("salary", 55000).Build()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	f, _ := tup.GetField(1)
	if !f.Equals(types.NewIntField(55000)) {
		t.Errorf("Expected 55000, got %v", f)
	}
}

func TestBuilder_NullAndError(t *testing.T) {
	td := mustDesc(t)
	b := NewBuilder(td)

	tup, err := b.Set("name", "frank").Set("salary", nil).Build()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	isNull, _ := tup.IsNull(1)
	if !isNull {
		t.Error("Expected nil value to produce NULL")
	}

	if _, err := b.Set("missing", 1).Build(); err == nil {
		t.Error("Expected an error for an unknown column")
	}

	// The builder resets after reporting an error.
	if _, err := b.Set("name", "grace").Build(); err != nil {
		t.Errorf("Expected builder to recover after an error, got %v", err)
	}
}
