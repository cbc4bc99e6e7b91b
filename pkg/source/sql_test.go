package source

import (
	"database/sql"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"rollup/pkg/iterator"
	"rollup/pkg/tuple"
	"rollup/pkg/types"
)

func sqliteFixture(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	stmts := []string{
		`CREATE TABLE employees (dept TEXT, name TEXT, salary INTEGER, rating REAL, active BOOLEAN)`,
		`INSERT INTO employees VALUES ('IT', 'alice', 70000, 4.5, 1)`,
		`INSERT INTO employees VALUES ('HR', 'carol', 40000, NULL, 0)`,
		`INSERT INTO employees VALUES (NULL, 'erin', NULL, 3.0, NULL)`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
	}
	return db
}

func sqlDesc(t *testing.T) *tuple.TupleDescription {
	t.Helper()
	td, err := tuple.NewTupleDesc(
		[]types.Type{types.StringType, types.StringType, types.IntType, types.FloatType, types.BoolType},
		[]string{"dept", "name", "salary", "rating", "active"},
	)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return td
}

func TestSQL_ScansDeclaredTypes(t *testing.T) {
	db := sqliteFixture(t)

	src, err := NewSQL(db, sqlDesc(t), "SELECT dept, name, salary, rating, active FROM employees ORDER BY name")
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

	// alice sorts first: all columns non-NULL.
	salary, _ := results[0].GetField(2)
	if !salary.Equals(types.NewIntField(70000)) {
		t.Errorf("Expected salary 70000, got %v", salary)
	}
	rating, _ := results[0].GetField(3)
	if !rating.Equals(types.NewFloatField(4.5)) {
		t.Errorf("Expected rating 4.5, got %v", rating)
	}
	active, _ := results[0].GetField(4)
	if !active.Equals(types.NewBoolField(true)) {
		t.Errorf("Expected active true, got %v", active)
	}
}

func TestSQL_NullsScanAsNullFields(t *testing.T) {
	db := sqliteFixture(t)

	src, err := NewSQL(db, sqlDesc(t), "SELECT dept, name, salary, rating, active FROM employees WHERE name = 'erin'")
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
	if len(results) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(results))
	}

	for _, col := range []int{0, 2, 4} {
		isNull, err := results[0].IsNull(col)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if !isNull {
			t.Errorf("Expected column %d to be NULL", col)
		}
	}
}

func TestSQL_RewindWithoutRequery(t *testing.T) {
	db := sqliteFixture(t)

	src, err := NewSQL(db, sqlDesc(t), "SELECT dept, name, salary, rating, active FROM employees")
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

	if len(first) != len(second) {
		t.Errorf("Expected rewind to replay the same rows, got %d then %d", len(first), len(second))
	}
}

func TestSQL_QueryArguments(t *testing.T) {
	db := sqliteFixture(t)

	src, err := NewSQL(db, sqlDesc(t),
		"SELECT dept, name, salary, rating, active FROM employees WHERE salary > ?", 50000)
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
	if len(results) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(results))
	}
}

func TestSQL_ConstructorValidation(t *testing.T) {
	if _, err := NewSQL(nil, sqlDesc(t), "SELECT 1"); err == nil {
		t.Error("Expected an error for a nil db handle")
	}

	db := sqliteFixture(t)
	if _, err := NewSQL(db, nil, "SELECT 1"); err == nil {
		t.Error("Expected an error for a nil schema")
	}
}
