package tuple

import (
	"fmt"
	"strings"

	"rollup/pkg/types"
)

// TupleDescription describes the schema of a tuple: the ordered column
// types and names produced by a row source or an operator.
type TupleDescription struct {
	Types      []types.Type
	FieldNames []string
}

// NewTupleDesc creates a new TupleDescription from parallel slices of
// column types and names. Both slices are copied.
func NewTupleDesc(fieldTypes []types.Type, fieldNames []string) (*TupleDescription, error) {
	if len(fieldTypes) == 0 {
		return nil, fmt.Errorf("must provide at least one field type")
	}
	if len(fieldNames) != len(fieldTypes) {
		return nil, fmt.Errorf("field names length (%d) must match field types length (%d)",
			len(fieldNames), len(fieldTypes))
	}

	typesCopy := make([]types.Type, len(fieldTypes))
	copy(typesCopy, fieldTypes)
	namesCopy := make([]string, len(fieldNames))
	copy(namesCopy, fieldNames)

	return &TupleDescription{Types: typesCopy, FieldNames: namesCopy}, nil
}

// NumFields returns the number of columns in this schema.
func (td *TupleDescription) NumFields() int {
	return len(td.Types)
}

// GetFieldName returns the name of the ith column.
func (td *TupleDescription) GetFieldName(i int) (string, error) {
	if i < 0 || i >= len(td.Types) {
		return "", fmt.Errorf("field index %d out of bounds [0, %d)", i, len(td.Types))
	}
	return td.FieldNames[i], nil
}

// TypeAtIndex returns the type of the ith column.
func (td *TupleDescription) TypeAtIndex(i int) (types.Type, error) {
	if i < 0 || i >= len(td.Types) {
		return 0, fmt.Errorf("field index %d out of bounds [0, %d)", i, len(td.Types))
	}
	return td.Types[i], nil
}

// FindFieldIndex locates a column by name. The search is case-sensitive.
func (td *TupleDescription) FindFieldIndex(fieldName string) (int, error) {
	for i, name := range td.FieldNames {
		if name == fieldName {
			return i, nil
		}
	}
	return -1, fmt.Errorf("column %s not found", fieldName)
}

// Equals reports whether two schemas have identical column types in order.
// Column names are not compared.
func (td *TupleDescription) Equals(other *TupleDescription) bool {
	if other == nil || len(td.Types) != len(other.Types) {
		return false
	}
	for i, t := range td.Types {
		if t != other.Types[i] {
			return false
		}
	}
	return true
}

// String renders the schema as "TYPE(name),TYPE(name),..."
func (td *TupleDescription) String() string {
	parts := make([]string, len(td.Types))
	for i, fieldType := range td.Types {
		parts[i] = fmt.Sprintf("%s(%s)", fieldType.String(), td.FieldNames[i])
	}
	return strings.Join(parts, ",")
}
