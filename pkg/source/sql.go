package source

import (
	"database/sql"
	"fmt"

	"rollup/pkg/iterator"
	"rollup/pkg/tuple"
	"rollup/pkg/types"
)

// SQL adapts a database/sql query result into a row source. The caller
// declares the column schema; NULLs scan through as NULL fields. The
// result set is materialized on Open so Rewind never re-runs the query.
type SQL struct {
	db       *sql.DB
	desc     *tuple.TupleDescription
	queryStr string
	args     []any

	rows   *iterator.SliceIterator[*tuple.Tuple]
	opened bool
}

// NewSQL creates a source over a SQL query with the declared schema.
// The query's column order and count must match the schema.
func NewSQL(db *sql.DB, desc *tuple.TupleDescription, queryStr string, args ...any) (*SQL, error) {
	if db == nil {
		return nil, fmt.Errorf("db handle cannot be nil")
	}
	if desc == nil {
		return nil, fmt.Errorf("tuple description cannot be nil")
	}
	return &SQL{db: db, desc: desc, queryStr: queryStr, args: args}, nil
}

// Open runs the query and materializes every row.
func (s *SQL) Open() error {
	if s.rows == nil {
		materialized, err := s.fetchAll()
		if err != nil {
			return err
		}
		s.rows = iterator.NewSliceIterator(materialized)
	}

	s.rows.Rewind()
	s.opened = true
	return nil
}

func (s *SQL) fetchAll() ([]*tuple.Tuple, error) {
	dbRows, err := s.db.Query(s.queryStr, s.args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer dbRows.Close()

	var result []*tuple.Tuple
	for dbRows.Next() {
		holders := scanHolders(s.desc)
		if err := dbRows.Scan(holders...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}

		tup := tuple.NewTuple(s.desc)
		for i, holder := range holders {
			field, err := fieldFromHolder(holder)
			if err != nil {
				return nil, fmt.Errorf("column %d: %w", i, err)
			}
			if err := tup.SetField(i, field); err != nil {
				return nil, err
			}
		}
		result = append(result, tup)
	}
	if err := dbRows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration failed: %w", err)
	}
	return result, nil
}

// scanHolders allocates one NULL-aware scan target per declared column.
func scanHolders(desc *tuple.TupleDescription) []any {
	holders := make([]any, desc.NumFields())
	for i, t := range desc.Types {
		switch t {
		case types.IntType:
			holders[i] = &sql.NullInt64{}
		case types.FloatType:
			holders[i] = &sql.NullFloat64{}
		case types.BoolType:
			holders[i] = &sql.NullBool{}
		case types.DateType:
			holders[i] = &sql.NullTime{}
		default:
			holders[i] = &sql.NullString{}
		}
	}
	return holders
}

func fieldFromHolder(holder any) (types.Field, error) {
	switch h := holder.(type) {
	case *sql.NullInt64:
		if !h.Valid {
			return nil, nil
		}
		return types.NewIntField(h.Int64), nil
	case *sql.NullFloat64:
		if !h.Valid {
			return nil, nil
		}
		return types.NewFloatField(h.Float64), nil
	case *sql.NullBool:
		if !h.Valid {
			return nil, nil
		}
		return types.NewBoolField(h.Bool), nil
	case *sql.NullTime:
		if !h.Valid {
			return nil, nil
		}
		return types.NewDateField(h.Time), nil
	case *sql.NullString:
		if !h.Valid {
			return nil, nil
		}
		return types.NewStringField(h.String), nil
	default:
		return nil, fmt.Errorf("unsupported scan holder %T", holder)
	}
}

func (s *SQL) HasNext() (bool, error) {
	if !s.opened {
		return false, fmt.Errorf("sql source not opened")
	}
	return s.rows.Remaining() > 0, nil
}

func (s *SQL) Next() (*tuple.Tuple, error) {
	if !s.opened {
		return nil, fmt.Errorf("sql source not opened")
	}
	return s.rows.Next()
}

func (s *SQL) Rewind() error {
	if !s.opened {
		return fmt.Errorf("sql source not opened")
	}
	s.rows.Rewind()
	return nil
}

func (s *SQL) Close() error {
	s.opened = false
	return nil
}

func (s *SQL) GetTupleDesc() *tuple.TupleDescription {
	return s.desc
}
