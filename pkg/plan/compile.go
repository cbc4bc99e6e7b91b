package plan

import (
	"fmt"
	"math"

	"go.uber.org/zap"

	"rollup/pkg/execution/aggregation"
	"rollup/pkg/execution/query"
	"rollup/pkg/expr"
	"rollup/pkg/iterator"
	"rollup/pkg/tuple"
)

// Options carries execution knobs for compiled plans.
type Options struct {
	// Aggregation holds dialect choices for aggregate finalization.
	Aggregation aggregation.Options

	// Parallelism > 1 enables hash-partitioned parallel grouping.
	Parallelism int

	// Logger receives structured execution logs; nil disables logging.
	Logger *zap.Logger
}

// Plan is a fully validated, ready-to-run operator pipeline.
type Plan struct {
	root   iterator.DbIterator
	desc   *tuple.TupleDescription
	logger *zap.Logger
}

// Compile validates a query against the source schema and assembles the
// operator pipeline in the fixed stage order. All structural and type
// errors surface here, before any row is read.
func Compile(source iterator.DbIterator, q *Query, opts Options) (*Plan, error) {
	if source == nil {
		return nil, fmt.Errorf("source iterator cannot be nil")
	}
	if q == nil || len(q.Select) == 0 {
		return nil, fmt.Errorf("query must select at least one column")
	}

	inputDesc := source.GetTupleDesc()
	if inputDesc == nil {
		return nil, fmt.Errorf("source has nil tuple descriptor")
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	root := source

	// WHERE runs strictly before grouping and may only see raw row columns.
	if q.Where != nil {
		if expr.ContainsAggregate(q.Where) {
			return nil, &InvalidExpressionError{
				Clause: "WHERE",
				Detail: "aggregate functions are not allowed",
				Hint:   "use HAVING to filter on aggregated values",
			}
		}
		if err := q.Where.Bind(inputDesc); err != nil {
			return nil, fmt.Errorf("WHERE: %w", err)
		}

		filter, err := query.NewFilter(q.Where, root)
		if err != nil {
			return nil, err
		}
		root = filter
	}

	// bindDesc is the schema SELECT, HAVING and ORDER BY resolve against:
	// the aggregated schema for grouped queries, the raw schema otherwise.
	bindDesc := inputDesc

	if q.IsAggregate() {
		agg, err := compileAggregate(root, q, inputDesc, opts)
		if err != nil {
			return nil, err
		}
		root = agg
		bindDesc = agg.GetTupleDesc()
	}

	// HAVING sees only fully finalized groups; the Aggregate operator
	// upstream guarantees that barrier.
	if q.Having != nil {
		if err := q.Having.Bind(bindDesc); err != nil {
			return nil, fmt.Errorf("HAVING: %w", err)
		}

		filter, err := query.NewFilter(q.Having, root)
		if err != nil {
			return nil, err
		}
		root = filter
	}

	columns := make([]query.OutputColumn, len(q.Select))
	for i, item := range q.Select {
		if err := item.Expr.Bind(bindDesc); err != nil {
			return nil, fmt.Errorf("SELECT: %w", err)
		}
		columns[i] = query.OutputColumn{Expr: item.Expr, Name: item.OutputName()}
	}

	project, err := query.NewProject(columns, root)
	if err != nil {
		return nil, err
	}
	root = project

	if len(q.OrderBy) > 0 {
		keys := make([]query.SortKey, len(q.OrderBy))
		outDesc := project.GetTupleDesc()
		for i, key := range q.OrderBy {
			idx, err := outDesc.FindFieldIndex(key.Column)
			if err != nil {
				return nil, &InvalidExpressionError{
					Clause: "ORDER BY",
					Detail: fmt.Sprintf("column %q is not in the output schema", key.Column),
					Hint:   "order by a selected column or its alias",
				}
			}
			keys[i] = query.SortKey{Column: idx, Ascending: key.Ascending}
		}

		sortOp, err := query.NewSort(root, keys)
		if err != nil {
			return nil, err
		}
		root = sortOp
	}

	if q.Limit > 0 || q.Offset > 0 {
		limit := q.Limit
		if limit <= 0 {
			limit = math.MaxInt
		}
		limitOp, err := query.NewLimit(root, limit, q.Offset)
		if err != nil {
			return nil, err
		}
		root = limitOp
	}

	return &Plan{root: root, desc: root.GetTupleDesc(), logger: logger}, nil
}

// compileAggregate validates the grouped clauses and builds the Aggregate
// operator. Enforces the projection rule (SELECT) and the grouped-column
// rule (HAVING), then collects every distinct aggregate from both clauses
// into a single grouping pass.
func compileAggregate(child iterator.DbIterator, q *Query, inputDesc *tuple.TupleDescription, opts Options) (*aggregation.Aggregate, error) {
	groupSet := make(map[string]bool, len(q.GroupBy))
	groupIdx := make([]int, 0, len(q.GroupBy))
	for _, name := range q.GroupBy {
		idx, err := inputDesc.FindFieldIndex(name)
		if err != nil {
			return nil, fmt.Errorf("GROUP BY: %w", err)
		}
		groupSet[name] = true
		groupIdx = append(groupIdx, idx)
	}

	for _, item := range q.Select {
		if err := validateGroupedColumns(item.Expr, groupSet, true); err != nil {
			return nil, err
		}
	}
	if q.Having != nil {
		if err := validateGroupedColumns(q.Having, groupSet, false); err != nil {
			return nil, err
		}
	}

	var specs []aggregation.Spec
	seen := make(map[string]bool)
	collect := func(e expr.Expr) error {
		var walkErr error
		expr.Walk(e, func(node expr.Expr) {
			agg, ok := node.(*expr.Aggregate)
			if !ok || walkErr != nil {
				return
			}

			name := agg.String()
			if seen[name] {
				return
			}
			seen[name] = true

			column := -1
			if !agg.Star {
				idx, err := inputDesc.FindFieldIndex(agg.Column)
				if err != nil {
					walkErr = fmt.Errorf("aggregate %s: %w", name, err)
					return
				}
				column = idx
			}

			specs = append(specs, aggregation.Spec{
				Func:     agg.Func,
				Column:   column,
				Distinct: agg.Distinct,
				Name:     name,
			})
		})
		return walkErr
	}

	for _, item := range q.Select {
		if err := collect(item.Expr); err != nil {
			return nil, err
		}
	}
	if q.Having != nil {
		if err := collect(q.Having); err != nil {
			return nil, err
		}
	}

	cfg := aggregation.Config{
		GroupBy: groupIdx,
		Specs:   specs,
		Options: opts.Aggregation,
	}
	return aggregation.NewAggregate(child, cfg, opts.Parallelism)
}

// validateGroupedColumns enforces that every bare column reference in an
// aggregate query's SELECT or HAVING names a grouping column. Columns
// consumed inside aggregate functions are not bare references: an
// Aggregate node owns its input column and has no Column children.
func validateGroupedColumns(e expr.Expr, groupSet map[string]bool, isSelect bool) error {
	for _, name := range expr.Columns(e) {
		if groupSet[name] {
			continue
		}
		if isSelect {
			return &InvalidProjectionError{
				Column: name,
				Detail: "column must appear in GROUP BY or be used inside an aggregate function",
			}
		}
		return &InvalidExpressionError{
			Clause: "HAVING",
			Detail: fmt.Sprintf("column %q is neither grouped nor aggregated", name),
			Hint:   "HAVING may reference grouping columns and aggregate values only",
		}
	}
	return nil
}
