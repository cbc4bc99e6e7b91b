package plan

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rollup/pkg/expr"
	"rollup/pkg/source"
	"rollup/pkg/tuple"
	"rollup/pkg/types"
)

func employeeSource(t *testing.T, rows [][3]any) *source.Memory {
	t.Helper()
	td, err := tuple.NewTupleDesc(
		[]types.Type{types.StringType, types.StringType, types.IntType},
		[]string{"dept", "name", "salary"},
	)
	require.NoError(t, err)

	b := tuple.NewBuilder(td)
	tuples := make([]*tuple.Tuple, 0, len(rows))
	for _, r := range rows {
		tup, err := b.Set("dept", r[0]).Set("name", r[1]).Set("salary", r[2]).Build()
		require.NoError(t, err)
		tuples = append(tuples, tup)
	}

	src, err := source.NewMemory(td, tuples)
	require.NoError(t, err)
	return src
}

func workedExample(t *testing.T) *source.Memory {
	t.Helper()
	return employeeSource(t, [][3]any{
		{"IT", "alice", 70000},
		{"HR", "carol", 40000},
		{"IT", "bob", 50000},
	})
}

func intAt(t *testing.T, tup *tuple.Tuple, i int) int64 {
	t.Helper()
	f, err := tup.GetField(i)
	require.NoError(t, err)
	require.NotNil(t, f)
	return f.(*types.IntField).Value
}

func stringAt(t *testing.T, tup *tuple.Tuple, i int) string {
	t.Helper()
	f, err := tup.GetField(i)
	require.NoError(t, err)
	if f == nil {
		return "NULL"
	}
	return f.String()
}

// =============================================================================
// End-to-end pipelines
// =============================================================================

func TestCompile_GroupedQuery(t *testing.T) {
	q := &Query{
		Select: []SelectItem{
			{Expr: expr.NewColumn("dept")},
			{Expr: expr.NewCountStar(), Alias: "headcount"},
			{Expr: expr.NewAggregate(expr.Sum, "salary"), Alias: "total"},
		},
		GroupBy: []string{"dept"},
	}

	p, err := Compile(workedExample(t), q, Options{})
	require.NoError(t, err)

	results, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "IT", stringAt(t, results[0], 0))
	assert.Equal(t, int64(2), intAt(t, results[0], 1))
	assert.Equal(t, int64(120000), intAt(t, results[0], 2))

	assert.Equal(t, "HR", stringAt(t, results[1], 0))
	assert.Equal(t, int64(1), intAt(t, results[1], 1))
	assert.Equal(t, int64(40000), intAt(t, results[1], 2))
}

func TestCompile_HavingFiltersGroups(t *testing.T) {
	q := &Query{
		Select: []SelectItem{
			{Expr: expr.NewColumn("dept")},
		},
		GroupBy: []string{"dept"},
		Having: expr.NewComparison(
			expr.NewAggregate(expr.Avg, "salary"),
			types.GreaterThan,
			expr.NewLiteral(types.NewIntField(50000)),
		),
	}

	p, err := Compile(workedExample(t), q, Options{})
	require.NoError(t, err)

	results, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "IT", stringAt(t, results[0], 0))
}

func TestCompile_WhereRunsBeforeGrouping(t *testing.T) {
	q := &Query{
		Select: []SelectItem{
			{Expr: expr.NewColumn("dept")},
			{Expr: expr.NewCountStar(), Alias: "n"},
		},
		Where: expr.NewComparison(
			expr.NewColumn("salary"),
			types.GreaterThan,
			expr.NewLiteral(types.NewIntField(45000)),
		),
		GroupBy: []string{"dept"},
	}

	p, err := Compile(workedExample(t), q, Options{})
	require.NoError(t, err)

	results, err := p.Run(context.Background())
	require.NoError(t, err)

	// Every HR row fails the WHERE, so the HR group never exists.
	require.Len(t, results, 1)
	assert.Equal(t, "IT", stringAt(t, results[0], 0))
	assert.Equal(t, int64(2), intAt(t, results[0], 1))
}

func TestCompile_NonAggregateQuery(t *testing.T) {
	q := &Query{
		Select: []SelectItem{
			{Expr: expr.NewColumn("name")},
			{Expr: expr.NewColumn("salary")},
		},
		Where: expr.NewComparison(
			expr.NewColumn("dept"),
			types.Equals,
			expr.NewLiteral(types.NewStringField("IT")),
		),
	}

	p, err := Compile(workedExample(t), q, Options{})
	require.NoError(t, err)

	results, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "alice", stringAt(t, results[0], 0))
	assert.Equal(t, "bob", stringAt(t, results[1], 0))
}

func TestCompile_OrderByAliasAndLimit(t *testing.T) {
	q := &Query{
		Select: []SelectItem{
			{Expr: expr.NewColumn("dept")},
			{Expr: expr.NewAggregate(expr.Sum, "salary"), Alias: "total"},
		},
		GroupBy: []string{"dept"},
		OrderBy: []OrderKey{{Column: "total", Ascending: true}},
		Limit:   1,
	}

	p, err := Compile(workedExample(t), q, Options{})
	require.NoError(t, err)

	results, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "HR", stringAt(t, results[0], 0))
}

func TestCompile_OffsetWithoutLimit(t *testing.T) {
	q := &Query{
		Select: []SelectItem{{Expr: expr.NewColumn("name")}},
		Offset: 1,
	}

	p, err := Compile(workedExample(t), q, Options{})
	require.NoError(t, err)

	results, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "carol", stringAt(t, results[0], 0))
}

func TestCompile_ImplicitGroup(t *testing.T) {
	q := &Query{
		Select: []SelectItem{
			{Expr: expr.NewCountStar(), Alias: "n"},
			{Expr: expr.NewAggregate(expr.Max, "salary"), Alias: "top"},
		},
	}

	p, err := Compile(workedExample(t), q, Options{})
	require.NoError(t, err)

	results, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, int64(3), intAt(t, results[0], 0))
	assert.Equal(t, int64(70000), intAt(t, results[0], 1))
}

func TestCompile_ParallelGrouping(t *testing.T) {
	q := &Query{
		Select: []SelectItem{
			{Expr: expr.NewColumn("dept")},
			{Expr: expr.NewCountStar(), Alias: "n"},
		},
		GroupBy: []string{"dept"},
	}

	p, err := Compile(workedExample(t), q, Options{Parallelism: 4})
	require.NoError(t, err)

	results, err := p.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "IT", stringAt(t, results[0], 0))
}

func TestPlan_RunIsRepeatable(t *testing.T) {
	q := &Query{
		Select: []SelectItem{
			{Expr: expr.NewColumn("dept")},
			{Expr: expr.NewAggregate(expr.Avg, "salary"), Alias: "avg"},
		},
		GroupBy: []string{"dept"},
	}

	p, err := Compile(workedExample(t), q, Options{})
	require.NoError(t, err)

	first, err := p.Run(context.Background())
	require.NoError(t, err)
	second, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, len(first), len(second))
	for i := range first {
		assert.Equal(t, first[i].String(), second[i].String())
	}
}

func TestPlan_RunHonorsCancellation(t *testing.T) {
	q := &Query{
		Select: []SelectItem{{Expr: expr.NewColumn("name")}},
	}

	p, err := Compile(workedExample(t), q, Options{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := p.Run(ctx)
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, results)
}

// =============================================================================
// Construction-time validation
// =============================================================================

func TestCompile_AggregateInWhereRejected(t *testing.T) {
	q := &Query{
		Select: []SelectItem{{Expr: expr.NewColumn("dept")}},
		Where: expr.NewComparison(
			expr.NewAggregate(expr.Sum, "salary"),
			types.GreaterThan,
			expr.NewLiteral(types.NewIntField(0)),
		),
		GroupBy: []string{"dept"},
	}

	_, err := Compile(workedExample(t), q, Options{})
	require.Error(t, err)

	var exprErr *InvalidExpressionError
	require.ErrorAs(t, err, &exprErr)
	assert.Equal(t, "WHERE", exprErr.Clause)
}

func TestCompile_ProjectionRule(t *testing.T) {
	q := &Query{
		Select: []SelectItem{
			{Expr: expr.NewColumn("name")}, // not grouped, not aggregated
		},
		GroupBy: []string{"dept"},
	}

	_, err := Compile(workedExample(t), q, Options{})
	require.Error(t, err)

	var projErr *InvalidProjectionError
	require.ErrorAs(t, err, &projErr)
	assert.Equal(t, "name", projErr.Column)
}

func TestCompile_HavingUngroupedColumnRejected(t *testing.T) {
	q := &Query{
		Select: []SelectItem{{Expr: expr.NewColumn("dept")}},
		GroupBy: []string{"dept"},
		Having: expr.NewComparison(
			expr.NewColumn("salary"),
			types.GreaterThan,
			expr.NewLiteral(types.NewIntField(0)),
		),
	}

	_, err := Compile(workedExample(t), q, Options{})
	require.Error(t, err)

	var exprErr *InvalidExpressionError
	require.ErrorAs(t, err, &exprErr)
	assert.Equal(t, "HAVING", exprErr.Clause)
}

func TestCompile_OrderByUnknownColumnRejected(t *testing.T) {
	q := &Query{
		Select:  []SelectItem{{Expr: expr.NewColumn("dept")}},
		GroupBy: []string{"dept"},
		OrderBy: []OrderKey{{Column: "salary", Ascending: true}},
	}

	_, err := Compile(workedExample(t), q, Options{})
	require.Error(t, err)

	var exprErr *InvalidExpressionError
	require.ErrorAs(t, err, &exprErr)
	assert.Equal(t, "ORDER BY", exprErr.Clause)
}

func TestCompile_UnknownGroupByColumn(t *testing.T) {
	q := &Query{
		Select:  []SelectItem{{Expr: expr.NewCountStar()}},
		GroupBy: []string{"missing"},
	}

	_, err := Compile(workedExample(t), q, Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GROUP BY")
}

func TestCompile_TypeErrorSurfacesBeforeExecution(t *testing.T) {
	q := &Query{
		Select: []SelectItem{
			{Expr: expr.NewAggregate(expr.Sum, "name"), Alias: "s"},
		},
		GroupBy: []string{"dept"},
	}

	_, err := Compile(workedExample(t), q, Options{})
	require.Error(t, err)

	var typeErr *types.TypeMismatchError
	assert.True(t, errors.As(err, &typeErr))
}

func TestCompile_EmptySelect(t *testing.T) {
	_, err := Compile(workedExample(t), &Query{}, Options{})
	require.Error(t, err)
}

func TestCompile_DefaultOutputNames(t *testing.T) {
	q := &Query{
		Select: []SelectItem{
			{Expr: expr.NewColumn("dept")},
			{Expr: expr.NewCountStar()},
		},
		GroupBy: []string{"dept"},
	}

	p, err := Compile(workedExample(t), q, Options{})
	require.NoError(t, err)

	name, err := p.Desc().GetFieldName(1)
	require.NoError(t, err)
	assert.Equal(t, "COUNT(*)", name)
}
