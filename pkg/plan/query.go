// Package plan turns a declarative query description into a validated
// operator pipeline and executes it.
//
// Compilation is strictly two-phase: every structural rule (the GROUP BY
// projection rule, no aggregates in WHERE, no raw columns in HAVING) and
// every type rule is checked against the source schema before a single row
// is read. Execution then runs the fixed stage order
//
//	scan -> WHERE -> group/aggregate -> HAVING -> project -> ORDER BY -> LIMIT
//
// regardless of how the query was written. Either compilation fails with
// exactly one error, or the pipeline runs to completion; no partial
// results are ever returned.
package plan

import (
	"rollup/pkg/expr"
)

// SelectItem is one entry of the SELECT list: an expression over grouping
// columns and aggregates (or over raw columns for non-aggregate queries),
// with an optional output alias.
type SelectItem struct {
	Expr  expr.Expr
	Alias string
}

// OutputName is the column name this item carries in the result schema:
// the alias when given, otherwise the expression's canonical form.
func (si SelectItem) OutputName() string {
	if si.Alias != "" {
		return si.Alias
	}
	return si.Expr.String()
}

// OrderKey names an output column to sort by, with direction.
type OrderKey struct {
	Column    string
	Ascending bool
}

// Query is the declarative description of one pipeline run.
//
// GroupBy lists grouping column names; empty GroupBy with aggregates in
// SELECT or HAVING denotes the single implicit group over all rows.
// Limit <= 0 means no limit.
type Query struct {
	Select  []SelectItem
	Where   expr.Expr
	GroupBy []string
	Having  expr.Expr
	OrderBy []OrderKey
	Limit   int
	Offset  int
}

// IsAggregate reports whether the query groups rows: either an explicit
// GROUP BY, or an aggregate function anywhere in SELECT or HAVING.
func (q *Query) IsAggregate() bool {
	if len(q.GroupBy) > 0 || q.Having != nil {
		return true
	}
	for _, item := range q.Select {
		if expr.ContainsAggregate(item.Expr) {
			return true
		}
	}
	return false
}
