package plan

import "fmt"

// InvalidExpressionError reports an expression used in a clause where its
// shape is illegal: an aggregate function inside WHERE, or a bare column
// that is neither grouped nor aggregated inside HAVING or ORDER BY.
// These are structural violations, detected while the query is compiled.
type InvalidExpressionError struct {
	Clause string // "WHERE", "HAVING", "ORDER BY"
	Detail string
	Hint   string
}

func (e *InvalidExpressionError) Error() string {
	msg := fmt.Sprintf("invalid expression in %s: %s", e.Clause, e.Detail)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

// InvalidProjectionError reports a SELECT item that references a bare row
// column which is neither in the GROUP BY list nor wrapped in an aggregate
// function - the GROUP BY projection rule.
type InvalidProjectionError struct {
	Column string
	Detail string
}

func (e *InvalidProjectionError) Error() string {
	return fmt.Sprintf("invalid projection of column %q: %s", e.Column, e.Detail)
}
