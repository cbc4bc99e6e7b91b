// Package aggregation implements the grouping engine of the pipeline:
// single-pass partitioning of rows into groups, NULL-aware aggregate
// accumulators (COUNT, SUM, AVG, MIN, MAX, APPROX_COUNT_DISTINCT), and the
// blocking Aggregate operator that drains its input before emitting one
// finalized row per group.
//
// Group keys are ordered tuples of column values with the SQL grouping
// rule that NULL equals NULL - rows with NULL in a grouping column land in
// the same group, even though NULL never equals NULL in comparisons.
// Groups preserve first-seen order so output is deterministic when no
// ORDER BY is present.
//
// Aggregation may optionally run partition-parallel: rows are hash
// partitioned by group key across a worker pool, each worker owns a
// private group table, and the tables are merged once all input is
// consumed. Because partitions are disjoint by key this never exposes a
// partially aggregated group downstream.
package aggregation
