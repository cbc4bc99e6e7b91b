package main

import (
	"context"
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"rollup/pkg/config"
	"rollup/pkg/execution/aggregation"
	"rollup/pkg/expr"
	"rollup/pkg/iterator"
	"rollup/pkg/logutil"
	"rollup/pkg/plan"
	"rollup/pkg/source"
	"rollup/pkg/tuple"
	"rollup/pkg/types"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

type arguments struct {
	ConfigPath string
	SQLitePath string
	MinSalary  int64
}

func main() {
	args := parseArguments()

	cfg, err := loadConfig(args.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logutil.New(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	src, cleanup, err := buildSource(args)
	if err != nil {
		log.Fatalf("Failed to build row source: %v", err)
	}
	defer cleanup()

	if err := runDemoQuery(src, args, cfg, logger); err != nil {
		log.Fatalf("Query failed: %v", err)
	}
}

func parseArguments() arguments {
	var args arguments

	flag.StringVar(&args.ConfigPath, "config", "", "Path to a TOML configuration file")
	flag.StringVar(&args.SQLitePath, "sqlite", "", "Read employees from a SQLite database instead of the built-in sample")
	flag.Int64Var(&args.MinSalary, "min-salary", 0, "Only count employees earning more than this")

	flag.Parse()

	return args
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Default(), nil
	}
	return config.Load(path)
}

// buildSource returns either the SQLite-backed source or the built-in
// sample rows, plus a cleanup function for whichever was chosen.
func buildSource(args arguments) (iterator.DbIterator, func(), error) {
	desc, err := employeeDesc()
	if err != nil {
		return nil, nil, err
	}

	if args.SQLitePath != "" {
		db, err := sql.Open("sqlite3", args.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		src, err := source.NewSQL(db, desc, "SELECT dept, name, salary FROM employees")
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		return src, func() { db.Close() }, nil
	}

	src, err := sampleEmployees(desc)
	if err != nil {
		return nil, nil, err
	}
	return src, func() {}, nil
}

func employeeDesc() (*tuple.TupleDescription, error) {
	return tuple.NewTupleDesc(
		[]types.Type{types.StringType, types.StringType, types.IntType},
		[]string{"dept", "name", "salary"},
	)
}

func sampleEmployees(desc *tuple.TupleDescription) (*source.Memory, error) {
	raw := []struct {
		dept   any
		name   string
		salary any
	}{
		{"IT", "alice", 70000},
		{"IT", "bob", 50000},
		{"HR", "carol", 40000},
		{"HR", "dave", nil},
		{nil, "erin", 55000},
		{nil, "frank", 61000},
		{"Sales", "grace", 45000},
	}

	b := tuple.NewBuilder(desc)
	rows := make([]*tuple.Tuple, 0, len(raw))
	for _, r := range raw {
		tup, err := b.Set("dept", r.dept).Set("name", r.name).Set("salary", r.salary).Build()
		if err != nil {
			return nil, err
		}
		rows = append(rows, tup)
	}
	return source.NewMemory(desc, rows)
}

// runDemoQuery groups employees by department and reports headcount and
// pay statistics, highest average first.
func runDemoQuery(src iterator.DbIterator, args arguments, cfg *config.Config, logger *zap.Logger) error {
	q := &plan.Query{
		Select: []plan.SelectItem{
			{Expr: expr.NewColumn("dept")},
			{Expr: expr.NewCountStar(), Alias: "headcount"},
			{Expr: expr.NewAggregate(expr.Sum, "salary"), Alias: "total_pay"},
			{Expr: expr.NewAggregate(expr.Avg, "salary"), Alias: "avg_pay"},
			{Expr: expr.NewAggregate(expr.Min, "salary"), Alias: "min_pay"},
			{Expr: expr.NewAggregate(expr.Max, "salary"), Alias: "max_pay"},
		},
		GroupBy: []string{"dept"},
		OrderBy: []plan.OrderKey{{Column: "avg_pay", Ascending: false}},
	}
	if args.MinSalary > 0 {
		q.Where = expr.NewComparison(
			expr.NewColumn("salary"),
			types.GreaterThan,
			expr.NewLiteral(types.NewIntField(args.MinSalary)),
		)
	}

	p, err := plan.Compile(src, q, plan.Options{
		Aggregation: aggregation.Options{SumAllNullAsZero: cfg.Engine.SumAllNullAsZero},
		Parallelism: cfg.Engine.Parallelism,
		Logger:      logger,
	})
	if err != nil {
		return err
	}

	results, err := p.Run(context.Background())
	if err != nil {
		return err
	}

	printResults(p.Desc(), results)
	return nil
}

func printResults(desc *tuple.TupleDescription, rows []*tuple.Tuple) {
	header := make([]string, desc.NumFields())
	for i := range header {
		name, _ := desc.GetFieldName(i)
		header[i] = name
	}
	fmt.Fprintln(os.Stdout, strings.Join(header, "\t"))

	for _, row := range rows {
		cells := make([]string, desc.NumFields())
		for i := range cells {
			f, err := row.GetField(i)
			if err != nil || f == nil {
				cells[i] = "NULL"
				continue
			}
			cells[i] = f.String()
		}
		fmt.Fprintln(os.Stdout, strings.Join(cells, "\t"))
	}
}
