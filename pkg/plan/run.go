package plan

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"rollup/pkg/iterator"
	"rollup/pkg/tuple"
)

// Desc returns the output schema of the compiled plan.
func (p *Plan) Desc() *tuple.TupleDescription {
	return p.desc
}

// Iterator exposes the pipeline root for streaming consumption. The caller
// owns the Open/Close lifecycle.
func (p *Plan) Iterator() iterator.DbIterator {
	return p.root
}

// Run executes the pipeline to completion and returns all output rows.
// Cancellation is checked between rows; an abandoned run leaves no
// external state behind, since no stage has side effects. On any error
// no rows are returned.
func (p *Plan) Run(ctx context.Context) ([]*tuple.Tuple, error) {
	queryID := uuid.NewString()
	start := time.Now()
	p.logger.Info("query started",
		zap.String("query_id", queryID),
		zap.String("schema", p.desc.String()))

	if err := p.root.Open(); err != nil {
		return nil, fmt.Errorf("failed to open pipeline: %w", err)
	}
	defer func() {
		if err := p.root.Close(); err != nil {
			p.logger.Warn("pipeline close failed",
				zap.String("query_id", queryID), zap.Error(err))
		}
	}()

	var results []*tuple.Tuple
	for {
		if err := ctx.Err(); err != nil {
			p.logger.Info("query canceled",
				zap.String("query_id", queryID), zap.Error(err))
			return nil, err
		}

		hasNext, err := p.root.HasNext()
		if err != nil {
			return nil, err
		}
		if !hasNext {
			break
		}

		tup, err := p.root.Next()
		if err != nil {
			return nil, err
		}
		results = append(results, tup)
	}

	p.logger.Info("query finished",
		zap.String("query_id", queryID),
		zap.Int("rows", len(results)),
		zap.Duration("elapsed", time.Since(start)))
	return results, nil
}
