package aggregation

import (
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"

	"rollup/pkg/iterator"
	"rollup/pkg/tuple"
	"rollup/pkg/types"
)

// rowItem carries one input row and its global position to a partition
// worker. Positions let the merge step restore first-seen group order.
type rowItem struct {
	row int64
	tup *tuple.Tuple
}

const partitionChanBuffer = 64

// drainParallel consumes the child with hash-partitioned grouping: rows
// are routed by group key to one of n workers, each owning a private
// GroupAggregator. Partitions are disjoint by key, so no group state is
// ever shared; the per-partition tables are merged once all workers have
// finished, and only then are results visible downstream.
func (a *Aggregate) drainParallel(n int) error {
	parts := make([]*GroupAggregator, n)
	chans := make([]chan rowItem, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		part, err := NewGroupAggregator(a.grouper.inputDesc, a.grouper.cfg)
		if err != nil {
			return err
		}
		parts[i] = part
		chans[i] = make(chan rowItem, partitionChanBuffer)
	}

	pool, err := ants.NewPool(n)
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		if err := pool.Submit(func() {
			defer wg.Done()
			for item := range chans[i] {
				if errs[i] != nil {
					continue // keep draining so the feeder never blocks
				}
				errs[i] = parts[i].mergeAt(item.tup, item.row)
			}
		}); err != nil {
			wg.Done()
			for _, ch := range chans {
				close(ch)
			}
			wg.Wait()
			return fmt.Errorf("failed to submit partition worker: %w", err)
		}
	}

	var row int64
	feedErr := iterator.ForEach(a.child, func(tup *tuple.Tuple) error {
		keyFields := make([]types.Field, len(a.grouper.cfg.GroupBy))
		for i, col := range a.grouper.cfg.GroupBy {
			f, err := tup.GetField(col)
			if err != nil {
				return fmt.Errorf("failed to read grouping column %d: %w", col, err)
			}
			keyFields[i] = f
		}

		p := partitionOf(encodeGroupKey(keyFields), n)
		chans[p] <- rowItem{row: row, tup: tup}
		row++
		return nil
	})

	for i := 0; i < n; i++ {
		close(chans[i])
	}
	wg.Wait()

	if feedErr != nil {
		return feedErr
	}
	for _, err := range errs {
		if err != nil {
			return err
		}
	}

	for _, part := range parts {
		if err := a.grouper.mergeFrom(part); err != nil {
			return err
		}
	}
	a.grouper.sortByFirstSeen()
	return nil
}
