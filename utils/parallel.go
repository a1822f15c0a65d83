package utils

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ParallelFactor controls the max level of parallelization. This might be useful
// to set in tests where too much parallelism actually slows tests down in
// aggregate.
var ParallelFactor = runtime.GOMAXPROCS(0)

// MinParallelWork is the smallest amount of work that is split across goroutines. Smaller jobs run
// as a single group on the calling goroutine.
var MinParallelWork = 512

func init() {
	if ParallelFactor <= 0 {
		ParallelFactor = 1
	}
	quarterProcs := float64(ParallelFactor) * .25
	if quarterProcs > 8 {
		ParallelFactor = int(quarterProcs)
	}
}

// GroupWorkFunc processes the half-open range [from, to) of work items belonging to one group.
type GroupWorkFunc func(groupNum, from, to int) error

// GroupWorkParallel splits totalSize work items into contiguous groups and runs each group on its
// own goroutine. Groups must write to disjoint outputs. The first error cancels the context passed
// to the remaining groups and is returned.
func GroupWorkParallel(ctx context.Context, totalSize int, groupWork GroupWorkFunc) error {
	if totalSize <= 0 {
		return nil
	}
	numGroups := ParallelFactor
	if totalSize < MinParallelWork || numGroups <= 1 {
		return groupWork(0, 0, totalSize)
	}
	if numGroups > totalSize {
		numGroups = totalSize
	}
	groupSize := totalSize / numGroups
	extra := totalSize % numGroups

	g, ctx := errgroup.WithContext(ctx)
	for groupNum := 0; groupNum < numGroups; groupNum++ {
		groupNum := groupNum
		from := groupSize * groupNum
		to := from + groupSize
		if groupNum == numGroups-1 {
			to += extra
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return groupWork(groupNum, from, to)
		})
	}
	return g.Wait()
}
