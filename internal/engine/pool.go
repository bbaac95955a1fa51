package engine

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// workerPool is a bounded pool of worker tasks. It is created lazily on
// first use, sized from the thread-mode settings, and reused for every
// unit of work of the run. A batch is executed through an errgroup capped
// at the pool size; the first task error cancels the batch context and
// wins, remaining results are discarded by the caller.
type workerPool struct {
	size int
}

func newWorkerPool(size int) *workerPool {
	if size < 1 {
		size = 1
	}
	return &workerPool{size: size}
}

// Size returns the maximum number of concurrently running tasks.
func (p *workerPool) Size() int { return p.size }

// group starts a batch bounded by the pool size.
func (p *workerPool) group(ctx context.Context) (*errgroup.Group, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)
	return g, gctx
}

// parallel starts an unbounded batch for callers that spawn exactly one
// goroutine per pool worker themselves (plus a feeder).
func (p *workerPool) parallel(ctx context.Context) (*errgroup.Group, context.Context) {
	return errgroup.WithContext(ctx)
}
