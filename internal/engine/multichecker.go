package engine

import (
	"context"
	goerrors "errors"
	"sync"

	"github.com/agilira/go-errors"
	"go.uber.org/zap"

	"checkstyle/internal/api"
	"checkstyle/internal/config"
)

// MultiThreadChecker processes a batch of files across a worker pool
// sized from the checker-level thread count. Every worker owns its own
// resolved set of fileset checks: per-thread checks are cloned once per
// worker through the clone service, per-application checks are shared
// as-is. Results are aggregated in file order, so the output matches a
// sequential run.
type MultiThreadChecker struct {
	Checker

	clones *CloneService
	pool   *workerPool
}

// NewMultiThreadChecker creates a parallel checker over the given module
// factory.
func NewMultiThreadChecker(factory config.ModuleFactory, log *zap.Logger) *MultiThreadChecker {
	c := &MultiThreadChecker{Checker: *NewChecker(factory, log)}
	c.clones = NewCloneService(factory, c.log)
	return c
}

// ensurePool lazily creates the checker-level pool on first use.
func (c *MultiThreadChecker) ensurePool() {
	if c.pool == nil {
		c.pool = newWorkerPool(c.settings.CheckerThreads())
	}
}

// Process dispatches one task per file, waits for all of them and merges
// the per-file results in input order. The first task failure aborts the
// run with an error naming the offending file; a cancellation observed
// while waiting surfaces as a task-execution failure with the cause
// attached.
func (c *MultiThreadChecker) Process(ctx context.Context, files []string) (int, error) {
	c.ensurePool()

	workerSets, distinct, err := c.resolveWorkerSets()
	if err != nil {
		return 0, err
	}

	c.fireAuditStarted()
	for _, check := range distinct {
		check.BeginProcessing(c.charset)
	}

	results := make([]*api.ViolationSet, len(files))
	jobs := make(chan int)

	// Слушатели не обязаны быть потокобезопасными, поэтому событие об
	// ошибке уходит после Wait из текущей горутины.
	var (
		failMu   sync.Mutex
		failPath string
		failErr  error
	)

	g, gctx := c.pool.parallel(ctx)
	g.Go(func() error {
		defer close(jobs)
		for i := range files {
			select {
			case jobs <- i:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
		return nil
	})
	for w := 0; w < c.pool.Size(); w++ {
		checks := workerSets[w]
		g.Go(func() error {
			for idx := range jobs {
				violations, err := c.processFile(gctx, checks, files[idx])
				if err != nil {
					failMu.Lock()
					if failErr == nil {
						failPath, failErr = files[idx], err
					}
					failMu.Unlock()
					return err
				}
				// Индексы уникальны для каждой задачи, мьютекс не нужен.
				results[idx] = violations
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		if failErr != nil {
			c.fireException(failPath, failErr)
		}
		if gctx.Err() != nil && goerrors.Is(err, gctx.Err()) {
			return 0, errors.Wrap(err, ErrCodeTaskFailure, "unable to execute checkstyle tasks")
		}
		return 0, err
	}

	errorCount := 0
	for i, path := range files {
		errorCount += c.fireErrors(path, results[i])
	}

	c.finishChecks(distinct)
	c.fireAuditFinished()
	if err := c.results.Persist(); err != nil {
		return 0, err
	}
	return errorCount, nil
}

// resolveWorkerSets produces one resolved check set per pool worker and
// the distinct instances across all sets for the once-per-run lifecycle
// hooks. With a pool of one, a per-thread check yields exactly one clone
// for the whole run.
func (c *MultiThreadChecker) resolveWorkerSets() ([][]api.FileSetCheck, []api.FileSetCheck, error) {
	workerSets := make([][]api.FileSetCheck, c.pool.Size())
	var distinct []api.FileSetCheck
	seen := make(map[api.FileSetCheck]struct{})
	for w := range workerSets {
		set, err := c.clones.CloneFileSetChecks(c.fileSetChecks)
		if err != nil {
			return nil, nil, err
		}
		workerSets[w] = set
		for _, check := range set {
			if _, ok := seen[check]; !ok {
				seen[check] = struct{}{}
				distinct = append(distinct, check)
			}
		}
	}
	return workerSets, distinct, nil
}
