package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/agilira/go-errors"

	"checkstyle/internal/api"
)

// MultiThreadTreeWalker walks one parsed file the way TreeWalker does,
// but defers check execution: every scheduled notification is appended to
// a private, strictly ordered action queue per check, and after the
// traversal one task per check replays its whole queue on the walker
// pool. Parallelizing by check instead of by subtree keeps every check's
// state single-goroutine while the read-only tree is shared.
type MultiThreadTreeWalker struct {
	treeWalkerBase

	pool *workerPool
}

// NewMultiThreadTreeWalker creates a parallel tree walker over the given
// parser. The pool is sized from the configured tree-walker thread count
// on first use and reused across files.
func NewMultiThreadTreeWalker(parser api.Parser) *MultiThreadTreeWalker {
	w := &MultiThreadTreeWalker{}
	w.initBase(parser)
	return w
}

func (w *MultiThreadTreeWalker) ensurePool() {
	if w.pool == nil {
		w.pool = newWorkerPool(w.settings.TreeWalkerThreads())
	}
}

// Process parses the file and runs both passes, executing the per-check
// action queues concurrently.
func (w *MultiThreadTreeWalker) Process(ctx context.Context, text *api.FileText) (*api.ViolationSet, error) {
	if !w.Matches(text) {
		return api.NewViolationSet(), nil
	}
	w.ensurePool()

	stats := api.FileStats{FileName: text.Path, FileSize: text.Size()}
	startTotal := time.Now()

	start := time.Now()
	root, err := w.parse(text, false)
	if err != nil {
		return nil, err
	}
	stats.ParseTime = time.Since(start)

	set := api.NewViolationSet()

	start = time.Now()
	if err := w.walk(ctx, root, text, astOrdinary, set); err != nil {
		return nil, err
	}
	stats.WalkTime = time.Since(start)

	if len(w.commentChecks) > 0 {
		start = time.Now()
		rootWithComments, err := w.parse(text, true)
		if err != nil {
			return nil, err
		}
		if err := w.walk(ctx, rootWithComments, text, astWithComments, set); err != nil {
			return nil, err
		}
		stats.CommentTime = time.Since(start)
	}

	stats.TotalTime = time.Since(startTotal)
	w.Stats().Add(stats)
	return set, nil
}

// walk records the action queues of one pass and then executes them. The
// queue of a check always starts with begin-tree and ends with
// finish-tree; node actions in between follow traversal order.
func (w *MultiThreadTreeWalker) walk(ctx context.Context, root *api.AstNode, text *api.FileText, state astState, result *api.ViolationSet) error {
	checks := w.passChecks(state)
	if len(checks) == 0 {
		return nil
	}

	queues := make(map[api.Check][]astAction, len(checks))
	register := func(check api.Check, action astAction) {
		queues[check] = append(queues[check], action)
	}

	for _, check := range checks {
		register(check, astAction{kind: actionBeginTree, node: root, contents: text})
	}
	if root != nil {
		walkTree(root,
			func(node *api.AstNode) {
				action := astAction{kind: actionVisitToken, node: node}
				for _, check := range w.checksFor(node, state) {
					register(check, action)
				}
			},
			func(node *api.AstNode) {
				action := astAction{kind: actionLeaveToken, node: node}
				for _, check := range w.checksFor(node, state) {
					register(check, action)
				}
			})
	}
	for _, check := range checks {
		register(check, astAction{kind: actionFinishTree, node: root})
	}

	return w.executeActions(ctx, checks, queues, result)
}

// executionResult is the outcome of one check task: the check's final
// violations or a captured failure, never both.
type executionResult struct {
	violations *api.ViolationSet
	err        error
}

// executeActions submits one task per check to the walker pool, waits for
// every task of the pass and merges the successful results. The first
// captured failure, as well as a cancellation observed while waiting,
// aborts the pass as a fatal error with the cause preserved.
func (w *MultiThreadTreeWalker) executeActions(ctx context.Context, checks []api.Check, queues map[api.Check][]astAction, result *api.ViolationSet) error {
	results := make([]executionResult, len(checks))

	g, gctx := w.pool.group(ctx)
	for i, check := range checks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = runActions(check, queues[check])
			return results[i].err
		})
	}
	if err := g.Wait(); err != nil {
		return errors.Wrap(err, ErrCodeTaskFailure, "unable to execute checkstyle tasks")
	}

	for _, res := range results {
		result.Merge(res.violations)
	}
	return nil
}

// runActions replays one check's queue strictly in order on the calling
// goroutine. A panic inside the check is captured as the task's failure.
func runActions(check api.Check, actions []astAction) (res executionResult) {
	defer func() {
		if r := recover(); r != nil {
			res = executionResult{err: fmt.Errorf("check %s failed: %v", simpleTypeName(check), r)}
		}
	}()

	var ctx *api.CheckContext
	for _, action := range actions {
		if action.kind == actionBeginTree {
			ctx = api.NewCheckContext(action.contents)
		}
		action.apply(ctx, check)
	}
	return executionResult{violations: ctx.Violations()}
}
