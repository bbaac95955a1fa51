package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/agilira/go-errors"

	"checkstyle/internal/api"
)

// TreeWalker walks one parsed file and notifies the registered checks on
// the calling goroutine, in declared order, strictly sequentially. It is
// itself a fileset check, configured with tree checks as children.
type TreeWalker struct {
	treeWalkerBase
}

// NewTreeWalker creates a sequential tree walker over the given parser.
func NewTreeWalker(parser api.Parser) *TreeWalker {
	w := &TreeWalker{}
	w.initBase(parser)
	return w
}

// Process parses the file and runs the ordinary pass, plus the
// comment-augmented pass when any configured check asked for comment
// nodes. A panic inside a check callback is translated into a fatal
// processing error.
func (w *TreeWalker) Process(_ context.Context, text *api.FileText) (set *api.ViolationSet, err error) {
	if !w.Matches(text) {
		return api.NewViolationSet(), nil
	}
	defer func() {
		if r := recover(); r != nil {
			set = nil
			err = errors.New(ErrCodeTaskFailure, fmt.Sprintf("check failure: %v", r))
		}
	}()

	stats := api.FileStats{FileName: text.Path, FileSize: text.Size()}
	startTotal := time.Now()

	start := time.Now()
	root, err := w.parse(text, false)
	if err != nil {
		return nil, err
	}
	stats.ParseTime = time.Since(start)

	set = api.NewViolationSet()

	start = time.Now()
	w.walk(root, text, astOrdinary, set)
	stats.WalkTime = time.Since(start)

	if len(w.commentChecks) > 0 {
		start = time.Now()
		rootWithComments, err := w.parse(text, true)
		if err != nil {
			return nil, err
		}
		w.walk(rootWithComments, text, astWithComments, set)
		stats.CommentTime = time.Since(start)
	}

	stats.TotalTime = time.Since(startTotal)
	w.Stats().Add(stats)
	return set, nil
}

// walk performs one pass: notify tree entry for every check of the pass,
// dispatch visit/leave along the iterative traversal, notify tree exit
// and merge each check's now-final violations into the result.
func (w *TreeWalker) walk(root *api.AstNode, text *api.FileText, state astState, result *api.ViolationSet) {
	checks := w.passChecks(state)
	if len(checks) == 0 {
		return
	}

	contexts := make(map[api.Check]*api.CheckContext, len(checks))
	for _, check := range checks {
		ctx := api.NewCheckContext(text)
		contexts[check] = ctx
		check.BeginTree(ctx, root)
	}

	if root != nil {
		walkTree(root,
			func(node *api.AstNode) {
				for _, check := range w.checksFor(node, state) {
					check.VisitToken(contexts[check], node)
				}
			},
			func(node *api.AstNode) {
				for _, check := range w.checksFor(node, state) {
					check.LeaveToken(contexts[check], node)
				}
			})
	}

	for _, check := range checks {
		ctx := contexts[check]
		check.FinishTree(ctx, root)
		result.Merge(ctx.Violations())
	}
}
