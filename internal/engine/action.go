package engine

import "checkstyle/internal/api"

// actionKind tags the closed set of replayable check notifications.
type actionKind uint8

const (
	actionBeginTree actionKind = iota
	actionVisitToken
	actionLeaveToken
	actionFinishTree
)

// astAction is one buffered check notification. The multi-threaded walker
// records actions instead of dispatching directly; the ordered action list
// of one check is replayed on a single worker, which preserves the
// begin -> visit/leave -> finish sequence the check relies on.
type astAction struct {
	kind actionKind
	node *api.AstNode
	// contents is carried by begin-tree actions only.
	contents *api.FileText
}

// apply replays the action against one check within one task context.
func (a astAction) apply(ctx *api.CheckContext, check api.Check) {
	switch a.kind {
	case actionBeginTree:
		check.BeginTree(ctx, a.node)
	case actionVisitToken:
		check.VisitToken(ctx, a.node)
	case actionLeaveToken:
		check.LeaveToken(ctx, a.node)
	case actionFinishTree:
		check.FinishTree(ctx, a.node)
	}
}
