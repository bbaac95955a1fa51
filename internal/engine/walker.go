package engine

import (
	"github.com/agilira/go-errors"
	"go.uber.org/zap"

	"checkstyle/internal/api"
	"checkstyle/internal/config"
)

// astState selects the pass a check set belongs to: the ordinary token
// pass or the second pass over the comment-augmented tree.
type astState uint8

const (
	astOrdinary astState = iota
	astWithComments
)

// treeWalkerBase carries the state shared by the walker implementations:
// the configured tree checks split by pass, the per-token-type dispatch
// registries, and the parser producing the trees.
type treeWalkerBase struct {
	api.BaseFileSetCheck

	parser   api.Parser
	settings *config.ThreadModeSettings
	log      *zap.Logger

	ordinaryChecks []api.Check
	commentChecks  []api.Check

	tokenToOrdinaryChecks map[string][]api.Check
	tokenToCommentChecks  map[string][]api.Check

	// Checks with an empty token-type declaration observe every node.
	anyTokenOrdinary []api.Check
	anyTokenComment  []api.Check
}

func (b *treeWalkerBase) initBase(parser api.Parser) {
	b.parser = parser
	b.settings = config.SingleThreadMode
	b.log = zap.NewNop()
	b.tokenToOrdinaryChecks = make(map[string][]api.Check)
	b.tokenToCommentChecks = make(map[string][]api.Check)
}

// Concurrency marks tree walkers as per-thread: a walker accumulates
// per-file state and must never be shared across concurrent files.
func (b *treeWalkerBase) Concurrency() api.Concurrency { return api.ConcurrencyPerThread }

// Configure applies the base fileset properties, adopts the thread-mode
// settings of the configuration tree and instantiates the child checks
// through the module factory provided by the context.
func (b *treeWalkerBase) Configure(cfg *config.Config) error {
	if err := b.BaseFileSetCheck.Configure(cfg); err != nil {
		return err
	}
	b.settings = cfg.ThreadMode()
	if logger, ok := b.Context()[api.ContextLogger].(*zap.Logger); ok {
		b.log = logger
	}
	for _, childCfg := range cfg.Children() {
		if err := b.setupChild(childCfg); err != nil {
			return err
		}
	}
	return nil
}

func (b *treeWalkerBase) setupChild(childCfg *config.Config) error {
	factory, ok := b.Context()[api.ContextModuleFactory].(config.ModuleFactory)
	if !ok {
		return errors.New(config.ErrCodeInvalidConfig,
			"tree walker context carries no module factory")
	}
	module, err := factory.CreateModule(childCfg.Name())
	if err != nil {
		return err
	}
	check, ok := module.(api.Check)
	if !ok {
		return errors.New(config.ErrCodeInvalidConfig,
			childCfg.Name()+" is not allowed as a child of "+b.Name())
	}
	if err := check.Contextualize(b.Context()); err != nil {
		return err
	}
	if err := check.Configure(childCfg); err != nil {
		return err
	}
	if err := check.Init(); err != nil {
		return err
	}
	b.RegisterCheck(check)
	return nil
}

// RegisterCheck adds a check to the pass set and the token registries it
// declared interest in.
func (b *treeWalkerBase) RegisterCheck(check api.Check) {
	tokens := check.TokenTypes()
	if check.RequiresCommentNodes() {
		b.commentChecks = append(b.commentChecks, check)
		if len(tokens) == 0 {
			b.anyTokenComment = append(b.anyTokenComment, check)
			return
		}
		for _, token := range tokens {
			b.tokenToCommentChecks[token] = append(b.tokenToCommentChecks[token], check)
		}
		return
	}
	b.ordinaryChecks = append(b.ordinaryChecks, check)
	if len(tokens) == 0 {
		b.anyTokenOrdinary = append(b.anyTokenOrdinary, check)
		return
	}
	for _, token := range tokens {
		b.tokenToOrdinaryChecks[token] = append(b.tokenToOrdinaryChecks[token], check)
	}
}

// Destroy tears down the registered checks.
func (b *treeWalkerBase) Destroy() {
	for _, check := range b.ordinaryChecks {
		check.Destroy()
	}
	for _, check := range b.commentChecks {
		check.Destroy()
	}
	b.BaseFileSetCheck.Destroy()
}

// passChecks returns the check set of a pass in registration order.
func (b *treeWalkerBase) passChecks(state astState) []api.Check {
	if state == astWithComments {
		return b.commentChecks
	}
	return b.ordinaryChecks
}

// checksFor returns the checks registered for a node's token type within
// a pass. Checks not registered for the type are skipped in O(1) through
// the per-type registry.
func (b *treeWalkerBase) checksFor(node *api.AstNode, state astState) []api.Check {
	var byToken map[string][]api.Check
	var anyToken []api.Check
	if state == astWithComments {
		byToken, anyToken = b.tokenToCommentChecks, b.anyTokenComment
	} else {
		byToken, anyToken = b.tokenToOrdinaryChecks, b.anyTokenOrdinary
	}
	registered := byToken[node.Type]
	if len(anyToken) == 0 {
		return registered
	}
	if len(registered) == 0 {
		return anyToken
	}
	combined := make([]api.Check, 0, len(registered)+len(anyToken))
	combined = append(combined, registered...)
	return append(combined, anyToken...)
}

// parse produces the tree for one file. Empty files yield a nil root:
// tree entry and exit notifications still fire for them, but no node is
// dispatched.
func (b *treeWalkerBase) parse(text *api.FileText, withComments bool) (*api.AstNode, error) {
	if b.parser == nil {
		return nil, errors.New(config.ErrCodeInvalidConfig,
			"tree walker has no parser configured")
	}
	if text.Empty() {
		return nil, nil
	}
	return b.parser.Parse(text, withComments)
}

// walkTree runs the iterative depth-first traversal: visit on entry,
// descend into the first child, leave when a subtree is exhausted, then
// advance to the next sibling, climbing back up through parents until the
// traversal returns above the root.
func walkTree(root *api.AstNode, visit, leave func(*api.AstNode)) {
	cur := root
	for cur != nil {
		visit(cur)
		next := cur.FirstChild
		for cur != nil && next == nil {
			leave(cur)
			next = cur.NextSibling
			if next == nil {
				cur = cur.Parent
			}
		}
		cur = next
	}
}
