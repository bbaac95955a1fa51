// Package api defines the data model of the engine (AST nodes, file text,
// violations) and the ports its plugins implement: tree-level checks,
// file-level checks, filters and audit listeners. The engine packages
// consume these interfaces; concrete rules live outside the engine core.
package api

import (
	"context"

	"checkstyle/internal/config"
)

// Concurrency is the declared execution capability of a check instance.
// It is a contract, not an enforcement: the engine never wraps a shared
// check in locks, it only decides whether to clone.
type Concurrency uint8

const (
	// ConcurrencyUndeclared means the check never stated its capability.
	// Such checks are treated as shared (per-application) and a diagnostic
	// is logged, because their thread-safety is unverified. This default
	// is kept for compatibility with existing configurations; prefer an
	// explicit declaration.
	ConcurrencyUndeclared Concurrency = iota
	// ConcurrencyPerThread marks a check that is not safe to share. A
	// fresh configured clone is manufactured per concurrent user.
	ConcurrencyPerThread
	// ConcurrencyPerApplication marks a check that is stateless or
	// internally synchronized. The original instance is always reused.
	ConcurrencyPerApplication
)

func (c Concurrency) String() string {
	switch c {
	case ConcurrencyPerThread:
		return "per-thread"
	case ConcurrencyPerApplication:
		return "per-application"
	default:
		return "undeclared"
	}
}

// Context is the name/value bag replayed onto clones alongside the
// configuration. The checkers seed it with the module factory, the
// thread-mode settings and the logger before configuring children.
type Context map[string]any

// Well-known context keys.
const (
	ContextModuleFactory = "moduleFactory"
	ContextSettings      = "threadModeSettings"
	ContextLogger        = "logger"
	ContextCharset       = "charset"
)

// Configurable is implemented by every module that accepts a configuration
// and can replay it later (the clone service relies on Configuration()
// returning exactly what Configure received).
type Configurable interface {
	Configure(cfg *config.Config) error
	Configuration() *config.Config
}

// Contextualizable is implemented by every module that receives the
// checker's context before being configured.
type Contextualizable interface {
	Contextualize(ctx Context) error
	Context() Context
}

// CheckContext carries the per-task state of one walk over one file: the
// file contents and the violation buffer the check logs into. The engine
// creates one context per (check, file) task, so a stateless shared check
// needs no synchronization of its own to stay race-free.
type CheckContext struct {
	contents   *FileText
	violations *ViolationSet
}

// NewCheckContext creates a context for one walk of one file.
func NewCheckContext(contents *FileText) *CheckContext {
	return &CheckContext{contents: contents, violations: NewViolationSet()}
}

// Contents returns the file being walked.
func (c *CheckContext) Contents() *FileText { return c.contents }

// Collect adds a violation to the task's buffer.
func (c *CheckContext) Collect(v Violation) { c.violations.Add(v) }

// Violations returns the buffer with everything collected so far.
func (c *CheckContext) Violations() *ViolationSet { return c.violations }

// Check is a pluggable rule reacting to tree lifecycle and node events.
// For any single instance the engine replays begin -> visit/leave in tree
// order -> finish for one file on exactly one goroutine, never interleaved
// with another file's events on that instance.
type Check interface {
	Configurable
	Contextualizable

	// Init finishes construction after Contextualize and Configure.
	Init() error
	// Destroy releases resources at the end of the run.
	Destroy()
	// Concurrency declares whether the instance may be shared.
	Concurrency() Concurrency
	// TokenTypes lists the node types the check wants to be notified
	// about. An empty list registers the check for every node.
	TokenTypes() []string
	// RequiresCommentNodes selects the comment-augmented second pass.
	RequiresCommentNodes() bool

	BeginTree(ctx *CheckContext, root *AstNode)
	VisitToken(ctx *CheckContext, node *AstNode)
	LeaveToken(ctx *CheckContext, node *AstNode)
	FinishTree(ctx *CheckContext, root *AstNode)
}

// FileSetCheck is a pluggable rule reacting to whole files.
type FileSetCheck interface {
	Configurable
	Contextualizable

	Init() error
	Destroy()
	Concurrency() Concurrency

	// BeginProcessing announces the run's charset before the first file.
	BeginProcessing(charset string)
	// Process runs the check over one file and returns its sorted
	// violations. A returned error is fatal for the whole run.
	Process(ctx context.Context, text *FileText) (*ViolationSet, error)
	// FinishProcessing is called once after the last file.
	FinishProcessing()
	// FinishCloning tells a fresh per-thread clone which original it was
	// manufactured from, so it can reach shared setup and report into
	// the original's accumulators.
	FinishCloning(original FileSetCheck)
}

// Parser produces the tree for one file, or nil for an empty file. It is
// an external collaborator of the engine: walking starts after parsing
// succeeded. Implementations must be safe for concurrent use.
type Parser interface {
	Parse(text *FileText, withComments bool) (*AstNode, error)
}
