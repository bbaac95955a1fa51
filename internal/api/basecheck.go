package api

import (
	"checkstyle/internal/config"
)

// BaseCheck provides the plumbing shared by tree checks: configuration and
// context storage, severity parsing and violation logging. Concrete checks
// embed it and override the event callbacks they care about.
type BaseCheck struct {
	cfg      *config.Config
	ctx      Context
	severity Severity
}

// Configure stores the configuration and applies the common "severity"
// property. Embedding checks call it before reading their own properties.
func (b *BaseCheck) Configure(cfg *config.Config) error {
	b.cfg = cfg
	b.severity = SeverityError
	if raw, ok := cfg.Property("severity"); ok {
		severity, err := ParseSeverity(raw)
		if err != nil {
			return err
		}
		b.severity = severity
	}
	return nil
}

// Configuration returns the stored configuration for clone replay.
func (b *BaseCheck) Configuration() *config.Config { return b.cfg }

// Contextualize stores the checker-provided context.
func (b *BaseCheck) Contextualize(ctx Context) error {
	b.ctx = ctx
	return nil
}

// Context returns the stored context for clone replay.
func (b *BaseCheck) Context() Context { return b.ctx }

// Init is a no-op by default.
func (b *BaseCheck) Init() error { return nil }

// Destroy is a no-op by default.
func (b *BaseCheck) Destroy() {}

// Concurrency defaults to undeclared; checks should override it.
func (b *BaseCheck) Concurrency() Concurrency { return ConcurrencyUndeclared }

// RequiresCommentNodes defaults to the ordinary pass.
func (b *BaseCheck) RequiresCommentNodes() bool { return false }

// BeginTree is a no-op by default.
func (b *BaseCheck) BeginTree(*CheckContext, *AstNode) {}

// VisitToken is a no-op by default.
func (b *BaseCheck) VisitToken(*CheckContext, *AstNode) {}

// LeaveToken is a no-op by default.
func (b *BaseCheck) LeaveToken(*CheckContext, *AstNode) {}

// FinishTree is a no-op by default.
func (b *BaseCheck) FinishTree(*CheckContext, *AstNode) {}

// Severity returns the configured severity (error when unconfigured).
func (b *BaseCheck) Severity() Severity {
	if b.cfg == nil {
		return SeverityError
	}
	return b.severity
}

// Name returns the configured module name.
func (b *BaseCheck) Name() string {
	if b.cfg == nil {
		return ""
	}
	return b.cfg.Name()
}

// Log records a violation at a node position into the task context.
func (b *BaseCheck) Log(ctx *CheckContext, node *AstNode, key string, args ...any) {
	b.LogAt(ctx, node.Line, node.Column, key, args...)
}

// LogAt records a violation at an explicit position into the task context.
func (b *BaseCheck) LogAt(ctx *CheckContext, line, column int, key string, args ...any) {
	ctx.Collect(NewViolation(line, column, b.Severity(), b.Name(), key, args...))
}
