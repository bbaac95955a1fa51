package checks

import (
	"checkstyle/internal/api"
	"checkstyle/internal/config"
)

// FuncCount flags files declaring more functions than the configured
// maximum. Only function declarations are dispatched to it.
type FuncCount struct {
	api.BaseCheck

	max   int
	count int
}

// NewFuncCount creates the check with the default limit.
func NewFuncCount() *FuncCount { return &FuncCount{max: 30} }

// Configure reads the "max" property.
func (c *FuncCount) Configure(cfg *config.Config) error {
	if err := c.BaseCheck.Configure(cfg); err != nil {
		return err
	}
	max, err := cfg.IntProperty("max", 30)
	if err != nil {
		return err
	}
	c.max = max
	return nil
}

// Concurrency implements api.Check.
func (c *FuncCount) Concurrency() api.Concurrency { return api.ConcurrencyPerThread }

// TokenTypes registers the check for function declarations only.
func (c *FuncCount) TokenTypes() []string { return []string{"FuncDecl"} }

// BeginTree implements api.Check.
func (c *FuncCount) BeginTree(*api.CheckContext, *api.AstNode) { c.count = 0 }

// VisitToken implements api.Check.
func (c *FuncCount) VisitToken(*api.CheckContext, *api.AstNode) { c.count++ }

// FinishTree implements api.Check.
func (c *FuncCount) FinishTree(ctx *api.CheckContext, root *api.AstNode) {
	if c.count > c.max {
		line, column := 1, 1
		if root != nil {
			line, column = root.Line, root.Column
		}
		c.LogAt(ctx, line, column, "file declares %d functions (max allowed is %d)", c.count, c.max)
	}
}
