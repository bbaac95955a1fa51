package checks

import (
	"checkstyle/internal/api"
	"checkstyle/internal/config"
)

// NodeCount flags trees with more nodes than the configured maximum. The
// running counter makes it stateful, so it declares the per-thread
// capability and gets cloned per concurrent user.
type NodeCount struct {
	api.BaseCheck

	max   int
	count int
}

// NewNodeCount creates the check with the default limit.
func NewNodeCount() *NodeCount { return &NodeCount{max: 5000} }

// Configure reads the "max" property.
func (c *NodeCount) Configure(cfg *config.Config) error {
	if err := c.BaseCheck.Configure(cfg); err != nil {
		return err
	}
	max, err := cfg.IntProperty("max", 5000)
	if err != nil {
		return err
	}
	c.max = max
	return nil
}

// Concurrency implements api.Check.
func (c *NodeCount) Concurrency() api.Concurrency { return api.ConcurrencyPerThread }

// TokenTypes registers the check for every node.
func (c *NodeCount) TokenTypes() []string { return nil }

// BeginTree implements api.Check.
func (c *NodeCount) BeginTree(*api.CheckContext, *api.AstNode) { c.count = 0 }

// VisitToken implements api.Check.
func (c *NodeCount) VisitToken(*api.CheckContext, *api.AstNode) { c.count++ }

// FinishTree implements api.Check.
func (c *NodeCount) FinishTree(ctx *api.CheckContext, root *api.AstNode) {
	if c.count > c.max {
		line, column := 1, 1
		if root != nil {
			line, column = root.Line, root.Column
		}
		c.LogAt(ctx, line, column, "tree contains %d nodes (max allowed is %d)", c.count, c.max)
	}
}
