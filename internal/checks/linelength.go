// Package checks bundles a few small rules exercising both plugin kinds
// of the engine. Rule logic is deliberately minimal: anything substantial
// belongs in external plugins, not in the engine repository.
package checks

import (
	"context"
	"unicode/utf8"

	"checkstyle/internal/api"
	"checkstyle/internal/config"
)

// LineLength flags lines longer than the configured maximum. It is a
// fileset check; being stateless it declares the per-application
// capability and is shared across workers without cloning.
type LineLength struct {
	api.BaseFileSetCheck

	max int
}

// NewLineLength creates the check with the default limit.
func NewLineLength() *LineLength { return &LineLength{max: 120} }

// Configure reads the "max" property.
func (c *LineLength) Configure(cfg *config.Config) error {
	if err := c.BaseFileSetCheck.Configure(cfg); err != nil {
		return err
	}
	max, err := cfg.IntProperty("max", 120)
	if err != nil {
		return err
	}
	c.max = max
	return nil
}

// Concurrency implements api.FileSetCheck.
func (c *LineLength) Concurrency() api.Concurrency { return api.ConcurrencyPerApplication }

// Process implements api.FileSetCheck.
func (c *LineLength) Process(_ context.Context, text *api.FileText) (*api.ViolationSet, error) {
	set := api.NewViolationSet()
	if !c.Matches(text) {
		return set, nil
	}
	for i, line := range text.Lines() {
		length := utf8.RuneCountInString(line)
		if length > c.max {
			c.LogAt(set, i+1, c.max+1, "line is longer than %d characters (found %d)", c.max, length)
		}
	}
	return set, nil
}
