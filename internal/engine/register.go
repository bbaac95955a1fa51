package engine

import (
	"go.uber.org/zap"

	"checkstyle/internal/api"
	"checkstyle/internal/config"
)

// RegisterModules binds the engine's own modules into a registry, so that
// configuration files and the clone service can instantiate them by name.
// The parser is closed over by the walker constructors; clones therefore
// share it, which is safe because parsers are stateless by contract.
func RegisterModules(reg *config.Registry, parser api.Parser, log *zap.Logger) {
	reg.Register(config.CheckerModuleName, func() any { return NewChecker(reg, log) })
	reg.Register(config.MultiThreadCheckerModuleName, func() any { return NewMultiThreadChecker(reg, log) })
	reg.Register(config.TreeWalkerModuleName, func() any { return NewTreeWalker(parser) })
	reg.Register(config.MultiThreadTreeWalkerModuleName, func() any { return NewMultiThreadTreeWalker(parser) })
}
