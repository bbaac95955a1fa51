package checks

import (
	"checkstyle/internal/config"
)

// Register binds the bundled checks into a module registry under the
// names configuration files refer to them by.
func Register(reg *config.Registry) {
	reg.Register("LineLength", func() any { return NewLineLength() })
	reg.Register("NodeCount", func() any { return NewNodeCount() })
	reg.Register("FuncCount", func() any { return NewFuncCount() })
}
