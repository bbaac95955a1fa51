package config

import (
	"github.com/agilira/go-errors"
)

// Well-known module names handled specially by name resolution.
const (
	CheckerModuleName               = "Checker"
	MultiThreadCheckerModuleName    = "MultiThreadChecker"
	TreeWalkerModuleName            = "TreeWalker"
	MultiThreadTreeWalkerModuleName = "MultiThreadTreeWalker"
)

// SingleThreadMode is the sentinel settings instance for fully sequential
// runs. Name resolution through it is the identity mapping.
var SingleThreadMode = &ThreadModeSettings{checkerThreads: 1, treeWalkerThreads: 1}

// ThreadModeSettings holds the two worker-pool sizes of a run and the policy
// for resolving abstract module names to their single- or multi-threaded
// implementations. Immutable once constructed.
type ThreadModeSettings struct {
	checkerThreads    int
	treeWalkerThreads int
}

// NewThreadModeSettings validates the thread counts and builds the settings.
// Both counts must be positive.
func NewThreadModeSettings(checkerThreads, treeWalkerThreads int) (*ThreadModeSettings, error) {
	if checkerThreads < 1 {
		return nil, errors.New(ErrCodeInvalidConfig, "checker threads number must be positive").
			WithContext("checker_threads", checkerThreads)
	}
	if treeWalkerThreads < 1 {
		return nil, errors.New(ErrCodeInvalidConfig, "tree walker threads number must be positive").
			WithContext("tree_walker_threads", treeWalkerThreads)
	}
	return &ThreadModeSettings{
		checkerThreads:    checkerThreads,
		treeWalkerThreads: treeWalkerThreads,
	}, nil
}

// CheckerThreads returns the checker-level pool size.
func (s *ThreadModeSettings) CheckerThreads() int { return s.checkerThreads }

// TreeWalkerThreads returns the tree-walker-level pool size.
func (s *ThreadModeSettings) TreeWalkerThreads() int { return s.treeWalkerThreads }

// Single reports whether these settings describe a sequential run.
func (s *ThreadModeSettings) Single() bool {
	return s.checkerThreads == 1 && s.treeWalkerThreads == 1
}

// ResolveName maps an abstract module name to the concrete implementation
// name for this thread mode. In single-thread mode every name maps to
// itself. In multi-thread mode the Checker maps to its multi-threaded
// counterpart, the TreeWalker has no multi-threaded implementation and
// resolution fails, and every other name is returned unchanged.
func (s *ThreadModeSettings) ResolveName(name string) (string, error) {
	if s == SingleThreadMode || s.Single() {
		return name, nil
	}
	switch name {
	case CheckerModuleName:
		return MultiThreadCheckerModuleName, nil
	case TreeWalkerModuleName:
		return "", errors.New(ErrCodeInvalidConfig,
			"multi thread mode for TreeWalker module is not implemented")
	default:
		return name, nil
	}
}
