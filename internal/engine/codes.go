// Package engine implements the execution model of a checkstyle run: the
// check clone service, the single- and multi-threaded tree walkers, and
// the file-level checkers that drive fileset checks over a batch of files.
package engine

// Error codes for engine failures.
const (
	// ErrCodeCloneFailure marks a failed manufacture or configuration of
	// a per-thread check clone.
	ErrCodeCloneFailure = "CHECKSTYLE_CLONE_FAILURE"
	// ErrCodeTaskFailure marks a failed or interrupted worker task.
	ErrCodeTaskFailure = "CHECKSTYLE_TASK_FAILURE"
	// ErrCodeProcessFailure marks a failure while processing one file.
	ErrCodeProcessFailure = "CHECKSTYLE_PROCESS_FAILURE"
)
