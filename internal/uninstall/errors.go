package uninstall

import "errors"

var (
	// ErrMutatorPanic wraps a panic recovered from a mutator call.
	ErrMutatorPanic = errors.New("mutator panicked")

	// ErrAlreadyExecuted indicates Execute was called twice on one Orchestrator.
	ErrAlreadyExecuted = errors.New("orchestrator already executed")
)
