package stageexec

import (
	"context"
	"errors"

	"merlin/internal/services"
	"merlin/internal/textutil"
)

// ExcerptBytes bounds the diagnostic excerpt attached to stage failures.
const ExcerptBytes = 500

// StageError converts an Executor error into a *services.StageFailedError for
// the named stage. Context cancellation and deadline errors pass through
// untouched so callers can tell a cancel from a tool failure.
func StageError(stage, tool string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return &services.StageFailedError{
			Stage:    stage,
			Tool:     tool,
			ExitCode: exitErr.Code,
			Excerpt:  textutil.Tail(exitErr.Tail, ExcerptBytes),
			Err:      err,
		}
	}
	return &services.StageFailedError{Stage: stage, Tool: tool, ExitCode: -1, Err: err}
}
