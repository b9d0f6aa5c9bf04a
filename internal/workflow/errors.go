package workflow

import (
	"context"
	"errors"
	"fmt"
)

var (
	// ErrCancelled is returned when the caller cancelled the job. It matches
	// context.Canceled as well.
	ErrCancelled = fmt.Errorf("job cancelled: %w", context.Canceled)
	// ErrJobActive is returned when another job holds the target's lock.
	ErrJobActive = errors.New("a job is already running for this target")
)

// isCancellation reports whether err (or ctx) signals a caller cancel.
// Deadlines are treated as failures.
func isCancellation(ctx context.Context, err error) bool {
	if errors.Is(err, context.Canceled) {
		return true
	}
	return errors.Is(ctx.Err(), context.Canceled)
}
