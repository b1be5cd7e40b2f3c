package common

import (
	"context"
	"time"
)

// RetryDelay is the pause before the single retry of a transient failure.
var RetryDelay = 50 * time.Millisecond

// RetryOnce runs fn and, if it fails with an error that transient reports
// as retryable, runs it one more time after RetryDelay. The second result
// is returned as is.
func RetryOnce(ctx context.Context, fn func() error, transient func(error) bool) error {
	err := fn()
	if err == nil || transient == nil || !transient(err) {
		return err
	}

	t := time.NewTimer(RetryDelay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return err
	case <-t.C:
	}

	return fn()
}
