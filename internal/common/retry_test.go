package common

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBusy = errors.New("busy")

func isBusy(err error) bool { return errors.Is(err, errBusy) }

func withoutDelay(t *testing.T) {
	t.Helper()
	old := RetryDelay
	RetryDelay = time.Millisecond
	t.Cleanup(func() { RetryDelay = old })
}

func TestRetryOnce_SucceedsAfterTransient(t *testing.T) {
	withoutDelay(t)
	calls := 0
	err := RetryOnce(context.Background(), func() error {
		calls++
		if calls == 1 {
			return errBusy
		}
		return nil
	}, isBusy)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestRetryOnce_OnlyOneRetry(t *testing.T) {
	withoutDelay(t)
	calls := 0
	err := RetryOnce(context.Background(), func() error {
		calls++
		return errBusy
	}, isBusy)
	require.ErrorIs(t, err, errBusy)
	assert.Equal(t, 2, calls)
}

func TestRetryOnce_PermanentNotRetried(t *testing.T) {
	calls := 0
	perm := errors.New("constraint")
	err := RetryOnce(context.Background(), func() error {
		calls++
		return perm
	}, isBusy)
	require.ErrorIs(t, err, perm)
	assert.Equal(t, 1, calls)
}

func TestRetryOnce_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := RetryOnce(ctx, func() error {
		calls++
		return errBusy
	}, isBusy)
	require.ErrorIs(t, err, errBusy)
	assert.Equal(t, 1, calls)
}
