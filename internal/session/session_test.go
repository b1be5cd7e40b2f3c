package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

type fixedTimeout struct {
	d   time.Duration
	err error
}

func (f fixedTimeout) SessionTimeout(context.Context, string) (time.Duration, error) {
	return f.d, f.err
}

func newTestManager(t *testing.T, source TimeoutSource) (*Manager, *timex.ManualClock) {
	t.Helper()
	clock := timex.NewManualClock(t0)
	return NewManager(clock, source, 5*time.Minute, logging.NewNopLogger()), clock
}

func TestStartValidateExpireOnce(t *testing.T) {
	m, clock := newTestManager(t, fixedTimeout{d: time.Minute})

	var fired int32
	m.OnExpire(func(Info) { atomic.AddInt32(&fired, 1) })

	info, err := m.Start(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, info.Timeout)
	assert.Equal(t, t0.Add(time.Minute), info.ExpiresAt)
	assert.NotEmpty(t, info.ID)

	assert.True(t, m.Validate())

	clock.Advance(time.Minute)
	assert.False(t, m.Validate())
	assert.False(t, m.Validate())
	assert.Equal(t, Expired, m.State())
	assert.EqualValues(t, 1, atomic.LoadInt32(&fired))

	assert.ErrorIs(t, m.Check(), common.ErrSessionExpired)
	assert.EqualValues(t, 1, atomic.LoadInt32(&fired))
}

func TestRefreshExtends(t *testing.T) {
	m, clock := newTestManager(t, fixedTimeout{d: time.Minute})

	_, err := m.Start(context.Background(), "alice")
	require.NoError(t, err)

	clock.Advance(50 * time.Second)
	require.NoError(t, m.Refresh())

	clock.Advance(50 * time.Second)
	assert.True(t, m.Validate(), "refresh should have moved the deadline")

	clock.Advance(11 * time.Second)
	assert.False(t, m.Validate())
}

func TestRefreshOutsideActive(t *testing.T) {
	m, clock := newTestManager(t, nil)

	assert.ErrorIs(t, m.Refresh(), common.ErrNoActiveSession)

	_, err := m.Start(context.Background(), "alice")
	require.NoError(t, err)
	clock.Advance(5 * time.Minute)
	assert.ErrorIs(t, m.Refresh(), common.ErrSessionExpired)
	assert.Equal(t, Expired, m.State())
}

func TestEndIsIdempotent(t *testing.T) {
	m, _ := newTestManager(t, nil)

	_, err := m.Start(context.Background(), "alice")
	require.NoError(t, err)

	prev, ok := m.End()
	assert.True(t, ok)
	assert.Equal(t, "alice", prev.Identity)

	_, ok = m.End()
	assert.False(t, ok)
	assert.Equal(t, NoSession, m.State())
	assert.ErrorIs(t, m.Check(), common.ErrNoActiveSession)
}

func TestStartSupersedes(t *testing.T) {
	m, _ := newTestManager(t, nil)

	first, err := m.Start(context.Background(), "alice")
	require.NoError(t, err)
	second, err := m.Start(context.Background(), "alice")
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, second.ID, m.Snapshot().ID)
}

func TestStartFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name   string
		source TimeoutSource
	}{
		{"nil source", nil},
		{"source error", fixedTimeout{err: errors.New("boom")}},
		{"zero timeout", fixedTimeout{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, _ := newTestManager(t, tt.source)
			info, err := m.Start(context.Background(), "alice")
			require.NoError(t, err)
			assert.Equal(t, 5*time.Minute, info.Timeout)
		})
	}
}

func TestStartRequiresIdentity(t *testing.T) {
	m, _ := newTestManager(t, nil)
	_, err := m.Start(context.Background(), "")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestUpdateTimeout(t *testing.T) {
	m, clock := newTestManager(t, nil)

	assert.ErrorIs(t, m.UpdateTimeout(60), common.ErrNoActiveSession)

	_, err := m.Start(context.Background(), "alice")
	require.NoError(t, err)
	assert.ErrorIs(t, m.UpdateTimeout(0), common.ErrInvalidOptions)

	require.NoError(t, m.UpdateTimeout(60))
	info := m.Snapshot()
	assert.Equal(t, time.Minute, info.Timeout)
	assert.Equal(t, t0.Add(time.Minute), info.ExpiresAt)
	assert.Equal(t, Active, info.State)

	clock.Advance(30 * time.Second)
	assert.Equal(t, 30*time.Second, m.Snapshot().Remaining(clock.Now()))
}

func TestConcurrentValidateFiresOnce(t *testing.T) {
	m, clock := newTestManager(t, nil)

	var fired int32
	m.OnExpire(func(Info) { atomic.AddInt32(&fired, 1) })

	_, err := m.Start(context.Background(), "alice")
	require.NoError(t, err)
	clock.Advance(time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.Validate()
			_ = m.Refresh()
		}()
	}
	wg.Wait()
	assert.EqualValues(t, 1, atomic.LoadInt32(&fired))
}

func TestHookMayCallManager(t *testing.T) {
	m, clock := newTestManager(t, nil)

	var state State
	m.OnExpire(func(Info) { state = m.State() })

	_, err := m.Start(context.Background(), "alice")
	require.NoError(t, err)
	clock.Advance(time.Hour)

	assert.False(t, m.Validate())
	assert.Equal(t, Expired, state)
}

func TestStateString(t *testing.T) {
	for s, want := range map[State]string{NoSession: "no_session", Active: "active", Expired: "expired"} {
		assert.Equal(t, want, fmt.Sprint(s))
	}
}

func TestNewManagerNonPositiveDefault(t *testing.T) {
	m := NewManager(timex.NewManualClock(t0), nil, 0, logging.NewNopLogger())

	info, err := m.Start(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, DefaultTimeout, info.Timeout)
	assert.True(t, m.Validate())
}

func TestCheckInfo(t *testing.T) {
	m, clock := newTestManager(t, fixedTimeout{d: time.Minute})

	_, err := m.CheckInfo()
	require.ErrorIs(t, err, common.ErrNoActiveSession)

	started, err := m.Start(context.Background(), "alice")
	require.NoError(t, err)

	info, err := m.CheckInfo()
	require.NoError(t, err)
	assert.Equal(t, started.ID, info.ID)
	assert.Equal(t, "alice", info.Identity)

	m.End()
	info, err = m.CheckInfo()
	require.ErrorIs(t, err, common.ErrNoActiveSession)
	assert.Empty(t, info.Identity)

	_, err = m.Start(context.Background(), "alice")
	require.NoError(t, err)
	clock.Advance(time.Minute)
	_, err = m.CheckInfo()
	require.ErrorIs(t, err, common.ErrSessionExpired)
}
