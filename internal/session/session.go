// Package session tracks the single live session of the process.
//
// A session moves between three states:
//
//	NoSession --Start--> Active --(timeout)--> Expired
//	    ^                  |                      |
//	    +-------End--------+----------End---------+
//
// Expiry is observed by Validate, called on every access path and
// periodically by the monitor started with StartMonitor. The expiry hook
// runs exactly once per session, outside the manager's lock.
package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/vaultkeeper/internal/common"
	"github.com/dmitrijs2005/vaultkeeper/internal/logging"
	"github.com/dmitrijs2005/vaultkeeper/internal/timex"
	"github.com/google/uuid"
)

type State int

const (
	NoSession State = iota
	Active
	Expired
)

func (s State) String() string {
	switch s {
	case Active:
		return "active"
	case Expired:
		return "expired"
	default:
		return "no_session"
	}
}

// TimeoutSource supplies the per-identity session timeout.
type TimeoutSource interface {
	SessionTimeout(ctx context.Context, identity string) (time.Duration, error)
}

// Info is a copy of the session state.
type Info struct {
	ID           string
	Identity     string
	StartedAt    time.Time
	LastActivity time.Time
	Timeout      time.Duration
	ExpiresAt    time.Time
	State        State
}

// Remaining is the time left before expiry, zero when not active.
func (i Info) Remaining(now time.Time) time.Duration {
	if i.State != Active || !now.Before(i.ExpiresAt) {
		return 0
	}
	return i.ExpiresAt.Sub(now)
}

type Manager struct {
	clock          timex.Clock
	source         TimeoutSource
	defaultTimeout time.Duration
	log            logging.Logger

	mu       sync.Mutex
	cur      Info
	onExpire func(Info)

	monitorMu sync.Mutex
	cancel    context.CancelFunc
	done      chan struct{}
}

// Fallbacks for non-positive settings.
const (
	DefaultTimeout         = 300 * time.Second
	DefaultMonitorInterval = 5 * time.Second
)

// seam for tests
var newID = func() string { return uuid.NewString() }

// NewManager returns a manager with no session. source may be nil, in which
// case every session gets defaultTimeout. A non-positive defaultTimeout is
// replaced by DefaultTimeout.
func NewManager(clock timex.Clock, source TimeoutSource, defaultTimeout time.Duration, log logging.Logger) *Manager {
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeout
	}
	return &Manager{clock: clock, source: source, defaultTimeout: defaultTimeout, log: log}
}

// OnExpire registers the hook called once when a session is found expired.
func (m *Manager) OnExpire(fn func(Info)) {
	m.mu.Lock()
	m.onExpire = fn
	m.mu.Unlock()
}

// Start opens a session for identity, superseding any existing one.
func (m *Manager) Start(ctx context.Context, identity string) (Info, error) {
	if identity == "" {
		return Info{}, fmt.Errorf("%w: identity is required", common.ErrInvalidInput)
	}
	timeout := m.timeoutFor(ctx, identity)

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.clock.Now()
	prev := m.cur
	m.cur = Info{
		ID:           newID(),
		Identity:     identity,
		StartedAt:    now,
		LastActivity: now,
		Timeout:      timeout,
		ExpiresAt:    now.Add(timeout),
		State:        Active,
	}
	if prev.State == Active {
		m.log.Info(ctx, "session superseded", "session_id", prev.ID, "identity", prev.Identity)
	}
	m.log.Info(ctx, "session started", "session_id", m.cur.ID, "identity", identity, "timeout", timeout.String())
	return m.cur, nil
}

// Validate reports whether the session is active. The first call after the
// deadline moves it to Expired and fires the expiry hook.
func (m *Manager) Validate() bool {
	return m.Check() == nil
}

// Check is Validate with the reason: ErrNoActiveSession when nothing was
// started (or after End), ErrSessionExpired once the deadline has passed.
func (m *Manager) Check() error {
	_, err := m.CheckInfo()
	return err
}

// CheckInfo is Check that also returns the session it checked, read under
// the same lock.
func (m *Manager) CheckInfo() (Info, error) {
	m.mu.Lock()
	expired, hook, err := m.checkLocked()
	cur := m.cur
	m.mu.Unlock()

	if expired != nil {
		m.fireExpired(*expired, hook)
	}
	if err != nil {
		return Info{}, err
	}
	return cur, nil
}

// Refresh extends an active session by its timeout from now.
func (m *Manager) Refresh() error {
	m.mu.Lock()
	expired, hook, err := m.checkLocked()
	if err == nil {
		now := m.clock.Now()
		m.cur.LastActivity = now
		m.cur.ExpiresAt = now.Add(m.cur.Timeout)
	}
	m.mu.Unlock()

	if expired != nil {
		m.fireExpired(*expired, hook)
	}
	return err
}

// End closes the session in any state. It returns the session that was
// active, if any.
func (m *Manager) End() (Info, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.cur
	m.cur = Info{}
	if prev.State != Active {
		return prev, false
	}
	m.log.Info(context.Background(), "session ended", "session_id", prev.ID, "identity", prev.Identity)
	return prev, true
}

// UpdateTimeout changes the timeout of the current session. The new
// deadline is measured from the last activity.
func (m *Manager) UpdateTimeout(seconds int) error {
	if seconds <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %d", common.ErrInvalidOptions, seconds)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cur.State != Active {
		return common.ErrNoActiveSession
	}
	m.cur.Timeout = time.Duration(seconds) * time.Second
	m.cur.ExpiresAt = m.cur.LastActivity.Add(m.cur.Timeout)
	return nil
}

func (m *Manager) Snapshot() Info {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cur
}

func (m *Manager) State() State {
	return m.Snapshot().State
}

// checkLocked must be called with mu held. When it performs the
// Active -> Expired transition it returns the expired session and the hook
// for the caller to run after unlocking.
func (m *Manager) checkLocked() (*Info, func(Info), error) {
	switch m.cur.State {
	case NoSession:
		return nil, nil, common.ErrNoActiveSession
	case Expired:
		return nil, nil, common.ErrSessionExpired
	}
	if m.clock.Now().Before(m.cur.ExpiresAt) {
		return nil, nil, nil
	}
	m.cur.State = Expired
	expired := m.cur
	return &expired, m.onExpire, common.ErrSessionExpired
}

func (m *Manager) fireExpired(info Info, hook func(Info)) {
	m.log.Info(context.Background(), "session expired", "session_id", info.ID, "identity", info.Identity)
	if hook != nil {
		hook(info)
	}
}

func (m *Manager) timeoutFor(ctx context.Context, identity string) time.Duration {
	if m.source == nil {
		return m.defaultTimeout
	}
	d, err := m.source.SessionTimeout(ctx, identity)
	if err != nil || d <= 0 {
		m.log.Warn(ctx, "using default session timeout", "identity", identity, "error", err)
		return m.defaultTimeout
	}
	return d
}
