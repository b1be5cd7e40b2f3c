package session

import (
	"context"
	"time"
)

// Run calls Validate every interval until ctx is done. It is advisory:
// access paths validate on their own. A non-positive interval falls back to
// DefaultMonitorInterval.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultMonitorInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Validate()
		case <-ctx.Done():
			return
		}
	}
}

// StartMonitor runs the monitor in a goroutine owned by the manager. A
// second call while one is running does nothing.
func (m *Manager) StartMonitor(ctx context.Context, interval time.Duration) {
	m.monitorMu.Lock()
	defer m.monitorMu.Unlock()

	if m.cancel != nil {
		return
	}
	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	m.cancel, m.done = cancel, done

	go func() {
		defer close(done)
		m.Run(ctx, interval)
	}()
}

// Stop halts the monitor and waits for it to exit. Safe to call repeatedly.
func (m *Manager) Stop() {
	m.monitorMu.Lock()
	cancel, done := m.cancel, m.done
	m.cancel, m.done = nil, nil
	m.monitorMu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
}
