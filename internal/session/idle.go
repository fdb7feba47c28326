// Package session watches logged-in sessions for inactivity.
package session

import (
	"sync"
	"time"

	"github.com/kirinyoku/cinemago/internal/clock"
)

// RecordReader reads the shared session record. ok is false when the record is gone.
// A zero lastActivity with ok set means unknown; the local timer decides.
type RecordReader func() (lastActivity time.Time, ok bool)

type IdleConfig struct {
	Timeout       time.Duration
	CheckInterval time.Duration
}

// IdleMonitor logs a session out when no activity refreshes it within the
// timeout. A periodic check re-reads the shared record so a logout or
// activity seen by another instance is picked up. The check is a plain
// read; concurrent writers are not coordinated.
type IdleMonitor struct {
	clk        clock.Clock
	cfg        IdleConfig
	readRecord RecordReader
	onExpire   func()

	mu         sync.Mutex
	deadline   time.Time
	idleTimer  clock.Timer
	checkTimer clock.Timer
	done       bool
}

func NewIdleMonitor(clk clock.Clock, cfg IdleConfig, readRecord RecordReader, onExpire func()) *IdleMonitor {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Minute
	}
	return &IdleMonitor{
		clk:        clk,
		cfg:        cfg,
		readRecord: readRecord,
		onExpire:   onExpire,
	}
}

// Start arms the idle timer and, when configured, the periodic check.
func (m *IdleMonitor) Start() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done {
		return
	}
	m.armIdleLocked(m.clk.Now().Add(m.cfg.Timeout))
	if m.cfg.CheckInterval > 0 && m.checkTimer == nil {
		m.checkTimer = m.clk.AfterFunc(m.cfg.CheckInterval, m.check)
	}
}

// Touch records activity now, pushing the deadline to now + timeout.
func (m *IdleMonitor) Touch() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.done {
		return
	}
	m.armIdleLocked(m.clk.Now().Add(m.cfg.Timeout))
}

func (m *IdleMonitor) Deadline() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deadline
}

func (m *IdleMonitor) Done() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.done
}

// Stop cancels the monitor without calling onExpire.
func (m *IdleMonitor) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopLocked()
}

func (m *IdleMonitor) armIdleLocked(deadline time.Time) {
	if m.idleTimer != nil {
		m.idleTimer.Stop()
	}
	m.deadline = deadline
	m.idleTimer = m.clk.AfterFunc(deadline.Sub(m.clk.Now()), m.idle)
}

func (m *IdleMonitor) idle() {
	if m.Done() {
		return
	}

	// Another instance may have seen activity since our last touch.
	if m.readRecord != nil {
		last, ok := m.readRecord()
		if ok && !last.IsZero() {
			shared := last.Add(m.cfg.Timeout)
			m.mu.Lock()
			if !m.done && shared.After(m.clk.Now()) {
				m.armIdleLocked(shared)
				m.mu.Unlock()
				return
			}
			m.mu.Unlock()
		}
	}

	m.expire()
}

func (m *IdleMonitor) check() {
	if m.Done() {
		return
	}

	if m.readRecord != nil {
		last, ok := m.readRecord()
		if !ok || (!last.IsZero() && !last.Add(m.cfg.Timeout).After(m.clk.Now())) {
			m.expire()
			return
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.done {
		m.checkTimer = m.clk.AfterFunc(m.cfg.CheckInterval, m.check)
	}
}

func (m *IdleMonitor) expire() {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return
	}
	m.stopLocked()
	fn := m.onExpire
	m.mu.Unlock()

	if fn != nil {
		fn()
	}
}

func (m *IdleMonitor) stopLocked() {
	m.done = true
	if m.idleTimer != nil {
		m.idleTimer.Stop()
	}
	if m.checkTimer != nil {
		m.checkTimer.Stop()
	}
}
