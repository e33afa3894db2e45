// Package wakelock keeps the machine from idling to sleep during a practice
// session, on a best-effort basis.
//
// Two independent mechanisms back the [Manager]: a spawned keep-awake helper
// process (broadly available, tried first) and the desktop's native idle
// inhibitor over D-Bus. The first mechanism to succeed wins; holding both is
// never required. Absence of every mechanism is degradation, not an error.
package wakelock

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/woodshedhq/woodshed/internal/shared"
)

// Locker is a single keep-awake mechanism.
type Locker interface {
	// Name identifies the mechanism in logs.
	Name() string
	// Available reports whether the mechanism can work on this host.
	Available() bool
	// Acquire engages the mechanism.
	Acquire(ctx context.Context) error
	// Release disengages the mechanism. Idempotent.
	Release() error
	// Held reports whether the mechanism is still engaged. A mechanism may
	// be released out from under us (helper process killed, inhibitor
	// cookie invalidated); Held is the reconciliation probe.
	Held() bool
}

// Manager reconciles the lockers into one active/inactive state.
type Manager struct {
	mu      sync.Mutex
	lockers []Locker
	held    Locker

	supportOnce sync.Once
	supported   bool

	logger *log.Logger
}

// NewManager creates a Manager trying the given lockers in order.
// With no lockers given it uses the default pair: helper process, then D-Bus.
func NewManager(logger *log.Logger, lockers ...Locker) *Manager {
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	if len(lockers) == 0 {
		lockers = []Locker{NewHelperLocker(), NewDBusLocker()}
	}
	return &Manager{lockers: lockers, logger: logger}
}

// Supported reports whether any mechanism is available. Computed once at
// first use.
func (m *Manager) Supported() bool {
	m.supportOnce.Do(func() {
		for _, l := range m.lockers {
			if l.Available() {
				m.supported = true
				return
			}
		}
	})
	return m.supported
}

// Enable engages the first available mechanism and returns true on success.
// A false return means the screen may time out; callers must not treat that
// as fatal. Re-entrant: if a mechanism is already engaged, Enable is a no-op
// returning true.
func (m *Manager) Enable(ctx context.Context) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held != nil && m.held.Held() {
		return true
	}
	m.held = nil

	for _, l := range m.lockers {
		if !l.Available() {
			continue
		}
		if err := l.Acquire(ctx); err != nil {
			m.logger.Debug("wake lock mechanism failed", "mechanism", l.Name(), "error", err)
			continue
		}
		m.logger.Debug("wake lock engaged", "mechanism", l.Name())
		m.held = l
		return true
	}

	m.logger.Warn("wake lock unavailable, screen may time out", "error", shared.ErrNoWakeLock)
	return false
}

// Disable releases whatever is held. Idempotent; safe to call on teardown
// regardless of session state.
func (m *Manager) Disable() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held == nil {
		return
	}
	if err := m.held.Release(); err != nil {
		m.logger.Debug("wake lock release failed", "mechanism", m.held.Name(), "error", err)
	}
	m.held = nil
}

// Active reports whether at least one mechanism is currently engaged,
// reconciling against unexpected platform-side releases.
func (m *Manager) Active() bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.held == nil {
		return false
	}
	if !m.held.Held() {
		// released out from under us
		m.held = nil
		return false
	}
	return true
}

// Reacquire re-requests the lock if it was lost while the caller still
// considers itself active (e.g. returning to a running session).
func (m *Manager) Reacquire(ctx context.Context) bool {
	if m.Active() {
		return true
	}
	return m.Enable(ctx)
}
