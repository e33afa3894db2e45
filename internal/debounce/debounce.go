// Package debounce defers expensive saves of interactive control values.
//
// [Control] is an explicit state machine with a live value, an interaction
// flag, and a single pending timer: a tempo or volume control updates the live
// value on every change for responsive display, while the save callback fires
// once, after interaction settles, with whatever the value is at fire time.
package debounce

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/woodshedhq/woodshed/internal/shared"
)

// DefaultDelay is the settle time between the end of interaction and the save.
const DefaultDelay = time.Second

// SaveFunc commits a settled value. Errors are logged, never propagated.
type SaveFunc[T any] func(T) error

// Control debounces saves of a continuously-changing value of type T.
//
// State: the live value (single source of truth, read by the save at fire
// time), the interacting flag (set between Start and End), and at most one
// scheduled timer. No save fires while interacting.
type Control[T any] struct {
	mu          sync.Mutex
	value       T
	timer       *time.Timer
	interacting bool
	pending     bool

	delay  time.Duration
	save   SaveFunc[T]
	logger *log.Logger
}

// New creates a Control with the given settle delay and save callback.
// A zero or negative delay falls back to [DefaultDelay]; a nil logger falls
// back to the shared default.
func New[T any](delay time.Duration, save SaveFunc[T], logger *log.Logger) *Control[T] {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &Control[T]{delay: delay, save: save, logger: logger}
}

// Start marks the beginning of an interaction and cancels any pending save,
// so a save scheduled by a previous interaction can't fire mid-drag.
func (c *Control[T]) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interacting = true
	c.cancelLocked()
}

// Change updates the live value immediately. When called outside an
// interaction (a programmatic change), it also (re)schedules the save.
func (c *Control[T]) Change(value T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.value = value
	if !c.interacting {
		c.scheduleLocked()
	}
}

// End marks the end of an interaction and schedules the save. Rapid
// successive End calls coalesce: each reschedules, and the one firing timer
// reads the live value at fire time, so only the final value is saved.
func (c *Control[T]) End() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interacting = false
	c.scheduleLocked()
}

// Cancel drops any pending save without firing it. Used on teardown.
func (c *Control[T]) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cancelLocked()
}

// Value returns the current live value.
func (c *Control[T]) Value() T {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}

// Interacting reports whether an interaction is in progress.
func (c *Control[T]) Interacting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.interacting
}

// Pending reports whether a save is scheduled but has not yet fired.
func (c *Control[T]) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending
}

func (c *Control[T]) scheduleLocked() {
	if c.timer != nil {
		c.timer.Stop()
	}
	c.pending = true
	c.timer = time.AfterFunc(c.delay, c.fire)
}

func (c *Control[T]) cancelLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = false
}

// fire commits the live value. A timer that was cancelled between scheduling
// and firing sees pending false and does nothing.
func (c *Control[T]) fire() {
	c.mu.Lock()
	if !c.pending {
		c.mu.Unlock()
		return
	}
	c.pending = false
	c.timer = nil
	value := c.value
	c.mu.Unlock()

	if err := c.save(value); err != nil {
		c.logger.Error("debounced save failed", "error", err)
	}
}
