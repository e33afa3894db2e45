// Package events provides in-process fan-out signaling between decoupled views.
//
// [Bus] carries typed refresh topics (session created, analytics changed, goals
// changed) from the practice timer to any number of independent subscribers.
// Publishing is fire-and-forget: no acknowledgment, and a slow subscriber has
// events dropped rather than blocking the publisher.
//
// [Notifier] is the user-facing counterpart: an explicit dispatcher for
// transient, auto-expiring notifications, injected into components instead of
// living in process-wide mutable state.
package events
