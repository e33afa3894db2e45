package events

import (
	"sync"
	"time"
)

// Level classifies a notification for display styling.
type Level int

const (
	LevelInfo Level = iota
	LevelSuccess
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelInfo:
		return "info"
	case LevelSuccess:
		return "success"
	case LevelWarn:
		return "warn"
	case LevelError:
		return "error"
	default:
		return ""
	}
}

// DefaultNotificationTTL is how long a transient notification stays visible.
const DefaultNotificationTTL = 4 * time.Second

// Notification is a transient user-facing message.
type Notification struct {
	Level   Level
	Message string
	At      time.Time
	TTL     time.Duration
}

// Expired reports whether the notification should no longer be shown at now.
func (n Notification) Expired(now time.Time) bool {
	return now.After(n.At.Add(n.TTL))
}

// Notifier dispatches transient notifications to any number of subscribers.
// It replaces a global listener registry with an injected dependency; views
// that want toasts subscribe, everything else stays unaware.
type Notifier struct {
	mu   sync.RWMutex
	subs map[*NotificationSub]struct{}
	ttl  time.Duration
}

// NotificationSub receives notifications on C until unsubscribed.
type NotificationSub struct {
	C chan Notification
}

// NewNotifier creates a Notifier with the default TTL.
func NewNotifier() *Notifier {
	return &Notifier{
		subs: make(map[*NotificationSub]struct{}),
		ttl:  DefaultNotificationTTL,
	}
}

// Subscribe registers a listener for notifications.
func (n *Notifier) Subscribe() *NotificationSub {
	sub := &NotificationSub{C: make(chan Notification, 8)}
	n.mu.Lock()
	n.subs[sub] = struct{}{}
	n.mu.Unlock()
	return sub
}

// Unsubscribe removes a listener and closes its channel.
func (n *Notifier) Unsubscribe(sub *NotificationSub) {
	n.mu.Lock()
	_, ok := n.subs[sub]
	delete(n.subs, sub)
	n.mu.Unlock()
	if ok {
		close(sub.C)
	}
}

// Notify fans a notification out to all subscribers without blocking.
func (n *Notifier) Notify(level Level, message string) {
	note := Notification{Level: level, Message: message, At: time.Now(), TTL: n.ttl}

	n.mu.RLock()
	defer n.mu.RUnlock()
	for sub := range n.subs {
		select {
		case sub.C <- note:
		default:
		}
	}
}

func (n *Notifier) Info(message string)    { n.Notify(LevelInfo, message) }
func (n *Notifier) Success(message string) { n.Notify(LevelSuccess, message) }
func (n *Notifier) Warn(message string)    { n.Notify(LevelWarn, message) }
func (n *Notifier) Error(message string)   { n.Notify(LevelError, message) }
