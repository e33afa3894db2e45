package events

import (
	"sync"
	"time"
)

// Topic enumerates the refresh signals the practice timer emits.
type Topic int

const (
	SessionCreated Topic = iota
	AnalyticsChanged
	GoalsChanged
)

func (t Topic) String() string {
	switch t {
	case SessionCreated:
		return "session_created"
	case AnalyticsChanged:
		return "analytics_changed"
	case GoalsChanged:
		return "goals_changed"
	default:
		return ""
	}
}

// Event is one published signal. Payload is topic-specific and may be nil.
type Event struct {
	Topic   Topic
	At      time.Time
	Payload any
}

// Subscription receives events for the topics it was registered with.
type Subscription struct {
	C      chan Event
	topics map[Topic]struct{}
}

func (s *Subscription) wants(t Topic) bool {
	_, ok := s.topics[t]
	return ok
}

// Bus fans out events from publishers to N subscribers.
type Bus struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers interest in the given topics. The returned subscription's
// channel is buffered; events are dropped once it fills.
func (b *Bus) Subscribe(topics ...Topic) *Subscription {
	sub := &Subscription{
		C:      make(chan Event, 16),
		topics: make(map[Topic]struct{}, len(topics)),
	}
	for _, t := range topics {
		sub.topics[t] = struct{}{}
	}

	b.mu.Lock()
	b.subs[sub] = struct{}{}
	b.mu.Unlock()
	return sub
}

// Unsubscribe removes a subscription and closes its channel.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	_, ok := b.subs[sub]
	delete(b.subs, sub)
	b.mu.Unlock()
	if ok {
		close(sub.C)
	}
}

// Publish delivers an event to every interested subscriber without blocking.
// Slow subscribers have the event dropped to keep the publisher moving.
func (b *Bus) Publish(topic Topic, payload any) {
	event := Event{Topic: topic, At: time.Now(), Payload: payload}

	b.mu.RLock()
	defer b.mu.RUnlock()
	for sub := range b.subs {
		if !sub.wants(topic) {
			continue
		}
		select {
		case sub.C <- event:
		default:
			// subscriber too slow, drop to keep publish fire-and-forget
		}
	}
}

// SubscriberCount returns the number of active subscriptions.
func (b *Bus) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
