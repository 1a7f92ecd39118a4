// Package events fans out change notifications from the local store to live
// queries.
package events

import (
	"sync"
)

const (
	TopicAnimals       = "animals"
	TopicOrganizations = "organizations"
)

// Change tells subscribers that a topic was written to.
type Change struct {
	Topic string
	Count int64
}

// Broadcaster delivers changes to subscribers without ever blocking the
// publisher. Each subscriber channel holds one pending change; when it is full
// the new change is dropped. Subscribers re-read the store on any change.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[chan Change]struct{}
}

// NewBroadcaster creates an empty Broadcaster.
func NewBroadcaster() *Broadcaster {
	return &Broadcaster{
		subscribers: make(map[chan Change]struct{}),
	}
}

// Subscribe registers a subscriber. The caller must call Unsubscribe when done.
func (b *Broadcaster) Subscribe() chan Change {
	ch := make(chan Change, 1)
	b.mu.Lock()
	b.subscribers[ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a subscriber and closes its channel. Calling it twice
// for the same channel is a no-op.
func (b *Broadcaster) Unsubscribe(ch chan Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.subscribers[ch]; !ok {
		return
	}
	delete(b.subscribers, ch)
	close(ch)
}

// Publish notifies every subscriber.
func (b *Broadcaster) Publish(c Change) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for ch := range b.subscribers {
		select {
		case ch <- c:
		default:
		}
	}
}

// Count returns the current number of subscribers.
func (b *Broadcaster) Count() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}
