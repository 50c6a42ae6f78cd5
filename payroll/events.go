package payroll

import "sync"

// Topic names a change notification. Events carry no payload:
// listeners re-read the store they care about.
type Topic string

const (
	TopicConfigUpdated  Topic = "configUpdated"
	TopicRecordsUpdated Topic = "recordsUpdated"
)

// Listener receives change notifications.
type Listener func(Topic)

// Broadcaster is a subscriber list owned by a single store.
// Delivery is synchronous, in subscription order, and not buffered:
// a listener added after a publish never sees that event.
// The zero value is ready to use.
type Broadcaster struct {
	mu        sync.RWMutex
	nextID    int
	listeners []subscription
}

type subscription struct {
	id int
	fn Listener
}

// Subscribe registers fn and returns a function that removes it.
// Calling the returned function more than once is harmless.
func (b *Broadcaster) Subscribe(fn Listener) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextID++
	id := b.nextID
	b.listeners = append(b.listeners, subscription{id: id, fn: fn})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		for i, s := range b.listeners {
			if s.id == id {
				b.listeners = append(b.listeners[:i:i], b.listeners[i+1:]...)
				return
			}
		}
	}
}

// Publish calls every current listener. Listeners run outside the lock,
// so they may subscribe, unsubscribe or read stores.
func (b *Broadcaster) Publish(topic Topic) {
	b.mu.RLock()
	listeners := make([]Listener, len(b.listeners))
	for i, s := range b.listeners {
		listeners[i] = s.fn
	}
	b.mu.RUnlock()

	for _, fn := range listeners {
		fn(topic)
	}
}

// Len returns the number of active listeners.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.listeners)
}
