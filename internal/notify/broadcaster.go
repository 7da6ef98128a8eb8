// Package notify carries the payload-less "shifts changed" signal from the
// booking path to the live board viewers.
package notify

import (
	"context"
	"sync"
)

// DefaultBuffer pending events kept per subscriber
const DefaultBuffer = 8

// Notifier fire-and-forget refresh signal
type Notifier interface {
	Notify(ctx context.Context)
}

// Broadcaster in-process fan-out. Publishing never blocks: a subscriber
// whose buffer is full misses the event.
type Broadcaster struct {
	mu     sync.Mutex
	subs   map[uint64]chan struct{}
	nextID uint64
	buffer int
	closed bool
}

// NewBroadcaster creates a Broadcaster; buffer <= 0 uses DefaultBuffer
func NewBroadcaster(buffer int) *Broadcaster {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	return &Broadcaster{
		subs:   make(map[uint64]chan struct{}),
		buffer: buffer,
	}
}

// Subscribe registers a receiver. The returned function unsubscribes and
// closes the channel; calling it twice is safe.
func (b *Broadcaster) Subscribe() (<-chan struct{}, func()) {
	b.mu.Lock()
	defer b.mu.Unlock()

	ch := make(chan struct{}, b.buffer)
	if b.closed {
		close(ch)
		return ch, func() {}
	}

	id := b.nextID
	b.nextID++
	b.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() { b.remove(id) })
	}
}

func (b *Broadcaster) remove(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish signals every subscriber and returns how many received it
func (b *Broadcaster) Publish() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	delivered := 0
	for _, ch := range b.subs {
		select {
		case ch <- struct{}{}:
			delivered++
		default:
			// lagging subscriber
		}
	}
	return delivered
}

// Notify implements Notifier
func (b *Broadcaster) Notify(context.Context) { b.Publish() }

// Subscribers current subscriber count
func (b *Broadcaster) Subscribers() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close unsubscribes everybody; later subscriptions receive a closed channel
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}
