// Package eventbus implements the gateway's fan-out primitives: a generic
// publish/subscribe bus for outbound SSE frames, and a session registry
// tracking which browser clients are currently connected.
package eventbus

import "sync"

// defaultSubscriberBuffer bounds how many unread events a slow subscriber
// may accumulate; a publish that finds the buffer full removes the
// subscriber.
const defaultSubscriberBuffer = 10

// Bus is a generic, non-blocking publish/subscribe channel. Adapted from
// the teacher's paired broadcaster types, generalized so one implementation
// serves every fan-out point in the gateway (SSE frames, status events).
type Bus[T any] struct {
	mu   sync.RWMutex
	subs map[chan T]struct{}
}

// New returns an empty bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[chan T]struct{})}
}

// Subscribe registers a new subscriber channel and returns it along with an
// unsubscribe function the caller must run when done listening.
func (b *Bus[T]) Subscribe() (<-chan T, func()) {
	ch := make(chan T, defaultSubscriberBuffer)
	b.mu.Lock()
	b.subs[ch] = struct{}{}
	b.mu.Unlock()

	unsubscribe := func() {
		b.mu.Lock()
		if _, ok := b.subs[ch]; ok {
			delete(b.subs, ch)
			close(ch)
		}
		b.mu.Unlock()
	}
	return ch, unsubscribe
}

// Publish sends v to every current subscriber. A subscriber whose buffer is
// full is removed and its channel closed rather than blocking the
// publisher — an SSE client that reads slowly must not stall the whole
// gateway.
func (b *Bus[T]) Publish(v T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for ch := range b.subs {
		select {
		case ch <- v:
		default:
			delete(b.subs, ch)
			close(ch)
		}
	}
}

// SubscriberCount reports how many subscribers are currently registered.
func (b *Bus[T]) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}
