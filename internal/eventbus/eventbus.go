// Package eventbus is a small in-process publish/subscribe bus used to fan
// pipeline events out to metrics collectors without blocking the pipeline.
package eventbus

import (
	"sync"
	"sync/atomic"
)

// DefaultBuffer is the channel capacity of each subscription.
const DefaultBuffer = 16

// Bus is a type-safe publish/subscribe bus for events of type T.
type Bus[T any] struct {
	mu      sync.RWMutex
	subs    []chan T
	closed  bool
	buffer  int
	dropped atomic.Uint64
}

// New creates a Bus whose subscriptions buffer DefaultBuffer events.
func New[T any]() *Bus[T] { return NewWithBuffer[T](DefaultBuffer) }

// NewWithBuffer creates a Bus with the given subscription capacity.
func NewWithBuffer[T any](buffer int) *Bus[T] {
	if buffer < 0 {
		buffer = 0
	}
	return &Bus[T]{buffer: buffer}
}

// Publish sends e to all subscribers. Delivery is non-blocking: a subscriber
// whose buffer is full misses the event and Dropped is incremented.
func (b *Bus[T]) Publish(e T) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return
	}
	for _, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.dropped.Add(1)
		}
	}
}

// Subscribe registers a subscriber and returns its channel. Subscribing to a
// closed bus returns a closed channel.
func (b *Bus[T]) Subscribe() <-chan T {
	ch := make(chan T, b.buffer)
	b.mu.Lock()
	if b.closed {
		close(ch)
	} else {
		b.subs = append(b.subs, ch)
	}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes the subscriber and closes its channel.
func (b *Bus[T]) Unsubscribe(sub <-chan T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, ch := range b.subs {
		if ch == sub {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Dropped returns the number of events lost to full subscriber buffers.
func (b *Bus[T]) Dropped() uint64 { return b.dropped.Load() }

// Close closes the bus and all subscriber channels.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for _, ch := range b.subs {
		close(ch)
	}
	b.subs = nil
}
