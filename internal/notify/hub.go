// Package notify implements callback registration with explicit
// unsubscription.
package notify

import "sync"

// Hub fans a value out to registered callbacks.
type Hub[T any] struct {
	mu     sync.RWMutex
	nextID uint64
	subs   map[uint64]func(T)
}

// Subscription removes its callback from the hub when cancelled.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Unsubscribe detaches the callback. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// Subscribe registers fn and returns its subscription.
func (h *Hub[T]) Subscribe(fn func(T)) *Subscription {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subs == nil {
		h.subs = make(map[uint64]func(T))
	}
	id := h.nextID
	h.nextID++
	h.subs[id] = fn
	return &Subscription{cancel: func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		delete(h.subs, id)
	}}
}

// Publish calls every callback with v on the calling goroutine.
func (h *Hub[T]) Publish(v T) {
	h.mu.RLock()
	fns := make([]func(T), 0, len(h.subs))
	for _, fn := range h.subs {
		fns = append(fns, fn)
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(v)
	}
}

// Len returns the number of live subscriptions.
func (h *Hub[T]) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}
