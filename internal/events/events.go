// Package events carries the notifications emitted by the cart and wishlist
// stores and the subscription plumbing presentation layers use to follow them.
package events

import (
	"sort"
	"sync"
)

type Kind string

const (
	KindAdded             Kind = "added"
	KindQuantityUpdated   Kind = "quantity_updated"
	KindRemoved           Kind = "removed"
	KindCleared           Kind = "cleared"
	KindAlreadyPresent    Kind = "already_present"
	KindCheckoutSucceeded Kind = "checkout_succeeded"
	KindCheckoutFailed    Kind = "checkout_failed"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelInfo    Level = "info"
	LevelError   Level = "error"
)

// Source names the store an event came from.
type Source string

const (
	SourceCart     Source = "cart"
	SourceWishlist Source = "wishlist"
	SourceCheckout Source = "checkout"
)

// Event is advisory. Dropping it never affects store state.
type Event struct {
	Source    Source `json:"source"`
	Kind      Kind   `json:"kind"`
	Level     Level  `json:"level"`
	Message   string `json:"message"`
	ProductID int64  `json:"product_id,omitempty"`
	Version   uint64 `json:"version"`
}

type Listener func(Event)

// Hub fans events out to registered listeners.
type Hub struct {
	mu        sync.RWMutex
	nextID    int
	listeners map[int]Listener
}

func NewHub() *Hub {
	return &Hub{listeners: make(map[int]Listener)}
}

// Subscribe registers fn and returns a func that unregisters it. The
// returned func is safe to call more than once.
func (h *Hub) Subscribe(fn Listener) func() {
	h.mu.Lock()
	id := h.nextID
	h.nextID++
	h.listeners[id] = fn
	h.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			h.mu.Lock()
			delete(h.listeners, id)
			h.mu.Unlock()
		})
	}
}

// Publish calls every listener in registration order. Callers must not hold
// their own state lock while publishing.
func (h *Hub) Publish(ev Event) {
	h.mu.RLock()
	ids := make([]int, 0, len(h.listeners))
	for id := range h.listeners {
		ids = append(ids, id)
	}
	fns := make([]Listener, 0, len(ids))
	sort.Ints(ids)
	for _, id := range ids {
		fns = append(fns, h.listeners[id])
	}
	h.mu.RUnlock()

	for _, fn := range fns {
		fn(ev)
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.listeners)
}
