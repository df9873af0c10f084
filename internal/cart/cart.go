// Package cart holds a shopping cart: product entries with quantities, kept
// in the order products were first added.
package cart

import (
	"fmt"
	"sync"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
)

// Store is safe for concurrent use. Every mutation completes under the lock
// before its event is published, so listeners always see the new state.
type Store struct {
	mu      sync.RWMutex
	entries []models.CartEntry
	version uint64
	hub     *events.Hub
}

// Snapshot is a consistent copy of the cart at Version.
type Snapshot struct {
	Items     []models.CartEntry `json:"items"`
	Total     decimal.Decimal    `json:"total"`
	ItemCount int                `json:"item_count"`
	Version   uint64             `json:"version"`
}

func New() *Store {
	return &Store{hub: events.NewHub()}
}

func (s *Store) Subscribe(fn events.Listener) func() {
	return s.hub.Subscribe(fn)
}

// AddToCart adds quantity to the entry for product, creating it at the end
// of the cart when absent. quantity must be positive; that is the caller's
// responsibility.
func (s *Store) AddToCart(product models.Product, quantity int) {
	s.mu.Lock()
	ev := events.Event{Source: events.SourceCart, Level: events.LevelSuccess, ProductID: product.ID}
	if i := s.indexOf(product.ID); i >= 0 {
		s.entries[i].Quantity += quantity
		ev.Kind = events.KindQuantityUpdated
		ev.Message = fmt.Sprintf("Updated %s quantity in cart", product.Name)
	} else {
		s.entries = append(s.entries, models.CartEntry{Product: product, Quantity: quantity})
		ev.Kind = events.KindAdded
		ev.Message = fmt.Sprintf("Added %s to cart", product.Name)
	}
	ev.Version = s.bump()
	s.mu.Unlock()

	s.hub.Publish(ev)
}

// RemoveFromCart is a silent no-op when productID is not in the cart.
func (s *Store) RemoveFromCart(productID int64) {
	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	removed := s.entries[i]
	s.entries = append(s.entries[:i:i], s.entries[i+1:]...)
	version := s.bump()
	s.mu.Unlock()

	s.hub.Publish(events.Event{
		Source:    events.SourceCart,
		Kind:      events.KindRemoved,
		Level:     events.LevelInfo,
		Message:   fmt.Sprintf("Removed %s from cart", removed.Product.Name),
		ProductID: productID,
		Version:   version,
	})
}

// UpdateQuantity sets the quantity outright. Zero or less removes the entry.
// An unknown productID is a silent no-op.
func (s *Store) UpdateQuantity(productID int64, quantity int) {
	if quantity <= 0 {
		s.RemoveFromCart(productID)
		return
	}

	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	s.entries[i].Quantity = quantity
	name := s.entries[i].Product.Name
	version := s.bump()
	s.mu.Unlock()

	s.hub.Publish(events.Event{
		Source:    events.SourceCart,
		Kind:      events.KindQuantityUpdated,
		Level:     events.LevelInfo,
		Message:   fmt.Sprintf("Updated %s quantity in cart", name),
		ProductID: productID,
		Version:   version,
	})
}

func (s *Store) ClearCart() {
	s.mu.Lock()
	s.entries = nil
	version := s.bump()
	s.mu.Unlock()

	s.hub.Publish(events.Event{
		Source:  events.SourceCart,
		Kind:    events.KindCleared,
		Level:   events.LevelInfo,
		Message: "Cart cleared",
		Version: version,
	})
}

func (s *Store) IsInCart(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(productID) >= 0
}

func (s *Store) Total() decimal.Decimal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.total()
}

// ItemCount sums quantities, not entries.
func (s *Store) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemCount()
}

func (s *Store) Items() []models.CartEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Items:     s.items(),
		Total:     s.total(),
		ItemCount: s.itemCount(),
		Version:   s.version,
	}
}

func (s *Store) Version() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.version
}

// ClearIfVersion empties the cart only when nothing changed since version
// was observed. It reports whether the cart was cleared.
func (s *Store) ClearIfVersion(version uint64) bool {
	s.mu.Lock()
	if s.version != version {
		s.mu.Unlock()
		return false
	}
	s.entries = nil
	newVersion := s.bump()
	s.mu.Unlock()

	s.hub.Publish(events.Event{
		Source:  events.SourceCart,
		Kind:    events.KindCleared,
		Level:   events.LevelInfo,
		Message: "Cart cleared",
		Version: newVersion,
	})
	return true
}

func (s *Store) indexOf(productID int64) int {
	for i, e := range s.entries {
		if e.Product.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) bump() uint64 {
	s.version++
	return s.version
}

func (s *Store) items() []models.CartEntry {
	items := make([]models.CartEntry, len(s.entries))
	copy(items, s.entries)
	return items
}

func (s *Store) total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range s.entries {
		total = total.Add(e.Subtotal())
	}
	return total
}

func (s *Store) itemCount() int {
	count := 0
	for _, e := range s.entries {
		count += e.Quantity
	}
	return count
}
