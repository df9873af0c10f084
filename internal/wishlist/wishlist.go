// Package wishlist holds a set of saved products, one entry per product id.
package wishlist

import (
	"fmt"
	"sync"

	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
)

type Store struct {
	mu       sync.RWMutex
	products []models.Product
	version  uint64
	hub      *events.Hub
}

type Snapshot struct {
	Items   []models.Product `json:"items"`
	Count   int              `json:"count"`
	Version uint64           `json:"version"`
}

func New() *Store {
	return &Store{hub: events.NewHub()}
}

func (s *Store) Subscribe(fn events.Listener) func() {
	return s.hub.Subscribe(fn)
}

// AddToWishlist reports whether the product was added. Adding a product
// already present changes nothing but still emits an info event.
func (s *Store) AddToWishlist(product models.Product) bool {
	s.mu.Lock()
	if s.indexOf(product.ID) >= 0 {
		version := s.version
		s.mu.Unlock()

		s.hub.Publish(events.Event{
			Source:    events.SourceWishlist,
			Kind:      events.KindAlreadyPresent,
			Level:     events.LevelInfo,
			Message:   fmt.Sprintf("%s is already in your wishlist", product.Name),
			ProductID: product.ID,
			Version:   version,
		})
		return false
	}
	s.products = append(s.products, product)
	version := s.bump()
	s.mu.Unlock()

	s.hub.Publish(events.Event{
		Source:    events.SourceWishlist,
		Kind:      events.KindAdded,
		Level:     events.LevelSuccess,
		Message:   fmt.Sprintf("Added %s to wishlist", product.Name),
		ProductID: product.ID,
		Version:   version,
	})
	return true
}

func (s *Store) RemoveFromWishlist(productID int64) {
	s.mu.Lock()
	i := s.indexOf(productID)
	if i < 0 {
		s.mu.Unlock()
		return
	}
	removed := s.products[i]
	s.products = append(s.products[:i:i], s.products[i+1:]...)
	version := s.bump()
	s.mu.Unlock()

	s.hub.Publish(events.Event{
		Source:    events.SourceWishlist,
		Kind:      events.KindRemoved,
		Level:     events.LevelInfo,
		Message:   fmt.Sprintf("Removed %s from wishlist", removed.Name),
		ProductID: productID,
		Version:   version,
	})
}

func (s *Store) IsInWishlist(productID int64) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexOf(productID) >= 0
}

func (s *Store) ClearWishlist() {
	s.mu.Lock()
	s.products = nil
	version := s.bump()
	s.mu.Unlock()

	s.hub.Publish(events.Event{
		Source:  events.SourceWishlist,
		Kind:    events.KindCleared,
		Level:   events.LevelInfo,
		Message: "Wishlist cleared",
		Version: version,
	})
}

func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.products)
}

func (s *Store) Items() []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.items()
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Snapshot{
		Items:   s.items(),
		Count:   len(s.products),
		Version: s.version,
	}
}

func (s *Store) indexOf(productID int64) int {
	for i, p := range s.products {
		if p.ID == productID {
			return i
		}
	}
	return -1
}

func (s *Store) bump() uint64 {
	s.version++
	return s.version
}

func (s *Store) items() []models.Product {
	items := make([]models.Product, len(s.products))
	copy(items, s.products)
	return items
}
