package checkout

import (
	"context"
	"log"
	"sync"

	"github.com/safar/go-storefront/internal/models"
)

// MemorySink keeps placed orders in memory, newest last.
type MemorySink struct {
	mu     sync.RWMutex
	orders []*models.Order
}

func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (m *MemorySink) Submit(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.orders = append(m.orders, order)
	return nil
}

func (m *MemorySink) Orders() []*models.Order {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*models.Order, len(m.orders))
	copy(out, m.orders)
	return out
}

// Fanout records an order in Primary and then hands it to each of
// Followers. Only Primary can fail the submit; follower errors are logged.
type Fanout struct {
	Primary   Sink
	Followers []Sink
	Logger    *log.Logger
}

func (f *Fanout) Submit(ctx context.Context, order *models.Order) error {
	if err := f.Primary.Submit(ctx, order); err != nil {
		return err
	}

	for i, follower := range f.Followers {
		if err := follower.Submit(ctx, order); err != nil {
			f.logger().Printf("order %s: follower %d: %v", order.ID, i, err)
		}
	}
	return nil
}

func (f *Fanout) logger() *log.Logger {
	if f.Logger == nil {
		return log.Default()
	}
	return f.Logger
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ctx context.Context, order *models.Order) error

func (f SinkFunc) Submit(ctx context.Context, order *models.Order) error {
	return f(ctx, order)
}
