// Package checkout turns a session's cart and a submitted order form into an
// Order. Payment is simulated; nothing is charged.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/safar/go-storefront/internal/cart"
	"github.com/safar/go-storefront/internal/events"
	"github.com/safar/go-storefront/internal/models"
)

var (
	ErrValidation         = errors.New("please fill in all fields")
	ErrEmptyCart          = errors.New("cart is empty")
	ErrTransport          = errors.New("order processing failed")
	ErrCheckoutInProgress = errors.New("checkout already in progress")
	ErrCartChanged        = errors.New("cart changed during checkout")
)

// Processor stands in for the payment round trip.
type Processor interface {
	Process(ctx context.Context, order *models.Order) error
}

// Sink receives every placed order.
type Sink interface {
	Submit(ctx context.Context, order *models.Order) error
}

type Service struct {
	cart      *cart.Store
	processor Processor
	sink      Sink
	logger    *log.Logger
	hub       *events.Hub
	inFlight  atomic.Bool
	now       func() time.Time
}

func NewService(c *cart.Store, processor Processor, sink Sink, logger *log.Logger) *Service {
	if logger == nil {
		logger = log.Default()
	}
	return &Service{
		cart:      c,
		processor: processor,
		sink:      sink,
		logger:    logger,
		hub:       events.NewHub(),
		now:       time.Now,
	}
}

func (s *Service) Subscribe(fn events.Listener) func() {
	return s.hub.Subscribe(fn)
}

// InProgress reports whether a checkout is currently running.
func (s *Service) InProgress() bool {
	return s.inFlight.Load()
}

// Checkout places an order for the current cart contents. The cart is
// cleared only once processing and hand-off to the sink have both
// succeeded; any error leaves it exactly as it was.
func (s *Service) Checkout(ctx context.Context, details models.OrderDetails) (*models.Order, error) {
	if err := Validate(details); err != nil {
		s.fail(err)
		return nil, err
	}

	if !s.inFlight.CompareAndSwap(false, true) {
		return nil, ErrCheckoutInProgress
	}
	defer s.inFlight.Store(false)

	snap := s.cart.Snapshot()
	if len(snap.Items) == 0 {
		s.fail(ErrEmptyCart)
		return nil, ErrEmptyCart
	}

	order := &models.Order{
		ID:           generateOrderNumber(s.now()),
		Items:        snap.Items,
		TotalAmount:  snap.Total,
		OrderDetails: details,
		OrderDate:    s.now().UTC(),
	}

	if err := s.processor.Process(ctx, order); err != nil {
		if ctx.Err() == nil && !errors.Is(err, ErrTransport) {
			err = fmt.Errorf("%w: %v", ErrTransport, err)
		}
		s.logger.Printf("checkout %s: processing failed: %v", order.ID, err)
		s.fail(err)
		return nil, err
	}

	if s.cart.Version() != snap.Version {
		s.fail(ErrCartChanged)
		return nil, ErrCartChanged
	}

	if err := s.sink.Submit(ctx, order); err != nil {
		err = fmt.Errorf("submit order %s: %w", order.ID, err)
		s.logger.Printf("checkout: %v", err)
		s.fail(err)
		return nil, err
	}

	if !s.cart.ClearIfVersion(snap.Version) {
		s.logger.Printf("checkout %s: cart changed after submission, left as is", order.ID)
	}

	s.logger.Printf("checkout %s: placed %d item(s), total %s", order.ID, order.OrderItemCount(), order.TotalAmount.StringFixed(2))
	s.hub.Publish(events.Event{
		Source:  events.SourceCheckout,
		Kind:    events.KindCheckoutSucceeded,
		Level:   events.LevelSuccess,
		Message: "Order placed successfully!",
	})

	return order, nil
}

// Validate performs one coarse check: every field must be non-empty.
// Formats such as email or card number are not examined.
func Validate(details models.OrderDetails) error {
	var missing []string
	for _, f := range details.Fields() {
		if f.Value == "" {
			missing = append(missing, f.Name)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrValidation, strings.Join(missing, ", "))
	}
	return nil
}

func (s *Service) fail(err error) {
	msg := err.Error()
	if errors.Is(err, ErrValidation) {
		msg = "Please fill in all fields"
	}
	s.hub.Publish(events.Event{
		Source:  events.SourceCheckout,
		Kind:    events.KindCheckoutFailed,
		Level:   events.LevelError,
		Message: msg,
	})
}

func generateOrderNumber(now time.Time) string {
	return fmt.Sprintf("ORD-%d", now.UnixNano())
}
