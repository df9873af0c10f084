// Package publisher announces placed orders on RabbitMQ.
package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/safar/go-storefront/internal/models"
)

const (
	OrderPlacedRoutingKey = "order.placed.v1"
	publishTimeout        = 3 * time.Second
)

type OrderPlaced struct {
	EventType   string          `json:"eventType"`
	OrderID     string          `json:"orderId"`
	Email       string          `json:"email"`
	Items       []OrderItemLine `json:"items"`
	ItemCount   int             `json:"itemCount"`
	TotalAmount string          `json:"totalAmount"`
	OrderDate   time.Time       `json:"orderDate"`
	Timestamp   time.Time       `json:"timestamp"`
}

type OrderItemLine struct {
	ProductID int64  `json:"productId"`
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	Price     string `json:"price"`
}

// NewOrderPlaced builds the event body for order. Payment fields are left
// out.
func NewOrderPlaced(order *models.Order, now time.Time) OrderPlaced {
	ev := OrderPlaced{
		EventType:   "OrderPlaced",
		OrderID:     order.ID,
		Email:       order.OrderDetails.Email,
		Items:       make([]OrderItemLine, 0, len(order.Items)),
		ItemCount:   order.OrderItemCount(),
		TotalAmount: order.TotalAmount.StringFixed(2),
		OrderDate:   order.OrderDate,
		Timestamp:   now.UTC(),
	}
	for _, item := range order.Items {
		ev.Items = append(ev.Items, OrderItemLine{
			ProductID: item.Product.ID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			Price:     item.Product.Price.StringFixed(2),
		})
	}
	return ev
}

// Publisher is a checkout sink. A single channel is shared, so publishes are
// serialized.
type Publisher struct {
	mu       sync.Mutex
	ch       *amqp.Channel
	exchange string
}

func New(conn *amqp.Connection, exchange string) (*Publisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("open channel: %w", err)
	}

	if err := declareExchange(ch, exchange); err != nil {
		ch.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}

	return &Publisher{ch: ch, exchange: exchange}, nil
}

func (p *Publisher) Close() error {
	return p.ch.Close()
}

func (p *Publisher) Submit(ctx context.Context, order *models.Order) error {
	body, err := json.Marshal(NewOrderPlaced(order, time.Now()))
	if err != nil {
		return fmt.Errorf("marshal OrderPlaced: %w", err)
	}

	return p.publishJSON(ctx, OrderPlacedRoutingKey, order.ID, body)
}

func (p *Publisher) publishJSON(ctx context.Context, routingKey, messageID string, body []byte) error {
	pubCtx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	p.mu.Lock()
	defer p.mu.Unlock()

	err := p.ch.PublishWithContext(
		pubCtx,
		p.exchange,
		routingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    messageID,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
	if err != nil {
		return fmt.Errorf("publish %s: %w", routingKey, err)
	}
	return nil
}

func declareExchange(ch *amqp.Channel, exchange string) error {
	return ch.ExchangeDeclare(
		exchange,
		"topic",
		true,
		false,
		false,
		false,
		nil,
	)
}

// Dial connects with a bounded dial timeout.
func Dial(url string) (*amqp.Connection, error) {
	conn, err := amqp.DialConfig(url, amqp.Config{
		Dial: amqp.DefaultDial(10 * time.Second),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to RabbitMQ: %w", err)
	}
	return conn, nil
}
