package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/safar/go-storefront/internal/database"
	"github.com/safar/go-storefront/internal/models"
	"github.com/shopspring/decimal"
)

// OrderSink records placed orders in Postgres. Payment fields of the order
// form are never written.
type OrderSink struct {
	db *sql.DB
}

func NewOrderSink(db *sql.DB) *OrderSink {
	return &OrderSink{db: db}
}

func (s *OrderSink) Submit(ctx context.Context, order *models.Order) error {
	_, err := SaveOrder(ctx, s.db, order)
	return err
}

func (s *OrderSink) Get(ctx context.Context, orderNumber string) (*models.Order, error) {
	return GetOrder(ctx, s.db, orderNumber)
}

func (s *OrderSink) List(ctx context.Context, cursor string, limit int) (*CursorPage, error) {
	_, limit = NormalizePage(1, limit)
	return ListOrdersCursor(ctx, s.db, cursor, limit)
}

// SaveOrder inserts the order and its lines in one serializable transaction
// and returns the row id.
func SaveOrder(ctx context.Context, db *sql.DB, order *models.Order) (int64, error) {
	var orderID int64

	err := database.WithRetry(ctx, db, database.SerializableTxOptions(), func(tx *sql.Tx) error {
		d := order.OrderDetails
		err := tx.QueryRowContext(ctx,
			`INSERT INTO orders (order_number, total_amount, first_name, last_name, email,
			                     address, city, state, zip_code, country, order_date)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
			 RETURNING id`,
			order.ID, order.TotalAmount, d.FirstName, d.LastName, d.Email,
			d.Address, d.City, d.State, d.ZipCode, d.Country, order.OrderDate).Scan(&orderID)
		if err != nil {
			if database.IsUniqueViolation(err) {
				return database.ErrDuplicateOrder
			}
			return fmt.Errorf("create order: %w", err)
		}

		for i, item := range order.Items {
			_, err = tx.ExecContext(ctx,
				`INSERT INTO order_items (order_id, position, product_id, product_name, category,
				                          quantity, unit_price, subtotal)
				 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				orderID, i, item.Product.ID, item.Product.Name, item.Product.Category,
				item.Quantity, item.Product.Price, item.Subtotal())
			if err != nil {
				return fmt.Errorf("create order item: %w", err)
			}
		}

		return nil
	})

	if err != nil {
		return 0, err
	}

	return orderID, nil
}

// GetOrder loads an order by its order number. Items carry the product
// fields captured at checkout, not the current catalog entry.
func GetOrder(ctx context.Context, db *sql.DB, orderNumber string) (*models.Order, error) {
	order := &models.Order{}
	var orderID int64

	query := `
		SELECT id, order_number, total_amount, first_name, last_name, email,
		       address, city, state, zip_code, country, order_date
		FROM orders
		WHERE order_number = $1`

	d := &order.OrderDetails
	err := db.QueryRowContext(ctx, query, orderNumber).Scan(
		&orderID,
		&order.ID,
		&order.TotalAmount,
		&d.FirstName,
		&d.LastName,
		&d.Email,
		&d.Address,
		&d.City,
		&d.State,
		&d.ZipCode,
		&d.Country,
		&order.OrderDate,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, database.ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}

	items, err := getOrderItems(ctx, db, orderID)
	if err != nil {
		return nil, err
	}
	order.Items = items

	return order, nil
}

func getOrderItems(ctx context.Context, db *sql.DB, orderID int64) ([]models.CartEntry, error) {
	itemsQuery := `
		SELECT product_id, product_name, category, quantity, unit_price
		FROM order_items
		WHERE order_id = $1
		ORDER BY position`

	rows, err := db.QueryContext(ctx, itemsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("get order items: %w", err)
	}
	defer rows.Close()

	items := []models.CartEntry{}
	for rows.Next() {
		var item models.CartEntry
		err := rows.Scan(
			&item.Product.ID,
			&item.Product.Name,
			&item.Product.Category,
			&item.Quantity,
			&item.Product.Price,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order item: %w", err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	return items, nil
}

// OrderSummary is one row of the order history listing.
type OrderSummary struct {
	ID          int64           `json:"-"`
	OrderNumber string          `json:"order_number"`
	Email       string          `json:"email"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	OrderDate   time.Time       `json:"order_date"`
}

// ListOrdersCursor pages through recorded orders, newest first.
func ListOrdersCursor(ctx context.Context, db *sql.DB, cursor string, limit int) (*CursorPage, error) {
	cursorData, err := DecodeCursor(cursor)
	if err != nil {
		return nil, fmt.Errorf("decode cursor: %w", err)
	}

	query := `
		SELECT id, order_number, email, total_amount, order_date
		FROM orders
		WHERE (order_date, id) < ($1, $2)
		ORDER BY order_date DESC, id DESC
		LIMIT $3`

	rows, err := db.QueryContext(ctx, query, cursorData.OrderDate, cursorData.ID, limit+1)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()

	orders := []OrderSummary{}
	for rows.Next() {
		var summary OrderSummary
		err := rows.Scan(
			&summary.ID,
			&summary.OrderNumber,
			&summary.Email,
			&summary.TotalAmount,
			&summary.OrderDate,
		)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}

	hasMore := len(orders) > limit
	if hasMore {
		orders = orders[:limit]
	}

	var nextCursor string
	if hasMore && len(orders) > 0 {
		last := orders[len(orders)-1]
		nextCursor = EncodeCursor(OrderCursor{
			OrderDate: last.OrderDate,
			ID:        last.ID,
		})
	}

	return &CursorPage{
		Items:      orders,
		NextCursor: nextCursor,
		HasMore:    hasMore,
	}, nil
}
