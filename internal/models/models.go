package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID               int64           `json:"id"`
	Name             string          `json:"name"`
	ShortDescription string          `json:"short_description"`
	Description      string          `json:"description"`
	Price            decimal.Decimal `json:"price"`
	Image            string          `json:"image"`
	Category         string          `json:"category"`
	Rating           float64         `json:"rating"`
	Featured         bool            `json:"featured,omitempty"`
}

type CartEntry struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is the line total: price times quantity.
func (e CartEntry) Subtotal() decimal.Decimal {
	return e.Product.Price.Mul(decimal.NewFromInt(int64(e.Quantity)))
}

// OrderDetails carries the shipping and payment form as submitted.
// Nothing beyond non-emptiness is checked.
type OrderDetails struct {
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Email      string `json:"email"`
	Address    string `json:"address"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zip_code"`
	Country    string `json:"country"`
	CardName   string `json:"card_name"`
	CardNumber string `json:"card_number"`
	ExpiryDate string `json:"expiry_date"`
	CVV        string `json:"cvv"`
}

// Fields lists every form field with its name, in form order.
func (d OrderDetails) Fields() []Field {
	return []Field{
		{"first_name", d.FirstName},
		{"last_name", d.LastName},
		{"email", d.Email},
		{"address", d.Address},
		{"city", d.City},
		{"state", d.State},
		{"zip_code", d.ZipCode},
		{"country", d.Country},
		{"card_name", d.CardName},
		{"card_number", d.CardNumber},
		{"expiry_date", d.ExpiryDate},
		{"cvv", d.CVV},
	}
}

// WithoutPayment returns a copy with the card fields blanked.
func (d OrderDetails) WithoutPayment() OrderDetails {
	d.CardName = ""
	d.CardNumber = ""
	d.ExpiryDate = ""
	d.CVV = ""
	return d
}

type Field struct {
	Name  string
	Value string
}

type Order struct {
	ID           string          `json:"id"`
	Items        []CartEntry     `json:"items"`
	TotalAmount  decimal.Decimal `json:"total_amount"`
	OrderDetails OrderDetails    `json:"order_details"`
	OrderDate    time.Time       `json:"order_date"`
}

// OrderItemCount sums the quantities of all order lines.
func (o *Order) OrderItemCount() int {
	count := 0
	for _, item := range o.Items {
		count += item.Quantity
	}
	return count
}
