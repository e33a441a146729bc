package order

import "time"

type OrderStatus string

const (
	StatusPending            OrderStatus = "pending"
	StatusCompleted          OrderStatus = "completed"
	StatusPartiallyCompleted OrderStatus = "partially_completed"
	StatusFailed             OrderStatus = "failed"
	StatusCancelled          OrderStatus = "cancelled"
)

type Order struct {
	ID                    string
	UserID                *string
	StripePaymentIntentID string
	Status                OrderStatus
	TotalAmount           float64
	Currency              string
	CustomerEmail         *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
	Items                 []OrderItem
}

// OrderItem is immutable after creation except for DigitalCode, which
// transitions from nil to set exactly once when the line is fulfilled.
type OrderItem struct {
	ID              string
	OrderID         string
	ProductID       string
	Quantity        int
	PriceAtTime     float64
	ProductName     string
	ProductImageURL *string
	DigitalCode     *string
	CreatedAt       time.Time
}
