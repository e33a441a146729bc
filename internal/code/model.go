package code

import "time"

// DigitalCode is a single-use key sold as the product itself.
// Once IsUsed flips, the consuming order/line/user and timestamp are
// stamped and never change.
type DigitalCode struct {
	ID           string
	ProductID    string
	Code         string
	IsUsed       bool
	OrderID      *string
	OrderItemID  *string
	UsedByUserID *string
	UsedAt       *time.Time
	CreatedAt    time.Time
}

// ClaimedCode pairs a claimed code with the line it was claimed for.
type ClaimedCode struct {
	OrderItemID string
	Code        string
}
