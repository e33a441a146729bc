package fulfillment

import (
	"errors"

	"digistore-be/internal/order"
)

var (
	ErrMissingReference    = errors.New("payment reference is required")
	ErrPaymentNotCompleted = errors.New("payment has not completed")
)

type DeliveredCode struct {
	ProductName string `json:"product_name"`
	Code        string `json:"code"`
}

type DeliveryResult struct {
	Delivered []DeliveredCode
	Status    order.OrderStatus
	Message   string
}
