package checkout

import "errors"

var (
	ErrInvalidAmount       = errors.New("amount is required and must be greater than zero")
	ErrEmptyCart           = errors.New("cart items are required")
	ErrInvalidCartItem     = errors.New("cart item has invalid quantity or price")
	ErrAmountMismatch      = errors.New("cart total does not match requested amount")
	ErrPaymentIntentFailed = errors.New("failed to create payment intent")
)
