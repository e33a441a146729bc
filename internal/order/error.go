package order

import "errors"

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrAlreadyBound  = errors.New("order item already has a code bound")
)
