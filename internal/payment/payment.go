package payment

import (
	"context"
	"net/http"
)

type Gateway interface {
	CreatePaymentIntent(ctx context.Context, req CreateIntentRequest) (*PaymentIntent, error)
	GetPaymentIntent(ctx context.Context, paymentIntentID string) (*PaymentIntent, error)
	VerifyWebhookSignature(r *http.Request) error
}
