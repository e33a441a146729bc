package checkout

import (
	"context"
	"fmt"
	"time"

	"digistore-be/internal/logger"
	"digistore-be/internal/order"
	"digistore-be/internal/payment"
	"digistore-be/internal/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Service interface {
	CreateIntent(ctx context.Context, in CreateIntentInput) (*CreateIntentResult, error)
}

type service struct {
	orders  order.Repository
	gateway payment.Gateway
}

func NewService(orders order.Repository, gateway payment.Gateway) Service {
	return &service{
		orders:  orders,
		gateway: gateway,
	}
}

// CreateIntent validates the cart against server-trusted math, creates
// the provider-side payment intent, then persists the pending order.
// The provider call comes first: if persistence fails afterwards, the
// intent is orphaned and logged for reconciliation, never rolled back.
func (s *service) CreateIntent(ctx context.Context, in CreateIntentInput) (*CreateIntentResult, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "CreateIntent"),
		zap.Int("item_count", len(in.CartItems)),
	)

	if in.Amount <= 0 {
		log.Warn("invalid amount", zap.Float64("amount", in.Amount))
		return nil, ErrInvalidAmount
	}

	if len(in.CartItems) == 0 {
		log.Warn("empty cart")
		return nil, ErrEmptyCart
	}

	currency := in.Currency
	if currency == "" {
		currency = "usd"
	}

	// Recompute the total from the submitted lines. The caller's amount
	// is only accepted if it agrees within one cent; anything else is a
	// tampered charge.
	prices := make([]float64, len(in.CartItems))
	quantities := make([]int, len(in.CartItems))
	for i, item := range in.CartItems {
		if item.Quantity <= 0 || item.Price < 0 {
			log.Warn("invalid cart item",
				zap.Int("index", i),
				zap.Int("quantity", item.Quantity),
				zap.Float64("price", item.Price),
			)
			return nil, ErrInvalidCartItem
		}
		prices[i] = item.Price
		quantities[i] = item.Quantity
	}
	calculatedCents := utils.CartTotalCents(prices, quantities)

	amountCents := utils.ToMinorUnits(in.Amount)
	if !utils.CentsMatch(calculatedCents, amountCents) {
		log.Warn("amount mismatch",
			zap.Int64("requested_cents", amountCents),
			zap.Int64("calculated_cents", calculatedCents),
		)
		return nil, ErrAmountMismatch
	}

	// Identity is optional: an absent or unresolvable credential means
	// a guest checkout, not a failure.
	var userID *string
	if id, ok := utils.GetUserIDFromContext(ctx); ok {
		userID = &id
	}

	var metaUserID string
	if userID != nil {
		metaUserID = *userID
	}

	intent, err := s.gateway.CreatePaymentIntent(ctx, payment.CreateIntentRequest{
		AmountCents:   calculatedCents,
		Currency:      currency,
		CustomerEmail: in.CustomerEmail,
		UserID:        metaUserID,
	})
	if err != nil {
		log.Error("provider rejected payment intent", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrPaymentIntentFailed, err)
	}

	log = log.With(zap.String("payment_intent_id", intent.ID))

	var customerEmail *string
	if in.CustomerEmail != "" {
		customerEmail = &in.CustomerEmail
	}

	o := &order.Order{
		ID:                    uuid.New().String(),
		UserID:                userID,
		StripePaymentIntentID: intent.ID,
		Status:                order.StatusPending,
		TotalAmount:           float64(calculatedCents) / 100,
		Currency:              currency,
		CustomerEmail:         customerEmail,
		CreatedAt:             time.Now(),
	}

	for _, item := range in.CartItems {
		o.Items = append(o.Items, order.OrderItem{
			ID:              uuid.New().String(),
			OrderID:         o.ID,
			ProductID:       item.ProductID,
			Quantity:        item.Quantity,
			PriceAtTime:     item.Price,
			ProductName:     item.ProductName,
			ProductImageURL: item.ProductImageURL,
		})
	}

	if err := s.orders.CreateOrderTx(ctx, o); err != nil {
		// The provider intent already exists with no order behind it.
		// Reconciliation sweeps on this marker.
		log.Error("orphaned payment intent: order persistence failed",
			zap.Error(err),
		)
		return nil, err
	}

	log.Info("pending order created",
		zap.String("order_id", o.ID),
		zap.Float64("total_amount", o.TotalAmount),
	)

	return &CreateIntentResult{
		ClientSecret:    intent.ClientSecret,
		PaymentIntentID: intent.ID,
		Amount:          o.TotalAmount,
		Currency:        currency,
	}, nil
}
