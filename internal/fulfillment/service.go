package fulfillment

import (
	"context"
	"strings"

	"digistore-be/internal/code"
	"digistore-be/internal/logger"
	"digistore-be/internal/order"
	"digistore-be/internal/payment"

	"go.uber.org/zap"
)

// How many extra candidates to pull per claim round. Racing requests
// burn candidates, so scanning a few ahead avoids an immediate re-list.
const claimScanAhead = 4

type Service interface {
	Deliver(ctx context.Context, paymentIntentID string) (*DeliveryResult, error)
	MarkFailed(ctx context.Context, paymentIntentID string) error
}

type service struct {
	orders  order.Repository
	codes   code.Repository
	gateway payment.Gateway
}

func NewService(orders order.Repository, codes code.Repository, gateway payment.Gateway) Service {
	return &service{
		orders:  orders,
		codes:   codes,
		gateway: gateway,
	}
}

// Deliver claims one unused code per purchased unit and binds the codes
// to their order lines. Every claim is a store-arbitrated conditional
// update, so concurrent deliveries for different orders can never issue
// the same code twice. Lines that already hold a code are skipped, which
// makes re-invocation after a retry or duplicate webhook harmless.
func (s *service) Deliver(ctx context.Context, paymentIntentID string) (*DeliveryResult, error) {
	if paymentIntentID == "" {
		return nil, ErrMissingReference
	}

	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Deliver"),
		zap.String("payment_intent_id", paymentIntentID),
	)

	o, err := s.orders.GetByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		if err == order.ErrOrderNotFound {
			// Fulfillment can race order persistence; the caller retries.
			log.Warn("order not found for payment reference")
		}
		return nil, err
	}

	// The caller's word that the payment succeeded is not trusted; the
	// provider is asked directly before any code leaves the pool.
	intent, err := s.gateway.GetPaymentIntent(ctx, paymentIntentID)
	if err != nil {
		log.Error("failed to verify payment intent", zap.Error(err))
		return nil, err
	}
	switch intent.Status {
	case payment.IntentStatusSucceeded:
	case payment.IntentStatusCanceled:
		// The intent died after the order was created; close it out.
		if _, err := s.orders.MarkFailedByPaymentIntentID(ctx, paymentIntentID); err != nil {
			log.Error("failed to close canceled order", zap.Error(err))
			return nil, err
		}
		return nil, ErrPaymentNotCompleted
	default:
		log.Warn("payment intent not completed", zap.String("intent_status", intent.Status))
		return nil, ErrPaymentNotCompleted
	}

	items, err := s.orders.FetchItems(ctx, o.ID)
	if err != nil {
		log.Error("failed to load order items", zap.Error(err))
		return nil, err
	}

	fulfilled := 0
	for _, item := range items {
		done, err := s.fulfillLine(ctx, o, item)
		if err != nil {
			return nil, err
		}
		if done {
			fulfilled++
		}
	}

	status := order.StatusPartiallyCompleted
	message := "Some items are awaiting codes"
	if fulfilled == len(items) {
		status = order.StatusCompleted
		message = "All codes delivered"
	}

	if err := s.orders.UpdateStatus(ctx, o.ID, status); err != nil {
		log.Error("failed to finalize order status", zap.Error(err))
		return nil, err
	}

	delivered, err := s.deliveredCodes(ctx, o.ID, items)
	if err != nil {
		return nil, err
	}

	log.Info("delivery finished",
		zap.String("order_id", o.ID),
		zap.String("status", string(status)),
		zap.Int("codes_delivered", len(delivered)),
	)

	return &DeliveryResult{
		Delivered: delivered,
		Status:    status,
		Message:   message,
	}, nil
}

// fulfillLine claims whatever the line is still owed. Returns true when
// the line holds one code per unit.
func (s *service) fulfillLine(ctx context.Context, o *order.Order, item order.OrderItem) (bool, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_item_id", item.ID),
		zap.String("product_id", item.ProductID),
	)

	// Bound code field set means the line was fully fulfilled earlier.
	if item.DigitalCode != nil {
		return true, nil
	}

	already, err := s.codes.CountClaimedByItem(ctx, item.ID)
	if err != nil {
		return false, err
	}

	need := item.Quantity - already
	claimed := already

	for need > 0 {
		candidates, err := s.codes.ListAvailable(ctx, item.ProductID, need+claimScanAhead)
		if err != nil {
			return false, err
		}
		if len(candidates) == 0 {
			log.Warn("no unused codes remain for product",
				zap.Int("claimed", claimed),
				zap.Int("quantity", item.Quantity),
			)
			break
		}

		for _, c := range candidates {
			ok, err := s.codes.Claim(ctx, c.ID, o.ID, item.ID, o.UserID)
			if err != nil {
				// A timeout here is a claim failure, never a success;
				// the retry path re-counts before claiming again.
				return false, err
			}
			if ok {
				claimed++
				need--
				if need == 0 {
					break
				}
			}
			// Lost race: that code is consumed now, the next listing
			// will not return it again.
		}
	}

	if claimed < item.Quantity {
		return false, nil
	}

	lineCodes, err := s.codes.ListClaimedByItem(ctx, item.ID)
	if err != nil {
		return false, err
	}

	err = s.orders.BindItemCode(ctx, item.ID, strings.Join(lineCodes, ","))
	if err != nil && err != order.ErrAlreadyBound {
		return false, err
	}

	return true, nil
}

// deliveredCodes rebuilds the response list from the claimed-code rows,
// so a second invocation returns the identical list.
func (s *service) deliveredCodes(ctx context.Context, orderID string, items []order.OrderItem) ([]DeliveredCode, error) {
	claimed, err := s.codes.ListClaimedByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(items))
	for _, item := range items {
		names[item.ID] = item.ProductName
	}

	var delivered []DeliveredCode
	for _, c := range claimed {
		delivered = append(delivered, DeliveredCode{
			ProductName: names[c.OrderItemID],
			Code:        c.Code,
		})
	}

	return delivered, nil
}

// MarkFailed is the reconciliation path: the provider reported the
// payment dead, so the pending order is closed out. Only pending orders
// move; a failure event replayed after successful fulfillment finds
// nothing to do.
func (s *service) MarkFailed(ctx context.Context, paymentIntentID string) error {
	if paymentIntentID == "" {
		return ErrMissingReference
	}

	log := logger.FromCtx(ctx).With(
		zap.String("payment_intent_id", paymentIntentID),
	)

	changed, err := s.orders.MarkFailedByPaymentIntentID(ctx, paymentIntentID)
	if err != nil {
		log.Error("failed to mark order failed", zap.Error(err))
		return err
	}
	if !changed {
		log.Info("no pending order for failed payment, nothing to do")
		return nil
	}

	log.Info("order marked as failed")
	return nil
}
