package webhook

import (
	"encoding/json"
	"io"
	"net/http"

	"digistore-be/internal/fulfillment"
	"digistore-be/internal/logger"
	"digistore-be/internal/payment"

	"go.uber.org/zap"
)

// WebhookPayload represents the subset of a Stripe event we act on.
type WebhookPayload struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Data struct {
		Object struct {
			ID string `json:"id"`
		} `json:"object"`
	} `json:"data"`
}

// Handler reacts to payment lifecycle events: a succeeded intent
// triggers code delivery, a dead intent closes the order out.
type Handler struct {
	Fulfillment fulfillment.Service
	Gateway     payment.Gateway
}

func NewWebhookHandler(svc fulfillment.Service, gateway payment.Gateway) *Handler {
	return &Handler{
		Fulfillment: svc,
		Gateway:     gateway,
	}
}

func (h *Handler) WebhookHandler(w http.ResponseWriter, r *http.Request) {
	log := logger.FromCtx(r.Context())

	if err := h.Gateway.VerifyWebhookSignature(r); err != nil {
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "failed to read body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var payload WebhookPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	log = log.With(
		zap.String("event_id", payload.ID),
		zap.String("event_type", payload.Type),
		zap.String("payment_intent_id", payload.Data.Object.ID),
	)
	log.Info("webhook received")

	switch payload.Type {
	case "payment_intent.succeeded":
		// Delivery is idempotent, so a redelivered event is harmless.
		_, err = h.Fulfillment.Deliver(r.Context(), payload.Data.Object.ID)
	case "payment_intent.payment_failed", "payment_intent.canceled":
		err = h.Fulfillment.MarkFailed(r.Context(), payload.Data.Object.ID)
	default:
		// Ignore other event types
		w.WriteHeader(http.StatusOK)
		return
	}

	if err != nil {
		log.Error("failed to process webhook", zap.Error(err))
		http.Error(w, "failed to process event", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
