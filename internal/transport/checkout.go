package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"digistore-be/internal/checkout"
	"digistore-be/internal/logger"

	"go.uber.org/zap"
)

type createIntentRequest struct {
	Amount        float64             `json:"amount"`
	Currency      string              `json:"currency"`
	CartItems     []checkout.CartItem `json:"cartItems"`
	CustomerEmail string              `json:"customerEmail"`
}

// HandleCreatePaymentIntent serves POST /functions/create-payment-intent.
func HandleCreatePaymentIntent(svc checkout.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var req createIntentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidBody, "invalid JSON body")
			return
		}

		res, err := svc.CreateIntent(r.Context(), checkout.CreateIntentInput{
			Amount:        req.Amount,
			Currency:      req.Currency,
			CartItems:     req.CartItems,
			CustomerEmail: req.CustomerEmail,
		})
		if err != nil {
			switch {
			case errors.Is(err, checkout.ErrInvalidAmount):
				writeError(w, http.StatusBadRequest, codeInvalidAmount, err.Error())
			case errors.Is(err, checkout.ErrEmptyCart):
				writeError(w, http.StatusBadRequest, codeEmptyCart, err.Error())
			case errors.Is(err, checkout.ErrInvalidCartItem):
				writeError(w, http.StatusBadRequest, codeInvalidCartItem, err.Error())
			case errors.Is(err, checkout.ErrAmountMismatch):
				writeError(w, http.StatusBadRequest, codeAmountMismatch, err.Error())
			case errors.Is(err, checkout.ErrPaymentIntentFailed):
				writeError(w, http.StatusBadGateway, codePaymentIntentFailed, err.Error())
			default:
				logger.FromCtx(r.Context()).Error("create intent failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, codePaymentIntentFailed, "internal error")
			}
			return
		}

		writeData(w, http.StatusOK, res)
	}
}
