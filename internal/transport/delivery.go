package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"digistore-be/internal/fulfillment"
	"digistore-be/internal/logger"
	"digistore-be/internal/order"

	"go.uber.org/zap"
)

type deliverCodesRequest struct {
	PaymentIntentID string `json:"paymentIntentId"`
}

type deliverCodesResponse struct {
	Success        bool                        `json:"success"`
	CodesDelivered []fulfillment.DeliveredCode `json:"codesDelivered"`
	Message        string                      `json:"message"`
}

// HandleDeliverCodes serves POST /functions/deliver-digital-codes.
func HandleDeliverCodes(svc fulfillment.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var req deliverCodesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidBody, "invalid JSON body")
			return
		}

		res, err := svc.Deliver(r.Context(), req.PaymentIntentID)
		if err != nil {
			switch {
			case errors.Is(err, fulfillment.ErrMissingReference):
				writeError(w, http.StatusBadRequest, codeMissingReference, err.Error())
			case errors.Is(err, fulfillment.ErrPaymentNotCompleted):
				writeError(w, http.StatusBadRequest, codePaymentNotComplete, err.Error())
			case errors.Is(err, order.ErrOrderNotFound):
				writeError(w, http.StatusNotFound, codeOrderNotFound, err.Error())
			default:
				logger.FromCtx(r.Context()).Error("delivery failed", zap.Error(err))
				writeError(w, http.StatusInternalServerError, codeDeliveryFailed, "internal error")
			}
			return
		}

		codes := res.Delivered
		if codes == nil {
			codes = []fulfillment.DeliveredCode{}
		}

		writeData(w, http.StatusOK, deliverCodesResponse{
			Success:        true,
			CodesDelivered: codes,
			Message:        res.Message,
		})
	}
}
