package transport

import (
	"encoding/json"
	"net/http"
)

// The storefront expects every response wrapped the same way:
// {"data": ...} on success, {"error": {"code", "message"}} on failure.

const (
	codeInvalidAmount       = "INVALID_AMOUNT"
	codeEmptyCart           = "EMPTY_CART"
	codeInvalidCartItem     = "INVALID_CART_ITEM"
	codeAmountMismatch      = "AMOUNT_MISMATCH"
	codePaymentIntentFailed = "PAYMENT_INTENT_FAILED"
	codeMissingReference    = "MISSING_REFERENCE"
	codePaymentNotComplete  = "PAYMENT_NOT_COMPLETED"
	codeOrderNotFound       = "ORDER_NOT_FOUND"
	codeProductNotFound     = "PRODUCT_NOT_FOUND"
	codeDeliveryFailed      = "DELIVERY_FAILED"
	codeInvalidBody         = "INVALID_REQUEST_BODY"
	codeMethodNotAllowed    = "METHOD_NOT_ALLOWED"
	codeEmailExists         = "EMAIL_EXISTS"
	codeInvalidCredentials  = "INVALID_CREDENTIALS"
	codeUnauthorized        = "UNAUTHORIZED"
	codeInternalError       = "INTERNAL_ERROR"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type dataEnvelope struct {
	Data interface{} `json:"data"`
}

func writeData(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(dataEnvelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	payload, err := json.Marshal(errorEnvelope{Error: errorBody{Code: code, Message: message}})
	if err != nil {
		_, _ = w.Write([]byte(`{"error":{"code":"INTERNAL_ERROR","message":"internal error"}}`))
		return
	}
	_, _ = w.Write(payload)
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
		return false
	}
	return true
}
