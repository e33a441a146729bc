package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"digistore-be/internal/checkout"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCheckoutService struct {
	mock.Mock
}

func (m *MockCheckoutService) CreateIntent(ctx context.Context, in checkout.CreateIntentInput) (*checkout.CreateIntentResult, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*checkout.CreateIntentResult), args.Error(1)
}

func TestHandleCreatePaymentIntent_Success(t *testing.T) {
	svc := new(MockCheckoutService)
	svc.On("CreateIntent", mock.Anything, mock.Anything).Return(&checkout.CreateIntentResult{
		ClientSecret:    "pi_123_secret",
		PaymentIntentID: "pi_123",
		Amount:          19.99,
		Currency:        "usd",
	}, nil)

	body := `{"amount":19.99,"currency":"usd","cartItems":[{"product_id":"p1","quantity":1,"price":19.99,"product_name":"Game Card"}],"customerEmail":"buyer@example.com"}`
	req := httptest.NewRequest(http.MethodPost, "/functions/create-payment-intent", strings.NewReader(body))
	rec := httptest.NewRecorder()

	HandleCreatePaymentIntent(svc)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data checkout.CreateIntentResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pi_123", resp.Data.PaymentIntentID)
	assert.Equal(t, "pi_123_secret", resp.Data.ClientSecret)
}

func TestHandleCreatePaymentIntent_ValidationErrors(t *testing.T) {
	cases := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"InvalidAmount", checkout.ErrInvalidAmount, "INVALID_AMOUNT"},
		{"EmptyCart", checkout.ErrEmptyCart, "EMPTY_CART"},
		{"AmountMismatch", checkout.ErrAmountMismatch, "AMOUNT_MISMATCH"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockCheckoutService)
			svc.On("CreateIntent", mock.Anything, mock.Anything).Return(nil, tc.err)

			req := httptest.NewRequest(http.MethodPost, "/functions/create-payment-intent",
				strings.NewReader(`{"amount":1,"cartItems":[{"product_id":"p1","quantity":1,"price":1}]}`))
			rec := httptest.NewRecorder()

			HandleCreatePaymentIntent(svc)(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.wantCode, resp.Error.Code)
		})
	}
}

func TestHandleCreatePaymentIntent_ProviderFailure(t *testing.T) {
	svc := new(MockCheckoutService)
	svc.On("CreateIntent", mock.Anything, mock.Anything).Return(nil, checkout.ErrPaymentIntentFailed)

	req := httptest.NewRequest(http.MethodPost, "/functions/create-payment-intent",
		strings.NewReader(`{"amount":1,"cartItems":[{"product_id":"p1","quantity":1,"price":1}]}`))
	rec := httptest.NewRecorder()

	HandleCreatePaymentIntent(svc)(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAYMENT_INTENT_FAILED")
}

func TestHandleCreatePaymentIntent_BadJSON(t *testing.T) {
	svc := new(MockCheckoutService)

	req := httptest.NewRequest(http.MethodPost, "/functions/create-payment-intent",
		strings.NewReader(`{not json`))
	rec := httptest.NewRecorder()

	HandleCreatePaymentIntent(svc)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "CreateIntent", mock.Anything, mock.Anything)
}

func TestHandleCreatePaymentIntent_MethodNotAllowed(t *testing.T) {
	svc := new(MockCheckoutService)

	req := httptest.NewRequest(http.MethodGet, "/functions/create-payment-intent", nil)
	rec := httptest.NewRecorder()

	HandleCreatePaymentIntent(svc)(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
