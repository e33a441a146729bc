package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"digistore-be/internal/fulfillment"
	"digistore-be/internal/order"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockFulfillmentService struct {
	mock.Mock
}

func (m *MockFulfillmentService) Deliver(ctx context.Context, paymentIntentID string) (*fulfillment.DeliveryResult, error) {
	args := m.Called(ctx, paymentIntentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*fulfillment.DeliveryResult), args.Error(1)
}

func (m *MockFulfillmentService) MarkFailed(ctx context.Context, paymentIntentID string) error {
	args := m.Called(ctx, paymentIntentID)
	return args.Error(0)
}

func TestHandleDeliverCodes_Success(t *testing.T) {
	svc := new(MockFulfillmentService)
	svc.On("Deliver", mock.Anything, "pi_123").Return(&fulfillment.DeliveryResult{
		Delivered: []fulfillment.DeliveredCode{{ProductName: "Game Card", Code: "AAAA-1111"}},
		Status:    order.StatusCompleted,
		Message:   "All codes delivered",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/functions/deliver-digital-codes",
		strings.NewReader(`{"paymentIntentId":"pi_123"}`))
	rec := httptest.NewRecorder()

	HandleDeliverCodes(svc)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Data deliverCodesResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Data.Success)
	require.Len(t, resp.Data.CodesDelivered, 1)
	assert.Equal(t, "AAAA-1111", resp.Data.CodesDelivered[0].Code)
}

func TestHandleDeliverCodes_PartialStillOK(t *testing.T) {
	// A product with zero codes left does not fail the call; the line
	// is just absent from the delivered list.
	svc := new(MockFulfillmentService)
	svc.On("Deliver", mock.Anything, "pi_123").Return(&fulfillment.DeliveryResult{
		Delivered: nil,
		Status:    order.StatusPartiallyCompleted,
		Message:   "Some items are awaiting codes",
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/functions/deliver-digital-codes",
		strings.NewReader(`{"paymentIntentId":"pi_123"}`))
	rec := httptest.NewRecorder()

	HandleDeliverCodes(svc)(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"codesDelivered":[]`)
}

func TestHandleDeliverCodes_MissingReference(t *testing.T) {
	svc := new(MockFulfillmentService)
	svc.On("Deliver", mock.Anything, "").Return(nil, fulfillment.ErrMissingReference)

	req := httptest.NewRequest(http.MethodPost, "/functions/deliver-digital-codes",
		strings.NewReader(`{}`))
	rec := httptest.NewRecorder()

	HandleDeliverCodes(svc)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "MISSING_REFERENCE")
}

func TestHandleDeliverCodes_PaymentNotCompleted(t *testing.T) {
	svc := new(MockFulfillmentService)
	svc.On("Deliver", mock.Anything, "pi_open").Return(nil, fulfillment.ErrPaymentNotCompleted)

	req := httptest.NewRequest(http.MethodPost, "/functions/deliver-digital-codes",
		strings.NewReader(`{"paymentIntentId":"pi_open"}`))
	rec := httptest.NewRecorder()

	HandleDeliverCodes(svc)(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "PAYMENT_NOT_COMPLETED")
}

func TestHandleDeliverCodes_OrderNotFound(t *testing.T) {
	svc := new(MockFulfillmentService)
	svc.On("Deliver", mock.Anything, "pi_missing").Return(nil, order.ErrOrderNotFound)

	req := httptest.NewRequest(http.MethodPost, "/functions/deliver-digital-codes",
		strings.NewReader(`{"paymentIntentId":"pi_missing"}`))
	rec := httptest.NewRecorder()

	HandleDeliverCodes(svc)(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "ORDER_NOT_FOUND")
}

func TestHandleDeliverCodes_InternalError(t *testing.T) {
	svc := new(MockFulfillmentService)
	svc.On("Deliver", mock.Anything, "pi_123").Return(nil, context.DeadlineExceeded)

	req := httptest.NewRequest(http.MethodPost, "/functions/deliver-digital-codes",
		strings.NewReader(`{"paymentIntentId":"pi_123"}`))
	rec := httptest.NewRecorder()

	HandleDeliverCodes(svc)(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "DELIVERY_FAILED")
}
