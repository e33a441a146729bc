package transport

import (
	"net/http"
	"time"

	"digistore-be/internal/logger"
	"digistore-be/internal/order"
	"digistore-be/internal/utils"

	"go.uber.org/zap"
)

type orderItemResponse struct {
	ID              string  `json:"id"`
	ProductID       string  `json:"product_id"`
	Quantity        int     `json:"quantity"`
	PriceAtTime     float64 `json:"price_at_time"`
	ProductName     string  `json:"product_name"`
	ProductImageURL *string `json:"product_image_url,omitempty"`
	DigitalCode     *string `json:"digital_code,omitempty"`
}

type orderResponse struct {
	ID          string              `json:"id"`
	Status      string              `json:"status"`
	TotalAmount float64             `json:"total_amount"`
	Currency    string              `json:"currency"`
	CreatedAt   time.Time           `json:"created_at"`
	Items       []orderItemResponse `json:"items"`
}

// HandleListOrders serves GET /orders for the authenticated user.
func HandleListOrders(repo order.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		userID, ok := utils.GetUserIDFromContext(r.Context())
		if !ok {
			writeError(w, http.StatusUnauthorized, codeUnauthorized, "authentication required")
			return
		}

		orders, err := repo.FetchOrdersByUser(r.Context(), userID)
		if err != nil {
			logger.FromCtx(r.Context()).Error("failed to list orders", zap.Error(err))
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		out := make([]orderResponse, 0, len(orders))
		for _, o := range orders {
			items := make([]orderItemResponse, 0, len(o.Items))
			for _, item := range o.Items {
				items = append(items, orderItemResponse{
					ID:              item.ID,
					ProductID:       item.ProductID,
					Quantity:        item.Quantity,
					PriceAtTime:     item.PriceAtTime,
					ProductName:     item.ProductName,
					ProductImageURL: item.ProductImageURL,
					DigitalCode:     item.DigitalCode,
				})
			}
			out = append(out, orderResponse{
				ID:          o.ID,
				Status:      string(o.Status),
				TotalAmount: o.TotalAmount,
				Currency:    o.Currency,
				CreatedAt:   o.CreatedAt,
				Items:       items,
			})
		}

		writeData(w, http.StatusOK, out)
	}
}
