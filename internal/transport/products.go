package transport

import (
	"net/http"

	"digistore-be/internal/logger"
	"digistore-be/internal/product"

	"go.uber.org/zap"
)

type productResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	NameAr      string  `json:"name_ar"`
	Description *string `json:"description,omitempty"`
	Category    string  `json:"category"`
	Price       float64 `json:"price"`
	ImageURL    *string `json:"image_url,omitempty"`
	StockCount  int     `json:"stock_count"`
}

// HandleListProducts serves GET /products: the active catalog with the
// count of still deliverable codes per product.
func HandleListProducts(svc product.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, http.StatusMethodNotAllowed, codeMethodNotAllowed, "method not allowed")
			return
		}

		products, err := svc.ListActive(r.Context())
		if err != nil {
			logger.FromCtx(r.Context()).Error("failed to list products", zap.Error(err))
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		out := make([]productResponse, 0, len(products))
		for _, p := range products {
			out = append(out, productResponse{
				ID:          p.ID,
				Name:        p.Name,
				NameAr:      p.NameAr,
				Description: p.Description,
				Category:    p.Category,
				Price:       p.Price,
				ImageURL:    p.ImageURL,
				StockCount:  p.StockCount,
			})
		}

		writeData(w, http.StatusOK, out)
	}
}
