package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"digistore-be/internal/code"
	"digistore-be/internal/logger"
	"digistore-be/internal/product"

	"go.uber.org/zap"
)

type provisionCodesRequest struct {
	Codes []string `json:"codes"`
}

type provisionCodesResponse struct {
	Inserted int `json:"inserted"`
}

// HandleProvisionCodes serves POST /admin/products/{id}/codes: the bulk
// ahead-of-time provisioning path. Codes land unused and become
// claimable immediately.
func HandleProvisionCodes(products product.Service, codes code.Repository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		productID, ok := parseProvisionPath(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}

		var req provisionCodesRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidBody, "invalid JSON body")
			return
		}
		if len(req.Codes) == 0 {
			writeError(w, http.StatusBadRequest, codeInvalidBody, "codes are required")
			return
		}

		if _, err := products.GetByID(r.Context(), productID); err != nil {
			if errors.Is(err, product.ErrProductNotFound) {
				writeError(w, http.StatusNotFound, codeProductNotFound, err.Error())
				return
			}
			logger.FromCtx(r.Context()).Error("failed to load product", zap.Error(err))
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		inserted, err := codes.Provision(r.Context(), productID, req.Codes)
		if err != nil {
			logger.FromCtx(r.Context()).Error("failed to provision codes", zap.Error(err))
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		writeData(w, http.StatusCreated, provisionCodesResponse{Inserted: inserted})
	}
}

func parseProvisionPath(path string) (string, bool) {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) != 4 {
		return "", false
	}
	if parts[0] != "admin" || parts[1] != "products" || parts[3] != "codes" {
		return "", false
	}
	if parts[2] == "" {
		return "", false
	}
	return parts[2], true
}
