package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"digistore-be/internal/logger"
	"digistore-be/internal/user"
	"digistore-be/internal/utils"

	"go.uber.org/zap"
)

type credentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string   `json:"token"`
	User  userInfo `json:"user"`
}

type userInfo struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

func HandleRegister(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidBody, "invalid JSON body")
			return
		}
		if req.Email == "" || req.Password == "" {
			writeError(w, http.StatusBadRequest, codeInvalidBody, "email and password are required")
			return
		}

		token, u, err := svc.Register(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrEmailExists) {
				writeError(w, http.StatusConflict, codeEmailExists, err.Error())
				return
			}
			logger.FromCtx(r.Context()).Error("register failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		writeData(w, http.StatusCreated, authResponse{
			Token: token,
			User:  userInfo{ID: u.ID, Email: u.Email, Role: string(u.Role)},
		})
	}
}

func HandleLogin(svc user.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !requirePost(w, r) {
			return
		}

		var req credentialsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, codeInvalidBody, "invalid JSON body")
			return
		}

		token, u, err := svc.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			if errors.Is(err, user.ErrInvalidCredentials) {
				writeError(w, http.StatusUnauthorized, codeInvalidCredentials, err.Error())
				return
			}
			logger.FromCtx(r.Context()).Error("login failed", zap.Error(err))
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		writeData(w, http.StatusOK, authResponse{
			Token: token,
			User:  userInfo{ID: u.ID, Email: u.Email, Role: string(u.Role)},
		})
	}
}

// HandleMe serves GET /auth/me: the storefront restores its session
// from the stored token by asking who it belongs to.
func HandleMe(svc user.Service) http.HandlerFunc {
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

		u, err := svc.GetUserByID(r.Context(), userID)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				// Valid token for a profile that no longer exists.
				writeError(w, http.StatusUnauthorized, codeUnauthorized, "unknown user")
				return
			}
			logger.FromCtx(r.Context()).Error("failed to load profile", zap.Error(err))
			writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
			return
		}

		writeData(w, http.StatusOK, userInfo{ID: u.ID, Email: u.Email, Role: string(u.Role)})
	}
}
