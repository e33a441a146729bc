package middleware

import (
	"net/http"

	"digistore-be/internal/auth"
	"digistore-be/internal/user"
	"digistore-be/internal/utils"
)

// AuthMiddleware resolves the acting identity from a bearer credential.
// A missing or invalid token is not fatal: the request proceeds as a
// guest and downstream code sees an empty identity.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := auth.ExtractAccessToken(r)
		if token == "" {
			next.ServeHTTP(w, r)
			return
		}

		claims, err := user.ParseJWT(token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		ctx := utils.SetUserContext(r.Context(), claims.UserID, claims.Email, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireAdmin gates a handler behind the admin role.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if utils.GetUserRoleFromContext(r.Context()) != utils.RoleAdmin {
			http.Error(w, http.StatusText(http.StatusForbidden), http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
