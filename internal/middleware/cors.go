package middleware

import (
	"net/http"
	"strings"
)

// CORS allows the storefront (a browser client) to call the API.
// Origins is a comma-separated allow-list; "*" or empty allows all.
// Preflight OPTIONS requests are answered with 200 and never reach
// the handlers.
func CORS(origins string, next http.Handler) http.Handler {
	allowAll := origins == "" || origins == "*"
	allowed := make(map[string]struct{})
	if !allowAll {
		for _, o := range strings.Split(origins, ",") {
			o = strings.TrimSpace(o)
			if o == "*" {
				allowAll = true
			} else if o != "" {
				allowed[o] = struct{}{}
			}
		}
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")

		if allowAll {
			w.Header().Set("Access-Control-Allow-Origin", "*")
		} else if _, ok := allowed[origin]; ok {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}

		w.Header().Set("Access-Control-Allow-Headers", "authorization, x-client-info, apikey, content-type")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
