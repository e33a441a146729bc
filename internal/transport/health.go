package transport

import (
	"database/sql"
	"net/http"
)

func HandleHealth(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.PingContext(r.Context()); err != nil {
			writeError(w, http.StatusServiceUnavailable, codeInternalError, "database unreachable")
			return
		}
		writeData(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
