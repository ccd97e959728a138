package auth

import (
	"database/sql"
	"encoding/json"
	"net/http"

	"voicetracker-backend/internal/logger"
)

// LogoutHandler acknowledges a logout. Tokens are stateless; the client
// discards its copy.
func LogoutHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
		})
	}
}

// DeleteAccountHandler removes the user and everything recorded for them.
func DeleteAccountHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		log := logger.FromContext(r.Context())

		tx, err := dbx.BeginTx(r.Context(), nil)
		if err != nil {
			http.Error(w, "db begin failed", http.StatusInternalServerError)
			return
		}
		defer tx.Rollback()

		steps := []struct {
			name  string
			query string
		}{
			{"reminders", `DELETE FROM reminders WHERE user_id = $1`},
			{"transactions", `DELETE FROM transactions WHERE user_id = $1`},
			{"analytics_events", `DELETE FROM analytics_events WHERE user_id = $1`},
			{"users", `DELETE FROM users WHERE id = $1`},
		}
		for _, s := range steps {
			if _, err := tx.ExecContext(r.Context(), s.query, uid); err != nil {
				log.Error("delete account failed", "table", s.name, "error", err)
				http.Error(w, "delete "+s.name+" failed", http.StatusInternalServerError)
				return
			}
		}

		if err := tx.Commit(); err != nil {
			http.Error(w, "db commit failed", http.StatusInternalServerError)
			return
		}

		log.Info("account deleted")
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"ok": true,
		})
	}
}
