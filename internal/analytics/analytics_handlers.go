package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
)

// Summary counts the user's events by name.
func Summary(ctx context.Context, db *sql.DB, userID int) (map[string]int, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT event_name, COUNT(*)
		FROM analytics_events
		WHERE user_id = $1
		GROUP BY event_name
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("query summary: %w", err)
	}
	defer rows.Close()

	out := map[string]int{}
	for rows.Next() {
		var (
			name  string
			count int
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out[name] = count
	}
	return out, rows.Err()
}

// SummaryHandler serves GET /analytics/summary.
func SummaryHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		counts, err := Summary(r.Context(), dbx, uid)
		if err != nil {
			http.Error(w, "db query error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"events": counts})
	}
}
