package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"voicetracker-backend/internal/voice"
)

type CtxKey string

const (
	ctxUserIDKey CtxKey = "analytics_user_id"
)

const (
	EventReminderExtracted    = "reminder_extracted"
	EventReminderIncomplete   = "reminder_incomplete"
	EventTransactionExtracted = "transaction_extracted"
	EventTransactionRejected  = "transaction_rejected"
)

// Envelope is what we store with every event.
type Envelope struct {
	UserID       int
	SessionID    string
	Platform     string
	AppVersion   string
	DeviceLocale string
}

// FromRequest extracts event envelope fields from request.
// Backend-trustable fields only.
func FromRequest(r *http.Request) Envelope {
	platform := strings.ToLower(strings.TrimSpace(r.Header.Get("X-Platform")))
	switch platform {
	case "ios", "android", "web", "cli":
	default:
		platform = "unknown"
	}

	locale := strings.TrimSpace(r.Header.Get("Accept-Language"))
	if locale == "" {
		locale = strings.TrimSpace(r.Header.Get("X-Device-Locale"))
	}

	return Envelope{
		SessionID:    strings.TrimSpace(r.Header.Get("X-Session-Id")),
		Platform:     platform,
		AppVersion:   strings.TrimSpace(r.Header.Get("X-App-Version")),
		DeviceLocale: locale,
	}
}

func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(ctxUserIDKey)
	if v == nil {
		return 0, false
	}
	uid, ok := v.(int)
	return uid, ok
}

// SourceEventKeyFromRequest returns the optional client idempotency key.
// A duplicate key makes Log a no-op.
func SourceEventKeyFromRequest(r *http.Request) string {
	k := strings.TrimSpace(r.Header.Get("Idempotency-Key"))
	if k != "" {
		return k
	}
	return strings.TrimSpace(r.Header.Get("X-Source-Event-Key"))
}

// Log inserts one analytics event. Callers pass sanitized props; raw
// transcripts never reach this table.
func Log(ctx context.Context, db *sql.DB, env Envelope, eventName string, props any, sourceEventKey string) error {
	if eventName == "" {
		return nil
	}

	userID := env.UserID
	if userID == 0 {
		uid, ok := UserIDFromContext(ctx)
		if !ok {
			return nil
		}
		userID = uid
	}

	b, err := json.Marshal(props)
	if err != nil {
		return fmt.Errorf("marshal %s props: %w", eventName, err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO analytics_events (
			event_name, event_time,
			user_id, session_id,
			platform, app_version, device_locale,
			source_event_key,
			properties
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (source_event_key) DO NOTHING
	`, eventName, time.Now().UTC().UnixMilli(),
		userID, nullIfEmpty(env.SessionID),
		env.Platform, env.AppVersion, nullIfEmpty(env.DeviceLocale),
		nullIfEmpty(sourceEventKey),
		string(b),
	)
	if err != nil {
		return fmt.Errorf("insert %s: %w", eventName, err)
	}
	return nil
}

// ExtractionEvent names the event and builds the sanitized properties for
// one extraction attempt. kind is "reminder" or "transaction".
func ExtractionEvent(kind string, textLen int, err error) (string, map[string]any) {
	props := map[string]any{"text_length": textLen}

	var incomplete *voice.IncompleteReminderError
	switch {
	case kind == "reminder" && err == nil:
		return EventReminderExtracted, props
	case kind == "reminder" && errors.As(err, &incomplete):
		props["missing_fields"] = incomplete.MissingFields
		return EventReminderIncomplete, props
	case kind == "transaction" && err == nil:
		return EventTransactionExtracted, props
	case kind == "transaction":
		return EventTransactionRejected, props
	default:
		return "", nil
	}
}

func nullIfEmpty(s string) sql.NullString {
	if strings.TrimSpace(s) == "" {
		return sql.NullString{Valid: false}
	}
	return sql.NullString{String: s, Valid: true}
}
