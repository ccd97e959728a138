package auth

import (
	"context"
	"net/http"
	"strings"

	"voicetracker-backend/internal/analytics"
	"voicetracker-backend/internal/logger"
)

type ctxKey string

const userIDKey ctxKey = "user_id"

type Middleware struct {
	secret []byte
}

func New(secret []byte) Middleware {
	return Middleware{secret: secret}
}

// Wrap rejects requests without a valid bearer token and stores the user id
// in the request context, for handlers and for the analytics log.
func (m Middleware) Wrap(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h := r.Header.Get("Authorization")
		if !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "missing token", http.StatusUnauthorized)
			return
		}

		userID, err := ParseToken(m.secret, strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			logger.FromContext(r.Context()).Debug("token rejected", "error", err)
			http.Error(w, "invalid token", http.StatusUnauthorized)
			return
		}

		ctx := WithUserID(r.Context(), userID)
		ctx = logger.ContextWithLogger(ctx, logger.FromContext(ctx).With("user_id", userID))
		next(w, r.WithContext(ctx))
	}
}

// WithUserID marks ctx as authenticated for userID.
func WithUserID(ctx context.Context, userID int) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	return analytics.WithUserID(ctx, userID)
}

func UserIDFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(userIDKey)
	if v == nil {
		return 0, false
	}
	uid, ok := v.(int)
	return uid, ok
}
