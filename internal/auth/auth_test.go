package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicetracker-backend/internal/analytics"
	"voicetracker-backend/internal/db/dbtest"
)

var secret = []byte("test-secret")

func TestTokens(t *testing.T) {
	t.Run("Should round-trip the user id", func(t *testing.T) {
		tok, err := GenerateToken(secret, 7)
		require.NoError(t, err)
		uid, err := ParseToken(secret, tok)
		require.NoError(t, err)
		assert.Equal(t, 7, uid)
	})

	t.Run("Should reject foreign signatures and algorithms", func(t *testing.T) {
		tok, err := GenerateToken([]byte("other"), 7)
		require.NoError(t, err)
		_, err = ParseToken(secret, tok)
		assert.Error(t, err)

		none, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"user_id": 7}).
			SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)
		_, err = ParseToken(secret, none)
		assert.Error(t, err)
	})
}

func TestMiddleware(t *testing.T) {
	var seen int
	h := New(secret).Wrap(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		aid, _ := analytics.UserIDFromContext(r.Context())
		assert.Equal(t, seen, aid)
	})

	t.Run("Should reject missing and bad tokens", func(t *testing.T) {
		for _, header := range []string{"", "Bearer nope", "Basic abc"} {
			r := httptest.NewRequest(http.MethodGet, "/", nil)
			r.Header.Set("Authorization", header)
			w := httptest.NewRecorder()
			h(w, r)
			assert.Equal(t, http.StatusUnauthorized, w.Code, header)
		}
	})

	t.Run("Should expose the user id", func(t *testing.T) {
		tok, err := GenerateToken(secret, 3)
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer "+tok)
		w := httptest.NewRecorder()
		h(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 3, seen)
	})
}

func TestAccountFlow(t *testing.T) {
	dbx := dbtest.Open(t)

	post := func(h http.HandlerFunc, body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		h(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
		return w
	}

	t.Run("Should register, reject duplicates and log in", func(t *testing.T) {
		w := post(RegisterHandler(dbx, secret), `{"email":"Ayse@Example.com","password":"parola123"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		w = post(RegisterHandler(dbx, secret), `{"email":"ayse@example.com","password":"parola123"}`)
		assert.Equal(t, http.StatusConflict, w.Code)

		w = post(LoginHandler(dbx, secret), `{"email":"ayse@example.com","password":"yanlis-parola"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = post(LoginHandler(dbx, secret), `{"email":"ayse@example.com","password":"parola123"}`)
		require.Equal(t, http.StatusOK, w.Code)
		var body struct {
			UserID int    `json:"user_id"`
			Token  string `json:"token"`
		}
		require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
		uid, err := ParseToken(secret, body.Token)
		require.NoError(t, err)
		assert.Equal(t, body.UserID, uid)
	})

	t.Run("Should reject weak credentials", func(t *testing.T) {
		w := post(RegisterHandler(dbx, secret), `{"email":"not-an-email","password":"short"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Should delete the account and its data", func(t *testing.T) {
		uid := dbtest.CreateUser(t, dbx, "gone@example.com")
		_, err := dbx.Exec(`INSERT INTO analytics_events (event_name, event_time, user_id, platform, properties) VALUES ('x', 0, $1, 'web', '{}')`, uid)
		require.NoError(t, err)

		r := httptest.NewRequest(http.MethodDelete, "/auth/account", nil)
		r = r.WithContext(WithUserID(r.Context(), uid))
		w := httptest.NewRecorder()
		DeleteAccountHandler(dbx)(w, r)
		require.Equal(t, http.StatusOK, w.Code)

		var n int
		require.NoError(t, dbx.QueryRow(`SELECT COUNT(*) FROM users WHERE id = $1`, uid).Scan(&n))
		assert.Zero(t, n)
		require.NoError(t, dbx.QueryRow(`SELECT COUNT(*) FROM analytics_events WHERE user_id = $1`, uid).Scan(&n))
		assert.Zero(t, n)
	})
}
