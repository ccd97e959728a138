package auth

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"voicetracker-backend/internal/api"
	"voicetracker-backend/internal/logger"
)

type credentials struct {
	Email    string `json:"email" validate:"required,email,max=254"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

func decodeCredentials(r *http.Request) (credentials, error) {
	var body credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return body, err
	}
	body.Email = strings.ToLower(strings.TrimSpace(body.Email))
	return body, api.Validate(body)
}

func writeToken(w http.ResponseWriter, status, userID int, token string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"user_id": userID,
		"token":   token,
	})
}

func RegisterHandler(dbx *sql.DB, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeCredentials(r)
		if err != nil {
			http.Error(w, "valid email & password (8+ chars) required", http.StatusBadRequest)
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(body.Password), bcrypt.DefaultCost)
		if err != nil {
			http.Error(w, "hash failed", http.StatusInternalServerError)
			return
		}

		var id int
		err = dbx.QueryRowContext(r.Context(), `
			INSERT INTO users (email, password_hash, created_at)
			VALUES ($1, $2, $3)
			RETURNING id
		`, body.Email, string(hash), time.Now().UTC().UnixMilli()).Scan(&id)
		if err != nil {
			logger.FromContext(r.Context()).Warn("register failed", "error", err)
			http.Error(w, "user exists", http.StatusConflict)
			return
		}

		token, err := GenerateToken(secret, id)
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}
		writeToken(w, http.StatusCreated, id, token)
	}
}

func LoginHandler(dbx *sql.DB, secret []byte) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := decodeCredentials(r)
		if err != nil {
			http.Error(w, "invalid login", http.StatusUnauthorized)
			return
		}

		var (
			id   int
			hash string
		)
		err = dbx.QueryRowContext(r.Context(),
			`SELECT id, password_hash FROM users WHERE email = $1`, body.Email,
		).Scan(&id, &hash)
		if err != nil {
			if !errors.Is(err, sql.ErrNoRows) {
				logger.FromContext(r.Context()).Error("login query failed", "error", err)
			}
			http.Error(w, "invalid login", http.StatusUnauthorized)
			return
		}
		if bcrypt.CompareHashAndPassword([]byte(hash), []byte(body.Password)) != nil {
			http.Error(w, "invalid login", http.StatusUnauthorized)
			return
		}

		token, err := GenerateToken(secret, id)
		if err != nil {
			http.Error(w, "token error", http.StatusInternalServerError)
			return
		}
		writeToken(w, http.StatusOK, id, token)
	}
}

func MeHandler(dbx *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		uid, ok := UserIDFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}

		var email string
		err := dbx.QueryRowContext(r.Context(), "SELECT email FROM users WHERE id = $1", uid).Scan(&email)
		if errors.Is(err, sql.ErrNoRows) {
			http.Error(w, "user not found", http.StatusNotFound)
			return
		}
		if err != nil {
			http.Error(w, "db query error", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"user_id": uid,
			"email":   email,
		})
	}
}
