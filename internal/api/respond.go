// Package api holds the JSON response and request-validation helpers shared
// by the HTTP handlers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"voicetracker-backend/internal/voice"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks v's `validate` struct tags.
func Validate(v any) error { return validate.Struct(v) }

// Var checks a single value against a tag list.
func Var(v any, tag string) error { return validate.Var(v, tag) }

func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]any{"error": msg})
}

// Decode reads a JSON body into v and validates it. On failure it writes a
// 400 and returns false.
func Decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		Error(w, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := Validate(v); err != nil {
		ValidationError(w, err)
		return false
	}
	return true
}

// ValidationError writes a 400 listing the failing field and rule pairs.
func ValidationError(w http.ResponseWriter, err error) {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		Error(w, http.StatusBadRequest, err.Error())
		return
	}
	fields := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		fields[fe.Field()] = fe.Tag()
	}
	JSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": fields,
	})
}

// ExtractionError maps a core error onto its HTTP response. It reports false
// for errors that are not extraction errors, leaving the response unwritten.
func ExtractionError(w http.ResponseWriter, err error) bool {
	var (
		incomplete *voice.IncompleteReminderError
		rejected   *voice.TransactionParseError
	)
	switch {
	case errors.Is(err, voice.ErrEmptyTranscript),
		errors.Is(err, voice.ErrPastDate),
		errors.Is(err, voice.ErrInvalidDate),
		errors.Is(err, voice.ErrInvalidTime):
		Error(w, http.StatusBadRequest, err.Error())
	case errors.As(err, &incomplete):
		JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":          incomplete.Error(),
			"missing_fields": incomplete.MissingFields,
			"example":        incomplete.Example,
		})
	case errors.As(err, &rejected):
		JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":     rejected.Error(),
			"raw_input": rejected.RawInput,
		})
	default:
		return false
	}
	return true
}
