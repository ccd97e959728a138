package reminders

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"voicetracker-backend/internal/analytics"
	"voicetracker-backend/internal/api"
	"voicetracker-backend/internal/auth"
	"voicetracker-backend/internal/calendar"
	"voicetracker-backend/internal/logger"
	"voicetracker-backend/internal/metrics"
	"voicetracker-backend/internal/voice"
)

type Handler struct {
	DB              *sql.DB
	Store           Store
	Encoder         calendar.Encoder
	CalendarBaseURL string
	Metrics         metrics.Observer
	Now             func() time.Time
}

func New(db *sql.DB, calendarBaseURL string, obs metrics.Observer) *Handler {
	if obs == nil {
		obs = metrics.Nop()
	}
	return &Handler{
		DB:              db,
		Store:           Store{DB: db},
		CalendarBaseURL: calendarBaseURL,
		Metrics:         obs,
		Now:             time.Now,
	}
}

type created struct {
	Reminder    Reminder       `json:"reminder"`
	Event       calendar.Event `json:"event"`
	CalendarURL string         `json:"calendar_url"`
}

type voiceRequest struct {
	Transcript string `json:"transcript" validate:"max=2000"`
	Notes      string `json:"notes" validate:"max=2000"`
}

// Voice serves POST /reminders/voice.
func (h *Handler) Voice(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var body voiceRequest
	if !api.Decode(w, r, &body) {
		return
	}

	started := time.Now()
	rem, err := voice.ParseReminder(body.Transcript, body.Notes)
	h.Metrics.RecordExtraction(metrics.KindReminder, time.Since(started), err)

	env := analytics.FromRequest(r)
	env.UserID = uid
	name, props := analytics.ExtractionEvent(metrics.KindReminder, len(body.Transcript), err)
	if logErr := analytics.Log(r.Context(), h.DB, env, name, props, analytics.SourceEventKeyFromRequest(r)); logErr != nil {
		logger.FromContext(r.Context()).Warn("analytics log failed", "error", logErr)
	}

	if err != nil {
		logger.FromContext(r.Context()).Info("reminder extraction failed", "outcome", metrics.Outcome(err))
		if !api.ExtractionError(w, err) {
			api.Error(w, http.StatusInternalServerError, "extraction failed")
		}
		return
	}
	h.save(w, r, uid, rem, SourceVoice)
}

type manualRequest struct {
	Task  string `json:"task" validate:"max=500"`
	Date  string `json:"date" validate:"omitempty,datetime=2006-01-02"`
	Time  string `json:"time" validate:"omitempty,datetime=15:04"`
	Notes string `json:"notes" validate:"max=2000"`
}

// Create serves POST /reminders for form input.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	var body manualRequest
	if !api.Decode(w, r, &body) {
		return
	}

	rem, err := voice.ManualReminder(body.Task, body.Date, body.Time, body.Notes, h.Now())
	if err != nil {
		if !api.ExtractionError(w, err) {
			api.Error(w, http.StatusInternalServerError, "invalid reminder")
		}
		return
	}
	h.save(w, r, uid, rem, SourceManual)
}

func (h *Handler) save(w http.ResponseWriter, r *http.Request, uid int, rem voice.Reminder, source Source) {
	now := h.Now()
	enc := h.Encoder
	if enc.Now == nil {
		enc.Now = h.Now
	}
	ev := enc.Encode(rem)
	link := calendar.GoogleURL(h.CalendarBaseURL, ev)

	rec := Reminder{
		Task:        rem.Task,
		DateKind:    rem.Date.Kind.String(),
		DateRaw:     rem.Date.Raw,
		Day:         rem.Day(now).Format("2006-01-02"),
		Time:        rem.Time.String(),
		Notes:       rem.Notes,
		Source:      source,
		StartsAt:    ev.Start,
		CalendarURL: link,
	}
	if err := h.Store.Insert(r.Context(), uid, &rec, now); err != nil {
		logger.FromContext(r.Context()).Error("store reminder", "error", err)
		api.Error(w, http.StatusInternalServerError, "db insert error")
		return
	}

	logger.FromContext(r.Context()).Info("reminder created", "id", rec.ID, "source", source, "day", rec.Day)
	api.JSON(w, http.StatusCreated, created{Reminder: rec, Event: ev, CalendarURL: link})
}

// List serves GET /reminders.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	list, err := h.Store.List(r.Context(), uid)
	if err != nil {
		logger.FromContext(r.Context()).Error("list reminders", "error", err)
		api.Error(w, http.StatusInternalServerError, "db query error")
		return
	}
	api.JSON(w, http.StatusOK, list)
}

// Delete serves DELETE /reminders/{id}.
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	id := r.PathValue("id")
	if err := api.Var(id, "required,uuid"); err != nil {
		api.Error(w, http.StatusBadRequest, "invalid id")
		return
	}

	err := h.Store.Delete(r.Context(), uid, id)
	switch {
	case errors.Is(err, ErrNotFound):
		api.Error(w, http.StatusNotFound, err.Error())
	case err != nil:
		logger.FromContext(r.Context()).Error("delete reminder", "error", err)
		api.Error(w, http.StatusInternalServerError, "db delete error")
	default:
		api.JSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}
