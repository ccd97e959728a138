package ledger

import (
	"bytes"
	"database/sql"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"voicetracker-backend/internal/analytics"
	"voicetracker-backend/internal/api"
	"voicetracker-backend/internal/auth"
	"voicetracker-backend/internal/logger"
	"voicetracker-backend/internal/metrics"
	"voicetracker-backend/internal/voice"
)

type Handler struct {
	DB      *sql.DB
	Store   Store
	Metrics metrics.Observer
	Now     func() time.Time
}

func New(db *sql.DB, obs metrics.Observer) *Handler {
	if obs == nil {
		obs = metrics.Nop()
	}
	return &Handler{
		DB:      db,
		Store:   Store{DB: db},
		Metrics: obs,
		Now:     time.Now,
	}
}

type voiceRequest struct {
	Transcript string `json:"transcript" validate:"max=2000"`
}

type expenseForm struct {
	Quantity      int             `json:"quantity" validate:"gt=0"`
	Product       string          `json:"product" validate:"required,max=200"`
	Company       string          `json:"company" validate:"required,max=200"`
	Price         decimal.Decimal `json:"price"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=nakit kredi_karti banka_karti havale cek kripto diger"`
}

type incomeForm struct {
	Source        string          `json:"source" validate:"required,max=200"`
	Client        string          `json:"client" validate:"max=200"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"payment_method" validate:"required,oneof=nakit kredi_karti banka_karti havale cek kripto diger"`
	Description   string          `json:"description" validate:"max=1000"`
}

// kindParam reads ?kind=, defaulting to expenses. It writes a 400 and
// reports false for unknown kinds.
func kindParam(w http.ResponseWriter, r *http.Request) (Kind, bool) {
	k := Kind(strings.TrimSpace(r.URL.Query().Get("kind")))
	if k == "" {
		return KindExpense, true
	}
	if !k.Valid() {
		api.Error(w, http.StatusBadRequest, "kind must be expense or income")
		return "", false
	}
	return k, true
}

func positive(w http.ResponseWriter, field string, d decimal.Decimal) bool {
	if d.IsPositive() {
		return true
	}
	api.JSON(w, http.StatusBadRequest, map[string]any{
		"error":  "validation failed",
		"fields": map[string]string{field: "gt"},
	})
	return false
}

// Voice serves POST /transactions/voice.
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
	tx, err := voice.ParseTransaction(body.Transcript, h.Now())
	h.Metrics.RecordExtraction(metrics.KindTransaction, time.Since(started), err)

	env := analytics.FromRequest(r)
	env.UserID = uid
	name, props := analytics.ExtractionEvent(metrics.KindTransaction, len(body.Transcript), err)
	if logErr := analytics.Log(r.Context(), h.DB, env, name, props, analytics.SourceEventKeyFromRequest(r)); logErr != nil {
		logger.FromContext(r.Context()).Warn("analytics log failed", "error", logErr)
	}

	if err != nil {
		logger.FromContext(r.Context()).Info("transaction extraction failed", "outcome", metrics.Outcome(err))
		if !api.ExtractionError(w, err) {
			api.Error(w, http.StatusInternalServerError, "extraction failed")
		}
		return
	}

	e := FromTransaction(tx)
	h.insert(w, r, uid, &e)
}

// Create serves POST /transactions?kind= for form input.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}

	var e Entry
	switch kind {
	case KindIncome:
		var body incomeForm
		if !api.Decode(w, r, &body) || !positive(w, "amount", body.Amount) {
			return
		}
		e = Entry{
			Kind:          KindIncome,
			Product:       strings.TrimSpace(body.Source),
			Company:       strings.TrimSpace(body.Client),
			Price:         body.Amount,
			PaymentMethod: voice.PaymentMethod(body.PaymentMethod),
			Description:   strings.TrimSpace(body.Description),
		}
	default:
		var body expenseForm
		if !api.Decode(w, r, &body) || !positive(w, "price", body.Price) {
			return
		}
		e = Entry{
			Kind:          KindExpense,
			Quantity:      body.Quantity,
			Product:       strings.TrimSpace(body.Product),
			Company:       strings.TrimSpace(body.Company),
			Price:         body.Price,
			PaymentMethod: voice.PaymentMethod(body.PaymentMethod),
		}
	}
	e.Source = SourceManual
	e.CreatedAt = h.Now()
	h.insert(w, r, uid, &e)
}

func (h *Handler) insert(w http.ResponseWriter, r *http.Request, uid int, e *Entry) {
	if err := h.Store.Insert(r.Context(), uid, e); err != nil {
		logger.FromContext(r.Context()).Error("store entry", "error", err)
		api.Error(w, http.StatusInternalServerError, "db insert error")
		return
	}
	logger.FromContext(r.Context()).Info("ledger entry created", "id", e.ID, "kind", e.Kind, "source", e.Source)
	api.JSON(w, http.StatusCreated, e)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) (Kind, []Entry, bool) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return "", nil, false
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return "", nil, false
	}
	entries, err := h.Store.List(r.Context(), uid, kind)
	if err != nil {
		logger.FromContext(r.Context()).Error("list entries", "error", err)
		api.Error(w, http.StatusInternalServerError, "db query error")
		return "", nil, false
	}
	return kind, entries, true
}

// List serves GET /transactions?kind=&sort=&order=.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	field := q.Get("sort")
	if field == "" {
		field = "created_at"
	}
	if !ValidSortField(field) {
		api.Error(w, http.StatusBadRequest, "unknown sort field")
		return
	}
	order := q.Get("order")
	if err := api.Var(order, "omitempty,oneof=asc desc"); err != nil {
		api.Error(w, http.StatusBadRequest, "order must be asc or desc")
		return
	}

	_, entries, ok := h.list(w, r)
	if !ok {
		return
	}
	Sort(entries, field, order != "asc")
	api.JSON(w, http.StatusOK, entries)
}

// Delete serves DELETE /transactions/{id}.
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
		logger.FromContext(r.Context()).Error("delete entry", "error", err)
		api.Error(w, http.StatusInternalServerError, "db delete error")
	default:
		api.JSON(w, http.StatusOK, map[string]any{"ok": true})
	}
}

// Clear serves DELETE /transactions?kind=.
func (h *Handler) Clear(w http.ResponseWriter, r *http.Request) {
	uid, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	kind, ok := kindParam(w, r)
	if !ok {
		return
	}
	n, err := h.Store.Clear(r.Context(), uid, kind)
	if err != nil {
		logger.FromContext(r.Context()).Error("clear entries", "error", err)
		api.Error(w, http.StatusInternalServerError, "db delete error")
		return
	}
	logger.FromContext(r.Context()).Info("ledger cleared", "kind", kind, "deleted", n)
	api.JSON(w, http.StatusOK, map[string]any{"deleted": n})
}

// Export serves GET /transactions/export?kind=&format=csv|html.
func (h *Handler) Export(w http.ResponseWriter, r *http.Request) {
	format := Format(r.URL.Query().Get("format"))
	if format == "" {
		format = FormatCSV
	}
	if format != FormatCSV && format != FormatHTML {
		api.Error(w, http.StatusBadRequest, "format must be csv or html")
		return
	}
	kind, entries, ok := h.list(w, r)
	if !ok {
		return
	}
	Sort(entries, "created_at", true)

	var (
		buf         bytes.Buffer
		err         error
		contentType string
	)
	if format == FormatHTML {
		contentType = "application/vnd.ms-excel; charset=utf-8"
		err = WriteHTML(&buf, kind, entries)
	} else {
		contentType = "text/csv; charset=utf-8"
		err = WriteCSV(&buf, kind, entries)
	}
	if err != nil {
		logger.FromContext(r.Context()).Error("export entries", "error", err)
		api.Error(w, http.StatusInternalServerError, "export failed")
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+Filename(kind, format, h.Now())+`"`)
	_, _ = w.Write(buf.Bytes())
}

// Stats serves GET /transactions/stats?kind=.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	_, entries, ok := h.list(w, r)
	if !ok {
		return
	}
	api.JSON(w, http.StatusOK, Summarize(entries, h.Now()))
}
