package ledger

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicetracker-backend/internal/auth"
	"voicetracker-backend/internal/db/dbtest"
	"voicetracker-backend/internal/voice"
)

func setup(t *testing.T) (*Handler, context.Context) {
	t.Helper()
	dbx := dbtest.Open(t)
	uid := dbtest.CreateUser(t, dbx, "ayse@example.com")
	h := New(dbx, nil)
	h.Now = func() time.Time { return saturday }
	return h, auth.WithUserID(context.Background(), uid)
}

func call(ctx context.Context, fn http.HandlerFunc, method, target, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(method, target, strings.NewReader(body)).WithContext(ctx)
	w := httptest.NewRecorder()
	fn(w, r)
	return w
}

func TestVoiceHandler(t *testing.T) {
	h, ctx := setup(t)

	t.Run("Should store an extracted expense", func(t *testing.T) {
		w := call(ctx, h.Voice, http.MethodPost, "/transactions/voice",
			`{"transcript":"5 kalem abc şirketinden geldi. fiyatı 25 tl. ödeme yöntemi: nakit"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var e Entry
		require.NoError(t, json.NewDecoder(w.Body).Decode(&e))
		assert.Equal(t, 5, e.Quantity)
		assert.Equal(t, "abc şirketinden", e.Company)
		assert.True(t, decimal.NewFromInt(25).Equal(e.Price))
		assert.Equal(t, voice.PaymentCash, e.PaymentMethod)
		assert.Equal(t, SourceVoice, e.Source)
	})

	t.Run("Should reject unparseable speech with the raw input", func(t *testing.T) {
		w := call(ctx, h.Voice, http.MethodPost, "/transactions/voice", `{"transcript":"kalem geldi"}`)
		require.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), `"raw_input":"kalem geldi"`)
	})
}

func TestCreateHandler(t *testing.T) {
	h, ctx := setup(t)

	t.Run("Should validate the expense form", func(t *testing.T) {
		w := call(ctx, h.Create, http.MethodPost, "/transactions",
			`{"quantity":0,"product":"kalem","company":"abc","price":"25","payment_method":"visa"}`)
		require.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"quantity":"gt"`)
		assert.Contains(t, w.Body.String(), `"payment_method":"oneof"`)

		w = call(ctx, h.Create, http.MethodPost, "/transactions",
			`{"quantity":1,"product":"kalem","company":"abc","price":"0","payment_method":"nakit"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), `"price":"gt"`)
	})

	t.Run("Should store an income entry", func(t *testing.T) {
		w := call(ctx, h.Create, http.MethodPost, "/transactions?kind=income",
			`{"source":"danışmanlık","client":"xyz","amount":1500.75,"payment_method":"havale","description":"ekim"}`)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		got, err := h.Store.List(ctx, mustUID(t, ctx), KindIncome)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.True(t, decimal.RequireFromString("1500.75").Equal(got[0].Price))
		assert.Equal(t, SourceManual, got[0].Source)
	})

	t.Run("Should reject unknown kinds", func(t *testing.T) {
		w := call(ctx, h.Create, http.MethodPost, "/transactions?kind=gift", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func mustUID(t *testing.T, ctx context.Context) int {
	t.Helper()
	uid, ok := auth.UserIDFromContext(ctx)
	require.True(t, ok)
	return uid
}

func TestListExportClear(t *testing.T) {
	h, ctx := setup(t)
	for _, body := range []string{
		`{"quantity":2,"product":"defter","company":"abc","price":"12.5","payment_method":"nakit"}`,
		`{"quantity":7,"product":"kalem","company":"xyz","price":"3","payment_method":"kredi_karti"}`,
	} {
		require.Equal(t, http.StatusCreated, call(ctx, h.Create, http.MethodPost, "/transactions", body).Code)
	}

	t.Run("Should sort by the requested column", func(t *testing.T) {
		w := call(ctx, h.List, http.MethodGet, "/transactions?sort=price&order=asc", "")
		require.Equal(t, http.StatusOK, w.Code)
		var got []Entry
		require.NoError(t, json.NewDecoder(w.Body).Decode(&got))
		assert.Equal(t, []string{"kalem", "defter"}, products(got))

		w = call(ctx, h.List, http.MethodGet, "/transactions?sort=password", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Should download a CSV attachment", func(t *testing.T) {
		w := call(ctx, h.Export, http.MethodGet, "/transactions/export?format=csv", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, `attachment; filename="gider_kayitlari_2026_10_17.csv"`, w.Header().Get("Content-Disposition"))
		assert.Contains(t, w.Body.String(), "Tarih/Saat,Miktar,Ürün")
	})

	t.Run("Should report quick stats", func(t *testing.T) {
		w := call(ctx, h.Stats, http.MethodGet, "/transactions/stats", "")
		require.Equal(t, http.StatusOK, w.Code)
		var st Stats
		require.NoError(t, json.NewDecoder(w.Body).Decode(&st))
		assert.Equal(t, 2, st.Today)
		assert.True(t, decimal.RequireFromString("7.75").Equal(st.AveragePrice))
	})

	t.Run("Should clear one kind only", func(t *testing.T) {
		require.Equal(t, http.StatusCreated, call(ctx, h.Create, http.MethodPost, "/transactions?kind=income",
			`{"source":"satış","amount":"10","payment_method":"nakit"}`).Code)

		w := call(ctx, h.Clear, http.MethodDelete, "/transactions?kind=expense", "")
		require.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"deleted":2}`, w.Body.String())

		left, err := h.Store.List(ctx, mustUID(t, ctx), KindIncome)
		require.NoError(t, err)
		assert.Len(t, left, 1)
	})

	t.Run("Should delete a single entry by id", func(t *testing.T) {
		left, err := h.Store.List(ctx, mustUID(t, ctx), KindIncome)
		require.NoError(t, err)
		r := httptest.NewRequest(http.MethodDelete, "/transactions/"+left[0].ID, nil).WithContext(ctx)
		r.SetPathValue("id", left[0].ID)
		w := httptest.NewRecorder()
		h.Delete(w, r)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.ErrorIs(t, h.Store.Delete(ctx, mustUID(t, ctx), left[0].ID), ErrNotFound)
	})
}
