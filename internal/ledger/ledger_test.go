package ledger

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicetracker-backend/internal/voice"
)

var saturday = time.Date(2026, time.October, 17, 10, 0, 0, 0, voice.Istanbul)

func entry(product string, qty int, price string, at time.Time) Entry {
	return Entry{
		Kind:          KindExpense,
		Quantity:      qty,
		Product:       product,
		Company:       "abc",
		Price:         decimal.RequireFromString(price),
		PaymentMethod: voice.PaymentCash,
		CreatedAt:     at,
	}
}

func products(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Product
	}
	return out
}

func TestSort(t *testing.T) {
	base := []Entry{
		entry("kalem", 5, "25", saturday.Add(-2*time.Hour)),
		entry("çanta", 1, "100.5", saturday.Add(-time.Hour)),
		entry("defter", 10, "9.99", saturday),
	}

	t.Run("Should order by creation time, newest first by default", func(t *testing.T) {
		got := append([]Entry(nil), base...)
		Sort(got, "created_at", true)
		assert.Equal(t, []string{"defter", "çanta", "kalem"}, products(got))
	})

	t.Run("Should compare prices as decimals", func(t *testing.T) {
		got := append([]Entry(nil), base...)
		Sort(got, "price", false)
		assert.Equal(t, []string{"defter", "kalem", "çanta"}, products(got))
	})

	t.Run("Should collate product names the Turkish way", func(t *testing.T) {
		got := append([]Entry(nil), base...)
		Sort(got, "product", false)
		assert.Equal(t, []string{"çanta", "defter", "kalem"}, products(got))
	})

	t.Run("Should sort quantities descending", func(t *testing.T) {
		got := append([]Entry(nil), base...)
		Sort(got, "quantity", true)
		assert.Equal(t, []string{"defter", "kalem", "çanta"}, products(got))
	})

	t.Run("Should collate payment method labels the Turkish way", func(t *testing.T) {
		got := append([]Entry(nil), base...)
		got[0].PaymentMethod = voice.PaymentOther
		got[1].PaymentMethod = voice.PaymentCash
		got[2].PaymentMethod = voice.PaymentCheque
		Sort(got, "payment_method", false)
		assert.Equal(t, []string{"defter", "kalem", "çanta"}, products(got))
	})

	assert.False(t, ValidSortField("password"))
}

func TestSummarize(t *testing.T) {
	t.Run("Should count today and the last seven days in Istanbul", func(t *testing.T) {
		entries := []Entry{
			entry("a", 1, "10", saturday),
			entry("b", 1, "20", time.Date(2026, time.October, 17, 0, 30, 0, 0, voice.Istanbul)),
			entry("c", 1, "30", saturday.AddDate(0, 0, -6)),
			entry("d", 1, "41", saturday.AddDate(0, 0, -7)),
		}
		st := Summarize(entries, saturday)
		assert.Equal(t, 4, st.Count)
		assert.Equal(t, 2, st.Today)
		assert.Equal(t, 3, st.LastSevenDay)
		assert.True(t, decimal.RequireFromString("101").Equal(st.Total))
		assert.True(t, decimal.RequireFromString("25.25").Equal(st.AveragePrice))
	})

	t.Run("Should report zero averages for no entries", func(t *testing.T) {
		st := Summarize(nil, saturday)
		assert.True(t, st.AveragePrice.IsZero())
	})
}

func TestExport(t *testing.T) {
	entries := []Entry{entry("kalem", 5, "1234.5", saturday)}
	entries[0].Company = `abc "kırtasiye", ltd`

	t.Run("Should write a BOM-prefixed CSV with Turkish headers", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, WriteCSV(&buf, KindExpense, entries))
		require.True(t, strings.HasPrefix(buf.String(), "\uFEFF"))

		rows, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(buf.String(), "\uFEFF"))).ReadAll()
		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, expenseHeaders, rows[0])
		assert.Equal(t, []string{"17.10.2026 10:00", "5", "kalem", `abc "kırtasiye", ltd`, "1.234,50", "Nakit"}, rows[1])
	})

	t.Run("Should use the income columns", func(t *testing.T) {
		inc := Entry{
			Kind: KindIncome, Product: "danışmanlık", Company: "xyz",
			Price: decimal.NewFromInt(500), PaymentMethod: voice.PaymentTransfer,
			Description: "ekim", CreatedAt: saturday,
		}
		rows := Rows(KindIncome, []Entry{inc})
		assert.Equal(t, incomeHeaders, rows[0])
		assert.Equal(t, []string{"17.10.2026 10:00:00", "danışmanlık", "xyz", "500", "Havale/EFT", "ekim"}, rows[1])
	})

	t.Run("Should escape cells in the HTML table", func(t *testing.T) {
		var buf bytes.Buffer
		entries[0].Product = "<b>kalem</b>"
		require.NoError(t, WriteHTML(&buf, KindExpense, entries))
		out := buf.String()
		assert.Contains(t, out, "<th>Tedarikçi/Şirket</th>")
		assert.Contains(t, out, "&lt;b&gt;kalem&lt;/b&gt;")
		assert.NotContains(t, out, "<b>kalem</b>")
	})

	t.Run("Should name files after the export day", func(t *testing.T) {
		assert.Equal(t, "gider_kayitlari_2026_10_17.csv", Filename(KindExpense, FormatCSV, saturday))
		assert.Equal(t, "gelir_kayitlari_2026-10-17.xls", Filename(KindIncome, FormatHTML, saturday))
	})

	t.Run("Should format lira amounts", func(t *testing.T) {
		cases := map[string]string{"0": "0,00", "12.5": "12,50", "1234567.891": "1.234.567,89", "-1000": "-1.000,00"}
		for in, want := range cases {
			assert.Equal(t, want, FormatLira(decimal.RequireFromString(in)), in)
		}
	})
}
