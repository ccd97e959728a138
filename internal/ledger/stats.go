package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"voicetracker-backend/internal/voice"
)

// Stats are the dashboard quick figures for one kind.
type Stats struct {
	Count        int             `json:"count"`
	Today        int             `json:"today"`
	LastSevenDay int             `json:"last_7_days"`
	Total        decimal.Decimal `json:"total"`
	AveragePrice decimal.Decimal `json:"average_price"`
}

// Summarize computes Stats with day boundaries taken in Istanbul.
func Summarize(entries []Entry, now time.Time) Stats {
	today := voice.Today(now)
	weekAgo := today.AddDate(0, 0, -6)

	st := Stats{Count: len(entries), Total: decimal.Zero, AveragePrice: decimal.Zero}
	for _, e := range entries {
		st.Total = st.Total.Add(e.Price)
		day := voice.Today(e.CreatedAt)
		if day.Equal(today) {
			st.Today++
		}
		if !day.Before(weekAgo) && !day.After(today) {
			st.LastSevenDay++
		}
	}
	if st.Count > 0 {
		st.AveragePrice = st.Total.DivRound(decimal.NewFromInt(int64(st.Count)), 2)
	}
	return st
}
