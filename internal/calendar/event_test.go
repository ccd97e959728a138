package calendar

import (
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"voicetracker-backend/internal/voice"
)

var saturday = time.Date(2026, time.October, 17, 10, 0, 0, 0, voice.Istanbul)

func fixed(now time.Time) func() time.Time { return func() time.Time { return now } }

func TestEncode(t *testing.T) {
	enc := Encoder{Now: fixed(saturday)}

	t.Run("Should anchor tomorrow's reminder in Istanbul with a one hour end", func(t *testing.T) {
		r, err := voice.ParseReminder("beni yarın saat 14:00'te doktor randevusuna git diye hatırlat", "")
		require.NoError(t, err)

		ev := enc.Encode(r)

		assert.Equal(t, "doktor randevusuna git", ev.Summary)
		assert.Equal(t, "Europe/Istanbul", ev.TimeZone)
		assert.True(t, time.Date(2026, time.October, 18, 14, 0, 0, 0, voice.Istanbul).Equal(ev.Start))
		assert.Equal(t, time.Hour, ev.End.Sub(ev.Start))
		assert.Equal(t, "VoiceTracker ile oluşturuldu - 17.10.2026 10:00:00", ev.Details)
	})

	t.Run("Should prefer notes as details", func(t *testing.T) {
		r, err := voice.ParseReminder("beni bugün 18'de ara diye hatırlat", "annemi")
		require.NoError(t, err)
		assert.Equal(t, "annemi", enc.Encode(r).Details)
	})

	t.Run("Should produce the same event for voice and manual input of the same day", func(t *testing.T) {
		spoken, err := voice.ParseReminder("beni pazartesi saat 09:30'da rapor diye hatırlat", "x")
		require.NoError(t, err)
		typed, err := voice.ManualReminder("rapor", "2026-10-19", "09:30", "x", saturday)
		require.NoError(t, err)

		assert.Equal(t, enc.Encode(spoken), enc.Encode(typed))
	})
}

func TestGoogleURL(t *testing.T) {
	ev := Event{
		Summary:  "toplantıya katıl",
		Details:  "oda 3",
		Start:    time.Date(2026, time.October, 17, 22, 25, 0, 0, voice.Istanbul),
		TimeZone: voice.TimeZone,
	}
	ev.End = ev.Start.Add(Duration)

	link := GoogleURL("", ev)

	require.True(t, strings.HasPrefix(link, "https://calendar.google.com/calendar/render?"))
	u, err := url.Parse(link)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "TEMPLATE", q.Get("action"))
	assert.Equal(t, "toplantıya katıl", q.Get("text"))
	assert.Equal(t, "oda 3", q.Get("details"))
	assert.Equal(t, "Europe/Istanbul", q.Get("ctz"))
	assert.Equal(t, "20261017T192500Z/20261017T202500Z", q.Get("dates"))
}

func TestRoundTrip(t *testing.T) {
	t.Run("Should recover the spoken hour and minute from the UTC dates", func(t *testing.T) {
		enc := Encoder{Now: fixed(saturday)}
		for h := 0; h < 24; h++ {
			for _, m := range []int{0, 1, 15, 30, 59} {
				r := voice.Reminder{
					Task: "x",
					Date: voice.DateToken{Kind: voice.DateTomorrow, Raw: "yarın"},
					Time: voice.TimeOfDay{Hour: h, Minute: m},
				}
				u, err := url.Parse(GoogleURL("", enc.Encode(r)))
				require.NoError(t, err)

				start, end, err := ParseDates(u.Query().Get("dates"))
				require.NoError(t, err)

				local := start.In(voice.Istanbul)
				assert.Equal(t, h, local.Hour())
				assert.Equal(t, m, local.Minute())
				assert.Equal(t, Duration, end.Sub(start))
			}
		}
	})
}
