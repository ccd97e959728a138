// Package calendar turns resolved reminders into provider-neutral events and
// serializes them into calendar invite links.
package calendar

import (
	"net/url"
	"strings"
	"time"

	"voicetracker-backend/internal/voice"
)

// Duration is the fixed length of every reminder event.
const Duration = 60 * time.Minute

const defaultBaseURL = "https://calendar.google.com/calendar/render"

// Event is the descriptor handed to the calendar collaborator.
type Event struct {
	Summary  string    `json:"summary"`
	Details  string    `json:"details"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	TimeZone string    `json:"timezone"`
}

// Encoder builds events. Now defaults to time.Now.
type Encoder struct {
	Now func() time.Time
}

func (e Encoder) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

// Encode anchors the reminder's day and time in Istanbul. Relative dates are
// resolved against the encoder's clock with the same arithmetic the date
// resolver uses.
func (e Encoder) Encode(r voice.Reminder) Event {
	now := e.now()
	start := r.Start(now)
	details := r.Notes
	if details == "" {
		details = "VoiceTracker ile oluşturuldu - " + now.In(voice.Istanbul).Format("02.01.2006 15:04:05")
	}
	return Event{
		Summary:  r.Task,
		Details:  details,
		Start:    start,
		End:      start.Add(Duration),
		TimeZone: voice.TimeZone,
	}
}

const utcStamp = "20060102T150405Z"

// GoogleURL serializes ev into a calendar template link. The dates parameter
// is always in UTC; ctz tells the provider which zone to display.
func GoogleURL(baseURL string, ev Event) string {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	params := url.Values{}
	params.Set("action", "TEMPLATE")
	params.Set("text", ev.Summary)
	params.Set("dates", ev.Start.UTC().Format(utcStamp)+"/"+ev.End.UTC().Format(utcStamp))
	params.Set("details", ev.Details)
	params.Set("ctz", ev.TimeZone)
	return baseURL + "?" + params.Encode()
}

// ParseDates decodes a dates parameter back into its two instants.
func ParseDates(dates string) (start, end time.Time, err error) {
	startStr, endStr, _ := strings.Cut(dates, "/")
	if start, err = time.Parse(utcStamp, startStr); err != nil {
		return start, end, err
	}
	end, err = time.Parse(utcStamp, endStr)
	return start, end, err
}
