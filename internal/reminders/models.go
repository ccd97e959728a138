package reminders

import "time"

type Source string

const (
	SourceVoice  Source = "voice"
	SourceManual Source = "manual"
)

// Reminder is a stored reminder together with the calendar link built for it.
type Reminder struct {
	ID          string    `json:"id"`
	Task        string    `json:"task"`
	DateKind    string    `json:"date_kind"`
	DateRaw     string    `json:"date_raw"`
	Day         string    `json:"day"`
	Time        string    `json:"time"`
	Notes       string    `json:"notes,omitempty"`
	Source      Source    `json:"source"`
	StartsAt    time.Time `json:"starts_at"`
	CalendarURL string    `json:"calendar_url"`
	CreatedAt   time.Time `json:"created_at"`
}
