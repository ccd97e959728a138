package voice

import (
	"strings"
	"time"
)

// Reminder is a fully resolved reminder. Values are only produced by
// Assemble, ParseReminder and ManualReminder, never partially filled.
type Reminder struct {
	Task  string
	Date  DateToken
	Time  TimeOfDay
	Notes string
}

// Day is the concrete calendar day of the reminder as seen at now.
func (r Reminder) Day(now time.Time) time.Time {
	return r.Date.On(Today(now))
}

// Start is the reminder's instant in Istanbul as seen at now.
func (r Reminder) Start(now time.Time) time.Time {
	d := r.Day(now)
	return time.Date(d.Year(), d.Month(), d.Day(), r.Time.Hour, r.Time.Minute, 0, 0, Istanbul)
}

// Assemble builds a Reminder from resolver outputs. A nil date or time and an
// empty task are reported together in one *IncompleteReminderError.
func Assemble(task string, date *DateToken, at *TimeOfDay, notes string) (Reminder, error) {
	task = strings.TrimSpace(task)
	var missing []string
	if task == "" {
		missing = append(missing, FieldTask)
	}
	if date == nil {
		missing = append(missing, FieldDate)
	}
	if at == nil {
		missing = append(missing, FieldTime)
	}
	if len(missing) > 0 {
		return Reminder{}, &IncompleteReminderError{MissingFields: missing, Example: UsageExample}
	}
	return Reminder{
		Task:  task,
		Date:  *date,
		Time:  *at,
		Notes: strings.TrimSpace(notes),
	}, nil
}

// ParseReminder runs a finalized transcript through the normalizer, the
// time, date and task resolvers and the assembler. When a time is found
// without a date, the reminder is for today.
func ParseReminder(transcript, notes string) (Reminder, error) {
	text, err := Normalize(transcript)
	if err != nil {
		return Reminder{}, err
	}

	var (
		date    *DateToken
		at      *TimeOfDay
		markers []Span
	)
	if tm, ok := ResolveTime(text); ok {
		at = &tm.TimeOfDay
		markers = append(markers, tm.Span)
	}
	if dm, ok := ResolveDate(text); ok {
		date = &dm.DateToken
		markers = append(markers, dm.Span)
	} else if at != nil {
		t := todayToken()
		date = &t
	}
	task, _ := ResolveTask(text, markers...)

	return Assemble(task, date, at, notes)
}

// ManualReminder validates already-structured form input: task, an ISO date
// and an "HH:MM" time. Empty fields are reported like ParseReminder does;
// a day before today (Istanbul) is rejected with ErrPastDate.
func ManualReminder(task, date, clock, notes string, now time.Time) (Reminder, error) {
	var (
		dt *DateToken
		at *TimeOfDay
	)
	if strings.TrimSpace(date) != "" {
		d, err := ParseISODate(date)
		if err != nil {
			return Reminder{}, err
		}
		if d.On(Today(now)).Before(Today(now)) {
			return Reminder{}, ErrPastDate
		}
		dt = &d
	}
	if strings.TrimSpace(clock) != "" {
		t, err := ParseTimeOfDay(clock)
		if err != nil {
			return Reminder{}, err
		}
		at = &t
	}
	return Assemble(task, dt, at, notes)
}
