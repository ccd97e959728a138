package voice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

type DateKind int

const (
	DateToday DateKind = iota
	DateTomorrow
	DateWeekday
	DateCalendar
)

func (k DateKind) String() string {
	switch k {
	case DateToday:
		return "today"
	case DateTomorrow:
		return "tomorrow"
	case DateWeekday:
		return "weekday"
	case DateCalendar:
		return "calendar"
	default:
		return "unknown"
	}
}

// DateToken is a date as spoken: relative keywords stay relative until On is
// called with the current day, so voice and manual input resolve through the
// same arithmetic.
type DateToken struct {
	Kind    DateKind
	Raw     string
	Weekday time.Weekday
	// Year is 0 when the transcript named only a day and month.
	Year  int
	Month time.Month
	Day   int
	// Implicit marks a today-token inferred from a time without a date.
	Implicit bool
}

func (d DateToken) String() string { return d.Raw }

// On resolves the token against today (midnight, Istanbul) and returns the
// concrete day at midnight in today's location.
func (d DateToken) On(today time.Time) time.Time {
	y, m, day := today.Date()
	base := time.Date(y, m, day, 0, 0, 0, 0, today.Location())
	switch d.Kind {
	case DateTomorrow:
		return base.AddDate(0, 0, 1)
	case DateWeekday:
		return base.AddDate(0, 0, daysUntil(base.Weekday(), d.Weekday))
	case DateCalendar:
		if d.Year != 0 {
			return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, today.Location())
		}
		// The first year, starting now, in which the day exists and is not past.
		for year := y; year <= y+8; year++ {
			t := time.Date(year, d.Month, d.Day, 0, 0, 0, 0, today.Location())
			if t.Day() == d.Day && !t.Before(base) {
				return t
			}
		}
		return base
	default:
		return base
	}
}

// daysUntil is the distance to the next occurrence of target strictly after
// from; the same weekday is a full week away.
func daysUntil(from, target time.Weekday) int {
	n := (int(target) - int(from) + 7) % 7
	if n == 0 {
		return 7
	}
	return n
}

var weekdays = []struct {
	name string
	day  time.Weekday
}{
	{"pazartesi", time.Monday},
	{"salı", time.Tuesday},
	{"çarşamba", time.Wednesday},
	{"perşembe", time.Thursday},
	{"cumartesi", time.Saturday},
	{"cuma", time.Friday},
	{"pazar", time.Sunday},
}

var months = []struct {
	name  string
	month time.Month
}{
	{"ocak", time.January},
	{"şubat", time.February},
	{"mart", time.March},
	{"nisan", time.April},
	{"mayıs", time.May},
	{"haziran", time.June},
	{"temmuz", time.July},
	{"ağustos", time.August},
	{"eylül", time.September},
	{"ekim", time.October},
	{"kasım", time.November},
	{"aralık", time.December},
}

func weekdayNamed(name string) (time.Weekday, bool) {
	for _, w := range weekdays {
		if w.name == name {
			return w.day, true
		}
	}
	return 0, false
}

func monthNamed(name string) (time.Month, bool) {
	for _, m := range months {
		if m.name == name {
			return m.month, true
		}
	}
	return 0, false
}

// DateMatch is the outcome of ResolveDate.
type DateMatch struct {
	DateToken
	Rule string
	Span Span
}

// Group 1 of every pattern is the marker span; value groups follow.
type dateRule struct {
	name  string
	re    *regexp.Regexp
	build func(groups []string) (DateToken, bool)
}

const wordStart = `(?:^|[^\p{L}])`

func alternation(names []string) string {
	return "(?:" + strings.Join(names, "|") + ")"
}

func weekdayNames() []string {
	out := make([]string, len(weekdays))
	for i, w := range weekdays {
		out[i] = w.name
	}
	return out
}

func monthNames() []string {
	out := make([]string, len(months))
	for i, m := range months {
		out[i] = m.name
	}
	return out
}

var dateRules = []dateRule{
	{
		name: "yarın",
		re:   regexp.MustCompile(wordStart + `(yarın)`),
		build: func([]string) (DateToken, bool) {
			return DateToken{Kind: DateTomorrow, Raw: "yarın"}, true
		},
	},
	{
		name: "bugün",
		re:   regexp.MustCompile(wordStart + `(bugün)`),
		build: func([]string) (DateToken, bool) {
			return DateToken{Kind: DateToday, Raw: "bugün"}, true
		},
	},
	{
		name: "weekday",
		re:   regexp.MustCompile(wordStart + `(` + alternation(weekdayNames()) + `)`),
		build: func(g []string) (DateToken, bool) {
			day, ok := weekdayNamed(g[1])
			return DateToken{Kind: DateWeekday, Raw: g[1], Weekday: day}, ok
		},
	},
	{
		name: "day-month",
		re:   regexp.MustCompile(`(?:^|\D)((\d{1,2})\s+(` + alternation(monthNames()) + `)(?:\s+(\d{4}))?)`),
		build: func(g []string) (DateToken, bool) {
			month, ok := monthNamed(g[3])
			if !ok {
				return DateToken{}, false
			}
			return calendarToken(g[1], g[4], strconv.Itoa(int(month)), g[2])
		},
	},
	{
		name: "slash",
		re:   regexp.MustCompile(`(?:^|\D)((\d{1,2})/(\d{1,2})/(\d{4}))`),
		build: func(g []string) (DateToken, bool) {
			return calendarToken(g[1], g[4], g[3], g[2])
		},
	},
	{
		name: "dot",
		re:   regexp.MustCompile(`(?:^|\D)((\d{1,2})\.(\d{1,2})\.(\d{4}))`),
		build: func(g []string) (DateToken, bool) {
			return calendarToken(g[1], g[4], g[3], g[2])
		},
	},
}

// calendarToken validates a day/month(/year) triple. A yearless token is
// checked against a leap year so that "29 şubat" survives until On.
func calendarToken(raw, year, month, day string) (DateToken, bool) {
	d, errD := strconv.Atoi(day)
	m, errM := strconv.Atoi(month)
	if errD != nil || errM != nil || m < 1 || m > 12 || d < 1 {
		return DateToken{}, false
	}
	y := 0
	if year != "" {
		var err error
		if y, err = strconv.Atoi(year); err != nil {
			return DateToken{}, false
		}
	}
	checkYear := y
	if checkYear == 0 {
		checkYear = 2024
	}
	if time.Date(checkYear, time.Month(m), d, 0, 0, 0, 0, time.UTC).Day() != d {
		return DateToken{}, false
	}
	return DateToken{Kind: DateCalendar, Raw: raw, Year: y, Month: time.Month(m), Day: d}, true
}

// ResolveDate applies the date rules in order; the first valid match wins.
// Impossible calendar dates are skipped like out-of-range times.
func ResolveDate(text string) (DateMatch, bool) {
	for _, rule := range dateRules {
		loc := rule.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		token, ok := rule.build(submatches(text, loc))
		if !ok {
			continue
		}
		return DateMatch{DateToken: token, Rule: rule.name, Span: Span{Start: loc[2], End: loc[3]}}, true
	}
	return DateMatch{}, false
}

// ParseISODate parses the manual form's "YYYY-MM-DD" value.
func ParseISODate(s string) (DateToken, error) {
	s = strings.TrimSpace(s)
	t, err := time.ParseInLocation("2006-01-02", s, Istanbul)
	if err != nil {
		return DateToken{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateToken{Kind: DateCalendar, Raw: s, Year: t.Year(), Month: t.Month(), Day: t.Day()}, nil
}

// todayToken stands in for a missing date when a time was spoken.
func todayToken() DateToken {
	return DateToken{Kind: DateToday, Raw: "bugün", Implicit: true}
}
