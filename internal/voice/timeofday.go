package voice

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// TimeOfDay is a validated hour:minute pair.
type TimeOfDay struct {
	Hour   int `json:"hour"`
	Minute int `json:"minute"`
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) valid() bool {
	return t.Hour >= 0 && t.Hour <= 23 && t.Minute >= 0 && t.Minute <= 59
}

// ParseTimeOfDay parses the manual form's "HH:MM" value.
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	h, m, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	hour, errH := strconv.Atoi(h)
	minute, errM := strconv.Atoi(m)
	t := TimeOfDay{Hour: hour, Minute: minute}
	if errH != nil || errM != nil || !t.valid() {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidTime, s)
	}
	return t, nil
}

// Span is a byte range [Start, End) of a normalized transcript.
type Span struct {
	Start int
	End   int
}

// TimeMatch is the outcome of ResolveTime.
type TimeMatch struct {
	TimeOfDay
	Rule string
	Span Span
}

// Locative case markers attached to a number, followed by a non-letter so
// that "15 temmuz" is not read as "15'te".
const locative = `\s*(?:'te|'ta|'de|'da|te|ta|de|da))(?:[^\p{L}]|$)`

// Every pattern captures the marker span as group 1, the hour as group 2 and,
// when present, the minute as group 3.
type timeRule struct {
	name    string
	re      *regexp.Regexp
	minutes func(groups []string) string
}

func capturedMinute(groups []string) string { return groups[3] }
func onTheHour([]string) string             { return "00" }
func halfPast([]string) string              { return "30" }

var timeRules = []timeRule{
	{
		name:    "decimal",
		re:      regexp.MustCompile(`(?:^|\D)((?:saat\s*)?(\d{1,2})\.(\d{2})` + locative),
		minutes: capturedMinute,
	},
	{
		name:    "saat",
		re:      regexp.MustCompile(`(saat\s*(\d{1,2})[:\s]*(\d{2})` + locative),
		minutes: capturedMinute,
	},
	{
		name:    "colon",
		re:      regexp.MustCompile(`(?:^|\D)((?:saat\s*)?(\d{1,2}):(\d{2})` + locative),
		minutes: capturedMinute,
	},
	{
		name:    "hour",
		re:      regexp.MustCompile(`(?:^|\D)((?:saat\s*)?(\d{1,2})` + locative),
		minutes: onTheHour,
	},
	{
		name:    "half-past",
		re:      regexp.MustCompile(`(?:^|\D)((?:saat\s*)?(\d{1,2})\s*buçuk\p{L}*)`),
		minutes: halfPast,
	},
}

// ResolveTime applies the time rules in order; the first in-range match wins.
// A match with an out-of-range hour or minute is skipped and the next rule is
// tried. The minute is always 30 when the transcript says "buçuk".
func ResolveTime(text string) (TimeMatch, bool) {
	halfHour := strings.Contains(text, "buçuk")
	for _, rule := range timeRules {
		loc := rule.re.FindStringSubmatchIndex(text)
		if loc == nil {
			continue
		}
		groups := submatches(text, loc)
		minute := rule.minutes(groups)
		if halfHour {
			minute = "30"
		}
		hour, errH := strconv.Atoi(groups[2])
		mins, errM := strconv.Atoi(minute)
		t := TimeOfDay{Hour: hour, Minute: mins}
		if errH != nil || errM != nil || !t.valid() {
			continue
		}
		return TimeMatch{TimeOfDay: t, Rule: rule.name, Span: Span{Start: loc[2], End: loc[3]}}, true
	}
	return TimeMatch{}, false
}

// submatches turns a FindStringSubmatchIndex result into strings, with ""
// for groups that did not participate.
func submatches(text string, loc []int) []string {
	out := make([]string, len(loc)/2)
	for i := range out {
		if loc[2*i] >= 0 {
			out[i] = text[loc[2*i]:loc[2*i+1]]
		}
	}
	return out
}
