package voice

import (
	"regexp"
	"sort"
	"strings"
)

// marker replaces the located date and time expressions before the task
// patterns run, so a task is bracketed by words and markers alike.
const marker = "\x1f"

type taskRule struct {
	name string
	re   *regexp.Regexp
}

// Most specific first: delimited on both sides, then on one side only.
var taskRules = []taskRule{
	{"beni-için-hatırlat", regexp.MustCompile(`(?:^|\s)beni\s+(.+?)\s+(?:için|diye)[\s\x1f]+hatırlat`)},
	{"beni-hatırlat", regexp.MustCompile(`(?:^|\s)beni\s+(.+?)[\s\x1f]+hatırlat`)},
	{"için-hatırlat", regexp.MustCompile(`^(.+?)\s+(?:için|diye)[\s\x1f]+hatırlat`)},
	{"hatırlat-sonrası", regexp.MustCompile(`hatırlat\p{L}*[\s\x1f]+(.+)$`)},
	{"beni-sonrası", regexp.MustCompile(`(?:^|\s)beni\s+(.+)$`)},
	{"işaret-sonrası", regexp.MustCompile(`\x1f([^\x1f]+)$`)},
	{"işaret-öncesi", regexp.MustCompile(`^([^\x1f]+)\x1f`)},
}

// ResolveTask extracts the task description from a normalized transcript.
// markers are the spans of the date and time expressions already located.
func ResolveTask(text string, markers ...Span) (string, bool) {
	masked := mask(text, markers)
	for _, rule := range taskRules {
		m := rule.re.FindStringSubmatch(masked)
		if m == nil {
			continue
		}
		if task := cleanTask(m[1]); task != "" {
			return task, true
		}
	}
	return "", false
}

// mask replaces each span with a marker. Overlapping spans are merged and
// invalid ones ignored.
func mask(text string, spans []Span) string {
	valid := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Start >= 0 && s.End <= len(text) && s.Start < s.End {
			valid = append(valid, s)
		}
	}
	if len(valid) == 0 {
		return text
	}
	sort.Slice(valid, func(i, j int) bool { return valid[i].Start < valid[j].Start })

	var b strings.Builder
	pos := 0
	for _, s := range valid {
		if s.End <= pos {
			continue
		}
		if s.Start > pos {
			b.WriteString(text[pos:s.Start])
		}
		b.WriteString(" " + marker + " ")
		pos = s.End
	}
	b.WriteString(text[pos:])
	return b.String()
}

const punctuation = " .,;:!?\"'"

var (
	triggerWord  = regexp.MustCompile(`^hatırlat\p{L}*$`)
	questionWord = regexp.MustCompile(`^m[ıiuü](?:s[ıiuü]n(?:[ıiuü]z)?|y[ıiuü]m|y[ıiuü]z)?$`)
)

// cleanTask drops markers, the trigger verb and a trailing question particle.
// A candidate left with nothing but "beni" or "bana" is no task.
func cleanTask(s string) string {
	s = strings.ReplaceAll(s, marker, " ")
	words := make([]string, 0, 8)
	for _, w := range strings.Fields(s) {
		if !triggerWord.MatchString(strings.Trim(w, punctuation)) {
			words = append(words, w)
		}
	}
	for len(words) > 0 && questionWord.MatchString(strings.Trim(words[len(words)-1], punctuation)) {
		words = words[:len(words)-1]
	}
	addressed := true
	for _, w := range words {
		if bare := strings.Trim(w, punctuation); bare != "beni" && bare != "bana" && bare != "" {
			addressed = false
			break
		}
	}
	if addressed {
		return ""
	}
	return strings.Trim(strings.Join(words, " "), punctuation)
}
