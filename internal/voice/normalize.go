package voice

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var apostrophes = strings.NewReplacer("’", "'", "‘", "'", "`", "'", "´", "'")

// Normalize lower-cases a raw transcript with Turkish casing rules (İ→i, I→ı),
// unifies apostrophes and collapses whitespace.
func Normalize(raw string) (string, error) {
	// cases.Caser is stateful, so a fresh one per call.
	lowered := cases.Lower(language.Turkish).String(raw)
	lowered = apostrophes.Replace(lowered)
	text := strings.Join(strings.Fields(lowered), " ")
	if text == "" {
		return "", ErrEmptyTranscript
	}
	return text, nil
}
