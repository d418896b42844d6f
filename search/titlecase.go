package search

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCase capitalizes every run of letters and lowercases the rest of the run,
// so "github" becomes "Github" and "stack_overflow" becomes "Stack_Overflow".
// Non-letters separate runs and pass through unchanged.
func titleCase(s string) string {
	// A Caser is stateful; one per call.
	caser := cases.Title(language.Und)

	var b strings.Builder
	b.Grow(len(s))
	run := strings.Builder{}
	flush := func() {
		if run.Len() > 0 {
			b.WriteString(caser.String(run.String()))
			run.Reset()
		}
	}
	for _, r := range s {
		if unicode.IsLetter(r) {
			run.WriteRune(r)
			continue
		}
		flush()
		b.WriteRune(r)
	}
	flush()
	return b.String()
}
