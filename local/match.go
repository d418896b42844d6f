package local

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// snippetContext is the number of runes kept on each side of the first match.
const snippetContext = 100

type fileMatch struct {
	score   float64
	snippet string
}

// match scores content against query. Invalid UTF-8 is dropped before matching.
// The score is occurrences / content length * 100, capped at 1.0. Both are
// counted in runes after lowercasing, so a 500-rune file with two hits scores 0.4.
func match(content, query string) (fileMatch, bool) {
	content = strings.ToValidUTF8(content, "")
	if content == "" || query == "" {
		return fileMatch{}, false
	}

	runes := []rune(content)
	lowerContent := lowerRunes(runes)
	lowerQuery := string(lowerRunes([]rune(query)))

	first := strings.Index(lowerContent, lowerQuery)
	if first < 0 {
		return fileMatch{}, false
	}
	count := strings.Count(lowerContent, lowerQuery)
	score := min(float64(count)/float64(len(runes))*100, 1.0)

	// Lowercasing rune by rune keeps rune offsets aligned with the original text.
	start := utf8.RuneCountInString(lowerContent[:first])
	from := max(0, start-snippetContext)
	to := min(len(runes), start+utf8.RuneCountInString(query)+snippetContext)

	return fileMatch{score: score, snippet: string(runes[from:to])}, true
}

func lowerRunes(runes []rune) string {
	var b strings.Builder
	b.Grow(len(runes))
	for _, r := range runes {
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
