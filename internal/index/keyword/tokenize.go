package keyword

import "strings"

// stopwords covers common English and Indonesian function words. The corpus
// mixes both languages.
var stopwords = map[string]bool{
	// English
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "by": true, "for": true, "from": true, "has": true, "he": true,
	"in": true, "is": true, "it": true, "its": true, "of": true, "on": true,
	"or": true, "that": true, "the": true, "to": true, "was": true, "were": true,
	"will": true, "with": true,
	// Indonesian
	"dan": true, "di": true, "ke": true, "dari": true, "yang": true,
	"untuk": true, "pada": true, "dengan": true, "ini": true, "itu": true,
	"atau": true, "juga": true, "adalah": true, "dalam": true, "tidak": true,
}

// tokenize lowercases, splits on non-alphanumeric runes, and drops stopwords
// and single-character tokens.
func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !isAlphanumeric(r)
	})
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) < 2 || stopwords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

func isAlphanumeric(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r >= 'A' && r <= 'Z'
}
