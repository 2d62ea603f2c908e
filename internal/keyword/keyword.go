// Package keyword tokenizes free-text questions into search terms.
package keyword

import "strings"

// Common English function words plus diary-domain fillers that carry no
// search value ("pay", "kept", "tell" show up in nearly every question).
var stopwords = map[string]struct{}{
	"where": {}, "when": {}, "what": {}, "how": {}, "why": {},
	"did": {}, "do": {}, "does": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"i": {}, "my": {}, "the": {}, "a": {}, "an": {}, "to": {}, "for": {},
	"of": {}, "in": {}, "on": {}, "at": {}, "last": {},
	"pay": {}, "paid": {}, "keep": {}, "kept": {}, "put": {},
	"about": {}, "tell": {}, "me": {},
}

// Extract lower-cases the question, maps every non-alphanumeric rune to a
// separator and returns the remaining tokens with stop-words removed.
// An empty or all-stop-word question yields an empty slice; callers must
// treat that as "no searchable terms", not as "match everything".
func Extract(question string) []string {
	var b strings.Builder
	b.Grow(len(question))
	for _, r := range strings.ToLower(question) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte(' ')
		}
	}

	words := strings.Fields(b.String())
	keywords := make([]string, 0, len(words))
	for _, w := range words {
		if _, skip := stopwords[w]; !skip {
			keywords = append(keywords, w)
		}
	}
	return keywords
}
