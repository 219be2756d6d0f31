package retriever

import (
	"strings"
)

// Replacement order matters: "it's" must expand before "its".
var expansions = []struct{ short, full string }{
	{"what's", "what is"},
	{"whats", "what is"},
	{"it's", "it is"},
	{"its", "it is"},
	{"dont", "do not"},
	{"can't", "cannot"},
	{"won't", "will not"},
	{"img", "image"},
	{"pic", "picture"},
	{"doc", "document"},
	{"info", "information"},
}

var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "is": {}, "are": {}, "was": {}, "were": {},
	"be": {}, "been": {}, "being": {}, "have": {}, "has": {}, "had": {},
	"do": {}, "does": {}, "did": {}, "will": {}, "would": {}, "could": {},
	"should": {}, "may": {}, "might": {}, "must": {}, "can": {}, "in": {},
	"on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {}, "by": {},
	"from": {}, "about": {}, "into": {}, "through": {}, "during": {},
}

// PreprocessQuery lowercases the query, expands common contractions and
// abbreviations, and extracts the key terms left after stop-word removal.
func PreprocessQuery(query string) (string, []string) {
	enhanced := strings.ToLower(query)
	for _, e := range expansions {
		enhanced = strings.ReplaceAll(enhanced, e.short, e.full)
	}

	var keyTerms []string
	for _, word := range strings.Fields(enhanced) {
		if _, stop := stopWords[word]; stop || len(word) <= 2 {
			continue
		}
		keyTerms = append(keyTerms, word)
	}
	return enhanced, keyTerms
}
