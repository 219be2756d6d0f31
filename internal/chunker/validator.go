package chunker

import (
	"strings"
	"unicode"
)

// Chunks where fewer than this fraction of characters are alphanumeric or
// whitespace are noise: dot-leader tables of contents, OCR debris, symbol
// runs.
const minAlnumFraction = 0.6

// IsValid reports whether a text span carries enough meaningful content to
// index. Spans shorter than minChars after trimming are rejected, as are
// spans dominated by punctuation.
func IsValid(text string, minChars int) bool {
	stripped := []rune(strings.TrimSpace(text))
	if len(stripped) < minChars {
		return false
	}
	meaningful := 0
	for _, r := range stripped {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			meaningful++
		}
	}
	return float64(meaningful) >= float64(len(stripped))*minAlnumFraction
}
