package extract

import (
	"regexp"
	"strings"

	"github.com/rs/zerolog/log"
)

var multiNewline = regexp.MustCompile(`\n{3,}`)

// Lines where more than this fraction of characters are dots are treated
// as table-of-contents leaders and dropped.
const maxDotFraction = 0.3

// CleanText strips extraction noise before chunking: dot-leader TOC lines,
// "intentionally left blank" notices, control characters, and runs of
// blank lines.
func CleanText(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		if stripped == "" {
			cleaned = append(cleaned, "")
			continue
		}

		runes := []rune(stripped)
		if float64(strings.Count(stripped, "."))/float64(len(runes)) > maxDotFraction {
			continue
		}
		if strings.Contains(strings.ToLower(stripped), "intentionally left blank") {
			continue
		}

		var b strings.Builder
		for _, r := range line {
			if r >= 32 || r == '\t' {
				b.WriteRune(r)
			}
		}
		cleaned = append(cleaned, b.String())
	}

	result := multiNewline.ReplaceAllString(strings.Join(cleaned, "\n"), "\n\n")
	if removed := len(text) - len(result); removed > 0 {
		log.Debug().Int("removed_chars", removed).Msg("Cleaned extracted text")
	}
	return result
}
