package retriever

import (
	"fmt"
	"strings"

	"doctrine-rag/internal/models"
)

// FormatContext renders passages as labelled excerpts for the answer
// prompt, so the model can cite "[source, p.N]" verbatim. Pages left unset
// during ingestion are simply not shown.
func FormatContext(passages []models.Passage) string {
	if len(passages) == 0 {
		return ""
	}
	parts := make([]string, 0, len(passages))
	for _, p := range passages {
		displaySource := strings.ReplaceAll(strings.TrimSuffix(p.Source, ".pdf"), "_", " ")
		label := fmt.Sprintf("[%s]", displaySource)
		if p.Page != "" {
			label = fmt.Sprintf("[%s, p.%s]", displaySource, p.Page)
		}
		parts = append(parts, label+"\n"+p.Content)
	}
	return strings.Join(parts, "\n\n")
}
