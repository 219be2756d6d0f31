package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"doctrine-rag/internal/models"
)

func TestFormatContext(t *testing.T) {
	passages := []models.Passage{
		{Content: "First passage.", Source: "field_manual.pdf", Page: "3"},
		{Content: "Second passage.", Source: "notes.txt"},
	}

	got := FormatContext(passages)
	want := "[field manual, p.3]\nFirst passage.\n\n[notes.txt]\nSecond passage."
	assert.Equal(t, want, got)
}

func TestFormatContextEmpty(t *testing.T) {
	assert.Equal(t, "", FormatContext(nil))
}
