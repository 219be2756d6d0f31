package retriever

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocessQuery(t *testing.T) {
	enhanced, terms := PreprocessQuery("Whats the info on maintenance docs")

	assert.Equal(t, "what is the information on maintenance documents", enhanced)
	assert.Equal(t, []string{"what", "information", "maintenance", "documents"}, terms)
}

func TestPreprocessQueryContractionOrder(t *testing.T) {
	// "it's" must expand before the bare "its" rule can mangle it.
	enhanced, _ := PreprocessQuery("it's broken")
	assert.Equal(t, "it is broken", enhanced)
}

func TestPreprocessQueryDropsStopWordsAndShortTokens(t *testing.T) {
	_, terms := PreprocessQuery("is it in an oil tank")
	assert.Equal(t, []string{"oil", "tank"}, terms)
}

func TestPreprocessQueryEmpty(t *testing.T) {
	enhanced, terms := PreprocessQuery("")
	assert.Equal(t, "", enhanced)
	assert.Empty(t, terms)
}
