package retriever

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctrine-rag/internal/models"
)

type fakeIndex struct {
	results []models.ChildChunk
	err     error
	queried bool
	k       int
}

func (f *fakeIndex) Query(_ context.Context, _ string, k int) ([]models.ChildChunk, error) {
	f.queried = true
	f.k = k
	return f.results, f.err
}

func TestSearchFiltersLowScores(t *testing.T) {
	index := &fakeIndex{results: []models.ChildChunk{
		{Content: "best", RelevanceScore: 0.92},
		{Content: "borderline", RelevanceScore: 0.5},
		{Content: "noise", RelevanceScore: 0.31},
	}}

	got, err := Search(context.Background(), index, "hydraulic pump", 5, 0.5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "best", got[0].Content)
	assert.Equal(t, "borderline", got[1].Content, "threshold is inclusive and rank order is kept")
	assert.Equal(t, 5, index.k)
}

func TestSearchEmptyQuery(t *testing.T) {
	index := &fakeIndex{}

	got, err := Search(context.Background(), index, "   ", 5, 0.5)
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.False(t, index.queried, "blank queries never reach the index")
}

func TestSearchIndexFailure(t *testing.T) {
	index := &fakeIndex{err: errors.New("collection unavailable")}

	_, err := Search(context.Background(), index, "pump", 5, 0.5)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vector query")
}

func TestSearchNoResults(t *testing.T) {
	index := &fakeIndex{}
	got, err := Search(context.Background(), index, "pump", 5, 0.5)
	require.NoError(t, err)
	assert.Empty(t, got)
}
