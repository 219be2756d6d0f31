package retriever

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"doctrine-rag/internal/models"
)

// VectorIndex is the external similarity-search contract. Scores are in
// [0,1]; retries and backoff belong behind this interface, not here.
type VectorIndex interface {
	Query(ctx context.Context, text string, k int) ([]models.ChildChunk, error)
}

// Search queries the vector index and discards hits scoring below
// minScore, preserving rank order. An empty query yields no results.
func Search(ctx context.Context, index VectorIndex, query string, k int, minScore float32) ([]models.ChildChunk, error) {
	if strings.TrimSpace(query) == "" {
		return nil, nil
	}
	results, err := index.Query(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("vector query: %w", err)
	}
	filtered := make([]models.ChildChunk, 0, len(results))
	for _, child := range results {
		if child.RelevanceScore >= minScore {
			filtered = append(filtered, child)
			continue
		}
		log.Debug().
			Float32("score", child.RelevanceScore).
			Float32("min_score", minScore).
			Str("parent_id", child.ParentID).
			Msg("Filtered low-relevance chunk")
	}
	log.Info().
		Int("results", len(results)).
		Int("kept", len(filtered)).
		Float32("min_score", minScore).
		Msg("Similarity search complete")
	return filtered, nil
}
