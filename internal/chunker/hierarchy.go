package chunker

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"doctrine-rag/internal/models"
)

// ParentWriter is the slice of the parent store the hierarchy builder
// needs: durable upsert of one parent record.
type ParentWriter interface {
	Put(ctx context.Context, rec models.ParentRecord) error
}

// Hierarchy splits a document into large parent chunks stored durably and
// small child chunks destined for the vector index. Children never cross
// parent boundaries: each parent is split independently.
type Hierarchy struct {
	ParentSize    int
	ParentOverlap int
	ChildSize     int
	ChildOverlap  int
	MinChunkChars int
}

// Build runs one chunking pass over text. Each parent is written to the
// store before its children are produced, so a child can never be indexed
// ahead of its parent within this call. Invalid spans are dropped silently
// on both levels; a store failure aborts the pass.
func (h Hierarchy) Build(ctx context.Context, text, source string, store ParentWriter) ([]models.ChildChunk, error) {
	parents := Split(text, h.ParentSize, h.ParentOverlap)

	var children []models.ChildChunk
	parentCount := 0
	filtered := 0
	for parentIdx, parentText := range parents {
		if !IsValid(parentText, h.MinChunkChars) {
			filtered++
			continue
		}
		parentID := models.ParentID(source, parentIdx)
		rec := models.ParentRecord{
			ParentID:   parentID,
			Content:    parentText,
			Source:     source,
			ChunkIndex: parentIdx,
		}
		if err := store.Put(ctx, rec); err != nil {
			return nil, fmt.Errorf("storing parent %s: %w", parentID, err)
		}
		parentCount++

		for childIdx, childText := range Split(parentText, h.ChildSize, h.ChildOverlap) {
			if !IsValid(childText, h.MinChunkChars) {
				filtered++
				continue
			}
			children = append(children, models.ChildChunk{
				Content:    childText,
				ParentID:   parentID,
				ChildIndex: childIdx,
				Source:     source,
			})
		}
	}

	log.Info().
		Str("source", source).
		Int("parents", parentCount).
		Int("children", len(children)).
		Int("filtered", filtered).
		Msg("Hierarchical chunking complete")
	return children, nil
}
