// Package retriever turns ranked child hits from the vector index into
// deduplicated, citation-ready parent passages.
package retriever

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"

	"doctrine-rag/internal/models"
)

// ParentGetter is the slice of the parent store the resolver needs.
type ParentGetter interface {
	GetMany(ctx context.Context, ids []string) (map[string]models.ParentRecord, error)
}

// ResolveParents walks ranked children in score order, deduplicates their
// parent ids in first-seen order (a parent's position is fixed by its
// highest-ranked child), bulk-fetches the parents, and emits one passage
// per parent found. A parent referenced by a child but missing from the
// store is logged and omitted; the query never fails for it. Children
// without parent ids at all (legacy data) come back verbatim.
func ResolveParents(ctx context.Context, children []models.ChildChunk, store ParentGetter) ([]models.Passage, error) {
	var seen []string
	for _, child := range children {
		if child.ParentID == "" || slices.Contains(seen, child.ParentID) {
			continue
		}
		seen = append(seen, child.ParentID)
	}

	if len(seen) == 0 {
		passages := make([]models.Passage, 0, len(children))
		for _, child := range children {
			passages = append(passages, models.Passage{
				Content:        child.Content,
				Source:         child.Source,
				ChunkIndex:     child.ChildIndex,
				Page:           child.Page,
				ChunkType:      models.ChunkTypeChild,
				RelevanceScore: child.RelevanceScore,
			})
		}
		return passages, nil
	}

	parents, err := store.GetMany(ctx, seen)
	if err != nil {
		return nil, fmt.Errorf("fetching parents: %w", err)
	}

	passages := make([]models.Passage, 0, len(seen))
	for _, parentID := range seen {
		rec, ok := parents[parentID]
		if !ok {
			log.Warn().Str("parent_id", parentID).Msg("Child references a parent missing from the store")
			continue
		}
		passages = append(passages, models.Passage{
			Content:    rec.Content,
			Source:     rec.Source,
			ParentID:   parentID,
			ChunkIndex: rec.ChunkIndex,
			Page:       rec.Page,
			ChunkType:  models.ChunkTypeParent,
		})
	}

	log.Info().
		Int("children", len(children)).
		Int("parents", len(passages)).
		Msg("Resolved children to unique parents")
	return passages, nil
}
