// Package vectordb adapts a chromem-go collection to the vector index
// contract used by ingestion and retrieval: upsert child chunks, query them
// by similarity, delete by source, clear.
package vectordb

import (
	"context"
	"fmt"
	"runtime"
	"strconv"

	"github.com/google/uuid"
	"github.com/philippgille/chromem-go"

	"doctrine-rag/internal/models"
)

const compress = false

type Store struct {
	db         *chromem.DB
	collection *chromem.Collection
	name       string
	embed      chromem.EmbeddingFunc
}

// New opens (or creates) the collection. With inMemory set the index lives
// only for the process lifetime, which the tests rely on.
func New(path, collectionName string, inMemory bool, embed chromem.EmbeddingFunc) (*Store, error) {
	var cdb *chromem.DB
	var err error
	if inMemory {
		cdb = chromem.NewDB()
	} else {
		cdb, err = chromem.NewPersistentDB(path, compress)
		if err != nil {
			return nil, fmt.Errorf("opening vector db at %s: %w", path, err)
		}
	}
	collection, err := cdb.GetOrCreateCollection(collectionName, nil, embed)
	if err != nil {
		return nil, fmt.Errorf("creating collection %s: %w", collectionName, err)
	}
	return &Store{db: cdb, collection: collection, name: collectionName, embed: embed}, nil
}

// Upsert embeds and indexes child chunks. Chunk metadata rides along as the
// collection's string metadata so queries can rebuild the records.
func (s *Store) Upsert(ctx context.Context, children []models.ChildChunk) error {
	if len(children) == 0 {
		return nil
	}
	docs := make([]chromem.Document, 0, len(children))
	for _, child := range children {
		docs = append(docs, chromem.Document{
			ID:      uuid.NewString(),
			Content: child.Content,
			Metadata: map[string]string{
				"source":      child.Source,
				"parent_id":   child.ParentID,
				"child_index": strconv.Itoa(child.ChildIndex),
				"chunk_type":  models.ChunkTypeChild,
				"page":        child.Page,
				"is_kb":       strconv.FormatBool(child.IsKB),
			},
		})
	}
	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("adding documents: %w", err)
	}
	return nil
}

// Query returns up to k children ranked by similarity, scores in [0,1].
// k is clamped to the collection size; chromem rejects asking for more.
func (s *Store) Query(ctx context.Context, text string, k int) ([]models.ChildChunk, error) {
	count := s.collection.Count()
	if count == 0 || k <= 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}
	results, err := s.collection.Query(ctx, text, k, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("querying collection: %w", err)
	}
	children := make([]models.ChildChunk, 0, len(results))
	for _, res := range results {
		childIdx, _ := strconv.Atoi(res.Metadata["child_index"])
		isKB, _ := strconv.ParseBool(res.Metadata["is_kb"])
		children = append(children, models.ChildChunk{
			Content:        res.Content,
			ParentID:       res.Metadata["parent_id"],
			ChildIndex:     childIdx,
			Source:         res.Metadata["source"],
			Page:           res.Metadata["page"],
			IsKB:           isKB,
			RelevanceScore: res.Similarity,
		})
	}
	return children, nil
}

// DeleteSource removes every child of one source, used to purge the prior
// generation before a re-ingest.
func (s *Store) DeleteSource(ctx context.Context, source string) error {
	err := s.collection.Delete(ctx, map[string]string{"source": source}, nil)
	if err != nil {
		return fmt.Errorf("deleting children for %s: %w", source, err)
	}
	return nil
}

// Clear drops and recreates the collection.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.db.DeleteCollection(s.name); err != nil {
		return fmt.Errorf("dropping collection %s: %w", s.name, err)
	}
	collection, err := s.db.GetOrCreateCollection(s.name, nil, s.embed)
	if err != nil {
		return fmt.Errorf("recreating collection %s: %w", s.name, err)
	}
	s.collection = collection
	return nil
}
