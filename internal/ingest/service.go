// Package ingest runs the two-tier ingestion saga: parent chunks are made
// durable first, then the matching children go to the vector index. The
// two stores have independent lifecycles; there is no transaction spanning
// them. A crash between the steps leaves either orphaned parents (never
// referenced, harmless) or children pointing at a missing parent, which
// the resolver omits at query time.
package ingest

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"doctrine-rag/internal/chunker"
	"doctrine-rag/internal/config"
	"doctrine-rag/internal/extract"
	"doctrine-rag/internal/models"
	"doctrine-rag/internal/pages"
)

// ParentStore is the durable store for parent records.
type ParentStore interface {
	Put(ctx context.Context, rec models.ParentRecord) error
	UpdatePage(ctx context.Context, parentID, page string) error
	ListBySource(ctx context.Context, source string) ([]models.ParentRecord, error)
	DeleteBySource(ctx context.Context, source string) error
	Clear(ctx context.Context) error
}

// VectorIndex is the external collaborator holding child chunks.
type VectorIndex interface {
	Upsert(ctx context.Context, children []models.ChildChunk) error
	DeleteSource(ctx context.Context, source string) error
	Clear(ctx context.Context) error
}

type Service struct {
	store ParentStore
	index VectorIndex
	cfg   *config.Config
}

func New(store ParentStore, index VectorIndex, cfg *config.Config) *Service {
	return &Service{store: store, index: index, cfg: cfg}
}

// Result summarizes one ingestion.
type Result struct {
	Chunks     int `json:"chunks"`
	TextLength int `json:"text_length"`
}

// Ingest cleans, chunks, annotates, and indexes one document. Re-ingesting
// a source purges its prior generation from both tiers first, so stale
// parent indices cannot outlive the split that produced them. Within one
// call, parent writes complete before any child reaches the vector index.
func (s *Service) Ingest(ctx context.Context, doc models.Document, table []models.Breakpoint) (Result, error) {
	raw := extract.CleanText(doc.Content)
	if len([]rune(strings.TrimSpace(raw))) < s.cfg.RAG.MinDocumentChars {
		return Result{}, fmt.Errorf("document %s: text too short (< %d chars)", doc.Filename, s.cfg.RAG.MinDocumentChars)
	}

	if err := s.store.DeleteBySource(ctx, doc.Filename); err != nil {
		return Result{}, fmt.Errorf("purging parents for %s: %w", doc.Filename, err)
	}
	if err := s.index.DeleteSource(ctx, doc.Filename); err != nil {
		return Result{}, fmt.Errorf("purging children for %s: %w", doc.Filename, err)
	}

	h := chunker.Hierarchy{
		ParentSize:    s.cfg.RAG.ParentChunkSize,
		ParentOverlap: s.cfg.RAG.ParentChunkOverlap,
		ChildSize:     s.cfg.RAG.ChildChunkSize,
		ChildOverlap:  s.cfg.RAG.ChildChunkOverlap,
		MinChunkChars: s.cfg.RAG.MinChunkChars,
	}
	children, err := h.Build(ctx, raw, doc.Filename, s.store)
	if err != nil {
		return Result{}, err
	}
	if len(children) == 0 {
		return Result{}, fmt.Errorf("document %s: no valid chunks produced", doc.Filename)
	}

	if len(table) > 0 {
		pages.AnnotateChildren(children, raw, table)
		if err := pages.UpdateParentPages(ctx, s.store, raw, table, doc.Filename); err != nil {
			return Result{}, err
		}
	}

	for i := range children {
		children[i].IsKB = doc.IsKB
	}

	if err := s.index.Upsert(ctx, children); err != nil {
		return Result{}, fmt.Errorf("indexing children for %s: %w", doc.Filename, err)
	}

	log.Info().
		Str("source", doc.Filename).
		Int("chunks", len(children)).
		Bool("is_kb", doc.IsKB).
		Msg("Document indexed")
	return Result{Chunks: len(children), TextLength: len(raw)}, nil
}

// DeleteAll clears both tiers.
func (s *Service) DeleteAll(ctx context.Context) error {
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing parent store: %w", err)
	}
	if err := s.index.Clear(ctx); err != nil {
		return fmt.Errorf("clearing vector index: %w", err)
	}
	log.Info().Msg("All documents deleted")
	return nil
}
