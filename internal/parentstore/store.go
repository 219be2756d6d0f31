// Package parentstore persists parent chunks in a single relational table
// keyed by parent id. It must survive process restarts; the vector index
// holding the matching children has an independent lifecycle.
package parentstore

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"doctrine-rag/internal/models"
)

// ParentChunk is the bun model for the parent_chunks table.
type ParentChunk struct {
	bun.BaseModel `bun:"table:parent_chunks,alias:pc"`

	ParentID   string `bun:"parent_id,pk"`
	Content    string `bun:"content,notnull"`
	Source     string `bun:"source,notnull"`
	ChunkIndex int    `bun:"chunk_index,notnull"`
	Page       string `bun:"page,default:''"`
}

func (p *ParentChunk) record() models.ParentRecord {
	return models.ParentRecord{
		ParentID:   p.ParentID,
		Content:    p.Content,
		Source:     p.Source,
		ChunkIndex: p.ChunkIndex,
		Page:       p.Page,
	}
}

type Store struct {
	db *bun.DB
}

func New(db *bun.DB) *Store {
	return &Store{db: db}
}

// Init creates the parent_chunks table if it does not exist.
func (s *Store) Init(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*ParentChunk)(nil)).IfNotExists().Exec(ctx)
	if err != nil {
		return fmt.Errorf("creating parent_chunks table: %w", err)
	}
	return nil
}

// Put upserts one parent record. Writing an existing id replaces every
// field, which is what re-ingesting a source relies on.
func (s *Store) Put(ctx context.Context, rec models.ParentRecord) error {
	row := &ParentChunk{
		ParentID:   rec.ParentID,
		Content:    rec.Content,
		Source:     rec.Source,
		ChunkIndex: rec.ChunkIndex,
		Page:       rec.Page,
	}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (parent_id) DO UPDATE").
		Set("content = EXCLUDED.content").
		Set("source = EXCLUDED.source").
		Set("chunk_index = EXCLUDED.chunk_index").
		Set("page = EXCLUDED.page").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("upserting parent %s: %w", rec.ParentID, err)
	}
	return nil
}

// UpdatePage sets only the page field. Updating an absent id is a no-op,
// not an error.
func (s *Store) UpdatePage(ctx context.Context, parentID, page string) error {
	_, err := s.db.NewUpdate().
		Model((*ParentChunk)(nil)).
		Set("page = ?", page).
		Where("parent_id = ?", parentID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("updating page for %s: %w", parentID, err)
	}
	return nil
}

// GetMany looks up records by id, tolerating duplicates and unknown ids:
// the result carries only the records that were found.
func (s *Store) GetMany(ctx context.Context, ids []string) (map[string]models.ParentRecord, error) {
	out := make(map[string]models.ParentRecord, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var rows []ParentChunk
	err := s.db.NewSelect().
		Model(&rows).
		Where("parent_id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching parents: %w", err)
	}
	for i := range rows {
		out[rows[i].ParentID] = rows[i].record()
	}
	return out, nil
}

// ListBySource returns every parent of one source, in chunk order.
func (s *Store) ListBySource(ctx context.Context, source string) ([]models.ParentRecord, error) {
	var rows []ParentChunk
	err := s.db.NewSelect().
		Model(&rows).
		Where("source = ?", source).
		Order("chunk_index ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing parents for %s: %w", source, err)
	}
	recs := make([]models.ParentRecord, len(rows))
	for i := range rows {
		recs[i] = rows[i].record()
	}
	return recs, nil
}

// DeleteBySource removes every parent of one source, used to purge the
// prior generation before a re-ingest.
func (s *Store) DeleteBySource(ctx context.Context, source string) error {
	_, err := s.db.NewDelete().
		Model((*ParentChunk)(nil)).
		Where("source = ?", source).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("deleting parents for %s: %w", source, err)
	}
	return nil
}

// Clear deletes all records.
func (s *Store) Clear(ctx context.Context) error {
	_, err := s.db.NewDelete().
		Model((*ParentChunk)(nil)).
		Where("1 = 1").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("clearing parent store: %w", err)
	}
	return nil
}
