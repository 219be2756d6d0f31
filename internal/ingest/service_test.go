package ingest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"doctrine-rag/internal/config"
	"doctrine-rag/internal/models"
)

type fakeStore struct {
	events *[]string
	recs   map[string]models.ParentRecord
}

func (f *fakeStore) Put(_ context.Context, rec models.ParentRecord) error {
	*f.events = append(*f.events, "store.put")
	f.recs[rec.ParentID] = rec
	return nil
}

func (f *fakeStore) UpdatePage(_ context.Context, parentID, page string) error {
	*f.events = append(*f.events, "store.update_page")
	rec := f.recs[parentID]
	rec.Page = page
	f.recs[parentID] = rec
	return nil
}

func (f *fakeStore) ListBySource(_ context.Context, source string) ([]models.ParentRecord, error) {
	var out []models.ParentRecord
	for _, rec := range f.recs {
		if rec.Source == source {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (f *fakeStore) DeleteBySource(_ context.Context, source string) error {
	*f.events = append(*f.events, "store.delete_source")
	for id, rec := range f.recs {
		if rec.Source == source {
			delete(f.recs, id)
		}
	}
	return nil
}

func (f *fakeStore) Clear(_ context.Context) error {
	*f.events = append(*f.events, "store.clear")
	f.recs = map[string]models.ParentRecord{}
	return nil
}

type fakeIndex struct {
	events    *[]string
	children  []models.ChildChunk
	upsertErr error
}

func (f *fakeIndex) Upsert(_ context.Context, children []models.ChildChunk) error {
	*f.events = append(*f.events, "index.upsert")
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.children = children
	return nil
}

func (f *fakeIndex) DeleteSource(_ context.Context, _ string) error {
	*f.events = append(*f.events, "index.delete_source")
	return nil
}

func (f *fakeIndex) Clear(_ context.Context) error {
	*f.events = append(*f.events, "index.clear")
	return nil
}

func newFixture() (*Service, *fakeStore, *fakeIndex, *[]string) {
	events := &[]string{}
	store := &fakeStore{events: events, recs: map[string]models.ParentRecord{}}
	index := &fakeIndex{events: events}
	return New(store, index, config.Default()), store, index, events
}

func sampleDoc(isKB bool) models.Document {
	var b strings.Builder
	for i := 0; i < 75; i++ {
		fmt.Fprintf(&b, "Sentence %03d notes a maintenance item. ", i)
	}
	return models.Document{
		Filename:  "manual.pdf",
		Content:   b.String(),
		Timestamp: time.Now(),
		IsKB:      isKB,
	}
}

func TestIngestHappyPath(t *testing.T) {
	svc, store, index, events := newFixture()

	result, err := svc.Ingest(context.Background(), sampleDoc(false), nil)
	require.NoError(t, err)
	assert.Equal(t, len(index.children), result.Chunks)
	require.NotEmpty(t, index.children)
	require.NotEmpty(t, store.recs)

	// Every indexed child must point at a parent that was stored first.
	for _, child := range index.children {
		_, ok := store.recs[child.ParentID]
		assert.True(t, ok, "child indexed without a durable parent: %s", child.ParentID)
	}

	// Both tiers are purged before any write, and all parent writes land
	// before the children reach the vector index.
	evts := *events
	require.GreaterOrEqual(t, len(evts), 4)
	assert.Equal(t, "store.delete_source", evts[0])
	assert.Equal(t, "index.delete_source", evts[1])
	assert.Equal(t, "index.upsert", evts[len(evts)-1])
	for _, e := range evts[2 : len(evts)-1] {
		assert.Equal(t, "store.put", e)
	}
}

func TestIngestMarksKnowledgeBaseChunks(t *testing.T) {
	svc, _, index, _ := newFixture()

	_, err := svc.Ingest(context.Background(), sampleDoc(true), nil)
	require.NoError(t, err)
	for _, child := range index.children {
		assert.True(t, child.IsKB)
	}
}

func TestIngestAnnotatesPages(t *testing.T) {
	svc, store, index, _ := newFixture()
	doc := sampleDoc(false)
	table := []models.Breakpoint{{Offset: 0, Page: 1}, {Offset: 1500, Page: 2}}

	_, err := svc.Ingest(context.Background(), doc, table)
	require.NoError(t, err)

	for _, child := range index.children {
		assert.NotEmpty(t, child.Page, "locatable children carry a page")
	}
	for _, rec := range store.recs {
		assert.NotEmpty(t, rec.Page)
	}
}

func TestIngestTooShort(t *testing.T) {
	svc, _, index, _ := newFixture()
	doc := models.Document{Filename: "stub.txt", Content: "tiny"}

	_, err := svc.Ingest(context.Background(), doc, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too short")
	assert.Empty(t, index.children)
}

func TestIngestIndexFailureLeavesParentsDurable(t *testing.T) {
	svc, store, index, _ := newFixture()
	index.upsertErr = errors.New("embedder unreachable")

	_, err := svc.Ingest(context.Background(), sampleDoc(false), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "indexing children")
	// The saga has no rollback: parents written in step one stay put.
	assert.NotEmpty(t, store.recs)
}

func TestReingestPurgesPriorGeneration(t *testing.T) {
	svc, store, index, events := newFixture()
	ctx := context.Background()

	_, err := svc.Ingest(ctx, sampleDoc(false), nil)
	require.NoError(t, err)
	firstParents := len(store.recs)

	*events = (*events)[:0]
	_, err = svc.Ingest(ctx, sampleDoc(false), nil)
	require.NoError(t, err)

	assert.Equal(t, "store.delete_source", (*events)[0])
	assert.Equal(t, "index.delete_source", (*events)[1])
	assert.Equal(t, firstParents, len(store.recs), "same text re-chunks to the same parents")
	require.NotEmpty(t, index.children)
}

func TestDeleteAll(t *testing.T) {
	svc, store, _, events := newFixture()
	store.recs["x"] = models.ParentRecord{ParentID: "x"}

	require.NoError(t, svc.DeleteAll(context.Background()))
	assert.Empty(t, store.recs)
	assert.Equal(t, []string{"store.clear", "index.clear"}, *events)
}
