package models

import (
	"fmt"
	"time"
)

// Document is the ingestion-level input: extracted, normalized text plus
// identity. It drives one chunking pass and is not persisted itself.
type Document struct {
	Filename  string
	Content   string
	Timestamp time.Time
	IsKB      bool
}

// ParentRecord is a large context span persisted in the parent store.
// Page is back-filled after ingestion; "" means not annotated.
type ParentRecord struct {
	ParentID   string
	Content    string
	Source     string
	ChunkIndex int
	Page       string
}

// ChildChunk is a small retrieval span indexed in the vector store. Each
// child belongs to exactly one parent. RelevanceScore is transient: it is
// only populated on chunks coming back from a vector query.
type ChildChunk struct {
	Content        string
	ParentID       string
	ChildIndex     int
	Source         string
	Page           string
	IsKB           bool
	RelevanceScore float32
}

// Passage is a resolved, citation-ready span handed to prompt assembly.
// ChunkType distinguishes resolved parents from fallback children.
type Passage struct {
	Content        string
	Source         string
	ParentID       string
	ChunkIndex     int
	Page           string
	ChunkType      string
	RelevanceScore float32
}

// Breakpoint marks where a page begins within concatenated document text.
type Breakpoint struct {
	Offset int
	Page   int
}

// ParentID builds the deterministic parent identifier for a source and
// ordinal position. Re-ingesting a source reuses the same ids, which is
// what gives Put its overwrite-on-reingest semantics.
func ParentID(source string, index int) string {
	return fmt.Sprintf("%s::parent_%d", source, index)
}
