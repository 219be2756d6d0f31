// Package pages attributes text spans to source page numbers via offset
// arithmetic over a per-document breakpoint table.
package pages

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"doctrine-rag/internal/models"
)

// Spans get re-split between ingestion runs, so only the leading characters
// of a span are matched against the raw text when locating it.
const locatePrefixLen = 80

// PageForOffset resolves a character offset to the page containing it: the
// page of the last breakpoint at or before the offset, or the first
// breakpoint's page when the offset precedes them all. The table must be
// sorted by strictly increasing offset.
func PageForOffset(table []models.Breakpoint, offset int) int {
	if len(table) == 0 {
		return 1
	}
	i := sort.Search(len(table), func(i int) bool { return table[i].Offset > offset })
	if i == 0 {
		return table[0].Page
	}
	return table[i-1].Page
}

// LocateOffset finds where span begins within the untouched source text by
// matching its leading characters. A miss means the page must stay unset,
// never guessed.
func LocateOffset(span, source string) (int, bool) {
	prefix := span
	if runes := []rune(span); len(runes) > locatePrefixLen {
		prefix = string(runes[:locatePrefixLen])
	}
	idx := strings.Index(source, prefix)
	if idx < 0 {
		return 0, false
	}
	return idx, true
}

// AnnotateChildren back-fills Page on every child whose text can be located
// in rawText. Children whose prefix is not found keep an empty page.
func AnnotateChildren(children []models.ChildChunk, rawText string, table []models.Breakpoint) {
	for i := range children {
		if idx, ok := LocateOffset(children[i].Content, rawText); ok {
			children[i].Page = strconv.Itoa(PageForOffset(table, idx))
		} else {
			children[i].Page = ""
		}
	}
}

// ParentPager is the slice of the parent store needed for page backfill.
type ParentPager interface {
	ListBySource(ctx context.Context, source string) ([]models.ParentRecord, error)
	UpdatePage(ctx context.Context, parentID, page string) error
}

// UpdateParentPages back-fills the page field on all stored parents of
// source. Parents whose content cannot be located are left untouched.
func UpdateParentPages(ctx context.Context, store ParentPager, rawText string, table []models.Breakpoint, source string) error {
	recs, err := store.ListBySource(ctx, source)
	if err != nil {
		return fmt.Errorf("listing parents for %s: %w", source, err)
	}
	for _, rec := range recs {
		idx, ok := LocateOffset(rec.Content, rawText)
		if !ok {
			continue
		}
		page := strconv.Itoa(PageForOffset(table, idx))
		if err := store.UpdatePage(ctx, rec.ParentID, page); err != nil {
			return fmt.Errorf("updating page for %s: %w", rec.ParentID, err)
		}
	}
	return nil
}
