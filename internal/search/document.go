// Package search provides owner-scoped full-text search over a user's books
// and notes using Bleve.
package search

import (
	"github.com/booknotes/booknotes-server/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeBook DocType = "book"
	DocTypeNote DocType = "note"
)

// SearchDocument is the unified document stored in the index. Every document
// carries the owning user so queries can be restricted to that owner.
type SearchDocument struct {
	ID      string
	Type    DocType
	OwnerID string

	// Book documents
	Title  string
	Author string

	// Note documents
	BookID  string
	Content string

	CreatedAt int64 // Unix millis
}

// ToMap converts the document to a map keyed by the mapping's field names.
func (d *SearchDocument) ToMap() map[string]any {
	m := map[string]any{
		"type":       string(d.Type),
		"owner_id":   d.OwnerID,
		"created_at": d.CreatedAt,
	}
	if d.Title != "" {
		m["title"] = d.Title
	}
	if d.Author != "" {
		m["author"] = d.Author
	}
	if d.BookID != "" {
		m["book_id"] = d.BookID
	}
	if d.Content != "" {
		m["content"] = d.Content
	}
	return m
}

// BookToSearchDocument converts a book for indexing.
func BookToSearchDocument(book *domain.Book) *SearchDocument {
	return &SearchDocument{
		ID:        book.ID,
		Type:      DocTypeBook,
		OwnerID:   book.OwnerID,
		Title:     book.Title,
		Author:    book.Author,
		CreatedAt: book.CreatedAt.UnixMilli(),
	}
}

// NoteToSearchDocument converts a note for indexing. The owner comes from the
// note's book, which the caller has already resolved.
func NoteToSearchDocument(note *domain.Note, ownerID string) *SearchDocument {
	return &SearchDocument{
		ID:        note.ID,
		Type:      DocTypeNote,
		OwnerID:   ownerID,
		BookID:    note.BookID,
		Content:   note.Content,
		CreatedAt: note.CreatedAt.UnixMilli(),
	}
}
