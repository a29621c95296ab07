// Package store defines the persistence contracts for users, books and notes.
// Implementations perform no authorization; callers check ownership first.
package store

import (
	"context"

	"github.com/booknotes/booknotes-server/internal/domain"
)

// Store is the relational store for the library.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByUsername(ctx context.Context, username string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	// ListBooksByOwner returns the owner's books in insertion order.
	ListBooksByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error)
	ListAllBooks(ctx context.Context) ([]*domain.Book, error)
	// DeleteBook removes the book and its notes atomically and returns the
	// IDs of the removed notes.
	DeleteBook(ctx context.Context, id string) ([]string, error)

	// Notes
	// CreateNote fails with ErrBookNotFound when note.BookID does not exist.
	CreateNote(ctx context.Context, note *domain.Note) error
	GetNote(ctx context.Context, id string) (*domain.Note, error)
	// ListNotesByBook returns the book's notes in insertion order.
	ListNotesByBook(ctx context.Context, bookID string) ([]*domain.Note, error)
	ListAllNotes(ctx context.Context) ([]*domain.Note, error)
	DeleteNote(ctx context.Context, id string) error

	SetSearchIndexer(indexer SearchIndexer)
	Close() error
}

// SearchIndexer keeps the library search index in sync with committed writes.
type SearchIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, bookID string, noteIDs []string) error
	IndexNote(ctx context.Context, note *domain.Note, ownerID string) error
	DeleteNote(ctx context.Context, noteID string) error
}

// NoopSearchIndexer discards index updates.
type NoopSearchIndexer struct{}

func (NoopSearchIndexer) IndexBook(context.Context, *domain.Book) error         { return nil }
func (NoopSearchIndexer) DeleteBook(context.Context, string, []string) error    { return nil }
func (NoopSearchIndexer) IndexNote(context.Context, *domain.Note, string) error { return nil }
func (NoopSearchIndexer) DeleteNote(context.Context, string) error              { return nil }

// NewNoopSearchIndexer returns a SearchIndexer that does nothing.
func NewNoopSearchIndexer() SearchIndexer { return NoopSearchIndexer{} }
