package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/booknotes/booknotes-server/internal/access"
	"github.com/booknotes/booknotes-server/internal/catalog"
	"github.com/booknotes/booknotes-server/internal/domain"
	domainerrors "github.com/booknotes/booknotes-server/internal/errors"
	"github.com/booknotes/booknotes-server/internal/id"
	"github.com/booknotes/booknotes-server/internal/store"
	"github.com/booknotes/booknotes-server/internal/validation"
)

// CatalogLookup resolves catalog entries by ID.
type CatalogLookup interface {
	Get(id int) (catalog.Entry, bool)
}

// LibraryService manages a user's books and notes. Every method takes the
// acting user's ID and checks ownership before reading details or writing.
type LibraryService struct {
	store     store.Store
	guard     *access.Guard
	catalog   CatalogLookup
	validator *validation.Validator
	logger    *slog.Logger
	now       func() time.Time
}

// NewLibraryService creates a new library service.
func NewLibraryService(store store.Store, guard *access.Guard, catalog CatalogLookup, logger *slog.Logger) *LibraryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &LibraryService{
		store:     store,
		guard:     guard,
		catalog:   catalog,
		validator: validation.New(),
		logger:    logger,
		now:       time.Now,
	}
}

// AddBookRequest contains the fields of a manually added book.
type AddBookRequest struct {
	Title  string `json:"title" validate:"notblank,max=200"`
	Author string `json:"author,omitempty" validate:"max=200"`
}

// AddNoteRequest contains the text of a new note.
type AddNoteRequest struct {
	Content string `json:"content" validate:"notblank"`
}

// AddBook creates a book owned by the acting user.
func (s *LibraryService) AddBook(ctx context.Context, actingUserID string, req AddBookRequest) (*domain.Book, error) {
	if err := access.RequireUser(actingUserID); err != nil {
		return nil, err
	}

	req.Title = strings.TrimSpace(req.Title)
	req.Author = strings.TrimSpace(req.Author)
	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	bookID, err := id.Generate(id.PrefixBook)
	if err != nil {
		return nil, fmt.Errorf("generate book ID: %w", err)
	}

	book := &domain.Book{
		ID:        bookID,
		OwnerID:   actingUserID,
		Title:     req.Title,
		Author:    req.Author,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			// The session outlived its user.
			return nil, domainerrors.Unauthenticated("account no longer exists")
		}
		return nil, fmt.Errorf("create book: %w", err)
	}

	s.logger.Info("Book added", "user_id", actingUserID, "book_id", book.ID)
	return book, nil
}

// AddBookFromCatalog copies a catalog entry's title and author into a new
// book owned by the acting user.
func (s *LibraryService) AddBookFromCatalog(ctx context.Context, actingUserID string, catalogID int) (*domain.Book, error) {
	if err := access.RequireUser(actingUserID); err != nil {
		return nil, err
	}

	entry, ok := s.catalog.Get(catalogID)
	if !ok {
		return nil, domainerrors.NotFoundf("catalog entry %d not found", catalogID)
	}

	return s.AddBook(ctx, actingUserID, AddBookRequest{Title: entry.Title, Author: entry.Author})
}

// ListBooks returns the acting user's books in the order they were added.
func (s *LibraryService) ListBooks(ctx context.Context, actingUserID string) ([]*domain.Book, error) {
	if err := access.RequireUser(actingUserID); err != nil {
		return nil, err
	}

	books, err := s.store.ListBooksByOwner(ctx, actingUserID)
	if err != nil {
		return nil, fmt.Errorf("list books: %w", err)
	}
	return s.guard.FilterOwned(actingUserID, books), nil
}

// GetBook returns a book the acting user owns.
func (s *LibraryService) GetBook(ctx context.Context, actingUserID, bookID string) (*domain.Book, error) {
	if err := access.RequireUser(actingUserID); err != nil {
		return nil, err
	}

	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		return nil, mapStoreError(err, "book not found")
	}
	if err := s.guard.AuthorizeBookAccess(actingUserID, book); err != nil {
		return nil, err
	}
	return book, nil
}

// GetBookDetail returns a book with its notes in creation order.
func (s *LibraryService) GetBookDetail(ctx context.Context, actingUserID, bookID string) (*domain.BookDetail, error) {
	book, err := s.GetBook(ctx, actingUserID, bookID)
	if err != nil {
		return nil, err
	}

	notes, err := s.store.ListNotesByBook(ctx, book.ID)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	return &domain.BookDetail{Book: book, Notes: notes}, nil
}

// DeleteBook removes a book and all of its notes.
func (s *LibraryService) DeleteBook(ctx context.Context, actingUserID, bookID string) error {
	if _, err := s.GetBook(ctx, actingUserID, bookID); err != nil {
		return err
	}

	removed, err := s.store.DeleteBook(ctx, bookID)
	if err != nil {
		return mapStoreError(err, "book not found")
	}

	s.logger.Info("Book deleted", "user_id", actingUserID, "book_id", bookID, "notes_removed", len(removed))
	return nil
}

// AddNote attaches a note to a book the acting user owns. Identical content
// submitted twice creates two notes.
func (s *LibraryService) AddNote(ctx context.Context, actingUserID, bookID string, req AddNoteRequest) (*domain.Note, error) {
	book, err := s.GetBook(ctx, actingUserID, bookID)
	if err != nil {
		return nil, err
	}

	if err := s.validator.Validate(req); err != nil {
		return nil, err
	}

	noteID, err := id.Generate(id.PrefixNote)
	if err != nil {
		return nil, fmt.Errorf("generate note ID: %w", err)
	}

	note := &domain.Note{
		ID:        noteID,
		BookID:    book.ID,
		Content:   req.Content,
		CreatedAt: s.now().UTC(),
	}
	if err := s.store.CreateNote(ctx, note); err != nil {
		return nil, mapStoreError(err, "book not found")
	}

	s.logger.Info("Note added", "user_id", actingUserID, "book_id", book.ID, "note_id", note.ID)
	return note, nil
}

// GetNote returns a note on a book the acting user owns.
func (s *LibraryService) GetNote(ctx context.Context, actingUserID, noteID string) (*domain.Note, error) {
	if err := access.RequireUser(actingUserID); err != nil {
		return nil, err
	}

	note, err := s.store.GetNote(ctx, noteID)
	if err != nil {
		return nil, mapStoreError(err, "note not found")
	}
	if err := s.guard.AuthorizeNoteAccess(ctx, actingUserID, note); err != nil {
		return nil, err
	}
	return note, nil
}

// DeleteNote removes a single note. Other notes on the book are untouched.
func (s *LibraryService) DeleteNote(ctx context.Context, actingUserID, noteID string) error {
	note, err := s.GetNote(ctx, actingUserID, noteID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteNote(ctx, note.ID); err != nil {
		return mapStoreError(err, "note not found")
	}

	s.logger.Info("Note deleted", "user_id", actingUserID, "book_id", note.BookID, "note_id", note.ID)
	return nil
}

// mapStoreError converts store not-found errors into domain errors and wraps
// everything else.
func mapStoreError(err error, notFoundMsg string) error {
	if errors.Is(err, store.ErrNotFound) {
		return domainerrors.NotFound(notFoundMsg)
	}
	return fmt.Errorf("library store: %w", err)
}
