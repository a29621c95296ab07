// Package access enforces ownership of books and notes.
//
// A user owns a note exactly when they own the note's book. Every mutation and
// every detail read goes through the Guard before touching the store.
package access

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/booknotes/booknotes-server/internal/domain"
	domainerrors "github.com/booknotes/booknotes-server/internal/errors"
	"github.com/booknotes/booknotes-server/internal/store"
)

// LoginPath is where unauthenticated clients are pointed.
const LoginPath = "/api/v1/auth/login"

// BookFinder resolves a note's parent book.
type BookFinder interface {
	GetBook(ctx context.Context, id string) (*domain.Book, error)
}

// Guard checks that the acting user owns a resource.
type Guard struct {
	books  BookFinder
	logger *slog.Logger
}

// NewGuard creates a guard that resolves parent books through books.
func NewGuard(books BookFinder, logger *slog.Logger) *Guard {
	if logger == nil {
		logger = slog.Default()
	}
	return &Guard{books: books, logger: logger}
}

// RequireUser fails with Unauthenticated when no user is acting.
func RequireUser(actingUserID string) error {
	if actingUserID == "" {
		return domainerrors.Unauthenticated("authentication required").
			WithDetails(map[string]string{"login_url": LoginPath})
	}
	return nil
}

// AuthorizeBookAccess fails with Forbidden unless actingUserID owns book.
func (g *Guard) AuthorizeBookAccess(actingUserID string, book *domain.Book) error {
	if err := RequireUser(actingUserID); err != nil {
		return err
	}
	if book == nil {
		return domainerrors.NotFound("book not found")
	}
	if !book.OwnedBy(actingUserID) {
		g.logger.Warn("book access denied",
			"user_id", actingUserID,
			"book_id", book.ID,
		)
		return domainerrors.Forbidden("you do not have access to this book")
	}
	return nil
}

// AuthorizeNoteAccess resolves the note's parent book, then applies
// AuthorizeBookAccess to it.
func (g *Guard) AuthorizeNoteAccess(ctx context.Context, actingUserID string, note *domain.Note) error {
	if err := RequireUser(actingUserID); err != nil {
		return err
	}
	if note == nil {
		return domainerrors.NotFound("note not found")
	}

	book, err := g.books.GetBook(ctx, note.BookID)
	if errors.Is(err, store.ErrNotFound) {
		// A note always has a book; a missing parent is an integrity failure.
		return fmt.Errorf("parent book %s of note %s: %w", note.BookID, note.ID, err)
	}
	if err != nil {
		return fmt.Errorf("resolve parent book: %w", err)
	}

	if !book.OwnedBy(actingUserID) {
		g.logger.Warn("note access denied",
			"user_id", actingUserID,
			"note_id", note.ID,
			"book_id", book.ID,
		)
		return domainerrors.Forbidden("you do not have access to this note")
	}
	return nil
}

// FilterOwned keeps only the books owned by actingUserID, preserving order.
// A dropped book means the listing query was mis-scoped, so it is logged.
func (g *Guard) FilterOwned(actingUserID string, books []*domain.Book) []*domain.Book {
	owned := make([]*domain.Book, 0, len(books))
	for _, b := range books {
		if b.OwnedBy(actingUserID) {
			owned = append(owned, b)
			continue
		}
		g.logger.Error("listing returned foreign book",
			"user_id", actingUserID,
			"book_id", b.ID,
		)
	}
	return owned
}
