package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/booknotes/booknotes-server/internal/store"
)

func TestCreateAndGetBook(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	book := makeTestBook("book-1", "user-1", "The Little Prince")
	book.Author = "Antoine de Saint-Exupéry"
	if err := s.CreateBook(ctx, book); err != nil {
		t.Fatalf("CreateBook: %v", err)
	}

	got, err := s.GetBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Title != book.Title || got.Author != book.Author || got.OwnerID != "user-1" {
		t.Errorf("GetBook: got %+v", got)
	}
}

func TestCreateBook_WithoutAuthor(t *testing.T) {
	s := newTestStore(t)
	mustCreateUser(t, s, "user-1", "alice")
	mustCreateBook(t, s, "book-1", "user-1", "Untitled Draft")

	got, err := s.GetBook(context.Background(), "book-1")
	if err != nil {
		t.Fatalf("GetBook: %v", err)
	}
	if got.Author != "" {
		t.Errorf("Author: got %q, want empty", got.Author)
	}
}

func TestCreateBook_UnknownOwner(t *testing.T) {
	s := newTestStore(t)

	err := s.CreateBook(context.Background(), makeTestBook("book-1", "user-ghost", "1984"))
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestGetBook_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetBook(context.Background(), "book-missing")
	if !errors.Is(err, store.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}

func TestListBooksByOwner_ScopedAndOrdered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-alice", "alice")
	mustCreateUser(t, s, "user-bob", "bob")

	// IDs deliberately sort differently from insertion order.
	mustCreateBook(t, s, "book-z", "user-alice", "1984")
	mustCreateBook(t, s, "book-b", "user-bob", "Pride and Prejudice")
	mustCreateBook(t, s, "book-a", "user-alice", "The Little Prince")

	books, err := s.ListBooksByOwner(ctx, "user-alice")
	if err != nil {
		t.Fatalf("ListBooksByOwner: %v", err)
	}
	if len(books) != 2 {
		t.Fatalf("expected 2 books, got %d", len(books))
	}
	if books[0].ID != "book-z" || books[1].ID != "book-a" {
		t.Errorf("expected insertion order [book-z book-a], got [%s %s]", books[0].ID, books[1].ID)
	}
	for _, b := range books {
		if b.OwnerID != "user-alice" {
			t.Errorf("listing for alice contains %s owned by %s", b.ID, b.OwnerID)
		}
	}

	empty, err := s.ListBooksByOwner(ctx, "user-nobody")
	if err != nil {
		t.Fatalf("ListBooksByOwner: %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("expected empty non-nil slice, got %v", empty)
	}

	all, err := s.ListAllBooks(ctx)
	if err != nil {
		t.Fatalf("ListAllBooks: %v", err)
	}
	if len(all) != 3 {
		t.Errorf("expected 3 books, got %d", len(all))
	}
}

func TestDeleteBook_CascadesNotes(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")
	mustCreateBook(t, s, "book-1", "user-1", "1984")
	mustCreateBook(t, s, "book-2", "user-1", "Animal Farm")

	for _, n := range []struct{ id, book string }{{"note-1", "book-1"}, {"note-2", "book-1"}, {"note-3", "book-2"}} {
		if err := s.CreateNote(ctx, makeTestNote(n.id, n.book, "text")); err != nil {
			t.Fatalf("CreateNote(%s): %v", n.id, err)
		}
	}

	removed, err := s.DeleteBook(ctx, "book-1")
	if err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}
	if len(removed) != 2 || removed[0] != "note-1" || removed[1] != "note-2" {
		t.Errorf("removed notes = %v", removed)
	}

	if _, err := s.GetBook(ctx, "book-1"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("book still present: %v", err)
	}
	for _, id := range []string{"note-1", "note-2"} {
		if _, err := s.GetNote(ctx, id); !errors.Is(err, store.ErrNoteNotFound) {
			t.Errorf("%s should be gone, got %v", id, err)
		}
	}
	if _, err := s.GetNote(ctx, "note-3"); err != nil {
		t.Errorf("note on another book must survive: %v", err)
	}
}

func TestDeleteBook_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.DeleteBook(context.Background(), "book-missing")
	if !errors.Is(err, store.ErrBookNotFound) {
		t.Errorf("expected ErrBookNotFound, got %v", err)
	}
}
