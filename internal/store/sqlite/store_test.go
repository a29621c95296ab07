package sqlite

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/booknotes/booknotes-server/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func makeTestUser(id, username string) *domain.User {
	return &domain.User{
		ID:           id,
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "$argon2id$fakehashfortest",
		CreatedAt:    time.Now(),
	}
}

func makeTestBook(id, ownerID, title string) *domain.Book {
	return &domain.Book{
		ID:        id,
		OwnerID:   ownerID,
		Title:     title,
		CreatedAt: time.Now(),
	}
}

func makeTestNote(id, bookID, content string) *domain.Note {
	return &domain.Note{
		ID:        id,
		BookID:    bookID,
		Content:   content,
		CreatedAt: time.Now(),
	}
}

// mustCreateUser inserts a user or fails the test.
func mustCreateUser(t *testing.T, s *Store, id, username string) *domain.User {
	t.Helper()
	u := makeTestUser(id, username)
	if err := s.CreateUser(context.Background(), u); err != nil {
		t.Fatalf("CreateUser(%s): %v", id, err)
	}
	return u
}

func mustCreateBook(t *testing.T, s *Store, id, ownerID, title string) *domain.Book {
	t.Helper()
	b := makeTestBook(id, ownerID, title)
	if err := s.CreateBook(context.Background(), b); err != nil {
		t.Fatalf("CreateBook(%s): %v", id, err)
	}
	return b
}

func TestOpen(t *testing.T) {
	s := newTestStore(t)

	var journalMode string
	if err := s.db.QueryRow("PRAGMA journal_mode").Scan(&journalMode); err != nil {
		t.Fatalf("query journal_mode: %v", err)
	}
	if journalMode != "wal" {
		t.Errorf("expected wal, got %s", journalMode)
	}

	var fk int
	if err := s.db.QueryRow("PRAGMA foreign_keys").Scan(&fk); err != nil {
		t.Fatalf("query foreign_keys: %v", err)
	}
	if fk != 1 {
		t.Errorf("expected foreign_keys=1, got %d", fk)
	}

	for _, table := range []string{"users", "books", "notes"} {
		var name string
		err := s.db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name=?", table).Scan(&name)
		if err != nil {
			t.Errorf("table %s not found: %v", table, err)
		}
	}
}

func TestOpenClose(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "test.db")
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	s, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	mustCreateUser(t, s, "user-1", "alice")
	if err := s.Close(); err != nil {
		t.Fatalf("close store: %v", err)
	}

	// Re-open must keep data; the schema is idempotent.
	s2, err := Open(dbPath, logger)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	defer s2.Close()

	if _, err := s2.GetUser(context.Background(), "user-1"); err != nil {
		t.Errorf("GetUser after reopen: %v", err)
	}
}

// recordingIndexer captures index calls made after commits.
type recordingIndexer struct {
	mu           sync.Mutex
	books        []string
	notes        map[string]string // note ID -> owner ID
	deletedBooks map[string][]string
	deletedNotes []string
}

func newRecordingIndexer() *recordingIndexer {
	return &recordingIndexer{notes: map[string]string{}, deletedBooks: map[string][]string{}}
}

func (r *recordingIndexer) IndexBook(_ context.Context, b *domain.Book) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.books = append(r.books, b.ID)
	return nil
}

func (r *recordingIndexer) DeleteBook(_ context.Context, bookID string, noteIDs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletedBooks[bookID] = noteIDs
	return nil
}

func (r *recordingIndexer) IndexNote(_ context.Context, n *domain.Note, ownerID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notes[n.ID] = ownerID
	return nil
}

func (r *recordingIndexer) DeleteNote(_ context.Context, noteID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.deletedNotes = append(r.deletedNotes, noteID)
	return nil
}

func TestSearchIndexerNotifiedAfterCommit(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	idx := newRecordingIndexer()
	s.SetSearchIndexer(idx)

	mustCreateUser(t, s, "user-1", "alice")
	mustCreateBook(t, s, "book-1", "user-1", "1984")
	if err := s.CreateNote(ctx, makeTestNote("note-1", "book-1", "Big Brother")); err != nil {
		t.Fatalf("CreateNote: %v", err)
	}

	// A failed write must not reach the index.
	if err := s.CreateNote(ctx, makeTestNote("note-x", "book-missing", "orphan")); err == nil {
		t.Fatal("expected error for missing book")
	}

	if len(idx.books) != 1 || idx.books[0] != "book-1" {
		t.Errorf("indexed books = %v", idx.books)
	}
	if idx.notes["note-1"] != "user-1" {
		t.Errorf("note-1 indexed with owner %q", idx.notes["note-1"])
	}
	if _, ok := idx.notes["note-x"]; ok {
		t.Error("failed note was indexed")
	}

	if _, err := s.DeleteBook(ctx, "book-1"); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}
	if got := idx.deletedBooks["book-1"]; len(got) != 1 || got[0] != "note-1" {
		t.Errorf("deleted book notes = %v", got)
	}
}
