// Package main seeds a BookNotes database with a demo account.
//
// The account receives every catalog book plus a few notes so the API has
// something to show right away.
//
// Usage:
//
//	go run ./cmd/seed
//	go run ./cmd/seed -data-path /tmp/booknotes -username demo -password demo
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/booknotes/booknotes-server/internal/access"
	"github.com/booknotes/booknotes-server/internal/catalog"
	domainerrors "github.com/booknotes/booknotes-server/internal/errors"
	"github.com/booknotes/booknotes-server/internal/service"
	"github.com/booknotes/booknotes-server/internal/store/sqlite"
)

var (
	dataPath = flag.String("data-path", "", "Data directory (default: ~/.booknotes)")
	username = flag.String("username", "demo", "Demo account username")
	email    = flag.String("email", "demo@example.com", "Demo account email")
	password = flag.String("password", "demo", "Demo account password")
)

// sampleNotes are attached to catalog books by title.
var sampleNotes = map[string][]string{
	"The Little Prince":   {"What is essential is invisible to the eye."},
	"1984":                {"War is peace. Freedom is slavery. Ignorance is strength.", "Reread part three."},
	"Pride and Prejudice": {"Opening line is perfect."},
}

func main() {
	flag.Parse()

	path := *dataPath
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Fatalf("Failed to resolve home directory: %v", err)
		}
		path = filepath.Join(home, ".booknotes")
	}
	if err := os.MkdirAll(path, 0o755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	dbPath := filepath.Join(path, "booknotes.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	logger := slog.New(slog.DiscardHandler)
	st, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer st.Close()

	ctx := context.Background()
	cat := catalog.Default()

	// Sessions are never started here, so the auth service needs none.
	authSvc := service.NewAuthService(st, nil, logger)
	library := service.NewLibraryService(st, access.NewGuard(st, logger), cat, logger)

	user, err := authSvc.Register(ctx, service.RegisterRequest{
		Username: *username,
		Email:    *email,
		Password: *password,
	})
	if err != nil {
		if errors.Is(err, domainerrors.ErrDuplicateUsername) || errors.Is(err, domainerrors.ErrDuplicateEmail) {
			log.Fatalf("Demo account already exists: %v", err)
		}
		log.Fatalf("Failed to create demo account: %v", err)
	}
	fmt.Printf("Created user %s (%s)\n", user.Username, user.ID)

	for _, entry := range cat.All() {
		book, err := library.AddBookFromCatalog(ctx, user.ID, entry.ID)
		if err != nil {
			log.Fatalf("Failed to add %q: %v", entry.Title, err)
		}

		for _, content := range sampleNotes[entry.Title] {
			if _, err := library.AddNote(ctx, user.ID, book.ID, service.AddNoteRequest{Content: content}); err != nil {
				log.Fatalf("Failed to add note to %q: %v", entry.Title, err)
			}
		}
		fmt.Printf("  %s by %s (%d notes)\n", book.Title, book.Author, len(sampleNotes[entry.Title]))
	}

	fmt.Printf("\nDone. Log in as %q with password %q.\n", *username, *password)
}
