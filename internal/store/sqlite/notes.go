package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/booknotes/booknotes-server/internal/domain"
	"github.com/booknotes/booknotes-server/internal/store"
)

// noteColumns must match the scan order in scanNote.
const noteColumns = `id, book_id, content, created_at`

func scanNote(scanner interface{ Scan(dest ...any) error }) (*domain.Note, error) {
	var (
		n         domain.Note
		createdAt string
	)
	if err := scanner.Scan(&n.ID, &n.BookID, &n.Content, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if n.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &n, nil
}

// CreateNote checks the parent book and inserts the note in one transaction.
// Returns store.ErrBookNotFound when the book does not exist.
func (s *Store) CreateNote(ctx context.Context, note *domain.Note) error {
	var ownerID string

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		err := tx.QueryRowContext(ctx, `SELECT user_id FROM books WHERE id = ?`, note.BookID).Scan(&ownerID)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrBookNotFound
		}
		if err != nil {
			return fmt.Errorf("check book: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO notes (id, book_id, content, created_at)
			VALUES (?, ?, ?, ?)`,
			note.ID,
			note.BookID,
			note.Content,
			formatTime(note.CreatedAt),
		)
		if err != nil {
			if isUniqueViolation(err, "") {
				return store.ErrAlreadyExists
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logIndexErr("index_note", note.ID, s.indexer().IndexNote(ctx, note, ownerID))
	return nil
}

// GetNote retrieves a note by ID.
func (s *Store) GetNote(ctx context.Context, id string) (*domain.Note, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+noteColumns+` FROM notes WHERE id = ?`, id)

	n, err := scanNote(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNoteNotFound
	}
	if err != nil {
		return nil, err
	}
	return n, nil
}

// ListNotesByBook returns the book's notes in insertion order.
func (s *Store) ListNotesByBook(ctx context.Context, bookID string) ([]*domain.Note, error) {
	return s.listNotes(ctx, `SELECT `+noteColumns+` FROM notes WHERE book_id = ? ORDER BY rowid`, bookID)
}

// ListAllNotes returns every note in insertion order.
func (s *Store) ListAllNotes(ctx context.Context) ([]*domain.Note, error) {
	return s.listNotes(ctx, `SELECT `+noteColumns+` FROM notes ORDER BY rowid`)
}

func (s *Store) listNotes(ctx context.Context, query string, args ...any) ([]*domain.Note, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := []*domain.Note{}
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return notes, nil
}

// DeleteNote removes a single note. Returns store.ErrNoteNotFound when absent.
func (s *Store) DeleteNote(ctx context.Context, id string) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE id = ?`, id)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrNoteNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logIndexErr("delete_note", id, s.indexer().DeleteNote(ctx, id))
	return nil
}
