package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/booknotes/booknotes-server/internal/domain"
	"github.com/booknotes/booknotes-server/internal/store"
)

// bookColumns must match the scan order in scanBook.
const bookColumns = `id, user_id, title, author, created_at`

func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var (
		b         domain.Book
		author    sql.NullString
		createdAt string
	)
	if err := scanner.Scan(&b.ID, &b.OwnerID, &b.Title, &author, &createdAt); err != nil {
		return nil, err
	}

	b.Author = author.String

	var err error
	if b.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &b, nil
}

// CreateBook inserts a book. Returns store.ErrUserNotFound when the owner
// does not exist.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		var exists int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, book.OwnerID).Scan(&exists)
		if errors.Is(err, sql.ErrNoRows) {
			return store.ErrUserNotFound
		}
		if err != nil {
			return fmt.Errorf("check owner: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO books (id, user_id, title, author, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			book.ID,
			book.OwnerID,
			book.Title,
			nullString(book.Author),
			formatTime(book.CreatedAt),
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

	s.logIndexErr("index_book", book.ID, s.indexer().IndexBook(ctx, book))
	return nil
}

// GetBook retrieves a book by ID.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrBookNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// ListBooksByOwner returns the owner's books in insertion order.
func (s *Store) ListBooksByOwner(ctx context.Context, ownerID string) ([]*domain.Book, error) {
	return s.listBooks(ctx, `SELECT `+bookColumns+` FROM books WHERE user_id = ? ORDER BY rowid`, ownerID)
}

// ListAllBooks returns every book in insertion order.
func (s *Store) ListAllBooks(ctx context.Context) ([]*domain.Book, error) {
	return s.listBooks(ctx, `SELECT `+bookColumns+` FROM books ORDER BY rowid`)
}

func (s *Store) listBooks(ctx context.Context, query string, args ...any) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []*domain.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// DeleteBook removes a book and all of its notes in one transaction.
// Returns the IDs of the removed notes, or store.ErrBookNotFound.
func (s *Store) DeleteBook(ctx context.Context, id string) ([]string, error) {
	var noteIDs []string

	err := s.withTx(ctx, func(tx *sql.Tx) error {
		rows, err := tx.QueryContext(ctx, `SELECT id FROM notes WHERE book_id = ? ORDER BY rowid`, id)
		if err != nil {
			return fmt.Errorf("list notes: %w", err)
		}
		for rows.Next() {
			var noteID string
			if err := rows.Scan(&noteID); err != nil {
				rows.Close()
				return err
			}
			noteIDs = append(noteIDs, noteID)
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM notes WHERE book_id = ?`, id); err != nil {
			return fmt.Errorf("delete notes: %w", err)
		}

		result, err := tx.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("delete book: %w", err)
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return store.ErrBookNotFound
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logIndexErr("delete_book", id, s.indexer().DeleteBook(ctx, id, noteIDs))
	return noteIDs, nil
}
