package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/booknotes/booknotes-server/internal/domain"
	"github.com/booknotes/booknotes-server/internal/store"
)

// userColumns must match the scan order in scanUser.
const userColumns = `id, username, email, password_hash, created_at`

func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var (
		u         domain.User
		createdAt string
	)
	if err := scanner.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash, &createdAt); err != nil {
		return nil, err
	}

	var err error
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// CreateUser inserts a new user. Returns store.ErrUsernameExists or
// store.ErrEmailExists when a unique column collides.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO users (id, username, email, email_lower, password_hash, created_at)
			VALUES (?, ?, ?, ?, ?, ?)`,
			user.ID,
			user.Username,
			user.Email,
			normalizeEmail(user.Email),
			user.PasswordHash,
			formatTime(user.CreatedAt),
		)
		switch {
		case err == nil:
			return nil
		case isUniqueViolation(err, "users.username"):
			return store.ErrUsernameExists
		case isUniqueViolation(err, "users.email_lower"):
			return store.ErrEmailExists
		case isUniqueViolation(err, ""):
			return store.ErrAlreadyExists
		default:
			return err
		}
	})
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	return s.getUserWhere(ctx, "id = ?", id)
}

// GetUserByUsername retrieves a user by exact username.
func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.getUserWhere(ctx, "username = ?", username)
}

// GetUserByEmail retrieves a user by email, ignoring case.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getUserWhere(ctx, "email_lower = ?", normalizeEmail(email))
}

func (s *Store) getUserWhere(ctx context.Context, where string, arg any) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
