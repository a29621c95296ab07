package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/booknotes/booknotes-server/internal/store"
)

func TestCreateAndGetUser(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-1", "alice")
	user.Email = "Alice@Example.com"
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	got, err := s.GetUser(ctx, "user-1")
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if got.Username != "alice" {
		t.Errorf("Username: got %q, want %q", got.Username, "alice")
	}
	if got.Email != "Alice@Example.com" {
		t.Errorf("Email: got %q, want original casing", got.Email)
	}
	if got.PasswordHash != user.PasswordHash {
		t.Errorf("PasswordHash: got %q, want %q", got.PasswordHash, user.PasswordHash)
	}
	if !got.CreatedAt.Equal(user.CreatedAt.UTC()) {
		t.Errorf("CreatedAt: got %v, want %v", got.CreatedAt, user.CreatedAt)
	}
}

func TestGetUserByUsernameAndEmail(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := makeTestUser("user-1", "alice")
	user.Email = "Alice@Example.com"
	if err := s.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	if got, err := s.GetUserByUsername(ctx, "alice"); err != nil || got.ID != "user-1" {
		t.Errorf("GetUserByUsername: got %v, %v", got, err)
	}
	if got, err := s.GetUserByEmail(ctx, "  alice@EXAMPLE.com "); err != nil || got.ID != "user-1" {
		t.Errorf("GetUserByEmail should ignore case: got %v, %v", got, err)
	}
	if _, err := s.GetUserByUsername(ctx, "Alice"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("usernames are exact: expected ErrNotFound, got %v", err)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.GetUser(context.Background(), "user-missing")
	if !errors.Is(err, store.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestCreateUser_Duplicates(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	mustCreateUser(t, s, "user-1", "alice")

	dupName := makeTestUser("user-2", "alice")
	dupName.Email = "other@example.com"
	if err := s.CreateUser(ctx, dupName); err != store.ErrUsernameExists {
		t.Errorf("expected ErrUsernameExists, got %v", err)
	}

	dupEmail := makeTestUser("user-3", "bob")
	dupEmail.Email = "ALICE@example.com"
	if err := s.CreateUser(ctx, dupEmail); err != store.ErrEmailExists {
		t.Errorf("expected ErrEmailExists, got %v", err)
	}

	dupID := makeTestUser("user-1", "carol")
	if err := s.CreateUser(ctx, dupID); !errors.Is(err, store.ErrAlreadyExists) {
		t.Errorf("expected ErrAlreadyExists, got %v", err)
	}
}
