package service

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/booknotes/booknotes-server/internal/access"
	"github.com/booknotes/booknotes-server/internal/auth"
	"github.com/booknotes/booknotes-server/internal/catalog"
	"github.com/booknotes/booknotes-server/internal/domain"
	"github.com/booknotes/booknotes-server/internal/search"
	"github.com/booknotes/booknotes-server/internal/session"
	"github.com/booknotes/booknotes-server/internal/store/sqlite"
)

// testEnv wires every service over temporary storage.
type testEnv struct {
	store    *sqlite.Store
	sessions *session.Store
	tokens   *auth.TokenService

	sessionSvc *SessionService
	authSvc    *AuthService
	library    *LibraryService
	catalog    *CatalogService
	search     *SearchService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return setupTestEnvWithTTL(t, time.Hour)
}

func setupTestEnvWithTTL(t *testing.T, ttl time.Duration) *testEnv {
	t.Helper()

	logger := slog.New(slog.DiscardHandler)

	st, err := sqlite.Open(filepath.Join(t.TempDir(), "booknotes.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	sessions, err := session.Open(session.Options{InMemory: true}, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sessions.Close() })

	index, err := search.NewSearchIndex(search.Options{InMemory: true, Logger: logger})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	key, err := auth.GenerateKey()
	require.NoError(t, err)
	tokens, err := auth.NewTokenService(key)
	require.NoError(t, err)

	searchSvc := NewSearchService(index, st, logger)
	st.SetSearchIndexer(searchSvc)

	cat := catalog.Default()
	sessionSvc := NewSessionService(sessions, tokens, ttl, logger)

	return &testEnv{
		store:      st,
		sessions:   sessions,
		tokens:     tokens,
		sessionSvc: sessionSvc,
		authSvc:    NewAuthService(st, sessionSvc, logger),
		library:    NewLibraryService(st, access.NewGuard(st, logger), cat, logger),
		catalog:    NewCatalogService(cat),
		search:     searchSvc,
	}
}

// register creates an account with a derived email and the password "secret".
func (e *testEnv) register(t *testing.T, username string) *domain.User {
	t.Helper()
	user, err := e.authSvc.Register(context.Background(), RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret",
	})
	require.NoError(t, err)
	return user
}
