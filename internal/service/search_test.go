package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/booknotes/booknotes-server/internal/errors"
	"github.com/booknotes/booknotes-server/internal/search"
)

func hitIDs(res *search.SearchResult) []string {
	ids := make([]string, len(res.Hits))
	for i, h := range res.Hits {
		ids[i] = h.ID
	}
	return ids
}

func TestSearchService_FindsOwnBooksAndNotes(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	dune, err := env.library.AddBook(ctx, alice.ID, AddBookRequest{Title: "Dune", Author: "Frank Herbert"})
	require.NoError(t, err)
	note, err := env.library.AddNote(ctx, alice.ID, dune.ID, AddNoteRequest{Content: "The spice must flow"})
	require.NoError(t, err)
	_, err = env.library.AddBook(ctx, bob.ID, AddBookRequest{Title: "Spice Trade History"})
	require.NoError(t, err)

	res, err := env.search.Search(ctx, alice.ID, SearchRequest{Query: "spice"})
	require.NoError(t, err)
	assert.Equal(t, []string{note.ID}, hitIDs(res))

	res, err = env.search.Search(ctx, alice.ID, SearchRequest{Query: "dune", Types: []search.DocType{search.DocTypeBook}})
	require.NoError(t, err)
	assert.Equal(t, []string{dune.ID}, hitIDs(res))
}

func TestSearchService_DeletedBookDropsFromIndex(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	dune, err := env.library.AddBook(ctx, alice.ID, AddBookRequest{Title: "Dune"})
	require.NoError(t, err)
	_, err = env.library.AddNote(ctx, alice.ID, dune.ID, AddNoteRequest{Content: "sandworms everywhere"})
	require.NoError(t, err)

	require.NoError(t, env.library.DeleteBook(ctx, alice.ID, dune.ID))

	res, err := env.search.Search(ctx, alice.ID, SearchRequest{Query: "sandworms"})
	require.NoError(t, err)
	assert.Empty(t, res.Hits)

	count, err := env.search.DocumentCount()
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSearchService_Validation(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	_, err := env.search.Search(ctx, "", SearchRequest{Query: "dune"})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthenticated))

	_, err = env.search.Search(ctx, alice.ID, SearchRequest{Query: "  "})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidInput))

	_, err = env.search.Search(ctx, alice.ID, SearchRequest{Query: "dune", Types: []search.DocType{"series"}})
	assert.True(t, domainerrors.Is(err, domainerrors.ErrInvalidInput))
}

func TestSearchService_ReindexAll(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	dune, err := env.library.AddBook(ctx, alice.ID, AddBookRequest{Title: "Dune"})
	require.NoError(t, err)
	_, err = env.library.AddNote(ctx, alice.ID, dune.ID, AddNoteRequest{Content: "arrakis"})
	require.NoError(t, err)

	require.NoError(t, env.search.ReindexAll(ctx))

	count, err := env.search.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(2), count)

	res, err := env.search.Search(ctx, alice.ID, SearchRequest{Query: "arrakis"})
	require.NoError(t, err)
	assert.Len(t, res.Hits, 1)
}

func TestCatalogService_Search(t *testing.T) {
	env := setupTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice")

	entries, err := env.catalog.Search(ctx, alice.ID, "PRINCE")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, 1, entries[0].ID)

	_, err = env.catalog.Search(ctx, "", "prince")
	assert.True(t, domainerrors.Is(err, domainerrors.ErrUnauthenticated))
}
