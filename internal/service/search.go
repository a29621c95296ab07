package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/booknotes/booknotes-server/internal/access"
	"github.com/booknotes/booknotes-server/internal/domain"
	domainerrors "github.com/booknotes/booknotes-server/internal/errors"
	"github.com/booknotes/booknotes-server/internal/search"
	"github.com/booknotes/booknotes-server/internal/store"
)

// SearchService keeps the full-text index in sync with the store and runs
// owner-scoped queries against it.
type SearchService struct {
	index  *search.SearchIndex
	store  store.Store
	logger *slog.Logger
}

var _ store.SearchIndexer = (*SearchService)(nil)

// NewSearchService creates a new search service.
func NewSearchService(index *search.SearchIndex, store store.Store, logger *slog.Logger) *SearchService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SearchService{
		index:  index,
		store:  store,
		logger: logger,
	}
}

// SearchRequest is a library search issued by the acting user.
type SearchRequest struct {
	Query  string
	Types  []search.DocType
	Limit  int
	Offset int
}

// Search finds the acting user's books and notes matching the query.
func (s *SearchService) Search(_ context.Context, actingUserID string, req SearchRequest) (*search.SearchResult, error) {
	if err := access.RequireUser(actingUserID); err != nil {
		return nil, err
	}

	q := strings.TrimSpace(req.Query)
	if q == "" {
		return nil, domainerrors.InvalidInputWithDetails("validation failed", map[string]string{"q": "is required"})
	}

	for _, t := range req.Types {
		if t != search.DocTypeBook && t != search.DocTypeNote {
			return nil, domainerrors.InvalidInputf("unknown search type %q", t)
		}
	}

	res, err := s.index.Search(search.SearchParams{
		OwnerID: actingUserID,
		Query:   q,
		Types:   req.Types,
		Limit:   req.Limit,
		Offset:  req.Offset,
	})
	if err != nil {
		return nil, fmt.Errorf("search library: %w", err)
	}

	// The index query is already owner-scoped; this drop is a second fence.
	hits := res.Hits[:0]
	for _, h := range res.Hits {
		if h.OwnerID != actingUserID {
			s.logger.Error("search returned foreign document", "user_id", actingUserID, "doc_id", h.ID)
			continue
		}
		hits = append(hits, h)
	}
	res.Hits = hits
	return res, nil
}

// IndexBook indexes or replaces a book.
func (s *SearchService) IndexBook(_ context.Context, book *domain.Book) error {
	if err := s.index.IndexDocument(search.BookToSearchDocument(book)); err != nil {
		return fmt.Errorf("index book: %w", err)
	}
	s.logger.Debug("indexed book", "id", book.ID, "title", book.Title)
	return nil
}

// DeleteBook removes a book and its notes from the index.
func (s *SearchService) DeleteBook(_ context.Context, bookID string, noteIDs []string) error {
	ids := append([]string{bookID}, noteIDs...)
	if err := s.index.DeleteDocuments(ids...); err != nil {
		return fmt.Errorf("unindex book: %w", err)
	}
	return nil
}

// IndexNote indexes or replaces a note; ownerID is the owner of its book.
func (s *SearchService) IndexNote(_ context.Context, note *domain.Note, ownerID string) error {
	if err := s.index.IndexDocument(search.NoteToSearchDocument(note, ownerID)); err != nil {
		return fmt.Errorf("index note: %w", err)
	}
	s.logger.Debug("indexed note", "id", note.ID, "book_id", note.BookID)
	return nil
}

// DeleteNote removes a note from the index.
func (s *SearchService) DeleteNote(_ context.Context, noteID string) error {
	if err := s.index.DeleteDocuments(noteID); err != nil {
		return fmt.Errorf("unindex note: %w", err)
	}
	return nil
}

// DocumentCount returns the number of indexed documents.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// ReindexAll rebuilds the index from every book and note in the store.
func (s *SearchService) ReindexAll(ctx context.Context) error {
	s.logger.Info("starting full reindex")

	if err := s.index.Rebuild(); err != nil {
		return fmt.Errorf("rebuild index: %w", err)
	}

	books, err := s.store.ListAllBooks(ctx)
	if err != nil {
		return fmt.Errorf("list books: %w", err)
	}

	owners := make(map[string]string, len(books))
	docs := make([]*search.SearchDocument, 0, len(books))
	for _, book := range books {
		owners[book.ID] = book.OwnerID
		docs = append(docs, search.BookToSearchDocument(book))
	}

	notes, err := s.store.ListAllNotes(ctx)
	if err != nil {
		return fmt.Errorf("list notes: %w", err)
	}
	for _, note := range notes {
		owner, ok := owners[note.BookID]
		if !ok {
			s.logger.Warn("skipping note with unknown book", "note_id", note.ID, "book_id", note.BookID)
			continue
		}
		docs = append(docs, search.NoteToSearchDocument(note, owner))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return fmt.Errorf("index documents: %w", err)
	}

	s.logger.Info("full reindex complete", "books", len(books), "total_documents", len(docs))
	return nil
}
