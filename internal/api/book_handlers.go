package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booknotes/booknotes-server/internal/domain"
	"github.com/booknotes/booknotes-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the caller's books in the order they were added",
		Tags:        []string{"Books"},
		Security:    bearerSecurity,
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Add book",
		Description:   "Adds a book to the caller's library",
		Tags:          []string{"Books"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleAddBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addBookFromCatalog",
		Method:        http.MethodPost,
		Path:          "/api/v1/books/from-catalog",
		Summary:       "Add book from catalog",
		Description:   "Adds the catalog entry's title and author as a new book",
		Tags:          []string{"Books"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleAddBookFromCatalog)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book with its notes. Only the owner may view it.",
		Tags:        []string{"Books"},
		Security:    bearerSecurity,
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteBook",
		Method:        http.MethodDelete,
		Path:          "/api/v1/books/{id}",
		Summary:       "Delete book",
		Description:   "Deletes a book and all of its notes",
		Tags:          []string{"Books"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addNote",
		Method:        http.MethodPost,
		Path:          "/api/v1/books/{id}/notes",
		Summary:       "Add note",
		Description:   "Attaches a note to a book owned by the caller",
		Tags:          []string{"Notes"},
		Security:      bearerSecurity,
		DefaultStatus: http.StatusCreated,
	}, s.handleAddNote)
}

// === DTOs ===

// BookResponse is a book in API responses.
type BookResponse struct {
	ID        string    `json:"id" doc:"Book ID"`
	Title     string    `json:"title" doc:"Title"`
	Author    string    `json:"author,omitempty" doc:"Author"`
	OwnerID   string    `json:"owner_id" doc:"Owning user ID"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
}

// NoteResponse is a note in API responses.
type NoteResponse struct {
	ID        string    `json:"id" doc:"Note ID"`
	BookID    string    `json:"book_id" doc:"Parent book ID"`
	Content   string    `json:"content" doc:"Note text, verbatim"`
	CreatedAt time.Time `json:"created_at" doc:"Creation timestamp"`
}

// ListBooksOutput wraps the library listing for Huma.
type ListBooksOutput struct {
	Body struct {
		Books []BookResponse `json:"books" doc:"Books in insertion order"`
	}
}

// AddBookRequest is the request body for adding a book.
type AddBookRequest struct {
	Title  string `json:"title" doc:"Book title"`
	Author string `json:"author,omitempty" doc:"Book author"`
}

// AddBookInput wraps the add book request for Huma.
type AddBookInput struct {
	Body AddBookRequest
}

// AddFromCatalogRequest references a catalog entry.
type AddFromCatalogRequest struct {
	CatalogID int `json:"catalog_id" doc:"Catalog entry ID"`
}

// AddFromCatalogInput wraps the catalog add request for Huma.
type AddFromCatalogInput struct {
	Body AddFromCatalogRequest
}

// BookOutput wraps a single book for Huma.
type BookOutput struct {
	Body BookResponse
}

// BookIDInput identifies a book by path.
type BookIDInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// BookDetailResponse is a book with its notes.
type BookDetailResponse struct {
	Book  BookResponse   `json:"book" doc:"Book"`
	Notes []NoteResponse `json:"notes" doc:"Notes in creation order"`
}

// BookDetailOutput wraps the book detail for Huma.
type BookDetailOutput struct {
	Body BookDetailResponse
}

// AddNoteRequest is the request body for adding a note.
type AddNoteRequest struct {
	Content string `json:"content" doc:"Note text"`
}

// AddNoteInput wraps the add note request for Huma.
type AddNoteInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body AddNoteRequest
}

// NoteOutput wraps a single note for Huma.
type NoteOutput struct {
	Body NoteResponse
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, _ *struct{}) (*ListBooksOutput, error) {
	books, err := s.services.Library.ListBooks(ctx, actingUserID(ctx))
	if err != nil {
		return nil, s.fail(ctx, "list books", err)
	}

	out := &ListBooksOutput{}
	out.Body.Books = make([]BookResponse, 0, len(books))
	for _, b := range books {
		out.Body.Books = append(out.Body.Books, mapBookResponse(b))
	}
	return out, nil
}

func (s *Server) handleAddBook(ctx context.Context, input *AddBookInput) (*BookOutput, error) {
	book, err := s.services.Library.AddBook(ctx, actingUserID(ctx), service.AddBookRequest{
		Title:  input.Body.Title,
		Author: input.Body.Author,
	})
	if err != nil {
		return nil, s.fail(ctx, "add book", err)
	}
	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleAddBookFromCatalog(ctx context.Context, input *AddFromCatalogInput) (*BookOutput, error) {
	book, err := s.services.Library.AddBookFromCatalog(ctx, actingUserID(ctx), input.Body.CatalogID)
	if err != nil {
		return nil, s.fail(ctx, "add book from catalog", err)
	}
	return &BookOutput{Body: mapBookResponse(book)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *BookIDInput) (*BookDetailOutput, error) {
	detail, err := s.services.Library.GetBookDetail(ctx, actingUserID(ctx), input.ID)
	if err != nil {
		return nil, s.fail(ctx, "get book", err)
	}

	notes := make([]NoteResponse, 0, len(detail.Notes))
	for _, n := range detail.Notes {
		notes = append(notes, mapNoteResponse(n))
	}

	return &BookDetailOutput{
		Body: BookDetailResponse{
			Book:  mapBookResponse(detail.Book),
			Notes: notes,
		},
	}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *BookIDInput) (*struct{}, error) {
	if err := s.services.Library.DeleteBook(ctx, actingUserID(ctx), input.ID); err != nil {
		return nil, s.fail(ctx, "delete book", err)
	}
	return nil, nil
}

func (s *Server) handleAddNote(ctx context.Context, input *AddNoteInput) (*NoteOutput, error) {
	note, err := s.services.Library.AddNote(ctx, actingUserID(ctx), input.ID, service.AddNoteRequest{
		Content: input.Body.Content,
	})
	if err != nil {
		return nil, s.fail(ctx, "add note", err)
	}
	return &NoteOutput{Body: mapNoteResponse(note)}, nil
}

func mapBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:        b.ID,
		Title:     b.Title,
		Author:    b.Author,
		OwnerID:   b.OwnerID,
		CreatedAt: b.CreatedAt,
	}
}

func mapNoteResponse(n *domain.Note) NoteResponse {
	return NoteResponse{
		ID:        n.ID,
		BookID:    n.BookID,
		Content:   n.Content,
		CreatedAt: n.CreatedAt,
	}
}
