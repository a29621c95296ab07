package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/booknotes/booknotes-server/internal/search"
	"github.com/booknotes/booknotes-server/internal/service"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchLibrary",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search library",
		Description: "Full-text search across the caller's own books and notes",
		Tags:        []string{"Search"},
		Security:    bearerSecurity,
	}, s.handleSearchLibrary)
}

// SearchInput contains library search parameters.
type SearchInput struct {
	Q      string   `query:"q" doc:"Search query"`
	Types  []string `query:"type" doc:"Limit to document types (book, note)"`
	Limit  int      `query:"limit" default:"20" minimum:"1" maximum:"100" doc:"Max results"`
	Offset int      `query:"offset" default:"0" minimum:"0" doc:"Pagination offset"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body *search.SearchResult
}

func (s *Server) handleSearchLibrary(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	types := make([]search.DocType, 0, len(input.Types))
	for _, t := range input.Types {
		types = append(types, search.DocType(t))
	}

	result, err := s.services.Search.Search(ctx, actingUserID(ctx), service.SearchRequest{
		Query:  input.Q,
		Types:  types,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, s.fail(ctx, "search library", err)
	}
	return &SearchOutput{Body: result}, nil
}
