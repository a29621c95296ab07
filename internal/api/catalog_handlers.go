package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/catalog/search",
		Summary:     "Search catalog",
		Description: "Case-insensitive title search of the book catalog. An empty query lists every entry.",
		Tags:        []string{"Catalog"},
		Security:    bearerSecurity,
	}, s.handleSearchCatalog)
}

// CatalogSearchInput contains the catalog query.
type CatalogSearchInput struct {
	Q string `query:"q" doc:"Title substring"`
}

// CatalogEntryResponse is a catalog entry in API responses.
type CatalogEntryResponse struct {
	ID     int    `json:"id" doc:"Catalog entry ID"`
	Title  string `json:"title" doc:"Title"`
	Author string `json:"author" doc:"Author"`
	Cover  string `json:"cover" doc:"Cover image URL, may be empty"`
}

// CatalogSearchOutput wraps catalog results for Huma.
type CatalogSearchOutput struct {
	Body struct {
		Entries []CatalogEntryResponse `json:"entries" doc:"Matching entries in catalog order"`
	}
}

func (s *Server) handleSearchCatalog(ctx context.Context, input *CatalogSearchInput) (*CatalogSearchOutput, error) {
	entries, err := s.services.Catalog.Search(ctx, actingUserID(ctx), input.Q)
	if err != nil {
		return nil, s.fail(ctx, "search catalog", err)
	}

	out := &CatalogSearchOutput{}
	out.Body.Entries = make([]CatalogEntryResponse, 0, len(entries))
	for _, e := range entries {
		out.Body.Entries = append(out.Body.Entries, CatalogEntryResponse{
			ID:     e.ID,
			Title:  e.Title,
			Author: e.Author,
			Cover:  e.Cover,
		})
	}
	return out, nil
}
