package service

import (
	"context"

	"github.com/booknotes/booknotes-server/internal/access"
	"github.com/booknotes/booknotes-server/internal/catalog"
)

// CatalogService exposes the mock book catalog to signed-in users.
type CatalogService struct {
	catalog *catalog.Catalog
}

// NewCatalogService creates a catalog service over c.
func NewCatalogService(c *catalog.Catalog) *CatalogService {
	return &CatalogService{catalog: c}
}

// Search returns catalog entries whose title contains query, ignoring case.
func (s *CatalogService) Search(_ context.Context, actingUserID, query string) ([]catalog.Entry, error) {
	if err := access.RequireUser(actingUserID); err != nil {
		return nil, err
	}
	return s.catalog.Search(query), nil
}
