package search

import (
	"errors"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams configures a search query.
type SearchParams struct {
	OwnerID string    // Required; results never cross owners
	Query   string    // Required
	Types   []DocType // Empty means books and notes
	Limit   int
	Offset  int
}

// SearchHit is a single search result.
type SearchHit struct {
	ID      string  `json:"id"`
	Type    DocType `json:"type"`
	OwnerID string  `json:"-"`
	BookID  string  `json:"book_id,omitempty"`
	Title   string  `json:"title,omitempty"`
	Author  string  `json:"author,omitempty"`
	Content string  `json:"content,omitempty"`
	Score   float64 `json:"score"`
}

// SearchResult contains search results.
type SearchResult struct {
	Total uint64      `json:"total"`
	Hits  []SearchHit `json:"hits"`
}

// ErrMissingOwner is returned for a query without an owner scope.
var ErrMissingOwner = errors.New("search requires an owner")

// Search executes an owner-scoped query.
func (s *SearchIndex) Search(params SearchParams) (*SearchResult, error) {
	if params.OwnerID == "" {
		return nil, ErrMissingOwner
	}
	if params.Limit <= 0 {
		params.Limit = 20
	}
	if params.Limit > 100 {
		params.Limit = 100
	}

	req := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	req.Fields = []string{"type", "owner_id", "book_id", "title", "author", "content"}

	s.mu.RLock()
	res, err := s.index.Search(req)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}

	out := &SearchResult{Total: res.Total, Hits: make([]SearchHit, 0, len(res.Hits))}
	for _, hit := range res.Hits {
		h := SearchHit{ID: hit.ID, Score: hit.Score}
		if v, ok := hit.Fields["type"].(string); ok {
			h.Type = DocType(v)
		}
		if v, ok := hit.Fields["owner_id"].(string); ok {
			h.OwnerID = v
		}
		if v, ok := hit.Fields["book_id"].(string); ok {
			h.BookID = v
		}
		if v, ok := hit.Fields["title"].(string); ok {
			h.Title = v
		}
		if v, ok := hit.Fields["author"].(string); ok {
			h.Author = v
		}
		if v, ok := hit.Fields["content"].(string); ok {
			h.Content = v
		}
		out.Hits = append(out.Hits, h)
	}
	return out, nil
}

// buildSearchQuery is (owner AND text AND type filter).
func buildSearchQuery(params SearchParams) query.Query {
	owner := bleve.NewTermQuery(params.OwnerID)
	owner.SetField("owner_id")

	titleMatch := bleve.NewMatchQuery(params.Query)
	titleMatch.SetField("title")
	titleMatch.SetBoost(3.0)

	authorMatch := bleve.NewMatchQuery(params.Query)
	authorMatch.SetField("author")
	authorMatch.SetBoost(1.5)

	contentMatch := bleve.NewMatchQuery(params.Query)
	contentMatch.SetField("content")

	titleFuzzy := bleve.NewFuzzyQuery(params.Query)
	titleFuzzy.SetField("title")
	titleFuzzy.SetFuzziness(1)
	titleFuzzy.SetBoost(0.5)

	queries := []query.Query{
		owner,
		bleve.NewDisjunctionQuery(titleMatch, authorMatch, contentMatch, titleFuzzy),
	}

	if len(params.Types) > 0 {
		typeQueries := make([]query.Query, len(params.Types))
		for i, t := range params.Types {
			tq := bleve.NewTermQuery(string(t))
			tq.SetField("type")
			typeQueries[i] = tq
		}
		queries = append(queries, bleve.NewDisjunctionQuery(typeQueries...))
	}

	return bleve.NewConjunctionQuery(queries...)
}
