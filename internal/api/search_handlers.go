package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pageturnapp/pageturn-server/internal/search"
)

func (s *Server) registerSearchRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalog",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search catalog",
		Description: "Full-text search over titles, authors, and notes with tag filters",
		Tags:        []string{"Search"},
	}, s.handleSearch)

	huma.Register(s.api, huma.Operation{
		OperationID: "reindexCatalog",
		Method:      http.MethodPost,
		Path:        "/api/v1/search/reindex",
		Summary:     "Rebuild search index",
		Description: "Drops and rebuilds the search index from the library",
		Tags:        []string{"Search"},
	}, s.handleReindex)
}

// === DTOs ===

// SearchInput contains the search query parameters.
type SearchInput struct {
	Query     string   `query:"q" required:"false" doc:"Search query"`
	Tags      []string `query:"tag" required:"false" doc:"Filter by exact tags"`
	Completed *bool    `query:"completed" required:"false" doc:"Filter by completion state"`
	Limit     int      `query:"limit" required:"false" minimum:"1" maximum:"100" doc:"Maximum hits to return"`
	Offset    int      `query:"offset" required:"false" minimum:"0" doc:"Hits to skip"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body search.Result
}

// ReindexResponse reports the reindex outcome.
type ReindexResponse struct {
	Indexed int `json:"indexed" doc:"Number of books indexed"`
}

// ReindexOutput wraps the reindex response for Huma.
type ReindexOutput struct {
	Body ReindexResponse
}

// === Handlers ===

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultParams()
	params.Query = input.Query
	params.Tags = input.Tags
	params.Completed = input.Completed
	if input.Limit > 0 {
		params.Limit = input.Limit
	}
	params.Offset = input.Offset

	result, err := s.services.Search.Search(ctx, params)
	if err != nil {
		return nil, err
	}

	return &SearchOutput{Body: *result}, nil
}

func (s *Server) handleReindex(ctx context.Context, _ *struct{}) (*ReindexOutput, error) {
	books, err := s.services.Library.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.services.Search.Reindex(ctx, books); err != nil {
		return nil, err
	}

	return &ReindexOutput{Body: ReindexResponse{Indexed: len(books)}}, nil
}
