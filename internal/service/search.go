package service

import (
	"context"
	"log/slog"

	"github.com/pageturnapp/pageturn-server/internal/domain"
	"github.com/pageturnapp/pageturn-server/internal/errors"
	"github.com/pageturnapp/pageturn-server/internal/search"
)

// SearchService exposes catalog search and keeps the index in sync with
// the library. It implements SearchIndexer so the library service can
// notify it about mutations.
type SearchService struct {
	index  *search.Index
	logger *slog.Logger
}

// NewSearchService creates a new search service.
func NewSearchService(index *search.Index, logger *slog.Logger) *SearchService {
	return &SearchService{
		index:  index,
		logger: logger,
	}
}

// IndexBook implements SearchIndexer.
func (s *SearchService) IndexBook(_ context.Context, book *domain.Book) error {
	return s.index.IndexDocument(search.BookToDocument(book))
}

// DeleteBook implements SearchIndexer.
func (s *SearchService) DeleteBook(_ context.Context, bookID string) error {
	return s.index.DeleteDocument(bookID)
}

// Search runs a query against the catalog index.
func (s *SearchService) Search(ctx context.Context, params search.Params) (*search.Result, error) {
	if params.Limit <= 0 {
		params.Limit = search.DefaultParams().Limit
	}

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "search failed")
	}
	return result, nil
}

// DocumentCount returns the number of indexed books.
func (s *SearchService) DocumentCount() (uint64, error) {
	return s.index.DocumentCount()
}

// Reindex rebuilds the index from the given books.
func (s *SearchService) Reindex(ctx context.Context, books []domain.Book) error {
	if err := s.index.Rebuild(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to rebuild search index")
	}

	docs := make([]*search.Document, 0, len(books))
	for i := range books {
		docs = append(docs, search.BookToDocument(&books[i]))
	}

	if err := s.index.IndexDocuments(docs); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to reindex catalog")
	}

	s.logger.Info("catalog reindexed", "books", len(docs))
	return nil
}
