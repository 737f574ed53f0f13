// Package service provides the business logic layer for the PageTurn
// reading library: the book repository and the calendar statistics engine.
package service

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pageturnapp/pageturn-server/internal/domain"
	"github.com/pageturnapp/pageturn-server/internal/errors"
	"github.com/pageturnapp/pageturn-server/internal/id"
	"github.com/pageturnapp/pageturn-server/internal/store"
	"github.com/pageturnapp/pageturn-server/internal/validation"
)

// SearchIndexer is the interface for updating the search index.
// The library service uses this to keep search in sync without depending
// on search implementation details. Index failures never fail the
// library operation.
type SearchIndexer interface {
	IndexBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, bookID string) error
}

// NoopSearchIndexer is a no-op implementation for testing.
type NoopSearchIndexer struct{}

// IndexBook is a no-op.
func (NoopSearchIndexer) IndexBook(context.Context, *domain.Book) error { return nil }

// DeleteBook is a no-op.
func (NoopSearchIndexer) DeleteBook(context.Context, string) error { return nil }

// LibraryService owns the in-memory book collection. It hydrates once
// from the store on first access and persists the whole collection on
// every mutation. The mutex serializes operations so that concurrent
// callers see the same read-modify-write ordering a single caller would;
// a later write still replaces the whole stored collection.
type LibraryService struct {
	store     *store.Store
	logger    *slog.Logger
	validator *validation.Validator
	indexer   SearchIndexer

	mu     sync.Mutex
	books  []domain.Book
	loaded bool
}

// NewLibraryService creates a new library service.
func NewLibraryService(store *store.Store, validator *validation.Validator, indexer SearchIndexer, logger *slog.Logger) *LibraryService {
	if indexer == nil {
		indexer = NoopSearchIndexer{}
	}
	return &LibraryService{
		store:     store,
		logger:    logger,
		validator: validator,
		indexer:   indexer,
	}
}

// CreateBookParams are the caller-supplied fields for a new book.
type CreateBookParams struct {
	Title         string   `json:"title" validate:"required"`
	Author        string   `json:"author" validate:"required"`
	TotalPages    int      `json:"total_pages" validate:"gt=0"`
	CoverImageURL string   `json:"cover_image_url,omitempty"` // opaque reference, not validated
	Tags          []string `json:"tags,omitempty"`
}

// AddSessionParams are the caller-supplied fields for a new reading session.
type AddSessionParams struct {
	BookID    string     `json:"book_id" validate:"required"`
	StartPage int        `json:"start_page" validate:"gte=0"`
	EndPage   int        `json:"end_page" validate:"gte=0"`
	Duration  int        `json:"duration"` // minutes
	Notes     string     `json:"notes,omitempty"`
	Date      *time.Time `json:"date,omitempty"` // defaults to now
}

// loadIfNeeded hydrates the in-memory collection exactly once.
// Callers must hold s.mu.
func (s *LibraryService) loadIfNeeded() error {
	if s.loaded {
		return nil
	}

	books, err := s.store.LoadBooks()
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to load library")
	}

	s.books = books
	s.loaded = true
	s.logger.Info("library hydrated", "books", len(books))
	return nil
}

// persist writes the whole collection. In-memory state is already
// mutated when this runs and is not rolled back on failure; the next
// successful save reconverges durable state.
func (s *LibraryService) persist() error {
	if err := s.store.SaveBooks(s.books); err != nil {
		s.logger.Error("failed to persist library", "error", err)
		return errors.Wrap(err, errors.CodeInternal, "failed to save library")
	}
	return nil
}

// GetAll returns a copy of the full book list.
func (s *LibraryService) GetAll(ctx context.Context) ([]domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadIfNeeded(); err != nil {
		return nil, err
	}

	out := make([]domain.Book, len(s.books))
	copy(out, s.books)
	return out, nil
}

// GetByID returns the book with the given id.
func (s *LibraryService) GetByID(ctx context.Context, bookID string) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadIfNeeded(); err != nil {
		return nil, err
	}

	for i := range s.books {
		if s.books[i].ID == bookID {
			book := s.books[i]
			return &book, nil
		}
	}
	return nil, errors.NotFoundf("book %s not found", bookID)
}

// Create adds a new book to the library and persists the collection.
func (s *LibraryService) Create(ctx context.Context, params CreateBookParams) (*domain.Book, error) {
	params.Title = strings.TrimSpace(params.Title)
	params.Author = strings.TrimSpace(params.Author)

	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	book := domain.Book{
		ID:              id.MustGenerate("book"),
		Title:           params.Title,
		Author:          params.Author,
		TotalPages:      params.TotalPages,
		CurrentPage:     0,
		CoverImageURL:   params.CoverImageURL,
		DateStarted:     time.Now(),
		ReadingSessions: []domain.ReadingSession{},
	}
	for _, tag := range params.Tags {
		book.AddTag(tag)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadIfNeeded(); err != nil {
		return nil, err
	}

	s.books = append(s.books, book)
	if err := s.persist(); err != nil {
		return nil, err
	}

	s.indexBook(ctx, &book)
	s.logger.Info("book created", "book_id", book.ID, "title", book.Title)
	return &book, nil
}

// Update replaces the book with the matching id. Fails without
// persisting when no such book exists.
func (s *LibraryService) Update(ctx context.Context, book domain.Book) (*domain.Book, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadIfNeeded(); err != nil {
		return nil, err
	}

	for i := range s.books {
		if s.books[i].ID == book.ID {
			s.books[i] = book
			if err := s.persist(); err != nil {
				return nil, err
			}
			s.indexBook(ctx, &book)
			return &book, nil
		}
	}
	return nil, errors.NotFoundf("book %s not found", book.ID)
}

// Delete removes the book with the given id. Deleting an unknown id is
// a no-op, not an error; the collection is persisted either way.
func (s *LibraryService) Delete(ctx context.Context, bookID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadIfNeeded(); err != nil {
		return err
	}

	filtered := s.books[:0:0]
	for i := range s.books {
		if s.books[i].ID != bookID {
			filtered = append(filtered, s.books[i])
		}
	}
	s.books = filtered

	if err := s.persist(); err != nil {
		return err
	}

	if err := s.indexer.DeleteBook(ctx, bookID); err != nil {
		s.logger.Warn("failed to remove book from search index", "book_id", bookID, "error", err)
	}
	return nil
}

// AddSession logs a reading session against a book. The book's current
// page becomes the max of its previous value and the session's end page;
// it is never clamped to the total page count. The completion date is
// set the first time the current page reaches the total and is never
// cleared afterwards, even if later sessions reduce apparent progress.
func (s *LibraryService) AddSession(ctx context.Context, params AddSessionParams) (*domain.ReadingSession, error) {
	if err := s.validator.Validate(params); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadIfNeeded(); err != nil {
		return nil, err
	}

	var book *domain.Book
	for i := range s.books {
		if s.books[i].ID == params.BookID {
			book = &s.books[i]
			break
		}
	}
	if book == nil {
		return nil, errors.NotFoundf("book %s not found", params.BookID)
	}

	now := time.Now()
	date := now
	if params.Date != nil {
		date = *params.Date
	}

	session := domain.ReadingSession{
		ID:        id.MustGenerate("session"),
		BookID:    book.ID,
		StartPage: params.StartPage,
		EndPage:   params.EndPage,
		Date:      date,
		Duration:  params.Duration,
		Notes:     params.Notes,
	}

	book.ReadingSessions = append(book.ReadingSessions, session)
	if session.EndPage > book.CurrentPage {
		book.CurrentPage = session.EndPage
	}
	if book.CurrentPage >= book.TotalPages && book.DateCompleted == nil {
		completedAt := date
		book.DateCompleted = &completedAt
		s.logger.Info("book completed", "book_id", book.ID, "title", book.Title)
	}

	if err := s.persist(); err != nil {
		return nil, err
	}

	s.indexBook(ctx, book)
	return &session, nil
}

// GetSessions returns the session list of a single book.
func (s *LibraryService) GetSessions(ctx context.Context, bookID string) ([]domain.ReadingSession, error) {
	book, err := s.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ReadingSession, len(book.ReadingSessions))
	copy(out, book.ReadingSessions)
	return out, nil
}

// GetByTag returns all books carrying the given tag.
func (s *LibraryService) GetByTag(ctx context.Context, tag string) ([]domain.Book, error) {
	books, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := []domain.Book{}
	for i := range books {
		if books[i].HasTag(tag) {
			out = append(out, books[i])
		}
	}
	return out, nil
}

// GetCurrentlyReading returns all books without a completion date.
func (s *LibraryService) GetCurrentlyReading(ctx context.Context) ([]domain.Book, error) {
	books, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := []domain.Book{}
	for i := range books {
		if !books[i].IsCompleted() {
			out = append(out, books[i])
		}
	}
	return out, nil
}

// GetCompleted returns all books with a completion date.
func (s *LibraryService) GetCompleted(ctx context.Context) ([]domain.Book, error) {
	books, err := s.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	out := []domain.Book{}
	for i := range books {
		if books[i].IsCompleted() {
			out = append(out, books[i])
		}
	}
	return out, nil
}

// Reset wipes the durable collections and the in-memory cache.
func (s *LibraryService) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.ClearAllData(); err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to clear library data")
	}

	for i := range s.books {
		if err := s.indexer.DeleteBook(ctx, s.books[i].ID); err != nil {
			s.logger.Warn("failed to remove book from search index", "book_id", s.books[i].ID, "error", err)
		}
	}

	s.books = []domain.Book{}
	s.loaded = true
	s.logger.Info("library reset")
	return nil
}

// indexBook pushes a book into the search index, logging failures
// instead of surfacing them.
func (s *LibraryService) indexBook(ctx context.Context, book *domain.Book) {
	if err := s.indexer.IndexBook(ctx, book); err != nil {
		s.logger.Warn("failed to index book", "book_id", book.ID, "error", err)
	}
}
