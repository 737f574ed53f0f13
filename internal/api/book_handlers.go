package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pageturnapp/pageturn-server/internal/domain"
	"github.com/pageturnapp/pageturn-server/internal/errors"
	"github.com/pageturnapp/pageturn-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books",
		Summary:     "List books",
		Description: "Returns the library, optionally filtered by status or tag",
		Tags:        []string{"Books"},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID:   "createBook",
		Method:        http.MethodPost,
		Path:          "/api/v1/books",
		Summary:       "Create book",
		Description:   "Adds a new book to the library",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}",
		Summary:     "Get book",
		Description: "Returns a book by ID",
		Tags:        []string{"Books"},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/books/{id}",
		Summary:     "Update book",
		Description: "Updates mutable fields of a book",
		Tags:        []string{"Books"},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteBook",
		Method:        http.MethodDelete,
		Path:          "/api/v1/books/{id}",
		Summary:       "Delete book",
		Description:   "Removes a book; deleting an unknown ID is a no-op",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteBook)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addReadingSession",
		Method:        http.MethodPost,
		Path:          "/api/v1/books/{id}/sessions",
		Summary:       "Log reading session",
		Description:   "Logs a reading session against a book and advances its progress",
		Tags:          []string{"Books"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddSession)

	huma.Register(s.api, huma.Operation{
		OperationID: "listReadingSessions",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/{id}/sessions",
		Summary:     "List reading sessions",
		Description: "Returns all sessions logged against a book",
		Tags:        []string{"Books"},
	}, s.handleListSessions)
}

// === DTOs ===

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID              string            `json:"id" doc:"Book ID"`
	Title           string            `json:"title" doc:"Title"`
	Author          string            `json:"author" doc:"Author"`
	TotalPages      int               `json:"total_pages" doc:"Total page count"`
	CurrentPage     int               `json:"current_page" doc:"Bookmark position; may exceed total pages"`
	Progress        float64           `json:"progress" doc:"Fraction read, 0-1"`
	CoverImageURL   string            `json:"cover_image_url,omitempty" doc:"Cover image reference"`
	DateStarted     time.Time         `json:"date_started" doc:"When the book was added"`
	DateCompleted   *time.Time        `json:"date_completed,omitempty" doc:"When the last page was first reached"`
	Notes           string            `json:"notes,omitempty" doc:"Free-text notes"`
	Rating          *int              `json:"rating,omitempty" doc:"Rating 1-5"`
	Tags            []string          `json:"tags,omitempty" doc:"Normalized tags"`
	ReadingSessions []SessionResponse `json:"reading_sessions" doc:"Logged sessions in append order"`
}

// SessionResponse contains reading session data in API responses.
type SessionResponse struct {
	ID        string    `json:"id" doc:"Session ID"`
	BookID    string    `json:"book_id" doc:"Owning book ID"`
	StartPage int       `json:"start_page" doc:"First page of the sitting"`
	EndPage   int       `json:"end_page" doc:"Last page of the sitting"`
	Date      time.Time `json:"date" doc:"When the session happened"`
	Duration  int       `json:"duration" doc:"Minutes spent"`
	Notes     string    `json:"notes,omitempty" doc:"Session notes"`
}

// ListBooksInput contains query filters for listing books.
type ListBooksInput struct {
	Status string `query:"status" enum:"reading,completed" required:"false" doc:"Filter by reading status"`
	Tag    string `query:"tag" required:"false" doc:"Filter by tag"`
}

// ListBooksResponse contains a list of books.
type ListBooksResponse struct {
	Books []BookResponse `json:"books" doc:"Books in library order"`
}

// ListBooksOutput wraps the list books response for Huma.
type ListBooksOutput struct {
	Body ListBooksResponse
}

// CreateBookRequest is the request body for creating a book.
type CreateBookRequest struct {
	Title         string   `json:"title" minLength:"1" doc:"Title"`
	Author        string   `json:"author" minLength:"1" doc:"Author"`
	TotalPages    int      `json:"total_pages" minimum:"1" doc:"Total page count"`
	CoverImageURL string   `json:"cover_image_url,omitempty" required:"false" doc:"Cover image reference"`
	Tags          []string `json:"tags,omitempty" required:"false" doc:"Initial tags"`
}

// CreateBookInput wraps the create book request for Huma.
type CreateBookInput struct {
	Body CreateBookRequest
}

// BookOutput wraps a single book response for Huma.
type BookOutput struct {
	Body BookResponse
}

// GetBookInput contains parameters for getting a book.
type GetBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// UpdateBookRequest is the request body for updating a book.
// Absent fields are left unchanged.
type UpdateBookRequest struct {
	Title         *string   `json:"title,omitempty" required:"false" doc:"Title"`
	Author        *string   `json:"author,omitempty" required:"false" doc:"Author"`
	TotalPages    *int      `json:"total_pages,omitempty" required:"false" minimum:"1" doc:"Total page count"`
	CoverImageURL *string   `json:"cover_image_url,omitempty" required:"false" doc:"Cover image reference"`
	Notes         *string   `json:"notes,omitempty" required:"false" doc:"Free-text notes"`
	Rating        *int      `json:"rating,omitempty" required:"false" minimum:"1" maximum:"5" doc:"Rating 1-5"`
	Tags          *[]string `json:"tags,omitempty" required:"false" doc:"Replacement tag list"`
}

// UpdateBookInput wraps the update book request for Huma.
type UpdateBookInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body UpdateBookRequest
}

// DeleteBookInput contains parameters for deleting a book.
type DeleteBookInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// AddSessionRequest is the request body for logging a reading session.
type AddSessionRequest struct {
	StartPage int        `json:"start_page" minimum:"0" doc:"First page of the sitting"`
	EndPage   int        `json:"end_page" minimum:"0" doc:"Last page of the sitting"`
	Duration  int        `json:"duration,omitempty" required:"false" doc:"Minutes spent"`
	Notes     string     `json:"notes,omitempty" required:"false" doc:"Session notes"`
	Date      *time.Time `json:"date,omitempty" required:"false" doc:"Session timestamp; defaults to now"`
}

// AddSessionInput wraps the session request for Huma.
type AddSessionInput struct {
	ID   string `path:"id" doc:"Book ID"`
	Body AddSessionRequest
}

// SessionOutput wraps a single session response for Huma.
type SessionOutput struct {
	Body SessionResponse
}

// ListSessionsInput contains parameters for listing a book's sessions.
type ListSessionsInput struct {
	ID string `path:"id" doc:"Book ID"`
}

// ListSessionsResponse contains a book's sessions.
type ListSessionsResponse struct {
	Sessions []SessionResponse `json:"sessions" doc:"Sessions in append order"`
}

// ListSessionsOutput wraps the session list for Huma.
type ListSessionsOutput struct {
	Body ListSessionsResponse
}

// === Handlers ===

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*ListBooksOutput, error) {
	var (
		books []domain.Book
		err   error
	)

	switch {
	case input.Tag != "":
		books, err = s.services.Library.GetByTag(ctx, input.Tag)
	case input.Status == "reading":
		books, err = s.services.Library.GetCurrentlyReading(ctx)
	case input.Status == "completed":
		books, err = s.services.Library.GetCompleted(ctx)
	default:
		books, err = s.services.Library.GetAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	resp := make([]BookResponse, len(books))
	for i := range books {
		resp[i] = toBookResponse(&books[i])
	}

	return &ListBooksOutput{Body: ListBooksResponse{Books: resp}}, nil
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	book, err := s.services.Library.Create(ctx, service.CreateBookParams{
		Title:         input.Body.Title,
		Author:        input.Body.Author,
		TotalPages:    input.Body.TotalPages,
		CoverImageURL: input.Body.CoverImageURL,
		Tags:          input.Body.Tags,
	})
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	book, err := s.services.Library.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: toBookResponse(book)}, nil
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	book, err := s.services.Library.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Body.Title != nil {
		title := strings.TrimSpace(*input.Body.Title)
		if title == "" {
			return nil, errors.Validation("title cannot be empty")
		}
		book.Title = title
	}
	if input.Body.Author != nil {
		author := strings.TrimSpace(*input.Body.Author)
		if author == "" {
			return nil, errors.Validation("author cannot be empty")
		}
		book.Author = author
	}
	if input.Body.TotalPages != nil {
		book.TotalPages = *input.Body.TotalPages
	}
	if input.Body.CoverImageURL != nil {
		book.CoverImageURL = *input.Body.CoverImageURL
	}
	if input.Body.Notes != nil {
		book.Notes = *input.Body.Notes
	}
	if input.Body.Rating != nil {
		rating := *input.Body.Rating
		book.Rating = &rating
	}
	if input.Body.Tags != nil {
		book.Tags = nil
		for _, tag := range *input.Body.Tags {
			book.AddTag(tag)
		}
	}

	updated, err := s.services.Library.Update(ctx, *book)
	if err != nil {
		return nil, err
	}

	return &BookOutput{Body: toBookResponse(updated)}, nil
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*struct{}, error) {
	if err := s.services.Library.Delete(ctx, input.ID); err != nil {
		return nil, err
	}
	return &struct{}{}, nil
}

func (s *Server) handleAddSession(ctx context.Context, input *AddSessionInput) (*SessionOutput, error) {
	session, err := s.services.Library.AddSession(ctx, service.AddSessionParams{
		BookID:    input.ID,
		StartPage: input.Body.StartPage,
		EndPage:   input.Body.EndPage,
		Duration:  input.Body.Duration,
		Notes:     input.Body.Notes,
		Date:      input.Body.Date,
	})
	if err != nil {
		return nil, err
	}

	return &SessionOutput{Body: toSessionResponse(session)}, nil
}

func (s *Server) handleListSessions(ctx context.Context, input *ListSessionsInput) (*ListSessionsOutput, error) {
	sessions, err := s.services.Library.GetSessions(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	resp := make([]SessionResponse, len(sessions))
	for i := range sessions {
		resp[i] = toSessionResponse(&sessions[i])
	}

	return &ListSessionsOutput{Body: ListSessionsResponse{Sessions: resp}}, nil
}

// === Mapping helpers ===

func toBookResponse(book *domain.Book) BookResponse {
	sessions := make([]SessionResponse, len(book.ReadingSessions))
	for i := range book.ReadingSessions {
		sessions[i] = toSessionResponse(&book.ReadingSessions[i])
	}

	return BookResponse{
		ID:              book.ID,
		Title:           book.Title,
		Author:          book.Author,
		TotalPages:      book.TotalPages,
		CurrentPage:     book.CurrentPage,
		Progress:        book.Progress(),
		CoverImageURL:   book.CoverImageURL,
		DateStarted:     book.DateStarted,
		DateCompleted:   book.DateCompleted,
		Notes:           book.Notes,
		Rating:          book.Rating,
		Tags:            book.Tags,
		ReadingSessions: sessions,
	}
}

func toSessionResponse(session *domain.ReadingSession) SessionResponse {
	return SessionResponse{
		ID:        session.ID,
		BookID:    session.BookID,
		StartPage: session.StartPage,
		EndPage:   session.EndPage,
		Date:      session.Date,
		Duration:  session.Duration,
		Notes:     session.Notes,
	}
}
