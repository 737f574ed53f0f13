package api

import (
	"github.com/pageturnapp/pageturn-server/internal/service"
)

// Services groups all business logic services used by the API server.
// This reduces the parameter count for NewServer and improves testability.
type Services struct {
	Library  *service.LibraryService
	Calendar *service.CalendarService
	Search   *service.SearchService
}
