package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerAdminRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "resetLibrary",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/reset",
		Summary:     "Reset library",
		Description: "Removes all books and sessions from durable storage. Idempotent.",
		Tags:        []string{"Admin"},
	}, s.handleReset)
}

// ResetResponse confirms a completed reset.
type ResetResponse struct {
	Reset bool `json:"reset" doc:"True when the wipe completed"`
}

// ResetOutput wraps the reset response for Huma.
type ResetOutput struct {
	Body ResetResponse
}

func (s *Server) handleReset(ctx context.Context, _ *struct{}) (*ResetOutput, error) {
	if err := s.services.Library.Reset(ctx); err != nil {
		return nil, err
	}

	s.logger.Info("library reset via admin endpoint")
	return &ResetOutput{Body: ResetResponse{Reset: true}}, nil
}
