package api

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/danielgtaylor/huma/v2/humatest"
	"github.com/stretchr/testify/require"

	"github.com/pageturnapp/pageturn-server/internal/config"
	"github.com/pageturnapp/pageturn-server/internal/logger"
	"github.com/pageturnapp/pageturn-server/internal/search"
	"github.com/pageturnapp/pageturn-server/internal/service"
	"github.com/pageturnapp/pageturn-server/internal/store"
	"github.com/pageturnapp/pageturn-server/internal/validation"
)

// testEnvelope mirrors the wire envelope for decoding in tests.
type testEnvelope[T any] struct {
	V       int    `json:"v"`
	Success bool   `json:"success"`
	Data    T      `json:"data"`
	Error   string `json:"error"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// testServer wraps the API server with a humatest client.
type testServer struct {
	*Server
	api humatest.TestAPI
}

// setupTestServer creates a fully wired server over temp-dir storage.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	dir := t.TempDir()

	st, err := store.New(filepath.Join(dir, "db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	log := logger.Discard().Logger

	idx, err := search.NewIndex(search.Options{
		DataPath: filepath.Join(dir, "search"),
		Logger:   log,
	})
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = idx.Close()
	})

	searchService := service.NewSearchService(idx, log)
	library := service.NewLibraryService(st, validation.New(), searchService, log)
	calendar := service.NewCalendarService(library, log)

	cfg := &config.Config{
		App:    config.AppConfig{Environment: "development"},
		Server: config.ServerConfig{Name: "PageTurn Test", Port: "8080"},
	}

	s := NewServer(cfg, st, &Services{
		Library:  library,
		Calendar: calendar,
		Search:   searchService,
	}, log)

	return &testServer{
		Server: s,
		api:    humatest.Wrap(t, s.api),
	}
}

// decodeEnvelope parses a response body into the typed envelope.
func decodeEnvelope[T any](t *testing.T, body []byte) testEnvelope[T] {
	t.Helper()

	var env testEnvelope[T]
	require.NoError(t, json.Unmarshal(body, &env))
	return env
}

// createBook creates a book via the API and returns its response DTO.
func (ts *testServer) createBook(t *testing.T, title, author string, totalPages int) BookResponse {
	t.Helper()

	resp := ts.api.Post("/api/v1/books", map[string]any{
		"title":       title,
		"author":      author,
		"total_pages": totalPages,
	})
	require.Equal(t, 201, resp.Code, "create book failed: %s", resp.Body.String())

	env := decodeEnvelope[BookResponse](t, resp.Body.Bytes())
	return env.Data
}
