package api

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageturnapp/pageturn-server/internal/search"
)

func TestSearchCatalog(t *testing.T) {
	ts := setupTestServer(t)

	ts.createBook(t, "The Left Hand of Darkness", "Ursula K. Le Guin", 304)
	ts.createBook(t, "The Remains of the Day", "Kazuo Ishiguro", 245)

	resp := ts.api.Get("/api/v1/search?q=darkness")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[search.Result](t, resp.Body.Bytes())
	require.NotEmpty(t, env.Data.Hits)
	assert.Equal(t, "The Left Hand of Darkness", env.Data.Hits[0].Title)
}

func TestSearchCatalog_StaysInSyncWithMutations(t *testing.T) {
	ts := setupTestServer(t)

	book := ts.createBook(t, "Ephemeral", "a", 100)

	resp := ts.api.Get("/api/v1/search?q=ephemeral")
	env := decodeEnvelope[search.Result](t, resp.Body.Bytes())
	require.Len(t, env.Data.Hits, 1)

	delResp := ts.api.Delete("/api/v1/books/" + book.ID)
	require.Equal(t, http.StatusNoContent, delResp.Code)

	resp = ts.api.Get("/api/v1/search?q=ephemeral")
	env = decodeEnvelope[search.Result](t, resp.Body.Bytes())
	assert.Empty(t, env.Data.Hits)
}

func TestReindexCatalog(t *testing.T) {
	ts := setupTestServer(t)

	ts.createBook(t, "one", "a", 100)
	ts.createBook(t, "two", "b", 100)

	resp := ts.api.Post("/api/v1/search/reindex", map[string]any{})
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[ReindexResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, env.Data.Indexed)
}
