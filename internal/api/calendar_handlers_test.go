package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (ts *testServer) logSessionOn(t *testing.T, bookID string, startPage, endPage, minutes int, date time.Time) {
	t.Helper()

	resp := ts.api.Post("/api/v1/books/"+bookID+"/sessions", map[string]any{
		"start_page": startPage,
		"end_page":   endPage,
		"duration":   minutes,
		"date":       date.Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
}

func TestGetCalendarDay(t *testing.T) {
	ts := setupTestServer(t)
	book := ts.createBook(t, "daily", "a", 500)

	day := time.Date(2026, 7, 4, 0, 0, 0, 0, time.Local)
	ts.logSessionOn(t, book.ID, 0, 40, 30, day.Add(8*time.Hour))
	ts.logSessionOn(t, book.ID, 40, 65, 20, day.Add(22*time.Hour))
	ts.logSessionOn(t, book.ID, 65, 80, 10, day.AddDate(0, 0, 1))

	resp := ts.api.Get("/api/v1/calendar/day?date=2026-07-04")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[DaySummaryResponse](t, resp.Body.Bytes())
	assert.Equal(t, "2026-07-04", env.Data.Date)
	assert.Len(t, env.Data.Sessions, 2)
	assert.Equal(t, 65, env.Data.TotalPagesRead)
	assert.Equal(t, 50, env.Data.TotalMinutes)
	assert.Equal(t, []string{book.ID}, env.Data.BookIDs)
}

func TestGetCalendarDay_BadDate(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/calendar/day?date=July%204th")
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	env := decodeEnvelope[struct{}](t, resp.Body.Bytes())
	assert.False(t, env.Success)
	assert.Equal(t, "VALIDATION", env.Code)
}

func TestGetCalendarMonth(t *testing.T) {
	ts := setupTestServer(t)
	book := ts.createBook(t, "monthly", "a", 1000)

	ts.logSessionOn(t, book.ID, 0, 60, 45, time.Date(2026, 6, 3, 20, 0, 0, 0, time.Local))
	ts.logSessionOn(t, book.ID, 60, 90, 15, time.Date(2026, 6, 10, 8, 0, 0, 0, time.Local))

	resp := ts.api.Get("/api/v1/calendar/2026/6")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	env := decodeEnvelope[MonthSummaryResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2026, env.Data.Year)
	assert.Equal(t, 6, env.Data.Month)
	assert.Len(t, env.Data.Days, 30)
	assert.Equal(t, 90, env.Data.TotalPagesRead)
	assert.InDelta(t, 3.0, env.Data.AveragePagesPerDay, 0.001)
}

func TestGetCalendarMonth_RejectsBadMonth(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/calendar/2026/13")
	assert.Equal(t, http.StatusUnprocessableEntity, resp.Code)
}

func TestGetBooksReadInMonth(t *testing.T) {
	ts := setupTestServer(t)

	touched := ts.createBook(t, "touched", "a", 100)
	ts.createBook(t, "untouched", "b", 100)

	ts.logSessionOn(t, touched.ID, 0, 10, 10, time.Date(2026, 4, 2, 10, 0, 0, 0, time.Local))

	resp := ts.api.Get("/api/v1/calendar/2026/4/books")
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[ListBooksResponse](t, resp.Body.Bytes())
	require.Len(t, env.Data.Books, 1)
	assert.Equal(t, touched.ID, env.Data.Books[0].ID)
}

func TestGetCurrentStreak(t *testing.T) {
	ts := setupTestServer(t)
	book := ts.createBook(t, "streaky", "a", 1000)

	resp := ts.api.Get("/api/v1/calendar/streak")
	require.Equal(t, http.StatusOK, resp.Code)
	env := decodeEnvelope[StreakResponse](t, resp.Body.Bytes())
	assert.Zero(t, env.Data.Streak)

	now := time.Now()
	ts.logSessionOn(t, book.ID, 0, 10, 10, now)
	ts.logSessionOn(t, book.ID, 10, 20, 10, now.AddDate(0, 0, -1))

	resp = ts.api.Get("/api/v1/calendar/streak")
	require.Equal(t, http.StatusOK, resp.Code)
	env = decodeEnvelope[StreakResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2, env.Data.Streak)
}

func TestGetReadingHeatmap(t *testing.T) {
	ts := setupTestServer(t)
	book := ts.createBook(t, "heat", "a", 1000)

	ts.logSessionOn(t, book.ID, 0, 40, 30, time.Date(2026, 1, 5, 20, 0, 0, 0, time.Local))
	ts.logSessionOn(t, book.ID, 40, 55, 10, time.Date(2026, 11, 21, 7, 0, 0, 0, time.Local))

	resp := ts.api.Get(fmt.Sprintf("/api/v1/calendar/heatmap/%d", 2026))
	require.Equal(t, http.StatusOK, resp.Code)

	env := decodeEnvelope[HeatmapResponse](t, resp.Body.Bytes())
	assert.Equal(t, 2026, env.Data.Year)
	require.Len(t, env.Data.Entries, 2)
	assert.Equal(t, "2026-01-05", env.Data.Entries[0].Date)
	assert.Equal(t, 40, env.Data.Entries[0].Count)
	assert.Equal(t, "2026-11-21", env.Data.Entries[1].Date)
}
