package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageturnapp/pageturn-server/internal/domain"
	"github.com/pageturnapp/pageturn-server/internal/logger"
	"github.com/pageturnapp/pageturn-server/internal/store"
	"github.com/pageturnapp/pageturn-server/internal/validation"
)

func newTestCalendar(t *testing.T) (*CalendarService, *LibraryService) {
	t.Helper()

	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	library := NewLibraryService(st, validation.New(), nil, logger.Discard().Logger)
	calendar := NewCalendarService(library, logger.Discard().Logger)
	return calendar, library
}

func logSession(t *testing.T, library *LibraryService, bookID string, start, end, minutes int, date time.Time) {
	t.Helper()

	_, err := library.AddSession(context.Background(), AddSessionParams{
		BookID:    bookID,
		StartPage: start,
		EndPage:   end,
		Duration:  minutes,
		Date:      &date,
	})
	require.NoError(t, err)
}

func TestDayData_AggregatesMatchingSessions(t *testing.T) {
	calendar, library := newTestCalendar(t)
	ctx := context.Background()

	book, err := library.Create(ctx, CreateBookParams{Title: "t", Author: "a", TotalPages: 500})
	require.NoError(t, err)

	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.Local)
	logSession(t, library, book.ID, 0, 50, 30, day.Add(9*time.Hour))
	logSession(t, library, book.ID, 50, 80, 20, day.Add(21*time.Hour))
	logSession(t, library, book.ID, 80, 90, 10, day.AddDate(0, 0, 1)) // next day, excluded

	summary, err := calendar.DayData(ctx, day.Add(13*time.Hour))
	require.NoError(t, err)

	assert.Len(t, summary.Sessions, 2)
	assert.Equal(t, 80, summary.TotalPagesRead)
	assert.Equal(t, 50, summary.TotalMinutes)
	assert.Equal(t, []string{book.ID}, summary.BookIDs)
}

func TestDayData_BoundariesAreInclusive(t *testing.T) {
	calendar, library := newTestCalendar(t)
	ctx := context.Background()

	book, err := library.Create(ctx, CreateBookParams{Title: "t", Author: "a", TotalPages: 500})
	require.NoError(t, err)

	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.Local)
	logSession(t, library, book.ID, 0, 10, 5, day)                                        // midnight sharp
	logSession(t, library, book.ID, 10, 20, 5, day.Add(24*time.Hour-time.Millisecond))    // last millisecond
	logSession(t, library, book.ID, 20, 30, 5, day.Add(24*time.Hour))                     // next midnight
	logSession(t, library, book.ID, 30, 40, 5, day.Add(-time.Millisecond))                // previous day

	summary, err := calendar.DayData(ctx, day)
	require.NoError(t, err)
	assert.Len(t, summary.Sessions, 2)
	assert.Equal(t, 20, summary.TotalPagesRead)
}

func TestDayData_CoversWholeDayAcrossDSTTransitions(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("timezone database unavailable: %v", err)
	}

	calendar, library := newTestCalendar(t)
	ctx := context.Background()

	book, err := library.Create(ctx, CreateBookParams{Title: "t", Author: "a", TotalPages: 1000})
	require.NoError(t, err)

	// DST ends 2026-11-01, making the day 25 hours long. A late-evening
	// session still belongs to November 1st.
	logSession(t, library, book.ID, 0, 20, 15, time.Date(2026, 11, 1, 23, 30, 0, 0, loc))
	// DST starts 2026-03-08, making the day 23 hours long. The first half
	// hour of March 9th must not leak into March 8th.
	logSession(t, library, book.ID, 20, 30, 10, time.Date(2026, 3, 9, 0, 30, 0, 0, loc))

	nov1, err := calendar.DayData(ctx, time.Date(2026, 11, 1, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, 20, nov1.TotalPagesRead)

	nov2, err := calendar.DayData(ctx, time.Date(2026, 11, 2, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Zero(t, nov2.TotalPagesRead)

	mar8, err := calendar.DayData(ctx, time.Date(2026, 3, 8, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Zero(t, mar8.TotalPagesRead)

	mar9, err := calendar.DayData(ctx, time.Date(2026, 3, 9, 12, 0, 0, 0, loc))
	require.NoError(t, err)
	assert.Equal(t, 10, mar9.TotalPagesRead)
}

func TestDayData_NegativePagesAreNotGuarded(t *testing.T) {
	calendar, library := newTestCalendar(t)
	ctx := context.Background()

	book, err := library.Create(ctx, CreateBookParams{Title: "t", Author: "a", TotalPages: 500})
	require.NoError(t, err)

	day := time.Date(2026, 6, 15, 0, 0, 0, 0, time.Local)
	logSession(t, library, book.ID, 50, 30, 10, day.Add(10*time.Hour))

	summary, err := calendar.DayData(ctx, day)
	require.NoError(t, err)
	assert.Equal(t, -20, summary.TotalPagesRead)
}

func TestMonthData_TotalsAndAverages(t *testing.T) {
	calendar, library := newTestCalendar(t)
	ctx := context.Background()

	book, err := library.Create(ctx, CreateBookParams{Title: "t", Author: "a", TotalPages: 1000})
	require.NoError(t, err)

	// Two active days in June 2026 (30 days).
	logSession(t, library, book.ID, 0, 60, 45, time.Date(2026, 6, 3, 20, 0, 0, 0, time.Local))
	logSession(t, library, book.ID, 60, 90, 15, time.Date(2026, 6, 10, 8, 0, 0, 0, time.Local))
	// Outside the month.
	logSession(t, library, book.ID, 90, 100, 10, time.Date(2026, 7, 1, 8, 0, 0, 0, time.Local))

	summary, err := calendar.MonthData(ctx, 2026, time.June)
	require.NoError(t, err)

	assert.Len(t, summary.Days, 30)
	assert.Equal(t, 90, summary.TotalPagesRead)
	assert.Equal(t, 60, summary.TotalMinutes)
	// Averages divide by days in month, not active days.
	assert.InDelta(t, 3.0, summary.AveragePagesPerDay, 0.001)
	assert.InDelta(t, 2.0, summary.AverageMinutesPerDay, 0.001)
	assert.Equal(t, []string{book.ID}, summary.BookIDs)
}

func TestMonthData_EqualsSumOfDays(t *testing.T) {
	calendar, library := newTestCalendar(t)
	ctx := context.Background()

	book, err := library.Create(ctx, CreateBookParams{Title: "t", Author: "a", TotalPages: 1000})
	require.NoError(t, err)

	for day := 1; day <= 5; day++ {
		date := time.Date(2026, 2, day, 19, 0, 0, 0, time.Local)
		logSession(t, library, book.ID, day*10, day*10+7, 12, date)
	}

	summary, err := calendar.MonthData(ctx, 2026, time.February)
	require.NoError(t, err)

	sum := 0
	for _, daySummary := range summary.Days {
		sum += daySummary.TotalPagesRead
	}
	assert.Equal(t, sum, summary.TotalPagesRead)
	assert.Equal(t, 35, summary.TotalPagesRead)
}

func TestCurrentStreak_CountsBackFromToday(t *testing.T) {
	calendar, library := newTestCalendar(t)
	ctx := context.Background()

	book, err := library.Create(ctx, CreateBookParams{Title: "t", Author: "a", TotalPages: 1000})
	require.NoError(t, err)

	today := time.Date(2026, 8, 31, 14, 0, 0, 0, time.Local)
	calendar.now = func() time.Time { return today }

	logSession(t, library, book.ID, 0, 10, 10, today.Add(-2*time.Hour))
	logSession(t, library, book.ID, 10, 20, 10, today.AddDate(0, 0, -1))
	logSession(t, library, book.ID, 20, 30, 10, today.AddDate(0, 0, -2))
	// Gap at day -3, then an older session that must not count.
	logSession(t, library, book.ID, 30, 40, 10, today.AddDate(0, 0, -4))

	streak, err := calendar.CurrentStreak(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, streak)
}

func TestCurrentStreak_ZeroWhenTodayEmpty(t *testing.T) {
	calendar, library := newTestCalendar(t)
	ctx := context.Background()

	book, err := library.Create(ctx, CreateBookParams{Title: "t", Author: "a", TotalPages: 1000})
	require.NoError(t, err)

	today := time.Date(2026, 8, 31, 9, 0, 0, 0, time.Local)
	calendar.now = func() time.Time { return today }

	// Read every previous evening but nothing yet today.
	logSession(t, library, book.ID, 0, 10, 10, today.AddDate(0, 0, -1))
	logSession(t, library, book.ID, 10, 20, 10, today.AddDate(0, 0, -2))

	streak, err := calendar.CurrentStreak(ctx)
	require.NoError(t, err)
	assert.Zero(t, streak)
}

func TestReadingHeatmap(t *testing.T) {
	calendar, library := newTestCalendar(t)
	ctx := context.Background()

	book, err := library.Create(ctx, CreateBookParams{Title: "t", Author: "a", TotalPages: 1000})
	require.NoError(t, err)

	logSession(t, library, book.ID, 0, 40, 30, time.Date(2026, 1, 5, 20, 0, 0, 0, time.Local))
	logSession(t, library, book.ID, 40, 55, 10, time.Date(2026, 11, 21, 7, 0, 0, 0, time.Local))
	// A backwards session keeps its day out of the heatmap.
	logSession(t, library, book.ID, 55, 30, 10, time.Date(2026, 3, 2, 12, 0, 0, 0, time.Local))
	// Different year.
	logSession(t, library, book.ID, 55, 70, 10, time.Date(2025, 11, 21, 7, 0, 0, 0, time.Local))

	entries, err := calendar.ReadingHeatmap(ctx, 2026)
	require.NoError(t, err)

	require.Len(t, entries, 2)
	assert.Equal(t, "2026-01-05", entries[0].Date)
	assert.Equal(t, 40, entries[0].Count)
	assert.Equal(t, "2026-11-21", entries[1].Date)
	assert.Equal(t, 15, entries[1].Count)
}

func TestBooksReadInMonth(t *testing.T) {
	calendar, library := newTestCalendar(t)
	ctx := context.Background()

	first, err := library.Create(ctx, CreateBookParams{Title: "first", Author: "a", TotalPages: 100})
	require.NoError(t, err)
	second, err := library.Create(ctx, CreateBookParams{Title: "second", Author: "a", TotalPages: 100})
	require.NoError(t, err)
	untouched, err := library.Create(ctx, CreateBookParams{Title: "untouched", Author: "a", TotalPages: 100})
	require.NoError(t, err)

	logSession(t, library, first.ID, 0, 10, 10, time.Date(2026, 4, 2, 10, 0, 0, 0, time.Local))
	logSession(t, library, second.ID, 0, 10, 10, time.Date(2026, 4, 9, 10, 0, 0, 0, time.Local))

	books, err := calendar.BooksReadInMonth(ctx, 2026, time.April)
	require.NoError(t, err)

	require.Len(t, books, 2)
	assert.Equal(t, first.ID, books[0].ID)
	assert.Equal(t, second.ID, books[1].ID)
	for _, b := range books {
		assert.NotEqual(t, untouched.ID, b.ID)
	}
}

func TestBooksReadInMonth_DropsStaleBookIDs(t *testing.T) {
	st, err := store.New(t.TempDir(), nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = st.Close()
	})

	// A session can carry a book id that no longer resolves, e.g. data
	// imported from an earlier install. It still counts toward the day
	// totals but is dropped when resolving back to book records.
	when := time.Date(2026, 4, 2, 10, 0, 0, 0, time.Local)
	require.NoError(t, st.SaveBooks([]domain.Book{
		{
			ID:    "book-kept",
			Title: "kept",
			ReadingSessions: []domain.ReadingSession{
				{ID: "session-1", BookID: "book-kept", StartPage: 0, EndPage: 10, Date: when, Duration: 10},
				{ID: "session-2", BookID: "book-ghost", StartPage: 0, EndPage: 5, Date: when, Duration: 5},
			},
		},
	}))

	library := NewLibraryService(st, validation.New(), nil, logger.Discard().Logger)
	calendar := NewCalendarService(library, logger.Discard().Logger)

	books, err := calendar.BooksReadInMonth(context.Background(), 2026, time.April)
	require.NoError(t, err)
	require.Len(t, books, 1)
	assert.Equal(t, "book-kept", books[0].ID)
}
