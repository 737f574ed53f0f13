package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/pageturnapp/pageturn-server/internal/domain"
)

// CalendarService computes day, month, streak, and heatmap statistics
// from the library's current data. It is stateless: every query rescans
// the collection at call time, which is fine at personal-library scale.
type CalendarService struct {
	library *LibraryService
	logger  *slog.Logger
	now     func() time.Time
}

// NewCalendarService creates a new calendar service.
func NewCalendarService(library *LibraryService, logger *slog.Logger) *CalendarService {
	return &CalendarService{
		library: library,
		logger:  logger,
		now:     time.Now,
	}
}

// dayWindow returns the inclusive bounds of the local calendar day
// containing t: [00:00:00.000, 23:59:59.999].
func dayWindow(t time.Time) (start, end time.Time) {
	start = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	// Calendar arithmetic, not duration arithmetic: a local day is not
	// always 24 hours long when a DST transition falls inside it.
	end = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 59, int(999*time.Millisecond), t.Location())
	return start, end
}

// DayData aggregates all sessions logged on the given calendar day.
// Sessions are collected in encounter order: book-list order, then each
// book's session order, not sorted by time. Boundary timestamps are
// inclusive on both ends. Page totals sum (endPage - startPage) as-is,
// so a backwards session subtracts.
func (s *CalendarService) DayData(ctx context.Context, date time.Time) (*domain.DaySummary, error) {
	books, err := s.library.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.dayDataFrom(books, date), nil
}

func (s *CalendarService) dayDataFrom(books []domain.Book, date time.Time) *domain.DaySummary {
	start, end := dayWindow(date)

	summary := &domain.DaySummary{
		Date:     start,
		Sessions: []domain.ReadingSession{},
		BookIDs:  []string{},
	}

	seen := map[string]bool{}
	for i := range books {
		for _, session := range books[i].ReadingSessions {
			if session.Date.Before(start) || session.Date.After(end) {
				continue
			}
			summary.Sessions = append(summary.Sessions, session)
			summary.TotalPagesRead += session.PagesRead()
			summary.TotalMinutes += session.Duration
			// Track by the session's own book reference, which may be
			// stale if the book was deleted after the session was logged.
			if !seen[session.BookID] {
				seen[session.BookID] = true
				summary.BookIDs = append(summary.BookIDs, session.BookID)
			}
		}
	}

	return summary
}

// MonthData aggregates every day of the given month. Averages divide by
// the number of days in the month, expressing pace rather than a
// per-active-day average.
func (s *CalendarService) MonthData(ctx context.Context, year int, month time.Month) (*domain.MonthSummary, error) {
	books, err := s.library.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	return s.monthDataFrom(books, year, month), nil
}

func (s *CalendarService) monthDataFrom(books []domain.Book, year int, month time.Month) *domain.MonthSummary {
	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.Local).Day()

	summary := &domain.MonthSummary{
		Year:    year,
		Month:   month,
		Days:    make([]domain.DaySummary, 0, daysInMonth),
		BookIDs: []string{},
	}

	seen := map[string]bool{}
	for day := 1; day <= daysInMonth; day++ {
		date := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
		daySummary := s.dayDataFrom(books, date)

		summary.Days = append(summary.Days, *daySummary)
		summary.TotalPagesRead += daySummary.TotalPagesRead
		summary.TotalMinutes += daySummary.TotalMinutes
		for _, bookID := range daySummary.BookIDs {
			if !seen[bookID] {
				seen[bookID] = true
				summary.BookIDs = append(summary.BookIDs, bookID)
			}
		}
	}

	summary.AveragePagesPerDay = float64(summary.TotalPagesRead) / float64(daysInMonth)
	summary.AverageMinutesPerDay = float64(summary.TotalMinutes) / float64(daysInMonth)

	return summary
}

// CurrentStreak walks backward from today counting consecutive days with
// at least one session. A day without sessions, including today if
// nothing has been logged yet, ends the streak immediately.
func (s *CalendarService) CurrentStreak(ctx context.Context) (int, error) {
	books, err := s.library.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	streak := 0
	day := s.now()
	for {
		summary := s.dayDataFrom(books, day)
		if len(summary.Sessions) == 0 {
			break
		}
		streak++
		day = day.AddDate(0, 0, -1)
	}

	return streak, nil
}

// ReadingHeatmap returns one entry per day of the year with pages read,
// keyed by the day's actual date as YYYY-MM-DD. Days with zero or
// negative page totals are omitted.
func (s *CalendarService) ReadingHeatmap(ctx context.Context, year int) ([]domain.HeatmapEntry, error) {
	books, err := s.library.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	entries := []domain.HeatmapEntry{}
	for month := time.January; month <= time.December; month++ {
		summary := s.monthDataFrom(books, year, month)
		for day, daySummary := range summary.Days {
			if daySummary.TotalPagesRead <= 0 {
				continue
			}
			entries = append(entries, domain.HeatmapEntry{
				Date:  fmt.Sprintf("%04d-%02d-%02d", year, month, day+1),
				Count: daySummary.TotalPagesRead,
			})
		}
	}

	return entries, nil
}

// BooksReadInMonth resolves the books touched during a month back to
// full records, in first-seen order. Ids whose books have since been
// deleted are silently dropped.
func (s *CalendarService) BooksReadInMonth(ctx context.Context, year int, month time.Month) ([]domain.Book, error) {
	books, err := s.library.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	summary := s.monthDataFrom(books, year, month)

	byID := make(map[string]*domain.Book, len(books))
	for i := range books {
		byID[books[i].ID] = &books[i]
	}

	out := []domain.Book{}
	for _, bookID := range summary.BookIDs {
		if book, ok := byID[bookID]; ok {
			out = append(out, *book)
		}
	}
	return out, nil
}
