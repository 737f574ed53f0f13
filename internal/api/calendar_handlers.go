package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/pageturnapp/pageturn-server/internal/domain"
	"github.com/pageturnapp/pageturn-server/internal/errors"
)

func (s *Server) registerCalendarRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getCalendarDay",
		Method:      http.MethodGet,
		Path:        "/api/v1/calendar/day",
		Summary:     "Get day statistics",
		Description: "Returns reading activity for a single calendar day",
		Tags:        []string{"Calendar"},
	}, s.handleGetDay)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentStreak",
		Method:      http.MethodGet,
		Path:        "/api/v1/calendar/streak",
		Summary:     "Get current streak",
		Description: "Returns the count of consecutive reading days ending today",
		Tags:        []string{"Calendar"},
	}, s.handleGetStreak)

	huma.Register(s.api, huma.Operation{
		OperationID: "getReadingHeatmap",
		Method:      http.MethodGet,
		Path:        "/api/v1/calendar/heatmap/{year}",
		Summary:     "Get reading heatmap",
		Description: "Returns pages read per active day across a year",
		Tags:        []string{"Calendar"},
	}, s.handleGetHeatmap)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCalendarMonth",
		Method:      http.MethodGet,
		Path:        "/api/v1/calendar/{year}/{month}",
		Summary:     "Get month statistics",
		Description: "Returns aggregated reading activity for a calendar month",
		Tags:        []string{"Calendar"},
	}, s.handleGetMonth)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBooksReadInMonth",
		Method:      http.MethodGet,
		Path:        "/api/v1/calendar/{year}/{month}/books",
		Summary:     "Get books read in month",
		Description: "Returns the books with sessions during a calendar month",
		Tags:        []string{"Calendar"},
	}, s.handleGetMonthBooks)
}

// === DTOs ===

// DaySummaryResponse contains one day's reading activity.
type DaySummaryResponse struct {
	Date           string            `json:"date" doc:"Day as YYYY-MM-DD"`
	Sessions       []SessionResponse `json:"sessions" doc:"Sessions logged that day, in encounter order"`
	TotalPagesRead int               `json:"total_pages_read" doc:"Sum of pages across sessions"`
	TotalMinutes   int               `json:"total_minutes" doc:"Sum of minutes across sessions"`
	BookIDs        []string          `json:"book_ids" doc:"Distinct books touched, first-seen order"`
}

// GetDayInput contains parameters for the day query.
type GetDayInput struct {
	Date string `query:"date" required:"false" doc:"Day as YYYY-MM-DD; defaults to today"`
}

// DayOutput wraps the day summary for Huma.
type DayOutput struct {
	Body DaySummaryResponse
}

// MonthSummaryResponse contains one month's reading activity.
type MonthSummaryResponse struct {
	Year                 int                  `json:"year" doc:"Calendar year"`
	Month                int                  `json:"month" doc:"Calendar month, 1-12"`
	Days                 []DaySummaryResponse `json:"days" doc:"Per-day summaries for every day of the month"`
	TotalPagesRead       int                  `json:"total_pages_read" doc:"Sum of pages across the month"`
	TotalMinutes         int                  `json:"total_minutes" doc:"Sum of minutes across the month"`
	AveragePagesPerDay   float64              `json:"average_pages_per_day" doc:"Pages divided by days in month"`
	AverageMinutesPerDay float64              `json:"average_minutes_per_day" doc:"Minutes divided by days in month"`
	BookIDs              []string             `json:"book_ids" doc:"Distinct books touched, first-seen order"`
}

// GetMonthInput contains parameters for the month query.
type GetMonthInput struct {
	Year  int `path:"year" minimum:"1" doc:"Calendar year"`
	Month int `path:"month" minimum:"1" maximum:"12" doc:"Calendar month, 1-12"`
}

// MonthOutput wraps the month summary for Huma.
type MonthOutput struct {
	Body MonthSummaryResponse
}

// StreakResponse contains the current reading streak.
type StreakResponse struct {
	Streak int `json:"streak" doc:"Consecutive reading days ending today; 0 if nothing logged today"`
}

// StreakOutput wraps the streak response for Huma.
type StreakOutput struct {
	Body StreakResponse
}

// GetHeatmapInput contains parameters for the heatmap query.
type GetHeatmapInput struct {
	Year int `path:"year" minimum:"1" doc:"Calendar year"`
}

// HeatmapResponse contains the year's active days.
type HeatmapResponse struct {
	Year    int                   `json:"year" doc:"Calendar year"`
	Entries []domain.HeatmapEntry `json:"entries" doc:"One entry per day with pages read"`
}

// HeatmapOutput wraps the heatmap response for Huma.
type HeatmapOutput struct {
	Body HeatmapResponse
}

// MonthBooksOutput wraps the books-read-in-month response for Huma.
type MonthBooksOutput struct {
	Body ListBooksResponse
}

// === Handlers ===

func (s *Server) handleGetDay(ctx context.Context, input *GetDayInput) (*DayOutput, error) {
	date := time.Now()
	if input.Date != "" {
		parsed, err := time.ParseInLocation("2006-01-02", input.Date, time.Local)
		if err != nil {
			return nil, errors.Validationf("invalid date %q, expected YYYY-MM-DD", input.Date)
		}
		date = parsed
	}

	summary, err := s.services.Calendar.DayData(ctx, date)
	if err != nil {
		return nil, err
	}

	return &DayOutput{Body: toDaySummaryResponse(summary)}, nil
}

func (s *Server) handleGetMonth(ctx context.Context, input *GetMonthInput) (*MonthOutput, error) {
	summary, err := s.services.Calendar.MonthData(ctx, input.Year, time.Month(input.Month))
	if err != nil {
		return nil, err
	}

	days := make([]DaySummaryResponse, len(summary.Days))
	for i := range summary.Days {
		days[i] = toDaySummaryResponse(&summary.Days[i])
	}

	return &MonthOutput{Body: MonthSummaryResponse{
		Year:                 summary.Year,
		Month:                int(summary.Month),
		Days:                 days,
		TotalPagesRead:       summary.TotalPagesRead,
		TotalMinutes:         summary.TotalMinutes,
		AveragePagesPerDay:   summary.AveragePagesPerDay,
		AverageMinutesPerDay: summary.AverageMinutesPerDay,
		BookIDs:              summary.BookIDs,
	}}, nil
}

func (s *Server) handleGetStreak(ctx context.Context, _ *struct{}) (*StreakOutput, error) {
	streak, err := s.services.Calendar.CurrentStreak(ctx)
	if err != nil {
		return nil, err
	}

	return &StreakOutput{Body: StreakResponse{Streak: streak}}, nil
}

func (s *Server) handleGetHeatmap(ctx context.Context, input *GetHeatmapInput) (*HeatmapOutput, error) {
	entries, err := s.services.Calendar.ReadingHeatmap(ctx, input.Year)
	if err != nil {
		return nil, err
	}

	return &HeatmapOutput{Body: HeatmapResponse{Year: input.Year, Entries: entries}}, nil
}

func (s *Server) handleGetMonthBooks(ctx context.Context, input *GetMonthInput) (*MonthBooksOutput, error) {
	books, err := s.services.Calendar.BooksReadInMonth(ctx, input.Year, time.Month(input.Month))
	if err != nil {
		return nil, err
	}

	resp := make([]BookResponse, len(books))
	for i := range books {
		resp[i] = toBookResponse(&books[i])
	}

	return &MonthBooksOutput{Body: ListBooksResponse{Books: resp}}, nil
}

func toDaySummaryResponse(summary *domain.DaySummary) DaySummaryResponse {
	sessions := make([]SessionResponse, len(summary.Sessions))
	for i := range summary.Sessions {
		sessions[i] = toSessionResponse(&summary.Sessions[i])
	}

	return DaySummaryResponse{
		Date:           summary.Date.Format("2006-01-02"),
		Sessions:       sessions,
		TotalPagesRead: summary.TotalPagesRead,
		TotalMinutes:   summary.TotalMinutes,
		BookIDs:        summary.BookIDs,
	}
}
