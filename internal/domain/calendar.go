package domain

import "time"

// DaySummary aggregates the reading activity of a single calendar day.
// Sessions appear in encounter order: book-list order, then each book's
// own session order.
type DaySummary struct {
	Date           time.Time        `json:"date"`
	Sessions       []ReadingSession `json:"sessions"`
	TotalPagesRead int              `json:"total_pages_read"`
	TotalMinutes   int              `json:"total_minutes"`
	BookIDs        []string         `json:"book_ids"` // distinct, first-seen order
}

// MonthSummary aggregates a full calendar month of reading activity.
// Averages divide by the number of days in the month, not by days with
// activity, to express pace rather than per-session averages.
type MonthSummary struct {
	Year                 int          `json:"year"`
	Month                time.Month   `json:"month"`
	Days                 []DaySummary `json:"days"`
	TotalPagesRead       int          `json:"total_pages_read"`
	TotalMinutes         int          `json:"total_minutes"`
	AveragePagesPerDay   float64      `json:"average_pages_per_day"`
	AverageMinutesPerDay float64      `json:"average_minutes_per_day"`
	BookIDs              []string     `json:"book_ids"`
}

// HeatmapEntry is one active day in a year heatmap.
type HeatmapEntry struct {
	Date  string `json:"date"` // YYYY-MM-DD
	Count int    `json:"count"`
}
