// Package domain contains the core business entities and domain logic for the PageTurn reading library.
package domain

import (
	"strings"
	"time"
)

// Book represents a book in the personal library together with its
// reading sessions and progress state.
type Book struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Author          string           `json:"author"`
	TotalPages      int              `json:"total_pages"`
	CurrentPage     int              `json:"current_page"`
	CoverImageURL   string           `json:"cover_image_url,omitempty"`
	DateStarted     time.Time        `json:"date_started"`
	DateCompleted   *time.Time       `json:"date_completed,omitempty"`
	ReadingSessions []ReadingSession `json:"reading_sessions"`
	Notes           string           `json:"notes,omitempty"`
	Rating          *int             `json:"rating,omitempty"` // 1-5, unset until the reader rates
	Tags            []string         `json:"tags,omitempty"`
}

// ReadingSession records one sitting with a book: the page range covered,
// when it happened, and how long it took.
type ReadingSession struct {
	ID        string    `json:"id"`
	BookID    string    `json:"book_id"`
	StartPage int       `json:"start_page"`
	EndPage   int       `json:"end_page"`
	Date      time.Time `json:"date"`
	Duration  int       `json:"duration"` // minutes
	Notes     string    `json:"notes,omitempty"`
}

// PagesRead returns the number of pages covered by the session.
// A session that ends before it starts yields a negative count; callers
// that aggregate sessions sum these values as-is.
func (s *ReadingSession) PagesRead() int {
	return s.EndPage - s.StartPage
}

// Speed returns the reading speed in pages per minute, or 0 when no time
// was recorded.
func (s *ReadingSession) Speed() float64 {
	if s.Duration <= 0 {
		return 0
	}
	return float64(s.PagesRead()) / float64(s.Duration)
}

// IsCompleted returns true once the reader has reached the last page.
func (b *Book) IsCompleted() bool {
	return b.DateCompleted != nil
}

// Progress returns the fraction of the book read, between 0 and 1.
func (b *Book) Progress() float64 {
	if b.TotalPages <= 0 {
		return 0
	}
	p := float64(b.CurrentPage) / float64(b.TotalPages)
	if p > 1 {
		return 1
	}
	if p < 0 {
		return 0
	}
	return p
}

// PagesRemaining returns how many pages are left, never negative.
func (b *Book) PagesRemaining() int {
	remaining := b.TotalPages - b.CurrentPage
	if remaining < 0 {
		return 0
	}
	return remaining
}

// AddTag adds a normalized tag to the book. Tags are trimmed, lowercased,
// and deduplicated; empty tags are ignored.
func (b *Book) AddTag(tag string) {
	tag = NormalizeTag(tag)
	if tag == "" {
		return
	}
	for _, existing := range b.Tags {
		if existing == tag {
			return
		}
	}
	b.Tags = append(b.Tags, tag)
}

// HasTag reports whether the book carries the given tag, after normalization.
func (b *Book) HasTag(tag string) bool {
	tag = NormalizeTag(tag)
	for _, existing := range b.Tags {
		if existing == tag {
			return true
		}
	}
	return false
}

// NormalizeTag trims whitespace and lowercases a tag.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
