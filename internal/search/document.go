// Package search provides full-text search over the book catalog using
// Bleve, with fuzzy matching and tag faceting.
package search

import (
	"github.com/pageturnapp/pageturn-server/internal/domain"
)

// Document is the indexed representation of a book.
type Document struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Notes       string   `json:"notes,omitempty"`
	Tags        []string `json:"tags,omitempty"`
	TotalPages  int      `json:"total_pages"`
	Completed   bool     `json:"completed"`
	Rating      int      `json:"rating,omitempty"`
	DateStarted int64    `json:"date_started"` // Unix millis, for recency sorting
}

// ToMap converts the document to a map with lowercase field names.
// Bleve by default uses Go struct field names (capitalized), but our
// mapping uses lowercase names, so we convert explicitly.
func (d *Document) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":           d.ID,
		"title":        d.Title,
		"author":       d.Author,
		"total_pages":  d.TotalPages,
		"completed":    d.Completed,
		"date_started": d.DateStarted,
	}

	if d.Notes != "" {
		m["notes"] = d.Notes
	}
	if len(d.Tags) > 0 {
		m["tags"] = d.Tags
	}
	if d.Rating > 0 {
		m["rating"] = d.Rating
	}

	return m
}

// BookToDocument converts a domain Book to its indexed form.
func BookToDocument(book *domain.Book) *Document {
	doc := &Document{
		ID:          book.ID,
		Title:       book.Title,
		Author:      book.Author,
		Notes:       book.Notes,
		Tags:        book.Tags,
		TotalPages:  book.TotalPages,
		Completed:   book.IsCompleted(),
		DateStarted: book.DateStarted.UnixMilli(),
	}
	if book.Rating != nil {
		doc.Rating = *book.Rating
	}
	return doc
}
