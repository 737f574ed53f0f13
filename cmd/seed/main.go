// Package main provides a tool to seed the database with test reading data.
//
// This creates a handful of books with back-dated reading sessions to
// exercise the calendar, streak, and heatmap features.
//
// Usage:
//
//	DATA_PATH=~/PageTurn/data go run ./cmd/seed
//	DATA_PATH=~/PageTurn/data go run ./cmd/seed --days 60
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/pageturnapp/pageturn-server/internal/domain"
	"github.com/pageturnapp/pageturn-server/internal/id"
	"github.com/pageturnapp/pageturn-server/internal/store"
)

var days = flag.Int("days", 30, "Number of days of reading history to generate")

type seedBook struct {
	title      string
	author     string
	totalPages int
	tags       []string
}

var catalog = []seedBook{
	{"Kindred", "Octavia E. Butler", 287, []string{"fiction", "classic"}},
	{"The Dispossessed", "Ursula K. Le Guin", 387, []string{"fiction", "sci-fi"}},
	{"Thinking, Fast and Slow", "Daniel Kahneman", 499, []string{"non-fiction", "psychology"}},
	{"Piranesi", "Susanna Clarke", 245, []string{"fiction", "fantasy"}},
	{"The Soul of a New Machine", "Tracy Kidder", 293, []string{"non-fiction", "tech"}},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/PageTurn/data")
	}
	dbPath := filepath.Join(dataPath, "db")

	fmt.Printf("Opening database at: %s\n", dbPath)

	s, err := store.New(dbPath, nil)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	existing, err := s.LoadBooks()
	if err != nil {
		log.Fatalf("Failed to load books: %v", err)
	}
	if len(existing) > 0 {
		log.Fatalf("Database already contains %d books. Refusing to seed over existing data.", len(existing))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	now := time.Now()

	books := make([]domain.Book, 0, len(catalog))
	for _, sb := range catalog {
		book := domain.Book{
			ID:              id.MustGenerate("book"),
			Title:           sb.title,
			Author:          sb.author,
			TotalPages:      sb.totalPages,
			DateStarted:     now.AddDate(0, 0, -*days),
			ReadingSessions: []domain.ReadingSession{},
			Tags:            sb.tags,
		}
		books = append(books, book)
	}

	// Walk the history forward, reading one random book most days.
	sessions := 0
	for d := *days; d >= 0; d-- {
		// Leave occasional gaps so streaks are realistic.
		if rng.Intn(10) < 2 {
			continue
		}

		book := &books[rng.Intn(len(books))]
		if book.IsCompleted() {
			continue
		}

		pages := 10 + rng.Intn(30)
		day := now.AddDate(0, 0, -d)
		date := time.Date(day.Year(), day.Month(), day.Day(), 20, 0, 0, 0, time.Local)

		session := domain.ReadingSession{
			ID:        id.MustGenerate("session"),
			BookID:    book.ID,
			StartPage: book.CurrentPage,
			EndPage:   book.CurrentPage + pages,
			Date:      date,
			Duration:  20 + rng.Intn(40),
		}
		book.ReadingSessions = append(book.ReadingSessions, session)
		book.CurrentPage = session.EndPage
		if book.CurrentPage >= book.TotalPages && book.DateCompleted == nil {
			completed := session.Date
			book.DateCompleted = &completed
		}
		sessions++
	}

	if err := s.SaveBooks(books); err != nil {
		log.Fatalf("Failed to save books: %v", err)
	}

	fmt.Printf("Seeded %d books with %d reading sessions over %d days\n", len(books), sessions, *days)
	for _, b := range books {
		status := fmt.Sprintf("%d/%d pages", b.CurrentPage, b.TotalPages)
		if b.IsCompleted() {
			status = "completed"
		}
		fmt.Printf("  %-30s %s\n", b.Title, status)
	}
}
