// Package store provides durable persistence for the PageTurn library on
// top of Badger. Collections are stored as whole JSON blobs under fixed
// keys; every save rewrites the full collection.
package store

import (
	"encoding/json/v2"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/pageturnapp/pageturn-server/internal/domain"
)

// Storage keys for the persisted collections. The sessions key exists in
// the storage contract but sessions live embedded in their books; it is
// only written by callers that explicitly maintain a standalone copy.
const (
	KeyBooks    = "library:books"
	KeySessions = "library:sessions"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger
}

// New creates a new Store instance with the given database path.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
	}

	return &Store{db: db, logger: logger}, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// LoadBooks loads the full book collection. A missing key or an
// unreadable blob yields an empty collection rather than an error; there
// is no way to tell "no data yet" apart from a damaged blob, and the
// caller is the sole writer so the next save overwrites either way.
func (s *Store) LoadBooks() ([]domain.Book, error) {
	var books []domain.Book
	if err := s.get([]byte(KeyBooks), &books); err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) && s.logger != nil {
			s.logger.Warn("failed to load book collection, starting empty", "error", err)
		}
		return []domain.Book{}, nil
	}
	if books == nil {
		books = []domain.Book{}
	}
	return books, nil
}

// SaveBooks persists the full book collection, replacing whatever was
// stored before.
func (s *Store) SaveBooks(books []domain.Book) error {
	if err := s.set([]byte(KeyBooks), books); err != nil {
		return fmt.Errorf("failed to save book collection: %w", err)
	}
	return nil
}

// LoadSessions loads the standalone session collection. Follows the same
// missing-or-unreadable-means-empty rule as LoadBooks.
func (s *Store) LoadSessions() ([]domain.ReadingSession, error) {
	var sessions []domain.ReadingSession
	if err := s.get([]byte(KeySessions), &sessions); err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) && s.logger != nil {
			s.logger.Warn("failed to load session collection, starting empty", "error", err)
		}
		return []domain.ReadingSession{}, nil
	}
	if sessions == nil {
		sessions = []domain.ReadingSession{}
	}
	return sessions, nil
}

// SaveSessions persists the standalone session collection.
func (s *Store) SaveSessions(sessions []domain.ReadingSession) error {
	if err := s.set([]byte(KeySessions), sessions); err != nil {
		return fmt.Errorf("failed to save session collection: %w", err)
	}
	return nil
}

// ClearAllData removes both collection keys. Idempotent.
func (s *Store) ClearAllData() error {
	if err := s.delete([]byte(KeyBooks)); err != nil {
		return fmt.Errorf("failed to clear book collection: %w", err)
	}
	if err := s.delete([]byte(KeySessions)); err != nil {
		return fmt.Errorf("failed to clear session collection: %w", err)
	}
	if s.logger != nil {
		s.logger.Info("cleared all library data")
	}
	return nil
}

// Helper methods for database operations.

// get retrieves a value by key.
func (s *Store) get(key []byte, dest any) error {
	return s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key)
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, dest)
		})
	})
}

// set stores a value by key.
func (s *Store) set(key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(key, data)
	})
}

// delete removes a key from the database.
func (s *Store) delete(key []byte) error {
	return s.db.Update(func(txn *badger.Txn) error {
		err := txn.Delete(key)
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		return err
	})
}

// exists checks if a key exists.
func (s *Store) exists(key []byte) (bool, error) {
	err := s.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// HasBooks reports whether a book collection has ever been saved.
func (s *Store) HasBooks() (bool, error) {
	return s.exists([]byte(KeyBooks))
}
