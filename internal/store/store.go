// Package store implements the storage collaborator for the library engine
// on top of an embedded Badger key-value database.
package store

import (
	"context"
	"encoding/json/v2"
	"fmt"
	"log/slog"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/bookwormapp/bookworm-server/internal/domain"
)

// Options configures the underlying database.
type Options struct {
	// Path is the directory holding the database files.
	Path string
	// SyncWrites forces fsync on every write.
	SyncWrites bool
}

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Generic entities
	Entries *Entity[domain.ShelfEntry]
	Goals   *Entity[domain.ReadingGoal]
	Books   *Entity[domain.Book]
	Genres  *Entity[domain.Genre]
}

// New opens a Store at the given path.
func New(opts Options, logger *slog.Logger) (*Store, error) {
	badgerOpts := badger.DefaultOptions(opts.Path)
	badgerOpts.Logger = nil // Disable Badger's internal logging
	badgerOpts.SyncWrites = opts.SyncWrites
	badgerOpts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(badgerOpts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	// Initialize generic entities
	store.initEntries()
	store.initGoals()
	store.initBooks()
	store.initGenres()

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", opts.Path)
	}

	return store, nil
}

// Close gracefully closes the database connection.
func (s *Store) Close() error {
	if s.logger != nil {
		s.logger.Info("Closing database connection")
	}
	return s.db.Close()
}

// RunGC runs value-log garbage collection on the given interval until the
// context is canceled. Call in a goroutine at startup.
func (s *Store) RunGC(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			// Rerun until a cycle reclaims nothing.
			for {
				if err := s.db.RunValueLogGC(0.5); err != nil {
					break
				}
			}
		case <-ctx.Done():
			return
		}
	}
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

