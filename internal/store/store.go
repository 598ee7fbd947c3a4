// Package store persists articles, users, and publishers as JSON documents
// in a Badger database. Each logical collection lives under its own key
// prefix and is accessed through filter-based read/write operations.
package store

import (
	"fmt"
	"log/slog"

	"github.com/dgraph-io/badger/v4"

	"github.com/newsdeskapp/newsdesk-server/internal/domain"
)

// Store wraps a Badger database instance.
type Store struct {
	db     *badger.DB
	logger *slog.Logger

	// Logical collections.
	Articles   *Collection[domain.Article]
	Users      *Collection[domain.User]
	Publishers *Collection[domain.Publisher]
}

// New opens the database at path and initializes the collections.
// The returned store is safe for concurrent use by many in-flight requests.
func New(path string, logger *slog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(path)
	opts.Logger = nil            // Disable Badger's internal logging
	opts.SyncWrites = true       // Ensure writes are synced to disk to prevent corruption on crashes
	opts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	store := &Store{
		db:     db,
		logger: logger,
	}

	store.Articles = NewCollection[domain.Article](store, "article:")

	// Users carry two unique secondary indexes: the identity-provider subject
	// (one record per uid) and the email, matched case-insensitively.
	store.Users = NewCollection[domain.User](store, "user:").
		WithIndex("uid", func(u *domain.User) string { return u.UID }, nil).
		WithIndex("email", func(u *domain.User) string { return u.Email }, normalizeEmail)

	store.Publishers = NewCollection[domain.Publisher](store, "publisher:").
		WithIndex("name", func(p *domain.Publisher) string { return p.Name }, nil)

	if logger != nil {
		logger.Info("Badger database opened successfully", "path", path)
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

// Ping verifies the database is readable. Used by the health endpoint.
func (s *Store) Ping() error {
	return s.db.View(func(*badger.Txn) error { return nil })
}
