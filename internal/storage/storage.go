// Package storage persists remembered records in a single SQLite table.
//
// SQLiteStore is the only implementation, built on pure-Go SQLite
// (modernc.org/sqlite). The table layout matches the one written by earlier
// NeuroCache releases, so existing neurocache.db files open without migration.
//
// Opening a store sets PRAGMA journal_mode=WAL, which SQLite records in the
// database header. A file created with a rollback journal (as the earlier
// Python module wrote them) is switched to WAL on first open and stays that
// way; while a store is open SQLite keeps -wal and -shm files beside it.
// Readers must use SQLite 3.7.0 or later.
package storage

import (
	"context"
	"errors"
	"time"
)

// ErrSerialization is returned when record metadata cannot be encoded.
var ErrSerialization = errors.New("metadata serialization failed")

// Record is one remembered value.
type Record struct {
	Key       string         `json:"key"`
	Value     string         `json:"value"`
	Metadata  map[string]any `json:"metadata"`
	Timestamp time.Time      `json:"timestamp"` // Time of the latest write.
}

// Store is the persistent storage interface.
type Store interface {
	// Get retrieves a record by key. Returns nil if not found.
	Get(ctx context.Context, key string) (*Record, error)

	// Put stores a record, replacing any existing record with the same key.
	Put(ctx context.Context, rec Record) error

	// Clear removes every record.
	Clear(ctx context.Context) error

	// Count returns the total number of records.
	Count(ctx context.Context) (int, error)

	// Close shuts down the store.
	Close() error
}
