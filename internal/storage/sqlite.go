package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
	CREATE TABLE IF NOT EXISTS memories (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		key TEXT UNIQUE NOT NULL,
		value TEXT NOT NULL,
		metadata TEXT,
		timestamp REAL NOT NULL
	)`

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	mu   sync.RWMutex
	db   *sql.DB
	path string
}

// NewSQLiteStore opens (or creates) a SQLite-backed store.
// Use ":memory:" for an in-memory database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}

	// A ":memory:" database exists only on the connection that created it.
	db.SetMaxOpenConns(1)

	// Enable WAL mode; commits stay durable under the default synchronous=FULL.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &SQLiteStore{db: db, path: path}, nil
}

// Path returns the database path the store was opened with.
func (s *SQLiteStore) Path() string {
	return s.path
}

// Get retrieves a record by key.
func (s *SQLiteStore) Get(ctx context.Context, key string) (*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var value string
	var metaJSON sql.NullString
	var ts float64

	err := s.db.QueryRowContext(ctx,
		"SELECT value, metadata, timestamp FROM memories WHERE key = ?",
		key,
	).Scan(&value, &metaJSON, &ts)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %q: %w", key, err)
	}

	rec := &Record{
		Key:       key,
		Value:     value,
		Metadata:  map[string]any{},
		Timestamp: fromEpoch(ts),
	}
	if metaJSON.Valid && metaJSON.String != "" {
		if err := json.Unmarshal([]byte(metaJSON.String), &rec.Metadata); err != nil {
			return nil, fmt.Errorf("get %q: decode metadata: %w", key, err)
		}
		if rec.Metadata == nil {
			// Rows written with a JSON "null" metadata column.
			rec.Metadata = map[string]any{}
		}
	}

	return rec, nil
}

// Put stores a record, replacing value, metadata and timestamp of any record
// with the same key. A zero Timestamp is stamped with the current time.
func (s *SQLiteStore) Put(ctx context.Context, rec Record) error {
	meta := rec.Metadata
	if meta == nil {
		meta = map[string]any{}
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return fmt.Errorf("put %q: %w: %v", rec.Key, ErrSerialization, err)
	}

	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO memories (key, value, metadata, timestamp)
		VALUES (?, ?, ?, ?)`,
		rec.Key, rec.Value, string(data), toEpoch(rec.Timestamp),
	)
	if err != nil {
		return fmt.Errorf("put %q: %w", rec.Key, err)
	}
	return nil
}

// Clear deletes every record.
func (s *SQLiteStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, "DELETE FROM memories"); err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	return nil
}

// Count returns the total number of stored records.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM memories").Scan(&count); err != nil {
		return 0, fmt.Errorf("count: %w", err)
	}
	return count, nil
}

// Close shuts down the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// toEpoch converts t to fractional seconds since the Unix epoch.
func toEpoch(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

func fromEpoch(ts float64) time.Time {
	sec, frac := math.Modf(ts)
	return time.Unix(int64(sec), int64(frac*1e9))
}
