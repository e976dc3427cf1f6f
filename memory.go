// Package neurocache is a small durable key-value memory for agents.
//
// A Memory maps string keys to string values plus optional JSON metadata,
// stored in one SQLite file that survives process restarts:
//
//	mem, err := neurocache.Open("")
//	if err != nil {
//		return err
//	}
//	defer mem.Close()
//
//	mem.Remember("user_name", "Himanshu", nil)
//	name, ok := mem.Recall("user_name")
//
// Every write commits before it returns. Faults are logged and returned;
// Recall swallows them and reports the key as absent.
package neurocache

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/hemansnation/NeuroCache/internal/observability"
	"github.com/hemansnation/NeuroCache/internal/storage"
)

// DefaultPath is the database file used when Open is given an empty path.
const DefaultPath = "neurocache.db"

// Record is a stored value with its metadata and write time.
type Record = storage.Record

// LatencySummary holds latency statistics in milliseconds for one operation.
type LatencySummary = observability.Summary

// Option configures a Memory at open time.
type Option func(*Memory)

// WithLogger sets the logger used for diagnostics. The logger type lives in
// an internal package, so this option only serves commands inside this
// module; other callers use WithLogOutput.
func WithLogger(l *observability.Logger) Option {
	return func(m *Memory) { m.log = l }
}

// WithLogOutput sends JSON diagnostics at or above level to w.
// Use io.Discard to silence them.
func WithLogOutput(w io.Writer, level slog.Level) Option {
	return func(m *Memory) { m.log = observability.NewLogger(m.source, w, level) }
}

// WithMetrics sets the collector that receives operation metrics. Like
// WithLogger it is only usable inside this module; other callers read
// metrics through Stats and Latency.
func WithMetrics(c *observability.MetricsCollector) Option {
	return func(m *Memory) { m.metrics = c }
}

// WithClock overrides the time source used to stamp writes.
func WithClock(now func() time.Time) Option {
	return func(m *Memory) { m.now = now }
}

// Memory is a handle on one NeuroCache database. It is meant for use by a
// single goroutine at a time.
type Memory struct {
	store   *storage.SQLiteStore
	log     *observability.Logger
	metrics *observability.MetricsCollector
	now     func() time.Time
	handle  string
	source  string

	closed    atomic.Bool
	closeOnce sync.Once
}

// Open opens (or creates) the database at path and ensures the memories
// table exists. An empty path means DefaultPath. Existing records are kept.
func Open(path string, opts ...Option) (*Memory, error) {
	if path == "" {
		path = DefaultPath
	}

	m := &Memory{
		now:    time.Now,
		handle: uuid.NewString(),
		source: path,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = observability.NewLogger(m.source, nil, slog.LevelInfo)
	}
	if m.metrics == nil {
		m.metrics = observability.NewMetricsCollector(1024)
	}
	m.log = m.log.With("handle", m.handle)

	start := time.Now()
	store, err := storage.NewSQLiteStore(path)
	if err != nil {
		err = classify(err)
		m.metrics.Observe(observability.OpOpen, start, err)
		m.log.Fault(string(observability.OpOpen), "", err)
		return nil, err
	}
	m.metrics.Observe(observability.OpOpen, start, nil)
	m.store = store
	m.log.Debug("memory opened", "path", path)
	return m, nil
}

// With opens the database at path, passes it to fn and closes it exactly
// once when fn returns or panics. The close error is joined with fn's.
func With(path string, fn func(*Memory) error, opts ...Option) (err error) {
	m, err := Open(path, opts...)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, m.Close())
	}()
	return fn(m)
}

// Path returns the database path.
func (m *Memory) Path() string {
	return m.store.Path()
}

// Remember stores value under key, replacing the value, metadata and
// timestamp of any existing record. Nil metadata is stored as an empty map.
func (m *Memory) Remember(key, value string, metadata map[string]any) error {
	if key == "" {
		return ErrEmptyKey
	}
	return m.do(observability.OpRemember, key, func(ctx context.Context) error {
		return m.store.Put(ctx, Record{
			Key:       key,
			Value:     value,
			Metadata:  metadata,
			Timestamp: m.now(),
		})
	})
}

// Recall returns the value stored under key. Faults are logged and reported
// as a missing key.
func (m *Memory) Recall(key string) (string, bool) {
	value, ok, _ := m.Get(key)
	return value, ok
}

// Get is Recall that also returns the fault, if any.
func (m *Memory) Get(key string) (string, bool, error) {
	rec, err := m.lookup(observability.OpRecall, key)
	if err != nil || rec == nil {
		m.metrics.Increment(observability.CounterRecallMiss)
		return "", false, err
	}
	m.metrics.Increment(observability.CounterRecallHit)
	return rec.Value, true, nil
}

// Lookup returns the full record for key, or nil if there is none.
func (m *Memory) Lookup(key string) (*Record, error) {
	return m.lookup(observability.OpLookup, key)
}

func (m *Memory) lookup(op observability.Op, key string) (*Record, error) {
	var rec *Record
	err := m.do(op, key, func(ctx context.Context) error {
		var err error
		rec, err = m.store.Get(ctx, key)
		return err
	})
	return rec, err
}

// Clear deletes every record.
func (m *Memory) Clear() error {
	return m.do(observability.OpClear, "", m.store.Clear)
}

// Len returns the number of stored records.
func (m *Memory) Len() (int, error) {
	var n int
	err := m.do(observability.OpCount, "", func(ctx context.Context) error {
		var err error
		n, err = m.store.Count(ctx)
		return err
	})
	return n, err
}

// Stats returns a snapshot of the operation counters.
func (m *Memory) Stats() map[string]int64 {
	return m.metrics.Snapshot()
}

// Latency summarizes the latencies of op ("open", "remember", "recall",
// "lookup", "clear" or "count") observed by this handle's collector.
func (m *Memory) Latency(op string) LatencySummary {
	return m.metrics.Summarize(observability.Op(op), time.Time{})
}

// Close releases the database handle. Calling it again is a no-op.
func (m *Memory) Close() error {
	var err error
	m.closeOnce.Do(func() {
		m.closed.Store(true)
		if cerr := m.store.Close(); cerr != nil {
			err = classify(cerr)
			m.log.Fault("close", "", err)
			return
		}
		m.log.Debug("memory closed")
	})
	return err
}

// do runs one storage operation with fault logging and metrics.
func (m *Memory) do(op observability.Op, key string, fn func(context.Context) error) error {
	start := time.Now()
	var err error
	if m.closed.Load() {
		err = ErrClosed
	} else if err = fn(context.Background()); err != nil {
		err = classify(err)
	}
	m.metrics.Observe(op, start, err)
	if err != nil {
		m.log.Fault(string(op), key, err)
	}
	return err
}
