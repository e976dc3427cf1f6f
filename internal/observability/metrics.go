package observability

import (
	"sort"
	"sync"
	"time"
)

// Op names a store operation.
type Op string

const (
	OpOpen     Op = "open"
	OpRemember Op = "remember"
	OpRecall   Op = "recall"
	OpLookup   Op = "lookup"
	OpClear    Op = "clear"
	OpCount    Op = "count"
)

// Counter names maintained alongside the per-operation counters.
const (
	CounterFaults     = "faults"
	CounterRecallHit  = "recall_hit"
	CounterRecallMiss = "recall_miss"
)

// MetricPoint is a single observed operation.
type MetricPoint struct {
	Op        Op        `json:"op"`
	LatencyMS float64   `json:"latency_ms"`
	Failed    bool      `json:"failed,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// MetricsCollector collects in-memory metrics with rolling window.
type MetricsCollector struct {
	mu       sync.RWMutex
	points   []MetricPoint
	maxSize  int // Ring buffer capacity
	counters map[string]int64
}

// NewMetricsCollector creates a collector with a max ring buffer size.
func NewMetricsCollector(maxSize int) *MetricsCollector {
	if maxSize <= 0 {
		maxSize = 10000
	}
	return &MetricsCollector{
		points:   make([]MetricPoint, 0, maxSize),
		maxSize:  maxSize,
		counters: make(map[string]int64),
	}
}

// Observe records one finished operation that began at start. The operation
// counter is always bumped; the faults counter only when err is non-nil.
func (c *MetricsCollector) Observe(op Op, start time.Time, err error) {
	now := time.Now()
	point := MetricPoint{
		Op:        op,
		LatencyMS: float64(now.Sub(start)) / float64(time.Millisecond),
		Failed:    err != nil,
		Timestamp: now,
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.points) >= c.maxSize {
		// Shift left (drop oldest).
		copy(c.points, c.points[1:])
		c.points[len(c.points)-1] = point
	} else {
		c.points = append(c.points, point)
	}

	c.counters[string(op)]++
	if err != nil {
		c.counters[CounterFaults]++
	}
}

// Increment increments a named counter.
func (c *MetricsCollector) Increment(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counters[name]++
}

// Query returns points for op observed at or after since.
// If since is zero, returns all points of this op.
func (c *MetricsCollector) Query(op Op, since time.Time) []MetricPoint {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var result []MetricPoint
	for _, p := range c.points {
		if p.Op != op {
			continue
		}
		if !since.IsZero() && p.Timestamp.Before(since) {
			continue
		}
		result = append(result, p)
	}
	return result
}

// Summary holds aggregate latency statistics in milliseconds.
type Summary struct {
	Count  int     `json:"count"`
	Failed int     `json:"failed"`
	Mean   float64 `json:"mean"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
	P50    float64 `json:"p50"`
	P95    float64 `json:"p95"`
	P99    float64 `json:"p99"`
}

// Summarize returns latency statistics for op.
func (c *MetricsCollector) Summarize(op Op, since time.Time) Summary {
	points := c.Query(op, since)
	if len(points) == 0 {
		return Summary{}
	}

	values := make([]float64, len(points))
	sum := 0.0
	failed := 0
	for i, p := range points {
		values[i] = p.LatencyMS
		sum += p.LatencyMS
		if p.Failed {
			failed++
		}
	}
	sort.Float64s(values)

	return Summary{
		Count:  len(values),
		Failed: failed,
		Mean:   sum / float64(len(values)),
		Min:    values[0],
		Max:    values[len(values)-1],
		P50:    percentile(values, 0.50),
		P95:    percentile(values, 0.95),
		P99:    percentile(values, 0.99),
	}
}

// Snapshot returns a copy of current counters.
func (c *MetricsCollector) Snapshot() map[string]int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	snap := make(map[string]int64, len(c.counters))
	for k, v := range c.counters {
		snap[k] = v
	}
	return snap
}

// percentile computes the p-th percentile from sorted values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := p * float64(len(sorted)-1)
	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}
	frac := idx - float64(lower)
	return sorted[lower]*(1-frac) + sorted[upper]*frac
}
