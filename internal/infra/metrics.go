package infra

import (
	"sync/atomic"
	"time"
)

// Metrics provides lightweight observability without external dependencies.
// Uses atomic operations for thread-safety: the pipeline goroutine and the
// order-book refresh worker both record into the same instance.
type Metrics struct {
	// Counters
	ticksProcessed   atomic.Uint64
	decisionsBuy     atomic.Uint64
	decisionsSell    atomic.Uint64
	decisionsHold    atomic.Uint64
	snapshotSaves    atomic.Uint64
	snapshotFailures atomic.Uint64
	bookRefreshes    atomic.Uint64
	errorsTotal      atomic.Uint64

	// Tick latency tracking
	latencySumNs atomic.Int64
	latencyCount atomic.Uint64
	latencyMinNs atomic.Int64
	latencyMaxNs atomic.Int64
}

// GlobalMetrics is the singleton metrics instance.
var GlobalMetrics = &Metrics{}

// RecordTick records one processed tick with its latency.
func (m *Metrics) RecordTick(latencyNs int64) {
	m.ticksProcessed.Add(1)
	m.latencySumNs.Add(latencyNs)
	m.latencyCount.Add(1)

	for {
		min := m.latencyMinNs.Load()
		if min != 0 && latencyNs >= min {
			break
		}
		if m.latencyMinNs.CompareAndSwap(min, latencyNs) {
			break
		}
	}
	for {
		max := m.latencyMaxNs.Load()
		if latencyNs <= max {
			break
		}
		if m.latencyMaxNs.CompareAndSwap(max, latencyNs) {
			break
		}
	}
}

// RecordDecision records the adjudicated action of one tick.
func (m *Metrics) RecordDecision(action string) {
	switch action {
	case "BUY":
		m.decisionsBuy.Add(1)
	case "SELL":
		m.decisionsSell.Add(1)
	default:
		m.decisionsHold.Add(1)
	}
}

// RecordSnapshotSave records a successful snapshot write.
func (m *Metrics) RecordSnapshotSave() {
	m.snapshotSaves.Add(1)
}

// RecordSnapshotFailure records a skipped interval save.
func (m *Metrics) RecordSnapshotFailure() {
	m.snapshotFailures.Add(1)
}

// RecordBookRefresh records one completed order-book fetch-and-store.
func (m *Metrics) RecordBookRefresh() {
	m.bookRefreshes.Add(1)
}

// RecordError records an error occurrence.
func (m *Metrics) RecordError() {
	m.errorsTotal.Add(1)
}

// MetricsSnapshot is a point-in-time view of all metrics.
type MetricsSnapshot struct {
	TicksProcessed   uint64
	DecisionsBuy     uint64
	DecisionsSell    uint64
	DecisionsHold    uint64
	SnapshotSaves    uint64
	SnapshotFailures uint64
	BookRefreshes    uint64
	ErrorsTotal      uint64
	AvgLatencyNs     int64
	MinLatencyNs     int64
	MaxLatencyNs     int64
	Timestamp        time.Time
}

// Snapshot returns current metrics as a snapshot.
func (m *Metrics) Snapshot() MetricsSnapshot {
	var avgLatency int64
	count := m.latencyCount.Load()
	if count > 0 {
		avgLatency = m.latencySumNs.Load() / int64(count)
	}

	return MetricsSnapshot{
		TicksProcessed:   m.ticksProcessed.Load(),
		DecisionsBuy:     m.decisionsBuy.Load(),
		DecisionsSell:    m.decisionsSell.Load(),
		DecisionsHold:    m.decisionsHold.Load(),
		SnapshotSaves:    m.snapshotSaves.Load(),
		SnapshotFailures: m.snapshotFailures.Load(),
		BookRefreshes:    m.bookRefreshes.Load(),
		ErrorsTotal:      m.errorsTotal.Load(),
		AvgLatencyNs:     avgLatency,
		MinLatencyNs:     m.latencyMinNs.Load(),
		MaxLatencyNs:     m.latencyMaxNs.Load(),
		Timestamp:        time.Now(),
	}
}

// Reset clears all metrics (for testing).
func (m *Metrics) Reset() {
	m.ticksProcessed.Store(0)
	m.decisionsBuy.Store(0)
	m.decisionsSell.Store(0)
	m.decisionsHold.Store(0)
	m.snapshotSaves.Store(0)
	m.snapshotFailures.Store(0)
	m.bookRefreshes.Store(0)
	m.errorsTotal.Store(0)
	m.latencySumNs.Store(0)
	m.latencyCount.Store(0)
	m.latencyMinNs.Store(0)
	m.latencyMaxNs.Store(0)
}
