package input

import (
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

const maxLatencySamples = 1000

// Metrics tracks routing counts and latency.
type Metrics struct {
	routes      [routeCount]atomic.Uint64
	insertTotal atomic.Uint64
	writeTotal  atomic.Uint64
	writeErrors atomic.Uint64

	mu         sync.Mutex
	latencies  []time.Duration
	latencyIdx int

	peakLatency atomic.Int64
	startTime   time.Time
	enabled     atomic.Bool
}

// NewMetrics creates a new metrics tracker.
func NewMetrics() *Metrics {
	m := &Metrics{
		latencies: make([]time.Duration, maxLatencySamples),
		startTime: time.Now(),
	}
	m.enabled.Store(true)
	return m
}

// SetEnabled enables or disables metrics collection.
func (m *Metrics) SetEnabled(enabled bool) {
	m.enabled.Store(enabled)
}

// IsEnabled returns whether metrics collection is enabled.
func (m *Metrics) IsEnabled() bool {
	return m.enabled.Load()
}

// RecordInsert records a routed text unit with its processing time.
func (m *Metrics) RecordInsert(route Route, latency time.Duration) {
	if !m.enabled.Load() {
		return
	}

	m.insertTotal.Add(1)
	if route < routeCount {
		m.routes[route].Add(1)
	}

	latencyNs := latency.Nanoseconds()
	for {
		current := m.peakLatency.Load()
		if latencyNs <= current {
			break
		}
		if m.peakLatency.CompareAndSwap(current, latencyNs) {
			break
		}
	}

	m.mu.Lock()
	m.latencies[m.latencyIdx] = latency
	m.latencyIdx = (m.latencyIdx + 1) % maxLatencySamples
	m.mu.Unlock()
}

// RecordWrite records a write-out to the session.
func (m *Metrics) RecordWrite(err error) {
	if !m.enabled.Load() {
		return
	}
	m.writeTotal.Add(1)
	if err != nil {
		m.writeErrors.Add(1)
	}
}

// Route returns the number of text units handled by route.
func (m *Metrics) Route(route Route) uint64 {
	if route >= routeCount {
		return 0
	}
	return m.routes[route].Load()
}

// MetricsSnapshot holds a point-in-time view of metrics.
type MetricsSnapshot struct {
	InsertTotal uint64
	WriteTotal  uint64
	WriteErrors uint64
	Routes      map[Route]uint64

	AvgLatency  time.Duration
	MaxLatency  time.Duration
	P99Latency  time.Duration
	PeakLatency time.Duration

	Uptime time.Duration
}

// Snapshot returns a point-in-time view of all metrics.
func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	latencies := make([]time.Duration, len(m.latencies))
	copy(latencies, m.latencies)
	start := m.startTime
	m.mu.Unlock()

	snap := MetricsSnapshot{
		InsertTotal: m.insertTotal.Load(),
		WriteTotal:  m.writeTotal.Load(),
		WriteErrors: m.writeErrors.Load(),
		Routes:      make(map[Route]uint64, routeCount),
		PeakLatency: time.Duration(m.peakLatency.Load()),
		Uptime:      time.Since(start),
	}
	for r := Route(0); r < routeCount; r++ {
		if n := m.routes[r].Load(); n > 0 {
			snap.Routes[r] = n
		}
	}
	snap.AvgLatency, snap.MaxLatency, snap.P99Latency = calculateLatencyStats(latencies)
	return snap
}

// calculateLatencyStats computes average, max, and p99 from recorded samples.
func calculateLatencyStats(latencies []time.Duration) (avg, maxLat, p99 time.Duration) {
	valid := make([]time.Duration, 0, len(latencies))
	for _, l := range latencies {
		if l > 0 {
			valid = append(valid, l)
		}
	}
	if len(valid) == 0 {
		return 0, 0, 0
	}

	var sum time.Duration
	for _, l := range valid {
		sum += l
		if l > maxLat {
			maxLat = l
		}
	}
	avg = sum / time.Duration(len(valid))

	slices.Sort(valid)
	idx := int(float64(len(valid)) * 0.99)
	if idx >= len(valid) {
		idx = len(valid) - 1
	}
	p99 = valid[idx]

	return avg, maxLat, p99
}

// Reset clears all metrics.
func (m *Metrics) Reset() {
	for i := range m.routes {
		m.routes[i].Store(0)
	}
	m.insertTotal.Store(0)
	m.writeTotal.Store(0)
	m.writeErrors.Store(0)
	m.peakLatency.Store(0)

	m.mu.Lock()
	m.latencies = make([]time.Duration, maxLatencySamples)
	m.latencyIdx = 0
	m.startTime = time.Now()
	m.mu.Unlock()
}
