package store

import (
	"errors"
	"sort"
	"sync"
)

// ErrNotFound marks lookups of documents that were never stored.
var ErrNotFound = errors.New("not found")

// EmbedStats keeps the most recent per-chunk embedding latencies in a fixed
// ring and summarizes them on demand.
type EmbedStats struct {
	mu     sync.Mutex
	ring   []int64
	next   int
	filled bool
}

// StatsSnapshot is a point-in-time aggregate of embedding latencies, in
// milliseconds per chunk.
type StatsSnapshot struct {
	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms int64   `json:"p50_ms"`
	P95Ms int64   `json:"p95_ms"`
}

// NewEmbedStats creates a tracker keeping the last capacity samples.
func NewEmbedStats(capacity int) *EmbedStats {
	if capacity <= 0 {
		capacity = 256
	}
	return &EmbedStats{ring: make([]int64, capacity)}
}

// Record adds one latency sample, evicting the oldest when full.
func (s *EmbedStats) Record(ms int64) {
	if ms < 0 {
		ms = 0
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ring[s.next] = ms
	s.next++
	if s.next == len(s.ring) {
		s.next = 0
		s.filled = true
	}
}

// Snapshot summarizes the retained samples.
func (s *EmbedStats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	n := s.next
	if s.filled {
		n = len(s.ring)
	}
	values := make([]int64, n)
	copy(values, s.ring[:n])
	s.mu.Unlock()

	if n == 0 {
		return StatsSnapshot{}
	}
	sort.Slice(values, func(i, j int) bool { return values[i] < values[j] })

	var sum int64
	for _, v := range values {
		sum += v
	}
	return StatsSnapshot{
		Count: n,
		MinMs: values[0],
		MaxMs: values[n-1],
		AvgMs: float64(sum) / float64(n),
		P50Ms: values[n/2],
		P95Ms: values[(n*95)/100],
	}
}
