package metrics

import (
	"sync"
	"time"
)

// DefaultCapacity is the number of metrics a Recorder keeps by default.
const DefaultCapacity = 1000

// Recorder keeps the most recent metrics in memory. Safe for concurrent use.
type Recorder struct {
	mu    sync.RWMutex
	ring  []Metric
	next  int
	count int

	// totals survive ring eviction
	total    int
	failures int
}

// NewRecorder creates a recorder that keeps the last capacity metrics.
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Recorder{ring: make([]Metric, capacity)}
}

// Record stores a single metric, evicting the oldest when full.
func (r *Recorder) Record(m Metric) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.ring[r.next] = m
	r.next = (r.next + 1) % len(r.ring)
	if r.count < len(r.ring) {
		r.count++
	}
	r.total++
	if !m.Success {
		r.failures++
	}
}

// Totals returns the number of corrections and failures since the recorder
// was created, including evicted ones.
func (r *Recorder) Totals() (total, failures int) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.total, r.failures
}

// Len returns the number of metrics currently held.
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.count
}
