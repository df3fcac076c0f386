// Package metrics provides usage tracking for correction requests.
//
// Metrics live in memory for the life of the server process; the most
// recent ones are kept in a fixed-size ring.
package metrics

import "time"

// Error types recorded for failed corrections.
const (
	ErrorTypeTimeout       = "timeout"
	ErrorTypeCanceled      = "canceled"
	ErrorTypeNonConforming = "non_conforming"
	ErrorTypeUpstream      = "upstream"
)

// Metric represents a single correction session.
type Metric struct {
	RequestID string `json:"request_id,omitempty"`

	// Provider info
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`

	// Input and output size
	TextChars int `json:"text_chars"`
	Chunks    int `json:"chunks"`
	Bytes     int `json:"bytes"`

	// Timing
	FirstChunkSeconds float64 `json:"first_chunk_seconds,omitempty"` // 0 when nothing arrived
	TotalSeconds      float64 `json:"total_seconds"`

	// Status
	Success   bool   `json:"success"`
	ErrorType string `json:"error_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// matches reports whether m passes the filter.
func (m *Metric) matches(f Filter) bool {
	if f.Provider != "" && m.Provider != f.Provider {
		return false
	}
	if f.Model != "" && m.Model != f.Model {
		return false
	}
	if !f.After.IsZero() && !m.CreatedAt.After(f.After) {
		return false
	}
	if !f.Before.IsZero() && !m.CreatedAt.Before(f.Before) {
		return false
	}
	if f.Success != nil && m.Success != *f.Success {
		return false
	}
	return true
}
