package metrics

import (
	"sort"
)

// Summary provides a summary of metrics for a filter.
type Summary struct {
	Count          int     `json:"count"`
	SuccessCount   int     `json:"success_count"`
	ErrorCount     int     `json:"error_count"`
	TotalBytes     int     `json:"total_bytes"`
	AvgTextChars   float64 `json:"avg_text_chars"`
	AvgTimeSeconds float64 `json:"avg_time_seconds"`
}

// GetSummary returns a summary of metrics matching the filter.
func (r *Recorder) GetSummary(f Filter) *Summary {
	return summarize(r.List(f, 0))
}

func summarize(metrics []Metric) *Summary {
	s := &Summary{Count: len(metrics)}
	var chars int
	var seconds float64
	for _, m := range metrics {
		s.TotalBytes += m.Bytes
		chars += m.TextChars
		seconds += m.TotalSeconds
		if m.Success {
			s.SuccessCount++
		} else {
			s.ErrorCount++
		}
	}

	if s.Count > 0 {
		s.AvgTextChars = float64(chars) / float64(s.Count)
		s.AvgTimeSeconds = seconds / float64(s.Count)
	}
	return s
}

// SummaryByModel returns one summary per model for metrics matching the filter.
func (r *Recorder) SummaryByModel(f Filter) map[string]*Summary {
	byModel := make(map[string][]Metric)
	for _, m := range r.List(f, 0) {
		byModel[m.Model] = append(byModel[m.Model], m)
	}
	out := make(map[string]*Summary, len(byModel))
	for model, ms := range byModel {
		out[model] = summarize(ms)
	}
	return out
}

// DetailedStats provides statistics including latency percentiles and error breakdowns.
type DetailedStats struct {
	// Basic counts
	Count        int            `json:"count"`
	SuccessCount int            `json:"success_count"`
	ErrorCount   int            `json:"error_count"`
	ErrorTypes   map[string]int `json:"error_types,omitempty"`

	// Latency percentiles (seconds) over the whole session
	LatencyP50 float64 `json:"latency_p50"`
	LatencyP95 float64 `json:"latency_p95"`
	LatencyP99 float64 `json:"latency_p99"`
	LatencyAvg float64 `json:"latency_avg"`
	LatencyMin float64 `json:"latency_min"`
	LatencyMax float64 `json:"latency_max"`

	// Time to first chunk (seconds)
	FirstChunkP50 float64 `json:"first_chunk_p50"`
	FirstChunkP95 float64 `json:"first_chunk_p95"`

	AvgChunks float64 `json:"avg_chunks"`
	AvgBytes  float64 `json:"avg_bytes"`
}

// GetDetailedStats returns detailed statistics for metrics matching the filter.
func (r *Recorder) GetDetailedStats(f Filter) *DetailedStats {
	metrics := r.List(f, 0)
	stats := &DetailedStats{Count: len(metrics)}
	if len(metrics) == 0 {
		return stats
	}

	var latencies, firstChunks []float64
	var chunks, bytes int
	for _, m := range metrics {
		if m.Success {
			stats.SuccessCount++
		} else {
			stats.ErrorCount++
			if m.ErrorType != "" {
				if stats.ErrorTypes == nil {
					stats.ErrorTypes = make(map[string]int)
				}
				stats.ErrorTypes[m.ErrorType]++
			}
		}
		chunks += m.Chunks
		bytes += m.Bytes
		if m.TotalSeconds > 0 {
			latencies = append(latencies, m.TotalSeconds)
		}
		if m.FirstChunkSeconds > 0 {
			firstChunks = append(firstChunks, m.FirstChunkSeconds)
		}
	}

	count := float64(stats.Count)
	stats.AvgChunks = float64(chunks) / count
	stats.AvgBytes = float64(bytes) / count

	if len(latencies) > 0 {
		sort.Float64s(latencies)

		stats.LatencyMin = latencies[0]
		stats.LatencyMax = latencies[len(latencies)-1]

		var sum float64
		for _, l := range latencies {
			sum += l
		}
		stats.LatencyAvg = sum / float64(len(latencies))

		stats.LatencyP50 = percentile(latencies, 50)
		stats.LatencyP95 = percentile(latencies, 95)
		stats.LatencyP99 = percentile(latencies, 99)
	}

	if len(firstChunks) > 0 {
		sort.Float64s(firstChunks)
		stats.FirstChunkP50 = percentile(firstChunks, 50)
		stats.FirstChunkP95 = percentile(firstChunks, 95)
	}

	return stats
}

// percentile calculates the p-th percentile from a sorted slice of values.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if len(sorted) == 1 {
		return sorted[0]
	}

	// Calculate the index
	n := float64(len(sorted))
	idx := (p / 100.0) * (n - 1)

	// Interpolate between floor and ceil indices
	lower := int(idx)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	// Linear interpolation
	weight := idx - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}
