package metrics

import "time"

// Filter specifies query filters. Zero fields match everything.
type Filter struct {
	Provider string
	Model    string
	After    time.Time
	Before   time.Time
	Success  *bool // nil = any, true = success only, false = errors only
}

// List returns the metrics matching the filter, newest first.
// A limit of 0 returns all of them.
func (r *Recorder) List(f Filter, limit int) []Metric {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []Metric
	for i := 0; i < r.count; i++ {
		idx := (r.next - 1 - i + len(r.ring)) % len(r.ring)
		m := r.ring[idx]
		if !m.matches(f) {
			continue
		}
		out = append(out, m)
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out
}

// Models returns the distinct models seen, in no particular order.
func (r *Recorder) Models() []string {
	seen := map[string]bool{}
	var models []string
	for _, m := range r.List(Filter{}, 0) {
		if m.Model != "" && !seen[m.Model] {
			seen[m.Model] = true
			models = append(models, m.Model)
		}
	}
	return models
}
