package metrics

import (
	"math"
	"testing"
	"time"
)

func TestRecorder_RingEviction(t *testing.T) {
	r := NewRecorder(3)
	for i := 1; i <= 5; i++ {
		r.Record(Metric{Chunks: i, Success: i != 2})
	}

	if r.Len() != 3 {
		t.Fatalf("Len = %d, want 3", r.Len())
	}
	got := r.List(Filter{}, 0)
	if len(got) != 3 || got[0].Chunks != 5 || got[2].Chunks != 3 {
		t.Errorf("List = %+v, want newest first 5,4,3", got)
	}
	total, failures := r.Totals()
	if total != 5 || failures != 1 {
		t.Errorf("Totals = %d, %d", total, failures)
	}
}

func TestRecorder_ListFilter(t *testing.T) {
	r := NewRecorder(10)
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	r.Record(Metric{Model: "a", Success: true, CreatedAt: base})
	r.Record(Metric{Model: "b", Success: false, CreatedAt: base.Add(time.Minute)})
	r.Record(Metric{Model: "a", Success: false, CreatedAt: base.Add(2 * time.Minute)})

	if n := len(r.List(Filter{Model: "a"}, 0)); n != 2 {
		t.Errorf("model filter: %d", n)
	}
	failed := false
	if n := len(r.List(Filter{Success: &failed}, 0)); n != 2 {
		t.Errorf("success filter: %d", n)
	}
	if n := len(r.List(Filter{After: base}, 0)); n != 2 {
		t.Errorf("after filter: %d", n)
	}
	if n := len(r.List(Filter{}, 1)); n != 1 {
		t.Errorf("limit: %d", n)
	}
}

func TestGetSummary(t *testing.T) {
	r := NewRecorder(10)
	r.Record(Metric{Model: "a", Bytes: 10, TextChars: 4, TotalSeconds: 1, Success: true})
	r.Record(Metric{Model: "a", Bytes: 30, TextChars: 6, TotalSeconds: 3, Success: false})

	s := r.GetSummary(Filter{})
	if s.Count != 2 || s.SuccessCount != 1 || s.ErrorCount != 1 || s.TotalBytes != 40 {
		t.Errorf("summary = %+v", s)
	}
	if s.AvgTimeSeconds != 2 || s.AvgTextChars != 5 {
		t.Errorf("averages = %+v", s)
	}

	byModel := r.SummaryByModel(Filter{})
	if len(byModel) != 1 || byModel["a"].Count != 2 {
		t.Errorf("by model = %+v", byModel)
	}
}

func TestGetDetailedStats(t *testing.T) {
	r := NewRecorder(10)
	for i := 1; i <= 4; i++ {
		r.Record(Metric{TotalSeconds: float64(i), FirstChunkSeconds: 0.5, Chunks: 2, Success: true})
	}
	r.Record(Metric{Success: false, ErrorType: ErrorTypeTimeout})

	s := r.GetDetailedStats(Filter{})
	if s.Count != 5 || s.ErrorCount != 1 || s.ErrorTypes[ErrorTypeTimeout] != 1 {
		t.Errorf("counts = %+v", s)
	}
	if s.LatencyMin != 1 || s.LatencyMax != 4 || s.LatencyAvg != 2.5 {
		t.Errorf("latency = %+v", s)
	}
	if math.Abs(s.LatencyP50-2.5) > 1e-9 {
		t.Errorf("p50 = %v, want 2.5", s.LatencyP50)
	}
	if s.FirstChunkP50 != 0.5 {
		t.Errorf("first chunk p50 = %v", s.FirstChunkP50)
	}
}

func TestGetDetailedStats_Empty(t *testing.T) {
	s := NewRecorder(0).GetDetailedStats(Filter{})
	if s.Count != 0 || s.LatencyP99 != 0 {
		t.Errorf("stats = %+v", s)
	}
}

func TestPercentile(t *testing.T) {
	vals := []float64{1, 2, 3, 4, 5}
	if p := percentile(vals, 0); p != 1 {
		t.Errorf("p0 = %v", p)
	}
	if p := percentile(vals, 100); p != 5 {
		t.Errorf("p100 = %v", p)
	}
	if p := percentile(vals, 50); p != 3 {
		t.Errorf("p50 = %v", p)
	}
	if p := percentile(nil, 50); p != 0 {
		t.Errorf("empty = %v", p)
	}
}
