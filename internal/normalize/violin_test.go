package normalize

import (
	"math"
	"testing"

	"atlasdash/domain/atlas"
)

func TestQuantilesOf_Ordered(t *testing.T) {
	samples := []float64{5, 1, 3, 2, 4, 2, 3, 3}
	q, err := QuantilesOf(samples)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !(q.Min <= q.Q1 && q.Q1 <= q.Median && q.Median <= q.Q3 && q.Q3 <= q.Max) {
		t.Errorf("quantiles out of order: %+v", q)
	}
	if q.Min != 1 || q.Max != 5 {
		t.Errorf("min/max = %v/%v, want 1/5", q.Min, q.Max)
	}
}

func TestQuantilesOf_Empty(t *testing.T) {
	if _, err := QuantilesOf(nil); err == nil {
		t.Error("expected error for empty samples")
	}
}

func TestHistogramMoments(t *testing.T) {
	h := &atlas.Histogram{
		Bins:   []float64{0, 2, 4},
		Counts: []int{10, 10},
	}
	mean, _, err := HistogramMoments(h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Midpoints 1 and 3, equal weight
	if math.Abs(mean-2) > 1e-9 {
		t.Errorf("mean = %v, want 2", mean)
	}

	empty := &atlas.Histogram{Bins: []float64{0, 1}, Counts: []int{0}}
	mean, stddev, err := HistogramMoments(empty)
	if err != nil || mean != 0 || stddev != 0 {
		t.Errorf("empty histogram moments = %v/%v (%v), want zeros", mean, stddev, err)
	}
}
