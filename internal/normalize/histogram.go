package normalize

import (
	"atlasdash/domain/atlas"
	"atlasdash/internal/errors"
)

// Histogram-to-sample expansion. The backend never exposes per-cell values,
// so violin rendering works from binned summaries: each bin contributes
// synthetic samples at its midpoint, proportional to the bin's share of the
// group total, under a fixed overall budget. Allocation is floor-based and
// therefore deterministic.

// SampleBudget is the per-group cap on synthetic samples
const SampleBudget = 2000

// SignatureBudget splits the sample budget across the genes of a signature
// score so the aggregated distribution stays within the overall cap.
func SignatureBudget(genes int) int {
	if genes <= 1 {
		return SampleBudget
	}
	budget := SampleBudget / genes
	if budget < 1 {
		budget = 1
	}
	return budget
}

// ExpandHistogram emits synthetic samples for one group's histogram.
// At most budget samples are emitted; when the group total fits the budget
// the bin counts are reproduced exactly.
func ExpandHistogram(h *atlas.Histogram, budget int) ([]float64, error) {
	if h == nil {
		return nil, errors.InvalidInput("histogram is nil")
	}
	if len(h.Bins) < 2 || len(h.Counts) != len(h.Bins)-1 {
		return nil, errors.InvalidInput("histogram bins and counts are misaligned")
	}
	if budget <= 0 {
		budget = SampleBudget
	}

	total := 0
	for _, c := range h.Counts {
		if c < 0 {
			return nil, errors.InvalidInput("histogram counts must be non-negative")
		}
		total += c
	}
	if total == 0 {
		return []float64{}, nil
	}

	samples := make([]float64, 0, min(total, budget))
	for i, count := range h.Counts {
		n := count
		if total > budget {
			n = count * budget / total // floor allocation
		}
		mid := (h.Bins[i] + h.Bins[i+1]) / 2
		for k := 0; k < n; k++ {
			samples = append(samples, mid)
		}
	}
	return samples, nil
}
