package normalize

import (
	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/stat"

	"atlasdash/domain/atlas"
	"atlasdash/internal/errors"
)

// QuantilesOf derives a five-number summary from expanded samples, used when
// the backend returns histograms but the panel wants a box overlay.
func QuantilesOf(samples []float64) (atlas.Quantiles, error) {
	if len(samples) == 0 {
		return atlas.Quantiles{}, errors.InvalidInput("no samples to summarize")
	}
	q := atlas.Quantiles{}
	var err error
	if q.Min, err = stats.Min(samples); err != nil {
		return atlas.Quantiles{}, errors.Wrap(err, "quantile derivation failed")
	}
	if q.Max, err = stats.Max(samples); err != nil {
		return atlas.Quantiles{}, errors.Wrap(err, "quantile derivation failed")
	}
	if q.Q1, err = stats.Percentile(samples, 25); err != nil {
		return atlas.Quantiles{}, errors.Wrap(err, "quantile derivation failed")
	}
	if q.Median, err = stats.Median(samples); err != nil {
		return atlas.Quantiles{}, errors.Wrap(err, "quantile derivation failed")
	}
	if q.Q3, err = stats.Percentile(samples, 75); err != nil {
		return atlas.Quantiles{}, errors.Wrap(err, "quantile derivation failed")
	}
	return q, nil
}

// HistogramMoments computes the bin-weighted mean and standard deviation of
// a histogram, shown in violin hover text without expanding samples.
func HistogramMoments(h *atlas.Histogram) (mean, stddev float64, err error) {
	if h == nil || len(h.Bins) < 2 || len(h.Counts) != len(h.Bins)-1 {
		return 0, 0, errors.InvalidInput("histogram bins and counts are misaligned")
	}
	mids := make([]float64, len(h.Counts))
	weights := make([]float64, len(h.Counts))
	total := 0.0
	for i, c := range h.Counts {
		mids[i] = (h.Bins[i] + h.Bins[i+1]) / 2
		weights[i] = float64(c)
		total += weights[i]
	}
	if total == 0 {
		return 0, 0, nil
	}
	mean = stat.Mean(mids, weights)
	stddev = stat.StdDev(mids, weights)
	return mean, stddev, nil
}
