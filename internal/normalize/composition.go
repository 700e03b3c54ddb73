package normalize

import (
	"github.com/montanaflynn/stats"

	"atlasdash/domain/atlas"
)

// Percentage derives a composition share. A zero total defaults to 1 so an
// empty group yields a defined 0%, never NaN or Inf.
func Percentage(count, total int) float64 {
	if total == 0 {
		total = 1
	}
	return float64(count) / float64(total) * 100
}

// GroupShare is one group's percentage row, aligned with the composition's
// cell-type order.
type GroupShare struct {
	Group       string
	Total       int
	Percentages []float64
}

// GroupStats is the per-group summary shown next to the percentage view
type GroupStats struct {
	Group       string  `json:"group"`
	Total       int     `json:"total"`
	Dominant    string  `json:"dominant"`
	DominantPct float64 `json:"dominant_pct"`
	MeanPct     float64 `json:"mean_pct"`
	MedianPct   float64 `json:"median_pct"`
}

// Shares converts a (merged) composition into per-group percentage rows
func Shares(c *atlas.Composition) []GroupShare {
	shares := make([]GroupShare, 0, len(c.Groups))
	for i, group := range c.Groups {
		total := 0
		for _, count := range c.Counts[i] {
			total += count
		}
		pcts := make([]float64, len(c.Counts[i]))
		for j, count := range c.Counts[i] {
			pcts[j] = Percentage(count, total)
		}
		shares = append(shares, GroupShare{Group: group, Total: total, Percentages: pcts})
	}
	return shares
}

// CompositionStats computes the summary block of the percentage view: the
// dominant cell type per group plus mean/median share.
func CompositionStats(c *atlas.Composition) []GroupStats {
	out := make([]GroupStats, 0, len(c.Groups))
	for _, share := range Shares(c) {
		gs := GroupStats{Group: share.Group, Total: share.Total}
		dominant := -1
		for j, pct := range share.Percentages {
			if dominant < 0 || pct > share.Percentages[dominant] {
				dominant = j
			}
		}
		if dominant >= 0 && dominant < len(c.CellTypes) {
			gs.Dominant = c.CellTypes[dominant]
			gs.DominantPct = share.Percentages[dominant]
		}
		if len(share.Percentages) > 0 {
			// stats errors only on empty input, which is excluded above
			gs.MeanPct, _ = stats.Mean(share.Percentages)
			gs.MedianPct, _ = stats.Median(share.Percentages)
		}
		out = append(out, gs)
	}
	return out
}
