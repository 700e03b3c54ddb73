package normalize

import (
	"testing"

	"atlasdash/domain/atlas"
)

func TestPercentage_NeverDividesByZero(t *testing.T) {
	tests := []struct {
		count, total int
		want         float64
	}{
		{5, 0, 500}, // total defaults to 1: defined, not NaN/Inf
		{0, 0, 0},
		{0, 10, 0},
		{10, 10, 100},
		{1, 4, 25},
	}
	for _, tt := range tests {
		if got := Percentage(tt.count, tt.total); got != tt.want {
			t.Errorf("Percentage(%d, %d) = %v, want %v", tt.count, tt.total, got, tt.want)
		}
	}
}

func TestCompositionStats(t *testing.T) {
	c := &atlas.Composition{
		Groups:    []string{"Healthy", "Rheumatoid arthritis", "Empty"},
		CellTypes: []string{"T cells", "B cells"},
		Counts: [][]int{
			{75, 25},
			{40, 60},
			{0, 0},
		},
	}

	stats := CompositionStats(c)
	if len(stats) != 3 {
		t.Fatalf("expected 3 group stats, got %d", len(stats))
	}

	if stats[0].Dominant != "T cells" || stats[0].DominantPct != 75 {
		t.Errorf("Healthy dominant = %s (%v), want T cells (75)", stats[0].Dominant, stats[0].DominantPct)
	}
	if stats[1].Dominant != "B cells" || stats[1].DominantPct != 60 {
		t.Errorf("RA dominant = %s (%v), want B cells (60)", stats[1].Dominant, stats[1].DominantPct)
	}
	if stats[0].MeanPct != 50 || stats[0].MedianPct != 50 {
		t.Errorf("Healthy mean/median = %v/%v, want 50/50", stats[0].MeanPct, stats[0].MedianPct)
	}

	// Empty group: percentages are all zero, not NaN
	if stats[2].Total != 0 || stats[2].DominantPct != 0 {
		t.Errorf("empty group stats = %+v, want zero values", stats[2])
	}
}

func TestShares_AlignedWithCellTypes(t *testing.T) {
	c := &atlas.Composition{
		Groups:    []string{"Healthy"},
		CellTypes: []string{"T cells", "B cells", "NK cells"},
		Counts:    [][]int{{50, 30, 20}},
	}
	shares := Shares(c)
	if len(shares) != 1 || len(shares[0].Percentages) != 3 {
		t.Fatalf("unexpected shares shape: %+v", shares)
	}
	want := []float64{50, 30, 20}
	for j, pct := range shares[0].Percentages {
		if pct != want[j] {
			t.Errorf("share[%d] = %v, want %v", j, pct, want[j])
		}
	}
	if shares[0].Total != 100 {
		t.Errorf("total = %d, want 100", shares[0].Total)
	}
}
