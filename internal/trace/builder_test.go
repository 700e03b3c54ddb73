package trace

import (
	"testing"

	"atlasdash/domain/atlas"
)

func TestDotSize(t *testing.T) {
	tests := []struct {
		pct  float64
		want float64
	}{
		{0, 6}, // visible minimum even at 0% expression
		{0.5, 21},
		{1, 36},
	}
	for _, tt := range tests {
		if got := DotSize(tt.pct); got != tt.want {
			t.Errorf("DotSize(%v) = %v, want %v", tt.pct, got, tt.want)
		}
	}
}

func TestColorFor_WrapsWithModulo(t *testing.T) {
	if ColorFor(0) != ColorFor(len(palette)) {
		t.Error("palette should wrap at its length")
	}
	if ColorFor(3) == ColorFor(4) {
		t.Error("adjacent indices should differ")
	}
}

func TestColorRange_GlobalAcrossFacets(t *testing.T) {
	cmin, cmax := ColorRange([]float64{1, 2, 3}, []float64{-4, 0.5}, nil, []float64{9})
	if cmin != -4 || cmax != 9 {
		t.Errorf("ColorRange = [%v, %v], want [-4, 9]", cmin, cmax)
	}
}

func TestBuildFacetedDotplot_SharedColorScale(t *testing.T) {
	d := &atlas.DotplotByDisease{
		Diseases: []string{"ra", "normal"},
		Genes:    []string{"MS4A1", "CD3E"},
		Groups:   []string{"T cells", "B cells", "NK cells"},
		Values:   map[string]map[string]map[string]atlas.DotplotCell{},
	}
	avg := 0.0
	for _, disease := range d.Diseases {
		d.Values[disease] = map[string]map[string]atlas.DotplotCell{}
		for _, gene := range d.Genes {
			d.Values[disease][gene] = map[string]atlas.DotplotCell{}
			for _, group := range d.Groups {
				d.Values[disease][gene][group] = atlas.DotplotCell{Avg: avg, Pct: 0.5}
				avg++
			}
		}
	}

	fig := BuildFacetedDotplot(d, func(s string) string {
		if s == "ra" {
			return "Rheumatoid arthritis"
		}
		return s
	})

	if len(fig.Traces) != 3 {
		t.Fatalf("expected 3 facet traces, got %d", len(fig.Traces))
	}
	first := fig.Traces[0].Marker
	for i, tr := range fig.Traces {
		if *tr.Marker.CMin != *first.CMin || *tr.Marker.CMax != *first.CMax {
			t.Errorf("facet %d has its own color range [%v, %v]", i, *tr.Marker.CMin, *tr.Marker.CMax)
		}
	}
	if *first.CMin != 0 || *first.CMax != 11 {
		t.Errorf("global color range = [%v, %v], want [0, 11]", *first.CMin, *first.CMax)
	}

	// Canonicalizer applied to the shared x-axis labels
	if fig.Traces[0].X[0] != "Rheumatoid arthritis" {
		t.Errorf("x label = %v, want canonicalized disease", fig.Traces[0].X[0])
	}

	// Facet axes registered in the layout
	if _, ok := fig.Layout["xaxis2"]; !ok {
		t.Error("layout missing xaxis2 for second facet")
	}
}

func TestBuildComposition_Shape(t *testing.T) {
	c := &atlas.Composition{
		Groups:    []string{"Healthy", "Rheumatoid arthritis"},
		CellTypes: []string{"T cells", "B cells"},
		Counts:    [][]int{{75, 25}, {40, 60}},
	}
	pcts := [][]float64{{75, 25}, {40, 60}}
	fig := BuildComposition(c, pcts)
	if len(fig.Traces) != 2 {
		t.Fatalf("expected one trace per cell type, got %d", len(fig.Traces))
	}
	if fig.Layout["barmode"] != "stack" {
		t.Error("composition should be a stacked bar chart")
	}
	if len(fig.Traces[0].X) != 2 || fig.Traces[0].Y[1] != 40.0 {
		t.Errorf("unexpected trace data: %+v", fig.Traces[0])
	}
}

func TestBuildUMAP_OneTracePerLabel(t *testing.T) {
	u := &atlas.UMAP{
		X:     []float64{0, 1, 2, 3},
		Y:     []float64{0, 1, 2, 3},
		Color: []string{"T cells", "B cells", "T cells", "B cells"},
	}
	fig := BuildUMAP(u, "umap")
	if len(fig.Traces) != 2 {
		t.Fatalf("expected 2 traces, got %d", len(fig.Traces))
	}
	if len(fig.Traces[0].X) != 2 {
		t.Errorf("expected 2 points in first trace, got %d", len(fig.Traces[0].X))
	}
}
