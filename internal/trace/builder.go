package trace

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"atlasdash/domain/atlas"
)

// Inert trace/layout descriptors for the page-side plotting library. Building
// a figure has no rendering side effects; the render port feeds it to the
// plotting surface.

// Trace is one plot series
type Trace struct {
	Type        string    `json:"type"`
	Name        string    `json:"name,omitempty"`
	Mode        string    `json:"mode,omitempty"`
	X           []any     `json:"x,omitempty"`
	Y           []any     `json:"y,omitempty"`
	Text        []string  `json:"text,omitempty"`
	HoverInfo   string    `json:"hoverinfo,omitempty"`
	Marker      *Marker   `json:"marker,omitempty"`
	Line        *Line     `json:"line,omitempty"`
	XAxis       string    `json:"xaxis,omitempty"`
	YAxis       string    `json:"yaxis,omitempty"`
	Orientation string    `json:"orientation,omitempty"`
	Points      string    `json:"points,omitempty"`
	MeanLine    *MeanLine `json:"meanline,omitempty"`
}

// Marker encodes per-point size and color
type Marker struct {
	Size       any      `json:"size,omitempty"`  // scalar or []float64
	Color      any      `json:"color,omitempty"` // css string or []float64
	Colorscale string   `json:"colorscale,omitempty"`
	CMin       *float64 `json:"cmin,omitempty"`
	CMax       *float64 `json:"cmax,omitempty"`
	ShowScale  bool     `json:"showscale,omitempty"`
	Opacity    float64  `json:"opacity,omitempty"`
}

// Line styles line traces
type Line struct {
	Color string  `json:"color,omitempty"`
	Width float64 `json:"width,omitempty"`
}

// MeanLine toggles the violin mean line
type MeanLine struct {
	Visible bool `json:"visible"`
}

// Layout is the plot-level configuration; facet axes are dynamic keys
// ("xaxis2", "yaxis2", ...), so it stays map-shaped.
type Layout map[string]any

// Figure pairs traces with their layout
type Figure struct {
	Traces []Trace `json:"traces"`
	Layout Layout  `json:"layout"`
}

// palette is the fixed overlay color cycle
var palette = []string{
	"#1f77b4", "#ff7f0e", "#2ca02c", "#d62728", "#9467bd",
	"#8c564b", "#e377c2", "#7f7f7f", "#bcbd22", "#17becf",
}

// ColorFor cycles through the palette by index, wrapping with modulo
func ColorFor(i int) string {
	if i < 0 {
		i = -i
	}
	return palette[i%len(palette)]
}

// DotSize maps fraction-expressing to marker size, keeping a visible minimum
// dot even at 0%.
func DotSize(pct float64) float64 {
	return 6 + pct*30
}

// ColorRange computes one global min/max across all facets so colors stay
// comparable between subplots.
func ColorRange(values ...[]float64) (cmin, cmax float64) {
	first := true
	for _, vs := range values {
		if len(vs) == 0 {
			continue
		}
		lo, hi := floats.Min(vs), floats.Max(vs)
		if first {
			cmin, cmax = lo, hi
			first = false
			continue
		}
		if lo < cmin {
			cmin = lo
		}
		if hi > cmax {
			cmax = hi
		}
	}
	return cmin, cmax
}

// BuildUMAP produces one scatter trace per categorical label, colors cycling
// through the palette.
func BuildUMAP(u *atlas.UMAP, title string) Figure {
	order := []string{}
	byLabel := map[string]*Trace{}
	n := len(u.X)
	for i := 0; i < n && i < len(u.Y); i++ {
		label := ""
		if i < len(u.Color) {
			label = u.Color[i]
		}
		tr, ok := byLabel[label]
		if !ok {
			order = append(order, label)
			tr = &Trace{
				Type: "scattergl",
				Mode: "markers",
				Name: label,
				Marker: &Marker{
					Size:    4,
					Color:   ColorFor(len(order) - 1),
					Opacity: 0.7,
				},
			}
			byLabel[label] = tr
		}
		tr.X = append(tr.X, u.X[i])
		tr.Y = append(tr.Y, u.Y[i])
	}

	traces := make([]Trace, 0, len(order))
	for _, label := range order {
		traces = append(traces, *byLabel[label])
	}
	return Figure{
		Traces: traces,
		Layout: Layout{
			"title":      title,
			"hovermode":  "closest",
			"xaxis":      map[string]any{"title": "UMAP 1", "zeroline": false},
			"yaxis":      map[string]any{"title": "UMAP 2", "zeroline": false},
			"showlegend": true,
		},
	}
}

// BuildComposition produces a stacked percentage bar chart: one trace per
// cell type across groups, with hover text carrying count and share.
func BuildComposition(c *atlas.Composition, percentages [][]float64) Figure {
	traces := make([]Trace, 0, len(c.CellTypes))
	for j, cellType := range c.CellTypes {
		tr := Trace{
			Type:   "bar",
			Name:   cellType,
			Marker: &Marker{Color: ColorFor(j)},
		}
		for i, group := range c.Groups {
			tr.X = append(tr.X, group)
			tr.Y = append(tr.Y, percentages[i][j])
			tr.Text = append(tr.Text, fmt.Sprintf("%s — %s: %d cells (%.1f%%)",
				group, cellType, c.Counts[i][j], percentages[i][j]))
		}
		tr.HoverInfo = "text"
		traces = append(traces, tr)
	}
	return Figure{
		Traces: traces,
		Layout: Layout{
			"barmode": "stack",
			"yaxis":   map[string]any{"title": "% of cells", "range": []float64{0, 100}},
			"legend":  map[string]any{"traceorder": "normal"},
		},
	}
}

// BuildDotplot produces the single gene x group dot matrix: dot size encodes
// fraction expressing, color encodes mean expression.
func BuildDotplot(d *atlas.Dotplot, title string) Figure {
	var sizes, colors []float64
	tr := Trace{Type: "scatter", Mode: "markers"}
	for _, gene := range d.Genes {
		for _, group := range d.Groups {
			cell := d.Values[gene][group]
			tr.X = append(tr.X, group)
			tr.Y = append(tr.Y, gene)
			sizes = append(sizes, DotSize(cell.Pct))
			colors = append(colors, cell.Avg)
			tr.Text = append(tr.Text, fmt.Sprintf("%s in %s: avg %.2f, %.0f%% expressing",
				gene, group, cell.Avg, cell.Pct*100))
		}
	}
	tr.HoverInfo = "text"
	cmin, cmax := ColorRange(colors)
	tr.Marker = &Marker{
		Size:       sizes,
		Color:      colors,
		Colorscale: "Viridis",
		CMin:       &cmin,
		CMax:       &cmax,
		ShowScale:  true,
	}
	return Figure{
		Traces: []Trace{tr},
		Layout: Layout{
			"title": title,
			"xaxis": map[string]any{"tickangle": -40},
			"yaxis": map[string]any{"autorange": "reversed"},
		},
	}
}

// BuildFacetedDotplot lays out one dotplot subplot per group (cell type)
// with diseases on the shared x-axis. The color scale min/max is computed
// once across all facets.
func BuildFacetedDotplot(d *atlas.DotplotByDisease, canonicalize func(string) string) Figure {
	facets := FacetDomains(len(d.Groups))

	// Global color range first, so facets are comparable
	var all []float64
	for _, disease := range d.Diseases {
		for _, gene := range d.Genes {
			for _, group := range d.Groups {
				all = append(all, d.Values[disease][gene][group].Avg)
			}
		}
	}
	cmin, cmax := ColorRange(all)

	layout := Layout{
		"showlegend":  false,
		"annotations": []map[string]any{},
	}
	traces := make([]Trace, 0, len(facets))

	for fi, facet := range facets {
		group := d.Groups[fi]
		tr := Trace{Type: "scatter", Mode: "markers", XAxis: facet.XAxis, YAxis: facet.YAxis}
		var sizes, colors []float64
		for _, disease := range d.Diseases {
			display := disease
			if canonicalize != nil {
				display = canonicalize(disease)
			}
			for _, gene := range d.Genes {
				cell := d.Values[disease][gene][group]
				tr.X = append(tr.X, display)
				tr.Y = append(tr.Y, gene)
				sizes = append(sizes, DotSize(cell.Pct))
				colors = append(colors, cell.Avg)
				tr.Text = append(tr.Text, fmt.Sprintf("%s — %s in %s: avg %.2f, %.0f%% expressing",
					group, gene, display, cell.Avg, cell.Pct*100))
			}
		}
		tr.HoverInfo = "text"
		tr.Marker = &Marker{
			Size:       sizes,
			Color:      colors,
			Colorscale: "Viridis",
			CMin:       &cmin,
			CMax:       &cmax,
			ShowScale:  fi == 0,
		}
		traces = append(traces, tr)

		layout[axisKey(facet.XAxis)] = map[string]any{
			"domain": facet.XDomain, "anchor": facet.YAxis, "tickangle": -40,
		}
		layout[axisKey(facet.YAxis)] = map[string]any{
			"domain": facet.YDomain, "anchor": facet.XAxis, "autorange": "reversed",
		}
		layout["annotations"] = append(layout["annotations"].([]map[string]any), map[string]any{
			"text": group, "showarrow": false,
			"xref": "paper", "yref": "paper",
			"x": (facet.XDomain[0] + facet.XDomain[1]) / 2, "y": facet.YDomain[1],
			"yanchor": "bottom",
		})
	}
	return Figure{Traces: traces, Layout: layout}
}

// ViolinSeries is one group's expanded samples plus hover stats
type ViolinSeries struct {
	Group   string
	Samples []float64
	Mean    float64
	StdDev  float64
}

// BuildViolin produces one violin trace per group from expanded samples
func BuildViolin(gene string, series []ViolinSeries) Figure {
	traces := make([]Trace, 0, len(series))
	for i, s := range series {
		xs := make([]any, len(s.Samples))
		ys := make([]any, len(s.Samples))
		for j, v := range s.Samples {
			xs[j] = s.Group
			ys[j] = v
		}
		traces = append(traces, Trace{
			Type:     "violin",
			Name:     s.Group,
			X:        xs,
			Y:        ys,
			Points:   "none",
			MeanLine: &MeanLine{Visible: true},
			Marker:   &Marker{Color: ColorFor(i)},
			Text:     []string{fmt.Sprintf("mean %.2f ± %.2f", s.Mean, s.StdDev)},
		})
	}
	return Figure{
		Traces: traces,
		Layout: Layout{
			"title":      fmt.Sprintf("%s expression", gene),
			"yaxis":      map[string]any{"title": "expression"},
			"violinmode": "group",
			"showlegend": false,
		},
	}
}

// BuildQuantileBoxes produces box traces from five-number summaries when the
// backend was queried with kind=quantile.
func BuildQuantileBoxes(gene string, groups []atlas.ViolinGroup) Figure {
	traces := make([]Trace, 0, len(groups))
	for i, g := range groups {
		if g.Quantiles == nil {
			continue
		}
		q := g.Quantiles
		traces = append(traces, Trace{
			Type:   "box",
			Name:   g.Group,
			Y:      []any{q.Min, q.Q1, q.Median, q.Q3, q.Max},
			Marker: &Marker{Color: ColorFor(i)},
		})
	}
	return Figure{
		Traces: traces,
		Layout: Layout{
			"title":      fmt.Sprintf("%s expression", gene),
			"yaxis":      map[string]any{"title": "expression"},
			"showlegend": false,
		},
	}
}
