package ui

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"atlasdash/domain/atlas"
	apperrors "atlasdash/internal/errors"
	"atlasdash/internal/metrics"
	"atlasdash/internal/normalize"
	"atlasdash/internal/panel"
	"atlasdash/internal/trace"
	"atlasdash/ports"
)

// apiResponse is the envelope every panel endpoint returns. Failures carry
// ok=false plus the banner message; they never surface as a bare 5xx so a
// broken panel cannot blank the rest of the dashboard.
type apiResponse struct {
	OK     bool          `json:"ok"`
	Error  string        `json:"error,omitempty"`
	State  string        `json:"state,omitempty"`
	Figure *trace.Figure `json:"figure,omitempty"`
	Data   any           `json:"data,omitempty"`
}

func (a *App) writeJSON(w http.ResponseWriter, resp apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		a.log.Error("response encode failed: %v", err)
	}
}

// panelResult runs one panel's fetch+reshape inside a recovery boundary:
// a panicking derivation (malformed matrix, bad dimensions) becomes that
// panel's error banner, nothing more.
func (a *App) panelResult(panelName string, w http.ResponseWriter, fn func() (apiResponse, error)) {
	defer func() {
		if rec := recover(); rec != nil {
			a.log.Error("panel %s derivation panicked: %v", panelName, rec)
			metrics.ObservePanelLoad(panelName, "panic")
			a.writeJSON(w, apiResponse{OK: false, Error: "panel failed to render"})
		}
	}()

	resp, err := fn()
	if err != nil {
		metrics.ObservePanelLoad(panelName, "error")
		a.writeJSON(w, apiResponse{OK: false, Error: apperrors.UserMessage(err)})
		return
	}
	metrics.ObservePanelLoad(panelName, "ok")
	resp.OK = true
	a.writeJSON(w, resp)
}

// manifestView is the manifest payload with display labels precomputed
type manifestView struct {
	Tissue          string              `json:"tissue"`
	Diseases        []string            `json:"diseases"`
	DisplayDiseases []string            `json:"display_diseases"`
	CellTypes       []string            `json:"cell_types"`
	Lineages        []normalize.Bucket  `json:"lineages"`
	Accessions      []atlas.Accession   `json:"accessions"`
	MarkerPanels    map[string][]string `json:"marker_panels"`
}

func (a *App) handleManifest(w http.ResponseWriter, r *http.Request) {
	a.panelResult("manifest", w, func() (apiResponse, error) {
		source := a.currentSource()
		snap := a.manifest.Load(r.Context(), func(ctx context.Context) (any, error) {
			return source.Manifest(ctx)
		})
		if snap.State == panel.StateError {
			return apiResponse{}, apperrors.New(apperrors.CodeInternalError, snap.Err)
		}
		m, ok := snap.Value.(*atlas.Manifest)
		if !ok || m == nil {
			// A base change invalidated this load mid-flight; the client
			// re-requests against the new base.
			return apiResponse{State: string(snap.State)}, nil
		}

		view := manifestView{
			Tissue:          m.Tissue,
			Diseases:        m.Diseases,
			DisplayDiseases: normalize.Diseases(m.Diseases),
			CellTypes:       m.CellTypes,
			Lineages:        normalize.GroupCellTypes(m.CellTypes),
			Accessions:      m.Accessions,
			MarkerPanels:    m.MarkerPanels,
		}
		return apiResponse{State: string(snap.State), Data: view}, nil
	})
}

func (a *App) handleUMAP(w http.ResponseWriter, r *http.Request) {
	a.panelResult("umap", w, func() (apiResponse, error) {
		maxPoints, _ := strconv.Atoi(r.URL.Query().Get("max_points"))
		q := ports.UMAPQuery{
			Disease:   r.URL.Query().Get("disease"),
			CellType:  r.URL.Query().Get("cell_type"),
			MaxPoints: maxPoints,
		}
		u, err := a.currentSource().UMAP(r.Context(), q)
		if err != nil {
			return apiResponse{}, err
		}
		title := "UMAP"
		if q.Disease != "" {
			title = "UMAP — " + normalize.Disease(q.Disease)
		}
		fig := trace.BuildUMAP(u, title)
		a.renderer.Render("umap", fig)
		return apiResponse{Figure: &fig}, nil
	})
}

func (a *App) handleComposition(w http.ResponseWriter, r *http.Request) {
	a.panelResult("composition", w, func() (apiResponse, error) {
		groupBy := r.URL.Query().Get("group_by")
		if groupBy == "" {
			groupBy = "disease"
		}
		c, err := a.currentSource().Composition(r.Context(), groupBy)
		if err != nil {
			return apiResponse{}, err
		}
		if groupBy == "disease" {
			// Raw labels mix synonyms; merge before deriving shares
			c = normalize.MergeComposition(c)
		}
		shares := normalize.Shares(c)
		pcts := make([][]float64, len(shares))
		for i, s := range shares {
			pcts[i] = s.Percentages
		}
		fig := trace.BuildComposition(c, pcts)
		a.renderer.Render("composition", fig)
		return apiResponse{
			Figure: &fig,
			Data:   map[string]any{"stats": normalize.CompositionStats(c)},
		}, nil
	})
}

// resolveGenes reads the genes filter: an explicit csv list, or a named
// marker panel to look up.
func (a *App) resolveGenes(ctx context.Context, r *http.Request) ([]string, error) {
	if csv := r.URL.Query().Get("genes"); csv != "" {
		var genes []string
		for _, g := range strings.Split(csv, ",") {
			if g = strings.TrimSpace(g); g != "" {
				genes = append(genes, g)
			}
		}
		if len(genes) > 0 {
			return genes, nil
		}
	}
	if panelName := r.URL.Query().Get("panel"); panelName != "" {
		return a.currentSource().Markers(ctx, panelName)
	}
	return nil, apperrors.InvalidInput("genes or panel parameter required")
}

func (a *App) handleDotplot(w http.ResponseWriter, r *http.Request) {
	a.panelResult("dotplot", w, func() (apiResponse, error) {
		genes, err := a.resolveGenes(r.Context(), r)
		if err != nil {
			return apiResponse{}, err
		}
		groupBy := r.URL.Query().Get("group_by")
		if groupBy == "" {
			groupBy = "cell_type"
		}

		if r.URL.Query().Get("by_disease") == "1" {
			d, err := a.currentSource().DotplotByDisease(r.Context(), genes, groupBy)
			if err != nil {
				return apiResponse{}, err
			}
			fig := trace.BuildFacetedDotplot(d, normalize.Disease)
			a.renderer.Render("dotplot", fig)
			return apiResponse{Figure: &fig}, nil
		}

		d, err := a.currentSource().Dotplot(r.Context(), genes, groupBy)
		if err != nil {
			return apiResponse{}, err
		}
		fig := trace.BuildDotplot(d, "Marker expression")
		a.renderer.Render("dotplot", fig)
		return apiResponse{Figure: &fig}, nil
	})
}

func (a *App) handleViolin(w http.ResponseWriter, r *http.Request) {
	a.panelResult("violin", w, func() (apiResponse, error) {
		genes, err := a.resolveGenes(r.Context(), r)
		if err != nil {
			if g := r.URL.Query().Get("gene"); g != "" {
				genes = []string{g}
			} else {
				return apiResponse{}, err
			}
		}
		groupBy := r.URL.Query().Get("group_by")
		if groupBy == "" {
			groupBy = "disease"
		}
		kind := r.URL.Query().Get("kind")
		if kind == "" {
			kind = "hist"
		}

		if kind == "quantile" {
			// Quantile summaries cannot be aggregated into a signature score
			if len(genes) > 1 {
				return apiResponse{}, apperrors.InvalidInput("quantile view supports a single gene")
			}
			v, err := a.currentSource().Violin(r.Context(), ports.ViolinQuery{
				Gene: genes[0], GroupBy: groupBy, Kind: kind,
			})
			if err != nil {
				return apiResponse{}, err
			}
			groups := v.Groups
			if groupBy == "disease" {
				groups = canonicalizeViolinGroups(groups)
			}
			fillQuantiles(groups)
			fig := trace.BuildQuantileBoxes(v.Gene, groups)
			a.renderer.Render("violin", fig)
			return apiResponse{Figure: &fig}, nil
		}

		// Histogram kind: expand bins into synthetic samples. Multiple genes
		// form a signature score, so the budget is split between them.
		budget := normalize.SignatureBudget(len(genes))
		byGroup := map[string]*trace.ViolinSeries{}
		var order []string
		for _, gene := range genes {
			v, err := a.currentSource().Violin(r.Context(), ports.ViolinQuery{
				Gene: gene, GroupBy: groupBy, Kind: "hist",
			})
			if err != nil {
				return apiResponse{}, err
			}
			for _, g := range v.Groups {
				if g.Histogram == nil {
					continue
				}
				label := g.Group
				if groupBy == "disease" {
					label = normalize.Disease(label)
				}
				samples, err := normalize.ExpandHistogram(g.Histogram, budget)
				if err != nil {
					return apiResponse{}, err
				}
				series, ok := byGroup[label]
				if !ok {
					series = &trace.ViolinSeries{Group: label}
					byGroup[label] = series
					order = append(order, label)
				}
				series.Samples = append(series.Samples, samples...)
				mean, stddev, err := normalize.HistogramMoments(g.Histogram)
				if err == nil {
					series.Mean, series.StdDev = mean, stddev
				}
			}
		}
		series := make([]trace.ViolinSeries, 0, len(order))
		for _, label := range order {
			series = append(series, *byGroup[label])
		}
		name := genes[0]
		if len(genes) > 1 {
			name = "signature (" + strconv.Itoa(len(genes)) + " genes)"
		}
		fig := trace.BuildViolin(name, series)
		a.renderer.Render("violin", fig)
		return apiResponse{Figure: &fig}, nil
	})
}

// fillQuantiles derives a missing five-number summary from a group's
// histogram; some backends answer kind=quantile with binned data only.
func fillQuantiles(groups []atlas.ViolinGroup) {
	for i := range groups {
		if groups[i].Quantiles != nil || groups[i].Histogram == nil {
			continue
		}
		samples, err := normalize.ExpandHistogram(groups[i].Histogram, normalize.SampleBudget)
		if err != nil || len(samples) == 0 {
			continue
		}
		if q, err := normalize.QuantilesOf(samples); err == nil {
			groups[i].Quantiles = &q
		}
	}
}

func canonicalizeViolinGroups(groups []atlas.ViolinGroup) []atlas.ViolinGroup {
	out := make([]atlas.ViolinGroup, len(groups))
	for i, g := range groups {
		g.Group = normalize.Disease(g.Group)
		out[i] = g
	}
	return out
}

// cohort summarizes the accessions contributing to one canonical disease
type cohort struct {
	Disease    string            `json:"disease"`
	Accessions []atlas.Accession `json:"accessions"`
	Donors     int               `json:"donors"`
	Cells      int               `json:"cells"`
}

func (a *App) handleAccessions(w http.ResponseWriter, r *http.Request) {
	a.panelResult("accessions", w, func() (apiResponse, error) {
		accessions, err := a.currentSource().Accessions(r.Context(), r.URL.Query().Get("disease"))
		if err != nil {
			return apiResponse{}, err
		}
		byDisease := map[string]*cohort{}
		var order []string
		for _, acc := range accessions {
			canonical := normalize.Disease(acc.Disease)
			c, ok := byDisease[canonical]
			if !ok {
				c = &cohort{Disease: canonical}
				byDisease[canonical] = c
				order = append(order, canonical)
			}
			c.Accessions = append(c.Accessions, acc)
			c.Donors += acc.Donors
			c.Cells += acc.Cells
		}
		sort.Strings(order)
		cohorts := make([]cohort, 0, len(order))
		for _, d := range order {
			cohorts = append(cohorts, *byDisease[d])
		}
		return apiResponse{Data: map[string]any{"cohorts": cohorts}}, nil
	})
}

func (a *App) handleMarkers(w http.ResponseWriter, r *http.Request) {
	a.panelResult("markers", w, func() (apiResponse, error) {
		panelName := r.URL.Query().Get("panel")
		if panelName == "" {
			return apiResponse{}, apperrors.InvalidInput("panel parameter required")
		}
		genes, err := a.currentSource().Markers(r.Context(), panelName)
		if err != nil {
			return apiResponse{}, err
		}
		return apiResponse{Data: map[string]any{"genes": genes}}, nil
	})
}
