package demo

import (
	"context"
	"hash/fnv"
	"math"
	"time"

	"atlasdash/domain/atlas"
	apperrors "atlasdash/internal/errors"
	"atlasdash/ports"
)

// Source is the simulated-delay demo path: an in-process atlas with canned,
// deterministic data behind the same port as the real backend. Values are
// derived from label hashes so repeated queries render identically.
type Source struct {
	delay time.Duration
}

var _ ports.AtlasSource = (*Source)(nil)

// New creates a demo source that sleeps delay before answering
func New(delay time.Duration) *Source {
	return &Source{delay: delay}
}

var (
	demoDiseases  = []string{"Healthy", "ra", "SLE", "sjs"}
	demoCellTypes = []string{
		"CD4 T cell", "CD8 T cell", "Naive B cell", "Memory B cell",
		"NK cell", "CD14+ Monocyte", "Plasmacytoid DC", "Plasma cell",
	}
	demoPanels = map[string][]string{
		"tcell":   {"CD3E", "CD4", "CD8A", "IL7R"},
		"bcell":   {"MS4A1", "CD79A", "CD19"},
		"myeloid": {"CD14", "LYZ", "FCGR3A"},
	}
	demoAccessions = []atlas.Accession{
		{ID: "GSE100001", Disease: "Healthy", Platform: "10x 3' v3", Donors: 12, Cells: 48213, Tissue: "PBMC"},
		{ID: "GSE100002", Disease: "ra", Platform: "10x 3' v3", Donors: 9, Cells: 35980, Tissue: "PBMC"},
		{ID: "GSE100003", Disease: "SLE", Platform: "10x 5'", Donors: 14, Cells: 61022, Tissue: "PBMC"},
		{ID: "GSE100004", Disease: "sjs", Platform: "10x 3' v2", Donors: 6, Cells: 18777, Tissue: "PBMC"},
	}
)

// wait simulates backend latency while staying cancellable
func (s *Source) wait(ctx context.Context) error {
	if s.delay <= 0 {
		return nil
	}
	select {
	case <-time.After(s.delay):
		return nil
	case <-ctx.Done():
		if ctx.Err() == context.DeadlineExceeded {
			return apperrors.Timeout()
		}
		return apperrors.Network(ctx.Err())
	}
}

// seeded returns a deterministic value in [0,1) for a label tuple
func seeded(labels ...string) float64 {
	h := fnv.New32a()
	for _, l := range labels {
		h.Write([]byte(l))
		h.Write([]byte{0})
	}
	return float64(h.Sum32()%10000) / 10000
}

func (s *Source) Manifest(ctx context.Context) (*atlas.Manifest, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	return &atlas.Manifest{
		Tissue:       "PBMC",
		Diseases:     append([]string(nil), demoDiseases...),
		CellTypes:    append([]string(nil), demoCellTypes...),
		Accessions:   append([]atlas.Accession(nil), demoAccessions...),
		MarkerPanels: demoPanels,
	}, nil
}

func (s *Source) Markers(ctx context.Context, panel string) ([]string, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	genes, ok := demoPanels[panel]
	if !ok {
		return nil, apperrors.UpstreamReject("unknown panel: " + panel)
	}
	return append([]string(nil), genes...), nil
}

func (s *Source) Accessions(ctx context.Context, disease string) ([]atlas.Accession, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	if disease == "" {
		return append([]atlas.Accession(nil), demoAccessions...), nil
	}
	var out []atlas.Accession
	for _, acc := range demoAccessions {
		if acc.Disease == disease {
			out = append(out, acc)
		}
	}
	return out, nil
}

func (s *Source) UMAP(ctx context.Context, q ports.UMAPQuery) (*atlas.UMAP, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	n := q.MaxPoints
	if n <= 0 || n > 2000 {
		n = 2000
	}
	u := &atlas.UMAP{
		X:     make([]float64, n),
		Y:     make([]float64, n),
		Color: make([]string, n),
	}
	for i := 0; i < n; i++ {
		cellType := demoCellTypes[i%len(demoCellTypes)]
		// Cluster points around a per-cell-type center
		cx := seeded(cellType, "x") * 20
		cy := seeded(cellType, "y") * 20
		angle := seeded(cellType, "a", string(rune(i))) * 2 * math.Pi
		radius := seeded(cellType, "r", string(rune(i))) * 2
		u.X[i] = cx + radius*math.Cos(angle)
		u.Y[i] = cy + radius*math.Sin(angle)
		u.Color[i] = cellType
	}
	return u, nil
}

func (s *Source) Dotplot(ctx context.Context, genes []string, groupBy string) (*atlas.Dotplot, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	groups := s.groupsFor(groupBy)
	d := &atlas.Dotplot{
		Genes:  append([]string(nil), genes...),
		Groups: groups,
		Values: map[string]map[string]atlas.DotplotCell{},
	}
	for _, gene := range genes {
		d.Values[gene] = map[string]atlas.DotplotCell{}
		for _, group := range groups {
			d.Values[gene][group] = atlas.DotplotCell{
				Avg: seeded(gene, group, "avg") * 4,
				Pct: seeded(gene, group, "pct"),
			}
		}
	}
	return d, nil
}

func (s *Source) DotplotByDisease(ctx context.Context, genes []string, groupBy string) (*atlas.DotplotByDisease, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	groups := s.groupsFor(groupBy)
	d := &atlas.DotplotByDisease{
		Diseases: append([]string(nil), demoDiseases...),
		Genes:    append([]string(nil), genes...),
		Groups:   groups,
		Values:   map[string]map[string]map[string]atlas.DotplotCell{},
	}
	for _, disease := range demoDiseases {
		d.Values[disease] = map[string]map[string]atlas.DotplotCell{}
		for _, gene := range genes {
			d.Values[disease][gene] = map[string]atlas.DotplotCell{}
			for _, group := range groups {
				d.Values[disease][gene][group] = atlas.DotplotCell{
					Avg: seeded(disease, gene, group, "avg") * 4,
					Pct: seeded(disease, gene, group, "pct"),
				}
			}
		}
	}
	return d, nil
}

func (s *Source) Violin(ctx context.Context, q ports.ViolinQuery) (*atlas.Violin, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	v := &atlas.Violin{Gene: q.Gene, Kind: q.Kind}
	if v.Kind == "" {
		v.Kind = "hist"
	}
	for _, group := range s.groupsFor(q.GroupBy) {
		vg := atlas.ViolinGroup{Group: group}
		if v.Kind == "quantile" {
			base := seeded(q.Gene, group) * 2
			vg.Quantiles = &atlas.Quantiles{
				Min:    base,
				Q1:     base + 0.4,
				Median: base + 0.9,
				Q3:     base + 1.5,
				Max:    base + 2.8,
			}
		} else {
			bins := make([]float64, 11)
			counts := make([]int, 10)
			for i := range bins {
				bins[i] = float64(i) * 0.5
			}
			for i := range counts {
				counts[i] = int(seeded(q.Gene, group, string(rune('0'+i))) * 3000)
			}
			vg.Histogram = &atlas.Histogram{Bins: bins, Counts: counts}
		}
		v.Groups = append(v.Groups, vg)
	}
	return v, nil
}

func (s *Source) Composition(ctx context.Context, groupBy string) (*atlas.Composition, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	groups := s.groupsFor(groupBy)
	c := &atlas.Composition{
		Groups:    groups,
		CellTypes: append([]string(nil), demoCellTypes...),
		Counts:    make([][]int, len(groups)),
	}
	for i, group := range groups {
		c.Counts[i] = make([]int, len(demoCellTypes))
		for j, cellType := range demoCellTypes {
			c.Counts[i][j] = int(seeded(group, cellType) * 5000)
		}
	}
	return c, nil
}

func (s *Source) DEByDisease(ctx context.Context, q ports.DEQuery) (*atlas.DETable, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}
	genes := []string{
		"IFI27", "ISG15", "IFI6", "MX1", "OAS1", "STAT1", "IRF7",
		"CD27", "TNFRSF17", "IGHG1", "JCHAIN", "XBP1", "PRDM1", "CD38",
	}
	table := &atlas.DETable{Disease: q.Disease, CellType: q.CellType, Total: len(genes)}
	contrast := []string{q.Disease, atlas.HealthyLabel}
	for i, gene := range genes {
		// Rank-ordered by construction: effect shrinks, p grows
		lfc := 3.0 - float64(i)*0.4
		p := math.Pow(10, -8+float64(i)*0.5)
		table.Rows = append(table.Rows, atlas.DERow{
			Gene:    gene,
			LogFC:   lfc,
			PVal:    p,
			PValAdj: math.Min(p*float64(len(genes)), 1),
			Groups:  contrast,
		})
	}
	topN := q.TopN
	if topN <= 0 {
		topN = 5
	}
	for _, row := range table.Rows {
		if row.LogFC > 0 && len(table.TopUp) < topN {
			table.TopUp = append(table.TopUp, row)
		}
		if row.LogFC < 0 && len(table.TopDown) < topN {
			table.TopDown = append(table.TopDown, row)
		}
	}
	if q.Limit > 0 && q.Limit < len(table.Rows) {
		table.Rows = table.Rows[:q.Limit]
	}
	return table, nil
}

func (s *Source) groupsFor(groupBy string) []string {
	switch groupBy {
	case "accession":
		ids := make([]string, len(demoAccessions))
		for i, acc := range demoAccessions {
			ids[i] = acc.ID
		}
		return ids
	case "cell_type":
		return append([]string(nil), demoCellTypes...)
	default:
		return append([]string(nil), demoDiseases...)
	}
}
