package atlas

// Value shapes returned by the atlas backend. All of them are read-only:
// they are fetched fresh per filter change and never written back.

// HealthyLabel is the sentinel control group. Every manifest carries it and
// all differential-expression contrasts are implicitly disease vs Healthy.
const HealthyLabel = "Healthy"

// Manifest is the top-level metadata for the loaded atlas. It is fetched
// once per API base and drives every selector's option list.
type Manifest struct {
	Tissue       string              `json:"tissue"`
	Diseases     []string            `json:"diseases"`
	CellTypes    []string            `json:"cell_types"`
	Accessions   []Accession         `json:"accessions"`
	MarkerPanels map[string][]string `json:"marker_panels"`
}

// Accession is one source dataset contributing donors and cells to the atlas
type Accession struct {
	ID       string `json:"id"`
	Disease  string `json:"disease"`
	Platform string `json:"platform"`
	Donors   int    `json:"donors"`
	Cells    int    `json:"cells"`
	Tissue   string `json:"tissue"`
}

// Composition is a group x cell-type count matrix.
// INVARIANTS:
// - Counts is row/column-aligned: Counts[i][j] belongs to Groups[i], CellTypes[j]
// - counts are non-negative integers
type Composition struct {
	Groups    []string `json:"groups"`
	CellTypes []string `json:"cell_types"`
	Counts    [][]int  `json:"counts"`
}

// DotplotCell carries mean expression and fraction expressing for one
// gene/group pair. Pct is in [0,1].
type DotplotCell struct {
	Avg float64 `json:"avg"`
	Pct float64 `json:"pct"`
}

// Dotplot is a gene x group matrix keyed gene -> group
type Dotplot struct {
	Genes  []string                          `json:"genes"`
	Groups []string                          `json:"groups"`
	Values map[string]map[string]DotplotCell `json:"values"`
}

// DotplotByDisease nests the same matrix by disease: disease -> gene -> group
type DotplotByDisease struct {
	Diseases []string                                     `json:"diseases"`
	Genes    []string                                     `json:"genes"`
	Groups   []string                                     `json:"groups"`
	Values   map[string]map[string]map[string]DotplotCell `json:"values"`
}

// Quantiles is a five-number distribution summary.
// INVARIANT: Min <= Q1 <= Median <= Q3 <= Max
type Quantiles struct {
	Min    float64 `json:"min"`
	Q1     float64 `json:"q1"`
	Median float64 `json:"median"`
	Q3     float64 `json:"q3"`
	Max    float64 `json:"max"`
}

// Histogram is a binned distribution summary.
// INVARIANT: Bins ascending, len(Counts) == len(Bins)-1, counts non-negative
type Histogram struct {
	Bins   []float64 `json:"bins"`
	Counts []int     `json:"counts"`
}

// ViolinGroup is one group's distribution summary, carrying either quantiles
// or a histogram depending on the requested kind.
type ViolinGroup struct {
	Group     string     `json:"group"`
	Quantiles *Quantiles `json:"quantiles,omitempty"`
	Histogram *Histogram `json:"histogram,omitempty"`
}

// Violin is the per-group distribution response for one gene
type Violin struct {
	Gene   string        `json:"gene"`
	Kind   string        `json:"kind"`
	Groups []ViolinGroup `json:"groups"`
}

// UMAP carries precomputed embedding coordinates with one categorical color
// label per point.
type UMAP struct {
	X     []float64 `json:"x"`
	Y     []float64 `json:"y"`
	Color []string  `json:"color"`
}

// DERow is one ranked differential-expression result. The client trusts the
// backend's ordering and does not enforce p_val_adj >= p_val.
type DERow struct {
	Gene    string   `json:"gene"`
	LogFC   float64  `json:"logfc"`
	PVal    float64  `json:"p_val"`
	PValAdj float64  `json:"p_val_adj"`
	Groups  []string `json:"groups"`
}

// DETable is the paged differential-expression response for one
// disease-vs-Healthy contrast, with precomputed top slices.
type DETable struct {
	Disease  string  `json:"disease"`
	CellType string  `json:"cell_type"`
	Rows     []DERow `json:"rows"`
	TopUp    []DERow `json:"top_up"`
	TopDown  []DERow `json:"top_down"`
	Total    int     `json:"total"`
}
