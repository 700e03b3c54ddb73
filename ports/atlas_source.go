package ports

import (
	"context"

	"atlasdash/domain/atlas"
)

// AtlasSource provides read-only access to the precomputed atlas aggregates.
// The dashboard never writes upstream state; every method maps to one GET.
// Implementations classify every failure into an internal/errors code before
// it crosses this boundary, so callers never see a raw transport error.
type AtlasSource interface {
	Manifest(ctx context.Context) (*atlas.Manifest, error)
	Markers(ctx context.Context, panel string) ([]string, error)
	Accessions(ctx context.Context, disease string) ([]atlas.Accession, error)
	UMAP(ctx context.Context, q UMAPQuery) (*atlas.UMAP, error)
	Dotplot(ctx context.Context, genes []string, groupBy string) (*atlas.Dotplot, error)
	DotplotByDisease(ctx context.Context, genes []string, groupBy string) (*atlas.DotplotByDisease, error)
	Violin(ctx context.Context, q ViolinQuery) (*atlas.Violin, error)
	Composition(ctx context.Context, groupBy string) (*atlas.Composition, error)
	DEByDisease(ctx context.Context, q DEQuery) (*atlas.DETable, error)
}

// UMAPQuery selects an embedding subset
type UMAPQuery struct {
	Disease   string
	CellType  string
	MaxPoints int
}

// ViolinQuery selects one gene's per-group distribution summary.
// Kind is "hist" or "quantile".
type ViolinQuery struct {
	Gene    string
	GroupBy string
	Kind    string
}

// DEQuery pages one disease-vs-Healthy contrast
type DEQuery struct {
	Disease  string
	CellType string
	Limit    int
	Offset   int
	TopN     int
}
