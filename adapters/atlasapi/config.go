package atlasapi

import (
	"time"
)

// Endpoint paths on the atlas backend
const (
	epManifest         = "/atlas/manifest"
	epMarkers          = "/atlas/markers"
	epAccessions       = "/atlas/accessions"
	epUMAP             = "/atlas/umap"
	epDotplot          = "/atlas/dotplot"
	epDotplotByDisease = "/atlas/dotplot_by_disease"
	epViolin           = "/atlas/violin"
	epComposition      = "/atlas/composition"
	epDEByDisease      = "/atlas/de_by_disease"
)

// Timeouts holds the per-endpoint request deadlines. Light metadata lookups
// get the short bound, per-cell aggregates the middle one, DE tables the
// long one.
type Timeouts struct {
	Metadata  time.Duration // manifest, markers, accessions, composition
	Aggregate time.Duration // umap, dotplot, violin
	DE        time.Duration // de_by_disease
}

// DefaultTimeouts spans the 10-20s band the panels tolerate
func DefaultTimeouts() Timeouts {
	return Timeouts{
		Metadata:  10 * time.Second,
		Aggregate: 15 * time.Second,
		DE:        20 * time.Second,
	}
}

func (t Timeouts) forEndpoint(endpoint string) time.Duration {
	switch endpoint {
	case epDEByDisease:
		return t.DE
	case epUMAP, epDotplot, epDotplotByDisease, epViolin:
		return t.Aggregate
	default:
		return t.Metadata
	}
}
