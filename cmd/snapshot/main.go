// Command snapshot exports a full-atlas workbook: per-disease composition,
// marker expression and differential-expression sheets, fetched concurrently.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"sync"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/semaphore"

	"atlasdash/adapters/atlasapi"
	"atlasdash/adapters/demo"
	"atlasdash/adapters/excel"
	"atlasdash/domain/atlas"
	"atlasdash/internal/config"
	apperrors "atlasdash/internal/errors"
	"atlasdash/internal/normalize"
	"atlasdash/ports"
)

// markerGenes flattens every manifest marker panel into one deduplicated list
func markerGenes(m *atlas.Manifest) []string {
	seen := map[string]bool{}
	var genes []string
	for _, panel := range m.MarkerPanels {
		for _, gene := range panel {
			if !seen[gene] {
				seen[gene] = true
				genes = append(genes, gene)
			}
		}
	}
	return genes
}

// sliceDotplot extracts one disease's gene x cell-type matrix from the nested
// by-disease response, keyed by canonical disease label.
func sliceDotplot(d *atlas.DotplotByDisease, canonical string) *atlas.Dotplot {
	for _, raw := range d.Diseases {
		if normalize.Disease(raw) != canonical {
			continue
		}
		return &atlas.Dotplot{
			Genes:  d.Genes,
			Groups: d.Groups,
			Values: d.Values[raw],
		}
	}
	return nil
}

func main() {
	out := flag.String("out", "atlas_snapshot.xlsx", "output workbook path")
	base := flag.String("base", "", "API base override (defaults to ATLAS_API_BASE)")
	useDemo := flag.Bool("demo", false, "use the canned demo source instead of the API")
	workers := flag.Int64("workers", 4, "concurrent per-disease fetches")
	timeout := flag.Duration("timeout", 2*time.Minute, "overall export deadline")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	var source ports.AtlasSource
	switch {
	case *useDemo:
		source = demo.New(0)
	case *base != "":
		source = atlasapi.New(*base)
	default:
		source = atlasapi.New(cfg.Atlas.DefaultBase)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	manifest, err := source.Manifest(ctx)
	if err != nil {
		log.Fatalf("Manifest fetch failed: %v", err)
	}

	composition, err := source.Composition(ctx, "disease")
	if err != nil {
		log.Fatalf("Composition fetch failed: %v", err)
	}

	// One nested fetch covers every disease's marker matrix
	var dotplots *atlas.DotplotByDisease
	if genes := markerGenes(manifest); len(genes) > 0 {
		dotplots, err = source.DotplotByDisease(ctx, genes, "cell_type")
		if err != nil {
			log.Printf("Dotplot fetch failed, marker sheets skipped: %v", err)
		}
	}

	diseases := normalize.Diseases(manifest.Diseases)
	sections := make([]excel.SnapshotSection, len(diseases))

	sem := semaphore.NewWeighted(*workers)
	var wg sync.WaitGroup
	for i, disease := range diseases {
		i, disease := i, disease
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatalf("Snapshot aborted: %v", err)
		}
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer sem.Release(1)
			section := excel.SnapshotSection{Disease: disease, Composition: composition}
			if dotplots != nil {
				section.Dotplot = sliceDotplot(dotplots, disease)
			}
			if disease != atlas.HealthyLabel {
				table, err := source.DEByDisease(ctx, ports.DEQuery{Disease: disease})
				if err != nil {
					// One failed contrast becomes a sheet note, not an abort
					section.Err = apperrors.UserMessage(err)
				} else {
					section.DE = table
				}
			}
			sections[i] = section
		}()
	}
	wg.Wait()

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("Failed to create %s: %v", *out, err)
	}
	defer f.Close()

	if err := excel.WriteSnapshotWorkbook(f, manifest, sections); err != nil {
		log.Fatalf("Workbook write failed: %v", err)
	}
	log.Printf("Wrote %s (%d diseases)", *out, len(diseases))
}
