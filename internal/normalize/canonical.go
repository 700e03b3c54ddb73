package normalize

import (
	"strings"

	"atlasdash/domain/atlas"
)

// Disease-label canonicalization. The backend mixes accession-level raw
// labels ("ra", "SLE", "normal") with display labels; every panel must show
// one canonical form, and any merge over disease labels must sum across all
// raw spellings of the same disease. Unrecognized labels pass through
// unchanged, which also makes the mapping idempotent.

var diseaseSynonyms = map[string]string{
	"normal":                       atlas.HealthyLabel,
	"healthy":                      atlas.HealthyLabel,
	"control":                      atlas.HealthyLabel,
	"ra":                           "Rheumatoid arthritis",
	"rheumatoid arthritis":         "Rheumatoid arthritis",
	"sjs":                          "Sjögren syndrome",
	"sjögren syndrome":             "Sjögren syndrome",
	"sjogren syndrome":             "Sjögren syndrome",
	"sle":                          "Systemic lupus erythematosus",
	"systemic lupus erythematosus": "Systemic lupus erythematosus",
}

// Disease maps a raw disease label to its canonical display form
func Disease(label string) string {
	if canonical, ok := diseaseSynonyms[strings.ToLower(strings.TrimSpace(label))]; ok {
		return canonical
	}
	return label
}

// Diseases canonicalizes a label list, dropping duplicates that collapse to
// the same canonical form while preserving first-seen order.
func Diseases(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	out := make([]string, 0, len(labels))
	for _, label := range labels {
		c := Disease(label)
		if seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

// MergeComposition collapses composition rows whose group labels share a
// canonical disease form, summing counts cell-type-wise. Total count is
// preserved: sum(merged) == sum(raw). Group order is first-seen.
func MergeComposition(c *atlas.Composition) *atlas.Composition {
	merged := &atlas.Composition{CellTypes: c.CellTypes}
	index := make(map[string]int)

	for i, group := range c.Groups {
		canonical := Disease(group)
		row, ok := index[canonical]
		if !ok {
			row = len(merged.Groups)
			index[canonical] = row
			merged.Groups = append(merged.Groups, canonical)
			merged.Counts = append(merged.Counts, make([]int, len(c.CellTypes)))
		}
		for j := range c.CellTypes {
			if i < len(c.Counts) && j < len(c.Counts[i]) {
				merged.Counts[row][j] += c.Counts[i][j]
			}
		}
	}
	return merged
}
