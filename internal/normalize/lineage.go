package normalize

import (
	"sort"
	"strings"
)

// Lineage bucketing classifies free-text cell-type labels into a fixed,
// ordered set of lineage buckets by case-insensitive substring matching.
// The keyword lists are priority ordered and the first matching bucket wins,
// so "plasmacytoid DC" lands in Myeloid/DC, not Plasma.

type lineageRule struct {
	name     string
	keywords []string
}

var lineageRules = []lineageRule{
	{"T cells", []string{"t cell", "t-cell", "cd4", "cd8", "treg", "mait", "gamma delta", "tfh"}},
	{"B cells", []string{"b cell", "b-cell", "memory b", "naive b"}},
	{"NK cells", []string{"nk cell", "nk-cell", "natural killer", "nkt"}},
	{"Monocytes", []string{"monocyte", "mono cd14", "mono cd16"}},
	{"Myeloid/DC", []string{"dendritic", "pdc", "cdc", " dc", "dc ", "macrophage", "myeloid"}},
	{"Neutrophils", []string{"neutrophil"}},
	{"Basophils", []string{"basophil", "eosinophil", "mast"}},
	{"Plasma", []string{"plasma"}},
	{"Progenitors", []string{"progenitor", "stem", "hsc", "cmp", "gmp", "mpp"}},
}

// OtherBucket collects everything no keyword set claims
const OtherBucket = "Other"

// LineageBucket returns the bucket name for one cell-type label
func LineageBucket(label string) string {
	lower := strings.ToLower(label)
	for _, rule := range lineageRules {
		for _, kw := range rule.keywords {
			if strings.Contains(lower, kw) {
				return rule.name
			}
		}
	}
	return OtherBucket
}

// Bucket is one non-empty lineage group with its members sorted
// lexicographically.
type Bucket struct {
	Name    string
	Members []string
}

// GroupCellTypes partitions labels into ordered lineage buckets. Every label
// is assigned to exactly one bucket; empty buckets are omitted.
func GroupCellTypes(labels []string) []Bucket {
	members := make(map[string][]string)
	for _, label := range labels {
		name := LineageBucket(label)
		members[name] = append(members[name], label)
	}

	order := make([]string, 0, len(lineageRules)+1)
	for _, rule := range lineageRules {
		order = append(order, rule.name)
	}
	order = append(order, OtherBucket)

	buckets := make([]Bucket, 0, len(members))
	for _, name := range order {
		if labels := members[name]; len(labels) > 0 {
			sort.Strings(labels)
			buckets = append(buckets, Bucket{Name: name, Members: labels})
		}
	}
	return buckets
}
