package normalize

import (
	"sort"
	"testing"
)

func TestLineageBucket_FirstMatchWins(t *testing.T) {
	tests := []struct {
		label string
		want  string
	}{
		{"CD4 T cell", "T cells"},
		{"CD8+ cytotoxic T-cell", "T cells"},
		{"Naive B cell", "B cells"},
		{"NK cell", "NK cells"},
		{"CD14+ Monocyte", "Monocytes"},
		{"Plasmacytoid DC", "Myeloid/DC"}, // DC takes priority over Plasma
		{"Macrophage", "Myeloid/DC"},
		{"Neutrophil", "Neutrophils"},
		{"Basophil", "Basophils"},
		{"Plasma cell", "Plasma"},
		{"Hematopoietic progenitor", "Progenitors"},
		{"Platelet", "Other"},
		{"", "Other"},
	}

	for _, tt := range tests {
		if got := LineageBucket(tt.label); got != tt.want {
			t.Errorf("LineageBucket(%q) = %q, want %q", tt.label, got, tt.want)
		}
	}
}

func TestGroupCellTypes_Partition(t *testing.T) {
	labels := []string{
		"CD4 T cell", "CD8 T cell", "Naive B cell", "NK cell",
		"CD14+ Monocyte", "Plasmacytoid DC", "Plasma cell", "Platelet",
	}

	buckets := GroupCellTypes(labels)

	// Union of members equals the input set, no duplicates or omissions
	var all []string
	for _, b := range buckets {
		if len(b.Members) == 0 {
			t.Errorf("empty bucket %q should be omitted", b.Name)
		}
		if !sort.StringsAreSorted(b.Members) {
			t.Errorf("bucket %q members not sorted: %v", b.Name, b.Members)
		}
		all = append(all, b.Members...)
	}
	if len(all) != len(labels) {
		t.Fatalf("partition has %d members, input has %d", len(all), len(labels))
	}
	sort.Strings(all)
	want := append([]string(nil), labels...)
	sort.Strings(want)
	for i := range want {
		if all[i] != want[i] {
			t.Errorf("partition mismatch at %d: got %q, want %q", i, all[i], want[i])
		}
	}
}

func TestGroupCellTypes_BucketOrderIsFixed(t *testing.T) {
	buckets := GroupCellTypes([]string{"Plasma cell", "CD4 T cell", "Neutrophil"})
	wantOrder := []string{"T cells", "Neutrophils", "Plasma"}
	if len(buckets) != len(wantOrder) {
		t.Fatalf("expected %d buckets, got %d", len(wantOrder), len(buckets))
	}
	for i, name := range wantOrder {
		if buckets[i].Name != name {
			t.Errorf("bucket %d = %q, want %q", i, buckets[i].Name, name)
		}
	}
}
