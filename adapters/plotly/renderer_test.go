package plotly

import (
	"testing"

	"atlasdash/internal/trace"
)

func TestPageRenderer_ReplacesNotAppends(t *testing.T) {
	r := New()

	first := trace.Figure{Traces: []trace.Trace{{Type: "bar"}, {Type: "bar"}}}
	second := trace.Figure{Traces: []trace.Trace{{Type: "violin"}}}

	if err := r.Render("composition", first); err != nil {
		t.Fatal(err)
	}
	if err := r.Render("composition", second); err != nil {
		t.Fatal(err)
	}
	// Idempotent under repetition
	if err := r.Render("composition", second); err != nil {
		t.Fatal(err)
	}

	fig, ok := r.Figure("composition")
	if !ok {
		t.Fatal("figure missing after render")
	}
	if len(fig.Traces) != 1 || fig.Traces[0].Type != "violin" {
		t.Fatalf("prior traces leaked into container: %+v", fig.Traces)
	}

	if _, ok := r.Figure("umap"); ok {
		t.Fatal("unrendered container should have no figure")
	}
	if len(r.Containers()) != 1 {
		t.Fatalf("expected 1 container, got %v", r.Containers())
	}
}
