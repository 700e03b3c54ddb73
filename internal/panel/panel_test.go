package panel

import (
	"context"
	"testing"

	apperrors "atlasdash/internal/errors"
)

func TestPanel_Lifecycle(t *testing.T) {
	p := New(Config{Name: "manifest"})
	if s := p.Snapshot(); s.State != StateIdle {
		t.Fatalf("new panel state = %s, want idle", s.State)
	}

	gen := p.Begin()
	if s := p.Snapshot(); s.State != StateLoading {
		t.Fatalf("state after Begin = %s, want loading", s.State)
	}

	if !p.Complete(gen, "manifest-data", nil) {
		t.Fatal("current-generation Complete should commit")
	}
	s := p.Snapshot()
	if s.State != StateLoaded || s.Value != "manifest-data" {
		t.Fatalf("state after Complete = %s (%v)", s.State, s.Value)
	}
}

func TestPanel_ErrorIsNonTerminal(t *testing.T) {
	p := New(Config{Name: "composition"})

	gen := p.Begin()
	p.Complete(gen, nil, apperrors.Timeout())
	s := p.Snapshot()
	if s.State != StateError {
		t.Fatalf("state = %s, want error", s.State)
	}
	if s.Err != "request timed out" {
		t.Errorf("error message = %q, want %q", s.Err, "request timed out")
	}

	// A later load re-enters loading and can succeed
	gen = p.Begin()
	if st := p.Snapshot().State; st != StateLoading {
		t.Fatalf("state after reload = %s, want loading", st)
	}
	p.Complete(gen, 42, nil)
	if s := p.Snapshot(); s.State != StateLoaded || s.Err != "" {
		t.Fatalf("recovery failed: %+v", s)
	}
}

func TestPanel_StaleResultNeverOverwrites(t *testing.T) {
	p := New(Config{Name: "de"})

	// Request A (disease=RA) superseded by request B (disease=SLE)
	genA := p.Begin()
	genB := p.Begin()

	// B resolves first
	if !p.Complete(genB, "SLE result", nil) {
		t.Fatal("B is current and must commit")
	}
	// A resolves late and must be dropped
	if p.Complete(genA, "RA result", nil) {
		t.Fatal("stale A must not commit")
	}

	s := p.Snapshot()
	if s.Value != "SLE result" {
		t.Fatalf("displayed state = %v, want B's result only", s.Value)
	}

	// Same for a late error: it must not clobber B either
	if p.Complete(genA, nil, apperrors.Network(nil)) {
		t.Fatal("stale error must not commit")
	}
	if s := p.Snapshot(); s.State != StateLoaded {
		t.Fatalf("state = %s, want loaded", s.State)
	}
}

func TestPanel_ResetInvalidatesInFlightLoads(t *testing.T) {
	p := New(Config{Name: "umap"})
	gen := p.Begin()
	p.Reset()
	if p.Complete(gen, "old base data", nil) {
		t.Fatal("load begun before Reset must not commit")
	}
	if s := p.Snapshot(); s.State != StateIdle || s.Value != nil {
		t.Fatalf("state after Reset = %+v, want idle/nil", s)
	}
}

func TestPanel_LoadIDIsPerLoad(t *testing.T) {
	p := New(Config{Name: "violin"})
	if id := p.Snapshot().LoadID; id != "" {
		t.Fatalf("idle panel load id = %q, want empty", id)
	}

	p.Begin()
	first := p.Snapshot().LoadID
	if first == "" {
		t.Fatal("load id must be assigned on Begin")
	}

	p.Begin()
	second := p.Snapshot().LoadID
	if second == "" || second == first {
		t.Fatalf("each load needs a fresh id, got %q then %q", first, second)
	}
}

func TestPanel_Load(t *testing.T) {
	p := New(Config{Name: "markers", Canonicalize: func(s string) string { return "canon:" + s }})
	s := p.Load(context.Background(), func(ctx context.Context) (any, error) {
		return []string{"CD3E"}, nil
	})
	if s.State != StateLoaded {
		t.Fatalf("state = %s, want loaded", s.State)
	}
	if p.Canonicalize("x") != "canon:x" {
		t.Error("configured canonicalizer not applied")
	}
}
