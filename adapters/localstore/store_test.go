package localstore

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	store := NewFileStore(path)

	if _, ok := store.Get(KeyAPIBase); ok {
		t.Fatal("fresh store should report absence")
	}

	store.Set(KeyAPIBase, "https://other.example.org")
	value, ok := store.Get(KeyAPIBase)
	if !ok || value != "https://other.example.org" {
		t.Fatalf("Get = %q/%v after Set", value, ok)
	}

	// Survives a new store instance on the same path
	again := NewFileStore(path)
	if value, ok := again.Get(KeyAPIBase); !ok || value != "https://other.example.org" {
		t.Fatalf("persisted Get = %q/%v", value, ok)
	}

	again.Clear(KeyAPIBase)
	if _, ok := again.Get(KeyAPIBase); ok {
		t.Fatal("Clear should revert to absence")
	}
}

func TestFileStore_CorruptFileFallsBackToAbsence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "settings.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	store := NewFileStore(path)
	if _, ok := store.Get(KeyAPIBase); ok {
		t.Fatal("corrupt file should read as absent, not fail")
	}
	// And writes still work afterwards
	store.Set(KeyAPIBase, "https://x")
	if value, ok := store.Get(KeyAPIBase); !ok || value != "https://x" {
		t.Fatalf("Get after recovery = %q/%v", value, ok)
	}
}

func TestFileStore_EmptyPathSwallowsWrites(t *testing.T) {
	store := NewFileStore("")
	store.Set(KeyAPIBase, "https://x") // must not panic or error
	if _, ok := store.Get(KeyAPIBase); ok {
		t.Fatal("pathless store never persists")
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	store.Set("k", "v")
	if value, ok := store.Get("k"); !ok || value != "v" {
		t.Fatalf("Get = %q/%v", value, ok)
	}
	store.Clear("k")
	if _, ok := store.Get("k"); ok {
		t.Fatal("cleared key should be absent")
	}
	if _, ok := store.Get("empty"); ok {
		t.Fatal("unknown key should be absent")
	}
}
