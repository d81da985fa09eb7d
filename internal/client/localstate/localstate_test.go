package localstate

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_FileNotExist(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "state.json"))
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, ok := s.Get("anything"); ok {
		t.Error("expected empty store for missing file")
	}
}

func TestSetGetDelete(t *testing.T) {
	s := New(filepath.Join(t.TempDir(), "state.json"))
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if err := s.Set("cart-storage", `[{"id":"1"}]`); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	v, ok := s.Get("cart-storage")
	if !ok || v != `[{"id":"1"}]` {
		t.Errorf("Get = %q, %v; want stored value", v, ok)
	}

	if err := s.Delete("cart-storage"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, ok := s.Get("cart-storage"); ok {
		t.Error("expected key gone after Delete")
	}
	// deleting again is a no-op
	if err := s.Delete("cart-storage"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}
}

func TestPersistsAcrossReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")

	s := New(path)
	if err := s.Load(); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := s.Set("adminAuthenticated", "true"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// simulate a reload with a fresh store over the same file
	s2 := New(path)
	if err := s2.Load(); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	v, ok := s2.Get("adminAuthenticated")
	if !ok || v != "true" {
		t.Errorf("after reload Get = %q, %v; want \"true\", true", v, ok)
	}
}

func TestLoad_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "state.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	s := New(path)
	if err := s.Load(); err == nil {
		t.Error("expected error for corrupt state file")
	}
}
