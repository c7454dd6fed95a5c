package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFileStore_SetGet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "polaris", "store.json")
	s := NewFileStore(path)

	if err := s.Set(`Software\Polaris`, "DisplayVersion", "1.2.0"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, err := s.Get(`Software\Polaris`, "DisplayVersion")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != "1.2.0" {
		t.Errorf("Get = %q, want 1.2.0", v)
	}
}

func TestFileStore_GetMissing(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "store.json"))

	_, err := s.Get(`Software\Polaris`, "Branch")
	if !errors.Is(err, ErrNotExist) {
		t.Errorf("error = %v, want ErrNotExist", err)
	}
}

func TestFileStore_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")

	first := NewFileStore(path)
	if err := first.Set(`Software\Polaris`, "Branch", "beta"); err != nil {
		t.Fatal(err)
	}

	second := NewFileStore(path)
	v, err := second.Get(`Software\Polaris`, "Branch")
	if err != nil {
		t.Fatalf("Get from second instance failed: %v", err)
	}
	if v != "beta" {
		t.Errorf("Get = %q, want beta", v)
	}
}

func TestFileStore_SeparatorNormalized(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "store.json"))

	if err := s.Set("Software/Polaris", "InstallPath", "/opt/polaris"); err != nil {
		t.Fatal(err)
	}
	v, err := s.Get(`Software\Polaris`, "InstallPath")
	if err != nil {
		t.Fatalf("Get with backslash path failed: %v", err)
	}
	if v != "/opt/polaris" {
		t.Errorf("Get = %q", v)
	}
}

func TestFileStore_Delete(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "store.json"))

	if err := s.Set(`Software\Polaris`, "DisplayVersion", "1.0.0"); err != nil {
		t.Fatal(err)
	}
	if err := s.Delete(`Software\Polaris`, "DisplayVersion"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := s.Get(`Software\Polaris`, "DisplayVersion"); !errors.Is(err, ErrNotExist) {
		t.Errorf("value survived delete: %v", err)
	}

	// Deleting an absent value is fine.
	if err := s.Delete(`Software\Nothing`, "x"); err != nil {
		t.Errorf("Delete of absent value errored: %v", err)
	}
}

func TestFileStore_DeleteTree(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "store.json"))

	if err := s.Set(`Software\Polaris`, "Branch", "main"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(`Software\Polaris\Sub`, "k", "v"); err != nil {
		t.Fatal(err)
	}
	if err := s.Set(`Software\Other`, "k", "v"); err != nil {
		t.Fatal(err)
	}

	if err := s.DeleteTree(`Software\Polaris`); err != nil {
		t.Fatalf("DeleteTree failed: %v", err)
	}

	if _, err := s.Get(`Software\Polaris`, "Branch"); !errors.Is(err, ErrNotExist) {
		t.Error("namespace survived DeleteTree")
	}
	if _, err := s.Get(`Software\Polaris\Sub`, "k"); !errors.Is(err, ErrNotExist) {
		t.Error("child namespace survived DeleteTree")
	}
	if _, err := s.Get(`Software\Other`, "k"); err != nil {
		t.Errorf("sibling namespace removed by DeleteTree: %v", err)
	}
}

func TestFileStore_CorruptedFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store.json")
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}

	s := NewFileStore(path)
	if _, err := s.Get(`Software\Polaris`, "Branch"); !errors.Is(err, ErrNotExist) {
		t.Errorf("corrupted store should behave as empty, got %v", err)
	}
	if err := s.Set(`Software\Polaris`, "Branch", "main"); err != nil {
		t.Errorf("Set after corruption failed: %v", err)
	}
}
