package storage

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSaveAndReadFile(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "trial.json")
	content := []byte(`{"id":1}`)

	if err := s.SaveFile(path, content); err != nil {
		t.Fatalf("SaveFile() error = %v", err)
	}

	data, err := s.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != string(content) {
		t.Errorf("ReadFile() = %q, want %q", data, content)
	}
}

func TestReadFile_Missing(t *testing.T) {
	s := &Storage{}
	if _, err := s.ReadFile(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Error("ReadFile() should error for a missing file")
	}
}

func TestHasFile(t *testing.T) {
	s := &Storage{}
	dir := t.TempDir()
	path := filepath.Join(dir, "index.html")

	if s.HasFile(path) {
		t.Error("HasFile() = true for a missing file")
	}

	if err := os.WriteFile(path, []byte("<html></html>"), 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}
	if !s.HasFile(path) {
		t.Error("HasFile() = false for an existing file")
	}
}

func TestEnsureDir(t *testing.T) {
	s := &Storage{}
	dir := filepath.Join(t.TempDir(), "data", "nested")

	if err := s.EnsureDir(dir); err != nil {
		t.Fatalf("EnsureDir() error = %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("directory was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("EnsureDir() created something that is not a directory")
	}

	// Idempotent on an existing directory
	if err := s.EnsureDir(dir); err != nil {
		t.Errorf("EnsureDir() on existing dir error = %v", err)
	}
}

func TestGetFileStats(t *testing.T) {
	s := &Storage{}
	path := filepath.Join(t.TempDir(), "trial.json")
	content := []byte(`{"id":1}`)
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write file: %v", err)
	}

	stats, err := s.GetFileStats(path)
	if err != nil {
		t.Fatalf("GetFileStats() error = %v", err)
	}
	if stats.SizeBytes != int64(len(content)) {
		t.Errorf("stats.SizeBytes = %d, want %d", stats.SizeBytes, len(content))
	}
}
