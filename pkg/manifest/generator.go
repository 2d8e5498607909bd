package manifest

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dtnitsch/trials-dashboard/pkg/storage"
)

// ListDataFiles returns the names of qualifying files in dataDir, sorted
// ascending: regular files with a .json suffix, excluding the manifest itself.
// A missing directory is not an error and yields an empty list.
func ListDataFiles(dataDir string) ([]string, error) {
	entries, err := os.ReadDir(dataDir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error listing data directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if !strings.HasSuffix(name, ".json") || name == FileName {
			continue
		}
		files = append(files, name)
	}
	sort.Strings(files)

	return files, nil
}

// Validate parses every qualifying file in dataDir and collects the failures.
// Malformed JSON and unreadable files are recorded the same way; validation
// never stops at the first bad file so all problems are reported together.
// An empty or missing directory validates clean.
func Validate(dataDir string, s *storage.Storage) ([]InvalidFile, error) {
	files, err := ListDataFiles(dataDir)
	if err != nil {
		return nil, err
	}

	var invalid []InvalidFile
	for _, name := range files {
		data, err := s.ReadFile(filepath.Join(dataDir, name))
		if err != nil {
			invalid = append(invalid, InvalidFile{Name: name, Reason: err.Error()})
			continue
		}

		var v any
		if err := json.Unmarshal(data, &v); err != nil {
			invalid = append(invalid, InvalidFile{Name: name, Reason: err.Error()})
		}
	}

	return invalid, nil
}

// Generate builds a fresh manifest for dataDir and writes it to
// dataDir/manifest.json, fully overwriting any prior content. The data
// directory is created if missing. Write failures are returned, not swallowed.
// Returns the manifest and the path it was written to.
func Generate(dataDir string, s *storage.Storage) (*Manifest, string, error) {
	if err := s.EnsureDir(dataDir); err != nil {
		return nil, "", err
	}

	files, err := ListDataFiles(dataDir)
	if err != nil {
		return nil, "", err
	}
	if files == nil {
		files = []string{}
	}

	m := &Manifest{
		Files:       files,
		TotalFiles:  len(files),
		GeneratedAt: time.Now().Format(time.RFC3339),
		Note:        Note,
	}

	data, err := m.MarshalIndented()
	if err != nil {
		return nil, "", err
	}

	manifestPath := filepath.Join(dataDir, FileName)
	if err := s.SaveFile(manifestPath, data); err != nil {
		return nil, "", fmt.Errorf("error saving manifest: %w", err)
	}

	return m, manifestPath, nil
}

// MarshalIndented serializes the manifest as indented UTF-8 JSON with
// non-ASCII characters preserved rather than escaped.
func (m *Manifest) MarshalIndented() ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		return nil, fmt.Errorf("error marshalling manifest: %w", err)
	}
	return buf.Bytes(), nil
}
