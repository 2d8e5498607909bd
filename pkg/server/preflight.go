package server

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/dtnitsch/trials-dashboard/pkg/storage"
)

// PreflightInfo describes what the startup checks found.
type PreflightInfo struct {
	Title     string   // dashboard title from the entry file, "" when absent
	DataFiles []string // every .json file in the data directory, manifest included
}

// Preflight runs the startup checks before any network resource is acquired:
// the entry file must exist in the working directory (guards against running
// from the wrong location), and the data directory is created if missing.
// A data directory without JSON files is advisory, not an error.
func Preflight(entryFile, dataDir string, s *storage.Storage) (*PreflightInfo, error) {
	if !s.HasFile(entryFile) {
		return nil, fmt.Errorf("%s not found in current directory", entryFile)
	}

	if err := s.EnsureDir(dataDir); err != nil {
		return nil, err
	}

	info := &PreflightInfo{
		Title: extractTitle(entryFile, s),
	}

	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return nil, fmt.Errorf("error listing data directory: %w", err)
	}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info.DataFiles = append(info.DataFiles, entry.Name())
	}
	sort.Strings(info.DataFiles)

	return info, nil
}

// extractTitle pulls the <title> text out of the entry file for the startup
// banner. Any parse or read problem just leaves the banner without a title.
func extractTitle(entryFile string, s *storage.Storage) string {
	data, err := s.ReadFile(entryFile)
	if err != nil {
		return ""
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(data))
	if err != nil {
		return ""
	}

	return strings.TrimSpace(doc.Find("title").First().Text())
}
