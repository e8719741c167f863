package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// ManifestName is the sidecar file describing what a run saved
const ManifestName = "manifest.json"

// Entry records one saved SVG in the run manifest
type Entry struct {
	Filename  string    `json:"filename"`
	ItemID    string    `json:"item_id"`
	ItemType  string    `json:"item_type"`
	SourceURL string    `json:"source_url"`
	Size      int64     `json:"size"`
	SavedAt   time.Time `json:"saved_at"`
}

// Manager handles writes into the output directory
type Manager struct {
	outputDir string
	entries   []Entry
}

// NewManager creates a storage manager, creating the output directory if
// it does not exist.
func NewManager(outputDir string) (*Manager, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	return &Manager{outputDir: outputDir}, nil
}

// SaveSVG writes SVG bytes under the given filename. The write goes through
// a temporary file and an atomic rename, so an interrupted run never leaves
// a truncated .svg behind.
func (m *Manager) SaveSVG(filename string, data []byte) error {
	target := filepath.Join(m.outputDir, filename)

	tempFile := target + ".tmp"
	if err := os.WriteFile(tempFile, data, 0644); err != nil {
		return fmt.Errorf("failed to write temporary file: %w", err)
	}

	if err := os.Rename(tempFile, target); err != nil {
		os.Remove(tempFile)
		return fmt.Errorf("failed to rename temporary file: %w", err)
	}

	return nil
}

// Record notes a successful save for the manifest
func (m *Manager) Record(entry Entry) {
	if entry.SavedAt.IsZero() {
		entry.SavedAt = time.Now().UTC()
	}
	m.entries = append(m.entries, entry)
}

// WriteManifest persists the run manifest next to the saved files. Writing
// nothing when nothing was saved keeps an aborted run's directory clean.
func (m *Manager) WriteManifest() error {
	if len(m.entries) == 0 {
		return nil
	}

	data, err := json.MarshalIndent(m.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	path := filepath.Join(m.outputDir, ManifestName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}

	return nil
}

// OutputDir returns the output directory path
func (m *Manager) OutputDir() string {
	return m.outputDir
}

// SavedCount returns the number of recorded saves
func (m *Manager) SavedCount() int {
	return len(m.entries)
}
