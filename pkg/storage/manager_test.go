package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestManagerSaveSVG(t *testing.T) {
	tempDir := t.TempDir()

	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	data := []byte(`<svg xmlns="http://www.w3.org/2000/svg"/>`)
	if err := manager.SaveSVG("icon.svg", data); err != nil {
		t.Fatalf("Failed to save: %v", err)
	}

	content, err := os.ReadFile(filepath.Join(tempDir, "icon.svg"))
	if err != nil {
		t.Fatalf("Failed to read saved file: %v", err)
	}
	if !bytes.Equal(content, data) {
		t.Error("File content does not match saved data")
	}

	// No temp file may survive a completed save
	if _, err := os.Stat(filepath.Join(tempDir, "icon.svg.tmp")); !os.IsNotExist(err) {
		t.Error("Temporary file left behind")
	}
}

func TestManagerCreatesOutputDir(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "a", "b", "svgs")

	if _, err := NewManager(nested); err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}
	if info, err := os.Stat(nested); err != nil || !info.IsDir() {
		t.Error("Expected output directory to be created")
	}
}

func TestManagerSaveFailsOnBadDir(t *testing.T) {
	tempDir := t.TempDir()
	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	// Remove the directory underneath the manager to force a write error
	if err := os.RemoveAll(tempDir); err != nil {
		t.Fatalf("Failed to remove dir: %v", err)
	}

	if err := manager.SaveSVG("icon.svg", []byte("x")); err == nil {
		t.Error("Expected save into a missing directory to fail")
	}
}

func TestManifest(t *testing.T) {
	tempDir := t.TempDir()
	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	manager.Record(Entry{
		Filename:  "icon.svg",
		ItemID:    "item1",
		ItemType:  "image",
		SourceURL: "https://cdn.example.com/1",
		Size:      42,
	})
	if manager.SavedCount() != 1 {
		t.Errorf("SavedCount = %d, want 1", manager.SavedCount())
	}

	if err := manager.WriteManifest(); err != nil {
		t.Fatalf("Failed to write manifest: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(tempDir, ManifestName))
	if err != nil {
		t.Fatalf("Failed to read manifest: %v", err)
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		t.Fatalf("Manifest is not valid JSON: %v", err)
	}
	if len(entries) != 1 || entries[0].Filename != "icon.svg" {
		t.Errorf("Unexpected manifest entries: %+v", entries)
	}
	if entries[0].SavedAt.IsZero() {
		t.Error("Expected SavedAt to be filled in")
	}
}

func TestManifestSkippedWhenEmpty(t *testing.T) {
	tempDir := t.TempDir()
	manager, err := NewManager(tempDir)
	if err != nil {
		t.Fatalf("Failed to create manager: %v", err)
	}

	if err := manager.WriteManifest(); err != nil {
		t.Fatalf("WriteManifest: %v", err)
	}
	if _, err := os.Stat(filepath.Join(tempDir, ManifestName)); !os.IsNotExist(err) {
		t.Error("Manifest must not be written for an empty run")
	}
}
