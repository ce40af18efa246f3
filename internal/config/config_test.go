package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Projection.Scale != 1 {
		t.Errorf("default scale: got %f, want 1", cfg.Projection.Scale)
	}
	if cfg.Projection.Time != 0 {
		t.Errorf("default time: got %f, want 0", cfg.Projection.Time)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("default log level: got %q, want info", cfg.Logging.Level)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := Default()
	cfg.Projection.Time = 24
	cfg.Projection.SmoothNormals = true
	cfg.Projection.Scale = 0.01
	cfg.Dump.MaxNodes = 50
	cfg.Logging.Level = "debug"

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded := Default()
	if err := loadFromFile(loaded, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if loaded.Projection.Time != 24 {
		t.Errorf("time: got %f", loaded.Projection.Time)
	}
	if !loaded.Projection.SmoothNormals {
		t.Error("smooth normals flag lost")
	}
	if loaded.Projection.Scale != 0.01 {
		t.Errorf("scale: got %f", loaded.Projection.Scale)
	}
	if loaded.Dump.MaxNodes != 50 {
		t.Errorf("max nodes: got %d", loaded.Dump.MaxNodes)
	}
	if loaded.Logging.Level != "debug" {
		t.Errorf("level: got %q", loaded.Logging.Level)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	partial := []byte("projection:\n  time: 12\n")
	if err := os.WriteFile(path, partial, 0644); err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := loadFromFile(cfg, path); err != nil {
		t.Fatalf("loadFromFile: %v", err)
	}

	if cfg.Projection.Time != 12 {
		t.Errorf("time: got %f, want 12", cfg.Projection.Time)
	}
	if cfg.Projection.Scale != 1 {
		t.Errorf("unset scale should keep default, got %f", cfg.Projection.Scale)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("unset level should keep default, got %q", cfg.Logging.Level)
	}
}
