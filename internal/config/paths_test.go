package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultPaths(t *testing.T) {
	t.Run("returns paths based on home directory", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Setenv(EnvRoot, "")

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}

		if paths.Root != filepath.Join(home, ".modlog") {
			t.Errorf("Root should be ~/.modlog, got: %s", paths.Root)
		}
		if paths.Logs != filepath.Join(paths.Root, "logs") {
			t.Errorf("Logs path incorrect: got %s", paths.Logs)
		}
		if paths.Backups != filepath.Join(paths.Root, "backups") {
			t.Errorf("Backups path incorrect: got %s", paths.Backups)
		}
		if paths.Config != filepath.Join(paths.Root, "config.toml") {
			t.Errorf("Config path incorrect: got %s", paths.Config)
		}
		if paths.Values != filepath.Join(paths.Root, "values.toml") {
			t.Errorf("Values path incorrect: got %s", paths.Values)
		}
		if paths.Originals() != filepath.Join(paths.Backups, "originals.toml") {
			t.Errorf("Originals path incorrect: got %s", paths.Originals())
		}
	})

	t.Run("respects MODLOG_ROOT", func(t *testing.T) {
		custom := filepath.Join(t.TempDir(), "custom")
		t.Setenv(EnvRoot, custom)

		paths, err := DefaultPaths()
		if err != nil {
			t.Fatalf("DefaultPaths failed: %v", err)
		}
		if paths.Root != custom {
			t.Errorf("Expected root %s, got %s", custom, paths.Root)
		}
		if paths.Logs != filepath.Join(custom, "logs") {
			t.Errorf("Logs should use the custom root, got %s", paths.Logs)
		}
	})
}

func TestPaths_EnsureDirectories(t *testing.T) {
	paths := PathsAt(filepath.Join(t.TempDir(), "root"))

	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	// Idempotent.
	if err := paths.EnsureDirectories(); err != nil {
		t.Fatalf("second EnsureDirectories failed: %v", err)
	}
}
