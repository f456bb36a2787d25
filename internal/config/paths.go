// Package config manages modlog configuration and filesystem paths.
//
// The default root is ~/.modlog/ containing the per-owner install logs, the
// backups taken before files and settings were overwritten, and config.toml.
// The root can be moved with the MODLOG_ROOT environment variable.
package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// EnvRoot overrides the modlog root directory.
const EnvRoot = "MODLOG_ROOT"

// Paths contains all the filesystem paths used by modlog.
type Paths struct {
	// Root is the base directory for all modlog data (default: ~/.modlog)
	Root string

	// Logs is the directory containing one install log per owner
	Logs string

	// Backups is the directory holding original files and pre-edit values
	Backups string

	// Values is the default keyed-value settings file
	Values string

	// Config is the path to the settings file
	Config string
}

// DefaultPaths returns the default paths for modlog.
func DefaultPaths() (*Paths, error) {
	root := os.Getenv(EnvRoot)
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		root = filepath.Join(home, ".modlog")
	}
	return PathsAt(root), nil
}

// PathsAt lays out the modlog directories under root.
func PathsAt(root string) *Paths {
	return &Paths{
		Root:    root,
		Logs:    filepath.Join(root, "logs"),
		Backups: filepath.Join(root, "backups"),
		Values:  filepath.Join(root, "values.toml"),
		Config:  filepath.Join(root, "config.toml"),
	}
}

// EnsureDirectories creates all necessary directories if they don't exist.
func (p *Paths) EnsureDirectories() error {
	for _, dir := range []string{p.Root, p.Logs, p.Backups} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Originals is the ledger of pre-edit config and keyed values.
func (p *Paths) Originals() string {
	return filepath.Join(p.Backups, "originals.toml")
}
