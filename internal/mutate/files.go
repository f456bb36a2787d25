package mutate

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/modlog/internal/fsops"
	"github.com/danieljhkim/modlog/internal/hash"
)

// Files installs and uninstalls single files, keeping a backup of anything
// overwritten.
type Files struct {
	fs        fsops.FS
	backupDir string
	logger    zerolog.Logger
}

// NewFiles creates a Files mutator keeping backups under backupDir.
func NewFiles(fs fsops.FS, backupDir string, logger zerolog.Logger) *Files {
	return &Files{
		fs:        fs,
		backupDir: filepath.Join(backupDir, "files"),
		logger:    logger.With().Str("component", "files").Logger(),
	}
}

// BackupPath is where the original content of path is kept.
func (f *Files) BackupPath(path string) string {
	return filepath.Join(f.backupDir, hash.String(filepath.Clean(path)))
}

// Install copies src to dest. An existing dest is backed up first; a backup
// taken by an earlier install is never replaced.
func (f *Files) Install(src, dest string) error {
	backup := f.BackupPath(dest)

	destExists, err := f.fs.Exists(dest)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", dest, err)
	}
	if destExists {
		haveBackup, err := f.fs.Exists(backup)
		if err != nil {
			return fmt.Errorf("failed to check backup of %s: %w", dest, err)
		}
		if !haveBackup {
			if err := f.fs.CopyFile(dest, backup); err != nil {
				return fmt.Errorf("failed to back up %s: %w", dest, err)
			}
			f.logger.Debug().Str("path", dest).Str("backup", backup).Msg("backed up original")
		}
	}

	if err := f.fs.CopyFile(src, dest); err != nil {
		return fmt.Errorf("failed to install %s: %w", dest, err)
	}
	return nil
}

// Uninstall restores the backup of path when one exists and deletes path
// otherwise. A path that is already gone is not an error.
func (f *Files) Uninstall(path string) error {
	backup := f.BackupPath(path)

	haveBackup, err := f.fs.Exists(backup)
	if err != nil {
		return fmt.Errorf("failed to check backup of %s: %w", path, err)
	}
	if haveBackup {
		if err := f.fs.CopyFile(backup, path); err != nil {
			return fmt.Errorf("failed to restore %s: %w", path, err)
		}
		if err := f.fs.Remove(backup); err != nil {
			f.logger.Warn().Err(err).Str("backup", backup).Msg("restored but could not drop backup")
		}
		f.logger.Debug().Str("path", path).Msg("restored original")
		return nil
	}

	exists, err := f.fs.Exists(path)
	if err != nil {
		return fmt.Errorf("failed to check %s: %w", path, err)
	}
	if !exists {
		f.logger.Debug().Str("path", path).Msg("already removed")
		return nil
	}
	if err := f.fs.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
