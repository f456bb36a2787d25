package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/modlog/internal/config"
	"github.com/danieljhkim/modlog/internal/fsops"
	"github.com/danieljhkim/modlog/internal/hash"
	"github.com/danieljhkim/modlog/internal/installlog"
	"github.com/danieljhkim/modlog/internal/logging"
	"github.com/danieljhkim/modlog/internal/mutate"
)

// app holds the real implementations shared by commands.
type app struct {
	paths    *config.Paths
	settings config.Settings
	logger   zerolog.Logger

	fs     fsops.FS
	hasher hash.Hasher
	store  *installlog.FileStore

	files     *mutate.Files
	ini       *mutate.IniEditor
	values    *mutate.Values
	installer *mutate.Installer
}

// newApp loads settings and wires the install log and mutators.
func newApp() (*app, error) {
	paths, err := config.DefaultPaths()
	if err != nil {
		return nil, fmt.Errorf("failed to get config paths: %w", err)
	}
	if err := paths.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("failed to ensure directories: %w", err)
	}

	settings, err := config.LoadSettings(paths.Config)
	if err != nil {
		return nil, err
	}

	logCfg := logging.DefaultConfig()
	if lvl, ok := logging.LevelFromName(settings.LogLevel); ok {
		logCfg.Level = lvl
	}
	logger := logging.New(logCfg)

	fs := fsops.NewRealFS()
	hasher := hash.NewSHA256Hasher()
	store := installlog.NewFileStore(fs, paths.Logs, logger)
	originals := mutate.NewOriginals(fs, paths.Originals())
	files := mutate.NewFiles(fs, paths.Backups, logger)
	ini := mutate.NewIniEditor(fs, originals, logger)
	values := mutate.NewValues(fs, settings.ValuesPath(paths), originals, logger)

	return &app{
		paths:     paths,
		settings:  settings,
		logger:    logger,
		fs:        fs,
		hasher:    hasher,
		store:     store,
		files:     files,
		ini:       ini,
		values:    values,
		installer: mutate.NewInstaller(store, files, ini, values, hasher, logger),
	}, nil
}

// outputJSON writes a value as indented JSON to w.
func outputJSON(w io.Writer, v interface{}) error {
	if w == nil {
		w = os.Stdout
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
