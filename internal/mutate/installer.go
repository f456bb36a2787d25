package mutate

import (
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/modlog/internal/fsops"
	"github.com/danieljhkim/modlog/internal/hash"
	"github.com/danieljhkim/modlog/internal/installlog"
)

// Installer applies changes for an owner and journals each one after it
// succeeds, so the install log never names a change that was not made.
type Installer struct {
	store  installlog.Store
	files  *Files
	ini    *IniEditor
	values *Values
	hasher hash.Hasher
	logger zerolog.Logger
}

// NewInstaller wires the mutators to the install log.
func NewInstaller(store installlog.Store, files *Files, ini *IniEditor, values *Values, hasher hash.Hasher, logger zerolog.Logger) *Installer {
	return &Installer{
		store:  store,
		files:  files,
		ini:    ini,
		values: values,
		hasher: hasher,
		logger: logger.With().Str("component", "installer").Logger(),
	}
}

func checkOwner(owner string) error {
	if err := fsops.ValidateIdentifier(owner); err != nil {
		return fmt.Errorf("%w: %v", installlog.ErrInvalidOwner, err)
	}
	return nil
}

// AbsPath returns the absolute, cleaned form of path. Recorded paths must not
// depend on the working directory of a later uninstall.
func AbsPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	return filepath.Clean(abs), nil
}

// InstallFile copies src to dest on behalf of owner. dest is recorded as an
// absolute path.
func (i *Installer) InstallFile(owner, src, dest string) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	dest, err := AbsPath(dest)
	if err != nil {
		return err
	}
	if err := i.files.Install(src, dest); err != nil {
		return err
	}

	sum, err := i.hasher.HashFile(dest)
	if err != nil {
		i.logger.Warn().Err(err).Str("path", dest).Msg("could not checksum installed file")
		sum = ""
	}
	if err := i.store.AddFile(owner, dest, sum); err != nil {
		return fmt.Errorf("installed %s but failed to record it: %w", dest, err)
	}
	i.logger.Info().Str("owner", owner).Str("path", dest).Msg("file installed")
	return nil
}

// EditIni sets file[section]key to value on behalf of owner. file is recorded
// as an absolute path.
func (i *Installer) EditIni(owner, file, section, key, value string) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	file, err := AbsPath(file)
	if err != nil {
		return err
	}
	if err := i.ini.Edit(file, section, key, value); err != nil {
		return err
	}
	edit := installlog.ConfigEdit{File: file, Section: section, Key: key}
	if err := i.store.AddConfigEdit(owner, edit); err != nil {
		return fmt.Errorf("edited %s but failed to record it: %w", edit, err)
	}
	i.logger.Info().Str("owner", owner).Stringer("edit", edit).Msg("config edited")
	return nil
}

// EditValue sets the keyed value key to value on behalf of owner.
func (i *Installer) EditValue(owner, key, value string) error {
	if err := checkOwner(owner); err != nil {
		return err
	}
	if err := i.values.Edit(key, value); err != nil {
		return err
	}
	if err := i.store.AddValueEdit(owner, key); err != nil {
		return fmt.Errorf("edited value %s but failed to record it: %w", key, err)
	}
	i.logger.Info().Str("owner", owner).Str("key", key).Msg("value edited")
	return nil
}
