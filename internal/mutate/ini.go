package mutate

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"gopkg.in/ini.v1"

	"github.com/danieljhkim/modlog/internal/fsops"
)

// IniEditor edits single keys of INI files and reverts them.
type IniEditor struct {
	fs        fsops.FS
	originals *Originals
	logger    zerolog.Logger
}

// NewIniEditor creates an IniEditor recording prior values in originals.
func NewIniEditor(fs fsops.FS, originals *Originals, logger zerolog.Logger) *IniEditor {
	return &IniEditor{
		fs:        fs,
		originals: originals,
		logger:    logger.With().Str("component", "ini").Logger(),
	}
}

func (e *IniEditor) load(file string) (*ini.File, bool, error) {
	data, err := e.fs.ReadFile(file)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return ini.Empty(), false, nil
		}
		return nil, false, fmt.Errorf("failed to read %s: %w", file, err)
	}
	cfg, err := ini.Load(data)
	if err != nil {
		return nil, true, fmt.Errorf("failed to parse %s: %w", file, err)
	}
	return cfg, true, nil
}

func (e *IniEditor) save(file string, cfg *ini.File) error {
	var buf bytes.Buffer
	if _, err := cfg.WriteTo(&buf); err != nil {
		return fmt.Errorf("failed to encode %s: %w", file, err)
	}
	if err := e.fs.AtomicWrite(file, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", file, err)
	}
	return nil
}

// Get returns the current value of section/key in file.
func (e *IniEditor) Get(file, section, key string) (string, bool, error) {
	cfg, _, err := e.load(file)
	if err != nil {
		return "", false, err
	}
	sec, err := cfg.GetSection(section)
	if err != nil || !sec.HasKey(key) {
		return "", false, nil
	}
	return sec.Key(key).String(), true, nil
}

// Edit sets section/key in file to value, remembering the prior value.
func (e *IniEditor) Edit(file, section, key, value string) error {
	cfg, _, err := e.load(file)
	if err != nil {
		return err
	}

	orig := Original{}
	if sec, err := cfg.GetSection(section); err == nil && sec.HasKey(key) {
		orig = Original{Present: true, Value: sec.Key(key).String()}
	}
	if err := e.originals.Remember(iniID(file, section, key), orig); err != nil {
		return err
	}

	cfg.Section(section).Key(key).SetValue(value)
	return e.save(file, cfg)
}

// Unedit restores section/key in file to its value before the first Edit.
// Without a remembered value the key is treated as added and deleted.
func (e *IniEditor) Unedit(file, section, key string) error {
	id := iniID(file, section, key)
	orig, known, err := e.originals.Lookup(id)
	if err != nil {
		return err
	}
	if !known {
		e.logger.Debug().Str("file", file).Str("section", section).Str("key", key).
			Msg("no prior value recorded, removing key")
	}

	cfg, exists, err := e.load(file)
	if err != nil {
		return err
	}

	switch {
	case orig.Present:
		cfg.Section(section).Key(key).SetValue(orig.Value)
	case !exists:
		// Nothing on disk and nothing to put back.
		return e.originals.Forget(id)
	default:
		if sec, err := cfg.GetSection(section); err == nil {
			sec.DeleteKey(key)
			if len(sec.Keys()) == 0 && sec.Name() != ini.DefaultSection {
				cfg.DeleteSection(sec.Name())
			}
		}
	}

	if err := e.save(file, cfg); err != nil {
		return err
	}
	return e.originals.Forget(id)
}
