package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Settings is the content of config.toml.
type Settings struct {
	// Strict stops an uninstall at the first failed reversal instead of
	// continuing best-effort.
	Strict bool `toml:"strict"`

	// KeepLog leaves reversed records in the install log after uninstall.
	KeepLog bool `toml:"keep_log"`

	// Progress controls the live progress line ("auto", "always", "never").
	Progress string `toml:"progress"`

	// LogLevel is the zerolog level name; MODLOG_LOG_LEVEL wins over it.
	LogLevel string `toml:"log_level"`

	// ValuesFile overrides where keyed values are stored.
	ValuesFile string `toml:"values_file"`
}

// DefaultSettings returns the settings used when config.toml is absent.
func DefaultSettings() Settings {
	return Settings{
		Progress: "auto",
		LogLevel: "warn",
	}
}

// LoadSettings reads config.toml at path. A missing file yields the defaults;
// keys absent from the file keep their default values.
func LoadSettings(path string) (Settings, error) {
	cfg := DefaultSettings()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Settings{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return Settings{}, fmt.Errorf("config parse failed (%s): %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Settings{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// Validate checks enumerated fields.
func (s Settings) Validate() error {
	switch s.Progress {
	case "auto", "always", "never":
		return nil
	default:
		return fmt.Errorf("progress must be one of auto, always, never; got %q", s.Progress)
	}
}

// ValuesPath returns the keyed-value file, honoring the ValuesFile override.
func (s Settings) ValuesPath(p *Paths) string {
	if s.ValuesFile != "" {
		return s.ValuesFile
	}
	return p.Values
}
