package mutate

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/danieljhkim/modlog/internal/fsops"
)

// Values edits keyed settings persisted as a flat TOML table.
type Values struct {
	fs        fsops.FS
	path      string
	originals *Originals
	logger    zerolog.Logger
	mu        sync.Mutex
}

// NewValues creates a Values mutator for the TOML file at path.
func NewValues(fs fsops.FS, path string, originals *Originals, logger zerolog.Logger) *Values {
	return &Values{
		fs:        fs,
		path:      path,
		originals: originals,
		logger:    logger.With().Str("component", "values").Logger(),
	}
}

func (v *Values) load() (map[string]string, error) {
	data, err := v.fs.ReadFile(v.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("failed to read values: %w", err)
	}
	values := map[string]string{}
	if _, err := toml.Decode(string(data), &values); err != nil {
		return nil, fmt.Errorf("failed to parse values: %w", err)
	}
	return values, nil
}

func (v *Values) save(values map[string]string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(values); err != nil {
		return fmt.Errorf("failed to encode values: %w", err)
	}
	if err := v.fs.AtomicWrite(v.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write values: %w", err)
	}
	return nil
}

// Get returns the current value of key.
func (v *Values) Get(key string) (string, bool, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	values, err := v.load()
	if err != nil {
		return "", false, err
	}
	val, ok := values[key]
	return val, ok, nil
}

// Edit sets key to value, remembering the prior value.
func (v *Values) Edit(key, value string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	values, err := v.load()
	if err != nil {
		return err
	}
	prev, present := values[key]
	if err := v.originals.Remember(valueID(v.path, key), Original{Present: present, Value: prev}); err != nil {
		return err
	}
	values[key] = value
	return v.save(values)
}

// UnEdit restores key to its value before the first Edit, deleting it when
// it did not exist.
func (v *Values) UnEdit(key string) error {
	v.mu.Lock()
	defer v.mu.Unlock()

	id := valueID(v.path, key)
	orig, known, err := v.originals.Lookup(id)
	if err != nil {
		return err
	}
	if !known {
		v.logger.Debug().Str("key", key).Msg("no prior value recorded, removing key")
	}

	values, err := v.load()
	if err != nil {
		return err
	}
	if orig.Present {
		values[key] = orig.Value
	} else {
		delete(values, key)
	}
	if err := v.save(values); err != nil {
		return err
	}
	return v.originals.Forget(id)
}
