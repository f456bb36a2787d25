package mutate

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/danieljhkim/modlog/internal/fsops"
)

// Original is the state of a key before modlog first edited it.
type Original struct {
	Present bool   `toml:"present"`
	Value   string `toml:"value,omitempty"`
}

type originalsFile struct {
	Entries map[string]Original `toml:"entries"`
}

// Originals is a TOML ledger of pre-edit values keyed by change identity.
type Originals struct {
	fs   fsops.FS
	path string
	mu   sync.Mutex
}

// NewOriginals opens the ledger at path. The file is created on first write.
func NewOriginals(fs fsops.FS, path string) *Originals {
	return &Originals{fs: fs, path: path}
}

func (o *Originals) load() (map[string]Original, error) {
	data, err := o.fs.ReadFile(o.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]Original{}, nil
		}
		return nil, fmt.Errorf("failed to read originals: %w", err)
	}
	var f originalsFile
	if _, err := toml.Decode(string(data), &f); err != nil {
		return nil, fmt.Errorf("failed to parse originals: %w", err)
	}
	if f.Entries == nil {
		f.Entries = map[string]Original{}
	}
	return f.Entries, nil
}

func (o *Originals) save(entries map[string]Original) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(originalsFile{Entries: entries}); err != nil {
		return fmt.Errorf("failed to encode originals: %w", err)
	}
	if err := o.fs.AtomicWrite(o.path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write originals: %w", err)
	}
	return nil
}

// Remember stores orig under id unless an entry already exists.
func (o *Originals) Remember(id string, orig Original) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	entries, err := o.load()
	if err != nil {
		return err
	}
	if _, ok := entries[id]; ok {
		return nil
	}
	entries[id] = orig
	return o.save(entries)
}

// Lookup returns the entry stored under id.
func (o *Originals) Lookup(id string) (Original, bool, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	entries, err := o.load()
	if err != nil {
		return Original{}, false, err
	}
	orig, ok := entries[id]
	return orig, ok, nil
}

// Forget drops the entry stored under id.
func (o *Originals) Forget(id string) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	entries, err := o.load()
	if err != nil {
		return err
	}
	if _, ok := entries[id]; !ok {
		return nil
	}
	delete(entries, id)
	return o.save(entries)
}

func iniID(file, section, key string) string {
	return fmt.Sprintf("ini:%s|%s|%s", file, section, key)
}

func valueID(file, key string) string {
	return fmt.Sprintf("value:%s|%s", file, key)
}
