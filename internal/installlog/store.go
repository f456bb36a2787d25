package installlog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/modlog/internal/clock"
	"github.com/danieljhkim/modlog/internal/fsops"
)

// Reader is the read side of the install log used by uninstall.
type Reader interface {
	// GetFileRecords returns the installed file paths for owner, in order.
	GetFileRecords(owner string) []string

	// GetConfigEditRecords returns the config edits for owner, in order.
	GetConfigEditRecords(owner string) []ConfigEdit

	// GetValueEditRecords returns the edited value keys for owner, in order.
	GetValueEditRecords(owner string) []string
}

// Store is the full install log: the read side plus the write and admin
// operations used by the install path and by callers of an uninstall.
type Store interface {
	Reader

	// Load returns a copy of everything recorded for owner.
	// Returns os.ErrNotExist if nothing is recorded.
	Load(owner string) (*OwnerLog, error)

	// Owners lists the owners with a log, sorted.
	Owners() ([]string, error)

	AddFile(owner, path, checksum string) error
	AddConfigEdit(owner string, edit ConfigEdit) error
	AddValueEdit(owner, key string) error

	RemoveFile(owner, path string) error
	RemoveConfigEdit(owner string, edit ConfigEdit) error
	RemoveValueEdit(owner, key string) error

	// DeleteOwner drops the whole log of owner.
	DeleteOwner(owner string) error
}

const logExt = ".json"

// FileStore implements Store with one JSON document per owner.
type FileStore struct {
	fs     fsops.FS
	dir    string
	logger zerolog.Logger
	clock  clock.Clock
	mu     sync.RWMutex
}

// NewFileStore creates a FileStore keeping logs under dir.
func NewFileStore(fs fsops.FS, dir string, logger zerolog.Logger) *FileStore {
	return &FileStore{
		fs:     fs,
		dir:    dir,
		logger: logger.With().Str("component", "installlog").Logger(),
		clock:  clock.RealClock{},
	}
}

// SetClock sets the clock used to stamp new records.
func (s *FileStore) SetClock(c clock.Clock) {
	s.clock = c
}

func (s *FileStore) path(owner string) string {
	return filepath.Join(s.dir, owner+logExt)
}

// Load returns a copy of everything recorded for owner.
func (s *FileStore) Load(owner string) (*OwnerLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read(owner)
}

func (s *FileStore) read(owner string) (*OwnerLog, error) {
	if err := s.fs.ValidateIdentifier(owner); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidOwner, err)
	}

	data, err := s.fs.ReadFile(s.path(owner))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, os.ErrNotExist
		}
		return nil, fmt.Errorf("failed to read install log: %w", err)
	}

	var l OwnerLog
	if err := json.Unmarshal(data, &l); err != nil {
		return nil, fmt.Errorf("failed to unmarshal install log: %w", err)
	}
	if l.Owner != owner {
		return nil, fmt.Errorf("install log for %q names owner %q", owner, l.Owner)
	}
	return &l, nil
}

func (s *FileStore) write(l *OwnerLog) error {
	if l.Empty() {
		if err := s.fs.Remove(s.path(l.Owner)); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to delete install log: %w", err)
		}
		return nil
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal install log: %w", err)
	}
	if err := s.fs.AtomicWrite(s.path(l.Owner), data, 0644); err != nil {
		return fmt.Errorf("failed to write install log: %w", err)
	}
	return nil
}

// update loads (or creates) the owner's log, applies fn and persists the
// result when fn reports a change.
func (s *FileStore) update(owner string, create bool, fn func(*OwnerLog) bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l, err := s.read(owner)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if !create {
			return nil
		}
		l = NewOwnerLog(owner)
	}
	if !fn(l) {
		return nil
	}
	return s.write(l)
}

// readOrEmpty backs the never-failing read contract.
func (s *FileStore) readOrEmpty(owner string) *OwnerLog {
	l, err := s.Load(owner)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn().Err(err).Str("owner", owner).Msg("install log unreadable, treating as empty")
		}
		return NewOwnerLog(owner)
	}
	return l
}

// GetFileRecords returns the installed file paths for owner.
func (s *FileStore) GetFileRecords(owner string) []string {
	return s.readOrEmpty(owner).filePaths()
}

// GetConfigEditRecords returns the config edits for owner.
func (s *FileStore) GetConfigEditRecords(owner string) []ConfigEdit {
	return s.readOrEmpty(owner).configEdits()
}

// GetValueEditRecords returns the edited value keys for owner.
func (s *FileStore) GetValueEditRecords(owner string) []string {
	return s.readOrEmpty(owner).valueKeys()
}

// Owners lists the owners with a log on disk.
func (s *FileStore) Owners() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names, err := s.fs.ListDir(s.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list install logs: %w", err)
	}
	owners := []string{}
	for _, name := range names {
		if strings.HasPrefix(name, ".") || !strings.HasSuffix(name, logExt) {
			continue
		}
		owners = append(owners, strings.TrimSuffix(name, logExt))
	}
	sort.Strings(owners)
	return owners, nil
}

// AddFile records that path was installed for owner.
func (s *FileStore) AddFile(owner, path, checksum string) error {
	if path == "" {
		return fmt.Errorf("%w: empty file path", ErrInvalidRecord)
	}
	at := s.clock.Now()
	return s.update(owner, true, func(l *OwnerLog) bool { return l.addFile(path, checksum, at) })
}

// AddConfigEdit records that edit was applied for owner.
func (s *FileStore) AddConfigEdit(owner string, edit ConfigEdit) error {
	if err := validateConfigEdit(edit); err != nil {
		return err
	}
	at := s.clock.Now()
	return s.update(owner, true, func(l *OwnerLog) bool { return l.addConfigEdit(edit, at) })
}

// AddValueEdit records that the value key was edited for owner.
func (s *FileStore) AddValueEdit(owner, key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty value key", ErrInvalidRecord)
	}
	at := s.clock.Now()
	return s.update(owner, true, func(l *OwnerLog) bool { return l.addValueEdit(key, at) })
}

// RemoveFile drops the record of path for owner.
func (s *FileStore) RemoveFile(owner, path string) error {
	return s.update(owner, false, func(l *OwnerLog) bool { return l.removeFile(path) })
}

// RemoveConfigEdit drops the record of edit for owner.
func (s *FileStore) RemoveConfigEdit(owner string, edit ConfigEdit) error {
	return s.update(owner, false, func(l *OwnerLog) bool { return l.removeConfigEdit(edit) })
}

// RemoveValueEdit drops the record of key for owner.
func (s *FileStore) RemoveValueEdit(owner, key string) error {
	return s.update(owner, false, func(l *OwnerLog) bool { return l.removeValueEdit(key) })
}

// DeleteOwner removes the log file of owner.
func (s *FileStore) DeleteOwner(owner string) error {
	if err := s.fs.ValidateIdentifier(owner); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOwner, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fs.Remove(s.path(owner)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete install log: %w", err)
	}
	return nil
}
