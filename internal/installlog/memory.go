package installlog

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/danieljhkim/modlog/internal/clock"
	"github.com/danieljhkim/modlog/internal/fsops"
)

// MemoryStore implements Store in memory. It is safe for concurrent use.
type MemoryStore struct {
	mu    sync.RWMutex
	logs  map[string]*OwnerLog
	clock clock.Clock
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		logs:  make(map[string]*OwnerLog),
		clock: clock.RealClock{},
	}
}

// SetClock sets the clock used to stamp new records.
func (s *MemoryStore) SetClock(c clock.Clock) {
	s.clock = c
}

func (s *MemoryStore) get(owner string) *OwnerLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if l, ok := s.logs[owner]; ok {
		return l.clone()
	}
	return NewOwnerLog(owner)
}

func (s *MemoryStore) update(owner string, fn func(*OwnerLog) bool) error {
	if err := fsops.ValidateIdentifier(owner); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidOwner, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	l, ok := s.logs[owner]
	if !ok {
		l = NewOwnerLog(owner)
	}
	fn(l)
	if l.Empty() {
		delete(s.logs, owner)
		return nil
	}
	s.logs[owner] = l
	return nil
}

// GetFileRecords returns the installed file paths for owner.
func (s *MemoryStore) GetFileRecords(owner string) []string {
	return s.get(owner).filePaths()
}

// GetConfigEditRecords returns the config edits for owner.
func (s *MemoryStore) GetConfigEditRecords(owner string) []ConfigEdit {
	return s.get(owner).configEdits()
}

// GetValueEditRecords returns the edited value keys for owner.
func (s *MemoryStore) GetValueEditRecords(owner string) []string {
	return s.get(owner).valueKeys()
}

// Load returns a copy of the owner's log or os.ErrNotExist.
func (s *MemoryStore) Load(owner string) (*OwnerLog, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.logs[owner]
	if !ok {
		return nil, os.ErrNotExist
	}
	return l.clone(), nil
}

// Owners lists owners with at least one record.
func (s *MemoryStore) Owners() ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	owners := make([]string, 0, len(s.logs))
	for o := range s.logs {
		owners = append(owners, o)
	}
	sort.Strings(owners)
	return owners, nil
}

func (s *MemoryStore) AddFile(owner, path, checksum string) error {
	if path == "" {
		return fmt.Errorf("%w: empty file path", ErrInvalidRecord)
	}
	at := s.clock.Now()
	return s.update(owner, func(l *OwnerLog) bool { return l.addFile(path, checksum, at) })
}

func (s *MemoryStore) AddConfigEdit(owner string, edit ConfigEdit) error {
	if err := validateConfigEdit(edit); err != nil {
		return err
	}
	at := s.clock.Now()
	return s.update(owner, func(l *OwnerLog) bool { return l.addConfigEdit(edit, at) })
}

func (s *MemoryStore) AddValueEdit(owner, key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty value key", ErrInvalidRecord)
	}
	at := s.clock.Now()
	return s.update(owner, func(l *OwnerLog) bool { return l.addValueEdit(key, at) })
}

func (s *MemoryStore) RemoveFile(owner, path string) error {
	return s.update(owner, func(l *OwnerLog) bool { return l.removeFile(path) })
}

func (s *MemoryStore) RemoveConfigEdit(owner string, edit ConfigEdit) error {
	return s.update(owner, func(l *OwnerLog) bool { return l.removeConfigEdit(edit) })
}

func (s *MemoryStore) RemoveValueEdit(owner, key string) error {
	return s.update(owner, func(l *OwnerLog) bool { return l.removeValueEdit(key) })
}

// DeleteOwner drops every record of owner.
func (s *MemoryStore) DeleteOwner(owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.logs, owner)
	return nil
}
