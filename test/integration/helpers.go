package integration

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/danieljhkim/modlog/internal/config"
	"github.com/danieljhkim/modlog/internal/fsops"
	"github.com/danieljhkim/modlog/internal/hash"
	"github.com/danieljhkim/modlog/internal/installlog"
	"github.com/danieljhkim/modlog/internal/mutate"
)

// testFS is a filesystem implementation that keeps files in memory.
// Removing a path listed in failRemove returns the configured error.
type testFS struct {
	mu         sync.Mutex
	files      map[string][]byte
	failRemove map[string]error
}

func newTestFS() *testFS {
	return &testFS{
		files:      make(map[string][]byte),
		failRemove: make(map[string]error),
	}
}

func (fs *testFS) ReadFile(path string) ([]byte, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if content, ok := fs.files[path]; ok {
		return append([]byte(nil), content...), nil
	}
	return nil, os.ErrNotExist
}

func (fs *testFS) AtomicWrite(path string, data []byte, perm os.FileMode) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = append([]byte(nil), data...)
	return nil
}

func (fs *testFS) CopyFile(src, dst string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	content, ok := fs.files[src]
	if !ok {
		return fmt.Errorf("failed to stat source: %w", os.ErrNotExist)
	}
	fs.files[dst] = append([]byte(nil), content...)
	return nil
}

func (fs *testFS) Remove(path string) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if err, ok := fs.failRemove[path]; ok {
		return err
	}
	if _, ok := fs.files[path]; !ok {
		return os.ErrNotExist
	}
	delete(fs.files, path)
	return nil
}

func (fs *testFS) Exists(path string) (bool, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	_, ok := fs.files[path]
	return ok, nil
}

func (fs *testFS) ListDir(dir string) ([]string, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	prefix := dir + string(filepath.Separator)
	seen := map[string]bool{}
	for p := range fs.files {
		if rest, ok := strings.CutPrefix(p, prefix); ok {
			seen[strings.SplitN(rest, string(filepath.Separator), 2)[0]] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names, nil
}

func (fs *testFS) ValidateIdentifier(id string) error {
	return fsops.ValidateIdentifier(id)
}

func (fs *testFS) put(path, content string) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.files[path] = []byte(content)
}

func (fs *testFS) get(path string) (string, bool) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	content, ok := fs.files[path]
	return string(content), ok
}

// testRig wires the real install log and mutators over a testFS.
type testRig struct {
	fs        *testFS
	paths     *config.Paths
	store     *installlog.FileStore
	files     *mutate.Files
	ini       *mutate.IniEditor
	values    *mutate.Values
	installer *mutate.Installer
}

func setupTestRig(t *testing.T) *testRig {
	t.Helper()
	return newTestRig(newTestFS())
}

// newTestRig builds a rig over an existing filesystem, as a new process would.
func newTestRig(fs *testFS) *testRig {
	paths := config.PathsAt("/test")
	logger := zerolog.Nop()
	store := installlog.NewFileStore(fs, paths.Logs, logger)
	originals := mutate.NewOriginals(fs, paths.Originals())
	files := mutate.NewFiles(fs, paths.Backups, logger)
	ini := mutate.NewIniEditor(fs, originals, logger)
	values := mutate.NewValues(fs, paths.Values, originals, logger)
	return &testRig{
		fs:        fs,
		paths:     paths,
		store:     store,
		files:     files,
		ini:       ini,
		values:    values,
		installer: mutate.NewInstaller(store, files, ini, values, hash.NewFakeHasher(), logger),
	}
}
