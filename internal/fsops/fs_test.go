package fsops

import (
	"os"
	"path/filepath"
	"testing"
)

func TestValidateIdentifier(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		wantError bool
	}{
		{name: "simple", id: "SkyUI", wantError: false},
		{name: "with dashes and dots", id: "better-hud_v1.2", wantError: false},
		{name: "leading dot", id: ".cache", wantError: true},
		{name: "inner dot", id: "mod.v2", wantError: false},
		{name: "empty", id: "", wantError: true},
		{name: "whitespace only", id: "   ", wantError: true},
		{name: "forward slash", id: "a/b", wantError: true},
		{name: "backslash", id: `a\b`, wantError: true},
		{name: "current dir", id: ".", wantError: true},
		{name: "parent dir", id: "..", wantError: true},
		{name: "traversal prefix", id: "..evil", wantError: true},
	}

	fs := NewRealFS()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := fs.ValidateIdentifier(tt.id)
			if (err != nil) != tt.wantError {
				t.Errorf("ValidateIdentifier(%q) error = %v, wantError %v", tt.id, err, tt.wantError)
			}
		})
	}
}

func TestRealFS_AtomicWrite(t *testing.T) {
	dir := t.TempDir()
	fs := NewRealFS()
	path := filepath.Join(dir, "nested", "deeper", "file.json")

	if err := fs.AtomicWrite(path, []byte("first"), 0644); err != nil {
		t.Fatalf("AtomicWrite() error = %v", err)
	}
	if err := fs.AtomicWrite(path, []byte("second"), 0600); err != nil {
		t.Fatalf("AtomicWrite() overwrite error = %v", err)
	}

	data, err := fs.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "second" {
		t.Errorf("expected content 'second', got %q", string(data))
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("expected mode 0600, got %v", info.Mode().Perm())
	}

	// No temp files may be left behind.
	entries, err := os.ReadDir(filepath.Dir(path))
	if err != nil {
		t.Fatalf("ReadDir() error = %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry after atomic writes, got %d", len(entries))
	}
}

func TestRealFS_CopyFile(t *testing.T) {
	dir := t.TempDir()
	fs := NewRealFS()

	src := filepath.Join(dir, "src.txt")
	if err := os.WriteFile(src, []byte("payload"), 0640); err != nil {
		t.Fatal(err)
	}
	dst := filepath.Join(dir, "out", "dst.txt")

	if err := fs.CopyFile(src, dst); err != nil {
		t.Fatalf("CopyFile() error = %v", err)
	}
	data, err := os.ReadFile(dst)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "payload" {
		t.Errorf("expected 'payload', got %q", string(data))
	}

	if err := fs.CopyFile(dir, filepath.Join(dir, "copy-of-dir")); err == nil {
		t.Error("expected error copying a directory")
	}
	if err := fs.CopyFile(filepath.Join(dir, "missing"), dst); err == nil {
		t.Error("expected error copying a missing file")
	}
}

func TestRealFS_ExistsAndRemove(t *testing.T) {
	dir := t.TempDir()
	fs := NewRealFS()
	path := filepath.Join(dir, "f")

	exists, err := fs.Exists(path)
	if err != nil || exists {
		t.Fatalf("Exists() before create = %v, %v", exists, err)
	}
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}
	exists, err = fs.Exists(path)
	if err != nil || !exists {
		t.Fatalf("Exists() after create = %v, %v", exists, err)
	}
	if err := fs.Remove(path); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	exists, _ = fs.Exists(path)
	if exists {
		t.Error("expected path to be gone after Remove")
	}
}

func TestRealFS_ListDir(t *testing.T) {
	dir := t.TempDir()
	fs := NewRealFS()

	names, err := fs.ListDir(filepath.Join(dir, "missing"))
	if err != nil {
		t.Fatalf("ListDir() on missing dir error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("expected empty list, got %v", names)
	}

	for _, n := range []string{"b.json", "a.json"} {
		if err := os.WriteFile(filepath.Join(dir, n), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	names, err = fs.ListDir(dir)
	if err != nil {
		t.Fatalf("ListDir() error = %v", err)
	}
	if len(names) != 2 || names[0] != "a.json" || names[1] != "b.json" {
		t.Errorf("expected [a.json b.json], got %v", names)
	}
}
