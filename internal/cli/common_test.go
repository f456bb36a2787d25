package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"testing"
)

func TestOutputJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := outputJSON(&buf, map[string]string{"test": "value"}); err != nil {
		t.Fatalf("outputJSON() error = %v", err)
	}

	var v map[string]string
	if err := json.Unmarshal(buf.Bytes(), &v); err != nil {
		t.Fatalf("outputJSON() produced invalid JSON: %v", err)
	}
	if v["test"] != "value" {
		t.Errorf("unexpected round trip %v", v)
	}
}

func TestNewApp_UsesRoot(t *testing.T) {
	root := setupTestEnv(t)

	a, err := newApp()
	if err != nil {
		t.Fatalf("newApp() error = %v", err)
	}
	if a.paths.Root != root {
		t.Errorf("expected root %s, got %s", root, a.paths.Root)
	}
	if _, err := os.Stat(a.paths.Logs); err != nil {
		t.Errorf("expected logs directory to be created: %v", err)
	}
	if a.settings.Progress != "auto" {
		t.Errorf("expected default settings, got %+v", a.settings)
	}
}

func TestNewApp_InvalidSettings(t *testing.T) {
	root := setupTestEnv(t)
	writeTestFile(t, root+"/config.toml", "progress = \"loud\"\n")

	if _, err := newApp(); err == nil {
		t.Error("expected invalid config.toml to be rejected")
	}
}
