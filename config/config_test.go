package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "planvm.toml"), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfig(t, `
[memory]
capacity = 4096

[dispatch]
target = "localhost:50051"

[trace]
enabled = true
path = "runs.db"

[log]
verbosity = 2
`)
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Memory.Capacity != 4096 {
		t.Errorf("capacity = %d", c.Memory.Capacity)
	}
	if c.Dispatch.Target != "localhost:50051" {
		t.Errorf("target = %q", c.Dispatch.Target)
	}
	if !c.Trace.Enabled || c.Trace.Path != "runs.db" {
		t.Errorf("trace = %+v", c.Trace)
	}
	if c.Log.Verbosity != 2 {
		t.Errorf("verbosity = %d", c.Log.Verbosity)
	}
	if c.Dir != dir {
		t.Errorf("Dir = %q, want %q", c.Dir, dir)
	}
}

func TestLoadDefaults(t *testing.T) {
	dir := writeConfig(t, "")
	c, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if c.Memory.Capacity != 1024 {
		t.Errorf("default capacity = %d, want 1024", c.Memory.Capacity)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(t.TempDir()); err == nil {
		t.Error("Load of a directory without planvm.toml should fail")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"zero capacity", "[memory]\ncapacity = 0\n"},
		{"negative capacity", "[memory]\ncapacity = -5\n"},
		{"trace without path", "[trace]\nenabled = true\npath = \"\"\n"},
	}
	for _, tt := range tests {
		dir := writeConfig(t, tt.content)
		if _, err := Load(dir); err == nil {
			t.Errorf("%s: Load should have failed", tt.name)
		}
	}
}
