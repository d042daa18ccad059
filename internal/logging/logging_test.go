package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
)

func TestNewManagerRequiresFilePath(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Fatal("NewManager should fail without FilePath")
	}
}

func TestManagerWritesScopedEntries(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "tiles.log")
	m, err := NewManager(Config{FilePath: path, Level: "debug"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}

	log := m.For("grid")
	if m.For("grid") != log {
		t.Error("For should cache loggers per scope")
	}
	log.Info("widget created")

	if err := m.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	if !bytes.Contains(data, []byte(`"logger":"grid"`)) {
		t.Errorf("log entry missing scope: %s", data)
	}
	if !bytes.Contains(data, []byte(`"msg":"widget created"`)) {
		t.Errorf("log entry missing message: %s", data)
	}
}

func TestManagerFiltersBelowLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiles.log")
	m, err := NewManager(Config{FilePath: path, Level: "warn"})
	if err != nil {
		t.Fatalf("NewManager failed: %v", err)
	}
	m.For("midi").Debug("hidden")
	m.For("midi").Warn("shown")
	_ = m.Close()

	data, _ := os.ReadFile(path)
	if bytes.Contains(data, []byte("hidden")) {
		t.Error("debug entry should be filtered at warn level")
	}
	if !bytes.Contains(data, []byte("shown")) {
		t.Error("warn entry should be written")
	}
}
