package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("PW101_DIR", "/tmp/pw101-test")
	c := DefaultConfig()
	if c.Storage.Backend != "sqlite" {
		t.Errorf("expected sqlite backend, got %q", c.Storage.Backend)
	}
	if c.Server.Addr != "127.0.0.1:7201" {
		t.Errorf("unexpected addr %q", c.Server.Addr)
	}
	if c.Reference.Debounce.Duration != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %v", c.Reference.Debounce)
	}
	if c.StorePath() != filepath.Join("/tmp/pw101-test", "sites.db") {
		t.Errorf("unexpected store path %q", c.StorePath())
	}
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("PW101_DIR", t.TempDir())
	c, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatal(err)
	}
	if c.Log.Level != "info" {
		t.Errorf("expected info level, got %q", c.Log.Level)
	}
}

func TestLoad_FileAndEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("PW101_DIR", dir)
	path := filepath.Join(dir, "config.toml")
	os.WriteFile(path, []byte("[storage]\nbackend = \"file\"\n\n[reference]\ndebounce = \"1s\"\n"), 0600)
	t.Setenv("PW101_LOG_LEVEL", "debug")

	c, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if c.Storage.Backend != "file" {
		t.Errorf("expected file backend, got %q", c.Storage.Backend)
	}
	if c.StorePath() != filepath.Join(dir, "sites.json") {
		t.Errorf("unexpected store path %q", c.StorePath())
	}
	if c.Reference.Debounce.Duration != time.Second {
		t.Errorf("expected 1s, got %v", c.Reference.Debounce)
	}
	if c.Log.Level != "debug" {
		t.Errorf("expected env override, got %q", c.Log.Level)
	}
	if c.Server.Addr != "127.0.0.1:7201" {
		t.Errorf("expected default addr to survive, got %q", c.Server.Addr)
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	t.Setenv("PW101_DIR", t.TempDir())
	t.Setenv("PW101_BACKEND", "chrome-sync")
	if _, err := Load(filepath.Join(t.TempDir(), "none.toml")); err == nil {
		t.Fatal("expected error for invalid backend")
	}
}

func TestLoadConfig_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	os.WriteFile(path, []byte("[storage\nbackend="), 0600)
	if _, err := LoadConfig(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCreateConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateConfigFile(path); err != nil {
		t.Fatal(err)
	}
	if err := CreateConfigFile(path); err == nil {
		t.Fatal("expected error when file exists")
	}
	if _, err := LoadConfig(path); err != nil {
		t.Fatalf("written config should parse: %v", err)
	}
}

func TestNewLogger_Level(t *testing.T) {
	var buf bytes.Buffer
	l := NewLogger(&buf, "warn")
	if l.GetLevel() != log.WarnLevel {
		t.Fatalf("expected warn level, got %v", l.GetLevel())
	}
	l.Info("hidden")
	l.Warn("shown", "site", "example.com")
	if strings.Contains(buf.String(), "hidden") {
		t.Error("info message should be filtered")
	}
	if !strings.Contains(buf.String(), "site=example.com") {
		t.Errorf("expected structured field, got %q", buf.String())
	}

	if NewLogger(&buf, "nonsense").GetLevel() != log.InfoLevel {
		t.Error("unknown level should fall back to info")
	}
}
