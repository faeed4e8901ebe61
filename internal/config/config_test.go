package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultIsSelfConsistent(t *testing.T) {
	cfg := Default()
	if cfg.MemoryLimitBytes == 0 {
		t.Fatalf("expected a nonzero default memory limit")
	}
	if cfg.HTTPAddr == "" {
		t.Fatalf("expected a default http address")
	}
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("expected defaults for empty path")
	}
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eden.json")
	if err := os.WriteFile(path, []byte(`{"httpAddr":"0.0.0.0:9090"}`), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != "0.0.0.0:9090" {
		t.Fatalf("expected overridden http addr, got %q", cfg.HTTPAddr)
	}
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "eden.yaml")
	content := "httpAddr: 0.0.0.0:7070\nmemoryLimitBytes: 2000000\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPAddr != "0.0.0.0:7070" || cfg.MemoryLimitBytes != 2_000_000 {
		t.Fatalf("unexpected yaml-loaded config: %+v", cfg)
	}
}

func TestFromEnvOverlays(t *testing.T) {
	cfg := Default()
	t.Setenv("EDEN_HTTP_ADDR", "127.0.0.1:1234")
	t.Setenv("EDEN_MEMORY_LIMIT_BYTES", "42")

	FromEnv(&cfg)

	if cfg.HTTPAddr != "127.0.0.1:1234" {
		t.Fatalf("expected env override, got %q", cfg.HTTPAddr)
	}
	if cfg.MemoryLimitBytes != 42 {
		t.Fatalf("expected env override, got %d", cfg.MemoryLimitBytes)
	}
}
