// ABOUTME: Tests for configuration loading and parsing
// ABOUTME: Covers YAML loading, env var expansion, defaults, and validation

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}
	return path
}

func TestLoad_ValidConfig(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: "http://localhost:3000"

session:
  token_path: "/tmp/parlor-session"

pagination:
  initial_page_size: 20
  older_page_size: 8

users:
  cache_ttl: "10m"
  cache_size: 512

logging:
  level: "debug"
  format: "json"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.BaseURL != "http://localhost:3000" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
	if cfg.Session.TokenPath != "/tmp/parlor-session" {
		t.Errorf("TokenPath = %q", cfg.Session.TokenPath)
	}
	if cfg.Pagination.InitialPageSize != 20 {
		t.Errorf("InitialPageSize = %d", cfg.Pagination.InitialPageSize)
	}
	if cfg.Pagination.OlderPageSize != 8 {
		t.Errorf("OlderPageSize = %d", cfg.Pagination.OlderPageSize)
	}
	if cfg.Users.CacheTTL != 10*time.Minute {
		t.Errorf("CacheTTL = %v", cfg.Users.CacheTTL)
	}
	if cfg.Users.CacheSize != 512 {
		t.Errorf("CacheSize = %d", cfg.Users.CacheSize)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("Logging = %+v", cfg.Logging)
	}
}

func TestLoad_PageSizeDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: "http://localhost:3000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Pagination.InitialPageSize != DefaultInitialPageSize {
		t.Errorf("InitialPageSize = %d, want %d", cfg.Pagination.InitialPageSize, DefaultInitialPageSize)
	}
	if cfg.Pagination.OlderPageSize != DefaultOlderPageSize {
		t.Errorf("OlderPageSize = %d, want %d", cfg.Pagination.OlderPageSize, DefaultOlderPageSize)
	}
}

func TestLoad_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_PARLOR_SERVER", "http://chat.example.com")

	path := writeConfig(t, `
server:
  base_url: "${TEST_PARLOR_SERVER}"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.BaseURL != "http://chat.example.com" {
		t.Errorf("BaseURL = %q", cfg.Server.BaseURL)
	}
}

func TestLoad_MissingBaseURL(t *testing.T) {
	path := writeConfig(t, `
logging:
  level: "info"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for missing base_url")
	}
	if !strings.Contains(err.Error(), "base_url") {
		t.Errorf("error = %v, want mention of base_url", err)
	}
}

func TestLoad_InvalidDuration(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: "http://localhost:3000"

users:
  cache_ttl: "soon"
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for invalid cache_ttl")
	}
	if !strings.Contains(err.Error(), "cache_ttl") {
		t.Errorf("error = %v, want mention of cache_ttl", err)
	}
}

func TestLoad_NegativePageSize(t *testing.T) {
	path := writeConfig(t, `
server:
  base_url: "http://localhost:3000"

pagination:
  initial_page_size: -1
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("Load() expected error for negative page size")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err == nil {
		t.Fatal("Load() expected error for missing file")
	}
}
