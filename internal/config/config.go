// ABOUTME: Configuration loading and parsing for the parlor TUI
// ABOUTME: Supports YAML files with environment variable expansion and duration parsing

package config

import (
	"fmt"
	"os"
	"regexp"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete parlor client configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Session    SessionConfig    `yaml:"session"`
	Pagination PaginationConfig `yaml:"pagination"`
	Users      UsersConfig      `yaml:"users"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ServerConfig holds the chat service address
type ServerConfig struct {
	BaseURL string `yaml:"base_url"`
}

// SessionConfig holds session token lookup configuration
type SessionConfig struct {
	// TokenPath overrides the default token file location
	// (~/.config/parlor/session). The PARLOR_SESSION env var wins over both.
	TokenPath string `yaml:"token_path"`
}

// PaginationConfig holds history page sizes
type PaginationConfig struct {
	// InitialPageSize is the limit for the first page after selecting a chat
	InitialPageSize int `yaml:"initial_page_size"`
	// OlderPageSize is the limit for backward pagination pages
	OlderPageSize int `yaml:"older_page_size"`
}

// UsersConfig holds sender-name cache configuration
type UsersConfig struct {
	CacheTTL  time.Duration `yaml:"-"`
	CacheSize int           `yaml:"cache_size"`

	// Raw string value for YAML unmarshaling
	CacheTTLRaw string `yaml:"cache_ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default page sizes, matching the service's web client.
const (
	DefaultInitialPageSize = 10
	DefaultOlderPageSize   = 5
)

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded.
// Duration strings are parsed into time.Duration values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := parseDurations(&cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding
// environment variable values. Unset variables become empty strings.
func expandEnvVars(s string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// applyDefaults fills in page sizes left unset by the file.
func (c *Config) applyDefaults() {
	if c.Pagination.InitialPageSize == 0 {
		c.Pagination.InitialPageSize = DefaultInitialPageSize
	}
	if c.Pagination.OlderPageSize == 0 {
		c.Pagination.OlderPageSize = DefaultOlderPageSize
	}
}

// Validate checks that all required configuration fields are present and
// valid. Returns an error describing the first validation failure.
func (c *Config) Validate() error {
	if c.Server.BaseURL == "" {
		return fmt.Errorf("server.base_url is required")
	}

	if c.Pagination.InitialPageSize < 1 {
		return fmt.Errorf("pagination.initial_page_size must be positive")
	}
	if c.Pagination.OlderPageSize < 1 {
		return fmt.Errorf("pagination.older_page_size must be positive")
	}

	return nil
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	var err error

	if cfg.Users.CacheTTLRaw != "" {
		cfg.Users.CacheTTL, err = time.ParseDuration(cfg.Users.CacheTTLRaw)
		if err != nil {
			return fmt.Errorf("parsing cache_ttl %q: %w", cfg.Users.CacheTTLRaw, err)
		}
	}

	return nil
}
