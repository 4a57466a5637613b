// Package config provides configuration loading and structs for the ElectroLight server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/electrolight/internal/ranking"
)

// Config holds all configuration for the application.
type Config struct {
	Debug      bool                     `yaml:"debug"`
	Server     ServerConfig             `yaml:"server"`
	Storage    StorageConfig            `yaml:"storage"`
	Similarity ranking.SimilarityConfig `yaml:"similarity"`
	Search     SearchConfig             `yaml:"search"`
	Auth       AuthConfig               `yaml:"auth"`
	Import     ImportConfig             `yaml:"import"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	// MaxUploadBytes caps admin import uploads.
	MaxUploadBytes int64 `yaml:"max_upload_bytes"`
}

// StorageConfig holds the catalog database location.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// SearchConfig holds combined search caps.
type SearchConfig struct {
	ProductLimit   int `yaml:"product_limit"`
	AccessoryLimit int `yaml:"accessory_limit"`
}

// ApplyDefaults fills zero limits with the storefront defaults (3 products, 2 accessories).
func (s *SearchConfig) ApplyDefaults() {
	if s.ProductLimit == 0 {
		s.ProductLimit = 3
	}
	if s.AccessoryLimit == 0 {
		s.AccessoryLimit = 2
	}
}

// AuthConfig holds admin session settings.
type AuthConfig struct {
	SessionTTL   time.Duration `yaml:"session_ttl"`
	CookieName   string        `yaml:"cookie_name"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

// ApplyDefaults fills a zero TTL with one day and an empty cookie name with "electrolight_session".
func (a *AuthConfig) ApplyDefaults() {
	if a.SessionTTL == 0 {
		a.SessionTTL = 24 * time.Hour
	}
	if a.CookieName == "" {
		a.CookieName = "electrolight_session"
	}
}

// ImportConfig holds catalog import directory settings.
type ImportConfig struct {
	Directory  string   `yaml:"directory"`
	Watch      bool     `yaml:"watch"`
	Extensions []string `yaml:"extensions"`
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	if cfg.Import.Directory != "" {
		cfg.Import.Directory = expandPath(cfg.Import.Directory, configDir)
	}

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
