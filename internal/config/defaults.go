package config

import "time"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RequestTimeout == 0 {
		cfg.Server.RequestTimeout = 30 * time.Second
	}
	if cfg.Server.MaxUploadBytes == 0 {
		cfg.Server.MaxUploadBytes = 16 << 20
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/electrolight/data/catalog.db"
	}
	cfg.Similarity.ApplyDefaults()
	cfg.Search.ApplyDefaults()
	cfg.Auth.ApplyDefaults()
	if cfg.Import.Extensions == nil {
		cfg.Import.Extensions = []string{".xlsx", ".yaml", ".yml"}
	}
}
