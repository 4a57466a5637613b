package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
server:
  host: "127.0.0.1"
  port: 9000
  request_timeout: 5s
storage:
  database_path: "catalog.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Server.Host != "127.0.0.1" || cfg.Server.Port != 9000 {
		t.Errorf("unexpected server config: %+v", cfg.Server)
	}
	if cfg.Server.RequestTimeout != 5*time.Second {
		t.Errorf("request_timeout: got %v", cfg.Server.RequestTimeout)
	}
	if cfg.Storage.DatabasePath == "" {
		t.Error("database_path should be set")
	}
	if cfg.Debug {
		t.Error("debug should default to false when unset")
	}
}

func TestLoad_debugTrue(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
debug: true
storage:
  database_path: "catalog.db"
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.Debug {
		t.Error("debug should be true when set in config")
	}
}

func TestLoad_similarityAndSearchOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
similarity:
  threshold: 0.5
  limit: 4
search:
  product_limit: 6
auth:
  session_ttl: 2h
  secure_cookie: true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Similarity.Threshold != 0.5 || cfg.Similarity.Limit != 4 {
		t.Errorf("similarity overrides lost: %+v", cfg.Similarity)
	}
	if cfg.Similarity.CategoryWeight != 0.4 {
		t.Errorf("unset weight should default: got %v", cfg.Similarity.CategoryWeight)
	}
	if cfg.Search.ProductLimit != 6 || cfg.Search.AccessoryLimit != 2 {
		t.Errorf("search limits: %+v", cfg.Search)
	}
	if cfg.Auth.SessionTTL != 2*time.Hour || !cfg.Auth.SecureCookie {
		t.Errorf("auth: %+v", cfg.Auth)
	}
}

func TestLoad_similarityExplicitZeroKept(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
similarity:
  brand_weight: 0
  threshold: 0
  limit: 0
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Similarity.BrandWeight != 0 || cfg.Similarity.Threshold != 0 {
		t.Errorf("explicit zeros overwritten: %+v", cfg.Similarity)
	}
	if cfg.Similarity.CategoryWeight != 0.4 || cfg.Similarity.NameWeight != 0.1 {
		t.Errorf("unset weights should default: %+v", cfg.Similarity)
	}
	if cfg.Similarity.Limit != 3 {
		t.Errorf("zero limit should mean the default, got %d", cfg.Similarity.Limit)
	}
}

func TestLoad_expandPathDotSlashRelativeToConfigDir(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
storage:
  database_path: "./data/catalog.db"
import:
  directory: "./imports"
  watch: true
`
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	wantDB := filepath.Join(dir, "data", "catalog.db")
	if cfg.Storage.DatabasePath != wantDB {
		t.Errorf("database_path = %s, want %s", cfg.Storage.DatabasePath, wantDB)
	}
	wantImport := filepath.Join(dir, "imports")
	if cfg.Import.Directory != wantImport {
		t.Errorf("import directory = %s, want %s", cfg.Import.Directory, wantImport)
	}
	if !cfg.Import.Watch {
		t.Error("import watch should be true")
	}
}

func TestLoad_missingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoad_invalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0600); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)
	if cfg.Server.Host != "localhost" {
		t.Errorf("default host: got %s", cfg.Server.Host)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port: got %d", cfg.Server.Port)
	}
	if cfg.Search.ProductLimit != 3 || cfg.Search.AccessoryLimit != 2 {
		t.Errorf("default search caps: got %+v", cfg.Search)
	}
	if cfg.Similarity.Threshold != 0.3 || cfg.Similarity.Limit != 3 {
		t.Errorf("default similarity: got %+v", cfg.Similarity)
	}
	if cfg.Auth.CookieName != "electrolight_session" || cfg.Auth.SessionTTL != 24*time.Hour {
		t.Errorf("default auth: got %+v", cfg.Auth)
	}
	if len(cfg.Import.Extensions) != 3 || cfg.Import.Extensions[0] != ".xlsx" {
		t.Errorf("import extensions: got %v", cfg.Import.Extensions)
	}
}
