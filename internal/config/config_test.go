/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":8080" {
		t.Errorf("Server.Addr = %q; want :8080", cfg.Server.Addr)
	}
	if cfg.Server.ShutdownTimeout != 10*time.Second {
		t.Errorf("Server.ShutdownTimeout = %v", cfg.Server.ShutdownTimeout)
	}
	if len(cfg.Server.CORSOrigins) != 1 || cfg.Server.CORSOrigins[0] != "*" {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.Table.Path != "tournament_standings.csv" {
		t.Errorf("Table.Path = %q", cfg.Table.Path)
	}
	if cfg.Log.Level != "info" || cfg.Log.Format != "json" {
		t.Errorf("Log = %+v", cfg.Log)
	}
	if cfg.S3.CacheTTL != 15*time.Minute {
		t.Errorf("S3.CacheTTL = %v", cfg.S3.CacheTTL)
	}
	if cfg.HasDiscord() {
		t.Errorf("HasDiscord should be false without credentials")
	}
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("LISTEN_ADDR", "127.0.0.1:9000")
	t.Setenv("STANDINGS_CSV", "/data/worlds.csv")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("CORS_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("S3_BUCKET", "standings")
	t.Setenv("CACHE_TTL", "1h")
	t.Setenv("DISCORD_APP_ID", "123")
	t.Setenv("DISCORD_PUBLIC_KEY", "abcd")
	t.Setenv("DISCORD_BOT_TOKEN", "token")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != "127.0.0.1:9000" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Table.Path != "/data/worlds.csv" {
		t.Errorf("Table.Path = %q", cfg.Table.Path)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if len(cfg.Server.CORSOrigins) != 2 {
		t.Errorf("Server.CORSOrigins = %v", cfg.Server.CORSOrigins)
	}
	if cfg.S3.Bucket != "standings" || cfg.S3.CacheTTL != time.Hour {
		t.Errorf("S3 = %+v", cfg.S3)
	}
	if !cfg.HasDiscord() {
		t.Errorf("HasDiscord should be true")
	}
}

func TestLoadYAML(t *testing.T) {
	path := writeYAML(t, `
server:
  addr: ":9999"
table:
  path: "from-yaml.csv"
log:
  level: "warn"
  format: "text"
`)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("LOG_LEVEL", "error")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Addr != ":9999" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Table.Path != "from-yaml.csv" {
		t.Errorf("Table.Path = %q", cfg.Table.Path)
	}
	// env wins over yaml
	if cfg.Log.Level != "error" {
		t.Errorf("Log.Level = %q; want error", cfg.Log.Level)
	}
	if cfg.Log.Format != "text" {
		t.Errorf("Log.Format = %q", cfg.Log.Format)
	}
}

func TestLoadMissingYAML(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))
	if _, err := Load(); err == nil {
		t.Errorf("expected an error for a missing config file")
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Table: TableConfig{Path: "t.csv"},
			Log:   LogConfig{Level: "info", Format: "json"},
		}
	}

	cases := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"upper case level", func(c *Config) { c.Log.Level = "DEBUG" }, false},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, true},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, true},
		{"no table", func(c *Config) { c.Table.Path = "" }, true},
		{"negative ttl", func(c *Config) { c.S3.CacheTTL = -time.Second }, true},
		{"half credentials", func(c *Config) { c.S3.AccessKeyID = "id" }, true},
		{"full credentials", func(c *Config) {
			c.S3.AccessKeyID = "id"
			c.S3.SecretAccessKey = "secret"
		}, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v; wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestStoreOptions(t *testing.T) {
	c := S3Config{
		Bucket:          "b",
		Region:          "auto",
		Endpoint:        "https://example.r2.cloudflarestorage.com",
		AccessKeyID:     "id",
		SecretAccessKey: "secret",
	}
	opts := c.StoreOptions()
	if opts.Region != "auto" || opts.Endpoint != c.Endpoint ||
		opts.AccessKeyID != "id" || opts.SecretAccessKey != "secret" {
		t.Errorf("unexpected options %+v", opts)
	}
	if opts.Gzip || opts.LogErrors {
		t.Errorf("cache tuning should be left to callers: %+v", opts)
	}
}
