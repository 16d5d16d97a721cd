/* Copyright © 2025-2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */

// Package config loads runtime settings shared by the standings commands.
// Values come from the environment (optionally seeded from a .env file) or a
// YAML file named by CONFIG_PATH; unset values take their env-default.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/mikeb26/tcgstandings/s3store"
)

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Table   TableConfig   `yaml:"table"`
	Log     LogConfig     `yaml:"log"`
	S3      S3Config      `yaml:"s3"`
	Discord DiscordConfig `yaml:"discord"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr"             env:"LISTEN_ADDR"      env-default:":8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SHUTDOWN_TIMEOUT" env-default:"10s"`
	CORSOrigins     []string      `yaml:"cors_origins"     env:"CORS_ORIGINS"     env-default:"*" env-separator:","`
}

type TableConfig struct {
	Path string `yaml:"path" env:"STANDINGS_CSV" env-default:"tournament_standings.csv"`
}

type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

type S3Config struct {
	Bucket          string        `yaml:"bucket"            env:"S3_BUCKET"`
	Prefix          string        `yaml:"prefix"            env:"S3_PREFIX"`
	Region          string        `yaml:"region"            env:"S3_REGION"`
	Endpoint        string        `yaml:"endpoint"          env:"S3_ENDPOINT"`
	AccessKeyID     string        `yaml:"access_key_id"     env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string        `yaml:"secret_access_key" env:"S3_SECRET_ACCESS_KEY"`
	CacheTTL        time.Duration `yaml:"cache_ttl"         env:"CACHE_TTL" env-default:"15m"`
}

type DiscordConfig struct {
	AppID     string `yaml:"app_id"       env:"DISCORD_APP_ID"`
	PublicKey string `yaml:"public_key"   env:"DISCORD_PUBLIC_KEY"`
	BotToken  string `yaml:"bot_token"    env:"DISCORD_BOT_TOKEN"`
	CommandID string `yaml:"command_id"   env:"DISCORD_COMMAND_ID"`
	Addr      string `yaml:"addr"         env:"DISCORD_LISTEN_ADDR" env-default:":8081"`

	// CommandHash is the sha256 of the command definition last registered
	CommandHash string `yaml:"command_hash" env:"DISCORD_COMMAND_HASH"`
}

// Load reads configuration. A .env file in the working directory is applied
// first when present. Priority: ENV > YAML > defaults.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("config: read .env: %w", err)
	}

	var cfg Config

	path := os.Getenv("CONFIG_PATH")
	if path != "" {
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate checks values that cannot be expressed as defaults.
func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error (got %q)",
			c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}
	if c.Table.Path == "" {
		return fmt.Errorf("table.path must be set")
	}
	if c.S3.CacheTTL < 0 {
		return fmt.Errorf("s3.cache_ttl must be >= 0 (got %v)", c.S3.CacheTTL)
	}
	if (c.S3.AccessKeyID == "") != (c.S3.SecretAccessKey == "") {
		return fmt.Errorf("s3 static credentials need both access_key_id and secret_access_key")
	}

	return nil
}

// HasDiscord reports whether the bot credentials are configured.
func (c *Config) HasDiscord() bool {
	return c.Discord.AppID != "" && c.Discord.PublicKey != "" && c.Discord.BotToken != ""
}

// StoreOptions returns the s3store connection options for c.
func (c S3Config) StoreOptions() s3store.Options {
	return s3store.Options{
		Region:          c.Region,
		Endpoint:        c.Endpoint,
		AccessKeyID:     c.AccessKeyID,
		SecretAccessKey: c.SecretAccessKey,
	}
}
