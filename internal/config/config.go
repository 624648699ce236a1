// Package config loads application configuration from an optional YAML file
// with BLOG_-prefixed environment variable overrides.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Locale  LocaleConfig  `koanf:"locale"`
	Auth    AuthConfig    `koanf:"auth"`
	Storage StorageConfig `koanf:"storage"`
}

type ServerConfig struct {
	Port int `koanf:"port"`
	// RequestTimeout is the per-exchange deadline, as a duration string
	// like "30s".
	RequestTimeout string `koanf:"request_timeout"`
}

// Timeout parses RequestTimeout, defaulting to 30s on a bad value.
func (s ServerConfig) Timeout() time.Duration {
	d, err := time.ParseDuration(s.RequestTimeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

type LocaleConfig struct {
	Default string   `koanf:"default"`
	Allowed []string `koanf:"allowed"`
}

type AuthConfig struct {
	// RedirectTo is where unauthenticated requests are sent.
	RedirectTo string      `koanf:"redirect_to"`
	Keys       []KeyConfig `koanf:"keys"`
}

type KeyConfig struct {
	KeyHash string `koanf:"key_hash"`
	UserID  string `koanf:"user_id"`
	Name    string `koanf:"name"`
	Role    string `koanf:"role"`
}

type StorageConfig struct {
	Type   string       `koanf:"type"` // sqlite, memory
	SQLite SQLiteConfig `koanf:"sqlite"`
}

type SQLiteConfig struct {
	Path string `koanf:"path"`
}

// Load reads configuration from path (skipped when empty or absent), applies
// BLOG_ environment overrides, and fills in defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, fmt.Errorf("load config from %s: %w", path, err)
			}
		}
	}

	// Environment variables override the file: BLOG_SERVER_PORT=4001 maps
	// to server.port.
	if err := k.Load(env.Provider("BLOG_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "BLOG_")), "_", ".", -1)
	}), nil); err != nil {
		return nil, err
	}

	// Default values
	if !k.Exists("server.port") {
		k.Set("server.port", 4000)
	}
	if !k.Exists("server.request_timeout") {
		k.Set("server.request_timeout", "30s")
	}
	if !k.Exists("locale.default") {
		k.Set("locale.default", "en")
	}
	if !k.Exists("locale.allowed") {
		k.Set("locale.allowed", []string{"en", "fr", "de"})
	}
	if !k.Exists("auth.redirect_to") {
		k.Set("auth.redirect_to", "/")
	}
	if !k.Exists("storage.type") {
		k.Set("storage.type", "memory")
	}
	if !k.Exists("storage.sqlite.path") {
		k.Set("storage.sqlite.path", "./data/blog.db")
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("config: invalid server port %d", c.Server.Port)
	}
	switch c.Storage.Type {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("config: unknown storage type %q", c.Storage.Type)
	}
	return nil
}
