package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "depwatch.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func env(m map[string]string) func(string) (string, bool) {
	return func(k string) (string, bool) {
		v, ok := m[k]
		return v, ok
	}
}

func TestDefaultIsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Errorf("Default().Validate() error: %v", err)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeFile(t, `
[server]
addr = ":9090"
resolve_timeout = "5s"

[log]
level = "debug"

[cache]
backend = "file"
dir = "/tmp/depwatch"
ttl = "1h"

[store]
backend = "redis"
redis_url = "redis://localhost:6379/1"

[resolver]
concurrency = 2
`)

	cfg := Default()
	if err := cfg.LoadFile(path); err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", cfg.Server.Addr)
	}
	if cfg.Server.ResolveTimeout.Duration != 5*time.Second {
		t.Errorf("ResolveTimeout = %v", cfg.Server.ResolveTimeout)
	}
	if cfg.Server.ShutdownTimeout.Duration != 10*time.Second {
		t.Errorf("ShutdownTimeout should keep its default, got %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Cache.Backend != "file" || cfg.Cache.TTL.Duration != time.Hour {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Store.RedisURL != "redis://localhost:6379/1" {
		t.Errorf("Store.RedisURL = %q", cfg.Store.RedisURL)
	}
	if cfg.Resolver.Concurrency != 2 {
		t.Errorf("Concurrency = %d", cfg.Resolver.Concurrency)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown key", "[server]\nport = 1\n", "unknown key"},
		{"bad duration", "[server]\nresolve_timeout = \"soon\"\n", "read config"},
		{"bad syntax", "[server\n", "read config"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Default().LoadFile(writeFile(t, tt.content))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("LoadFile() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Error("Load() should fail for a missing explicit file")
	}
}

func TestApplyEnv(t *testing.T) {
	cfg := Default()
	cfg.ApplyEnv(env(map[string]string{
		"DEPWATCH_ADDR":        "127.0.0.1:3000",
		"DEPWATCH_LOG_LEVEL":   "warn",
		"GITHUB_TOKEN":         " ghp_abc ",
		"REDIS_URL":            "redis://cache:6379",
		"DEPWATCH_CACHE":       "redis",
		"DEPWATCH_STORE":       "mongo",
		"MONGODB_URI":          "mongodb://db:27017",
		"DEPWATCH_CONCURRENCY": "16",
		"DEPWATCH_METRICS":     "false",
	}))

	if cfg.Server.Addr != "127.0.0.1:3000" {
		t.Errorf("Addr = %q", cfg.Server.Addr)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if cfg.GitHub.Token != "ghp_abc" {
		t.Errorf("GitHub.Token = %q", cfg.GitHub.Token)
	}
	if cfg.Cache.RedisURL != "redis://cache:6379" || cfg.Store.RedisURL != "redis://cache:6379" {
		t.Errorf("Redis URLs = %q, %q", cfg.Cache.RedisURL, cfg.Store.RedisURL)
	}
	if cfg.Store.Backend != "mongo" || cfg.Store.MongoURI != "mongodb://db:27017" {
		t.Errorf("Store = %+v", cfg.Store)
	}
	if cfg.Resolver.Concurrency != 16 {
		t.Errorf("Concurrency = %d", cfg.Resolver.Concurrency)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics should be disabled")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error: %v", err)
	}
}

func TestApplyEnvKeepsFileRedisURL(t *testing.T) {
	cfg := Default()
	cfg.Store.RedisURL = "redis://store:6379"
	cfg.ApplyEnv(env(map[string]string{"REDIS_URL": "redis://env:6379"}))

	if cfg.Store.RedisURL != "redis://store:6379" {
		t.Errorf("Store.RedisURL = %q, file value should win", cfg.Store.RedisURL)
	}
	if cfg.Cache.RedisURL != "redis://env:6379" {
		t.Errorf("Cache.RedisURL = %q", cfg.Cache.RedisURL)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"cache backend", func(c *Config) { c.Cache.Backend = "memcached" }, "cache.backend"},
		{"store backend", func(c *Config) { c.Store.Backend = "sqlite" }, "store.backend"},
		{"cache redis url", func(c *Config) { c.Cache.Backend = "redis" }, "cache.redis_url"},
		{"store redis url", func(c *Config) { c.Store.Backend = "redis" }, "store.redis_url"},
		{"mongo uri", func(c *Config) { c.Store.Backend = "mongo" }, "store.mongodb_uri"},
		{"concurrency", func(c *Config) { c.Resolver.Concurrency = 0 }, "resolver.concurrency"},
		{"attempts", func(c *Config) { c.HTTP.Attempts = 0 }, "http.attempts"},
		{"github base url", func(c *Config) { c.GitHub.BaseURL = "ftp://ghe.example.com" }, "github.base_url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestDurationText(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("1m30s")); err != nil {
		t.Fatal(err)
	}
	if d.Duration != 90*time.Second {
		t.Errorf("Duration = %v", d.Duration)
	}
	text, _ := d.MarshalText()
	if string(text) != "1m30s" {
		t.Errorf("MarshalText() = %q", text)
	}
	if err := d.UnmarshalText([]byte("later")); err == nil {
		t.Error("UnmarshalText(later) should fail")
	}
}

func TestExampleConfig(t *testing.T) {
	cfg := Default()
	if err := cfg.LoadFile(filepath.Join("..", "..", "examples", "depwatch.toml")); err != nil {
		t.Fatalf("example config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("example config invalid: %v", err)
	}
}
