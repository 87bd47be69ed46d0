// Package config loads depwatch settings.
//
// Settings are layered, later layers overriding earlier ones:
//
//  1. built-in defaults ([Default])
//  2. a TOML file (--config, or depwatch.toml in the working directory)
//  3. a .env file in the working directory, merged into the environment
//  4. environment variables
//
// Example depwatch.toml:
//
//	[server]
//	addr = ":8080"
//	resolve_timeout = "30s"
//
//	[cache]
//	backend = "redis"
//	ttl = "10m"
//
//	[store]
//	backend = "mongo"
//	mongodb_uri = "mongodb://localhost:27017"
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"github.com/matzehuels/depwatch/pkg/cache"
	"github.com/matzehuels/depwatch/pkg/errors"
	"github.com/matzehuels/depwatch/pkg/subscription"
)

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "depwatch.toml"

// Duration is a time.Duration written as a string ("30s", "5m") in TOML.
type Duration struct {
	time.Duration
}

// UnmarshalText parses a duration string.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText formats the duration.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Config holds all depwatch settings.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Log      LogConfig      `toml:"log"`
	GitHub   GitHubConfig   `toml:"github"`
	GitLab   GitLabConfig   `toml:"gitlab"`
	HTTP     HTTPConfig     `toml:"http"`
	Cache    CacheConfig    `toml:"cache"`
	Store    StoreConfig    `toml:"store"`
	Resolver ResolverConfig `toml:"resolver"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type ServerConfig struct {
	Addr            string   `toml:"addr"`
	ResolveTimeout  Duration `toml:"resolve_timeout"`
	ShutdownTimeout Duration `toml:"shutdown_timeout"`
}

type LogConfig struct {
	Level string `toml:"level"`
}

type GitHubConfig struct {
	Token   string `toml:"token"`
	BaseURL string `toml:"base_url"`
}

type GitLabConfig struct {
	Token string `toml:"token"`
}

// HTTPConfig is the retry policy applied to every provider and registry call.
type HTTPConfig struct {
	Attempts int      `toml:"attempts"`
	Delay    Duration `toml:"delay"`
	Timeout  Duration `toml:"timeout"`
}

type CacheConfig struct {
	Backend  string   `toml:"backend"`
	TTL      Duration `toml:"ttl"`
	Size     int      `toml:"size"`
	Dir      string   `toml:"dir"`
	RedisURL string   `toml:"redis_url"`
}

type StoreConfig struct {
	Backend       string `toml:"backend"`
	Dir           string `toml:"dir"`
	RedisURL      string `toml:"redis_url"`
	MongoURI      string `toml:"mongodb_uri"`
	MongoDatabase string `toml:"mongodb_database"`
}

type ResolverConfig struct {
	Concurrency int `toml:"concurrency"`
}

type MetricsConfig struct {
	Enabled bool `toml:"enabled"`
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:            ":8080",
			ResolveTimeout:  Duration{60 * time.Second},
			ShutdownTimeout: Duration{10 * time.Second},
		},
		Log:      LogConfig{Level: "info"},
		HTTP:     HTTPConfig{Attempts: 3, Delay: Duration{500 * time.Millisecond}, Timeout: Duration{10 * time.Second}},
		Cache:    CacheConfig{Backend: cache.BackendMemory, TTL: Duration{10 * time.Minute}, Size: cache.DefaultMemorySize},
		Store:    StoreConfig{Backend: subscription.BackendMemory, MongoDatabase: subscription.DefaultMongoDatabase},
		Resolver: ResolverConfig{Concurrency: 8},
		Metrics:  MetricsConfig{Enabled: true},
	}
}

// Load builds the configuration from all layers. An empty path looks for
// DefaultFile in the working directory and skips it when absent; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		if _, err := os.Stat(DefaultFile); err == nil {
			path = DefaultFile
		}
	}
	if path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return nil, err
		}
	}

	// A missing .env is the normal case.
	_ = godotenv.Load()

	cfg.ApplyEnv(os.LookupEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFile merges the TOML file at path into c.
func (c *Config) LoadFile(path string) error {
	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return fmt.Errorf("read config %s: unknown key %q", path, undecoded[0].String())
	}
	return nil
}

// ApplyEnv overrides settings from environment variables.
// REDIS_URL fills both the cache and store Redis URLs unless set in the file.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			*dst = strings.TrimSpace(v)
		}
	}

	str("DEPWATCH_ADDR", &c.Server.Addr)
	str("DEPWATCH_LOG_LEVEL", &c.Log.Level)
	str("GITHUB_TOKEN", &c.GitHub.Token)
	str("GITLAB_TOKEN", &c.GitLab.Token)
	str("DEPWATCH_CACHE", &c.Cache.Backend)
	str("DEPWATCH_STORE", &c.Store.Backend)
	str("MONGODB_URI", &c.Store.MongoURI)

	if v, ok := lookup("REDIS_URL"); ok && v != "" {
		if c.Cache.RedisURL == "" {
			c.Cache.RedisURL = v
		}
		if c.Store.RedisURL == "" {
			c.Store.RedisURL = v
		}
	}
	if v, ok := lookup("DEPWATCH_CONCURRENCY"); ok {
		if n, err := strconv.Atoi(v); err == nil {
			c.Resolver.Concurrency = n
		}
	}
	if v, ok := lookup("DEPWATCH_METRICS"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Metrics.Enabled = b
		}
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if _, err := log.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}
	if !slices.Contains(cache.Backends, c.Cache.Backend) {
		return fmt.Errorf("cache.backend: unknown backend %q (want one of %s)", c.Cache.Backend, strings.Join(cache.Backends, ", "))
	}
	if !slices.Contains(subscription.Backends, c.Store.Backend) {
		return fmt.Errorf("store.backend: unknown backend %q (want one of %s)", c.Store.Backend, strings.Join(subscription.Backends, ", "))
	}
	if c.Cache.Backend == cache.BackendRedis && c.Cache.RedisURL == "" {
		return fmt.Errorf("cache.redis_url: required for the redis backend")
	}
	if c.Store.Backend == subscription.BackendRedis && c.Store.RedisURL == "" {
		return fmt.Errorf("store.redis_url: required for the redis backend")
	}
	if c.Store.Backend == subscription.BackendMongo && c.Store.MongoURI == "" {
		return fmt.Errorf("store.mongodb_uri: required for the mongo backend")
	}
	if c.GitHub.BaseURL != "" {
		if err := errors.ValidateURL(c.GitHub.BaseURL); err != nil {
			return fmt.Errorf("github.base_url: %s", errors.UserMessage(err))
		}
	}
	if c.Resolver.Concurrency < 1 {
		return fmt.Errorf("resolver.concurrency: must be at least 1")
	}
	if c.HTTP.Attempts < 1 {
		return fmt.Errorf("http.attempts: must be at least 1")
	}
	return nil
}
