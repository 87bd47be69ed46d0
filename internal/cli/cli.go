// Package cli implements the depwatch command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/depwatch/pkg/buildinfo"
	"github.com/matzehuels/depwatch/pkg/cache"
	"github.com/matzehuels/depwatch/pkg/config"
	"github.com/matzehuels/depwatch/pkg/httputil"
	"github.com/matzehuels/depwatch/pkg/integrations/github"
	"github.com/matzehuels/depwatch/pkg/integrations/gitlab"
	"github.com/matzehuels/depwatch/pkg/integrations/npm"
	"github.com/matzehuels/depwatch/pkg/integrations/packagist"
	"github.com/matzehuels/depwatch/pkg/provider"
	"github.com/matzehuels/depwatch/pkg/registry"
	"github.com/matzehuels/depwatch/pkg/resolver"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "depwatch"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "depwatch tracks outdated dependencies of GitHub and GitLab repositories",
		Long:         `depwatch resolves a repository's npm or Composer manifest, compares every declared dependency with the latest published version, and serves the result over an HTTP subscription API.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default ./"+config.DefaultFile+" if present)")

	root.AddCommand(c.serveCommand())
	root.AddCommand(c.checkCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig loads the layered configuration and applies its log level
// unless --verbose already raised it.
func (c *CLI) loadConfig() (*config.Config, error) {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if !c.verbose {
		if level, err := log.ParseLevel(cfg.Log.Level); err == nil {
			c.SetLogLevel(level)
		}
	}
	return cfg, nil
}

// =============================================================================
// Component Factory
// =============================================================================

// newCache opens the configured response cache. The file backend defaults
// to the XDG cache directory.
func newCache(ctx context.Context, cfg config.CacheConfig, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	opts := cache.Options{Backend: cfg.Backend, Size: cfg.Size, Dir: cfg.Dir, RedisURL: cfg.RedisURL}
	if opts.Backend == cache.BackendFile && opts.Dir == "" {
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		opts.Dir = dir
	}
	return cache.Open(ctx, opts)
}

// newResolver wires the provider and registry clients around one shared cache.
func (c *CLI) newResolver(cfg *config.Config, backend cache.Cache) *resolver.Resolver {
	ttl := cfg.Cache.TTL.Duration
	policy := httputil.Policy{
		Attempts: cfg.HTTP.Attempts,
		Delay:    cfg.HTTP.Delay.Duration,
		Timeout:  cfg.HTTP.Timeout.Duration,
	}

	gh := github.NewClient(backend, cfg.GitHub.Token, ttl)
	if cfg.GitHub.BaseURL != "" {
		gh.SetBaseURL(cfg.GitHub.BaseURL)
	}
	gl := gitlab.NewClient(backend, cfg.GitLab.Token, ttl)
	n := npm.NewClient(backend, ttl)
	p := packagist.NewClient(backend, ttl)
	for _, client := range []interface{ SetPolicy(httputil.Policy) }{gh, gl, n, p} {
		client.SetPolicy(policy)
	}

	return resolver.New(
		provider.NewTable(gh, gl),
		registry.NewDefault(n, p),
		resolver.WithLogger(c.Logger),
		resolver.WithConcurrency(cfg.Resolver.Concurrency),
	)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/depwatch/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// dataDir returns the directory for file-backed subscriptions
// (~/.local/share/depwatch/subscriptions/).
func dataDir() (string, error) {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, appName, "subscriptions"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "share", appName, "subscriptions"), nil
}
