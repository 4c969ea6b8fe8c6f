// Package cli implements the graphcanvas command-line interface.
//
// Commands work on document files (JSON, or edge lists with a .txt or
// .edges extension) and on the configured document store:
//   - new: generate a graph family into a document
//   - run: execute a gesture script against a document
//   - render: write SVG, PNG, PDF, DOT, JSON, TikZ or edge list outputs
//   - check, info: validate and summarise a document
//   - edit: interactive terminal editor
//   - serve: HTTP API over the document store
//   - store, cache: manage stored documents and rendered artifacts
//
// All commands support --verbose (-v) for debug-level logging and
// --config for an alternative TOML settings file. Loggers are passed
// through context.Context.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphcanvas/pkg/buildinfo"
	"github.com/matzehuels/graphcanvas/pkg/cache"
	"github.com/matzehuels/graphcanvas/pkg/config"
	"github.com/matzehuels/graphcanvas/pkg/pipeline"
	"github.com/matzehuels/graphcanvas/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "graphcanvas"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands. Config is loaded by the root
// command before any subcommand runs.
type CLI struct {
	Logger *log.Logger
	Config *config.Config

	configPath string
	verbose    bool
}

// New creates a new CLI instance with a default logger and the built-in
// settings.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// loadConfig reads the file named by --config, or the default location.
func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	if c.configPath != "" {
		c.Logger.Debug("loaded config", "path", c.configPath)
	}
	return nil
}

// =============================================================================
// Runner and Store Factories
// =============================================================================

// newRunner creates a pipeline runner over the configured artifact cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, buildinfo.Version+":"), c.Logger)
	ttl, err := c.Config.CacheTTL()
	if err != nil {
		return nil, err
	}
	if ttl > 0 {
		r.TTL = ttl
	}
	return r, nil
}

// newCache returns redis when an address is configured, the file cache
// otherwise, and the null cache when caching is off or the cache
// directory cannot be found.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	cfg := c.Config.Cache
	if noCache || cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		return cache.DialRedis(ctx, cfg.RedisAddr, "", 0)
	}
	dir, err := c.cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// openStore opens the configured document store.
func (c *CLI) openStore(ctx context.Context) (store.Store, error) {
	return store.Open(ctx, c.Config.Store, c.Logger)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory or the XDG default
// (~/.cache/graphcanvas/).
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return c.Config.Cache.Dir, nil
	}
	return defaultCacheDir()
}

func defaultCacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}
