// Package cli implements the modpublish command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/modpublish/pkg/buildinfo"
	"github.com/matzehuels/modpublish/pkg/cache"
	"github.com/matzehuels/modpublish/pkg/errors"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "modpublish"

	// referenceTTL is how long platform reference data (game versions,
	// loader tags) stays cached.
	referenceTTL = 24 * time.Hour
)

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
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetLogFormat switches the log output format. CI systems that ingest
// logs usually want json or logfmt.
func (c *CLI) SetLogFormat(format string) error {
	switch strings.ToLower(format) {
	case "", "text":
		c.Logger.SetFormatter(log.TextFormatter)
	case "json":
		c.Logger.SetFormatter(log.JSONFormatter)
	case "logfmt":
		c.Logger.SetFormatter(log.LogfmtFormatter)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown log format %q (want text, json or logfmt)", format)
	}
	return nil
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "modpublish uploads mod releases to Modrinth, CurseForge and GitHub",
		Long:         `modpublish publishes built mod files to Modrinth, CurseForge and GitHub Releases, reconciling dependencies, game versions and loaders for each platform.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.publishCommand())
	root.AddCommand(c.resolveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Cache Factory
// =============================================================================

// cacheOptions selects the reference-data cache backend.
type cacheOptions struct {
	noCache   bool
	redisAddr string
}

func (o *cacheOptions) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "do not cache platform reference data")
	cmd.Flags().StringVar(&o.redisAddr, "cache-redis", os.Getenv("MODPUBLISH_REDIS"), "share cached reference data through redis at host:port")
}

// open returns the configured backend. The file cache is the default;
// when it can't be created entries only live in memory for this run.
func (o *cacheOptions) open(ctx context.Context, logger *log.Logger) (cache.Cache, error) {
	if o.noCache {
		return cache.NewNullCache(), nil
	}
	if o.redisAddr != "" {
		return cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     o.redisAddr,
			Password: os.Getenv("MODPUBLISH_REDIS_PASSWORD"),
		})
	}
	dir, err := cacheDir()
	if err != nil {
		logger.Debug("file cache unavailable, caching in memory", "err", err)
		return cache.NewMemoryCache(), nil
	}
	c, err := cache.NewFileCache(dir)
	if err != nil {
		logger.Debug("file cache unavailable, caching in memory", "dir", dir, "err", err)
		return cache.NewMemoryCache(), nil
	}
	return c, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/modpublish/).
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
