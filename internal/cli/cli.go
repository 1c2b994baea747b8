// Package cli implements the inkgraph command-line interface.
//
// This package provides commands for converting diagrams between the
// canonical graph format and the external surfaces (sketch, flowxml,
// dsl), computing layouts, rendering previews, following a generator
// stream, and running the HTTP API. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - convert: Translate between canonical graphs and external formats
//   - layout: Compute node positions and edge anchors
//   - render: Generate DOT, SVG, or PNG previews
//   - stream: Follow a generator stream and show nodes as they complete
//   - serve: Run the HTTP conversion and layout API
//   - cache: Manage the local artifact cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers
// are passed through context.Context for structured progress tracking.
package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/inkgraph/pkg/buildinfo"
	"github.com/matzehuels/inkgraph/pkg/cache"
)

// appName is the application name used for directories and display.
const appName = "inkgraph"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config Config
}

// New creates a new CLI instance with a default logger and the config
// loaded from disk (falling back to defaults when no file exists).
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: LoadConfigOrDefault(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Inkgraph converts and lays out diagram graphs",
		Long:         `Inkgraph is a diagram interchange tool: it converts whiteboard sketches, flowchart XML, and a compact DSL to and from one canonical graph, computes automatic layouts, and renders previews.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	root.AddCommand(c.convertCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.streamCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// newCache builds the cache backend selected by config, falling back to
// the null cache when caching is disabled or unavailable.
func (c *CLI) newCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	switch c.Config.Cache.Backend {
	case cacheBackendNone:
		return cache.NewNullCache()
	case cacheBackendRedis:
		rc, err := cache.NewRedisCache(ctx, c.Config.Cache.RedisAddr, c.Config.Cache.RedisPassword, c.Config.Cache.RedisDB)
		if err != nil {
			c.Logger.Warn("redis cache unavailable, continuing without cache", "addr", c.Config.Cache.RedisAddr, "err", err)
			return cache.NewNullCache()
		}
		return rc
	default:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache()
		}
		fc, err := cache.NewFileCache(dir)
		if err != nil {
			return cache.NewNullCache()
		}
		return fc
	}
}

// cacheDir returns the cache directory using XDG standard (~/.cache/inkgraph/).
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
