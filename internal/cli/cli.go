// Package cli implements the flametower command-line interface.
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/flametower/internal/config"
	"github.com/matzehuels/flametower/pkg/buildinfo"
	"github.com/matzehuels/flametower/pkg/cache"
	"github.com/matzehuels/flametower/pkg/observability"
	"github.com/matzehuels/flametower/pkg/pipeline"
)

const appName = "flametower"

// LogInfo is the default log level, exported for main.go.
const LogInfo = log.InfoLevel

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger
	Config config.Config

	configPath string
	verbose    bool
	serverURL  string
}

// New creates a CLI logging to w at level. The configuration is loaded when
// a command runs.
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

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Flametower renders and explores flame graphs",
		Long: `Flametower turns call-tree profiles into flame graphs: static SVG, PNG and PDF
renderings, a call-graph view, an interactive terminal viewer and an HTTP API
over a catalog of profiles.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/flametower/config.toml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.filesCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration, applies the log level and attaches the
// logger to the command context. --verbose wins over the configured level
// and also routes pipeline, cache and server events to the log.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg

	switch {
	case c.verbose:
		c.SetLogLevel(log.DebugLevel)
		hooks := observability.NewLogHooks(c.Logger)
		observability.SetPipelineHooks(hooks)
		observability.SetCacheHooks(hooks)
		observability.SetServerHooks(hooks)
	case cfg.Log.Level != "":
		level, err := log.ParseLevel(cfg.Log.Level)
		if err != nil {
			return err
		}
		c.SetLogLevel(level)
	}

	cmd.SetContext(withLogger(cmd.Context(), c.Logger))
	return nil
}

// newRunner creates a pipeline runner backed by the configured cache.
// A cache that cannot be opened degrades to no caching.
func (c *CLI) newRunner(ctx context.Context, noCache bool) *pipeline.Runner {
	return pipeline.NewRunner(c.openCache(ctx, noCache), c.Logger, nil)
}

func (c *CLI) openCache(ctx context.Context, noCache bool) cache.Cache {
	if noCache {
		return cache.NewNullCache()
	}
	store, err := c.Config.Cache.OpenCache(ctx)
	if err != nil {
		c.Logger.Warn("cache unavailable, continuing without", "backend", c.Config.Cache.Backend, "err", err)
		return cache.NewNullCache()
	}
	return store
}
