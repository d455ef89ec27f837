package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/flametower/internal/server"
	"github.com/matzehuels/flametower/pkg/catalog"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr      string
		seedFiles int
		noCache   bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the profile catalog and flame graphs over HTTP",
		Long: `Start the flametower HTTP API.

The server holds an in-memory catalog of generated profiles and renders their
flame graphs on request. Rendered artifacts are cached in the configured cache
backend.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := c.serverConfig()
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if !cmd.Flags().Changed("seed-files") {
				seedFiles = c.Config.Server.SeedFiles
			}

			runner := c.newRunner(ctx, noCache)
			defer runner.Close()
			cat := catalog.New(catalog.WithSeedFiles(seedFiles))

			printSuccess("Serving %d files on %s", seedFiles, StyleValue.Render("http://"+cfg.Addr))
			printNextStep("Browse them with", appName+" files list --server http://"+cfg.Addr)
			return server.New(cfg, cat, runner, c.Logger).ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	cmd.Flags().IntVar(&seedFiles, "seed-files", 0, "number of generated profiles in the catalog (default from config)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) serverConfig() server.Config {
	s := c.Config.Server
	return server.Config{
		Addr:           s.Addr,
		CORSOrigins:    s.CORSOrigins,
		ReadTimeout:    s.ReadTimeout.Duration,
		WriteTimeout:   s.WriteTimeout.Duration,
		RequestTimeout: s.RequestTimeout.Duration,
	}
}
