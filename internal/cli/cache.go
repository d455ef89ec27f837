package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flametower/internal/config"
	"github.com/matzehuels/flametower/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage cached trees and rendered artifacts",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every cached tree and artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if c.Config.Cache.Backend == config.BackendNone {
				printInfo("Caching is disabled")
				return nil
			}
			store, err := c.Config.Cache.OpenCache(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			clearer, ok := store.(cache.Clearer)
			if !ok {
				printWarning("The %s cache cannot be cleared", c.Config.Cache.Backend)
				return nil
			}
			if err := clearer.Clear(ctx); err != nil {
				return err
			}
			printSuccess("Cache cleared")
			printDetail("Location: %s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where the cache lives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Println(c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation describes the configured backend: a directory for the file
// cache or a redis:// address.
func (c *CLI) cacheLocation() string {
	cc := c.Config.Cache
	switch cc.Backend {
	case config.BackendNone:
		return "disabled"
	case config.BackendRedis:
		return fmt.Sprintf("redis://%s/%d", cc.Redis.Addr, cc.Redis.DB)
	}
	if cc.Dir != "" {
		return cc.Dir
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		return "unknown"
	}
	return dir
}
