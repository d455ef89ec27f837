package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/flametower/internal/config"
	"github.com/matzehuels/flametower/pkg/errors"
)

const redactedSecret = "********"

func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and create the configuration file",
	}

	cmd.AddCommand(c.configPathCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())

	return cmd
}

// resolvedConfigPath is --config when given, otherwise the default location.
func (c *CLI) resolvedConfigPath() (string, error) {
	if c.configPath != "" {
		return c.configPath, nil
	}
	return config.Path()
}

func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolvedConfigPath()
			if err != nil {
				return err
			}
			fmt.Println(path)
			return nil
		},
	}
}

func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as TOML",
		Long: `Print the configuration after defaults, the config file and FLAMETOWER_*
environment variables have been applied. Secrets are redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.effectiveConfig()
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
}

func (c *CLI) effectiveConfig() ([]byte, error) {
	cfg := c.Config
	if cfg.Cache.Redis.Password != "" {
		cfg.Cache.Redis.Password = redactedSecret
	}
	return config.Encode(cfg)
}

func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the default settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := c.resolvedConfigPath()
			if err != nil {
				return err
			}
			if err := initConfig(path, force); err != nil {
				return err
			}
			printSuccess("Wrote default configuration")
			printFile(path)
			printNextStep("Show the effective settings", appName+" config show")
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	return cmd
}

func initConfig(path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return errors.New(errors.ErrCodeInvalidInput, "%s already exists (use --force to overwrite)", path)
	}
	return config.Save(path, config.Default())
}
