package cli

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/matzehuels/notionmap/pkg/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the notionmap.toml configuration",
	}

	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configInitCommand writes the defaults unless a file already exists.
func (c *CLI) configInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with the built-in defaults",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.resolvedConfigPath()
			if force {
				if err := config.Save(config.Default(), path); err != nil {
					return err
				}
				printSuccess("Wrote defaults")
				printFile(path)
				return nil
			}

			created, err := config.EnsureExists(path)
			if err != nil {
				return err
			}
			if !created {
				printInfo("Config already exists")
				printDetail("Use --force to overwrite %s", path)
				return nil
			}
			printSuccess("Created config")
			printFile(path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")
	return cmd
}

// configShowCommand prints the effective configuration as TOML.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if _, err := os.Stat(c.resolvedConfigPath()); os.IsNotExist(err) {
				c.Logger.Warn("no config file; showing defaults", "path", c.resolvedConfigPath())
			}
			return toml.NewEncoder(cmd.OutOrStdout()).Encode(cfg)
		},
	}
}

// configPathCommand prints where the config file is read from.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(cmd.OutOrStdout(), c.resolvedConfigPath())
			return nil
		},
	}
}

func (c *CLI) resolvedConfigPath() string {
	return orDefault(c.configPath, config.DefaultPath())
}
