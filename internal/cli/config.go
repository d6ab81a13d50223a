package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/ratiochase/internal/config"
)

// configCommand creates the config management command.
func (c *CLI) configCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage ratiochase configuration",
		Long: `Manage ratiochase configuration.

Configuration hierarchy (highest to lowest priority):
  1. CLI flags
  2. Environment variables (RATIOCHASE_PROVE_PARALLEL, ...)
  3. Config file ($XDG_CONFIG_HOME/ratiochase/config.toml)
  4. Defaults`,
	}

	cmd.AddCommand(c.configShowCommand())
	cmd.AddCommand(c.configInitCommand())
	cmd.AddCommand(c.configPathCommand())

	return cmd
}

// configShowCommand creates the "config show" subcommand.
func (c *CLI) configShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the resolved configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			if used := c.viper.ConfigFileUsed(); used != "" {
				printInfo(c.Status, "Configuration file: %s", used)
			} else {
				printInfo(c.Status, "No configuration file found (using defaults)")
			}
			data, err := yaml.Marshal(c.config)
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			_, err = c.Out.Write(data)
			return err
		},
	}
}

// configInitCommand creates the "config init" subcommand.
func (c *CLI) configInitCommand() *cobra.Command {
	return &cobra.Command{
		Use:         "init",
		Short:       "Write the default configuration file",
		Annotations: map[string]string{skipConfigAnnotation: "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			path := c.cfgFile
			if path == "" {
				var err error
				if path, err = config.Path(); err != nil {
					return fmt.Errorf("get config path: %w", err)
				}
			}
			if err := config.Init(path); err != nil {
				return err
			}
			printSuccess(c.Status, "Created default configuration: %s", path)
			printDetail(c.Status, "view it with: %s config show", appName)
			return nil
		},
	}
}

// configPathCommand creates the "config path" subcommand.
func (c *CLI) configPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the default configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.Path()
			if err != nil {
				return err
			}
			fmt.Fprintln(c.Out, path)
			return nil
		},
	}
}
