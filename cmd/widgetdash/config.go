package main

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/widgetdash/internal/config"
	"github.com/jmylchreest/widgetdash/internal/theme"
)

var configInitOpts struct {
	force bool
}

// configCmd represents the config command group.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Inspect or create the configuration file",
	Long: `Inspect or create the configuration file.

Values come from the TOML file, then WIDGETDASH_* environment variables
(for example WIDGETDASH_TOASTS_POSITION=top-center), which may also be set
in a .env file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return configShowRun(cmd, args)
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), configPath())
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE:  configShowRun,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default values",
	RunE:  configInitRun,
}

var configThemesCmd = &cobra.Command{
	Use:   "themes",
	Short: "List available palettes",
	RunE:  configThemesRun,
}

func init() {
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configThemesCmd)

	configInitCmd.Flags().BoolVar(&configInitOpts.force, "force", false,
		"Overwrite an existing file")

	rootCmd.AddCommand(configCmd)
}

func configShowRun(cmd *cobra.Command, args []string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}

func configInitRun(cmd *cobra.Command, args []string) error {
	path := configPath()
	if _, err := os.Stat(path); err == nil && !configInitOpts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}

	if err := config.DefaultConfig().Save(path); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "wrote", path)
	return nil
}

func configThemesRun(cmd *cobra.Command, args []string) error {
	themes, err := theme.NewLoader(config.ThemesDir(configPath()), logger).List()
	if err != nil {
		return fmt.Errorf("failed to list themes: %w", err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	for _, t := range themes {
		var notes []string
		if t.Name == cfg.Theme.Name {
			notes = append(notes, "active")
		}
		if t.IsDefault {
			notes = append(notes, "default")
		}
		source := t.Path
		if t.IsBundled {
			source = "bundled"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", t.Name, source, strings.Join(notes, ", "))
	}
	return w.Flush()
}
