package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/widgetdash/internal/config"
	"github.com/jmylchreest/widgetdash/internal/dbus"
	"github.com/jmylchreest/widgetdash/internal/model"
)

var positionOpts struct {
	save bool
}

var positionCmd = &cobra.Command{
	Use:   "position [POSITION]",
	Short: "Show or change where toasts appear",
	Long: `Show or change the toast stack anchor: top-left, top-center, top-right,
bottom-left, bottom-center or bottom-right.

A running instance is changed live. Without one, or with --save, the
position is written to the config file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPosition,
}

func init() {
	rootCmd.AddCommand(positionCmd)

	positionCmd.Flags().BoolVar(&positionOpts.save, "save", false,
		"Also persist the position to the config file")
}

func runPosition(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	client, err := dbus.Dial()
	if err != nil && !errors.Is(err, dbus.ErrNotRunning) {
		logger.Debug("session bus unavailable", "error", err)
	}

	if len(args) == 0 {
		if client != nil {
			snap, err := client.Snapshot()
			if err != nil {
				return fmt.Errorf("failed to read overlay state: %w", err)
			}
			fmt.Fprintln(out, snap.Position)
			return nil
		}
		fmt.Fprintln(out, cfg.ToastPosition())
		return nil
	}

	p, err := model.ParsePosition(args[0])
	if err != nil {
		return fmt.Errorf("%w (use one of %v)", err, model.Positions())
	}

	if client != nil {
		if err := client.SetToastPosition(p); err != nil {
			return fmt.Errorf("failed to set position: %w", err)
		}
		fmt.Fprintln(out, "toasts now appear", p)
		if !positionOpts.save {
			return nil
		}
	}

	// Save the file's own values, not the environment overrides
	fileCfg, err := config.LoadFile(configPath())
	if err != nil {
		return err
	}
	fileCfg.Toasts.Position = string(p)
	if err := fileCfg.Save(configPath()); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	fmt.Fprintf(out, "saved position %s to %s\n", p, configPath())
	return nil
}
