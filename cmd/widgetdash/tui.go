package main

import (
	"context"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/jmylchreest/widgetdash/internal/config"
	"github.com/jmylchreest/widgetdash/internal/tui"
)

var tuiOpts struct {
	dbus bool
	http string
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	Long: `Launch the terminal dashboard with the notification test widget.

The widget raises toasts, the modal and the banner so every overlay can be
tried out. With --dbus the dashboard also becomes the desktop notification
service; with --http it serves the HTTP API alongside.

Key bindings:
  tab/↓, shift+tab/↑   Move between controls
  ←/→                  Change position or type
  enter                Press the focused button
  x / X                Dismiss newest toast / clear all toasts
  t                    Run the newest toast's action
  a / b                Run banner action / dismiss banner
  y / n / esc          Confirm / cancel / dismiss the modal
  c                    Copy overlay state to clipboard
  ?                    Toggle help
  q                    Quit`,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
	addTUIFlags(tuiCmd)
}

// addTUIFlags registers the dashboard flags; the root command takes them
// too since it runs the dashboard by default.
func addTUIFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&tuiOpts.dbus, "dbus", false,
		"Serve org.freedesktop.Notifications and the control interface")
	cmd.Flags().StringVar(&tuiOpts.http, "http", "",
		"Serve the HTTP API on this address (e.g. 127.0.0.1:7878)")
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	httpAddr := tuiOpts.http
	if httpAddr == "" && cfg.HTTP.Enabled {
		httpAddr = cfg.HTTP.Addr
	}

	inst, err := startInstance(ctx, cfg, instanceOptions{
		DBus:     tuiOpts.dbus,
		HTTPAddr: httpAddr,
	})
	if err != nil {
		return err
	}
	defer inst.Stop()

	return tui.Run(ctx, tui.RunOptions{
		Options: tui.Options{
			Scope:    inst.scope,
			Config:   cfg,
			Palette:  inst.Palette(),
			Logger:   logger,
			Surfaces: inst.surfaces,
		},
		Ready: func(p *tea.Program) {
			if inst.reloader == nil {
				return
			}
			inst.reloader.OnApply(func(_, c *config.Config) {
				p.Send(tui.ReloadMsg{Config: c, Palette: inst.Palette()})
			})
		},
	})
}
