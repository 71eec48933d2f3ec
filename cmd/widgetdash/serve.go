package main

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var serveOpts struct {
	http   string
	noDBus bool
	noHTTP bool
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the overlay service without a dashboard",
	Long: `Run the overlay layer headless.

The service claims org.freedesktop.Notifications so desktop applications
(notify-send, browsers, mail clients) raise toasts, exports the control
interface used by 'widgetdash notify', 'snapshot', 'dismiss' and 'position',
and serves the HTTP API with its live Server-Sent-Events stream.

The config file is watched: position, default duration, timeouts and theme
changes apply without a restart.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serveOpts.http, "http", "",
		"HTTP API address (default: http.addr from config)")
	serveCmd.Flags().BoolVar(&serveOpts.noDBus, "no-dbus", false,
		"Do not claim any D-Bus names")
	serveCmd.Flags().BoolVar(&serveOpts.noHTTP, "no-http", false,
		"Do not serve the HTTP API")
}

func runServe(cmd *cobra.Command, args []string) error {
	httpAddr := serveOpts.http
	if httpAddr == "" {
		httpAddr = cfg.HTTP.Addr
	}
	if serveOpts.noHTTP {
		httpAddr = ""
	}
	if serveOpts.noDBus && httpAddr == "" {
		return errors.New("nothing to serve: both D-Bus and HTTP are disabled")
	}

	logger.Info("starting widgetdash", "version", version)

	// Set up signal handling for graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	inst, err := startInstance(ctx, cfg, instanceOptions{
		DBus:     !serveOpts.noDBus,
		HTTPAddr: httpAddr,
		Strict:   true,
	})
	if err != nil {
		return err
	}
	logger.Info("widgetdash ready", "surfaces", inst.surfaces)

	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("received signal, shutting down")
	case err := <-inst.httpErr:
		runErr = fmt.Errorf("HTTP API stopped: %w", err)
	}

	inst.Stop()
	logger.Info("widgetdash stopped")
	return runErr
}
