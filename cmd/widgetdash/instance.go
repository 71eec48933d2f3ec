package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"

	godbus "github.com/godbus/dbus/v5"

	"github.com/jmylchreest/widgetdash/internal/config"
	"github.com/jmylchreest/widgetdash/internal/daemon"
	"github.com/jmylchreest/widgetdash/internal/dbus"
	"github.com/jmylchreest/widgetdash/internal/httpapi"
	"github.com/jmylchreest/widgetdash/internal/overlay"
	"github.com/jmylchreest/widgetdash/internal/theme"
)

// instanceOptions selects the consumer surfaces started next to the scope.
type instanceOptions struct {
	DBus     bool
	HTTPAddr string // Empty disables the HTTP API
	// Strict turns a failing surface into an error instead of a warning.
	Strict bool
}

// instance is one running overlay scope with its surfaces.
type instance struct {
	scope    *overlay.Scope
	themes   *theme.Loader
	palette  atomic.Pointer[theme.Palette]
	notifier *daemon.InternalNotifier
	reloader *daemon.Reloader
	bridge   *daemon.Bridge

	conn          *godbus.Conn
	notifications *dbus.NotificationServer
	control       *dbus.ControlServer

	httpCancel context.CancelFunc
	httpWG     sync.WaitGroup
	httpErr    chan error

	surfaces []string
}

// startInstance opens the scope from cfg and brings up the requested
// surfaces. Stop tears everything down again.
func startInstance(ctx context.Context, cfg *config.Config, opts instanceOptions) (*instance, error) {
	inst := &instance{
		scope: overlay.Open(overlay.Options{
			DefaultDuration: cfg.Toasts.DefaultDuration.Duration(),
			Position:        cfg.ToastPosition(),
			Logger:          logger,
		}),
		themes:  theme.NewLoader(config.ThemesDir(configPath()), logger),
		httpErr: make(chan error, 1),
	}
	inst.palette.Store(inst.loadPalette(cfg))

	inst.notifier = daemon.NewInternalNotifier(inst.scope, logger)
	inst.notifier.SetEnabled(cfg.Notifier.Enabled)
	inst.notifier.SetMinInterval(cfg.Notifier.MinInterval.Duration())

	fail := func(err error) (*instance, error) {
		inst.Stop()
		return nil, err
	}

	if opts.DBus {
		if err := inst.startDBus(ctx, cfg); err != nil {
			if opts.Strict {
				return fail(err)
			}
			logger.Warn("D-Bus surfaces unavailable", "error", err)
		}
	}

	if err := inst.startReloader(cfg); err != nil {
		logger.Warn("config hot reload unavailable", "error", err)
	}

	if opts.HTTPAddr != "" {
		inst.startHTTP(ctx, opts.HTTPAddr)
	}

	inst.notifier.NotifyStartup(version, inst.surfaces)
	return inst, nil
}

func (inst *instance) loadPalette(cfg *config.Config) *theme.Palette {
	return inst.themes.Load(cfg.Theme.Name).WithAccent(cfg.Theme.Accent)
}

// Palette returns the active palette; it follows config reloads.
func (inst *instance) Palette() *theme.Palette {
	return inst.palette.Load()
}

func (inst *instance) startDBus(ctx context.Context, cfg *config.Config) error {
	if !cfg.DBus.Notifications && !cfg.DBus.Control {
		return errors.New("both dbus.notifications and dbus.control are disabled")
	}

	conn, err := godbus.ConnectSessionBus()
	if err != nil {
		return fmt.Errorf("failed to connect to session bus: %w", err)
	}
	inst.conn = conn

	if cfg.DBus.Control {
		control := dbus.NewControlServer(inst.scope, logger)
		if err := control.Start(conn); err != nil {
			return err
		}
		inst.control = control
		inst.surfaces = append(inst.surfaces, "dbus control")
	}

	if cfg.DBus.Notifications {
		server := dbus.NewNotificationServer(logger)
		info := dbus.DefaultServerInfo()
		info.Version = version
		server.SetServerInfo(info)

		bridge := daemon.NewBridge(inst.scope, server, cfg, logger)
		if err := bridge.Start(ctx); err != nil {
			return err
		}
		inst.bridge = bridge

		if err := server.Start(conn); err != nil {
			return err
		}
		inst.notifications = server
		inst.surfaces = append(inst.surfaces, "notifications")
	}

	return nil
}

func (inst *instance) startReloader(cfg *config.Config) error {
	path := configPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	watcher, err := config.NewWatcher(path, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}

	reloader := daemon.NewReloader(watcher, inst.scope, inst.notifier, inst.bridge, logger)
	reloader.OnApply(func(old, cfg *config.Config) {
		if old == nil || old.Theme != cfg.Theme {
			inst.palette.Store(inst.loadPalette(cfg))
		}
	})
	if err := reloader.Start(); err != nil {
		_ = watcher.Stop()
		return err
	}
	inst.reloader = reloader
	return nil
}

func (inst *instance) startHTTP(ctx context.Context, addr string) {
	ctx, cancel := context.WithCancel(ctx)
	inst.httpCancel = cancel

	handler := httpapi.NewHandler(inst.scope, httpapi.Options{
		Logger:  logger,
		Palette: inst.Palette,
	})
	server := httpapi.NewServer(addr, handler, logger)

	inst.httpWG.Add(1)
	go func() {
		defer inst.httpWG.Done()
		if err := server.Run(ctx); err != nil {
			logger.Error("HTTP API failed", "addr", addr, "error", err)
			inst.httpErr <- err
		}
	}()
	inst.surfaces = append(inst.surfaces, "http "+addr)
}

// Stop shuts the surfaces down, then closes the scope.
func (inst *instance) Stop() {
	if inst.httpCancel != nil {
		inst.httpCancel()
		inst.httpWG.Wait()
	}
	if inst.reloader != nil {
		if err := inst.reloader.Stop(); err != nil {
			logger.Warn("error stopping config watcher", "error", err)
		}
	}
	if inst.bridge != nil {
		inst.bridge.Stop()
	}
	if inst.notifications != nil {
		_ = inst.notifications.Stop()
	}
	if inst.control != nil {
		_ = inst.control.Stop()
	}
	if inst.conn != nil {
		_ = inst.conn.Close()
	}
	if err := inst.scope.Close(); err != nil {
		logger.Warn("error closing overlay scope", "error", err)
	}
}
