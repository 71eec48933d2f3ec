package daemon

import (
	"log/slog"
	"sync"

	"github.com/jmylchreest/widgetdash/internal/config"
	"github.com/jmylchreest/widgetdash/internal/overlay"
)

// Reloader applies config file changes to a running instance: the toast
// anchor, the default duration, the bridge timeouts and the notifier.
// Consumers with their own settings (theme, breakpoints) register OnApply.
type Reloader struct {
	mu     sync.RWMutex
	logger *slog.Logger

	watcher  *config.Watcher
	scope    *overlay.Scope
	notifier *InternalNotifier
	bridge   *Bridge

	current *config.Config
	onApply []func(old, cfg *config.Config)
}

// NewReloader creates a reloader. notifier and bridge may be nil.
func NewReloader(watcher *config.Watcher, scope *overlay.Scope, notifier *InternalNotifier, bridge *Bridge, logger *slog.Logger) *Reloader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reloader{
		logger:   logger,
		watcher:  watcher,
		scope:    scope,
		notifier: notifier,
		bridge:   bridge,
		current:  watcher.Current(),
	}
}

// OnApply registers a callback run after each applied reload.
func (r *Reloader) OnApply(fn func(old, cfg *config.Config)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onApply = append(r.onApply, fn)
}

// Start hooks the watcher and begins watching the file.
func (r *Reloader) Start() error {
	r.watcher.OnReload(r.Apply)
	r.watcher.OnError(r.reportError)
	return r.watcher.Start()
}

// Stop stops the watcher.
func (r *Reloader) Stop() error {
	return r.watcher.Stop()
}

// Current returns the last applied config.
func (r *Reloader) Current() *config.Config {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.current
}

// Apply pushes cfg into the running components.
func (r *Reloader) Apply(cfg *config.Config) {
	r.mu.Lock()
	old := r.current
	r.current = cfg
	callbacks := append([]func(old, cfg *config.Config){}, r.onApply...)
	r.mu.Unlock()

	if err := r.scope.SetDefaultDuration(cfg.Toasts.DefaultDuration.Duration()); err != nil {
		r.logger.Warn("failed to apply default duration", "error", err)
	}

	position := cfg.ToastPosition()
	if old == nil || old.ToastPosition() != position {
		if err := r.scope.SetToastPosition(position); err != nil {
			r.logger.Warn("failed to apply toast position", "error", err)
		} else if r.notifier != nil && old != nil {
			r.notifier.NotifyPositionChanged(position)
		}
	}

	if r.bridge != nil {
		r.bridge.SetConfig(cfg)
	}

	if r.notifier != nil {
		r.notifier.SetEnabled(cfg.Notifier.Enabled)
		r.notifier.SetMinInterval(cfg.Notifier.MinInterval.Duration())
		if old != nil && old.Theme != cfg.Theme {
			r.notifier.NotifyThemeReloaded(cfg.Theme.Name)
		}
		r.notifier.NotifyConfigReloaded()
	}

	for _, fn := range callbacks {
		fn(old, cfg)
	}
}

func (r *Reloader) reportError(err error) {
	r.logger.Warn("config reload rejected", "error", err)
	if r.notifier != nil {
		r.notifier.NotifyConfigError(err)
	}
}
