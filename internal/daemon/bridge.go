package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jmylchreest/widgetdash/internal/config"
	"github.com/jmylchreest/widgetdash/internal/dbus"
	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/jmylchreest/widgetdash/internal/overlay"
	"github.com/jmylchreest/widgetdash/internal/store"
)

// NotificationServer is the part of *dbus.NotificationServer the bridge drives.
type NotificationServer interface {
	SetNotifyHandler(handler dbus.NotificationHandler)
	SetCloseHandler(handler dbus.CloseHandler)
	CloseWithReason(id uint32, reason dbus.CloseReason) error
	InvokeAction(id uint32, actionKey string) error
}

// Bridge turns freedesktop notifications into toasts and reports toast
// removals back to the bus as NotificationClosed signals.
type Bridge struct {
	scope  *overlay.Scope
	server NotificationServer
	states *DisplayStateManager
	logger *slog.Logger

	// mu orders registration against reconciliation so a toast is never
	// seen by reconcile before it is mapped.
	mu sync.Mutex

	cfgMu sync.RWMutex
	cfg   *config.Config

	events <-chan store.ChangeEvent
	done   chan struct{}
}

// NewBridge creates a bridge. cfg supplies the per-urgency timeouts.
func NewBridge(scope *overlay.Scope, server NotificationServer, cfg *config.Config, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	return &Bridge{
		scope:  scope,
		server: server,
		states: NewDisplayStateManager(),
		logger: logger,
		cfg:    cfg,
	}
}

// SetConfig swaps the config used for later notifications.
func (b *Bridge) SetConfig(cfg *config.Config) {
	b.cfgMu.Lock()
	defer b.cfgMu.Unlock()
	b.cfg = cfg
}

func (b *Bridge) currentConfig() *config.Config {
	b.cfgMu.RLock()
	defer b.cfgMu.RUnlock()
	return b.cfg
}

// States exposes the ID mappings.
func (b *Bridge) States() *DisplayStateManager {
	return b.states
}

// Start installs the server handlers and follows store changes until ctx
// ends, Stop is called or the scope closes.
func (b *Bridge) Start(ctx context.Context) error {
	events, err := b.scope.Subscribe()
	if err != nil {
		return fmt.Errorf("failed to subscribe to overlay changes: %w", err)
	}
	b.events = events
	b.done = make(chan struct{})

	b.server.SetNotifyHandler(b.handleNotify)
	b.server.SetCloseHandler(b.handleClose)

	go b.run(ctx)
	return nil
}

// Stop ends the subscription and waits for the event loop to exit.
func (b *Bridge) Stop() {
	if b.events == nil {
		return
	}
	b.scope.Unsubscribe(b.events)
	<-b.done
}

func (b *Bridge) run(ctx context.Context) {
	defer close(b.done)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-b.events:
			if !ok {
				return
			}
			b.reconcile(ev)
		}
	}
}

// reconcile closes every tracked notification whose toast is gone. Events
// can be dropped for slow readers, so the snapshot is the source of truth
// and the event only supplies the reason when it names the toast.
func (b *Bridge) reconcile(ev store.ChangeEvent) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// Counted under mu so a Notify still registering its toast is seen.
	if b.states.Count() == 0 {
		return
	}

	snap, err := b.scope.Snapshot()
	if err != nil {
		return
	}
	// Removal events are queued under the same lock the snapshot takes, so
	// a toast missing from snap has its event queued unless it was dropped.
	pending := len(b.events) > 0

	for _, toastID := range b.states.ToastIDs() {
		if _, live := snap.Toast(toastID); live {
			continue
		}

		reason := store.ReasonNone
		switch {
		case ev.Type == store.ChangeTypeToastRemoved && ev.ID == toastID:
			reason = ev.Reason
		case ev.Type == store.ChangeTypeToastsCleared:
			reason = store.ReasonCleared
		case pending:
			// A later event names it
			continue
		}

		state, ok := b.states.Close(toastID, displayStatus(reason))
		if !ok {
			continue
		}
		if err := b.server.CloseWithReason(state.DBusID, closeReason(reason)); err != nil {
			b.logger.Warn("failed to emit NotificationClosed", "id", state.DBusID, "error", err)
		}
		b.logger.Debug("bridged notification closed", "id", state.DBusID, "toast", toastID, "reason", reason)
	}
}

// handleNotify is the NotificationHandler for incoming Notify calls.
func (b *Bridge) handleNotify(n *dbus.DBusNotification, id uint32) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	// replaces_id swaps the toast in place without a close signal
	if n.ReplacesID != 0 {
		if old, ok := b.states.ByDBusID(n.ReplacesID); ok {
			b.states.Close(old.ToastID, DisplayStatusClosed)
			if _, err := b.scope.CloseToast(old.ToastID, store.ReasonReplaced); err != nil {
				return err
			}
		}
	}

	spec := b.toastSpec(n, id)
	toastID, err := b.scope.AddToast(spec)
	if err != nil {
		return err
	}
	b.states.Register(toastID, id)

	b.logger.Debug("notification bridged", "id", id, "toast", toastID, "app", n.AppName, "type", spec.Kind)
	return nil
}

// handleClose is the CloseHandler for CloseNotification.
func (b *Bridge) handleClose(id uint32) {
	state, ok := b.states.ByDBusID(id)
	if !ok {
		if err := b.server.CloseWithReason(id, dbus.CloseReasonClosed); err != nil {
			b.logger.Warn("failed to emit NotificationClosed", "id", id, "error", err)
		}
		return
	}

	// The resulting ToastRemoved event emits the signal.
	if _, err := b.scope.CloseToast(state.ToastID, store.ReasonClosed); err != nil {
		b.logger.Warn("failed to close toast", "id", id, "toast", state.ToastID, "error", err)
	}
}

// toastSpec maps a Notify call onto a toast.
func (b *Bridge) toastSpec(n *dbus.DBusNotification, id uint32) model.ToastSpec {
	spec := model.ToastSpec{
		Kind:     notificationKind(n),
		Title:    n.Summary,
		Message:  n.Body,
		Duration: b.duration(n),
	}
	if spec.Message == "" {
		spec.Title, spec.Message = "", n.Summary
	}
	if spec.Title == "" && spec.Message == "" {
		spec.Message = n.AppName
	}

	if actions := n.ParsedActions(); len(actions) > 0 {
		action := actions[0]
		resident := n.Resident()
		spec.Action = &model.Action{
			Label: action.Label,
			Invoke: func() {
				if err := b.server.InvokeAction(id, action.Key); err != nil {
					b.logger.Warn("failed to emit ActionInvoked", "id", id, "error", err)
				}
				if resident {
					return
				}
				if state, ok := b.states.ByDBusID(id); ok {
					_, _ = b.scope.CloseToast(state.ToastID, store.ReasonDismissed)
				}
			},
		}
	}
	return spec
}

// duration applies the Notify expire_timeout rules: -1 asks for the
// configured timeout for the urgency, 0 never expires.
func (b *Bridge) duration(n *dbus.DBusNotification) *time.Duration {
	switch {
	case n.ExpireTimeout <= dbus.ExpireDefault:
		return model.After(b.currentConfig().TimeoutForUrgency(n.Urgency()))
	case n.ExpireTimeout == dbus.ExpireNever:
		return model.Persistent()
	default:
		return model.After(time.Duration(n.ExpireTimeout) * time.Millisecond)
	}
}

// notificationKind derives the toast type from urgency and category.
func notificationKind(n *dbus.DBusNotification) model.Kind {
	if n.Urgency() == dbus.UrgencyCritical {
		return model.KindError
	}

	category := n.Category()
	switch {
	case strings.HasSuffix(category, ".error"):
		return model.KindError
	case strings.HasSuffix(category, ".complete"):
		return model.KindSuccess
	case strings.HasSuffix(category, ".offline"), strings.HasSuffix(category, ".warning"):
		return model.KindWarning
	default:
		return model.KindInfo
	}
}

func closeReason(r store.Reason) dbus.CloseReason {
	switch r {
	case store.ReasonExpired:
		return dbus.CloseReasonExpired
	case store.ReasonDismissed, store.ReasonCleared:
		return dbus.CloseReasonDismissed
	case store.ReasonClosed:
		return dbus.CloseReasonClosed
	default:
		return dbus.CloseReasonUndefined
	}
}

func displayStatus(r store.Reason) DisplayStatus {
	switch r {
	case store.ReasonExpired:
		return DisplayStatusExpired
	case store.ReasonDismissed, store.ReasonCleared:
		return DisplayStatusDismissed
	default:
		return DisplayStatusClosed
	}
}
