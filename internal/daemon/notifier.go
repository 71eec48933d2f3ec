package daemon

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jmylchreest/widgetdash/internal/model"
)

// internalToastDuration is how long notices about widgetdash itself stay up.
const internalToastDuration = 5 * time.Second

// NotificationLevel indicates the severity of an internal notification.
type NotificationLevel int

const (
	// NotificationLevelInfo is for informational messages.
	NotificationLevelInfo NotificationLevel = iota
	// NotificationLevelSuccess confirms that something worked.
	NotificationLevelSuccess
	// NotificationLevelWarning is for recoverable problems.
	NotificationLevelWarning
	// NotificationLevelError is for failures.
	NotificationLevelError
)

// Kind returns the toast type used for the level.
func (l NotificationLevel) Kind() model.Kind {
	switch l {
	case NotificationLevelSuccess:
		return model.KindSuccess
	case NotificationLevelWarning:
		return model.KindWarning
	case NotificationLevelError:
		return model.KindError
	default:
		return model.KindInfo
	}
}

// Toaster raises toasts. *overlay.Scope satisfies it.
type Toaster interface {
	AddToast(spec model.ToastSpec) (string, error)
}

// InternalNotifier raises toasts about widgetdash itself.
// The same key won't notify again within minInterval.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	toaster Toaster

	lastNotifyTime map[string]time.Time
	minInterval    time.Duration

	enabled bool
}

// NewInternalNotifier creates a new InternalNotifier.
func NewInternalNotifier(toaster Toaster, logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		toaster:        toaster,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		enabled:        true,
	}
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between duplicate notifications.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify raises a toast unless disabled or rate-limited. It reports
// whether a toast was raised.
func (n *InternalNotifier) Notify(key, title, message string, level NotificationLevel) bool {
	n.mu.Lock()
	if !n.enabled || n.toaster == nil {
		n.mu.Unlock()
		return false
	}

	if lastTime, ok := n.lastNotifyTime[key]; ok && time.Since(lastTime) < n.minInterval {
		n.mu.Unlock()
		n.logger.Debug("internal notification rate-limited", "key", key, "title", title)
		return false
	}
	n.lastNotifyTime[key] = time.Now()
	toaster := n.toaster
	n.mu.Unlock()

	n.logger.Debug("sending internal notification", "key", key, "title", title, "level", level.Kind())

	_, err := toaster.AddToast(model.ToastSpec{
		Kind:     level.Kind(),
		Title:    title,
		Message:  message,
		Duration: model.After(internalToastDuration),
	})
	if err != nil {
		n.logger.Warn("internal notification failed", "key", key, "error", err)
		return false
	}
	return true
}

// NotifyConfigReloaded reports a successful config reload.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify("config-reload", "Configuration Reloaded",
		"widgetdash configuration has been successfully reloaded.", NotificationLevelSuccess)
}

// NotifyConfigError reports a config file that failed to load.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify("config-error", "Configuration Error",
		"Failed to reload configuration: "+err.Error(), NotificationLevelError)
}

// NotifyThemeReloaded reports a palette switch.
func (n *InternalNotifier) NotifyThemeReloaded(themeName string) {
	n.Notify("theme-reload", "Theme Reloaded",
		fmt.Sprintf("Theme '%s' is now active.", themeName), NotificationLevelInfo)
}

// NotifyPositionChanged reports the toast stack moving.
func (n *InternalNotifier) NotifyPositionChanged(p model.Position) {
	n.Notify("position-change", "Toasts Moved",
		"Toasts now appear "+string(p)+".", NotificationLevelInfo)
}

// NotifyStartup reports which surfaces came up.
func (n *InternalNotifier) NotifyStartup(version string, surfaces []string) {
	msg := "widgetdash " + version + " is running."
	if len(surfaces) > 0 {
		msg = fmt.Sprintf("widgetdash %s is running (%s).", version, strings.Join(surfaces, ", "))
	}
	n.Notify("startup", "widgetdash Started", msg, NotificationLevelInfo)
}
