package dbus

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"

	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/jmylchreest/widgetdash/internal/store"
)

const (
	// ControlInterface is the private widgetdash control interface.
	ControlInterface = "io.github.jmylchreest.WidgetDash"
	// ControlPath is the control object path.
	ControlPath = "/io/github/jmylchreest/WidgetDash"
	// ControlBusName is the bus name a running instance claims.
	ControlBusName = "io.github.jmylchreest.WidgetDash"
)

// Controller is the overlay surface the control object drives.
// *overlay.Scope satisfies it.
type Controller interface {
	AddToast(spec model.ToastSpec) (string, error)
	RemoveToast(id string) (bool, error)
	ClearToasts() (int, error)
	ShowBanner(spec model.BannerSpec) (string, error)
	CloseBanner() error
	SetToastPosition(p model.Position) error
	Snapshot() (store.Snapshot, error)
}

// ControlServer exports a Controller on the session bus.
type ControlServer struct {
	ctrl   Controller
	conn   *dbus.Conn
	logger *slog.Logger
}

// NewControlServer creates a control object backed by ctrl.
func NewControlServer(ctrl Controller, logger *slog.Logger) *ControlServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &ControlServer{ctrl: ctrl, logger: logger}
}

// Start exports the control object on conn and claims ControlBusName.
func (c *ControlServer) Start(conn *dbus.Conn) error {
	if err := conn.Export(c, ControlPath, ControlInterface); err != nil {
		return fmt.Errorf("failed to export control object: %w", err)
	}

	node := &introspect.Node{
		Name: ControlPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    ControlInterface,
				Methods: introspect.Methods(c),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), ControlPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(ControlBusName, dbus.NameFlagDoNotQueue)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken (is widgetdash already running?)", ControlBusName)
	}

	c.conn = conn
	c.logger.Info("D-Bus control interface started", "interface", ControlInterface)
	return nil
}

// Stop releases the bus name.
func (c *ControlServer) Stop() error {
	if c.conn == nil {
		return nil
	}
	if _, err := c.conn.ReleaseName(ControlBusName); err != nil {
		c.logger.Warn("failed to release bus name", "error", err)
	}
	_ = c.conn.Export(nil, ControlPath, ControlInterface)
	c.conn = nil
	return nil
}

// Snapshot returns the overlay state as JSON.
// D-Bus method: Snapshot() -> s
func (c *ControlServer) Snapshot() (string, *dbus.Error) {
	snap, err := c.ctrl.Snapshot()
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return string(data), nil
}

// AddToast raises a toast. durationMs follows Notify: -1 uses the
// configured default and 0 never expires.
// D-Bus method: AddToast(sssi) -> s
func (c *ControlServer) AddToast(kind, title, message string, durationMs int32) (string, *dbus.Error) {
	spec := model.ToastSpec{
		Kind:     model.Kind(kind),
		Title:    title,
		Message:  message,
		Duration: durationFromMillis(durationMs),
	}
	id, err := c.ctrl.AddToast(spec)
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	c.logger.Debug("control AddToast", "id", id, "type", kind)
	return id, nil
}

// RemoveToast dismisses a toast and reports whether it was live.
// D-Bus method: RemoveToast(s) -> b
func (c *ControlServer) RemoveToast(id string) (bool, *dbus.Error) {
	ok, err := c.ctrl.RemoveToast(id)
	if err != nil {
		return false, dbus.MakeFailedError(err)
	}
	return ok, nil
}

// ClearToasts removes every toast.
// D-Bus method: ClearToasts() -> u
func (c *ControlServer) ClearToasts() (uint32, *dbus.Error) {
	n, err := c.ctrl.ClearToasts()
	if err != nil {
		return 0, dbus.MakeFailedError(err)
	}
	return uint32(n), nil
}

// SetToastPosition moves the toast stack.
// D-Bus method: SetToastPosition(s)
func (c *ControlServer) SetToastPosition(position string) *dbus.Error {
	p, err := model.ParsePosition(position)
	if err == nil {
		err = c.ctrl.SetToastPosition(p)
	}
	if err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// ShowBanner replaces the banner.
// D-Bus method: ShowBanner(sssb) -> s
func (c *ControlServer) ShowBanner(kind, title, message string, dismissible bool) (string, *dbus.Error) {
	id, err := c.ctrl.ShowBanner(model.BannerSpec{
		Kind:        model.Kind(kind),
		Title:       title,
		Message:     message,
		Dismissible: model.Bool(dismissible),
	})
	if err != nil {
		return "", dbus.MakeFailedError(err)
	}
	return id, nil
}

// CloseBanner clears the banner.
// D-Bus method: CloseBanner()
func (c *ControlServer) CloseBanner() *dbus.Error {
	if err := c.ctrl.CloseBanner(); err != nil {
		return dbus.MakeFailedError(err)
	}
	return nil
}

// durationFromMillis maps a Notify-style timeout onto ToastSpec.Duration.
func durationFromMillis(ms int32) *time.Duration {
	switch {
	case ms < 0:
		return nil
	case ms == 0:
		return model.Persistent()
	default:
		return model.After(time.Duration(ms) * time.Millisecond)
	}
}

// ErrNotRunning is returned by Client when no instance owns ControlBusName.
var ErrNotRunning = errors.New("widgetdash is not running on the session bus")
