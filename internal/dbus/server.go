package dbus

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/godbus/dbus/v5"
	"github.com/godbus/dbus/v5/introspect"
)

const (
	// DBusInterface is the notification interface name.
	DBusInterface = "org.freedesktop.Notifications"
	// DBusPath is the notification object path.
	DBusPath = "/org/freedesktop/Notifications"
	// DBusBusName is the bus name to claim.
	DBusBusName = "org.freedesktop.Notifications"
)

// NotificationHandler receives each accepted Notify call with its ID.
// A returned error is sent back to the D-Bus caller.
type NotificationHandler func(notification *DBusNotification, id uint32) error

// CloseHandler is called when CloseNotification is requested for an active ID.
type CloseHandler func(id uint32)

// emitter is the part of *dbus.Conn used for signals.
type emitter interface {
	Emit(path dbus.ObjectPath, name string, values ...interface{}) error
}

// NotificationServer is the org.freedesktop.Notifications object. It
// allocates IDs and tracks which are live; the handlers decide what a
// notification becomes.
type NotificationServer struct {
	conn    *dbus.Conn
	signals emitter
	logger  *slog.Logger

	nextID atomic.Uint32

	notifyHandler NotificationHandler
	closeHandler  CloseHandler

	mu         sync.RWMutex
	activeIDs  map[uint32]bool
	serverInfo ServerInfo
	running    bool
}

// NewNotificationServer creates a server; Start puts it on the bus.
func NewNotificationServer(logger *slog.Logger) *NotificationServer {
	if logger == nil {
		logger = slog.Default()
	}
	return &NotificationServer{
		logger:     logger,
		activeIDs:  make(map[uint32]bool),
		serverInfo: DefaultServerInfo(),
	}
}

// SetNotifyHandler sets the handler called when a notification is received.
func (s *NotificationServer) SetNotifyHandler(handler NotificationHandler) {
	s.notifyHandler = handler
}

// SetCloseHandler sets the handler called when CloseNotification is requested.
func (s *NotificationServer) SetCloseHandler(handler CloseHandler) {
	s.closeHandler = handler
}

// SetServerInfo sets the server information returned by GetServerInformation.
func (s *NotificationServer) SetServerInfo(info ServerInfo) {
	s.serverInfo = info
}

// Start exports the notification service on conn and claims the bus name.
func (s *NotificationServer) Start(conn *dbus.Conn) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return fmt.Errorf("server already running")
	}
	s.mu.Unlock()

	if err := conn.Export(s, DBusPath, DBusInterface); err != nil {
		return fmt.Errorf("failed to export object: %w", err)
	}

	node := &introspect.Node{
		Name: DBusPath,
		Interfaces: []introspect.Interface{
			introspect.IntrospectData,
			{
				Name:    DBusInterface,
				Methods: introspect.Methods(s),
				Signals: notificationSignals(),
			},
		},
	}
	if err := conn.Export(introspect.NewIntrospectable(node), DBusPath,
		"org.freedesktop.DBus.Introspectable"); err != nil {
		return fmt.Errorf("failed to export introspectable: %w", err)
	}

	reply, err := conn.RequestName(DBusBusName, dbus.NameFlagDoNotQueue|dbus.NameFlagReplaceExisting)
	if err != nil {
		return fmt.Errorf("failed to request bus name: %w", err)
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		return fmt.Errorf("bus name %s already taken (is another notification daemon running?)", DBusBusName)
	}

	s.mu.Lock()
	s.conn = conn
	s.signals = conn
	s.running = true
	s.mu.Unlock()

	s.logger.Info("D-Bus notification server started", "interface", DBusInterface, "path", DBusPath)
	return nil
}

// Stop releases the bus name. The shared connection stays open.
func (s *NotificationServer) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.running {
		return nil
	}
	s.running = false

	if s.conn != nil {
		if _, err := s.conn.ReleaseName(DBusBusName); err != nil {
			s.logger.Warn("failed to release bus name", "error", err)
		}
		_ = s.conn.Export(nil, DBusPath, DBusInterface)
	}

	s.logger.Info("D-Bus notification server stopped")
	return nil
}

// GetCapabilities implements GetCapabilities() -> as.
func (s *NotificationServer) GetCapabilities() ([]string, *dbus.Error) {
	return ServerCapabilities, nil
}

// GetServerInformation implements GetServerInformation() -> (ssss).
func (s *NotificationServer) GetServerInformation() (string, string, string, string, *dbus.Error) {
	return s.serverInfo.Name, s.serverInfo.Vendor, s.serverInfo.Version, s.serverInfo.SpecVersion, nil
}

// Notify implements Notify(susssasa{sv}i) -> u. The handler turns the call
// into a toast; if it fails the ID is released and the caller gets an error.
func (s *NotificationServer) Notify(
	appName string,
	replacesID uint32,
	appIcon string,
	summary string,
	body string,
	actions []string,
	hints map[string]dbus.Variant,
	expireTimeout int32,
) (uint32, *dbus.Error) {
	// A replacement keeps its ID only while the original is still live
	id := replacesID
	if id == 0 || !s.IsActive(id) {
		id = s.nextID.Add(1)
	}

	s.logger.Debug("notification received", "app", appName, "id", id, "replaces", replacesID)

	notification := &DBusNotification{
		AppName:       appName,
		ReplacesID:    replacesID,
		AppIcon:       appIcon,
		Summary:       summary,
		Body:          body,
		Actions:       actions,
		Hints:         hints,
		ExpireTimeout: expireTimeout,
	}

	s.mu.Lock()
	s.activeIDs[id] = true
	s.mu.Unlock()

	if s.notifyHandler != nil {
		if err := s.notifyHandler(notification, id); err != nil {
			s.MarkClosed(id)
			s.logger.Warn("notification rejected", "id", id, "error", err)
			return 0, dbus.MakeFailedError(err)
		}
	}

	return id, nil
}

// CloseNotification implements CloseNotification(u). Unknown IDs are ignored.
func (s *NotificationServer) CloseNotification(id uint32) *dbus.Error {
	s.logger.Debug("close requested", "id", id)

	if !s.IsActive(id) {
		return nil
	}

	// The handler is responsible for the NotificationClosed signal once
	// the toast is really gone.
	if s.closeHandler != nil {
		s.closeHandler(id)
		return nil
	}

	if err := s.CloseWithReason(id, CloseReasonClosed); err != nil {
		s.logger.Warn("failed to emit NotificationClosed signal", "id", id, "error", err)
	}
	return nil
}

// MarkClosed forgets an active ID and reports whether it was active.
func (s *NotificationServer) MarkClosed(id uint32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.activeIDs[id] {
		return false
	}
	delete(s.activeIDs, id)
	return true
}

// IsActive reports whether id belongs to a live toast.
func (s *NotificationServer) IsActive(id uint32) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.activeIDs[id]
}

// ActiveCount returns the number of notifications still open.
func (s *NotificationServer) ActiveCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.activeIDs)
}

// notificationSignals describes the two signals for introspection.
func notificationSignals() []introspect.Signal {
	arg := func(name, typ string) introspect.Arg { return introspect.Arg{Name: name, Type: typ} }
	return []introspect.Signal{
		{Name: "NotificationClosed", Args: []introspect.Arg{arg("id", "u"), arg("reason", "u")}},
		{Name: "ActionInvoked", Args: []introspect.Arg{arg("id", "u"), arg("action_key", "s")}},
	}
}
