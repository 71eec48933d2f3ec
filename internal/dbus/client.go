package dbus

import (
	"encoding/json"
	"fmt"

	"github.com/godbus/dbus/v5"

	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/jmylchreest/widgetdash/internal/store"
)

// Client calls the control interface of a running instance.
type Client struct {
	conn *dbus.Conn
	obj  dbus.BusObject
}

// Dial connects to the session bus and checks that an instance is running.
func Dial() (*Client, error) {
	conn, err := dbus.SessionBus()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to session bus: %w", err)
	}
	return NewClient(conn)
}

// NewClient creates a client on an existing connection.
func NewClient(conn *dbus.Conn) (*Client, error) {
	var hasOwner bool
	if err := conn.BusObject().Call("org.freedesktop.DBus.NameHasOwner", 0, ControlBusName).Store(&hasOwner); err != nil {
		return nil, fmt.Errorf("failed to query bus: %w", err)
	}
	if !hasOwner {
		return nil, ErrNotRunning
	}
	return &Client{
		conn: conn,
		obj:  conn.Object(ControlBusName, ControlPath),
	}, nil
}

func (c *Client) call(method string, args ...interface{}) *dbus.Call {
	return c.obj.Call(ControlInterface+"."+method, 0, args...)
}

// Snapshot fetches the overlay state.
func (c *Client) Snapshot() (store.Snapshot, error) {
	var data string
	if err := c.call("Snapshot").Store(&data); err != nil {
		return store.Snapshot{}, fmt.Errorf("snapshot: %w", err)
	}
	var snap store.Snapshot
	if err := json.Unmarshal([]byte(data), &snap); err != nil {
		return store.Snapshot{}, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return snap, nil
}

// AddToast raises a toast; durationMs -1 means the default, 0 persistent.
func (c *Client) AddToast(kind model.Kind, title, message string, durationMs int32) (string, error) {
	var id string
	if err := c.call("AddToast", string(kind), title, message, durationMs).Store(&id); err != nil {
		return "", fmt.Errorf("add toast: %w", err)
	}
	return id, nil
}

// RemoveToast dismisses a toast.
func (c *Client) RemoveToast(id string) (bool, error) {
	var ok bool
	if err := c.call("RemoveToast", id).Store(&ok); err != nil {
		return false, fmt.Errorf("remove toast: %w", err)
	}
	return ok, nil
}

// ClearToasts removes every toast.
func (c *Client) ClearToasts() (int, error) {
	var n uint32
	if err := c.call("ClearToasts").Store(&n); err != nil {
		return 0, fmt.Errorf("clear toasts: %w", err)
	}
	return int(n), nil
}

// SetToastPosition moves the toast stack.
func (c *Client) SetToastPosition(p model.Position) error {
	if err := c.call("SetToastPosition", string(p)).Err; err != nil {
		return fmt.Errorf("set position: %w", err)
	}
	return nil
}

// ShowBanner replaces the banner.
func (c *Client) ShowBanner(kind model.Kind, title, message string, dismissible bool) (string, error) {
	var id string
	if err := c.call("ShowBanner", string(kind), title, message, dismissible).Store(&id); err != nil {
		return "", fmt.Errorf("show banner: %w", err)
	}
	return id, nil
}

// CloseBanner clears the banner.
func (c *Client) CloseBanner() error {
	if err := c.call("CloseBanner").Err; err != nil {
		return fmt.Errorf("close banner: %w", err)
	}
	return nil
}
