package dbus

import (
	"github.com/godbus/dbus/v5"
)

// CloseReason is the reason code carried by NotificationClosed.
type CloseReason uint32

// Reason codes from the freedesktop notification specification.
const (
	CloseReasonExpired   CloseReason = 1
	CloseReasonDismissed CloseReason = 2 // By the user
	CloseReasonClosed    CloseReason = 3 // By a CloseNotification call
	CloseReasonUndefined CloseReason = 4
)

var closeReasonNames = map[CloseReason]string{
	CloseReasonExpired:   "expired",
	CloseReasonDismissed: "dismissed",
	CloseReasonClosed:    "closed",
	CloseReasonUndefined: "undefined",
}

func (r CloseReason) String() string {
	if name, ok := closeReasonNames[r]; ok {
		return name
	}
	return "unknown"
}

// Freedesktop urgency levels.
const (
	UrgencyLow      byte = 0
	UrgencyNormal   byte = 1
	UrgencyCritical byte = 2
)

// Expire timeouts with a special meaning in Notify.
const (
	ExpireDefault int32 = -1
	ExpireNever   int32 = 0
)

// DBusNotification holds the arguments of one Notify call.
type DBusNotification struct {
	AppName       string
	ReplacesID    uint32
	AppIcon       string
	Summary       string
	Body          string
	Actions       []string // Alternating key, label pairs
	Hints         map[string]dbus.Variant
	ExpireTimeout int32 // -1 = server default, 0 = never expire
}

// Action represents a notification action with key and label.
type Action struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ParsedActions pairs up the flat key, label action list. A trailing
// unpaired key is dropped.
func (n *DBusNotification) ParsedActions() []Action {
	actions := make([]Action, 0, len(n.Actions)/2)
	for i := 0; i+1 < len(n.Actions); i += 2 {
		actions = append(actions, Action{
			Key:   n.Actions[i],
			Label: n.Actions[i+1],
		})
	}
	return actions
}

// hint returns the typed value of a hint, or the zero value when the hint
// is missing or carries another type.
func hint[T any](n *DBusNotification, key string) (T, bool) {
	var zero T
	v, ok := n.Hints[key]
	if !ok {
		return zero, false
	}
	t, ok := v.Value().(T)
	return t, ok
}

// Urgency extracts the urgency hint. Returns UrgencyNormal if not specified.
func (n *DBusNotification) Urgency() byte {
	if u, ok := hint[byte](n, "urgency"); ok && u <= UrgencyCritical {
		return u
	}
	return UrgencyNormal
}

// Category extracts the category hint, e.g. "transfer.complete".
func (n *DBusNotification) Category() string {
	s, _ := hint[string](n, "category")
	return s
}

// Resident reports whether the toast should stay after its action runs.
func (n *DBusNotification) Resident() bool {
	b, _ := hint[bool](n, "resident")
	return b
}

// ServerCapabilities lists the capabilities advertised by widgetdash.
var ServerCapabilities = []string{
	"actions",
	"body",
	"persistence",
}

// ServerInfo contains information about the notification server.
type ServerInfo struct {
	Name        string
	Vendor      string
	Version     string
	SpecVersion string
}

// DefaultServerInfo returns the default server information.
func DefaultServerInfo() ServerInfo {
	return ServerInfo{
		Name:        "widgetdash",
		Vendor:      "jmylchreest",
		Version:     "dev",
		SpecVersion: "1.2",
	}
}
