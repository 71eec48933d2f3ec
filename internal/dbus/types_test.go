package dbus

import (
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
)

func TestCloseReasonString(t *testing.T) {
	assert.Equal(t, "expired", CloseReasonExpired.String())
	assert.Equal(t, "dismissed", CloseReasonDismissed.String())
	assert.Equal(t, "closed", CloseReasonClosed.String())
	assert.Equal(t, "undefined", CloseReasonUndefined.String())
	assert.Equal(t, "unknown", CloseReason(0).String())
}

func TestParsedActions(t *testing.T) {
	n := &DBusNotification{}
	assert.Empty(t, n.ParsedActions())

	// Browsers send the default action first, then named buttons
	n.Actions = []string{"default", "Open tab", "mute", "Mute site", "dangling"}
	assert.Equal(t, []Action{
		{Key: "default", Label: "Open tab"},
		{Key: "mute", Label: "Mute site"},
	}, n.ParsedActions())
}

func TestUrgency(t *testing.T) {
	tests := []struct {
		name     string
		hints    map[string]dbus.Variant
		expected byte
	}{
		{"no hint", nil, UrgencyNormal},
		{"low", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(0))}, UrgencyLow},
		{"normal", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(1))}, UrgencyNormal},
		{"critical", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(2))}, UrgencyCritical},
		{"out of range", map[string]dbus.Variant{"urgency": dbus.MakeVariant(byte(9))}, UrgencyNormal},
		{"wrong type", map[string]dbus.Variant{"urgency": dbus.MakeVariant("high")}, UrgencyNormal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Hints: tt.hints}
			assert.Equal(t, tt.expected, n.Urgency())
		})
	}
}

func TestCategory(t *testing.T) {
	n := &DBusNotification{Hints: map[string]dbus.Variant{"category": dbus.MakeVariant("transfer.complete")}}
	assert.Equal(t, "transfer.complete", n.Category())

	n.Hints = map[string]dbus.Variant{"category": dbus.MakeVariant(123)}
	assert.Equal(t, "", n.Category())

	n.Hints = nil
	assert.Equal(t, "", n.Category())
}

func TestResident(t *testing.T) {
	tests := []struct {
		name  string
		hints map[string]dbus.Variant
		want  bool
	}{
		{"unset", nil, false},
		{"true", map[string]dbus.Variant{"resident": dbus.MakeVariant(true)}, true},
		{"false", map[string]dbus.Variant{"resident": dbus.MakeVariant(false)}, false},
		{"wrong type", map[string]dbus.Variant{"resident": dbus.MakeVariant("yes")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n := &DBusNotification{Hints: tt.hints}
			assert.Equal(t, tt.want, n.Resident())
		})
	}
}

func TestDefaultServerInfo(t *testing.T) {
	info := DefaultServerInfo()
	assert.Equal(t, "widgetdash", info.Name)
	assert.Equal(t, "1.2", info.SpecVersion)
}
