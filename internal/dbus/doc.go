// Package dbus carries widgetdash over the session bus.
//
// NotificationServer implements org.freedesktop.Notifications so desktop
// applications (notify-send, browsers, mail clients) raise toasts.
// ControlServer exports io.github.jmylchreest.WidgetDash, the private
// interface the CLI uses to drive a running instance through Client.
package dbus
