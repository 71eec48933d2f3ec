// Package daemon wires the long-running surfaces of widgetdash to the
// overlay scope: the freedesktop notification bridge, the internal
// notifier and config hot reload.
package daemon
