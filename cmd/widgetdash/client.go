package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/jmylchreest/widgetdash/internal/dbus"
)

// dialInstance connects to the running instance's control interface.
func dialInstance() (*dbus.Client, error) {
	client, err := dbus.Dial()
	if errors.Is(err, dbus.ErrNotRunning) {
		return nil, fmt.Errorf("%w (start it with 'widgetdash serve' or 'widgetdash tui --dbus')", err)
	}
	return client, err
}

// durationMillis maps a toast duration onto the control interface's
// timeout argument: -1 for the default, 0 for persistent.
func durationMillis(d *time.Duration) int32 {
	switch {
	case d == nil:
		return -1
	case *d <= 0:
		return 0
	case *d >= time.Duration(1<<31-1)*time.Millisecond:
		return 1<<31 - 1
	default:
		return int32(d.Milliseconds())
	}
}
