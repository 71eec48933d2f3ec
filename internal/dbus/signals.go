package dbus

import (
	"errors"
	"fmt"
)

// ErrNotConnected is returned when a signal is emitted before Start.
var ErrNotConnected = errors.New("not connected to D-Bus")

func (s *NotificationServer) signalSink() (emitter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.signals == nil {
		return nil, ErrNotConnected
	}
	return s.signals, nil
}

// EmitNotificationClosed emits the NotificationClosed signal.
func (s *NotificationServer) EmitNotificationClosed(id uint32, reason CloseReason) error {
	e, err := s.signalSink()
	if err != nil {
		return err
	}

	if err := e.Emit(DBusPath, DBusInterface+".NotificationClosed", id, uint32(reason)); err != nil {
		return fmt.Errorf("failed to emit NotificationClosed signal: %w", err)
	}

	s.logger.Debug("emitted NotificationClosed signal", "id", id, "reason", reason.String())
	return nil
}

// EmitActionInvoked emits the ActionInvoked signal.
func (s *NotificationServer) EmitActionInvoked(id uint32, actionKey string) error {
	e, err := s.signalSink()
	if err != nil {
		return err
	}

	if err := e.Emit(DBusPath, DBusInterface+".ActionInvoked", id, actionKey); err != nil {
		return fmt.Errorf("failed to emit ActionInvoked signal: %w", err)
	}

	s.logger.Debug("emitted ActionInvoked signal", "id", id, "action_key", actionKey)
	return nil
}

// CloseWithReason marks a notification closed and emits the signal.
// IDs that are no longer active are ignored, so each ID is closed once.
func (s *NotificationServer) CloseWithReason(id uint32, reason CloseReason) error {
	if !s.MarkClosed(id) {
		return nil
	}
	return s.EmitNotificationClosed(id, reason)
}

// InvokeAction emits ActionInvoked for an active notification.
func (s *NotificationServer) InvokeAction(id uint32, actionKey string) error {
	if !s.IsActive(id) {
		return nil
	}
	return s.EmitActionInvoked(id, actionKey)
}
