package daemon

import (
	"sync"
	"time"
)

// DisplayStatus represents the status of a bridged notification.
type DisplayStatus int

const (
	// DisplayStatusActive means the toast is on screen.
	DisplayStatusActive DisplayStatus = iota
	// DisplayStatusExpired means the toast timed out.
	DisplayStatusExpired
	// DisplayStatusDismissed means the user dismissed the toast.
	DisplayStatusDismissed
	// DisplayStatusClosed means the toast was closed programmatically.
	DisplayStatusClosed
)

// String returns the string representation of DisplayStatus.
func (s DisplayStatus) String() string {
	switch s {
	case DisplayStatusActive:
		return "active"
	case DisplayStatusExpired:
		return "expired"
	case DisplayStatusDismissed:
		return "dismissed"
	case DisplayStatusClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// DisplayState maps one toast to the D-Bus notification that raised it.
type DisplayState struct {
	ToastID   string
	DBusID    uint32
	Status    DisplayStatus
	CreatedAt time.Time
	ClosedAt  time.Time
}

// DisplayStateManager tracks toast ID to D-Bus ID mappings for live
// bridged notifications.
type DisplayStateManager struct {
	mu sync.RWMutex

	byToastID map[string]*DisplayState
	byDBusID  map[uint32]string
}

// NewDisplayStateManager creates a new DisplayStateManager.
func NewDisplayStateManager() *DisplayStateManager {
	return &DisplayStateManager{
		byToastID: make(map[string]*DisplayState),
		byDBusID:  make(map[uint32]string),
	}
}

// Register records a new mapping. A D-Bus ID that was mapped to another
// toast (replaces_id) is moved to the new one.
func (m *DisplayStateManager) Register(toastID string, dbusID uint32) *DisplayState {
	m.mu.Lock()
	defer m.mu.Unlock()

	if old, exists := m.byDBusID[dbusID]; exists {
		delete(m.byToastID, old)
	}

	state := &DisplayState{
		ToastID:   toastID,
		DBusID:    dbusID,
		Status:    DisplayStatusActive,
		CreatedAt: time.Now(),
	}
	m.byToastID[toastID] = state
	m.byDBusID[dbusID] = toastID
	return state
}

// ByToastID returns a copy of the state for a toast.
func (m *DisplayStateManager) ByToastID(toastID string) (DisplayState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	state, ok := m.byToastID[toastID]
	if !ok {
		return DisplayState{}, false
	}
	return *state, true
}

// ByDBusID returns a copy of the state for a D-Bus ID.
func (m *DisplayStateManager) ByDBusID(dbusID uint32) (DisplayState, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	toastID, ok := m.byDBusID[dbusID]
	if !ok {
		return DisplayState{}, false
	}
	return *m.byToastID[toastID], true
}

// Close stops tracking a toast and returns its final state. The second
// result is false if the toast was not tracked, so each mapping closes once.
func (m *DisplayStateManager) Close(toastID string, status DisplayStatus) (DisplayState, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	state, ok := m.byToastID[toastID]
	if !ok {
		return DisplayState{}, false
	}
	delete(m.byToastID, toastID)
	if m.byDBusID[state.DBusID] == toastID {
		delete(m.byDBusID, state.DBusID)
	}

	state.Status = status
	state.ClosedAt = time.Now()
	return *state, true
}

// ToastIDs returns the IDs of every tracked toast.
func (m *DisplayStateManager) ToastIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ids := make([]string, 0, len(m.byToastID))
	for id := range m.byToastID {
		ids = append(ids, id)
	}
	return ids
}

// Count returns the number of tracked notifications.
func (m *DisplayStateManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.byToastID)
}
