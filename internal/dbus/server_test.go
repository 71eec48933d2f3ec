package dbus

import (
	"errors"
	"sync"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type emitted struct {
	name   string
	values []interface{}
}

type fakeEmitter struct {
	mu      sync.Mutex
	signals []emitted
}

func (f *fakeEmitter) Emit(path dbus.ObjectPath, name string, values ...interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.signals = append(f.signals, emitted{name: name, values: values})
	return nil
}

func (f *fakeEmitter) all() []emitted {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]emitted(nil), f.signals...)
}

func newTestServer() (*NotificationServer, *fakeEmitter) {
	s := NewNotificationServer(nil)
	e := &fakeEmitter{}
	s.signals = e
	return s, e
}

func TestNotify_AllocatesIDs(t *testing.T) {
	s, _ := newTestServer()

	var got []*DBusNotification
	s.SetNotifyHandler(func(n *DBusNotification, id uint32) error {
		got = append(got, n)
		return nil
	})

	id1, derr := s.Notify("app", 0, "", "one", "", nil, nil, -1)
	require.Nil(t, derr)
	id2, derr := s.Notify("app", 0, "", "two", "", nil, nil, -1)
	require.Nil(t, derr)

	assert.Equal(t, uint32(1), id1)
	assert.Equal(t, uint32(2), id2)
	assert.True(t, s.IsActive(id1))
	assert.Equal(t, 2, s.ActiveCount())
	require.Len(t, got, 2)
	assert.Equal(t, "two", got[1].Summary)
	assert.Equal(t, int32(-1), got[1].ExpireTimeout)
}

func TestNotify_ReplacesID(t *testing.T) {
	s, _ := newTestServer()

	id, _ := s.Notify("app", 0, "", "v1", "", nil, nil, -1)
	replaced, _ := s.Notify("app", id, "", "v2", "", nil, nil, -1)
	assert.Equal(t, id, replaced)

	// A stale replaces_id gets a fresh ID
	s.MarkClosed(id)
	fresh, _ := s.Notify("app", id, "", "v3", "", nil, nil, -1)
	assert.NotEqual(t, id, fresh)
}

func TestNotify_HandlerError(t *testing.T) {
	s, _ := newTestServer()
	s.SetNotifyHandler(func(*DBusNotification, uint32) error {
		return errors.New("scope closed")
	})

	id, derr := s.Notify("app", 0, "", "x", "", nil, nil, -1)
	require.NotNil(t, derr)
	assert.Equal(t, uint32(0), id)
	assert.Equal(t, 0, s.ActiveCount())
}

func TestCloseNotification(t *testing.T) {
	t.Run("without handler emits closed", func(t *testing.T) {
		s, e := newTestServer()
		id, _ := s.Notify("app", 0, "", "x", "", nil, nil, -1)

		assert.Nil(t, s.CloseNotification(id))
		assert.False(t, s.IsActive(id))

		sigs := e.all()
		require.Len(t, sigs, 1)
		assert.Equal(t, DBusInterface+".NotificationClosed", sigs[0].name)
		assert.Equal(t, []interface{}{id, uint32(CloseReasonClosed)}, sigs[0].values)
	})

	t.Run("handler owns the signal", func(t *testing.T) {
		s, e := newTestServer()
		var closed []uint32
		s.SetCloseHandler(func(id uint32) { closed = append(closed, id) })
		id, _ := s.Notify("app", 0, "", "x", "", nil, nil, -1)

		assert.Nil(t, s.CloseNotification(id))
		assert.Equal(t, []uint32{id}, closed)
		assert.Empty(t, e.all())
	})

	t.Run("unknown id is ignored", func(t *testing.T) {
		s, e := newTestServer()
		called := false
		s.SetCloseHandler(func(uint32) { called = true })

		assert.Nil(t, s.CloseNotification(42))
		assert.False(t, called)
		assert.Empty(t, e.all())
	})
}

func TestCloseWithReason_Once(t *testing.T) {
	s, e := newTestServer()
	id, _ := s.Notify("app", 0, "", "x", "", nil, nil, -1)

	require.NoError(t, s.CloseWithReason(id, CloseReasonExpired))
	require.NoError(t, s.CloseWithReason(id, CloseReasonDismissed))

	sigs := e.all()
	require.Len(t, sigs, 1)
	assert.Equal(t, []interface{}{id, uint32(CloseReasonExpired)}, sigs[0].values)
}

func TestInvokeAction(t *testing.T) {
	s, e := newTestServer()
	id, _ := s.Notify("app", 0, "", "x", "", []string{"default", "Open"}, nil, -1)

	require.NoError(t, s.InvokeAction(id, "default"))
	require.NoError(t, s.InvokeAction(999, "default"))

	sigs := e.all()
	require.Len(t, sigs, 1)
	assert.Equal(t, DBusInterface+".ActionInvoked", sigs[0].name)
	assert.Equal(t, []interface{}{id, "default"}, sigs[0].values)
	assert.True(t, s.IsActive(id))
}

func TestSignals_NotConnected(t *testing.T) {
	s := NewNotificationServer(nil)
	assert.ErrorIs(t, s.EmitActionInvoked(1, "default"), ErrNotConnected)
	assert.ErrorIs(t, s.EmitNotificationClosed(1, CloseReasonClosed), ErrNotConnected)
}

func TestServerInformation(t *testing.T) {
	s := NewNotificationServer(nil)
	caps, derr := s.GetCapabilities()
	require.Nil(t, derr)
	assert.Contains(t, caps, "actions")

	name, vendor, _, spec, derr := s.GetServerInformation()
	require.Nil(t, derr)
	assert.Equal(t, "widgetdash", name)
	assert.Equal(t, "jmylchreest", vendor)
	assert.Equal(t, "1.2", spec)
}
