package dbus

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/jmylchreest/widgetdash/internal/overlay"
	"github.com/jmylchreest/widgetdash/internal/store"
)

func newTestControl(t *testing.T) (*ControlServer, *overlay.Scope) {
	t.Helper()
	scope := overlay.Open(overlay.Options{})
	t.Cleanup(func() { _ = scope.Close() })
	return NewControlServer(scope, nil), scope
}

func TestControl_AddToast(t *testing.T) {
	c, scope := newTestControl(t)

	tests := []struct {
		name     string
		ms       int32
		duration time.Duration
	}{
		{"default", -1, model.DefaultToastDuration},
		{"persistent", 0, 0},
		{"custom", 1500, 1500 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, derr := c.AddToast("success", "Title", tt.name, tt.ms)
			require.Nil(t, derr)

			snap, err := scope.Snapshot()
			require.NoError(t, err)
			toast, ok := snap.Toast(id)
			require.True(t, ok)
			assert.Equal(t, model.KindSuccess, toast.Kind)
			assert.Equal(t, tt.duration, toast.Duration)
		})
	}
}

func TestControl_Snapshot(t *testing.T) {
	c, _ := newTestControl(t)

	id, derr := c.AddToast("info", "", "hello", 0)
	require.Nil(t, derr)
	_, derr = c.ShowBanner("warning", "Heads up", "maintenance", false)
	require.Nil(t, derr)

	data, derr := c.Snapshot()
	require.Nil(t, derr)

	var snap store.Snapshot
	require.NoError(t, json.Unmarshal([]byte(data), &snap))
	require.Len(t, snap.Toasts, 1)
	assert.Equal(t, id, snap.Toasts[0].ID)
	require.NotNil(t, snap.Banner)
	assert.False(t, snap.Banner.Dismissible)
	assert.Equal(t, model.DefaultPosition, snap.Position)
}

func TestControl_RemoveAndClear(t *testing.T) {
	c, scope := newTestControl(t)

	id, _ := c.AddToast("info", "", "a", 0)
	_, _ = c.AddToast("info", "", "b", 0)
	_, _ = c.AddToast("info", "", "c", 0)

	ok, derr := c.RemoveToast(id)
	require.Nil(t, derr)
	assert.True(t, ok)

	ok, derr = c.RemoveToast(id)
	require.Nil(t, derr)
	assert.False(t, ok)

	n, derr := c.ClearToasts()
	require.Nil(t, derr)
	assert.Equal(t, uint32(2), n)

	snap, _ := scope.Snapshot()
	assert.Empty(t, snap.Toasts)
}

func TestControl_SetToastPosition(t *testing.T) {
	c, scope := newTestControl(t)

	require.Nil(t, c.SetToastPosition("top-center"))
	p, _ := scope.ToastPosition()
	assert.Equal(t, model.PositionTopCenter, p)

	assert.NotNil(t, c.SetToastPosition("middle"))
	p, _ = scope.ToastPosition()
	assert.Equal(t, model.PositionTopCenter, p)
}

func TestControl_Banner(t *testing.T) {
	c, scope := newTestControl(t)

	_, derr := c.ShowBanner("info", "", "hi", true)
	require.Nil(t, derr)
	require.Nil(t, c.CloseBanner())

	snap, _ := scope.Snapshot()
	assert.Nil(t, snap.Banner)
}

func TestControl_ClosedScope(t *testing.T) {
	c, scope := newTestControl(t)
	require.NoError(t, scope.Close())

	_, derr := c.AddToast("info", "", "x", -1)
	assert.NotNil(t, derr)
	_, derr = c.Snapshot()
	assert.NotNil(t, derr)
}

func TestDurationFromMillis(t *testing.T) {
	assert.Nil(t, durationFromMillis(-1))
	assert.Equal(t, time.Duration(0), *durationFromMillis(0))
	assert.Equal(t, 2*time.Second, *durationFromMillis(2000))
}
