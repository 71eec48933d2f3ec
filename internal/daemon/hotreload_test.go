package daemon

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/widgetdash/internal/config"
	"github.com/jmylchreest/widgetdash/internal/model"
	"github.com/jmylchreest/widgetdash/internal/overlay"
)

func TestReloader_AppliesConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[toasts]
position = "top-left"
default_duration = "2s"

[theme]
name = "ocean"

[dbus.timeouts]
normal = "7s"
`), 0644))

	scope := overlay.Open(overlay.Options{})
	t.Cleanup(func() { _ = scope.Close() })

	watcher, err := config.NewWatcher(path, config.DefaultConfig(), nil)
	require.NoError(t, err)

	notifier := NewInternalNotifier(scope, nil)
	bridge := NewBridge(scope, &fakeServer{}, nil, nil)
	r := NewReloader(watcher, scope, notifier, bridge, nil)

	var applied []string
	r.OnApply(func(old, cfg *config.Config) {
		applied = append(applied, old.Theme.Name+"->"+cfg.Theme.Name)
	})

	require.NoError(t, r.Start())
	t.Cleanup(func() { _ = r.Stop() })

	watcher.Reload()

	p, err := scope.ToastPosition()
	require.NoError(t, err)
	assert.Equal(t, model.PositionTopLeft, p)
	assert.Equal(t, "ocean", r.Current().Theme.Name)
	assert.Equal(t, []string{"aurora->ocean"}, applied)
	assert.Equal(t, 7*time.Second, *bridge.duration(notification("x", "", -1)))

	id, err := scope.AddToast(model.ToastSpec{Message: "default"})
	require.NoError(t, err)
	snap, err := scope.Snapshot()
	require.NoError(t, err)
	toast, ok := snap.Toast(id)
	require.True(t, ok)
	assert.Equal(t, 2*time.Second, toast.Duration)

	var titles []string
	for _, x := range snap.Toasts {
		titles = append(titles, x.Title)
	}
	assert.Equal(t, []string{"Toasts Moved", "Theme Reloaded", "Configuration Reloaded", ""}, titles)
}

func TestReloader_InvalidConfigNotifies(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[toasts]\nposition = \"middle\"\n"), 0644))

	scope := overlay.Open(overlay.Options{})
	t.Cleanup(func() { _ = scope.Close() })

	initial := config.DefaultConfig()
	watcher, err := config.NewWatcher(path, initial, nil)
	require.NoError(t, err)

	r := NewReloader(watcher, scope, NewInternalNotifier(scope, nil), nil, nil)
	require.NoError(t, r.Start())
	t.Cleanup(func() { _ = r.Stop() })

	watcher.Reload()

	assert.Same(t, initial, r.Current())
	snap, err := scope.Snapshot()
	require.NoError(t, err)
	require.Len(t, snap.Toasts, 1)
	assert.Equal(t, model.KindError, snap.Toasts[0].Kind)
	assert.Equal(t, "Configuration Error", snap.Toasts[0].Title)
	assert.Equal(t, model.DefaultPosition, snap.Position)
}

func TestReloader_NotifierSettings(t *testing.T) {
	scope := overlay.Open(overlay.Options{})
	t.Cleanup(func() { _ = scope.Close() })

	watcher, err := config.NewWatcher(filepath.Join(t.TempDir(), "config.toml"), config.DefaultConfig(), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Stop() })

	notifier := NewInternalNotifier(scope, nil)
	r := NewReloader(watcher, scope, notifier, nil, nil)

	cfg := config.DefaultConfig()
	cfg.Notifier.Enabled = false
	r.Apply(cfg)

	snap, err := scope.Snapshot()
	require.NoError(t, err)
	assert.Empty(t, snap.Toasts)
	assert.False(t, notifier.Notify("k", "x", "", NotificationLevelInfo))
}

func TestReloader_ZeroDefaultDurationKeepsDefault(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Toasts.DefaultDuration = 0
	cfg.Notifier.Enabled = false
	require.NoError(t, cfg.Validate())

	scope := overlay.Open(overlay.Options{DefaultDuration: cfg.Toasts.DefaultDuration.Duration()})
	t.Cleanup(func() { _ = scope.Close() })

	watcher, err := config.NewWatcher(filepath.Join(t.TempDir(), "config.toml"), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = watcher.Stop() })

	durationOf := func(id string) time.Duration {
		t.Helper()
		snap, err := scope.Snapshot()
		require.NoError(t, err)
		toast, ok := snap.Toast(id)
		require.True(t, ok)
		return toast.Duration
	}

	before, err := scope.AddToast(model.ToastSpec{Message: "before reload"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultToastDuration, durationOf(before))

	r := NewReloader(watcher, scope, NewInternalNotifier(scope, nil), nil, nil)
	r.Apply(cfg)

	after, err := scope.AddToast(model.ToastSpec{Message: "after reload"})
	require.NoError(t, err)
	assert.Equal(t, model.DefaultToastDuration, durationOf(after))
}
