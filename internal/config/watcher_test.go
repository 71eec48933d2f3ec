package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_Reload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[toasts]\nposition = \"top-left\"\n"), 0644))

	initial, err := Load(path)
	require.NoError(t, err)

	w, err := NewWatcher(path, initial, nil)
	require.NoError(t, err)
	defer w.Stop()

	var reloaded *Config
	var reloadErr error
	w.OnReload(func(c *Config) { reloaded = c })
	w.OnError(func(err error) { reloadErr = err })

	require.NoError(t, os.WriteFile(path, []byte("[toasts]\nposition = \"bottom-left\"\n"), 0644))
	w.Reload()
	require.NotNil(t, reloaded)
	assert.Equal(t, "bottom-left", reloaded.Toasts.Position)
	assert.Same(t, reloaded, w.Current())
	assert.NoError(t, reloadErr)

	// An invalid file keeps the previous config
	require.NoError(t, os.WriteFile(path, []byte("[toasts]\nposition = \"sideways\"\n"), 0644))
	w.Reload()
	assert.Error(t, reloadErr)
	assert.Equal(t, "bottom-left", w.Current().Toasts.Position)
}

func TestWatcher_DetectsWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[theme]\nname = \"aurora\"\n"), 0644))

	w, err := NewWatcher(path, DefaultConfig(), nil)
	require.NoError(t, err)
	defer w.Stop()

	reloads := make(chan *Config, 16)
	w.OnReload(func(c *Config) {
		select {
		case reloads <- c:
		default:
		}
	})
	require.NoError(t, w.Start())
	require.NoError(t, w.Start())

	// Unrelated files in the directory are ignored
	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(path, []byte("[theme]\nname = \"ocean\"\n"), 0644))

	// A write can surface as several events; the last one sees the full file.
	deadline := time.After(5 * time.Second)
	for {
		select {
		case c := <-reloads:
			if c.Theme.Name == "ocean" {
				return
			}
		case <-deadline:
			t.Fatal("expected reload after write")
		}
	}
}

func TestWatcher_StopIdempotent(t *testing.T) {
	w, err := NewWatcher(filepath.Join(t.TempDir(), "config.toml"), DefaultConfig(), nil)
	require.NoError(t, err)
	require.NoError(t, w.Start())
	require.NoError(t, w.Stop())
	// fsnotify Close is idempotent
	assert.NoError(t, w.Stop())
}
