package daemon

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notiman/internal/config"
)

func startWatcher(t *testing.T, path string) (*ConfigWatcher, chan *config.NotimanConfig, chan error) {
	t.Helper()

	reloads := make(chan *config.NotimanConfig, 4)
	errs := make(chan error, 4)

	w := NewConfigWatcher(path, quietLogger())
	w.SetDebounce(10 * time.Millisecond)
	w.SetReloadCallback(func(cfg *config.NotimanConfig) { reloads <- cfg })
	w.SetErrorCallback(func(err error) { errs <- err })
	require.NoError(t, w.Start(context.Background(), config.DefaultConfig()))
	t.Cleanup(w.Stop)
	return w, reloads, errs
}

func TestConfigWatcher_Reloads(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	w, reloads, _ := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("max_visible = 2\ncorner = \"TopLeft\"\n"), 0600))

	select {
	case cfg := <-reloads:
		assert.Equal(t, 2, cfg.MaxVisible)
		assert.Equal(t, config.CornerTopLeft, cfg.Corner)
	case <-time.After(2 * time.Second):
		t.Fatal("config was not reloaded")
	}
	assert.Equal(t, 2, w.GetCurrentConfig().MaxVisible)
}

func TestConfigWatcher_InvalidKeepsPrevious(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	w, reloads, errs := startWatcher(t, path)

	require.NoError(t, os.WriteFile(path, []byte("max_visible = 0\n"), 0600))

	select {
	case err := <-errs:
		assert.Contains(t, err.Error(), "max_visible")
	case <-time.After(2 * time.Second):
		t.Fatal("reload error not reported")
	}
	assert.Empty(t, reloads)
	assert.Equal(t, config.DefaultMaxVisible, w.GetCurrentConfig().MaxVisible)
}

func TestConfigWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	_, reloads, errs := startWatcher(t, filepath.Join(dir, "config.toml"))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.toml"), []byte("max_visible = 0\n"), 0600))

	select {
	case <-reloads:
		t.Fatal("unexpected reload")
	case <-errs:
		t.Fatal("unexpected error")
	case <-time.After(200 * time.Millisecond):
	}
}

func TestConfigWatcher_StopIsIdempotent(t *testing.T) {
	w := NewConfigWatcher(filepath.Join(t.TempDir(), "config.toml"), quietLogger())
	require.NoError(t, w.Start(context.Background(), config.DefaultConfig()))
	w.Stop()
	assert.NotPanics(t, w.Stop)
}
