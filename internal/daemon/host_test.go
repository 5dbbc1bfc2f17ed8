package daemon

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notiman/internal/config"
	"github.com/jmylchreest/notiman/internal/eventloop"
	"github.com/jmylchreest/notiman/internal/model"
	"github.com/jmylchreest/notiman/internal/toast"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestHost(t *testing.T, onStop func()) *Host {
	t.Helper()

	logger := quietLogger()
	loop := eventloop.NewLoop(logger)
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go func() { _ = loop.Run(ctx) }()

	backend := &toast.HeadlessBackend{Width: 1920, Height: 1080, Logger: logger}
	orch := toast.NewOrchestrator(config.DefaultConfig(), backend, loop, logger)
	t.Cleanup(func() { loop.Post(orch.Close) })

	return NewHost(HostOptions{
		Version:   "test",
		Scheduler: loop,
		Toasts:    orch,
		Logger:    logger,
		OnStop:    onStop,
	})
}

func TestHost_NotifyAndStatus(t *testing.T) {
	h := newTestHost(t, nil)

	id, err := h.Notify(model.NotificationRequest{Title: "Build finished"})
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	status, err := h.Status()
	require.NoError(t, err)
	assert.Equal(t, "test", status.Version)
	assert.Equal(t, 1, status.Active)
	assert.Equal(t, 0, status.Queued)
	require.Len(t, status.Toasts, 1)
	assert.Equal(t, id, status.Toasts[0].ID)
	assert.Equal(t, "Build finished", status.Toasts[0].Title)
	assert.Equal(t, "entering", status.Toasts[0].State)
}

func TestHost_KeepsCallerID(t *testing.T) {
	h := newTestHost(t, nil)
	assert.Equal(t, "abc", h.Show(model.NotificationRequest{ID: "abc", Title: "x"}))
}

func TestHost_Clear(t *testing.T) {
	h := newTestHost(t, nil)
	h.Show(model.NotificationRequest{Title: "one"})
	h.Show(model.NotificationRequest{Title: "two"})

	n, err := h.Clear()
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestHost_Stop(t *testing.T) {
	stopped := make(chan struct{})
	h := newTestHost(t, func() { close(stopped) })

	h.Stop()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop callback not called")
	}
}

func TestHost_CallTimesOutWhenLoopIsStalled(t *testing.T) {
	v := eventloop.NewVirtual()
	orch := toast.NewOrchestrator(nil, &toast.HeadlessBackend{Width: 800, Height: 600}, v, quietLogger())
	h := NewHost(HostOptions{Scheduler: v, Toasts: orch, Logger: quietLogger(), CallTimeout: 10 * time.Millisecond})

	// The virtual scheduler never drains on its own
	_, err := h.Status()
	assert.ErrorIs(t, err, ErrLoopBusy)
}

func TestHost_ReloadRunsHookBeforeOrchestrator(t *testing.T) {
	v := eventloop.NewVirtual()
	orch := toast.NewOrchestrator(nil, &toast.HeadlessBackend{Width: 800, Height: 600}, v, quietLogger())

	var seen []int
	h := NewHost(HostOptions{
		Scheduler: v,
		Toasts:    orch,
		Logger:    quietLogger(),
		OnReload: func(cfg *config.NotimanConfig) {
			seen = append(seen, orch.Config().MaxVisible, cfg.MaxVisible)
		},
	})

	cfg := config.DefaultConfig()
	cfg.MaxVisible = 2
	h.Reload(cfg)
	assert.Empty(t, seen, "reload is applied on the loop")

	v.Drain()
	assert.Equal(t, []int{config.DefaultMaxVisible, 2}, seen)
	assert.Equal(t, 2, orch.Config().MaxVisible)
}
