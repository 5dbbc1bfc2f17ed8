package daemon

import (
	"errors"
	"log/slog"
	"os"
	"time"

	"github.com/jmylchreest/notiman/internal/config"
	"github.com/jmylchreest/notiman/internal/eventloop"
	"github.com/jmylchreest/notiman/internal/ipc"
	"github.com/jmylchreest/notiman/internal/model"
	"github.com/jmylchreest/notiman/internal/toast"
)

// DefaultCallTimeout bounds how long an IPC call waits for the event loop.
const DefaultCallTimeout = 2 * time.Second

// ErrLoopBusy is returned when the event loop does not answer in time.
var ErrLoopBusy = errors.New("toast event loop did not respond")

// HostOptions configures a Host. OnReload runs on the loop before the
// orchestrator sees a new config.
type HostOptions struct {
	Version     string
	Scheduler   eventloop.Scheduler
	Toasts      *toast.Orchestrator
	Logger      *slog.Logger
	OnStop      func()
	OnReload    func(*config.NotimanConfig)
	CallTimeout time.Duration
}

// Host adapts the orchestrator to callers on other goroutines. Every
// orchestrator call is posted to the scheduler; queries wait for the loop
// to answer.
type Host struct {
	version     string
	sched       eventloop.Scheduler
	toasts      *toast.Orchestrator
	logger      *slog.Logger
	onStop      func()
	onReload    func(*config.NotimanConfig)
	callTimeout time.Duration
	started     time.Time
}

// NewHost creates a new Host.
func NewHost(opts HostOptions) *Host {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := opts.CallTimeout
	if timeout <= 0 {
		timeout = DefaultCallTimeout
	}
	return &Host{
		version:     opts.Version,
		sched:       opts.Scheduler,
		toasts:      opts.Toasts,
		logger:      logger,
		onStop:      opts.OnStop,
		onReload:    opts.OnReload,
		callTimeout: timeout,
		started:     time.Now(),
	}
}

// Show queues req for display and returns its ID without waiting.
func (h *Host) Show(req model.NotificationRequest) string {
	if req.ID == "" {
		req.ID = model.NewRequestID()
	}
	h.sched.Post(func() { h.toasts.Show(req) })
	return req.ID
}

// Dismiss removes the toast with the given ID.
func (h *Host) Dismiss(id string) {
	h.sched.Post(func() { h.toasts.DismissToast(id) })
}

// Reload applies a new configuration, first to the reload hook and then to
// the orchestrator, so reflow sees the updated geometry.
func (h *Host) Reload(cfg *config.NotimanConfig) {
	h.sched.Post(func() {
		if h.onReload != nil {
			h.onReload(cfg)
		}
		h.toasts.UpdateConfig(cfg)
	})
}

// Notify implements ipc.Handler.
func (h *Host) Notify(req model.NotificationRequest) (string, error) {
	id := h.Show(req)
	h.logger.Debug("toast requested over IPC", "toast_id", id, "title", req.Title)
	return id, nil
}

// Status implements ipc.Handler.
func (h *Host) Status() (*ipc.StatusData, error) {
	var snap toast.Snapshot
	if err := h.call(func() { snap = h.toasts.Snapshot() }); err != nil {
		return nil, err
	}

	status := &ipc.StatusData{
		Version:       h.version,
		PID:           os.Getpid(),
		UptimeSeconds: int64(time.Since(h.started).Seconds()),
		Active:        len(snap.Active),
		Queued:        snap.Queued,
		Animating:     snap.Animating,
	}
	for _, t := range snap.Active {
		status.Toasts = append(status.Toasts, ipc.ToastStatus{
			ID:    t.ID,
			Title: t.Title,
			State: t.State.String(),
		})
	}
	return status, nil
}

// Clear implements ipc.Handler.
func (h *Host) Clear() (int, error) {
	var n int
	if err := h.call(func() { n = h.toasts.DismissAll() }); err != nil {
		return 0, err
	}
	h.logger.Info("toasts cleared", "count", n)
	return n, nil
}

// Stop implements ipc.Handler.
func (h *Host) Stop() {
	h.logger.Info("stop requested over IPC")
	if h.onStop != nil {
		h.onStop()
	}
}

// call runs fn on the event loop and waits for it to finish.
func (h *Host) call(fn func()) error {
	done := make(chan struct{})
	h.sched.Post(func() {
		defer close(done)
		fn()
	})

	select {
	case <-done:
		return nil
	case <-time.After(h.callTimeout):
		return ErrLoopBusy
	}
}
