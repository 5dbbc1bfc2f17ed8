package daemon

import (
	"log/slog"
	"sync"
	"time"

	"github.com/jmylchreest/notiman/internal/model"
)

// internalToastDuration is the display time for the host's own toasts.
const internalToastDuration = 5000

// InternalNotifier raises toasts about the host itself. Repeats of the same
// key within the minimum interval are dropped.
type InternalNotifier struct {
	mu     sync.Mutex
	logger *slog.Logger

	// Handler for creating toasts
	show func(req model.NotificationRequest) string

	// Rate limiting
	lastNotifyTime map[string]time.Time // key -> last notification time
	minInterval    time.Duration
	now            func() time.Time

	enabled bool
}

// NewInternalNotifier creates a new InternalNotifier.
func NewInternalNotifier(logger *slog.Logger) *InternalNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &InternalNotifier{
		logger:         logger,
		lastNotifyTime: make(map[string]time.Time),
		minInterval:    5 * time.Second,
		now:            time.Now,
		enabled:        true,
	}
}

// SetShowHandler sets the function used to raise a toast.
func (n *InternalNotifier) SetShowHandler(show func(req model.NotificationRequest) string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.show = show
}

// SetEnabled enables or disables internal notifications.
func (n *InternalNotifier) SetEnabled(enabled bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.enabled = enabled
}

// SetMinInterval sets the minimum interval between duplicate notifications.
func (n *InternalNotifier) SetMinInterval(interval time.Duration) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.minInterval = interval
}

// Notify raises a toast unless the key was used within the minimum interval.
func (n *InternalNotifier) Notify(key, title, body string, icon model.IconKind) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if !n.enabled {
		return
	}
	if n.show == nil {
		n.logger.Debug("internal notification skipped: no handler", "title", title)
		return
	}

	now := n.now()
	if last, ok := n.lastNotifyTime[key]; ok && now.Sub(last) < n.minInterval {
		n.logger.Debug("internal notification rate-limited", "key", key, "title", title)
		return
	}
	n.lastNotifyTime[key] = now

	n.logger.Debug("sending internal notification", "key", key, "title", title, "icon", icon.String())
	n.show(model.NotificationRequest{
		Title:    title,
		Body:     body,
		Project:  "notimand",
		Icon:     icon,
		Duration: internalToastDuration,
	})
}

// NotifyConfigReloaded reports a successful config reload.
func (n *InternalNotifier) NotifyConfigReloaded() {
	n.Notify(
		"config-reload",
		"Configuration Reloaded",
		"notimand configuration has been reloaded.",
		model.IconSuccess,
	)
}

// NotifyConfigError reports a config file that failed to load.
func (n *InternalNotifier) NotifyConfigError(err error) {
	n.Notify(
		"config-error",
		"Configuration Error",
		"Failed to reload configuration: "+err.Error(),
		model.IconWarning,
	)
}

// NotifyBackendError reports that the display could not be used.
func (n *InternalNotifier) NotifyBackendError(err error) {
	n.Notify(
		"backend-error",
		"Display Unavailable",
		"Toasts cannot be drawn: "+err.Error(),
		model.IconError,
	)
}
