package display

import (
	"log/slog"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/notiman/internal/config"
	"github.com/jmylchreest/notiman/internal/toast"
)

// Fallback screen size when no monitor geometry is available.
const (
	fallbackScreenWidth  = 1920
	fallbackScreenHeight = 1080
)

// Backend creates popup windows for toasts. All methods must be called on
// the GTK main thread.
type Backend struct {
	app     *gtk.Application
	config  *config.NotimanConfig
	logger  *slog.Logger
	display *gdk.Display
	layout  *LayoutManager
	style   *Style
}

// NewBackend creates a new display backend.
func NewBackend(app *gtk.Application, cfg *config.NotimanConfig, logger *slog.Logger) *Backend {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	}

	return &Backend{
		app:    app,
		config: cfg.Clone(),
		logger: logger,
		layout: NewLayoutManager(cfg, logger),
		style:  NewStyle(logger),
	}
}

// Start connects to the default display and installs the toast stylesheet.
func (b *Backend) Start() error {
	b.display = gdk.DisplayGetDefault()
	if b.display == nil {
		return &DisplayError{Message: "no display available"}
	}

	b.style.Apply(b.display, b.config.AccentColor)
	b.logger.Info("display backend started")
	return nil
}

// UpdateConfig applies a reloaded configuration to monitor selection and
// styling. Toasts already on screen keep their windows.
func (b *Backend) UpdateConfig(cfg *config.NotimanConfig) {
	b.config = cfg.Clone()
	b.layout.UpdateConfig(cfg)
	b.style.SetAccent(cfg.AccentColor)
}

// ScreenSize returns the geometry of the configured monitor.
func (b *Backend) ScreenSize() (int, int) {
	monitor := b.layout.GetMonitor()
	if monitor == nil {
		return fallbackScreenWidth, fallbackScreenHeight
	}
	geom := monitor.Geometry()
	if geom == nil || geom.Width() <= 0 || geom.Height() <= 0 {
		return fallbackScreenWidth, fallbackScreenHeight
	}
	return geom.Width(), geom.Height()
}

// NewSurface builds a popup window for a toast.
func (b *Backend) NewSurface(spec toast.SurfaceSpec, input toast.InputHandler) (toast.Surface, error) {
	if b.display == nil {
		return nil, &toast.SurfaceError{Message: "display backend not started"}
	}

	popup, err := NewPopup(b.app, spec, input, b.logger)
	if err != nil {
		return nil, &toast.SurfaceError{Message: "failed to create popup", Cause: err}
	}
	b.layout.SetMonitor(popup.window, b.layout.GetMonitor())
	return popup, nil
}

// HandleMonitorChange refreshes the display after a monitor hotplug.
func (b *Backend) HandleMonitorChange() {
	b.layout.HandleMonitorChange()
}

// WatchMonitors calls onChange after monitors are added or removed, once
// the layout has picked up the new configuration.
func (b *Backend) WatchMonitors(onChange func()) {
	if b.display == nil {
		return
	}
	monitors := b.display.Monitors()
	if monitors == nil {
		return
	}
	monitors.ConnectItemsChanged(func(position, removed, added uint) {
		b.HandleMonitorChange()
		if onChange != nil {
			onChange()
		}
	})
}

// DisplayError represents a display-related error.
type DisplayError struct {
	Message string
	Cause   error
}

func (e *DisplayError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *DisplayError) Unwrap() error {
	return e.Cause
}
