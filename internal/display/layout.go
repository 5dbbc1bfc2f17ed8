package display

import (
	"log/slog"
	"unsafe"

	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/core/glib"
	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/notiman/internal/config"
	"github.com/jmylchreest/notiman/internal/toast"
)

// LayoutManager resolves the configured monitor and places popup windows on it.
type LayoutManager struct {
	monitor int
	display *gdk.Display
	logger  *slog.Logger
}

// NewLayoutManager creates a new layout manager.
func NewLayoutManager(cfg *config.NotimanConfig, logger *slog.Logger) *LayoutManager {
	if logger == nil {
		logger = slog.Default()
	}
	return &LayoutManager{
		monitor: cfg.Monitor,
		display: gdk.DisplayGetDefault(),
		logger:  logger,
	}
}

// UpdateConfig picks up a new monitor index.
func (l *LayoutManager) UpdateConfig(cfg *config.NotimanConfig) {
	l.monitor = cfg.Monitor
}

// GetMonitor returns the monitor to display toasts on based on config.
// Config values:
// - 0: Primary (first) monitor
// - 1+: Specific monitor (1-indexed)
//
// Falls back to the primary monitor if the configured one is not available.
func (l *LayoutManager) GetMonitor() *gdk.Monitor {
	if l.display == nil {
		return nil
	}
	if l.monitor == 0 {
		return getPrimaryMonitor(l.display)
	}

	monitors := l.display.Monitors()
	if monitors == nil {
		l.logger.Warn("no monitors list available")
		return nil
	}

	// Convert to 0-indexed
	index := uint(l.monitor - 1)

	if index >= monitors.NItems() {
		l.logger.Warn("configured monitor not available, using primary",
			"configured", l.monitor,
			"available", monitors.NItems(),
		)
		return getPrimaryMonitor(l.display)
	}

	obj := monitors.Item(index)
	if obj == nil {
		return nil
	}
	return wrapMonitor(obj)
}

// getPrimaryMonitor returns the first available monitor.
func getPrimaryMonitor(display *gdk.Display) *gdk.Monitor {
	monitors := display.Monitors()
	if monitors == nil || monitors.NItems() == 0 {
		return nil
	}

	// GTK4 has no "primary" monitor; the first one stands in for it
	obj := monitors.Item(0)
	if obj == nil {
		return nil
	}
	return wrapMonitor(obj)
}

// wrapMonitor wraps a coreglib.Object as a gdk.Monitor.
// gotk4 does not export its own wrapMonitor.
func wrapMonitor(obj *glib.Object) *gdk.Monitor {
	if obj == nil {
		return nil
	}
	// gdk.Monitor embeds a *coreglib.Object, so a struct with the same
	// layout can be reinterpreted as one.
	type monitor struct {
		_ [0]func()
		*glib.Object
	}
	m := &monitor{Object: obj}
	return (*gdk.Monitor)(unsafe.Pointer(m))
}

// SetMonitor configures a window to appear on the specified monitor.
func (l *LayoutManager) SetMonitor(window *gtk.Window, monitor *gdk.Monitor) {
	if monitor == nil {
		return
	}
	layershell.SetMonitor(window, monitor)
}

// PlaceWindow moves a layer-shell window so its top-left corner sits at pos
// on its monitor. Windows are anchored top and left, so the margins are the
// absolute coordinates.
func PlaceWindow(window *gtk.Window, pos toast.Position) {
	layershell.SetMargin(window, layershell.LayerShellEdgeTop, pos.Y)
	layershell.SetMargin(window, layershell.LayerShellEdgeLeft, pos.X)
}

// anchorTopLeft pins a layer-shell window to the top-left monitor corner.
func anchorTopLeft(window *gtk.Window) {
	layershell.SetAnchor(window, layershell.LayerShellEdgeTop, true)
	layershell.SetAnchor(window, layershell.LayerShellEdgeLeft, true)
	layershell.SetAnchor(window, layershell.LayerShellEdgeBottom, false)
	layershell.SetAnchor(window, layershell.LayerShellEdgeRight, false)
}

// HandleMonitorChange should be called when monitors change.
// It updates the display reference and logs the change.
func (l *LayoutManager) HandleMonitorChange() {
	l.display = gdk.DisplayGetDefault()
	if l.display == nil {
		l.logger.Warn("no display available after monitor change")
		return
	}

	monitors := l.display.Monitors()
	if monitors != nil {
		l.logger.Info("monitor configuration changed", "count", monitors.NItems())
	}
}
