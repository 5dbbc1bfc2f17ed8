package display

import (
	"log/slog"
	"strings"

	"github.com/diamondburned/gotk4-adwaita/pkg/adw"
	layershell "github.com/diamondburned/gotk4-layer-shell/pkg/gtk4layershell"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/notiman/internal/model"
	"github.com/jmylchreest/notiman/internal/toast"
)

// icon glyphs per kind, tinted through CSS.
var iconGlyphs = map[model.IconKind]string{
	model.IconInfo:    "i",
	model.IconSuccess: "✓",
	model.IconWarning: "!",
	model.IconError:   "✕",
}

// Popup is the layer-shell window for one toast. It implements toast.Surface.
type Popup struct {
	window *gtk.Window
	spec   toast.SurfaceSpec
	input  toast.InputHandler
	logger *slog.Logger

	// Widgets
	card       *gtk.Box
	iconLbl    *gtk.Label
	titleLbl   *gtk.Label
	projectLbl *gtk.Label
	bodyLbl    *gtk.Label
	codeLbl    *gtk.Label

	destroyed bool
}

// NewPopup creates the window for a toast. The window stays hidden until Show.
func NewPopup(app *gtk.Application, spec toast.SurfaceSpec, input toast.InputHandler, logger *slog.Logger) (*Popup, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if app == nil {
		return nil, &DisplayError{Message: "no application for popup window"}
	}

	p := &Popup{
		spec:   spec,
		input:  input,
		logger: logger.With("toast_id", spec.ID),
	}

	// Create the window
	p.window = gtk.NewWindow()
	p.window.SetApplication(app)
	p.window.SetDecorated(false)
	p.window.SetResizable(false)
	p.window.SetDefaultSize(spec.Width, spec.Height)
	p.window.SetSizeRequest(spec.Width, spec.Height)

	// Initialize layer-shell
	layershell.InitForWindow(p.window)
	layershell.SetLayer(p.window, layershell.LayerShellLayerTop)
	layershell.SetExclusiveZone(p.window, 0) // Don't reserve space
	layershell.SetKeyboardMode(p.window, layershell.LayerShellKeyboardModeNone)
	layershell.SetNamespace(p.window, "notiman-toast")
	anchorTopLeft(p.window)

	p.buildUI()
	p.applyThemeClasses()
	p.connectSignals()

	return p, nil
}

// buildUI constructs the card: an icon column next to title, body and code.
func (p *Popup) buildUI() {
	req := p.spec.Request
	layout := p.spec.Layout

	p.card = gtk.NewBox(gtk.OrientationHorizontal, 12)
	p.card.AddCSSClass("notiman-toast")
	p.card.SetSizeRequest(p.spec.Width, p.spec.Height)

	p.iconLbl = gtk.NewLabel(iconGlyphs[req.Icon])
	p.iconLbl.AddCSSClass("notiman-icon")
	p.iconLbl.SetVAlign(gtk.AlignStart)
	p.card.Append(p.iconLbl)

	content := gtk.NewBox(gtk.OrientationVertical, 4)
	content.SetHExpand(true)
	content.SetSizeRequest(layout.TextWidth, -1)

	header := gtk.NewBox(gtk.OrientationHorizontal, 8)
	p.titleLbl = newTextLabel(strings.Join(layout.TitleLines, "\n"), "notiman-title")
	p.titleLbl.SetHExpand(true)
	header.Append(p.titleLbl)
	if req.Project != "" {
		p.projectLbl = newTextLabel(req.Project, "notiman-project")
		p.projectLbl.SetXAlign(1)
		header.Append(p.projectLbl)
	}
	content.Append(header)

	if len(layout.BodyLines) > 0 {
		p.bodyLbl = newTextLabel(strings.Join(layout.BodyLines, "\n"), "notiman-body")
		content.Append(p.bodyLbl)
	}
	if len(layout.CodeLines) > 0 {
		p.codeLbl = newTextLabel(strings.Join(layout.CodeLines, "\n"), "notiman-code")
		content.Append(p.codeLbl)
	}

	p.card.Append(content)
	p.window.SetChild(p.card)
}

// newTextLabel returns a left-aligned label showing pre-wrapped text.
func newTextLabel(text, class string) *gtk.Label {
	lbl := gtk.NewLabel(text)
	lbl.AddCSSClass(class)
	lbl.SetXAlign(0)
	lbl.SetWrap(false)
	return lbl
}

// applyThemeClasses adds CSS classes for theming.
func (p *Popup) applyThemeClasses() {
	p.card.AddCSSClass(detectSystemColorScheme())
	p.card.AddCSSClass("icon-" + p.spec.Request.Icon.String())
	p.card.AddCSSClass("corner-" + sanitizeClassName(string(p.spec.Corner)))

	if p.spec.Request.Project != "" {
		p.card.AddCSSClass("project-" + sanitizeClassName(p.spec.Request.Project))
	}
	if p.codeLbl != nil {
		p.card.AddCSSClass("has-code")
	}
}

// connectSignals routes pointer input to the toast instance.
func (p *Popup) connectSignals() {
	motionCtrl := gtk.NewEventControllerMotion()
	motionCtrl.ConnectEnter(func(x, y float64) {
		if !p.destroyed {
			p.input.PointerEnter()
		}
	})
	motionCtrl.ConnectLeave(func() {
		if !p.destroyed {
			p.input.PointerLeave()
		}
	})
	p.window.AddController(motionCtrl)

	clickCtrl := gtk.NewGestureClick()
	clickCtrl.SetButton(1) // Primary only
	clickCtrl.ConnectPressed(func(nPress int, x, y float64) {
		if !p.destroyed {
			p.input.PrimaryPress()
		}
	})
	p.window.AddController(clickCtrl)
}

// Move places the window at pos.
func (p *Popup) Move(pos toast.Position) {
	if p.destroyed {
		return
	}
	PlaceWindow(p.window, pos)
}

// SetOpacity sets the window opacity.
func (p *Popup) SetOpacity(opacity float64) {
	if p.destroyed {
		return
	}
	p.window.SetOpacity(opacity)
}

// Show maps the window.
func (p *Popup) Show() {
	if p.destroyed {
		return
	}
	p.window.Present()
}

// Destroy tears the window down. Later calls are no-ops.
func (p *Popup) Destroy() {
	if p.destroyed {
		return
	}
	p.destroyed = true
	p.window.Destroy()
}

// sanitizeClassName converts a string to a valid CSS class name.
// Replaces spaces and special characters with hyphens, lowercases.
func sanitizeClassName(name string) string {
	var result strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			result.WriteRune(r)
			prevHyphen = false
		case r == '-' || r == '_' || r == ' ' || r == '.' || r == '/':
			if !prevHyphen && result.Len() > 0 {
				result.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(result.String(), "-")
}

// detectSystemColorScheme checks libadwaita for system dark mode preference.
func detectSystemColorScheme() string {
	styleManager := adw.StyleManagerGetDefault()
	if styleManager.Dark() {
		return "dark"
	}
	return "light"
}
