package display

import (
	_ "embed"
	"fmt"
	"log/slog"
	"strings"

	"github.com/diamondburned/gotk4/pkg/gdk/v4"
	"github.com/diamondburned/gotk4/pkg/gtk/v4"

	"github.com/jmylchreest/notiman/internal/config"
	"github.com/jmylchreest/notiman/internal/model"
)

//go:embed style.css
var baseCSS string

// Style owns the CSS provider shared by every popup.
type Style struct {
	logger   *slog.Logger
	provider *gtk.CSSProvider
	display  *gdk.Display
}

// NewStyle creates a new stylesheet holder.
func NewStyle(logger *slog.Logger) *Style {
	if logger == nil {
		logger = slog.Default()
	}
	return &Style{
		logger:   logger,
		provider: gtk.NewCSSProvider(),
	}
}

// Apply loads the stylesheet for accent and attaches it to display.
func (s *Style) Apply(display *gdk.Display, accent config.Color) {
	if display == nil {
		display = gdk.DisplayGetDefault()
	}
	if display == nil {
		s.logger.Warn("no display available, cannot apply style")
		return
	}

	s.provider.LoadFromString(BuildCSS(accent))
	s.display = display
	gtk.StyleContextAddProviderForDisplay(
		display,
		s.provider,
		gtk.STYLE_PROVIDER_PRIORITY_APPLICATION,
	)
	s.logger.Debug("applied toast style", "accent", accent.Hex())
}

// SetAccent reloads the stylesheet with a new accent color.
func (s *Style) SetAccent(accent config.Color) {
	s.provider.LoadFromString(BuildCSS(accent))
}

// BuildCSS renders the stylesheet for the given accent color.
func BuildCSS(accent config.Color) string {
	r := strings.NewReplacer(
		"@accent@", accent.Hex(),
		"@icon-info@", iconHex(model.IconInfo),
		"@icon-success@", iconHex(model.IconSuccess),
		"@icon-warning@", iconHex(model.IconWarning),
		"@icon-error@", iconHex(model.IconError),
	)
	return r.Replace(baseCSS)
}

func iconHex(kind model.IconKind) string {
	return fmt.Sprintf("#%06X", kind.Color()&0xFFFFFF)
}
