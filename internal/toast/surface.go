package toast

import (
	"github.com/jmylchreest/notiman/internal/config"
	"github.com/jmylchreest/notiman/internal/model"
)

// Surface is the native window backing one toast.
type Surface interface {
	Move(pos Position)
	SetOpacity(opacity float64)
	Show()
	Destroy()
}

// InputHandler receives pointer input for a surface. Backends call it on the
// scheduler thread.
type InputHandler interface {
	PointerEnter()
	PointerLeave()
	PrimaryPress()
}

// SurfaceSpec describes the card a backend should build.
type SurfaceSpec struct {
	ID      string
	Request model.NotificationRequest
	Layout  ContentLayout
	Corner  config.Corner
	Accent  config.Color
	Width   int
	Height  int
}

// Backend creates surfaces and reports the usable screen size.
type Backend interface {
	ScreenSize() (width, height int)
	NewSurface(spec SurfaceSpec, input InputHandler) (Surface, error)
}

// SurfaceError is returned by a Backend that could not acquire window or
// drawing resources.
type SurfaceError struct {
	Message string
	Cause   error
}

func (e *SurfaceError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *SurfaceError) Unwrap() error {
	return e.Cause
}

// nullSurface stands in for a surface that failed to build. The toast still
// runs its lifecycle but nothing is painted.
type nullSurface struct{}

func (nullSurface) Move(Position)      {}
func (nullSurface) SetOpacity(float64) {}
func (nullSurface) Show()              {}
func (nullSurface) Destroy()           {}
