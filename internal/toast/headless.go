package toast

import "log/slog"

// HeadlessBackend is a Backend without a display. Surfaces only log what they
// would draw, which lets the host run over SSH or in CI.
type HeadlessBackend struct {
	Width  int
	Height int
	Logger *slog.Logger
}

// ScreenSize returns the configured virtual screen size.
func (b *HeadlessBackend) ScreenSize() (int, int) {
	return b.Width, b.Height
}

// NewSurface returns a surface that logs its lifecycle.
func (b *HeadlessBackend) NewSurface(spec SurfaceSpec, _ InputHandler) (Surface, error) {
	logger := b.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &logSurface{logger: logger.With("toast_id", spec.ID), title: spec.Request.Title}, nil
}

type logSurface struct {
	logger *slog.Logger
	title  string
}

func (s *logSurface) Move(Position)      {}
func (s *logSurface) SetOpacity(float64) {}

func (s *logSurface) Show() {
	s.logger.Info("toast", "title", s.title)
}

func (s *logSurface) Destroy() {
	s.logger.Debug("toast closed")
}
