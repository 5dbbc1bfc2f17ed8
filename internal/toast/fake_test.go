package toast

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notiman/internal/config"
	"github.com/jmylchreest/notiman/internal/eventloop"
	"github.com/jmylchreest/notiman/internal/model"
)

type fakeSurface struct {
	spec      SurfaceSpec
	input     InputHandler
	pos       Position
	opacity   float64
	moves     []Position
	opacities []float64
	shown     bool
	destroyed bool
}

func (s *fakeSurface) Move(pos Position) {
	s.pos = pos
	s.moves = append(s.moves, pos)
}

func (s *fakeSurface) SetOpacity(opacity float64) {
	s.opacity = opacity
	s.opacities = append(s.opacities, opacity)
}

func (s *fakeSurface) Show()    { s.shown = true }
func (s *fakeSurface) Destroy() { s.destroyed = true }

type fakeBackend struct {
	width, height int
	fail          bool
	surfaces      []*fakeSurface
	byID          map[string]*fakeSurface
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{width: 1920, height: 1080, byID: make(map[string]*fakeSurface)}
}

func (b *fakeBackend) ScreenSize() (int, int) { return b.width, b.height }

func (b *fakeBackend) NewSurface(spec SurfaceSpec, input InputHandler) (Surface, error) {
	if b.fail {
		return nil, &SurfaceError{Message: "no display", Cause: errors.New("device lost")}
	}
	s := &fakeSurface{spec: spec, input: input}
	b.surfaces = append(b.surfaces, s)
	b.byID[spec.ID] = s
	return s, nil
}

// live counts surfaces that have not been destroyed.
func (b *fakeBackend) live() int {
	n := 0
	for _, s := range b.surfaces {
		if !s.destroyed {
			n++
		}
	}
	return n
}

func (b *fakeBackend) surface(t *testing.T, id string) *fakeSurface {
	t.Helper()
	s, ok := b.byID[id]
	require.True(t, ok, "no surface for %s", id)
	return s
}

type closedToast struct {
	id     string
	reason DismissReason
}

type harness struct {
	o       *Orchestrator
	v       *eventloop.Virtual
	backend *fakeBackend
	closed  []closedToast
}

func newHarness(t *testing.T, mutate func(cfg *config.NotimanConfig)) *harness {
	t.Helper()
	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	h := &harness{v: eventloop.NewVirtual(), backend: newFakeBackend()}
	h.o = NewOrchestrator(cfg, h.backend, h.v, nil)
	h.o.SetCloseCallback(func(id string, reason DismissReason) {
		h.closed = append(h.closed, closedToast{id: id, reason: reason})
	})
	t.Cleanup(h.o.Close)
	return h
}

func (h *harness) show(id string) string {
	return h.o.Show(model.NotificationRequest{ID: id, Title: "toast " + id})
}

func (h *harness) advance(d time.Duration) {
	h.v.Advance(d)
}

func (h *harness) activeIDs() []string {
	ids := make([]string, 0, len(h.o.active))
	for _, inst := range h.o.active {
		ids = append(ids, inst.id)
	}
	return ids
}

func (h *harness) instance(t *testing.T, id string) *Instance {
	t.Helper()
	idx := h.o.find(id)
	require.GreaterOrEqual(t, idx, 0, "toast %s not active", id)
	return h.o.active[idx]
}

func (h *harness) exitingCount() int {
	n := 0
	for _, inst := range h.o.active {
		if inst.state == StateExiting {
			n++
		}
	}
	return n
}
