package toast

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/notiman/internal/config"
	"github.com/jmylchreest/notiman/internal/model"
)

func TestOrchestrator_ShowGeneratesID(t *testing.T) {
	h := newHarness(t, nil)

	id := h.o.Show(model.NotificationRequest{Title: "hello"})
	require.NotEmpty(t, id)
	assert.Equal(t, []string{id}, h.activeIDs())
	assert.Equal(t, id, h.backend.surfaces[0].spec.ID)
}

func TestOrchestrator_FIFOWithoutEviction(t *testing.T) {
	h := newHarness(t, nil)
	for _, id := range []string{"a", "b", "c"} {
		h.show(id)
	}
	h.advance(time.Second)

	assert.Equal(t, []string{"a", "b", "c"}, h.activeIDs())
	require.Len(t, h.backend.surfaces, 3)
	assert.Equal(t, Position{1504, 1019}, h.backend.surfaces[0].pos)
	assert.Equal(t, Position{1504, 966}, h.backend.surfaces[1].pos)
	assert.Equal(t, Position{1504, 913}, h.backend.surfaces[2].pos)
}

func TestOrchestrator_CapacityInvariant(t *testing.T) {
	const total = 20
	h := newHarness(t, func(cfg *config.NotimanConfig) { cfg.MaxVisible = 2 })

	var submitted []string
	check := func() {
		t.Helper()
		require.LessOrEqual(t, h.o.ActiveCount(), 2)
		require.LessOrEqual(t, h.backend.live(), 2)
		require.LessOrEqual(t, h.exitingCount(), 1)
	}

	for step := 0; step < 200; step++ {
		if step%3 == 0 && len(submitted) < total {
			id := fmt.Sprintf("t%02d", len(submitted))
			submitted = append(submitted, id)
			h.show(id)
			check()
		}
		h.advance(FrameInterval)
		check()
	}

	h.advance(2 * time.Minute)

	var created []string
	for _, s := range h.backend.surfaces {
		created = append(created, s.spec.ID)
	}
	assert.Equal(t, submitted, created, "display order follows submission order")
	assert.Len(t, h.closed, total)
	assert.Equal(t, 0, h.o.ActiveCount())
	assert.Equal(t, 0, h.o.QueuedCount())
}

func TestOrchestrator_EvictionWaitsForExit(t *testing.T) {
	h := newHarness(t, func(cfg *config.NotimanConfig) { cfg.MaxVisible = 1 })

	h.show("a")
	h.advance(200 * time.Millisecond)
	assert.Equal(t, []string{"a"}, h.activeIDs())

	h.show("b")
	assert.Equal(t, StateExiting, h.instance(t, "a").State())
	assert.Len(t, h.backend.surfaces, 1, "b must not be created while a exits")
	assert.Equal(t, 1, h.o.QueuedCount())

	h.advance(64 * time.Millisecond)
	h.show("c")
	assert.Len(t, h.backend.surfaces, 1)
	assert.Equal(t, 2, h.o.QueuedCount())

	h.advance(63 * time.Millisecond)
	assert.Len(t, h.backend.surfaces, 1)

	h.advance(time.Millisecond)
	assert.Equal(t, []string{"b"}, h.activeIDs())
	assert.Equal(t, 1, h.o.QueuedCount(), "c waits for a free slot")
	assert.Equal(t, []closedToast{{id: "a", reason: ReasonEvicted}}, h.closed)

	h.advance(5 * time.Second)
	assert.Equal(t, []string{"c"}, h.activeIDs())
	assert.Equal(t, 0, h.o.QueuedCount())
}

func TestOrchestrator_StructuralLock(t *testing.T) {
	h := newHarness(t, func(cfg *config.NotimanConfig) { cfg.MaxVisible = 3 })
	h.show("a")
	h.show("b")
	h.advance(200 * time.Millisecond)

	require.True(t, h.o.DismissToast("a"))
	h.advance(32 * time.Millisecond)
	require.Less(t, h.o.ActiveCount(), 3)

	h.show("c")
	assert.Equal(t, 1, h.o.QueuedCount())
	assert.Len(t, h.backend.surfaces, 2)
	assert.True(t, h.o.Snapshot().Animating)

	h.advance(400 * time.Millisecond)
	assert.Equal(t, []string{"b", "c"}, h.activeIDs())
	assert.Equal(t, firstSlot, h.backend.surface(t, "b").pos, "survivor reflows into the freed slot")
	assert.Equal(t, Position{1504, 966}, h.backend.surface(t, "c").pos)
	assert.False(t, h.o.Snapshot().Animating)
}

func TestOrchestrator_DismissIdempotent(t *testing.T) {
	h := newHarness(t, nil)
	h.show("a")
	h.show("b")
	h.advance(200 * time.Millisecond)

	assert.True(t, h.o.DismissToast("a"))
	assert.True(t, h.o.DismissToast("a"))
	assert.True(t, h.o.DismissToast("b"))
	assert.True(t, h.o.DismissToast("b"))
	assert.False(t, h.o.DismissToast("missing"))
	assert.Equal(t, 1, h.exitingCount(), "one removal at a time")

	h.advance(time.Second)
	assert.Equal(t, 0, h.o.ActiveCount())
	assert.Equal(t, []closedToast{
		{id: "a", reason: ReasonClosed},
		{id: "b", reason: ReasonClosed},
	}, h.closed)
	assert.False(t, h.o.DismissToast("a"))
}

func TestOrchestrator_DismissPending(t *testing.T) {
	h := newHarness(t, func(cfg *config.NotimanConfig) { cfg.MaxVisible = 1 })
	h.show("a")
	h.show("b")
	require.Equal(t, 1, h.o.QueuedCount())

	assert.True(t, h.o.DismissToast("b"))
	assert.Equal(t, 0, h.o.QueuedCount())

	h.advance(time.Second)
	assert.Equal(t, 0, h.o.ActiveCount())
	assert.Len(t, h.backend.surfaces, 1)
	assert.Equal(t, []closedToast{
		{id: "b", reason: ReasonClosed},
		{id: "a", reason: ReasonEvicted},
	}, h.closed)
}

func TestOrchestrator_DismissAll(t *testing.T) {
	h := newHarness(t, func(cfg *config.NotimanConfig) { cfg.MaxVisible = 3 })
	for _, id := range []string{"a", "b", "c", "d"} {
		h.show(id)
	}

	assert.Equal(t, 3, h.o.DismissAll())
	assert.Equal(t, 0, h.o.QueuedCount())

	for i := 0; i < 100; i++ {
		h.advance(FrameInterval)
		require.LessOrEqual(t, h.exitingCount(), 1)
	}

	assert.Equal(t, 0, h.o.ActiveCount())
	assert.Equal(t, []closedToast{
		{id: "d", reason: ReasonCleared},
		{id: "a", reason: ReasonEvicted},
		{id: "b", reason: ReasonCleared},
		{id: "c", reason: ReasonCleared},
	}, h.closed)
	assert.Equal(t, 0, h.v.PendingTimers())
}

func TestOrchestrator_UpdateConfigShrinks(t *testing.T) {
	h := newHarness(t, func(cfg *config.NotimanConfig) { cfg.MaxVisible = 3 })
	for _, id := range []string{"a", "b", "c"} {
		h.show(id)
	}
	h.advance(200 * time.Millisecond)

	cfg := h.o.Config()
	cfg.MaxVisible = 1
	h.o.UpdateConfig(cfg)
	assert.Equal(t, 1, h.exitingCount())

	h.advance(2 * time.Second)
	assert.Equal(t, []string{"c"}, h.activeIDs())
	assert.Equal(t, firstSlot, h.backend.surface(t, "c").pos)
	assert.Equal(t, []closedToast{
		{id: "a", reason: ReasonEvicted},
		{id: "b", reason: ReasonEvicted},
	}, h.closed)
}

func TestOrchestrator_UpdateConfigGrows(t *testing.T) {
	h := newHarness(t, func(cfg *config.NotimanConfig) { cfg.MaxVisible = 1 })
	for _, id := range []string{"a", "b", "c"} {
		h.show(id)
	}
	h.advance(200 * time.Millisecond)
	require.Equal(t, []string{"b"}, h.activeIDs())
	require.Equal(t, 1, h.o.QueuedCount())

	cfg := h.o.Config()
	cfg.MaxVisible = 3
	h.o.UpdateConfig(cfg)

	assert.Equal(t, []string{"b", "c"}, h.activeIDs())
	assert.Equal(t, 0, h.o.QueuedCount())
}

func TestOrchestrator_UpdateConfigKeepsGeometry(t *testing.T) {
	h := newHarness(t, nil)
	h.show("a")
	h.advance(200 * time.Millisecond)

	cfg := h.o.Config()
	cfg.Corner = config.CornerTopLeft
	cfg.Width = 300
	h.o.UpdateConfig(cfg)
	h.show("b")
	h.advance(time.Second)

	a := h.backend.surface(t, "a")
	b := h.backend.surface(t, "b")
	assert.Equal(t, 400, a.spec.Width)
	assert.Equal(t, 300, b.spec.Width)
	assert.Equal(t, Position{16, 16}, a.pos)
	assert.Equal(t, Position{16, 69}, b.pos)
}

func TestOrchestrator_Snapshot(t *testing.T) {
	h := newHarness(t, func(cfg *config.NotimanConfig) { cfg.MaxVisible = 1 })
	h.show("a")
	h.show("b")
	h.advance(32 * time.Millisecond)

	snap := h.o.Snapshot()
	require.Len(t, snap.Active, 1)
	assert.Equal(t, "a", snap.Active[0].ID)
	assert.Equal(t, "toast a", snap.Active[0].Title)
	assert.Equal(t, StateExiting, snap.Active[0].State)
	assert.Equal(t, 400, snap.Active[0].Width)
	assert.Equal(t, 45, snap.Active[0].Height)
	assert.True(t, snap.Active[0].Paintable)
	assert.Equal(t, 1, snap.Queued)
	assert.True(t, snap.Animating)
}

func TestOrchestrator_ShowAfterClose(t *testing.T) {
	h := newHarness(t, nil)
	h.o.Close()

	id := h.o.Show(model.NotificationRequest{Title: "late"})
	assert.NotEmpty(t, id)
	assert.Empty(t, h.backend.surfaces)
	assert.Equal(t, 0, h.o.DismissAll())
	assert.False(t, h.o.DismissToast(id))
}

func TestOrchestrator_InvalidConfigFallsBackToDefaults(t *testing.T) {
	h := newHarness(t, func(cfg *config.NotimanConfig) { cfg.MaxVisible = 0 })
	assert.Equal(t, config.DefaultMaxVisible, h.o.Config().MaxVisible)

	assert.NotPanics(t, func() { h.show("a") })
	assert.Equal(t, []string{"a"}, h.activeIDs())
}

func TestOrchestrator_UpdateConfigRejectsInvalid(t *testing.T) {
	h := newHarness(t, func(cfg *config.NotimanConfig) { cfg.MaxVisible = 2 })

	cfg := h.o.Config()
	cfg.MaxVisible = -1
	h.o.UpdateConfig(cfg)
	assert.Equal(t, 2, h.o.Config().MaxVisible)

	assert.NotPanics(t, func() {
		h.show("a")
		h.show("b")
	})
	assert.Equal(t, []string{"a", "b"}, h.activeIDs())
	assert.Equal(t, 0, h.exitingCount())
}
