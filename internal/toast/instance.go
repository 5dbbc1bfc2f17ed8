package toast

import (
	"log/slog"
	"time"

	"github.com/jmylchreest/notiman/internal/config"
	"github.com/jmylchreest/notiman/internal/eventloop"
	"github.com/jmylchreest/notiman/internal/model"
)

// Instance is one toast card on screen. It owns its surface, its animations
// and its dismiss timer. Instances never outlive their orchestrator.
type Instance struct {
	id      string
	req     model.NotificationRequest
	layout  ContentLayout
	corner  config.Corner
	opacity float64 // configured target opacity
	// durationMs is the effective auto-dismiss delay; <= 0 disables it.
	durationMs int

	sched  eventloop.Scheduler
	emit   func(Event)
	logger *slog.Logger

	surface   Surface
	paintable bool

	state      State
	reason     DismissReason
	pos        Position
	target     Position
	curOpacity float64
	hovered    bool

	fade fade
	move move

	frameTimer   eventloop.Timer
	dismissTimer eventloop.Timer
}

type instanceParams struct {
	req     model.NotificationRequest
	cfg     *config.NotimanConfig
	backend Backend
	sched   eventloop.Scheduler
	emit    func(Event)
	logger  *slog.Logger
}

// newInstance measures the request and acquires a surface for it. A surface
// failure is logged and replaced by a null surface.
func newInstance(p instanceParams) *Instance {
	layout := MeasureContent(p.req, p.cfg.Width)

	t := &Instance{
		id:         p.req.ID,
		req:        p.req,
		layout:     layout,
		corner:     p.cfg.Corner,
		opacity:    p.cfg.Opacity,
		durationMs: p.req.EffectiveDuration(p.cfg.Duration.Milliseconds()),
		sched:      p.sched,
		emit:       p.emit,
		logger:     p.logger.With("toast_id", p.req.ID),
		state:      StateEntering,
	}

	surface, err := p.backend.NewSurface(SurfaceSpec{
		ID:      p.req.ID,
		Request: p.req,
		Layout:  layout,
		Corner:  p.cfg.Corner,
		Accent:  p.cfg.AccentColor,
		Width:   layout.Width,
		Height:  layout.Height,
	}, t)
	if err != nil || surface == nil {
		t.logger.Warn("toast surface unavailable, continuing without rendering", "error", err)
		t.surface = nullSurface{}
	} else {
		t.surface = surface
		t.paintable = true
	}

	return t
}

// ID returns the request ID the instance was created for.
func (t *Instance) ID() string { return t.id }

// State returns the current lifecycle state.
func (t *Instance) State() State { return t.state }

// Position returns the current on-screen position.
func (t *Instance) Position() Position { return t.pos }

// Height returns the fixed card height.
func (t *Instance) Height() int { return t.layout.Height }

// Width returns the fixed card width.
func (t *Instance) Width() int { return t.layout.Width }

// Paintable reports whether the instance has a real surface.
func (t *Instance) Paintable() bool { return t.paintable }

// enter places the card at its slide-in start, fully transparent, and starts
// the entering animation towards target.
func (t *Instance) enter(target Position) {
	t.target = target
	t.pos = target.Add(slideOffset(t.corner))
	t.curOpacity = 0

	t.surface.Move(t.pos)
	t.surface.SetOpacity(0)
	t.surface.Show()

	t.fade = fade{
		kind:        fadeIn,
		fromPos:     t.pos,
		toPos:       target,
		fromOpacity: 0,
		toOpacity:   t.opacity,
	}
	t.logger.Debug("toast entering", "x", target.X, "y", target.Y, "paintable", t.paintable)
	t.armFrame()
}

// exit starts the exiting animation. It returns false if the instance is
// already leaving.
func (t *Instance) exit(reason DismissReason) bool {
	if t.state == StateExiting || t.state == StateDisposed {
		return false
	}

	t.stopDismissTimer()
	t.move.running = false
	t.state = StateExiting
	t.reason = reason

	t.fade = fade{
		kind:        fadeOut,
		fromPos:     t.pos,
		toPos:       t.pos,
		fromOpacity: t.curOpacity,
		toOpacity:   0,
	}
	t.logger.Debug("toast exiting", "reason", reason.String())
	t.armFrame()
	return true
}

// moveTo animates the card to target over d. While entering, the fade-in is
// retargeted instead.
func (t *Instance) moveTo(target Position, d time.Duration) {
	switch t.state {
	case StateEntering:
		t.target = target
		t.fade.toPos = target
		return
	case StateExiting, StateDisposed:
		return
	}

	t.target = target
	if t.pos == target {
		t.move.running = false
		return
	}

	t.move = move{
		running: true,
		step:    frameStep(d),
		from:    t.pos,
		to:      target,
	}
	t.armFrame()
}

// dispose cancels all timers and releases the surface.
func (t *Instance) dispose() {
	if t.state == StateDisposed {
		return
	}
	t.stopFrame()
	t.stopDismissTimer()
	t.fade.kind = fadeNone
	t.move.running = false
	t.state = StateDisposed
	t.surface.Destroy()
}

func (t *Instance) armFrame() {
	if t.frameTimer != nil {
		return
	}
	t.frameTimer = t.sched.AfterFunc(FrameInterval, t.tick)
}

func (t *Instance) stopFrame() {
	if t.frameTimer != nil {
		t.frameTimer.Stop()
		t.frameTimer = nil
	}
}

// tick advances the active animations by one frame.
func (t *Instance) tick() {
	t.frameTimer = nil
	if t.state == StateDisposed {
		return
	}

	if t.fade.active() {
		t.stepFade()
	}
	if t.move.running {
		t.stepMove()
	}

	if t.fade.active() || t.move.running {
		t.armFrame()
	}
}

func (t *Instance) stepFade() {
	e, done := advance(&t.fade.progress, frameStep(FadeDuration))
	kind := t.fade.kind

	if done {
		t.fade.kind = fadeNone
		t.pos = t.fade.toPos
		t.curOpacity = t.fade.toOpacity
		t.surface.Move(t.pos)
		t.surface.SetOpacity(t.curOpacity)

		if kind == fadeIn {
			t.becomeVisible()
		} else {
			t.logger.Debug("toast exited", "reason", t.reason.String())
			t.emit(Event{Kind: EventExited, ToastID: t.id, Reason: t.reason})
		}
		return
	}

	if kind == fadeIn {
		t.pos = lerpPos(t.fade.fromPos, t.fade.toPos, e)
		t.surface.Move(t.pos)
	}
	t.curOpacity = lerpFloat(t.fade.fromOpacity, t.fade.toOpacity, e)
	t.surface.SetOpacity(t.curOpacity)
}

func (t *Instance) stepMove() {
	e, done := advance(&t.move.progress, t.move.step)
	if done {
		t.move.running = false
		t.pos = t.move.to
	} else {
		t.pos = lerpPos(t.move.from, t.move.to, e)
	}
	t.surface.Move(t.pos)
}

func (t *Instance) becomeVisible() {
	t.state = StateVisible
	t.logger.Debug("toast visible", "duration_ms", t.durationMs)
	t.emit(Event{Kind: EventEntered, ToastID: t.id})

	if !t.paintable && t.durationMs <= 0 {
		// Nothing on screen can be clicked away, so do not hold a slot forever.
		t.emit(Event{Kind: EventDismissRequested, ToastID: t.id, Reason: ReasonExpired})
		return
	}
	if !t.hovered {
		t.armDismissTimer()
	}
}

func (t *Instance) armDismissTimer() {
	t.stopDismissTimer()
	if t.durationMs <= 0 {
		return
	}
	t.dismissTimer = t.sched.AfterFunc(time.Duration(t.durationMs)*time.Millisecond, t.onDismissTimer)
}

func (t *Instance) stopDismissTimer() {
	if t.dismissTimer != nil {
		t.dismissTimer.Stop()
		t.dismissTimer = nil
	}
}

func (t *Instance) onDismissTimer() {
	t.dismissTimer = nil
	if t.state != StateVisible {
		return
	}
	t.emit(Event{Kind: EventDismissRequested, ToastID: t.id, Reason: ReasonExpired})
}

// PointerEnter pauses auto-dismiss while the pointer is over the card.
func (t *Instance) PointerEnter() {
	if t.state == StateDisposed {
		return
	}
	t.hovered = true
	t.stopDismissTimer()
}

// PointerLeave restarts auto-dismiss with the full effective duration.
func (t *Instance) PointerLeave() {
	if t.state == StateDisposed {
		return
	}
	t.hovered = false
	if t.state == StateVisible {
		t.armDismissTimer()
	}
}

// PrimaryPress dismisses the card immediately.
func (t *Instance) PrimaryPress() {
	if t.state != StateEntering && t.state != StateVisible {
		return
	}
	t.stopDismissTimer()
	t.emit(Event{Kind: EventDismissRequested, ToastID: t.id, Reason: ReasonClicked})
}

// DismissArmed reports whether an auto-dismiss timer is pending.
func (t *Instance) DismissArmed() bool { return t.dismissTimer != nil }
