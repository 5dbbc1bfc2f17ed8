package toast

import (
	"container/list"
	"log/slog"

	"github.com/jmylchreest/notiman/internal/config"
	"github.com/jmylchreest/notiman/internal/eventloop"
	"github.com/jmylchreest/notiman/internal/model"
)

// CloseCallback is called when a toast is removed, including requests that
// were dropped from the pending queue before being shown.
type CloseCallback func(id string, reason DismissReason)

// ToastInfo is a point-in-time view of one active toast.
type ToastInfo struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	State     State    `json:"state"`
	Position  Position `json:"position"`
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	Opacity   float64  `json:"opacity"`
	Paintable bool     `json:"paintable"`
}

// Snapshot describes the orchestrator's current state.
type Snapshot struct {
	Active    []ToastInfo `json:"active"`
	Queued    int         `json:"queued"`
	Animating bool        `json:"animating"`
}

type dismissal struct {
	id     string
	reason DismissReason
}

// Orchestrator owns the active toasts and the pending queue. It enforces the
// visible limit and serialises removals: while one toast is exiting no toast
// is created and no other removal starts.
type Orchestrator struct {
	cfg     *config.NotimanConfig
	backend Backend
	sched   eventloop.Scheduler
	logger  *slog.Logger

	// Active toasts, oldest first
	active []*Instance

	// Pending requests in arrival order (model.NotificationRequest)
	pending *list.List

	// Structural lock: set while a removal animation is in flight
	animating bool
	exitingID string
	deferred  []dismissal

	closed  bool
	onClose CloseCallback
}

// NewOrchestrator creates an orchestrator drawing on backend and timing
// through sched. A nil or invalid cfg is replaced by the defaults.
func NewOrchestrator(cfg *config.NotimanConfig, backend Backend, sched eventloop.Scheduler, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg == nil {
		cfg = config.DefaultConfig()
	} else if err := cfg.Validate(); err != nil {
		logger.Warn("invalid toast config, using defaults", "error", err)
		cfg = config.DefaultConfig()
	}

	return &Orchestrator{
		cfg:     cfg.Clone(),
		backend: backend,
		sched:   sched,
		logger:  logger,
		pending: list.New(),
	}
}

// SetCloseCallback sets the callback for toast removal.
func (o *Orchestrator) SetCloseCallback(cb CloseCallback) {
	o.onClose = cb
}

// Config returns a copy of the effective configuration.
func (o *Orchestrator) Config() *config.NotimanConfig {
	return o.cfg.Clone()
}

// Show displays req now if there is room, or queues it. At capacity the
// oldest toast is evicted and req waits for its turn in the queue.
// It returns the request ID, generating one when req has none.
func (o *Orchestrator) Show(req model.NotificationRequest) string {
	if req.ID == "" {
		req.ID = model.NewRequestID()
	}
	if o.closed {
		o.logger.Debug("orchestrator closed, dropping toast", "toast_id", req.ID)
		return req.ID
	}

	switch {
	case o.animating:
		o.pending.PushBack(req)
		o.logger.Debug("removal in flight, toast queued", "toast_id", req.ID, "queued", o.pending.Len())

	case len(o.active) >= o.cfg.MaxVisible:
		o.pending.PushBack(req)
		o.logger.Debug("at capacity, evicting oldest toast", "toast_id", req.ID, "active", len(o.active))
		o.startRemoval(o.active[0], ReasonEvicted)

	case o.pending.Len() > 0:
		// Earlier requests go first
		o.pending.PushBack(req)
		o.advance()

	default:
		o.create(req)
	}

	return req.ID
}

// DismissToast removes the toast or pending request with the given ID.
// It returns false if nothing matched.
func (o *Orchestrator) DismissToast(id string) bool {
	if o.closed {
		return false
	}
	for e := o.pending.Front(); e != nil; e = e.Next() {
		if e.Value.(model.NotificationRequest).ID == id {
			o.pending.Remove(e)
			o.notifyClosed(id, ReasonClosed)
			return true
		}
	}
	if o.find(id) < 0 {
		return false
	}
	o.requestDismiss(id, ReasonClosed)
	return true
}

// DismissAll drops every pending request and dismisses all active toasts,
// oldest first, one removal at a time.
func (o *Orchestrator) DismissAll() int {
	if o.closed {
		return 0
	}

	count := o.pending.Len()
	for e := o.pending.Front(); e != nil; e = e.Next() {
		o.notifyClosed(e.Value.(model.NotificationRequest).ID, ReasonCleared)
	}
	o.pending.Init()

	ids := make([]string, 0, len(o.active))
	for _, inst := range o.active {
		if inst.state != StateExiting {
			ids = append(ids, inst.id)
		}
	}
	for _, id := range ids {
		o.requestDismiss(id, ReasonCleared)
	}

	o.logger.Debug("dismissing all toasts", "active", len(ids), "dropped", count)
	return count + len(ids)
}

// UpdateConfig swaps the effective configuration. Existing toasts keep their
// geometry and move to their new stack positions; new toasts use cfg.
// An invalid cfg is rejected and the current configuration kept.
func (o *Orchestrator) UpdateConfig(cfg *config.NotimanConfig) {
	if cfg == nil || o.closed {
		return
	}
	if err := cfg.Validate(); err != nil {
		o.logger.Warn("rejecting invalid toast config", "error", err)
		return
	}
	o.cfg = cfg.Clone()
	o.logger.Debug("toast config updated", "max_visible", o.cfg.MaxVisible, "corner", o.cfg.Corner)

	if !o.animating {
		o.reflow()
	}
	o.advance()
}

// ActiveCount returns the number of toasts on screen, including one exiting.
func (o *Orchestrator) ActiveCount() int {
	return len(o.active)
}

// QueuedCount returns the number of pending requests.
func (o *Orchestrator) QueuedCount() int {
	return o.pending.Len()
}

// Snapshot returns the current state of every active toast.
func (o *Orchestrator) Snapshot() Snapshot {
	s := Snapshot{
		Active:    make([]ToastInfo, 0, len(o.active)),
		Queued:    o.pending.Len(),
		Animating: o.animating,
	}
	for _, inst := range o.active {
		s.Active = append(s.Active, ToastInfo{
			ID:        inst.id,
			Title:     inst.req.Title,
			State:     inst.state,
			Position:  inst.pos,
			Width:     inst.layout.Width,
			Height:    inst.layout.Height,
			Opacity:   inst.curOpacity,
			Paintable: inst.paintable,
		})
	}
	return s
}

// Close disposes every toast and drops the queue. Later calls are no-ops.
func (o *Orchestrator) Close() {
	if o.closed {
		return
	}
	o.closed = true
	for _, inst := range o.active {
		inst.dispose()
	}
	o.active = nil
	o.pending.Init()
	o.deferred = nil
	o.animating = false
	o.exitingID = ""
	o.logger.Debug("orchestrator closed")
}

// create builds an instance for req below its predecessors and starts it
// entering.
func (o *Orchestrator) create(req model.NotificationRequest) {
	inst := newInstance(instanceParams{
		req:     req,
		cfg:     o.cfg,
		backend: o.backend,
		sched:   o.sched,
		emit:    o.post,
		logger:  o.logger,
	})

	sw, sh := o.backend.ScreenSize()
	target := StackLayout(o.cfg.Corner, sw, sh, inst.Width(), inst.Height(), o.heights(len(o.active)), o.cfg.Margin, o.cfg.Gap)

	o.active = append(o.active, inst)
	inst.enter(target)
	o.logger.Debug("toast shown", "toast_id", req.ID, "active", len(o.active), "queued", o.pending.Len())
}

// post delivers an instance event through the scheduler inbox.
func (o *Orchestrator) post(ev Event) {
	o.sched.Post(func() { o.handle(ev) })
}

func (o *Orchestrator) handle(ev Event) {
	if o.closed {
		return
	}
	switch ev.Kind {
	case EventEntered:
		o.logger.Debug("toast entered", "toast_id", ev.ToastID)
	case EventDismissRequested:
		o.requestDismiss(ev.ToastID, ev.Reason)
	case EventExited:
		o.finishRemoval(ev.ToastID, ev.Reason)
	}
}

// requestDismiss starts a removal, or defers it while another is in flight.
// Unknown IDs are ignored.
func (o *Orchestrator) requestDismiss(id string, reason DismissReason) {
	if o.animating {
		if id == o.exitingID {
			return
		}
		for _, d := range o.deferred {
			if d.id == id {
				return
			}
		}
		o.deferred = append(o.deferred, dismissal{id: id, reason: reason})
		return
	}

	idx := o.find(id)
	if idx < 0 {
		return
	}
	o.startRemoval(o.active[idx], reason)
}

func (o *Orchestrator) startRemoval(inst *Instance, reason DismissReason) {
	if !inst.exit(reason) {
		return
	}
	o.animating = true
	o.exitingID = inst.id
}

// finishRemoval drops the exited instance, moves survivors into place,
// releases the lock and lets queued work proceed.
func (o *Orchestrator) finishRemoval(id string, reason DismissReason) {
	idx := o.find(id)
	if idx < 0 {
		return
	}
	inst := o.active[idx]
	o.active = append(o.active[:idx], o.active[idx+1:]...)
	inst.dispose()

	o.reflow()
	if o.exitingID == id {
		o.animating = false
		o.exitingID = ""
	}

	o.logger.Debug("toast removed", "toast_id", id, "reason", reason.String(), "active", len(o.active), "queued", o.pending.Len())
	o.notifyClosed(id, reason)
	o.advance()
}

// advance runs deferred removals, trims down to the visible limit and fills
// free slots from the queue until a removal takes the lock.
func (o *Orchestrator) advance() {
	for !o.animating && !o.closed {
		if len(o.deferred) > 0 {
			d := o.deferred[0]
			o.deferred = o.deferred[1:]
			if idx := o.find(d.id); idx >= 0 {
				o.startRemoval(o.active[idx], d.reason)
			}
			continue
		}

		if len(o.active) > o.cfg.MaxVisible {
			o.startRemoval(o.active[0], ReasonEvicted)
			continue
		}

		if o.pending.Len() == 0 || len(o.active) >= o.cfg.MaxVisible {
			return
		}
		req := o.pending.Remove(o.pending.Front()).(model.NotificationRequest)
		o.create(req)
	}
}

// reflow moves every active toast to its stack position.
func (o *Orchestrator) reflow() {
	sw, sh := o.backend.ScreenSize()
	for i, inst := range o.active {
		pos := StackLayout(o.cfg.Corner, sw, sh, inst.Width(), inst.Height(), o.heights(i), o.cfg.Margin, o.cfg.Gap)
		inst.moveTo(pos, DefaultMoveDuration)
	}
}

// heights returns the heights of the first n active toasts.
func (o *Orchestrator) heights(n int) []int {
	hs := make([]int, n)
	for i := 0; i < n; i++ {
		hs[i] = o.active[i].Height()
	}
	return hs
}

func (o *Orchestrator) find(id string) int {
	for i, inst := range o.active {
		if inst.id == id {
			return i
		}
	}
	return -1
}

func (o *Orchestrator) notifyClosed(id string, reason DismissReason) {
	if o.onClose != nil {
		o.onClose(id, reason)
	}
}
