package eventloop

import (
	"sync"
	"time"
)

// Virtual is a Scheduler driven by a manual clock. Nothing runs until the test
// calls Advance or Drain, which makes timer-driven code fully deterministic.
type Virtual struct {
	mu     sync.Mutex
	now    time.Duration
	seq    uint64
	timers []*virtualTimer
	posted []func()
}

type virtualTimer struct {
	v       *Virtual
	at      time.Duration
	seq     uint64
	fn      func()
	stopped bool
}

// NewVirtual creates a virtual scheduler with its clock at zero.
func NewVirtual() *Virtual {
	return &Virtual{}
}

// Elapsed returns how much virtual time has passed.
func (v *Virtual) Elapsed() time.Duration {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.now
}

// Post queues fn; it runs on the next Drain or Advance.
func (v *Virtual) Post(fn func()) {
	v.mu.Lock()
	v.posted = append(v.posted, fn)
	v.mu.Unlock()
}

// AfterFunc schedules fn at now+d on the virtual clock.
func (v *Virtual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	v.mu.Lock()
	defer v.mu.Unlock()
	v.seq++
	t := &virtualTimer{v: v, at: v.now + d, seq: v.seq, fn: fn}
	v.timers = append(v.timers, t)
	return t
}

func (t *virtualTimer) Stop() bool {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()
	if t.stopped {
		return false
	}
	t.stopped = true
	t.v.removeLocked(t)
	return true
}

// PendingTimers returns the number of armed timers.
func (v *Virtual) PendingTimers() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return len(v.timers)
}

// Drain runs posted functions until none are left, without moving the clock.
func (v *Virtual) Drain() {
	for {
		v.mu.Lock()
		if len(v.posted) == 0 {
			v.mu.Unlock()
			return
		}
		fn := v.posted[0]
		v.posted = v.posted[1:]
		v.mu.Unlock()
		fn()
	}
}

// Advance moves the clock forward by d, firing due timers in deadline order
// (ties in arming order) and draining posted work after each one.
func (v *Virtual) Advance(d time.Duration) {
	v.Drain()

	v.mu.Lock()
	target := v.now + d
	v.mu.Unlock()

	for {
		v.mu.Lock()
		next := v.nextDueLocked(target)
		if next == nil {
			v.now = target
			v.mu.Unlock()
			v.Drain()
			return
		}
		v.now = next.at
		next.stopped = true
		v.removeLocked(next)
		v.mu.Unlock()

		next.fn()
		v.Drain()
	}
}

func (v *Virtual) nextDueLocked(limit time.Duration) *virtualTimer {
	var next *virtualTimer
	for _, t := range v.timers {
		if t.at > limit {
			continue
		}
		if next == nil || t.at < next.at || (t.at == next.at && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (v *Virtual) removeLocked(t *virtualTimer) {
	for i, candidate := range v.timers {
		if candidate == t {
			v.timers = append(v.timers[:i], v.timers[i+1:]...)
			return
		}
	}
}
