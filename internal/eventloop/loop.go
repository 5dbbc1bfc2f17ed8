package eventloop

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Loop is a goroutine-owned event loop. Run drains its inbox until the
// context is cancelled; every callback runs on the goroutine calling Run.
// Post never blocks, so callbacks may post back onto their own loop.
type Loop struct {
	logger *slog.Logger

	mu      sync.Mutex
	inbox   []func()
	stopped bool
	wake    chan struct{}

	timers *PostedScheduler
}

// NewLoop creates a new, not yet running loop.
func NewLoop(logger *slog.Logger) *Loop {
	if logger == nil {
		logger = slog.Default()
	}
	l := &Loop{
		logger: logger,
		wake:   make(chan struct{}, 1),
	}
	l.timers = NewPostedScheduler(l.Post)
	return l
}

// Post queues fn onto the loop. Functions posted after the loop stopped are dropped.
func (l *Loop) Post(fn func()) {
	l.mu.Lock()
	if l.stopped {
		l.mu.Unlock()
		return
	}
	l.inbox = append(l.inbox, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Pending returns the number of posted functions not yet run.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.inbox)
}

// AfterFunc runs fn on the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	return l.timers.AfterFunc(d, fn)
}

// Run processes posted functions until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) error {
	defer func() {
		l.mu.Lock()
		l.stopped = true
		l.inbox = nil
		l.mu.Unlock()
	}()

	l.logger.Debug("event loop started")
	for {
		select {
		case <-ctx.Done():
			l.logger.Debug("event loop stopped")
			return nil
		case <-l.wake:
		}

		for _, fn := range l.take() {
			if ctx.Err() != nil {
				break
			}
			l.dispatch(fn)
		}
	}
}

// take swaps out the queued batch. Functions posted while the batch runs
// land in the next one.
func (l *Loop) take() []func() {
	l.mu.Lock()
	defer l.mu.Unlock()
	batch := l.inbox
	l.inbox = nil
	return batch
}

// dispatch runs one callback, keeping the loop alive if it panics.
func (l *Loop) dispatch(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("event loop callback panicked", "panic", r)
		}
	}()
	fn()
}
