// Package eventloop provides the single-threaded scheduling model the toast
// engine runs on. All timer callbacks and posted functions execute serially on
// the goroutine that owns the loop, so state touched only from callbacks needs
// no locking.
package eventloop

import (
	"sync/atomic"
	"time"
)

// Timer is a handle to a pending one-shot callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the callback was still
	// pending. Once Stop returns on the loop goroutine, the callback will not run.
	Stop() bool
}

// Scheduler delivers callbacks onto a single loop goroutine.
type Scheduler interface {
	// AfterFunc runs fn on the loop once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer

	// Post queues fn to run on the loop. Safe to call from any goroutine.
	Post(fn func())
}

// Poster queues a function onto some event loop (for example glib.IdleAdd).
type Poster func(fn func())

// PostedScheduler turns any Poster into a Scheduler by running Go timers and
// marshalling their expiry onto the loop through the Poster.
type PostedScheduler struct {
	post Poster
}

// NewPostedScheduler creates a scheduler that delivers through post.
func NewPostedScheduler(post Poster) *PostedScheduler {
	return &PostedScheduler{post: post}
}

// Post queues fn onto the loop.
func (s *PostedScheduler) Post(fn func()) {
	s.post(fn)
}

// AfterFunc arms a Go timer whose expiry is posted to the loop.
func (s *PostedScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	t := &postedTimer{}
	t.timer = time.AfterFunc(d, func() {
		s.post(func() {
			// Stop may have raced the expiry; the flag is the source of truth.
			if !t.done.CompareAndSwap(false, true) {
				return
			}
			fn()
		})
	})
	return t
}

type postedTimer struct {
	timer *time.Timer
	done  atomic.Bool
}

func (t *postedTimer) Stop() bool {
	t.timer.Stop()
	return t.done.CompareAndSwap(false, true)
}
