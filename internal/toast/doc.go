// Package toast implements the toast lifecycle, stacking and animation engine.
//
// An Orchestrator owns the ordered list of active toast Instances and a FIFO of
// pending requests. Each Instance drives its own fade and move animations and
// its auto-dismiss timer through an eventloop.Scheduler, and reports lifecycle
// changes back to the Orchestrator as Events posted on the same scheduler.
//
// Everything in this package must be called from the scheduler's thread.
// Cross-thread callers use Scheduler.Post.
package toast
