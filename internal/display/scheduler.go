package display

import (
	"github.com/diamondburned/gotk4/pkg/glib/v2"

	"github.com/jmylchreest/notiman/internal/eventloop"
)

// NewScheduler returns a scheduler that runs callbacks on the GTK main loop.
func NewScheduler() *eventloop.PostedScheduler {
	return eventloop.NewPostedScheduler(func(fn func()) {
		glib.IdleAdd(fn)
	})
}
