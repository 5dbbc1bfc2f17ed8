package toast

import "time"

// Animation timing.
const (
	FrameInterval       = 16 * time.Millisecond
	FadeDuration        = 125 * time.Millisecond
	DefaultMoveDuration = 170 * time.Millisecond
)

type fadeKind int

const (
	fadeNone fadeKind = iota
	fadeIn
	fadeOut
)

// fade animates opacity, and position while fading in.
type fade struct {
	kind        fadeKind
	progress    float64
	fromPos     Position
	toPos       Position
	fromOpacity float64
	toOpacity   float64
}

func (f *fade) active() bool { return f.kind != fadeNone }

// move animates position only.
type move struct {
	running  bool
	progress float64
	step     float64
	from     Position
	to       Position
}

// frameStep is the linear progress added by one frame of an animation that
// lasts d.
func frameStep(d time.Duration) float64 {
	if d <= 0 {
		return 1
	}
	return float64(FrameInterval) / float64(d)
}

// advance steps linear progress by one frame and returns the eased value and
// whether the animation reached its end.
func advance(progress *float64, step float64) (eased float64, done bool) {
	*progress += step
	if *progress >= 1 {
		*progress = 1
		return 1, true
	}
	return EaseOutCubic(*progress), false
}
