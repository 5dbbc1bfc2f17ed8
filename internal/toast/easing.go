package toast

import "math"

// EaseOutCubic maps linear progress t in [0,1] to 1-(1-t)^3.
// Values outside the range are clamped.
func EaseOutCubic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	f := t - 1
	return f*f*f + 1
}

func lerpInt(from, to int, e float64) int {
	return int(math.Round(float64(from) + float64(to-from)*e))
}

func lerpPos(from, to Position, e float64) Position {
	return Position{X: lerpInt(from.X, to.X, e), Y: lerpInt(from.Y, to.Y, e)}
}

func lerpFloat(from, to, e float64) float64 {
	return from + (to-from)*e
}
