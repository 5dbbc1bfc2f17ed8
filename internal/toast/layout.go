package toast

import "github.com/jmylchreest/notiman/internal/config"

// Slide-in distance for the entering animation.
const (
	SlideX = 28
	SlideY = 10
)

// Position is an absolute screen coordinate of a toast's top-left corner.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Add returns p offset by d.
func (p Position) Add(d Position) Position {
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// StackLayout returns the anchored position of a toast of size width x height
// whose predecessors in the active list have the given heights.
func StackLayout(corner config.Corner, screenWidth, screenHeight, width, height int, preceding []int, margin, gap int) Position {
	offset := 0
	for _, h := range preceding {
		offset += h + gap
	}

	var pos Position
	if corner.IsLeft() {
		pos.X = margin
	} else {
		pos.X = screenWidth - width - margin
	}
	if corner.IsTop() {
		pos.Y = margin + offset
	} else {
		pos.Y = screenHeight - height - margin - offset
	}
	return pos
}

// slideOffset is where an entering toast starts relative to its target:
// further out towards the corner it is anchored to.
func slideOffset(corner config.Corner) Position {
	d := Position{X: SlideX, Y: SlideY}
	if corner.IsLeft() {
		d.X = -SlideX
	}
	if corner.IsTop() {
		d.Y = -SlideY
	}
	return d
}
