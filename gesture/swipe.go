// Package gesture detects horizontal swipes from touch coordinates.
package gesture

import "math"

// Threshold is the horizontal distance in pixels a drag must exceed to count
// as a swipe.
const Threshold = 50.0

// Direction of a completed swipe.
type Direction int

const (
	None Direction = iota
	// Left means the finger moved leftward: advance to the next item.
	Left
	// Right means the finger moved rightward: go back to the previous item.
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "none"
	}
}

// Swipe tracks one touch drag at a time. Vertical movement is ignored.
// The zero value uses Threshold.
type Swipe struct {
	Threshold float64

	startX   float64
	currentX float64
	dragging bool
}

// Start begins a drag at x.
func (s *Swipe) Start(x float64) {
	s.startX = x
	s.currentX = x
	s.dragging = true
}

// Move records the latest horizontal position of an active drag.
func (s *Swipe) Move(x float64) {
	if !s.dragging {
		return
	}
	s.currentX = x
}

// Active reports whether a drag is in progress.
func (s *Swipe) Active() bool {
	return s.dragging
}

// End finishes the drag and returns the detected direction.
// It returns None when no drag was active or the distance is too short.
func (s *Swipe) End() Direction {
	if !s.dragging {
		return None
	}
	s.dragging = false
	threshold := s.Threshold
	if threshold <= 0 {
		threshold = Threshold
	}
	diff := s.startX - s.currentX
	if math.Abs(diff) <= threshold {
		return None
	}
	if diff > 0 {
		return Left
	}
	return Right
}
