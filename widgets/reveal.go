package widgets

import "sync"

const (
	RevealThreshold = 0.1
	// RevealBottomMargin shrinks the viewport from the bottom, so elements
	// must be 50px inside before they count.
	RevealBottomMargin = -50.0
	AnimateInClass     = "animate-in"
)

// Rect is an element's vertical extent relative to the viewport top.
type Rect struct {
	Top    float64
	Bottom float64
}

// RevealTarget is a section or card that animates in once seen.
type RevealTarget interface {
	Bounds() Rect
	AddClass(name string)
}

// VisibleRatio returns how much of r lies inside a viewport of height h
// after applying the bottom margin.
func VisibleRatio(r Rect, h float64) float64 {
	height := r.Bottom - r.Top
	if height <= 0 {
		return 0
	}
	bottom := h + RevealBottomMargin
	top := max(r.Top, 0)
	end := min(r.Bottom, bottom)
	if end <= top {
		return 0
	}
	return (end - top) / height
}

// Reveal tracks observed targets and marks each one the first time it
// crosses the threshold. Revealed targets are no longer checked.
type Reveal struct {
	mu      sync.Mutex
	targets []RevealTarget
}

// Observe adds targets to the watch list.
func (rv *Reveal) Observe(targets ...RevealTarget) {
	rv.mu.Lock()
	defer rv.mu.Unlock()
	rv.targets = append(rv.targets, targets...)
}

// Check runs on scroll or resize with the current viewport height and
// returns how many targets were revealed by this call.
func (rv *Reveal) Check(viewportHeight float64) int {
	rv.mu.Lock()
	defer rv.mu.Unlock()
	revealed := 0
	remaining := rv.targets[:0]
	for _, t := range rv.targets {
		r := VisibleRatio(t.Bounds(), viewportHeight)
		if r > 0 && r >= RevealThreshold {
			t.AddClass(AnimateInClass)
			revealed++
			continue
		}
		remaining = append(remaining, t)
	}
	clear(rv.targets[len(remaining):])
	rv.targets = remaining
	return revealed
}

// Pending returns how many targets have not been revealed yet.
func (rv *Reveal) Pending() int {
	rv.mu.Lock()
	defer rv.mu.Unlock()
	return len(rv.targets)
}
