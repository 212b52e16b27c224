// Package widgets holds the small independent page initializers: the
// floating contact button, scroll-triggered reveal and anchor smooth-scroll.
package widgets

import (
	"sync"
	"time"

	"github.com/eringen/vitrine/timers"
)

const (
	PulseInterval = 4 * time.Second
	// pulseRestart lets the cleared animation apply before it is set again.
	pulseRestart = 10 * time.Millisecond
	// ShowAfter is the scroll offset in pixels past which the button shows.
	ShowAfter = 300.0
)

// FloatView is the #whatsappFloat element.
type FloatView interface {
	ClearAnimation()
	Pulse()
	SetVisible(visible bool)
}

// FloatButton pulses periodically and appears once the page is scrolled.
type FloatButton struct {
	mu      sync.Mutex
	view    FloatView
	sched   timers.Scheduler
	ticker  timers.Timer
	restart timers.Timer
	visible bool
}

// NewFloatButton uses the wall clock when sched is nil.
func NewFloatButton(view FloatView, sched timers.Scheduler) *FloatButton {
	if sched == nil {
		sched = timers.Real
	}
	return &FloatButton{view: view, sched: sched}
}

// Start begins pulsing every PulseInterval. Calling it twice has no effect.
func (b *FloatButton) Start() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ticker != nil {
		return
	}
	b.ticker = b.sched.Every(PulseInterval, b.tick)
}

func (b *FloatButton) tick() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ticker == nil {
		return
	}
	b.view.ClearAnimation()
	b.restart = b.sched.AfterFunc(pulseRestart, func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if b.ticker != nil {
			b.view.Pulse()
		}
	})
}

// OnScroll receives the page's vertical scroll offset.
func (b *FloatButton) OnScroll(y float64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	visible := y > ShowAfter
	if visible == b.visible {
		return
	}
	b.visible = visible
	b.view.SetVisible(visible)
}

// Visible reports the current visibility.
func (b *FloatButton) Visible() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.visible
}

// Stop halts pulsing.
func (b *FloatButton) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.ticker != nil {
		b.ticker.Stop()
		b.ticker = nil
	}
	if b.restart != nil {
		b.restart.Stop()
		b.restart = nil
	}
}
