// Package carousel implements the slide state machine behind a carousel
// container: circular navigation, dot indicators, swipe and keyboard input,
// and hover-aware autoplay. Overlapping transitions are refused.
package carousel

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/eringen/vitrine/gesture"
	"github.com/eringen/vitrine/timers"
)

const (
	// TransitionDuration must stay longer than the CSS transform transition.
	TransitionDuration = 300 * time.Millisecond
	AutoplayInterval   = 5 * time.Second
)

// ErrNoSlides is returned by New when the container has no slides.
var ErrNoSlides = errors.New("carousel: no slides")

// View is the markup contract of one carousel container
// (.carousel-wrapper, .carousel-dots, .carousel-prev, .carousel-next).
// Methods are called with the carousel lock held and must not call back
// into the Carousel.
type View interface {
	CreateDots(labels []string)
	// SetOffset applies translateX(percent%) to the slide wrapper.
	SetOffset(percent int)
	SetActiveDot(index int)
	SetEdgeState(prevDisabled, nextDisabled bool)
}

// Option configures a Carousel.
type Option func(*Carousel)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s timers.Scheduler) Option {
	return func(c *Carousel) { c.sched = s }
}

// WithAutoplayInterval overrides the 5s autoplay period.
func WithAutoplayInterval(d time.Duration) Option {
	return func(c *Carousel) { c.autoplayEvery = d }
}

// WithTransitionDuration overrides the 300ms transition guard.
func WithTransitionDuration(d time.Duration) Option {
	return func(c *Carousel) { c.transition = d }
}

// Carousel is safe for concurrent use; timer callbacks and input events are
// serialized by an internal lock.
type Carousel struct {
	mu    sync.Mutex
	view  View
	sched timers.Scheduler

	autoplayEvery time.Duration
	transition    time.Duration

	total         int
	index         int
	transitioning bool
	release       timers.Timer
	autoplay      timers.Timer

	started  bool
	closed   bool
	hovering bool
	swipe    gesture.Swipe
}

// New builds a carousel over total slides. Call Start to render and begin
// autoplay.
func New(total int, view View, opts ...Option) (*Carousel, error) {
	if total < 1 {
		return nil, ErrNoSlides
	}
	c := &Carousel{
		view:          view,
		sched:         timers.Real,
		autoplayEvery: AutoplayInterval,
		transition:    TransitionDuration,
		total:         total,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Start renders the dots and the first slide and starts autoplay when there
// is more than one slide. Calling Start twice has no effect.
func (c *Carousel) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.started || c.closed {
		return
	}
	c.started = true

	labels := make([]string, c.total)
	for i := range labels {
		labels[i] = fmt.Sprintf("Ir para slide %d", i+1)
	}
	c.view.CreateDots(labels)
	c.render()
	c.syncAutoplay()
}

// Close stops autoplay and any pending transition timer.
func (c *Carousel) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.syncAutoplay()
	if c.release != nil {
		c.release.Stop()
		c.release = nil
	}
	c.transitioning = false
}

// Next advances one slide, wrapping to the first. No-op during a transition.
func (c *Carousel) Next() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step(1)
}

// Prev goes back one slide, wrapping to the last. No-op during a transition.
func (c *Carousel) Prev() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.step(-1)
}

// GoTo jumps to index. It is a no-op while transitioning, when index is the
// current slide, or when index is out of range.
func (c *Carousel) GoTo(index int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.transitioning || index < 0 || index >= c.total || index == c.index {
		return
	}
	c.moveTo(index)
}

func (c *Carousel) step(delta int) {
	if c.transitioning {
		return
	}
	c.moveTo(((c.index+delta)%c.total + c.total) % c.total)
}

func (c *Carousel) moveTo(index int) {
	c.index = index
	c.transitioning = true
	c.render()
	c.release = c.sched.AfterFunc(c.transition, c.endTransition)
}

func (c *Carousel) endTransition() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.transitioning = false
	c.release = nil
}

func (c *Carousel) render() {
	c.view.SetOffset(-c.index * 100)
	c.view.SetActiveDot(c.index)
	c.view.SetEdgeState(c.index == 0, c.index == c.total-1)
}

// PointerEnter pauses autoplay while the pointer hovers the container.
func (c *Carousel) PointerEnter() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hovering = true
	c.syncAutoplay()
}

// PointerLeave resumes autoplay.
func (c *Carousel) PointerLeave() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hovering = false
	c.syncAutoplay()
}

// TouchStart begins a drag on the slide wrapper and pauses autoplay.
func (c *Carousel) TouchStart(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.swipe.Start(x)
	c.syncAutoplay()
}

// TouchMove records drag progress.
func (c *Carousel) TouchMove(x float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.swipe.Move(x)
}

// TouchEnd finishes the drag: a leftward swipe goes to the next slide, a
// rightward swipe to the previous one. Autoplay resumes afterwards.
func (c *Carousel) TouchEnd() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.swipe.Active() {
		return
	}
	switch c.swipe.End() {
	case gesture.Left:
		c.step(1)
	case gesture.Right:
		c.step(-1)
	}
	c.syncAutoplay()
}

// Key handles keyboard navigation inside the container. It reports whether
// the key was consumed, in which case the page must not scroll.
func (c *Carousel) Key(key string) bool {
	switch key {
	case "ArrowLeft":
		c.Prev()
		return true
	case "ArrowRight":
		c.Next()
		return true
	}
	return false
}

// syncAutoplay keeps the timer running exactly when the carousel has more
// than one slide and nobody is interacting with it.
func (c *Carousel) syncAutoplay() {
	want := c.started && !c.closed && c.total > 1 && !c.hovering && !c.swipe.Active()
	switch {
	case want && c.autoplay == nil:
		c.autoplay = c.sched.Every(c.autoplayEvery, c.Next)
	case !want && c.autoplay != nil:
		c.autoplay.Stop()
		c.autoplay = nil
	}
}

// Index returns the current slide.
func (c *Carousel) Index() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index
}

// Len returns the number of slides.
func (c *Carousel) Len() int {
	return c.total
}

// Transitioning reports whether a slide change is still in flight.
func (c *Carousel) Transitioning() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.transitioning
}

// AutoplayActive reports whether the autoplay timer is running.
func (c *Carousel) AutoplayActive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.autoplay != nil
}
