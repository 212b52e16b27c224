// Package lightbox implements the full-page image viewer fed by the images
// of every carousel slide on the page.
package lightbox

import (
	"fmt"
	"sync"
	"time"

	"github.com/eringen/vitrine/gesture"
	"github.com/eringen/vitrine/logging"
	"github.com/eringen/vitrine/timers"
)

const (
	// CollectRetryDelay is the wait between gallery scans while no image is
	// found yet.
	CollectRetryDelay = 500 * time.Millisecond
	// MaxCollectAttempts bounds the scans; 20 attempts cover ten seconds of
	// page start-up. Collect can still be called later by the page.
	MaxCollectAttempts = 20

	// Image swap timing: fade out, swap source, then fade back in.
	FadeOutDelay = 150 * time.Millisecond
	FadeInDelay  = 50 * time.Millisecond
)

// Image is one slide image. DataSrc is used for lazily loaded images whose
// src is still empty.
type Image struct {
	Src     string
	DataSrc string
}

// URL returns the address the lightbox shows for the image.
func (i Image) URL() string {
	if i.Src != "" {
		return i.Src
	}
	return i.DataSrc
}

// Gallery is a source of slide images, typically one carousel container.
type Gallery interface {
	Images() []Image
}

// GalleryFunc adapts a function to Gallery.
type GalleryFunc func() []Image

func (f GalleryFunc) Images() []Image { return f() }

// View is the overlay markup contract (#lightbox, #lightboxImg,
// #lightboxPrev, #lightboxNext, #lightboxCounter). Methods are called with
// the lightbox lock held and must not call back into the Lightbox.
type View interface {
	ShowImage(src, alt string)
	SetActive(active bool)
	SetLoaded(loaded bool)
	SetCounter(text string, visible bool)
	SetNavVisible(visible bool)
	LockScroll(locked bool)
}

// Target identifies what a click on the overlay landed on.
type Target int

const (
	TargetBackdrop Target = iota
	TargetImage
	TargetControl
)

// Option configures a Lightbox.
type Option func(*Lightbox)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s timers.Scheduler) Option {
	return func(l *Lightbox) { l.sched = s }
}

// WithMaxCollectAttempts overrides MaxCollectAttempts.
func WithMaxCollectAttempts(n int) Option {
	return func(l *Lightbox) { l.maxAttempts = n }
}

// Lightbox is safe for concurrent use.
type Lightbox struct {
	mu          sync.Mutex
	view        View
	sched       timers.Scheduler
	galleries   []Gallery
	maxAttempts int

	images   []string
	seen     map[string]struct{}
	index    int
	open     bool
	attempts int
	retry    timers.Timer
	gen      int
	swipe    gesture.Swipe
}

// New creates a lightbox over the given galleries. Call Start to collect
// images.
func New(view View, galleries []Gallery, opts ...Option) *Lightbox {
	l := &Lightbox{
		view:        view,
		sched:       timers.Real,
		galleries:   galleries,
		maxAttempts: MaxCollectAttempts,
		seen:        make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Start performs the first image collection, retrying on CollectRetryDelay
// while the galleries are still empty.
func (l *Lightbox) Start() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.collect()
}

// Collect rescans the galleries, appending unseen images in gallery order.
// Pages call it when their markup is known to be ready. It returns the
// number of images known.
func (l *Lightbox) Collect() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.retry != nil {
		l.retry.Stop()
		l.retry = nil
	}
	l.scan()
	return len(l.images)
}

func (l *Lightbox) collect() {
	l.retry = nil
	l.scan()
	if len(l.images) > 0 {
		return
	}
	l.attempts++
	if l.attempts >= l.maxAttempts {
		logging.Warn().Int("attempts", l.attempts).Msg("lightbox: no gallery images found, giving up")
		return
	}
	l.retry = l.sched.AfterFunc(CollectRetryDelay, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.collect()
	})
}

func (l *Lightbox) scan() {
	for _, g := range l.galleries {
		for _, img := range g.Images() {
			u := img.URL()
			if u == "" {
				continue
			}
			if _, ok := l.seen[u]; ok {
				continue
			}
			l.seen[u] = struct{}{}
			l.images = append(l.images, u)
		}
	}
}

// Open shows the image at index. Out-of-range indexes are ignored.
func (l *Lightbox) Open(index int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if index < 0 || index >= len(l.images) {
		return
	}
	l.index = index
	l.open = true
	l.showIndex(l.index)
	l.view.SetActive(true)
	l.view.LockScroll(true)

	l.view.SetLoaded(false)
	gen := l.gen
	l.sched.AfterFunc(FadeInDelay, func() { l.fadeIn(gen) })
}

// OpenSrc opens the lightbox on the image with the given URL, as when a
// slide image is clicked. It reports whether the image is known.
func (l *Lightbox) OpenSrc(src string) bool {
	l.mu.Lock()
	index := -1
	for i, u := range l.images {
		if u == src {
			index = i
			break
		}
	}
	l.mu.Unlock()
	if index < 0 {
		return false
	}
	l.Open(index)
	return true
}

// Close hides the overlay and restores page scrolling.
func (l *Lightbox) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.open = false
	l.gen++
	l.view.SetActive(false)
	l.view.SetLoaded(false)
	l.view.LockScroll(false)
}

// Next moves to the following image, wrapping around.
func (l *Lightbox) Next() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.step(1)
}

// Prev moves to the preceding image, wrapping around.
func (l *Lightbox) Prev() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.step(-1)
}

func (l *Lightbox) step(delta int) {
	n := len(l.images)
	if n == 0 {
		return
	}
	l.index = ((l.index+delta)%n + n) % n
	l.view.SetLoaded(false)

	index, gen := l.index, l.gen
	l.sched.AfterFunc(FadeOutDelay, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if gen != l.gen {
			return
		}
		l.showIndex(index)
		l.sched.AfterFunc(FadeInDelay, func() { l.fadeIn(gen) })
	})
}

func (l *Lightbox) fadeIn(gen int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if gen != l.gen {
		return
	}
	l.view.SetLoaded(true)
}

func (l *Lightbox) showIndex(index int) {
	n := len(l.images)
	l.view.ShowImage(l.images[index], fmt.Sprintf("Imagem %d de %d", index+1, n))
	if n > 1 {
		l.view.SetCounter(fmt.Sprintf("%d / %d", index+1, n), true)
	} else {
		l.view.SetCounter("", false)
	}
	l.view.SetNavVisible(n > 1)
}

// Key handles a keydown while the overlay is open: Escape closes, arrows
// navigate. It reports whether the key was handled.
func (l *Lightbox) Key(key string) bool {
	if !l.IsOpen() {
		return false
	}
	switch key {
	case "Escape":
		l.Close()
	case "ArrowLeft":
		l.Prev()
	case "ArrowRight":
		l.Next()
	default:
		return false
	}
	return true
}

// Click closes the overlay only when the dimmed backdrop itself is clicked.
func (l *Lightbox) Click(target Target) {
	if target == TargetBackdrop {
		l.Close()
	}
}

// TouchStart begins a swipe on the displayed image.
func (l *Lightbox) TouchStart(x float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.swipe.Start(x)
}

// TouchMove records swipe progress.
func (l *Lightbox) TouchMove(x float64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.swipe.Move(x)
}

// TouchEnd navigates on a completed swipe.
func (l *Lightbox) TouchEnd() {
	l.mu.Lock()
	defer l.mu.Unlock()
	switch l.swipe.End() {
	case gesture.Left:
		l.step(1)
	case gesture.Right:
		l.step(-1)
	}
}

// Index returns the current image index.
func (l *Lightbox) Index() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.index
}

// IsOpen reports whether the overlay is visible.
func (l *Lightbox) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.open
}

// Images returns a copy of the collected image URLs in display order.
func (l *Lightbox) Images() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.images...)
}

// Stop cancels a pending collection retry.
func (l *Lightbox) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.retry != nil {
		l.retry.Stop()
		l.retry = nil
	}
	l.gen++
}
