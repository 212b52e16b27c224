package embed

import (
	"context"
	"sync"
	"time"

	"github.com/eringen/vitrine/logging"
	"github.com/eringen/vitrine/observe"
	"github.com/eringen/vitrine/timers"
)

// Default retry policy: a few early passes while the page settles, then a
// periodic pass until everything is rendered or Timeout elapses.
var DefaultRetryDelays = []time.Duration{
	500 * time.Millisecond,
	1500 * time.Millisecond,
	3 * time.Second,
}

const (
	RetryInterval = 2 * time.Second
	Timeout       = 15 * time.Second
)

// Document lists the embed placeholders currently in the page.
type Document interface {
	Containers() []Container
}

// DocumentFunc adapts a function to Document.
type DocumentFunc func() []Container

func (f DocumentFunc) Containers() []Container { return f() }

// Option configures a Rehydrator.
type Option func(*Rehydrator)

// WithScheduler replaces the wall-clock scheduler.
func WithScheduler(s timers.Scheduler) Option {
	return func(r *Rehydrator) { r.sched = s }
}

// WithRetryPolicy overrides the early delays, periodic interval and timeout.
func WithRetryPolicy(delays []time.Duration, interval, timeout time.Duration) Option {
	return func(r *Rehydrator) {
		r.delays = delays
		r.interval = interval
		r.timeout = timeout
	}
}

// Rehydrator runs rehydration passes over a Document.
type Rehydrator struct {
	mu       sync.Mutex
	doc      Document
	strategy Strategy
	sched    timers.Scheduler

	delays   []time.Duration
	interval time.Duration
	timeout  time.Duration

	ctx      context.Context
	retries  []timers.Timer
	deadline timers.Timer
	sub      *observe.Subscription
	expired  bool
	done     bool
	passes   int
}

// NewRehydrator builds a Rehydrator using strategy.
func NewRehydrator(doc Document, strategy Strategy, opts ...Option) *Rehydrator {
	r := &Rehydrator{
		doc:      doc,
		strategy: strategy,
		sched:    timers.Real,
		delays:   DefaultRetryDelays,
		interval: RetryInterval,
		timeout:  Timeout,
		ctx:      context.Background(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Start runs the first pass and schedules retries. ctx is handed to the
// strategy on every pass.
func (r *Rehydrator) Start(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ctx = ctx
	r.pass()
	if r.done {
		return
	}
	for _, d := range r.delays {
		r.retries = append(r.retries, r.sched.AfterFunc(d, r.retry))
	}
	if r.interval > 0 {
		r.retries = append(r.retries, r.sched.Every(r.interval, r.retry))
	}
	r.deadline = r.sched.AfterFunc(r.timeout, r.expire)
}

// Watch runs a pass whenever a new container is added to w, for as long as
// the Rehydrator lives.
func (r *Rehydrator) Watch(w *observe.Watcher[Container]) {
	sub := w.Subscribe(nil, func(Container) { r.force() })
	r.mu.Lock()
	r.sub.Close()
	r.sub = sub
	r.mu.Unlock()
}

// Visible is the intersection trigger: a container scrolled into view. It
// runs a pass until the timeout has expired.
func (r *Rehydrator) Visible() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.expired {
		return
	}
	r.pass()
}

// VisibilityChange runs one pass unconditionally, as when the tab regains
// focus.
func (r *Rehydrator) VisibilityChange() {
	r.force()
}

func (r *Rehydrator) force() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pass()
}

func (r *Rehydrator) retry() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.expired || r.done {
		return
	}
	r.pass()
}

func (r *Rehydrator) expire() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.expired = true
	r.stopRetries()
	if !r.done {
		logging.Warn().Str("strategy", r.strategy.Name()).Int("passes", r.passes).Msg("embed: rehydration timed out")
	}
}

func (r *Rehydrator) pass() {
	r.passes++
	containers := r.doc.Containers()
	if len(containers) == 0 {
		return
	}
	r.done = r.strategy.Pass(r.ctx, containers) == 0
	if r.done {
		r.stopRetries()
	}
}

func (r *Rehydrator) stopRetries() {
	for _, t := range r.retries {
		t.Stop()
	}
	r.retries = nil
	if r.deadline != nil && !r.expired {
		r.deadline.Stop()
	}
	r.deadline = nil
}

// Stop cancels retries and the container subscription.
func (r *Rehydrator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stopRetries()
	r.sub.Close()
	r.sub = nil
}

// Passes returns how many passes have run.
func (r *Rehydrator) Passes() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.passes
}

// Done reports whether every known container has a working iframe.
func (r *Rehydrator) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Expired reports whether the retry window has closed.
func (r *Rehydrator) Expired() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.expired
}
