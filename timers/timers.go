// Package timers schedules one-shot and repeating callbacks behind a small
// interface so that widget timing can be driven by a manual clock in tests.
package timers

import (
	"sync"
	"sync/atomic"
	"time"
)

// Timer is a scheduled callback that can be cancelled.
// Stop reports whether the call cancelled a pending callback.
type Timer interface {
	Stop() bool
}

// Scheduler creates timers. Callbacks may run on any goroutine.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
	Every(d time.Duration, f func()) Timer
}

// Real is the wall-clock Scheduler backed by the time package.
var Real Scheduler = realScheduler{}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

func (realScheduler) Every(d time.Duration, f func()) Timer {
	t := &ticker{stop: make(chan struct{})}
	tk := time.NewTicker(d)
	go func() {
		defer tk.Stop()
		for {
			select {
			case <-tk.C:
				if t.stopped.Load() {
					return
				}
				f()
			case <-t.stop:
				return
			}
		}
	}()
	return t
}

// ticker runs f until stopped. A tick that is already pending when Stop
// returns does not call f.
type ticker struct {
	once    sync.Once
	stop    chan struct{}
	stopped atomic.Bool
}

func (t *ticker) Stop() bool {
	stopped := false
	t.once.Do(func() {
		t.stopped.Store(true)
		close(t.stop)
		stopped = true
	})
	return stopped
}
