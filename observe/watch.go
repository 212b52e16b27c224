// Package observe provides scoped subscriptions that fire when new children
// are added to a watched container.
package observe

import "sync"

// Watcher fans out additions of T to subscribers whose match function
// accepts them. The zero value is ready to use.
type Watcher[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]subscriber[T]
}

type subscriber[T any] struct {
	match func(T) bool
	fn    func(T)
}

// Subscription is a live registration. Close removes it; Close is idempotent.
type Subscription struct {
	once   sync.Once
	cancel func()
}

// Close tears the subscription down.
func (s *Subscription) Close() {
	if s == nil {
		return
	}
	s.once.Do(s.cancel)
}

// Subscribe registers fn for every added item accepted by match.
// A nil match accepts everything.
func (w *Watcher[T]) Subscribe(match func(T) bool, fn func(T)) *Subscription {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.subs == nil {
		w.subs = make(map[int]subscriber[T])
	}
	id := w.next
	w.next++
	w.subs[id] = subscriber[T]{match: match, fn: fn}
	return &Subscription{cancel: func() {
		w.mu.Lock()
		delete(w.subs, id)
		w.mu.Unlock()
	}}
}

// Added notifies subscribers about new items. Callbacks run outside the
// watcher lock, so they may subscribe or close subscriptions.
func (w *Watcher[T]) Added(items ...T) {
	w.mu.Lock()
	subs := make([]subscriber[T], 0, len(w.subs))
	for _, s := range w.subs {
		subs = append(subs, s)
	}
	w.mu.Unlock()

	for _, item := range items {
		for _, s := range subs {
			if s.match == nil || s.match(item) {
				s.fn(item)
			}
		}
	}
}

// Len returns the number of live subscriptions.
func (w *Watcher[T]) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.subs)
}
