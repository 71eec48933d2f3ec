package store

import (
	"sync"
	"time"
)

// lifecycle owns the per-toast expiry timers. Timers carry only the toast
// ID; the store decides at fire time whether the toast still exists.
type lifecycle struct {
	mu     sync.Mutex
	timers map[string]*time.Timer
	closed bool
}

func newLifecycle() *lifecycle {
	return &lifecycle{timers: make(map[string]*time.Timer)}
}

// schedule arms a timer that calls fire(id) after d.
func (l *lifecycle) schedule(id string, d time.Duration, fire func(id string)) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return
	}
	if old, ok := l.timers[id]; ok {
		old.Stop()
	}
	l.timers[id] = time.AfterFunc(d, func() {
		l.forget(id)
		fire(id)
	})
}

// forget drops a fired timer from the table.
func (l *lifecycle) forget(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.timers, id)
}

// cancel stops a pending timer. A timer that already fired is harmless:
// its removal finds nothing and does nothing.
func (l *lifecycle) cancel(id string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if t, ok := l.timers[id]; ok {
		t.Stop()
		delete(l.timers, id)
	}
}

// pending returns the number of armed timers.
func (l *lifecycle) pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// stopAll stops every pending timer and refuses new ones.
func (l *lifecycle) stopAll() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := len(l.timers)
	for id, t := range l.timers {
		t.Stop()
		delete(l.timers, id)
	}
	l.closed = true
	return n
}
