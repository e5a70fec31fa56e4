package engagement

import (
	"sync"
	"time"
)

// viewKey identifies one (ip, article) pair in the dedup window.
type viewKey struct {
	ip        string
	articleID int64
}

// viewDedup is a bounded, time-evicted recency map. It is a best-effort
// anti-spam filter, not a security boundary: a multi-instance deployment
// under-suppresses slightly but never corrupts counts, because the counter
// write itself is an atomic store operation.
type viewDedup struct {
	window time.Duration
	nowFn  func() time.Time

	mu   sync.Mutex
	seen map[viewKey]time.Time
}

func newViewDedup(window time.Duration, nowFn func() time.Time) *viewDedup {
	return &viewDedup{
		window: window,
		nowFn:  nowFn,
		seen:   make(map[viewKey]time.Time),
	}
}

// shouldCount records the pair and reports whether this view counts, i.e.
// the pair was not already seen inside the window.
func (d *viewDedup) shouldCount(ip string, articleID int64) bool {
	key := viewKey{ip: ip, articleID: articleID}
	now := d.nowFn()

	d.mu.Lock()
	defer d.mu.Unlock()
	if last, ok := d.seen[key]; ok && now.Sub(last) < d.window {
		return false
	}
	d.seen[key] = now
	return true
}

// sweep drops pairs that fell out of the window.
func (d *viewDedup) sweep() {
	now := d.nowFn()
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, last := range d.seen {
		if now.Sub(last) >= d.window {
			delete(d.seen, key)
		}
	}
}

func (d *viewDedup) len() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
