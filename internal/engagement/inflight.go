package engagement

import (
	"sync"
	"time"

	"github.com/inkwell-cms/inkwell/domain"
)

// inflightMap coalesces duplicate like/unlike calls: concurrent callers with
// the same key share one execution, and the result stays shared for the TTL
// window so a duplicate click storm produces exactly one write. Entries are
// swept on TTL regardless of completion, so a hung call can't pin the map.
type inflightMap struct {
	ttl   time.Duration
	nowFn func() time.Time

	mu      sync.Mutex
	entries map[string]*inflightEntry
}

type inflightEntry struct {
	done    chan struct{}
	created time.Time

	state domain.LikeState
	err   error
}

func newInflightMap(ttl time.Duration, nowFn func() time.Time) *inflightMap {
	return &inflightMap{
		ttl:     ttl,
		nowFn:   nowFn,
		entries: make(map[string]*inflightEntry),
	}
}

// do executes fn once per key per TTL window. Followers block until the
// leader finishes and observe the same result.
func (m *inflightMap) do(key string, fn func() (domain.LikeState, error)) (domain.LikeState, error) {
	m.mu.Lock()
	if e, ok := m.entries[key]; ok && m.nowFn().Sub(e.created) < m.ttl {
		m.mu.Unlock()
		<-e.done
		return e.state, e.err
	}

	e := &inflightEntry{
		done:    make(chan struct{}),
		created: m.nowFn(),
	}
	m.entries[key] = e
	m.mu.Unlock()

	e.state, e.err = fn()
	close(e.done)
	return e.state, e.err
}

// sweep drops entries older than the TTL, completed or not.
func (m *inflightMap) sweep() {
	now := m.nowFn()
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, e := range m.entries {
		if now.Sub(e.created) >= m.ttl {
			delete(m.entries, key)
		}
	}
}

// len reports the current entry count, for tests.
func (m *inflightMap) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}
