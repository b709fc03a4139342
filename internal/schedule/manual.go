// internal/schedule/manual.go
//
// Deterministic Scheduler for tests: time only moves when Advance is
// called, and due callbacks run on the caller's goroutine.

package schedule

import (
	"sort"
	"sync"
	"time"
)

// Manual is a Scheduler driven by Advance. Callbacks run synchronously on the
// goroutine that calls Advance, in due-time order (ties in scheduling order).
type Manual struct {
	mu      sync.Mutex
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	owner   *Manual
	due     time.Duration
	seq     int
	f       func()
	stopped bool
	fired   bool
}

// NewManual returns a Manual scheduler at time zero.
func NewManual() *Manual { return &Manual{} }

// AfterFunc registers f to run once Advance moves past d from now.
func (m *Manual) AfterFunc(d time.Duration, f func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	t := &manualTimer{owner: m, due: m.now + d, seq: m.seq, f: f}
	m.pending = append(m.pending, t)
	return t
}

// Advance moves time forward by d, running every callback that becomes due.
// Callbacks scheduled by a running callback fire in the same call if they fall
// inside the window.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now + d
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.mu.Unlock()
			return
		}
		m.now = next.due
		next.fired = true
		m.mu.Unlock()
		next.f()
	}
}

// nextDue pops the earliest live timer due at or before target.
// The caller holds m.mu.
func (m *Manual) nextDue(target time.Duration) *manualTimer {
	live := m.pending[:0]
	for _, t := range m.pending {
		if !t.stopped && !t.fired {
			live = append(live, t)
		}
	}
	m.pending = live
	if len(m.pending) == 0 {
		return nil
	}
	sort.SliceStable(m.pending, func(i, j int) bool {
		if m.pending[i].due != m.pending[j].due {
			return m.pending[i].due < m.pending[j].due
		}
		return m.pending[i].seq < m.pending[j].seq
	})
	if m.pending[0].due > target {
		return nil
	}
	return m.pending[0]
}

// Pending returns the number of callbacks still waiting to fire.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.pending {
		if !t.stopped && !t.fired {
			n++
		}
	}
	return n
}

// Elapsed returns how far Advance has moved time.
func (m *Manual) Elapsed() time.Duration {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

func (t *manualTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}
