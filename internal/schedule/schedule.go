// internal/schedule/schedule.go
//
// Cancellable delayed callbacks.
//
// The game engine never sleeps or spawns goroutines itself; it asks a
// Scheduler to call it back later. Production code uses Real (time.AfterFunc),
// tests use Manual and advance time explicitly, and the server wraps either in
// Locked so callbacks run under the same mutex as request handlers.

package schedule

import (
	"sync"
	"time"
)

// Timer is a pending callback.
type Timer interface {
	// Stop cancels the callback. It reports false if the callback already ran
	// or was already stopped.
	Stop() bool
}

// Scheduler runs f once after d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Real schedules on the wall clock.
type Real struct{}

// AfterFunc wraps time.AfterFunc; f runs on its own goroutine.
func (Real) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }

// Locked returns a Scheduler whose callbacks run while holding mu.
func Locked(s Scheduler, mu sync.Locker) Scheduler {
	return locked{inner: s, mu: mu}
}

type locked struct {
	inner Scheduler
	mu    sync.Locker
}

func (l locked) AfterFunc(d time.Duration, f func()) Timer {
	return l.inner.AfterFunc(d, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		f()
	})
}
