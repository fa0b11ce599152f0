package engine

import "time"

// Clock supplies the engine's notion of wall time. Dwell timing and guard
// delays read time through this interface so tests can drive them manually.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// SystemClock returns a Clock backed by time.Now.
func SystemClock() Clock { return systemClock{} }

// Scheduler defers work back onto the engine's single logical thread.
//
// AfterSettle runs fn once the currently-processing message (and anything
// it enqueued synchronously) has fully settled; it replaces the
// two-animation-frame delays the engine's behavior was originally tuned
// against. AfterDelay runs fn on the same thread after at least d has
// elapsed. Neither gives any ordering guarantee against newer transitions:
// deferred work must capture the transition token and no-op when stale.
type Scheduler interface {
	AfterSettle(fn func())
	AfterDelay(d time.Duration, fn func())
}
