// Package progress republishes playback-position updates to external
// observers at a bounded rate.
//
// The engine samples positions at ~8Hz; resume persistence and now-playing
// integrations want far fewer. [Emitter] throttles to one update per
// configured interval per the effective track, always letting a URL change
// through immediately so observers never attribute a position to the wrong
// media.
package progress

import (
	"time"

	"golang.org/x/time/rate"
)

// DefaultInterval is the minimum spacing between emitted updates.
const DefaultInterval = 250 * time.Millisecond

// Update is one republished playback position.
type Update struct {
	URL      string  // Media URL the position belongs to
	Position float64 // In-track position in seconds
}

// Sink receives throttled updates.
type Sink func(Update)

// Emitter rate-limits position updates and fans them out to sinks. It is
// driven from the engine's single logical thread and is not safe for
// concurrent use.
type Emitter struct {
	limiter *rate.Limiter
	sinks   []Sink
	lastURL string
}

// NewEmitter creates an emitter with the given minimum interval between
// updates. A non-positive interval uses DefaultInterval.
func NewEmitter(interval time.Duration, sinks ...Sink) *Emitter {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Emitter{
		limiter: rate.NewLimiter(rate.Every(interval), 1),
		sinks:   sinks,
	}
}

// AddSink registers an additional observer.
func (e *Emitter) AddSink(sink Sink) {
	e.sinks = append(e.sinks, sink)
}

// Emit forwards one sampled position, unless the throttle suppresses it.
// The first position for a new URL always passes.
func (e *Emitter) Emit(url string, position float64) {
	if url == "" {
		return
	}
	changed := url != e.lastURL
	if !changed && !e.limiter.Allow() {
		return
	}
	if changed {
		// Consume a token if one is available so the URL change does
		// not double-emit with the next sample.
		e.limiter.Allow()
		e.lastURL = url
	}
	u := Update{URL: url, Position: position}
	for _, sink := range e.sinks {
		sink(u)
	}
}

// Flush bypasses the throttle once, for final positions at shutdown.
func (e *Emitter) Flush(url string, position float64) {
	if url == "" {
		return
	}
	e.lastURL = url
	u := Update{URL: url, Position: position}
	for _, sink := range e.sinks {
		sink(u)
	}
}
