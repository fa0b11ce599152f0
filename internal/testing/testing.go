// package testing contains shared testing utilities
package testing

import (
	"fmt"
	"sync"
	"time"
)

// FakeMedia is a scriptable test double for the engine's media primitive.
//
// It records every mutating call in order and exposes the playback state the
// engine would observe. Tests deliver load/seek completion events themselves,
// so stale-completion paths can be exercised deterministically.
type FakeMedia struct {
	mu sync.Mutex

	calls     []string
	loadedURL string
	position  float64
	playing   bool

	// Durations maps URLs to the duration reported once loaded.
	Durations map[string]float64
}

// NewFakeMedia creates a FakeMedia with the given per-URL durations.
func NewFakeMedia(durations map[string]float64) *FakeMedia {
	return &FakeMedia{Durations: durations}
}

func (f *FakeMedia) Load(url string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("load(%s)", url))
	f.loadedURL = url
	f.position = 0
}

func (f *FakeMedia) Play() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "play")
	f.playing = true
}

func (f *FakeMedia) Pause() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "pause")
	f.playing = false
}

func (f *FakeMedia) Seek(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, fmt.Sprintf("seek(%.3f)", seconds))
	f.position = seconds
}

func (f *FakeMedia) CurrentTime() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.position
}

func (f *FakeMedia) Duration() float64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Durations[f.loadedURL]
}

// SetPosition moves the fake play head without recording a seek call.
func (f *FakeMedia) SetPosition(seconds float64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.position = seconds
}

// LoadedURL returns the most recently loaded URL.
func (f *FakeMedia) LoadedURL() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loadedURL
}

// Playing reports whether the fake is currently playing.
func (f *FakeMedia) Playing() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.playing
}

// Calls returns a copy of the recorded call log.
func (f *FakeMedia) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

// LastCall returns the most recent recorded call, or "".
func (f *FakeMedia) LastCall() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return ""
	}
	return f.calls[len(f.calls)-1]
}

// ClearCalls resets the recorded call log.
func (f *FakeMedia) ClearCalls() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = nil
}

// ManualClock is a Clock whose time only moves when a test advances it.
type ManualClock struct {
	mu  sync.Mutex
	now time.Time
}

// NewManualClock creates a ManualClock starting at a fixed reference time.
func NewManualClock() *ManualClock {
	return &ManualClock{now: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *ManualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// ManualScheduler queues deferred work until the test flushes it.
//
// Settle callbacks and delayed callbacks are held in separate queues so a
// test can run "after the current message settles" work without also firing
// timers, and vice versa.
type ManualScheduler struct {
	mu      sync.Mutex
	settle  []func()
	delayed []delayedFn
}

type delayedFn struct {
	at time.Duration
	fn func()
}

// NewManualScheduler creates an empty ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

func (s *ManualScheduler) AfterSettle(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settle = append(s.settle, fn)
}

func (s *ManualScheduler) AfterDelay(d time.Duration, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.delayed = append(s.delayed, delayedFn{at: d, fn: fn})
}

// Settle runs all pending settle callbacks, including ones enqueued while
// settling, and returns how many ran.
func (s *ManualScheduler) Settle() int {
	ran := 0
	for {
		s.mu.Lock()
		pending := s.settle
		s.settle = nil
		s.mu.Unlock()

		if len(pending) == 0 {
			return ran
		}

		for _, fn := range pending {
			fn()
			ran++
		}
	}
}

// SettleOnce runs only the currently pending settle callbacks, leaving any
// newly enqueued ones for a later pass.
func (s *ManualScheduler) SettleOnce() int {
	s.mu.Lock()
	pending := s.settle
	s.settle = nil
	s.mu.Unlock()

	for _, fn := range pending {
		fn()
	}
	return len(pending)
}

// FireDelayed runs every delayed callback scheduled at or before d.
func (s *ManualScheduler) FireDelayed(d time.Duration) int {
	s.mu.Lock()
	var due, rest []delayedFn
	for _, item := range s.delayed {
		if item.at <= d {
			due = append(due, item)
		} else {
			rest = append(rest, item)
		}
	}
	s.delayed = rest
	s.mu.Unlock()

	for _, item := range due {
		item.fn()
	}
	return len(due)
}

// PendingSettle returns the number of queued settle callbacks.
func (s *ManualScheduler) PendingSettle() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.settle)
}

// PendingDelayed returns the number of queued delayed callbacks.
func (s *ManualScheduler) PendingDelayed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.delayed)
}
