package media

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/tandemreader/tandem/internal/engine"
)

type eventLog struct {
	mu     sync.Mutex
	events []engine.Event
}

func (l *eventLog) sink(ev engine.Event) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, ev)
}

func (l *eventLog) snapshot() []engine.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]engine.Event, len(l.events))
	copy(out, l.events)
	return out
}

func (l *eventLog) waitFor(t *testing.T, kind engine.EventKind) engine.Event {
	t.Helper()
	deadline := time.After(2 * time.Second)
	for {
		for _, ev := range l.snapshot() {
			if ev.Kind == kind {
				return ev
			}
		}
		select {
		case <-deadline:
			t.Fatalf("no %s event arrived", kind)
		case <-time.After(5 * time.Millisecond):
		}
	}
}

func TestSimulatedPlayer(t *testing.T) {
	t.Run("load delivers a loaded event", func(t *testing.T) {
		log := &eventLog{}
		p := NewSimulatedPlayer(SimOptions{
			Durations:   map[string]float64{"a.mp3": 5},
			LoadLatency: 5 * time.Millisecond,
		}, log.sink)

		p.Load("a.mp3")

		ev := log.waitFor(t, engine.EventLoaded)
		if ev.URL != "a.mp3" {
			t.Errorf("expected loaded event for a.mp3, got %s", ev.URL)
		}
		if p.Duration() != 5 {
			t.Errorf("expected duration 5 after load, got %f", p.Duration())
		}
	})

	t.Run("duration is unknown before the loaded event", func(t *testing.T) {
		log := &eventLog{}
		p := NewSimulatedPlayer(SimOptions{
			Durations:   map[string]float64{"a.mp3": 5},
			LoadLatency: time.Hour,
		}, log.sink)

		p.Load("a.mp3")

		if p.Duration() != 0 {
			t.Errorf("expected zero duration before load completes, got %f", p.Duration())
		}
	})

	t.Run("superseded load never delivers", func(t *testing.T) {
		log := &eventLog{}
		p := NewSimulatedPlayer(SimOptions{
			Durations:   map[string]float64{"a.mp3": 5, "b.mp3": 7},
			LoadLatency: 10 * time.Millisecond,
		}, log.sink)

		p.Load("a.mp3")
		p.Load("b.mp3")

		ev := log.waitFor(t, engine.EventLoaded)
		if ev.URL != "b.mp3" {
			t.Fatalf("expected only the newest load to deliver, got %s", ev.URL)
		}

		time.Sleep(30 * time.Millisecond)
		for _, got := range log.snapshot() {
			if got.Kind == engine.EventLoaded && got.URL == "a.mp3" {
				t.Error("stale load must not deliver")
			}
		}
	})

	t.Run("seek clamps and confirms", func(t *testing.T) {
		log := &eventLog{}
		p := NewSimulatedPlayer(SimOptions{Durations: map[string]float64{"a.mp3": 5}}, log.sink)
		p.Load("a.mp3")

		p.Seek(10)

		ev := log.waitFor(t, engine.EventSeeked)
		if ev.Time != 5 {
			t.Errorf("expected seek clamped to duration 5, got %f", ev.Time)
		}
		if p.CurrentTime() != 5 {
			t.Errorf("expected play head at 5, got %f", p.CurrentTime())
		}

		p.Seek(-1)
		if p.CurrentTime() != 0 {
			t.Errorf("expected negative seek clamped to 0, got %f", p.CurrentTime())
		}
	})

	t.Run("playback advances and ends", func(t *testing.T) {
		log := &eventLog{}
		p := NewSimulatedPlayer(SimOptions{
			Durations:    map[string]float64{"a.mp3": 0.05},
			Rate:         1.0,
			TickInterval: 5 * time.Millisecond,
		}, log.sink)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go p.Run(ctx)

		p.Load("a.mp3")
		log.waitFor(t, engine.EventLoaded)
		p.Play()

		log.waitFor(t, engine.EventTimeUpdate)
		ended := log.waitFor(t, engine.EventEnded)

		if ended.Time != 0.05 {
			t.Errorf("expected ended at duration 0.05, got %f", ended.Time)
		}
		if p.CurrentTime() != 0.05 {
			t.Errorf("expected play head held at the end, got %f", p.CurrentTime())
		}
	})

	t.Run("pause stops the play head", func(t *testing.T) {
		log := &eventLog{}
		p := NewSimulatedPlayer(SimOptions{
			Durations:    map[string]float64{"a.mp3": 100},
			TickInterval: 5 * time.Millisecond,
		}, log.sink)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go p.Run(ctx)

		p.Load("a.mp3")
		log.waitFor(t, engine.EventLoaded)
		p.Play()
		log.waitFor(t, engine.EventTimeUpdate)
		p.Pause()

		pos := p.CurrentTime()
		time.Sleep(25 * time.Millisecond)
		if p.CurrentTime() != pos {
			t.Errorf("expected play head frozen at %f, got %f", pos, p.CurrentTime())
		}
	})
}
