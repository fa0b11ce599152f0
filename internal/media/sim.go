// Package media provides an in-process stand-in for the platform's native
// media-playback primitive.
//
// [SimulatedPlayer] implements the engine's Media interface with a
// wall-clock play head, per-URL durations, and configurable load latency,
// and delivers loaded/timeupdate/ended/seeked events the way a real
// platform audio stack would. The CLI and TUI hosts drive the engine
// against it; no audio is decoded.
package media

import (
	"context"
	"sync"
	"time"

	"github.com/tandemreader/tandem/internal/engine"
)

// SimOptions configures a simulated player.
type SimOptions struct {
	// Durations maps media URLs to their total length in seconds.
	Durations map[string]float64

	// LoadLatency is the simulated delay between Load and the loaded
	// event.
	LoadLatency time.Duration

	// Rate is the play-head speed multiplier; 1.0 is real time.
	Rate float64

	// TickInterval is how often timeupdate events are delivered while
	// playing.
	TickInterval time.Duration
}

// SimulatedPlayer is a clock-driven fake media primitive.
type SimulatedPlayer struct {
	sink func(engine.Event)
	opts SimOptions

	mu       sync.Mutex
	url      string
	loaded   bool
	playing  bool
	pos      float64
	lastTick time.Time
	loadSeq  int
}

// NewSimulatedPlayer creates a simulated player delivering events to sink.
func NewSimulatedPlayer(opts SimOptions, sink func(engine.Event)) *SimulatedPlayer {
	if opts.Rate <= 0 {
		opts.Rate = 1.0
	}
	if opts.TickInterval <= 0 {
		opts.TickInterval = 50 * time.Millisecond
	}
	return &SimulatedPlayer{sink: sink, opts: opts}
}

// Load begins loading a URL; the loaded event arrives after the configured
// latency unless a newer load superseded this one.
func (p *SimulatedPlayer) Load(url string) {
	p.mu.Lock()
	p.url = url
	p.loaded = false
	p.playing = false
	p.pos = 0
	p.loadSeq++
	seq := p.loadSeq
	p.mu.Unlock()

	deliver := func() {
		p.mu.Lock()
		stale := seq != p.loadSeq
		if !stale {
			p.loaded = true
		}
		p.mu.Unlock()
		if !stale {
			p.sink(engine.Event{Kind: engine.EventLoaded, URL: url})
		}
	}
	if p.opts.LoadLatency <= 0 {
		deliver()
		return
	}
	time.AfterFunc(p.opts.LoadLatency, deliver)
}

// Play resumes the play head.
func (p *SimulatedPlayer) Play() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = true
	p.lastTick = time.Now()
}

// SetRate changes the play-head speed multiplier.
func (p *SimulatedPlayer) SetRate(rate float64) {
	if rate <= 0 {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.opts.Rate = rate
}

// Pause halts the play head.
func (p *SimulatedPlayer) Pause() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.playing = false
}

// Seek moves the play head and delivers a seeked event.
func (p *SimulatedPlayer) Seek(seconds float64) {
	p.mu.Lock()
	if seconds < 0 {
		seconds = 0
	}
	if d := p.durationLocked(); d > 0 && seconds > d {
		seconds = d
	}
	p.pos = seconds
	p.lastTick = time.Now()
	p.mu.Unlock()
	p.sink(engine.Event{Kind: engine.EventSeeked, Time: seconds})
}

// CurrentTime returns the play head position in seconds.
func (p *SimulatedPlayer) CurrentTime() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.pos
}

// Duration returns the loaded URL's duration, or zero before metadata is
// available.
func (p *SimulatedPlayer) Duration() float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		return 0
	}
	return p.durationLocked()
}

func (p *SimulatedPlayer) durationLocked() float64 {
	return p.opts.Durations[p.url]
}

// Run advances the play head until ctx is cancelled, delivering timeupdate
// and ended events while playing.
func (p *SimulatedPlayer) Run(ctx context.Context) {
	ticker := time.NewTicker(p.opts.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if ev, ok := p.advance(now); ok {
				p.sink(ev)
			}
		}
	}
}

// advance moves the play head by the elapsed wall time and reports the
// event to deliver, if any.
func (p *SimulatedPlayer) advance(now time.Time) (engine.Event, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.playing || !p.loaded {
		return engine.Event{}, false
	}

	elapsed := now.Sub(p.lastTick).Seconds() * p.opts.Rate
	p.lastTick = now
	p.pos += elapsed

	if d := p.durationLocked(); d > 0 && p.pos >= d {
		p.pos = d
		p.playing = false
		return engine.Event{Kind: engine.EventEnded, Time: p.pos}, true
	}
	return engine.Event{Kind: engine.EventTimeUpdate, Time: p.pos}, true
}
