package engine

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/tandemreader/tandem/internal/models"
)

// Loop runs the coordinator on one goroutine. Commands from the host, media
// primitive events, sampler ticks, and deferred completions are all
// processed in arrival order on that goroutine; nothing else may touch the
// coordinator while the loop runs.
type Loop struct {
	logger *log.Logger
	co     *Coordinator
	cfg    Config

	cmds   chan func()
	events chan Event
	settle []func()

	done chan struct{}
}

// NewLoop creates a loop and its coordinator.
func NewLoop(logger *log.Logger, media Media, cfg Config, timing *TimingContext) *Loop {
	cfg = cfg.normalized()
	l := &Loop{
		logger: logger,
		cfg:    cfg,
		cmds:   make(chan func(), 64),
		events: make(chan Event, 64),
		done:   make(chan struct{}),
	}
	l.co = NewCoordinator(logger, media, SystemClock(), l, cfg, timing)
	return l
}

// Coordinator returns the owned coordinator. Callers outside the loop
// goroutine must go through Do or the typed wrappers instead of calling it
// directly.
func (l *Loop) Coordinator() *Coordinator { return l.co }

// Run processes messages until ctx is cancelled. It must be called exactly
// once.
func (l *Loop) Run(ctx context.Context) {
	defer close(l.done)

	ticker := time.NewTicker(l.cfg.SamplerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case fn := <-l.cmds:
			fn()
		case ev := <-l.events:
			l.co.HandleEvent(ev)
		case <-ticker.C:
			if l.co.Playing() {
				l.co.Sample()
			}
		}
		l.drainSettle()
	}
}

// drainSettle runs the deferred tasks queued before this pass. Tasks that
// enqueue further settle work wait for the next message or tick, which is
// what gives AfterSettle its "after current state settles" meaning.
func (l *Loop) drainSettle() {
	tasks := l.settle
	l.settle = nil
	for _, fn := range tasks {
		fn()
	}
}

// AfterSettle implements Scheduler. It must only be called from the loop
// goroutine, which is where all coordinator code runs.
func (l *Loop) AfterSettle(fn func()) {
	l.settle = append(l.settle, fn)
}

// AfterDelay implements Scheduler: fn is posted back onto the loop after at
// least d.
func (l *Loop) AfterDelay(d time.Duration, fn func()) {
	time.AfterFunc(d, func() {
		l.post(fn)
	})
}

// post enqueues a command, dropping it if the loop has stopped.
func (l *Loop) post(fn func()) {
	select {
	case l.cmds <- fn:
	case <-l.done:
	}
}

// Deliver hands a media primitive event to the loop. Safe from any
// goroutine.
func (l *Loop) Deliver(ev Event) {
	select {
	case l.events <- ev:
	case <-l.done:
	}
}

// SetChunk installs a chunk and manifest.
func (l *Loop) SetChunk(chunk *models.Chunk, manifest *models.Manifest) {
	l.post(func() { l.co.SetChunk(chunk, manifest) })
}

// SetFlags applies track-enable toggles.
func (l *Loop) SetFlags(flags models.TrackFlags) {
	l.post(func() { l.co.SetFlags(flags) })
}

// SetHooks installs output callbacks.
func (l *Loop) SetHooks(h Hooks) {
	l.post(func() { l.co.SetHooks(h) })
}

// Play resumes playback.
func (l *Loop) Play() { l.post(l.co.Play) }

// Pause halts playback.
func (l *Loop) Pause() { l.post(l.co.Pause) }

// EnterSequence switches to alternating dual-track playback.
func (l *Loop) EnterSequence() { l.post(l.co.EnterSequence) }

// ExitSequence returns to continuous single-track playback.
func (l *Loop) ExitSequence() { l.post(l.co.ExitSequence) }

// SkipSentence jumps by whole sentences.
func (l *Loop) SkipSentence(delta int, visible models.TrackFlags) {
	l.post(func() { l.co.SkipSentence(delta, visible) })
}

// SeekToToken seeks to a clicked word.
func (l *Loop) SeekToToken(sentenceIndex int, track models.Track, tokenTime float64) {
	l.post(func() { l.co.SeekToToken(sentenceIndex, track, tokenTime) })
}

// ApplyResume restores a stored position.
func (l *Loop) ApplyResume(track models.Track, position float64, autoPlay bool) {
	l.post(func() { l.co.ApplyResume(track, position, autoPlay) })
}

// Snapshot captures coordinator state from any goroutine. It blocks until
// the loop services the request or stops.
func (l *Loop) Snapshot() Snapshot {
	reply := make(chan Snapshot, 1)
	l.post(func() { reply <- l.co.Snapshot() })
	select {
	case s := <-reply:
		return s
	case <-l.done:
		return Snapshot{}
	}
}
