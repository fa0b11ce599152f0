package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tandemreader/tandem/internal/content"
	"github.com/tandemreader/tandem/internal/engine"
	"github.com/tandemreader/tandem/internal/media"
	"github.com/tandemreader/tandem/internal/models"
	"github.com/tandemreader/tandem/internal/progress"
	"github.com/tandemreader/tandem/internal/repositories"
	"github.com/tandemreader/tandem/internal/shared"
)

// Options configures one playback run.
type Options struct {
	Sequence bool    // Enter alternating dual-track playback
	Resume   bool    // Restore the stored bookmark position
	Rate     float64 // Play-head speed multiplier; 1.0 is real time
}

// Result contains the outcome of a playback run.
type Result struct {
	ChunkID        string          // Chunk that was played
	Snapshot       engine.Snapshot // Final engine state
	SegmentsPlayed int             // Segment transitions observed
	Resumed        bool            // A bookmark position was restored
	Completed      bool            // Playback reached the end of the chunk
}

// SessionEngine defines the playback session lifecycle.
type SessionEngine interface {
	// Open loads a chunk from the library and prepares the engine around it.
	Open(updates chan<- ProgressUpdate, chunkID string) error

	// Run drives playback until the chunk ends or ctx is cancelled.
	Run(ctx context.Context, updates chan<- ProgressUpdate, opts Options) (*Result, error)

	// Snapshot reports the engine's current state.
	Snapshot() engine.Snapshot
}

// Session implements SessionEngine around one chunk at a time.
type Session struct {
	logger  *log.Logger
	library *content.Library
	repo    *repositories.BookmarkRepository
	cfg     *shared.Config

	chunk    *models.Chunk
	manifest *models.Manifest
	loop     *engine.Loop
	player   *media.SimulatedPlayer
	emitter  *progress.Emitter
	timing   *engine.TimingContext
}

// NewSession creates a session over the given library. The bookmark
// repository is optional; without it positions are not persisted.
func NewSession(logger *log.Logger, library *content.Library, repo *repositories.BookmarkRepository, cfg *shared.Config) *Session {
	if cfg == nil {
		cfg = shared.DefaultConfig()
	}
	return &Session{logger: logger, library: library, repo: repo, cfg: cfg}
}

// Open loads a chunk from the library and prepares the engine around it.
func (s *Session) Open(updates chan<- ProgressUpdate, chunkID string) error {
	send(updates, loadChunkUpdate(chunkID))

	chunk, manifest, err := s.library.Load(chunkID)
	if err != nil {
		return fmt.Errorf("failed to open chunk: %w", err)
	}
	s.chunk = chunk
	s.manifest = manifest
	s.timing = engine.NewTimingContext()

	s.player = media.NewSimulatedPlayer(media.SimOptions{
		Durations: map[string]float64{
			manifest.OriginalURL:    manifest.OriginalDuration,
			manifest.TranslationURL: manifest.TranslationDuration,
		},
		LoadLatency:  s.cfg.Playback.LoadLatency(),
		TickInterval: s.cfg.Playback.SamplerInterval(),
	}, s.deliver)

	engineCfg := engine.Config{
		Dwell:           s.cfg.Playback.Dwell(),
		ExitClearDelay:  s.cfg.Playback.ExitClear(),
		SamplerInterval: s.cfg.Playback.SamplerInterval(),
		Epsilon:         s.cfg.Playback.Epsilon,
	}
	s.loop = engine.NewLoop(s.logger, s.player, engineCfg, s.timing)

	// The emitter's sink runs on the loop goroutine, so touching the
	// coordinator directly here is safe.
	s.emitter = progress.NewEmitter(s.cfg.Playback.ProgressInterval(), s.persist)

	s.loop.Coordinator().SetChunk(chunk, manifest)
	send(updates, buildPlanUpdate(s.loop.Coordinator().Plan().Len()))
	return nil
}

// Run drives playback until the chunk ends or ctx is cancelled.
func (s *Session) Run(ctx context.Context, updates chan<- ProgressUpdate, opts Options) (*Result, error) {
	if s.loop == nil {
		return nil, fmt.Errorf("session not opened")
	}
	if opts.Rate > 0 {
		s.player.SetRate(opts.Rate)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	ended := make(chan struct{})
	var endOnce sync.Once
	var segMu sync.Mutex
	segmentsPlayed := 0

	total := s.loop.Coordinator().Plan().Len()
	s.loop.SetHooks(engine.Hooks{
		OnSegmentChange: func(index int, segment models.Segment) {
			segMu.Lock()
			segmentsPlayed++
			segMu.Unlock()
			send(updates, segmentUpdate(index, total, segment))
		},
		OnTrackChange: func(track models.Track, url string) {
			send(updates, trackUpdate(track, url))
		},
		OnProgress: s.emitter.Emit,
		OnChunkEnded: func() {
			endOnce.Do(func() { close(ended) })
		},
	})

	go s.loop.Run(runCtx)
	go s.player.Run(runCtx)

	resumed := s.applyResume(updates, opts)
	if opts.Sequence {
		s.loop.EnterSequence()
	}
	s.loop.Play()

	completed := false
	select {
	case <-ended:
		completed = true
	case <-ctx.Done():
	}

	snap := s.loop.Snapshot()
	if snap.LoadedURL != "" {
		// The loop goroutine may still be draining, so record the final
		// position from the snapshot instead of flushing the emitter.
		s.recordFinal(snap)
		send(updates, persistUpdate(snap.Position))
	}
	send(updates, doneUpdate(s.chunk.ID))

	segMu.Lock()
	played := segmentsPlayed
	segMu.Unlock()

	return &Result{
		ChunkID:        s.chunk.ID,
		Snapshot:       snap,
		SegmentsPlayed: played,
		Resumed:        resumed,
		Completed:      completed,
	}, nil
}

// Snapshot reports the engine's current state.
func (s *Session) Snapshot() engine.Snapshot {
	if s.loop == nil {
		return engine.Snapshot{}
	}
	return s.loop.Snapshot()
}

// Loop exposes the running engine loop for interactive hosts.
func (s *Session) Loop() *engine.Loop { return s.loop }

// Chunk returns the opened chunk, or nil.
func (s *Session) Chunk() *models.Chunk { return s.chunk }

// Manifest returns the opened chunk's manifest, or nil.
func (s *Session) Manifest() *models.Manifest { return s.manifest }

// Timing returns the session's shared timing context.
func (s *Session) Timing() *engine.TimingContext { return s.timing }

// deliver forwards simulated player events to the loop.
func (s *Session) deliver(ev engine.Event) {
	if s.loop != nil {
		s.loop.Deliver(ev)
	}
}

// applyResume restores the stored bookmark, reporting whether one applied.
func (s *Session) applyResume(updates chan<- ProgressUpdate, opts Options) bool {
	if !opts.Resume || s.repo == nil {
		return false
	}

	bookmarks, err := s.repo.GetByChunkID(s.chunk.ID)
	if err != nil || len(bookmarks) == 0 {
		return false
	}

	// The most recently updated bookmark wins.
	latest := bookmarks[0]
	for _, b := range bookmarks[1:] {
		if b.UpdatedAt().After(latest.UpdatedAt()) {
			latest = b
		}
	}

	send(updates, resumeUpdate(latest.Track(), latest.Position()))
	s.loop.ApplyResume(latest.Track(), latest.Position(), false)
	return true
}

// recordFinal writes the end-of-run position from a settled snapshot.
func (s *Session) recordFinal(snap engine.Snapshot) {
	if s.repo == nil {
		return
	}
	track := s.trackForURL(snap.LoadedURL)
	if _, err := s.repo.Record(s.chunk.ID, snap.LoadedURL, track, snap.Position, snap.SentenceIndex); err != nil && s.logger != nil {
		s.logger.Warn("failed to persist final position", "url", snap.LoadedURL, "error", err)
	}
}

// persist records one throttled position into the bookmark store. Runs on
// the loop goroutine.
func (s *Session) persist(u progress.Update) {
	if s.repo == nil {
		return
	}
	track := s.trackForURL(u.URL)
	sentence := s.loop.Coordinator().Snapshot().SentenceIndex
	if _, err := s.repo.Record(s.chunk.ID, u.URL, track, u.Position, sentence); err != nil && s.logger != nil {
		s.logger.Warn("failed to persist position", "url", u.URL, "error", err)
	}
}

// trackForURL matches a URL back to its manifest track.
func (s *Session) trackForURL(url string) models.Track {
	switch url {
	case s.manifest.OriginalURL:
		return models.TrackOriginal
	case s.manifest.TranslationURL:
		return models.TrackTranslation
	case s.manifest.CombinedURL:
		return models.TrackCombined
	default:
		return models.TrackNone
	}
}
