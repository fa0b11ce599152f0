package engine

import (
	"github.com/charmbracelet/log"
	"github.com/tandemreader/tandem/internal/models"
	"github.com/tandemreader/tandem/internal/plan"
)

// Mode is the coordinator's coarse playback mode.
type Mode int

const (
	// ModeUninitialized means no chunk has been loaded yet.
	ModeUninitialized Mode = iota
	// ModeSingleTrack means one track plays continuously.
	ModeSingleTrack
	// ModeSequence means the two tracks alternate per sentence.
	ModeSequence
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeUninitialized:
		return "uninitialized"
	case ModeSingleTrack:
		return "single-track"
	case ModeSequence:
		return "sequence"
	default:
		return "unknown"
	}
}

// Hooks are the coordinator's outputs to collaborators. All hooks are
// optional and are invoked on the engine's single logical thread.
type Hooks struct {
	// OnSegmentChange fires when the current segment resolves to a new
	// plan index.
	OnSegmentChange func(index int, segment models.Segment)

	// OnTrackChange fires when the effective URL changes, i.e. the host
	// has been asked to load new media.
	OnTrackChange func(track models.Track, url string)

	// OnProgress fires on sampled positions of the effective track, at
	// the sampler's cadence. Consumers throttle further as needed.
	OnProgress func(url string, position float64)

	// OnChunkEnded fires when playback runs past the last playable
	// content of the chunk; chunk-level advancement belongs to the host.
	OnChunkEnded func()
}

// Coordinator is the transition state machine. It owns every mutable field
// of the playback state and is the only component allowed to drive the
// media primitive, apart from the dwell scheduler's boundary pause which it
// invokes itself.
//
// Coordinator is not safe for concurrent use; all calls must come from the
// engine's single logical thread.
type Coordinator struct {
	logger *log.Logger
	media  Media
	clock  Clock
	sched  Scheduler
	cfg    Config
	timing *TimingContext
	dwell  *DwellScheduler
	hooks  Hooks

	// Collaborator-supplied inputs.
	chunk     *models.Chunk
	manifest  *models.Manifest
	plan      *plan.Plan
	flags     models.TrackFlags
	activeURL string

	// Playback state, single-writer-owned.
	mode         Mode
	segmentIndex int
	track        models.Track
	loadedURL    string
	pending      models.PendingSeek
	token        uint64
	playing      bool
}

// NewCoordinator creates a coordinator in the uninitialized state. Both
// tracks start enabled.
func NewCoordinator(logger *log.Logger, media Media, clock Clock, sched Scheduler, cfg Config, timing *TimingContext) *Coordinator {
	cfg = cfg.normalized()
	if timing == nil {
		timing = NewTimingContext()
	}
	return &Coordinator{
		logger:       logger,
		media:        media,
		clock:        clock,
		sched:        sched,
		cfg:          cfg,
		timing:       timing,
		dwell:        NewDwellScheduler(clock, cfg.Dwell, cfg.Epsilon),
		flags:        models.TrackFlags{Original: true, Translation: true},
		mode:         ModeUninitialized,
		segmentIndex: -1,
	}
}

// SetHooks installs the coordinator's output callbacks.
func (c *Coordinator) SetHooks(h Hooks) { c.hooks = h }

// Timing returns the shared timing context.
func (c *Coordinator) Timing() *TimingContext { return c.timing }

// Dwell returns the dwell scheduler, for introspection.
func (c *Coordinator) Dwell() *DwellScheduler { return c.dwell }

// Plan returns the active segment plan.
func (c *Coordinator) Plan() *plan.Plan { return c.plan }

// decision recomputes the track resolution for the current inputs.
func (c *Coordinator) decision() TrackDecision {
	return ResolveTracks(TrackInputs{
		Flags:                  c.flags,
		Manifest:               c.manifest,
		HasOriginalSegments:    c.plan.HasSegments(models.TrackOriginal),
		HasTranslationSegments: c.plan.HasSegments(models.TrackTranslation),
		ActiveURL:              c.activeURL,
		AllowCombined:          true,
	})
}

// SetChunk installs a new chunk and manifest, rebuilding the plan. The
// preserved sentence index carries across the rebuild: the segment index is
// reset to the best match for that sentence, not to zero, except on first
// load.
func (c *Coordinator) SetChunk(chunk *models.Chunk, manifest *models.Manifest) {
	preserved := c.currentSentenceIndex()
	firstLoad := c.mode == ModeUninitialized

	c.chunk = chunk
	c.manifest = manifest
	c.plan = plan.Build(chunk)
	c.dwell.Clear()
	c.timing.ClearLastWord()
	c.pending = nil
	c.bumpToken()

	if c.logger != nil {
		c.logger.Debug("chunk installed", "chunk", chunk.ID, "segments", c.plan.Len())
	}

	dec := c.decision()
	if firstLoad {
		c.mode = ModeSingleTrack
		c.segmentIndex = -1
		c.track = dec.EffectiveTrack
		c.load(dec.EffectiveURL, dec.EffectiveTrack)
		// Nothing is pending, so the transition is already settled.
		c.timing.CompleteTransition(c.token)
		return
	}

	if c.mode == ModeSequence && dec.SequenceFeasible {
		idx, ok := c.plan.Find(preserved, c.track)
		if !ok {
			idx, ok = c.plan.FindAny(preserved)
		}
		if !ok && c.plan.Len() > 0 {
			idx, ok = 0, true
		}
		if ok {
			seg, _ := c.plan.Segment(idx)
			c.beginSegment(idx, seg.Start, c.playing)
			return
		}
	}

	c.mode = ModeSingleTrack
	c.segmentIndex = -1
	c.track = dec.EffectiveTrack
	c.load(dec.EffectiveURL, dec.EffectiveTrack)
	c.timing.CompleteTransition(c.token)
}

// SetFlags applies the user's track-enable toggles. Sequence mode is
// entered automatically when it becomes feasible and left when it stops
// being feasible.
func (c *Coordinator) SetFlags(flags models.TrackFlags) {
	if flags == c.flags {
		return
	}
	c.flags = flags
	dec := c.decision()

	switch {
	case c.mode == ModeSequence && !dec.SequenceFeasible:
		c.exitSequence(dec)
	case c.mode == ModeSingleTrack && dec.SequenceFeasible:
		c.EnterSequence()
	case c.mode == ModeSingleTrack:
		c.applyEffectiveURL(dec)
	}
}

// SetActiveURL installs or clears the host's explicit active-URL override.
func (c *Coordinator) SetActiveURL(url string) {
	if url == c.activeURL {
		return
	}
	c.activeURL = url
	if c.mode == ModeSingleTrack {
		c.applyEffectiveURL(c.decision())
	}
}

// Play marks playback live and resumes the media primitive.
func (c *Coordinator) Play() {
	c.playing = true
	c.media.Play()
}

// Pause halts playback.
func (c *Coordinator) Pause() {
	c.playing = false
	c.media.Pause()
}

// Playing reports the host's playback intent.
func (c *Coordinator) Playing() bool { return c.playing }

// EnterSequence switches from single-track to sequence mode, resolving the
// currently-playing sentence onto the preferred track. Calling it again
// with no intervening state change resolves to the same segment. When
// sequence mode is infeasible it is a no-op.
func (c *Coordinator) EnterSequence() {
	dec := c.decision()
	if !dec.SequenceFeasible {
		if c.logger != nil {
			c.logger.Debug("enter sequence refused", "reason", "infeasible")
		}
		return
	}

	sentence := c.currentSentenceIndex()
	preferred := c.track
	if preferred != models.TrackOriginal && preferred != models.TrackTranslation {
		preferred = dec.DefaultTrack
	}

	idx, ok := c.plan.Find(sentence, preferred)
	if !ok {
		idx, ok = c.plan.FindAny(sentence)
	}
	if !ok {
		if c.plan.Len() == 0 {
			return
		}
		idx = 0
	}

	c.mode = ModeSequence
	c.dwell.Clear()
	seg, _ := c.plan.Segment(idx)
	c.beginSegment(idx, seg.Start, c.playing)
}

// ExitSequence leaves sequence mode for continuous single-track playback on
// whichever URL remains effective.
func (c *Coordinator) ExitSequence() {
	if c.mode != ModeSequence {
		return
	}
	c.exitSequence(c.decision())
}

func (c *Coordinator) exitSequence(dec TrackDecision) {
	sentence := c.currentSentenceIndex()
	c.mode = ModeSingleTrack
	c.dwell.Clear()
	token := c.bumpToken()

	if dec.EffectiveURL == "" {
		// No playable media for this attempt; retry policy belongs to
		// the host.
		return
	}

	dest := dec.EffectiveTrack
	if dec.EffectiveURL != c.loadedURL {
		if idx, ok := c.plan.Find(sentence, dest); ok {
			seg, _ := c.plan.Segment(idx)
			c.setPending(models.LoadSeek{Track: dest, TargetTime: seg.Start, AutoPlay: c.playing, SentenceIndex: sentence}, token)
			c.segmentIndex = idx
		} else {
			c.setPending(models.ExitSeek{Track: dest, SentenceIndex: sentence, AutoPlay: c.playing}, token)
			c.segmentIndex = -1
		}
		c.track = dest
		c.load(dec.EffectiveURL, dest)
		return
	}

	// Destination URL is already loaded: seek directly and keep a
	// matching exit marker that self-clears unless a newer pending
	// request replaced it first.
	c.track = dest
	if idx, ok := c.plan.Find(sentence, dest); ok {
		seg, _ := c.plan.Segment(idx)
		c.segmentIndex = idx
		c.seekMedia(seg.Start)
	}
	pend := models.ExitSeek{Track: dest, SentenceIndex: sentence, AutoPlay: c.playing}
	c.setPending(pend, token)
	c.sched.AfterDelay(c.cfg.ExitClearDelay, func() {
		if c.token != token {
			return
		}
		if cur, ok := c.pending.(models.ExitSeek); ok && cur == pend {
			c.clearPending(token)
		}
	})
	if c.playing {
		c.media.Play()
	}
}

// AdvanceSegment moves to the next segment of the plan. It reports false —
// leaving state untouched — when already at the last segment, so the caller
// can fall through to chunk-level advancement.
func (c *Coordinator) AdvanceSegment(autoPlay bool) bool {
	if c.mode != ModeSequence || c.plan.Len() == 0 {
		return false
	}
	next := c.segmentIndex + 1
	seg, ok := c.plan.Segment(next)
	if !ok {
		return false
	}
	c.beginSegment(next, seg.Start, autoPlay)
	return true
}

// SkipSentence jumps by whole sentences. The destination track follows the
// visible cue lines: with both visible the sentence starts original-first;
// with one visible, that track. A deliberate jump clears dwell and advance
// guards. Reports false when the destination sentence has no coverage.
func (c *Coordinator) SkipSentence(delta int, visible models.TrackFlags) bool {
	if c.plan.Len() == 0 || delta == 0 {
		return false
	}
	target := c.currentSentenceIndex() + delta
	if target < 0 || target > c.plan.MaxSentenceIndex() {
		return false
	}

	var idx int
	var ok bool
	switch {
	case visible.Both() || (!visible.Original && !visible.Translation):
		idx, ok = c.plan.FindAny(target)
	case visible.Original:
		idx, ok = c.plan.Find(target, models.TrackOriginal)
		if !ok {
			idx, ok = c.plan.FindAny(target)
		}
	default:
		idx, ok = c.plan.Find(target, models.TrackTranslation)
		if !ok {
			idx, ok = c.plan.FindAny(target)
		}
	}
	if !ok {
		return false
	}

	c.dwell.Clear()
	seg, _ := c.plan.Segment(idx)
	if c.mode == ModeSequence {
		c.beginSegment(idx, seg.Start, c.playing)
	} else {
		c.segmentIndex = idx
		c.directSeek(seg.Start, seg.SentenceIndex, c.playing)
	}
	return true
}

// SeekToToken seeks to a clicked or selected word: the exact token time on
// the token's track. When the token's track is already loaded the seek is
// direct; otherwise it runs the track-switch transition with the token time
// in place of the segment's nominal start.
func (c *Coordinator) SeekToToken(sentenceIndex int, track models.Track, tokenTime float64) bool {
	idx, ok := c.plan.Find(sentenceIndex, track)
	if !ok {
		return false
	}
	seg, _ := c.plan.Segment(idx)
	t := tokenTime
	if t < seg.Start || t > seg.End {
		t = seg.Start
	}
	c.dwell.Clear()
	c.beginSegment(idx, t, c.playing)
	return true
}

// ApplyResume maps a stored virtual position on the given track back into
// playback state: in sequence mode through the plan, otherwise as a direct
// clamped seek.
func (c *Coordinator) ApplyResume(track models.Track, position float64, autoPlay bool) {
	if c.mode == ModeSequence {
		if res, ok := plan.Resolve(c.plan, track, position, c.cfg.Epsilon); ok {
			c.beginSegment(res.SegmentIndex, res.TrackTime, autoPlay)
			return
		}
	}
	// Direct ungated seek on the raw media position.
	c.directSeek(position, c.currentSentenceIndex(), autoPlay)
}

// beginSegment is the shared transition core: it moves the current segment
// pointer and either seeks within the loaded URL or defers the seek behind
// a load of the segment track's URL. Every path increments the transition
// token first, so stale deferred completions become no-ops.
func (c *Coordinator) beginSegment(idx int, startTime float64, autoPlay bool) {
	seg, ok := c.plan.Segment(idx)
	if !ok {
		return
	}
	targetURL := c.manifest.URLFor(seg.Track)
	if targetURL == "" {
		// Plan gap: this track has no media; stay put and let the
		// caller fall back.
		if c.logger != nil {
			c.logger.Warn("no media for track", "track", seg.Track)
		}
		return
	}

	token := c.bumpToken()
	c.segmentIndex = idx
	c.track = seg.Track
	if c.hooks.OnSegmentChange != nil {
		c.hooks.OnSegmentChange(idx, seg)
	}

	if targetURL != c.loadedURL {
		c.setPending(models.LoadSeek{
			Track:         seg.Track,
			TargetTime:    startTime,
			AutoPlay:      autoPlay,
			SentenceIndex: seg.SentenceIndex,
		}, token)
		c.media.Pause()
		c.load(targetURL, seg.Track)
		return
	}

	c.directSeekToken(token, startTime, seg.SentenceIndex, autoPlay)
}

// directSeek issues a seek against the loaded URL under a fresh token.
func (c *Coordinator) directSeek(t float64, sentenceIndex int, autoPlay bool) {
	c.directSeekToken(c.bumpToken(), t, sentenceIndex, autoPlay)
}

// directSeekToken seeks within the already-loaded URL, holding a DirectSeek
// marker that blocks the position sampler until the seek has been observed.
// The marker self-clears after the loop settles twice, unless a newer
// transition superseded it.
func (c *Coordinator) directSeekToken(token uint64, t float64, sentenceIndex int, autoPlay bool) {
	c.setPending(models.DirectSeek{TargetTime: t, SentenceIndex: sentenceIndex}, token)
	c.seekMedia(t)
	if autoPlay {
		c.media.Play()
	}
	c.sched.AfterSettle(func() {
		c.sched.AfterSettle(func() {
			if c.token != token {
				return
			}
			if _, ok := c.pending.(models.DirectSeek); ok {
				c.clearPending(token)
			}
		})
	})
}

// HandleEvent dispatches one media primitive notification.
func (c *Coordinator) HandleEvent(ev Event) {
	switch ev.Kind {
	case EventLoaded:
		c.handleLoaded(ev.URL)
	case EventTimeUpdate:
		c.handleTimeUpdate(ev.Time)
	case EventSeeked:
		c.handleSeeked(ev.Time)
	case EventEnded:
		c.handleEnded()
	}
}

// handleLoaded completes a pending seek once the awaited URL's metadata is
// available. Loads that no longer match the coordinator's requested URL are
// stale and ignored.
func (c *Coordinator) handleLoaded(url string) {
	if url != c.loadedURL {
		if c.logger != nil {
			c.logger.Debug("stale load ignored", "url", url)
		}
		return
	}

	switch p := c.pending.(type) {
	case models.LoadSeek:
		c.directSeekToken(c.token, p.TargetTime, p.SentenceIndex, p.AutoPlay)
	case models.ExitSeek:
		// The destination timeline exists now; map the preserved
		// sentence into it through the plan.
		if idx, ok := c.plan.Find(p.SentenceIndex, p.Track); ok {
			seg, _ := c.plan.Segment(idx)
			c.segmentIndex = idx
			c.directSeekToken(c.token, seg.Start, p.SentenceIndex, p.AutoPlay)
			return
		}
		// No matching timeline: fall back to proportional scaling.
		t := plan.ScaleFallback(c.media.CurrentTime(), c.otherDuration(p.Track), c.media.Duration())
		c.directSeekToken(c.token, t, p.SentenceIndex, p.AutoPlay)
	}
}

// handleTimeUpdate runs the sampling path for one position report. While a
// pending seek is outstanding the update is dropped entirely: the reported
// position predates the seek and the dwell scheduler must not see it.
func (c *Coordinator) handleTimeUpdate(t float64) {
	if c.pending != nil {
		return
	}

	if c.hooks.OnProgress != nil && c.loadedURL != "" {
		c.hooks.OnProgress(c.loadedURL, t)
	}

	if c.mode != ModeSequence || !c.playing {
		return
	}

	seg, ok := c.plan.Segment(c.segmentIndex)
	if !ok {
		return
	}
	isLast := c.segmentIndex == c.plan.Len()-1
	decision := c.dwell.Observe(t, seg.End, c.segmentIndex, isLast, c.media.Pause)
	if decision == DwellAdvance {
		if !c.AdvanceSegment(true) && c.hooks.OnChunkEnded != nil {
			c.hooks.OnChunkEnded()
		}
	}
}

// handleSeeked clears a direct-seek marker once the primitive confirms the
// seek was applied.
func (c *Coordinator) handleSeeked(_ float64) {
	if _, ok := c.pending.(models.DirectSeek); ok {
		c.clearPending(c.token)
	}
}

// handleEnded handles end-of-file on the loaded track. In sequence mode an
// ended mid-plan behaves like a boundary advance; at the end of the plan,
// and always in single-track mode, chunk-level handling fires.
func (c *Coordinator) handleEnded() {
	if c.mode == ModeSequence && c.AdvanceSegment(true) {
		return
	}
	c.playing = false
	if c.hooks.OnChunkEnded != nil {
		c.hooks.OnChunkEnded()
	}
}

// Sample feeds the sampler tick with the primitive's current position.
func (c *Coordinator) Sample() {
	if c.pending != nil {
		return
	}
	c.handleTimeUpdate(c.media.CurrentTime())
}

// currentSentenceIndex derives the logical sentence the play head is in.
// In sequence mode the segment pointer is authoritative; in single-track
// mode the play head moves without the pointer following, so the position
// is mapped through the plan instead.
func (c *Coordinator) currentSentenceIndex() int {
	if c.mode == ModeSequence {
		if seg, ok := c.plan.Segment(c.segmentIndex); ok {
			return seg.SentenceIndex
		}
	}
	if c.plan.Len() > 0 && (c.track == models.TrackOriginal || c.track == models.TrackTranslation) {
		if idx, ok := c.plan.FindAt(c.track, c.media.CurrentTime(), c.cfg.Epsilon); ok {
			seg, _ := c.plan.Segment(idx)
			return seg.SentenceIndex
		}
	}
	if seg, ok := c.plan.Segment(c.segmentIndex); ok {
		return seg.SentenceIndex
	}
	return 0
}

// applyEffectiveURL reloads media in single-track mode when the effective
// URL changed, preserving the current sentence.
func (c *Coordinator) applyEffectiveURL(dec TrackDecision) {
	if dec.EffectiveURL == "" || dec.EffectiveURL == c.loadedURL {
		return
	}
	sentence := c.currentSentenceIndex()
	token := c.bumpToken()
	dest := dec.EffectiveTrack
	if idx, ok := c.plan.Find(sentence, dest); ok {
		seg, _ := c.plan.Segment(idx)
		c.segmentIndex = idx
		c.setPending(models.LoadSeek{Track: dest, TargetTime: seg.Start, AutoPlay: c.playing, SentenceIndex: sentence}, token)
	} else {
		c.setPending(models.ExitSeek{Track: dest, SentenceIndex: sentence, AutoPlay: c.playing}, token)
	}
	c.track = dest
	c.load(dec.EffectiveURL, dest)
}

// load asks the host's media primitive for a new URL and records it as the
// coordinator's loaded URL immediately; the loaded event confirms later.
func (c *Coordinator) load(url string, track models.Track) {
	if url == "" || url == c.loadedURL {
		return
	}
	c.loadedURL = url
	c.media.Load(url)
	if c.hooks.OnTrackChange != nil {
		c.hooks.OnTrackChange(track, url)
	}
}

// seekMedia clamps a seek into the known duration before issuing it.
func (c *Coordinator) seekMedia(t float64) {
	if t < 0 {
		t = 0
	}
	if d := c.media.Duration(); d > 0 && t > d-c.cfg.Epsilon {
		t = d - c.cfg.Epsilon
		if t < 0 {
			t = 0
		}
	}
	c.media.Seek(t)
}

// otherDuration returns the declared duration of the track being left,
// for the proportional fallback.
func (c *Coordinator) otherDuration(dest models.Track) float64 {
	if c.chunk == nil {
		return 0
	}
	return c.chunk.DurationFor(dest.Other())
}

// bumpToken advances the monotonic transition token and signals the timing
// context. Deferred completions capture the returned value and compare it
// against the live token before acting.
func (c *Coordinator) bumpToken() uint64 {
	c.token++
	c.timing.BeginTransition(c.token)
	return c.token
}

// setPending installs a pending seek for the given transition.
func (c *Coordinator) setPending(p models.PendingSeek, token uint64) {
	c.pending = p
	if c.logger != nil {
		c.logger.Debug("pending seek set", "pending", p.String(), "token", token)
	}
}

// clearPending removes the pending seek and completes the transition.
func (c *Coordinator) clearPending(token uint64) {
	c.pending = nil
	c.timing.CompleteTransition(token)
}

// Token returns the live transition token.
func (c *Coordinator) Token() uint64 { return c.token }

// PendingSeek returns the outstanding pending seek, if any.
func (c *Coordinator) PendingSeek() models.PendingSeek { return c.pending }

// Mode returns the coarse playback mode.
func (c *Coordinator) Mode() Mode { return c.mode }

// SegmentIndex returns the current plan index, or -1 when unset.
func (c *Coordinator) SegmentIndex() int { return c.segmentIndex }

// CurrentTrack returns the track the coordinator considers current.
func (c *Coordinator) CurrentTrack() models.Track { return c.track }

// LoadedURL returns the URL the host should currently have loaded.
func (c *Coordinator) LoadedURL() string { return c.loadedURL }

// EffectiveURL returns the single URL that is effective right now.
func (c *Coordinator) EffectiveURL() string {
	if c.mode == ModeSequence {
		return c.manifest.URLFor(c.track)
	}
	return c.decision().EffectiveURL
}
