package models

import "fmt"

// PendingSeek describes a seek that cannot be applied yet. Exactly one
// pending seek may be outstanding at any instant; while one is set, periodic
// position sampling is suppressed so stale pre-seek values are never read.
//
// The three concrete variants replace a single reused shape from earlier
// designs, so each guard clears only its own kind:
//
//   - [LoadSeek] : a track switch or initial load needs the new URL's
//     metadata before the seek can be applied
//   - [ExitSeek] : leaving sequence mode, the destination single-track URL
//     must load before resolving the resume sentence into a local time
//   - [DirectSeek] : the URL did not change; the seek was issued directly
//     and the marker only blocks the sampler until the seek is observed
type PendingSeek interface {
	pendingSeek()
	String() string
}

// LoadSeek waits for a new media URL to finish loading, then seeks.
type LoadSeek struct {
	Track         Track   // Track whose URL the host is loading
	TargetTime    float64 // In-track time to seek to once loaded
	AutoPlay      bool    // Resume playback after the seek completes
	SentenceIndex int     // Sentence the target time belongs to
}

func (LoadSeek) pendingSeek() {}

func (p LoadSeek) String() string {
	return fmt.Sprintf("load(%s t=%.3f s%d autoplay=%v)", p.Track, p.TargetTime, p.SentenceIndex, p.AutoPlay)
}

// ExitSeek waits for the destination single-track URL to load, then maps the
// preserved sentence index into that track's native time.
type ExitSeek struct {
	Track         Track // Destination single-track after leaving sequence mode
	SentenceIndex int   // Sentence to resume at once the new timeline exists
	AutoPlay      bool  // Resume playback after the seek completes
}

func (ExitSeek) pendingSeek() {}

func (p ExitSeek) String() string {
	return fmt.Sprintf("exit(%s s%d autoplay=%v)", p.Track, p.SentenceIndex, p.AutoPlay)
}

// DirectSeek marks a seek issued against the already-loaded URL. It exists
// only to suppress the position sampler until the seek is observed, and is
// cleared by a deferred task guarded by the transition token.
type DirectSeek struct {
	TargetTime    float64 // In-track time already handed to the media primitive
	SentenceIndex int     // Sentence the target time belongs to
}

func (DirectSeek) pendingSeek() {}

func (p DirectSeek) String() string {
	return fmt.Sprintf("direct(t=%.3f s%d)", p.TargetTime, p.SentenceIndex)
}
