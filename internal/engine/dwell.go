package engine

import "time"

// DwellDecision is the outcome of one boundary observation.
type DwellDecision int

const (
	// DwellNotAtBoundary means the play head has not reached the current
	// segment's end yet; any dwell state was cleared.
	DwellNotAtBoundary DwellDecision = iota
	// DwellHolding means the boundary was reached but advancement is not
	// due: the quiet period is still running, the segment was just
	// advanced from, or it is the plan's last segment.
	DwellHolding
	// DwellAdvance means the quiet period elapsed and the caller should
	// advance to the next segment with autoplay.
	DwellAdvance
)

// DwellScheduler holds playback at segment boundaries. When the play head
// first reaches a segment's end it pauses the media primitive — stopping
// audio bleed into the next sentence — and only after a fixed quiet period
// reports that advancement is due, leaving the final word's highlight
// visible meanwhile.
//
// Callers must not invoke Observe while a pending seek is outstanding; the
// position being observed would be stale.
type DwellScheduler struct {
	clock    Clock
	dwell    time.Duration
	epsilon  float64

	startedAt        time.Time
	lastAdvancedFrom int
}

// NewDwellScheduler creates a dwell scheduler with the given quiet period
// and boundary tolerance.
func NewDwellScheduler(clock Clock, dwell time.Duration, epsilon float64) *DwellScheduler {
	return &DwellScheduler{
		clock:            clock,
		dwell:            dwell,
		epsilon:          epsilon,
		lastAdvancedFrom: -1,
	}
}

// Observe evaluates one position update against the current segment's end
// boundary. pause is called exactly once per boundary, when the dwell
// starts.
func (d *DwellScheduler) Observe(position, segmentEnd float64, segmentIndex int, isLast bool, pause func()) DwellDecision {
	if position < segmentEnd-d.epsilon {
		d.Clear()
		return DwellNotAtBoundary
	}

	// An advance from this index already happened and the clock has not
	// visibly moved; re-entering the dwell now would loop
	// advance -> dwell -> advance forever.
	if d.lastAdvancedFrom == segmentIndex {
		return DwellHolding
	}

	// The ended event, not the dwell scheduler, owns chunk-level
	// advancement past the final segment.
	if isLast {
		return DwellHolding
	}

	if d.startedAt.IsZero() {
		pause()
		d.startedAt = d.clock.Now()
		return DwellHolding
	}

	if d.clock.Now().Sub(d.startedAt) < d.dwell {
		return DwellHolding
	}

	d.startedAt = time.Time{}
	d.lastAdvancedFrom = segmentIndex
	return DwellAdvance
}

// Clear resets dwell and advance guards, e.g. after a deliberate jump.
func (d *DwellScheduler) Clear() {
	d.startedAt = time.Time{}
	d.lastAdvancedFrom = -1
}

// StartedAt returns when the current dwell began, or the zero time.
func (d *DwellScheduler) StartedAt() time.Time {
	return d.startedAt
}

// LastAdvancedFrom returns the segment index most recently advanced from,
// or -1.
func (d *DwellScheduler) LastAdvancedFrom() int {
	return d.lastAdvancedFrom
}
