package plan

import "github.com/tandemreader/tandem/internal/models"

// Resolution is the result of mapping a virtual position into the plan.
type Resolution struct {
	SegmentIndex  int     // Index into the plan
	TrackTime     float64 // In-track time, seconds in the track's file
	SentenceIndex int     // Sentence the resolved time falls in
}

// Resolve maps a desired virtual position on the given track into a
// concrete (track-local time, sentence index) pair.
//
// It locates the segment on the track whose range contains t within epsilon
// tolerance; failing that, the first segment on the track starting after t;
// failing that, the last segment on the track. The returned time is clamped
// into the chosen segment's range.
func Resolve(p *Plan, track models.Track, t, epsilon float64) (Resolution, bool) {
	if p == nil {
		return Resolution{}, false
	}

	if idx, ok := p.FindAt(track, t, epsilon); ok {
		seg, _ := p.Segment(idx)
		return Resolution{SegmentIndex: idx, TrackTime: clampInto(t, seg), SentenceIndex: seg.SentenceIndex}, true
	}

	lastIdx := -1
	for i, s := range p.segments {
		if s.Track != track {
			continue
		}
		lastIdx = i
		if s.Start > t {
			return Resolution{SegmentIndex: i, TrackTime: s.Start, SentenceIndex: s.SentenceIndex}, true
		}
	}

	if lastIdx >= 0 {
		seg := p.segments[lastIdx]
		return Resolution{SegmentIndex: lastIdx, TrackTime: clampInto(t, seg), SentenceIndex: seg.SentenceIndex}, true
	}

	return Resolution{}, false
}

// ScaleFallback proportionally maps a position between two timelines of
// known total duration. It is the last-resort mapping used only when no
// plan exists at all; with a plan, Resolve maps through native segment
// times instead of guessing by ratio.
func ScaleFallback(position, fromDuration, toDuration float64) float64 {
	if fromDuration <= 0 || toDuration <= 0 {
		return 0
	}
	scaled := position / fromDuration * toDuration
	if scaled < 0 {
		return 0
	}
	if scaled > toDuration {
		return toDuration
	}
	return scaled
}

// clampInto forces t inside the segment's range.
func clampInto(t float64, seg models.Segment) float64 {
	if t < seg.Start {
		return seg.Start
	}
	if t > seg.End {
		return seg.End
	}
	return t
}
