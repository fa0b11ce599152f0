package plan

import (
	"fmt"
	"strings"

	"github.com/tandemreader/tandem/internal/models"
)

// Plan is the ordered sequence of playable segments for one chunk. Segments
// are sorted by sentence index, original track before translation within a
// sentence, so global order matches the alternating listening order.
type Plan struct {
	chunkID  string
	segments []models.Segment
}

// ChunkID returns the identity of the chunk this plan was built from.
func (p *Plan) ChunkID() string {
	if p == nil {
		return ""
	}
	return p.chunkID
}

// Len returns the number of segments in the plan.
func (p *Plan) Len() int {
	if p == nil {
		return 0
	}
	return len(p.segments)
}

// Segment returns the segment at index i.
func (p *Plan) Segment(i int) (models.Segment, bool) {
	if p == nil || i < 0 || i >= len(p.segments) {
		return models.Segment{}, false
	}
	return p.segments[i], true
}

// Segments returns a copy of the full segment list.
func (p *Plan) Segments() []models.Segment {
	if p == nil {
		return nil
	}
	out := make([]models.Segment, len(p.segments))
	copy(out, p.segments)
	return out
}

// HasSegments reports whether the plan contains at least one segment for
// the given track. Sequence mode is infeasible for any track without
// coverage.
func (p *Plan) HasSegments(track models.Track) bool {
	if p == nil {
		return false
	}
	for _, s := range p.segments {
		if s.Track == track {
			return true
		}
	}
	return false
}

// SegmentsForTrack returns the segments belonging to one track, in start
// order.
func (p *Plan) SegmentsForTrack(track models.Track) []models.Segment {
	if p == nil {
		return nil
	}
	var out []models.Segment
	for _, s := range p.segments {
		if s.Track == track {
			out = append(out, s)
		}
	}
	return out
}

// Find returns the index of the segment for the given sentence on the given
// track.
func (p *Plan) Find(sentenceIndex int, track models.Track) (int, bool) {
	if p == nil {
		return 0, false
	}
	for i, s := range p.segments {
		if s.SentenceIndex == sentenceIndex && s.Track == track {
			return i, true
		}
	}
	return 0, false
}

// FindAny returns the index of the first segment for the given sentence on
// any track. Plan order makes this original-first.
func (p *Plan) FindAny(sentenceIndex int) (int, bool) {
	if p == nil {
		return 0, false
	}
	for i, s := range p.segments {
		if s.SentenceIndex == sentenceIndex {
			return i, true
		}
	}
	return 0, false
}

// FindAt returns the index of the segment on the given track whose range
// contains t, within epsilon tolerance at both boundaries.
func (p *Plan) FindAt(track models.Track, t, epsilon float64) (int, bool) {
	if p == nil {
		return 0, false
	}
	for i, s := range p.segments {
		if s.Track != track {
			continue
		}
		if t >= s.Start-epsilon && t <= s.End+epsilon {
			return i, true
		}
	}
	return 0, false
}

// MaxSentenceIndex returns the highest sentence index with any coverage,
// or -1 for an empty plan.
func (p *Plan) MaxSentenceIndex() int {
	max := -1
	if p == nil {
		return max
	}
	for _, s := range p.segments {
		if s.SentenceIndex > max {
			max = s.SentenceIndex
		}
	}
	return max
}

// String formats the plan for logs and debug output.
func (p *Plan) String() string {
	if p == nil {
		return "plan(nil)"
	}
	parts := make([]string, 0, len(p.segments))
	for _, s := range p.segments {
		parts = append(parts, s.String())
	}
	return fmt.Sprintf("plan(%s: %s)", p.chunkID, strings.Join(parts, " "))
}
