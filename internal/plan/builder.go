package plan

import (
	"sort"

	"github.com/tandemreader/tandem/internal/models"
)

// Build derives the segment plan for a chunk.
//
// Per sentence, per track, timing is taken from the first source that
// yields a usable span:
//
//  1. an explicit recorded gate, when present and positive-length;
//  2. per-phase durations accumulated as running cursors per track, which
//     reconstructs boundaries from speech-phase lengths;
//  3. for a chunk with exactly one sentence and neither source, a single
//     whole-track segment using the chunk's declared duration.
//
// Zero-length derived segments are dropped. A track that ends up with no
// segments simply makes sequence mode infeasible for that track; the plan
// remains valid for single-track playback.
func Build(chunk *models.Chunk) *Plan {
	p := &Plan{}
	if chunk == nil {
		return p
	}
	p.chunkID = chunk.ID

	// Running cursors per track for phase-derived timing. A gate, when
	// present, also advances its track's cursor so mixed gate/phase
	// sentences stay aligned.
	var origCursor, transCursor float64

	for _, sentence := range chunk.Sentences {
		orig, origOK := sentenceSpan(&sentence, models.TrackOriginal, &origCursor)
		trans, transOK := sentenceSpan(&sentence, models.TrackTranslation, &transCursor)

		if origOK {
			p.segments = append(p.segments, orig)
		}
		if transOK {
			p.segments = append(p.segments, trans)
		}
	}

	if len(p.segments) == 0 && len(chunk.Sentences) == 1 {
		// Single-sentence chunks stay playable in sequence mode even
		// without any recorded timing, as long as durations are known.
		for _, track := range []models.Track{models.TrackOriginal, models.TrackTranslation} {
			total := chunk.DurationFor(track)
			if total > 0 {
				p.segments = append(p.segments, models.Segment{
					Track:         track,
					Start:         0,
					End:           total,
					SentenceIndex: chunk.Sentences[0].Index,
				})
			}
		}
	}

	normalize(p)
	return p
}

// sentenceSpan resolves one sentence's span on one track from gates or
// phase durations, advancing the track cursor either way.
func sentenceSpan(sentence *models.Sentence, track models.Track, cursor *float64) (models.Segment, bool) {
	if gate := sentence.GateFor(track); gate.Valid() {
		seg := clamped(track, gate.Start, gate.End, sentence.Index)
		if advance := gateAdvance(sentence, track, gate.End); advance > *cursor {
			*cursor = advance
		}
		return seg, seg.End > seg.Start
	}

	phases := sentence.Phases
	if phases.Empty() {
		return models.Segment{}, false
	}

	var speech, rest float64
	switch track {
	case models.TrackOriginal:
		speech, rest = phases.Original, phases.Gap
	case models.TrackTranslation:
		speech, rest = phases.Translation, phases.Tail
	}

	start := *cursor
	seg := clamped(track, start, start+speech, sentence.Index)
	*cursor = start + speech + rest
	return seg, seg.End > seg.Start
}

// gateAdvance computes where the track cursor should sit after a gated
// sentence, including the trailing silence phase when it is known.
func gateAdvance(sentence *models.Sentence, track models.Track, gateEnd float64) float64 {
	if sentence.Phases == nil {
		return gateEnd
	}
	switch track {
	case models.TrackOriginal:
		return gateEnd + sentence.Phases.Gap
	case models.TrackTranslation:
		return gateEnd + sentence.Phases.Tail
	default:
		return gateEnd
	}
}

// clamped builds a segment, never letting end precede start.
func clamped(track models.Track, start, end float64, sentenceIndex int) models.Segment {
	if end < start {
		end = start
	}
	return models.Segment{Track: track, Start: start, End: end, SentenceIndex: sentenceIndex}
}

// normalize sorts segments into listening order: ascending sentence index,
// original before translation within a sentence.
func normalize(p *Plan) {
	sort.SliceStable(p.segments, func(i, j int) bool {
		a, b := p.segments[i], p.segments[j]
		if a.SentenceIndex != b.SentenceIndex {
			return a.SentenceIndex < b.SentenceIndex
		}
		return a.Track < b.Track
	})
}
