package plan

import (
	"testing"

	"github.com/tandemreader/tandem/internal/models"
)

// gatedChunk builds a three-sentence chunk with explicit gates on both tracks.
func gatedChunk() *models.Chunk {
	return &models.Chunk{
		ID: "ch01",
		Sentences: []models.Sentence{
			{
				Index:           0,
				OriginalGate:    &models.Gate{Start: 0, End: 2},
				TranslationGate: &models.Gate{Start: 0, End: 3},
			},
			{
				Index:           1,
				OriginalGate:    &models.Gate{Start: 2.5, End: 4.5},
				TranslationGate: &models.Gate{Start: 3.5, End: 6},
			},
			{
				Index:           2,
				OriginalGate:    &models.Gate{Start: 5, End: 7},
				TranslationGate: &models.Gate{Start: 6.5, End: 9},
			},
		},
		OriginalDuration:    8,
		TranslationDuration: 10,
	}
}

func TestBuild(t *testing.T) {
	t.Run("gated chunk produces alternating order", func(t *testing.T) {
		p := Build(gatedChunk())

		if p.Len() != 6 {
			t.Fatalf("expected 6 segments, got %d", p.Len())
		}

		for i, s := range p.Segments() {
			wantSentence := i / 2
			if s.SentenceIndex != wantSentence {
				t.Errorf("segment %d: expected sentence %d, got %d", i, wantSentence, s.SentenceIndex)
			}

			wantTrack := models.TrackOriginal
			if i%2 == 1 {
				wantTrack = models.TrackTranslation
			}
			if s.Track != wantTrack {
				t.Errorf("segment %d: expected track %s, got %s", i, wantTrack, s.Track)
			}
		}
	})

	t.Run("per-track segments do not overlap", func(t *testing.T) {
		p := Build(gatedChunk())

		for _, track := range []models.Track{models.TrackOriginal, models.TrackTranslation} {
			segs := p.SegmentsForTrack(track)
			for i := 1; i < len(segs); i++ {
				if segs[i].Start < segs[i-1].End {
					t.Errorf("%s segments overlap: %s then %s", track, segs[i-1], segs[i])
				}
			}
		}
	})

	t.Run("phase durations reconstruct boundaries", func(t *testing.T) {
		chunk := &models.Chunk{
			ID: "ch02",
			Sentences: []models.Sentence{
				{Index: 0, Phases: &models.PhaseDurations{Original: 2, Gap: 0.5, Translation: 3, Tail: 1}},
				{Index: 1, Phases: &models.PhaseDurations{Original: 1.5, Gap: 0.5, Translation: 2, Tail: 1}},
			},
		}

		p := Build(chunk)
		if p.Len() != 4 {
			t.Fatalf("expected 4 segments, got %d", p.Len())
		}

		orig := p.SegmentsForTrack(models.TrackOriginal)
		if orig[0].Start != 0 || orig[0].End != 2 {
			t.Errorf("expected first original span [0, 2], got [%f, %f]", orig[0].Start, orig[0].End)
		}
		// Second original sentence starts after speech + gap of the first.
		if orig[1].Start != 2.5 || orig[1].End != 4 {
			t.Errorf("expected second original span [2.5, 4], got [%f, %f]", orig[1].Start, orig[1].End)
		}

		trans := p.SegmentsForTrack(models.TrackTranslation)
		if trans[0].Start != 0 || trans[0].End != 3 {
			t.Errorf("expected first translation span [0, 3], got [%f, %f]", trans[0].Start, trans[0].End)
		}
		// Second translation sentence starts after speech + tail of the first.
		if trans[1].Start != 4 || trans[1].End != 6 {
			t.Errorf("expected second translation span [4, 6], got [%f, %f]", trans[1].Start, trans[1].End)
		}
	})

	t.Run("gate advances cursor for later phase sentences", func(t *testing.T) {
		chunk := &models.Chunk{
			ID: "ch03",
			Sentences: []models.Sentence{
				{
					Index:        0,
					OriginalGate: &models.Gate{Start: 0, End: 2},
					Phases:       &models.PhaseDurations{Original: 2, Gap: 1},
				},
				{Index: 1, Phases: &models.PhaseDurations{Original: 1.5, Gap: 0.5}},
			},
		}

		p := Build(chunk)
		orig := p.SegmentsForTrack(models.TrackOriginal)
		if len(orig) != 2 {
			t.Fatalf("expected 2 original segments, got %d", len(orig))
		}
		// Cursor after the gated sentence sits at gate end plus gap.
		if orig[1].Start != 3 {
			t.Errorf("expected second segment to start at 3, got %f", orig[1].Start)
		}
	})

	t.Run("zero-length spans are dropped", func(t *testing.T) {
		chunk := &models.Chunk{
			ID: "ch04",
			Sentences: []models.Sentence{
				{Index: 0, OriginalGate: &models.Gate{Start: 0, End: 2}},
				{Index: 1, Phases: &models.PhaseDurations{Original: 0, Gap: 1, Translation: 2, Tail: 0}},
			},
		}

		p := Build(chunk)
		orig := p.SegmentsForTrack(models.TrackOriginal)
		if len(orig) != 1 {
			t.Errorf("expected zero-length original span dropped, got %d segments", len(orig))
		}
		trans := p.SegmentsForTrack(models.TrackTranslation)
		if len(trans) != 1 {
			t.Errorf("expected 1 translation segment, got %d", len(trans))
		}
	})

	t.Run("single sentence falls back to whole track", func(t *testing.T) {
		chunk := &models.Chunk{
			ID:                  "ch05",
			Sentences:           []models.Sentence{{Index: 0}},
			OriginalDuration:    30,
			TranslationDuration: 42,
		}

		p := Build(chunk)
		if p.Len() != 2 {
			t.Fatalf("expected 2 whole-track segments, got %d", p.Len())
		}

		orig := p.SegmentsForTrack(models.TrackOriginal)
		if orig[0].Start != 0 || orig[0].End != 30 {
			t.Errorf("expected whole-track original [0, 30], got [%f, %f]", orig[0].Start, orig[0].End)
		}

		trans := p.SegmentsForTrack(models.TrackTranslation)
		if trans[0].Start != 0 || trans[0].End != 42 {
			t.Errorf("expected whole-track translation [0, 42], got [%f, %f]", trans[0].Start, trans[0].End)
		}
	})

	t.Run("multi-sentence chunk without timing yields empty plan", func(t *testing.T) {
		chunk := &models.Chunk{
			ID:               "ch06",
			Sentences:        []models.Sentence{{Index: 0}, {Index: 1}},
			OriginalDuration: 30,
		}

		p := Build(chunk)
		if p.Len() != 0 {
			t.Errorf("expected empty plan, got %d segments", p.Len())
		}
	})

	t.Run("nil chunk yields empty plan", func(t *testing.T) {
		p := Build(nil)
		if p.Len() != 0 {
			t.Errorf("expected empty plan for nil chunk, got %d segments", p.Len())
		}
	})

	t.Run("missing track keeps the other playable", func(t *testing.T) {
		chunk := &models.Chunk{
			ID: "ch07",
			Sentences: []models.Sentence{
				{Index: 0, OriginalGate: &models.Gate{Start: 0, End: 2}},
				{Index: 1, OriginalGate: &models.Gate{Start: 2.5, End: 4}},
			},
		}

		p := Build(chunk)
		if !p.HasSegments(models.TrackOriginal) {
			t.Error("expected original coverage")
		}
		if p.HasSegments(models.TrackTranslation) {
			t.Error("expected no translation coverage")
		}
	})
}

func TestPlanLookups(t *testing.T) {
	p := Build(gatedChunk())

	t.Run("Find", func(t *testing.T) {
		idx, ok := p.Find(1, models.TrackTranslation)
		if !ok {
			t.Fatal("expected to find sentence 1 translation segment")
		}
		seg, _ := p.Segment(idx)
		if seg.SentenceIndex != 1 || seg.Track != models.TrackTranslation {
			t.Errorf("found wrong segment %s", seg)
		}

		if _, ok := p.Find(9, models.TrackOriginal); ok {
			t.Error("expected no segment for sentence 9")
		}
	})

	t.Run("FindAny prefers original", func(t *testing.T) {
		idx, ok := p.FindAny(1)
		if !ok {
			t.Fatal("expected to find sentence 1")
		}
		seg, _ := p.Segment(idx)
		if seg.Track != models.TrackOriginal {
			t.Errorf("expected original segment first, got %s", seg.Track)
		}
	})

	t.Run("FindAt honors epsilon", func(t *testing.T) {
		// Just outside the sentence-0 original gate [0, 2], inside epsilon.
		idx, ok := p.FindAt(models.TrackOriginal, 2.03, 0.05)
		if !ok {
			t.Fatal("expected boundary hit within epsilon")
		}
		seg, _ := p.Segment(idx)
		if seg.SentenceIndex != 0 {
			t.Errorf("expected sentence 0, got %d", seg.SentenceIndex)
		}

		if _, ok := p.FindAt(models.TrackOriginal, 2.2, 0.05); ok {
			t.Error("expected miss outside epsilon in inter-sentence silence")
		}
	})

	t.Run("MaxSentenceIndex", func(t *testing.T) {
		if got := p.MaxSentenceIndex(); got != 2 {
			t.Errorf("expected max sentence index 2, got %d", got)
		}

		var empty *Plan
		if got := empty.MaxSentenceIndex(); got != -1 {
			t.Errorf("expected -1 for nil plan, got %d", got)
		}
	})

	t.Run("nil plan accessors", func(t *testing.T) {
		var empty *Plan
		if empty.Len() != 0 {
			t.Error("expected nil plan length 0")
		}
		if _, ok := empty.Segment(0); ok {
			t.Error("expected no segment from nil plan")
		}
		if empty.HasSegments(models.TrackOriginal) {
			t.Error("expected no coverage on nil plan")
		}
	})
}

func TestResolve(t *testing.T) {
	p := Build(gatedChunk())

	t.Run("containing segment", func(t *testing.T) {
		res, ok := Resolve(p, models.TrackTranslation, 4.0, 0.05)
		if !ok {
			t.Fatal("expected resolution")
		}
		if res.SentenceIndex != 1 {
			t.Errorf("expected sentence 1, got %d", res.SentenceIndex)
		}
		if res.TrackTime != 4.0 {
			t.Errorf("expected track time 4.0, got %f", res.TrackTime)
		}
	})

	t.Run("silence snaps forward to next segment", func(t *testing.T) {
		// 2.2 sits in original silence between gates [0,2] and [2.5,4.5].
		res, ok := Resolve(p, models.TrackOriginal, 2.2, 0.05)
		if !ok {
			t.Fatal("expected resolution")
		}
		if res.SentenceIndex != 1 {
			t.Errorf("expected snap to sentence 1, got %d", res.SentenceIndex)
		}
		if res.TrackTime != 2.5 {
			t.Errorf("expected snap to segment start 2.5, got %f", res.TrackTime)
		}
	})

	t.Run("past the end clamps into the last segment", func(t *testing.T) {
		res, ok := Resolve(p, models.TrackOriginal, 100, 0.05)
		if !ok {
			t.Fatal("expected resolution")
		}
		if res.SentenceIndex != 2 {
			t.Errorf("expected last sentence, got %d", res.SentenceIndex)
		}
		if res.TrackTime != 7 {
			t.Errorf("expected clamp to segment end 7, got %f", res.TrackTime)
		}
	})

	t.Run("no coverage on track", func(t *testing.T) {
		chunk := &models.Chunk{
			ID:        "orig-only",
			Sentences: []models.Sentence{{Index: 0, OriginalGate: &models.Gate{Start: 0, End: 2}}},
		}
		only := Build(chunk)

		if _, ok := Resolve(only, models.TrackTranslation, 1.0, 0.05); ok {
			t.Error("expected no resolution for uncovered track")
		}
	})

	t.Run("nil plan", func(t *testing.T) {
		if _, ok := Resolve(nil, models.TrackOriginal, 0, 0.05); ok {
			t.Error("expected no resolution for nil plan")
		}
	})
}

func TestScaleFallback(t *testing.T) {
	tc := []struct {
		name     string
		position float64
		from     float64
		to       float64
		want     float64
	}{
		{name: "midpoint", position: 5, from: 10, to: 20, want: 10},
		{name: "zero position", position: 0, from: 10, to: 20, want: 0},
		{name: "full position", position: 10, from: 10, to: 20, want: 20},
		{name: "unknown source duration", position: 5, from: 0, to: 20, want: 0},
		{name: "unknown target duration", position: 5, from: 10, to: 0, want: 0},
		{name: "overshoot clamps", position: 15, from: 10, to: 20, want: 20},
		{name: "negative clamps", position: -2, from: 10, to: 20, want: 0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			got := ScaleFallback(tt.position, tt.from, tt.to)
			if got != tt.want {
				t.Errorf("ScaleFallback() = %v, want %v", got, tt.want)
			}
		})
	}
}
