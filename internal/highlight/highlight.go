// Package highlight maps playback positions to word-level text reveal
// state.
//
// Rendering is the client's job; this package only answers "how many tokens
// of each variant of the current sentence have been spoken by now", which
// is the contract UI layers consume to keep highlighting in lockstep with
// whichever track is sounding.
package highlight

import (
	"github.com/tandemreader/tandem/internal/engine"
	"github.com/tandemreader/tandem/internal/models"
)

// VariantReveal is the reveal state of one text variant of a sentence.
type VariantReveal struct {
	Kind     string // Variant kind: "original", "transliteration", "translation"
	Revealed int    // Tokens spoken so far
	Total    int    // Tokens in the variant
}

// State is the highlight state for the sentence currently sounding.
type State struct {
	SentenceIndex int
	Track         models.Track
	Variants      []VariantReveal
}

// Mapper derives highlight state from chunk text and playback positions,
// recording the last highlighted word into the shared timing context.
type Mapper struct {
	timing *engine.TimingContext
	chunk  *models.Chunk
}

// NewMapper creates a mapper over the given timing context.
func NewMapper(timing *engine.TimingContext) *Mapper {
	return &Mapper{timing: timing}
}

// SetChunk installs the chunk whose sentences are being read and clears any
// stale highlight.
func (m *Mapper) SetChunk(chunk *models.Chunk) {
	m.chunk = chunk
	if m.timing != nil {
		m.timing.ClearLastWord()
	}
}

// At computes the reveal state for a segment and an in-track position.
// The count for the sounding track's variant follows token times; variants
// of the other track stay fully hidden until their own segment sounds.
func (m *Mapper) At(segment models.Segment, position float64) State {
	st := State{SentenceIndex: segment.SentenceIndex, Track: segment.Track}
	sentence := m.sentence(segment.SentenceIndex)
	if sentence == nil {
		return st
	}

	local := position - segment.Start
	for _, v := range sentence.Variants {
		reveal := VariantReveal{Kind: v.Kind, Total: len(v.Tokens)}
		if variantTrack(v.Kind) == segment.Track {
			reveal.Revealed = revealedCount(v.Tokens, local)
			if reveal.Revealed > 0 && m.timing != nil {
				m.timing.SetLastWord(engine.LastWord{
					SentenceIndex: segment.SentenceIndex,
					VariantKind:   v.Kind,
					TokenIndex:    reveal.Revealed - 1,
				})
			}
		}
		st.Variants = append(st.Variants, reveal)
	}
	return st
}

// sentence finds the chunk sentence with the given index.
func (m *Mapper) sentence(index int) *models.Sentence {
	if m.chunk == nil {
		return nil
	}
	for i := range m.chunk.Sentences {
		if m.chunk.Sentences[i].Index == index {
			return &m.chunk.Sentences[i]
		}
	}
	return nil
}

// revealedCount counts tokens whose time has passed. Token times are
// relative to the segment start and sorted ascending.
func revealedCount(tokens []models.Token, local float64) int {
	n := 0
	for _, tok := range tokens {
		if tok.Time > local {
			break
		}
		n++
	}
	return n
}

// variantTrack maps a variant kind to the track that voices it. The
// original script and its transliteration follow the original narration;
// the translation variant follows the translated narration.
func variantTrack(kind string) models.Track {
	switch kind {
	case "translation":
		return models.TrackTranslation
	default:
		return models.TrackOriginal
	}
}
