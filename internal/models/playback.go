package models

import "fmt"

// Track identifies which narration track a segment, URL, or seek refers to.
type Track int

const (
	// TrackNone is the zero value, used before any track has been resolved.
	TrackNone Track = iota
	// TrackOriginal is the original-language narration.
	TrackOriginal
	// TrackTranslation is the translated narration.
	TrackTranslation
	// TrackCombined is a single pre-mixed rendition of both narrations.
	// It never appears in a segment plan; it only participates in
	// effective-URL fallback when no separate tracks exist.
	TrackCombined
)

// String returns the string representation of the track.
func (t Track) String() string {
	switch t {
	case TrackOriginal:
		return "original"
	case TrackTranslation:
		return "translation"
	case TrackCombined:
		return "combined"
	case TrackNone:
		return "none"
	default:
		return "unknown"
	}
}

// ParseTrack converts a stored string back into a [Track]. Unrecognized
// values map to TrackNone.
func ParseTrack(s string) Track {
	switch s {
	case "original":
		return TrackOriginal
	case "translation":
		return TrackTranslation
	case "combined":
		return TrackCombined
	default:
		return TrackNone
	}
}

// Other returns the opposite narration track. It is only meaningful for
// TrackOriginal and TrackTranslation.
func (t Track) Other() Track {
	switch t {
	case TrackOriginal:
		return TrackTranslation
	case TrackTranslation:
		return TrackOriginal
	default:
		return t
	}
}

// Segment is one playable span: a contiguous range of one track's audio file
// corresponding to one sentence's speech in that track.
//
// Start and End are seconds in the native timeline of that track's audio
// file, not in a shared virtual timeline; the two tracks are independently
// encoded files.
type Segment struct {
	Track         Track   // Owning narration track
	Start         float64 // Start of speech, seconds in the track's file
	End           float64 // End of speech, seconds in the track's file
	SentenceIndex int     // Logical sentence this segment belongs to
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// String formats the segment for logs and debug output.
func (s Segment) String() string {
	return fmt.Sprintf("%s[s%d %.3f-%.3f]", s.Track, s.SentenceIndex, s.Start, s.End)
}

// Gate is an explicit recorded start/end timestamp for a sentence's speech
// within one track's audio file.
type Gate struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Valid reports whether the gate describes a usable, positive-length span.
func (g *Gate) Valid() bool {
	return g != nil && g.End > g.Start
}

// PhaseDurations holds per-sentence speech-phase lengths, used to
// reconstruct segment boundaries when explicit gates were not recorded.
//
// A sentence's audio is laid out as original speech, a gap, translated
// speech, and a tail of silence before the next sentence begins.
type PhaseDurations struct {
	Original    float64 `json:"original"`
	Gap         float64 `json:"gap"`
	Translation float64 `json:"translation"`
	Tail        float64 `json:"tail"`
}

// Empty reports whether no phase carries any length.
func (p *PhaseDurations) Empty() bool {
	return p == nil || (p.Original <= 0 && p.Translation <= 0)
}

// Token is one word (or word-like unit) of a sentence variant with the
// moment it is spoken, in seconds relative to the owning segment's start.
type Token struct {
	Text string  `json:"text"`
	Time float64 `json:"time"`
}

// Variant is one textual rendition of a sentence: the original script, a
// transliteration, or the translation.
type Variant struct {
	Kind   string  `json:"kind"` // "original", "transliteration", "translation"
	Text   string  `json:"text"`
	Tokens []Token `json:"tokens,omitempty"`
}

// Sentence is one logical sentence of a chunk with its per-track timing
// metadata and text variants.
//
// Gates and Phases are both optional; the plan builder prefers gates, falls
// back to phase accumulation, and finally to whole-track coverage for
// single-sentence chunks.
type Sentence struct {
	Index            int             `json:"index"`
	OriginalGate     *Gate           `json:"original_gate,omitempty"`
	TranslationGate  *Gate           `json:"translation_gate,omitempty"`
	Phases           *PhaseDurations `json:"phases,omitempty"`
	Variants         []Variant       `json:"variants,omitempty"`
}

// GateFor returns the explicit gate recorded for the given track, or nil.
func (s *Sentence) GateFor(track Track) *Gate {
	switch track {
	case TrackOriginal:
		return s.OriginalGate
	case TrackTranslation:
		return s.TranslationGate
	default:
		return nil
	}
}

// Chunk is a batch of sentences sharing one pair of audio files. Plans are
// built once per chunk and rebuilt only when the chunk identity changes.
type Chunk struct {
	ID                  string     `json:"id"`
	Title               string     `json:"title,omitempty"`
	Sentences           []Sentence `json:"sentences"`
	OriginalDuration    float64    `json:"original_duration,omitempty"`
	TranslationDuration float64    `json:"translation_duration,omitempty"`
}

// DurationFor returns the chunk's declared total duration for a track, or
// zero when unknown.
func (c *Chunk) DurationFor(track Track) float64 {
	switch track {
	case TrackOriginal:
		return c.OriginalDuration
	case TrackTranslation:
		return c.TranslationDuration
	default:
		return 0
	}
}

// Manifest carries the media URLs and declared durations for a chunk's
// tracks, as produced by the media-manifest resolver.
type Manifest struct {
	OriginalURL         string  `json:"original_url,omitempty"`
	TranslationURL      string  `json:"translation_url,omitempty"`
	CombinedURL         string  `json:"combined_url,omitempty"`
	OriginalDuration    float64 `json:"original_duration,omitempty"`
	TranslationDuration float64 `json:"translation_duration,omitempty"`
}

// URLFor returns the manifest URL for the given track, or "" when absent.
func (m *Manifest) URLFor(track Track) string {
	if m == nil {
		return ""
	}
	switch track {
	case TrackOriginal:
		return m.OriginalURL
	case TrackTranslation:
		return m.TranslationURL
	case TrackCombined:
		return m.CombinedURL
	default:
		return ""
	}
}

// TrackFlags captures the user's per-track enable toggles.
type TrackFlags struct {
	Original    bool
	Translation bool
}

// Both reports whether both narration tracks are enabled.
func (f TrackFlags) Both() bool {
	return f.Original && f.Translation
}

// Enabled reports whether the given narration track is enabled.
func (f TrackFlags) Enabled(track Track) bool {
	switch track {
	case TrackOriginal:
		return f.Original
	case TrackTranslation:
		return f.Translation
	default:
		return false
	}
}
