// Package plan builds and queries segment plans.
//
// A plan is the ordered list of playable segments for one content chunk:
// one segment per sentence per narration track, interleaved original-first.
// Plans are immutable once built; the engine rebuilds them only when the
// chunk identity changes.
//
// [Build] derives segments from explicit gates, from per-phase durations
// when gates were not recorded, or from whole-track coverage for a
// single-sentence chunk. [Resolve] maps a virtual position back into a
// concrete (track-local time, sentence index) pair for resume and scrubbing.
package plan
