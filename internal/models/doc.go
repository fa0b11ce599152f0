// Package models defines the domain entities for the tandem bilingual reader engine.
//
// The package contains two categories of types:
//
// 1. Playback data: in-memory structures supplied by collaborators and consumed by the engine
//   - [Track] : Which narration track a value refers to
//   - [Segment] : A contiguous span of one track's audio for one sentence
//   - [Sentence] : Per-sentence timing metadata and text variants
//   - [Chunk] : A batch of sentences sharing one pair of audio files
//   - [Manifest] : Per-track media URLs and declared durations
//   - [PendingSeek] : Tagged union describing a seek deferred until media loads
//
// 2. Persistent entities: database-backed models with full lifecycle management
//   - [Bookmark] : Resume positions keyed by media URL
//
// All persistent entities implement the Model interface providing ID generation, timestamps, validation, and soft delete support.
// The Repository[T] interface defines standard CRUD operations for database access.
package models
