// Package tasks orchestrates playback sessions with real-time progress reporting.
//
// # Core Operations
//
// The [SessionEngine] interface defines the session lifecycle:
//
//  1. [SessionEngine.Open] : Prepare a chunk for playback
//     - Loads the chunk document and media manifest from the library
//     - Builds the segment plan and the event loop around a simulated player
//     - Wires throttled position updates into bookmark persistence
//
//  2. [SessionEngine.Run] : Drive playback to the end of the chunk
//     - Optionally resumes from the stored bookmark
//     - Optionally enters sequence mode for alternating dual-track playback
//     - Returns a result with the final playback snapshot
//
// # Progress Reporting
//
// All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Bookmark Persistence
//
// The optional bookmark repository receives throttled resume positions during playback
//
// Positions are recorded silently (errors logged, never fatal) so persistence hiccups cannot disrupt listening.
//
// # Implementation
//
// [Session] implements [SessionEngine] with dependencies on:
//   - [content.Library] : Chunk and manifest loading
//   - [engine.Loop] : The single-threaded playback engine
//   - [media.SimulatedPlayer] : The in-process media primitive
//   - [repositories.BookmarkRepository] : Optional resume persistence
package tasks
