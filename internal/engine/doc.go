// Package engine implements the dual-track sequential playback
// synchronization engine.
//
// The engine drives alternating playback of two separately-encoded audio
// tracks (original-language narration and translated narration) as one
// perceived timeline. [Coordinator] is the state machine: it owns the
// current segment index, current track, pending-seek state, and the
// monotonic transition token that discards stale asynchronous completions.
// [DwellScheduler] holds playback at segment boundaries so the final word's
// highlight stays visible and no audio bleeds into the next sentence.
// [ResolveTracks] computes which single URL is effective and whether
// sequence mode is feasible at all.
//
// All state mutation happens on one logical thread: [Loop] processes
// commands, media events, sampler ticks, and deferred completions from a
// single goroutine, so the coordinator itself needs no locks. The native
// media primitive is abstracted by [Media]; the engine never decodes or
// mixes audio itself.
package engine
