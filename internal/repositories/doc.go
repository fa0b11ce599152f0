// Package repositories implements SQLite persistence for playback state.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [BookmarkRepository] : Resume positions keyed by media URL, fed by throttled progress updates
//
// Sequence numbers provide stable, human-readable ordering (e.g., bookmark #42) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
