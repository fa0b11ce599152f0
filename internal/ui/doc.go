// Package ui implements an interactive terminal reader using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for dual-track reading:
//  1. [LibraryView] : Browse and select chunks from the content library
//  2. [ReaderView] : Follow playback with word-level highlight and transport keys
//  3. [ResultView] : Display the run outcome after the chunk ends
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the playback Session, and the
// reader view polls the engine loop's snapshot on a fixed tick to keep the
// highlight in lockstep with the sounding track.
//
// Transport keys: space toggles play/pause, s toggles alternating sequence
// mode, o and t toggle track visibility, and the arrow keys skip between
// sentences. Keyboard navigation otherwise uses vim-style bindings (j/k,
// enter, esc, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
