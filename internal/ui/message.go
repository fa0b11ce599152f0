package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/tandemreader/tandem/internal/content"
	"github.com/tandemreader/tandem/internal/tasks"
)

// chunksLoadedMsg delivers the library listing, or the error that
// prevented it.
type chunksLoadedMsg struct {
	summaries []content.Summary
	err       error
}

// sessionOpenedMsg reports the outcome of preparing a playback session
// around the selected chunk.
type sessionOpenedMsg struct {
	session *tasks.Session
	err     error
}

// progressUpdateMsg carries one engine progress update into the TUI.
type progressUpdateMsg tasks.ProgressUpdate

// sessionDoneMsg reports the end of a playback run.
type sessionDoneMsg struct {
	result *tasks.Result
	err    error
}

// tickMsg drives the periodic snapshot refresh while reading.
type tickMsg time.Time

var (
	_ tea.Msg = chunksLoadedMsg{}
	_ tea.Msg = sessionOpenedMsg{}
	_ tea.Msg = progressUpdateMsg{}
	_ tea.Msg = sessionDoneMsg{}
	_ tea.Msg = tickMsg{}
)
