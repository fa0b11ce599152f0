package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/tandemreader/tandem/internal/content"
	"github.com/tandemreader/tandem/internal/engine"
	"github.com/tandemreader/tandem/internal/highlight"
	"github.com/tandemreader/tandem/internal/models"
	"github.com/tandemreader/tandem/internal/plan"
	"github.com/tandemreader/tandem/internal/repositories"
	"github.com/tandemreader/tandem/internal/shared"
	"github.com/tandemreader/tandem/internal/tasks"
)

// refreshInterval is how often the reader view polls the engine snapshot.
const refreshInterval = 100 * time.Millisecond

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LibraryView ViewState = iota
	ReaderView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx     context.Context
	view    ViewState
	logger  *log.Logger
	library *content.Library
	repo    *repositories.BookmarkRepository
	cfg     *shared.Config
	opts    tasks.Options

	width  int
	height int

	chunkList list.Model
	summaries []content.Summary

	session *tasks.Session
	plan    *plan.Plan
	mapper  *highlight.Mapper
	flags   models.TrackFlags

	snapshot engine.Snapshot
	reveal   highlight.State
	progress tasks.ProgressUpdate

	updates  chan tasks.ProgressUpdate
	resultCh chan sessionDoneMsg
	cancel   context.CancelFunc

	result *tasks.Result
	err    error

	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, logger *log.Logger, library *content.Library, repo *repositories.BookmarkRepository, cfg *shared.Config, opts tasks.Options) *Model {
	if cfg == nil {
		cfg = shared.DefaultConfig()
	}
	return &Model{
		ctx:     ctx,
		view:    LibraryView,
		logger:  logger,
		library: library,
		repo:    repo,
		cfg:     cfg,
		opts:    opts,
		flags:   models.TrackFlags{Original: true, Translation: true},
		help:    help.New(),
		keys:    newKeyMap(),
	}
}

// Init initializes the TUI by listing the chunk library.
func (m *Model) Init() tea.Cmd {
	return m.fetchChunks()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.chunkList.Width() == 0 {
			m.chunkList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case LibraryView:
			return m.handleLibraryKeys(msg)
		case ReaderView:
			return m.handleReaderKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case chunksLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.summaries = msg.summaries
		items := make([]list.Item, len(msg.summaries))
		for i, summary := range msg.summaries {
			items[i] = chunkItem{summary: summary}
		}
		m.chunkList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.chunkList.Title = "Chunk Library"
		m.chunkList.SetSize(m.width-4, m.height-8)
		return m, nil

	case sessionOpenedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = LibraryView
			return m, nil
		}
		m.session = msg.session
		m.plan = m.session.Loop().Coordinator().Plan()
		m.mapper = highlight.NewMapper(engine.NewTimingContext())
		m.mapper.SetChunk(m.session.Chunk())
		m.snapshot = engine.Snapshot{}
		m.reveal = highlight.State{}
		m.view = ReaderView
		return m, tea.Batch(m.startRun(), m.waitForProgress(), m.tick())

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case sessionDoneMsg:
		m.result = msg.result
		m.err = msg.err
		m.cancel = nil
		m.updates = nil
		if m.view == ReaderView {
			m.view = ResultView
		}
		return m, nil

	case tickMsg:
		if m.view != ReaderView || m.session == nil {
			return m, nil
		}
		m.snapshot = m.session.Snapshot()
		m.refreshReveal()
		return m, m.tick()
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case LibraryView:
		return m.renderLibrary()
	case ReaderView:
		return m.renderReader()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleLibraryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.chunkList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(chunkItem); ok {
				m.err = nil
				m.updates = make(chan tasks.ProgressUpdate, 50)
				m.resultCh = make(chan sessionDoneMsg, 1)
				return m, m.openSession(item.summary.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.chunkList, cmd = m.chunkList.Update(msg)
	return m, cmd
}

func (m *Model) handleReaderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	loop := m.session.Loop()

	switch {
	case key.Matches(msg, m.keys.quit):
		m.stop()
		return m, tea.Quit

	case key.Matches(msg, m.keys.back):
		m.stop()
		m.view = LibraryView
		return m, nil

	case key.Matches(msg, m.keys.playPause):
		if m.snapshot.Playing {
			loop.Pause()
		} else {
			loop.Play()
		}

	case key.Matches(msg, m.keys.sequence):
		if m.snapshot.Mode == "sequence" {
			loop.ExitSequence()
		} else {
			loop.EnterSequence()
		}

	case key.Matches(msg, m.keys.original):
		m.flags.Original = !m.flags.Original
		loop.SetFlags(m.flags)

	case key.Matches(msg, m.keys.translation):
		m.flags.Translation = !m.flags.Translation
		loop.SetFlags(m.flags)

	case key.Matches(msg, m.keys.prev):
		loop.SkipSentence(-1, m.flags)

	case key.Matches(msg, m.keys.next):
		loop.SkipSentence(1, m.flags)
	}

	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "enter", "r":
		m.view = LibraryView
		m.session = nil
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	if m.view == LibraryView {
		m.chunkList, cmd = m.chunkList.Update(msg)
	}
	return m, cmd
}

// stop cancels the running session, if any. The run goroutine delivers
// sessionDoneMsg through the progress drain.
func (m *Model) stop() {
	if m.cancel != nil {
		m.cancel()
		m.cancel = nil
	}
}

func (m *Model) fetchChunks() tea.Cmd {
	return func() tea.Msg {
		summaries, err := m.library.List()
		return chunksLoadedMsg{summaries: summaries, err: err}
	}
}

func (m *Model) openSession(chunkID string) tea.Cmd {
	return func() tea.Msg {
		session := tasks.NewSession(m.logger, m.library, m.repo, m.cfg)
		if err := session.Open(m.updates, chunkID); err != nil {
			return sessionOpenedMsg{err: err}
		}
		return sessionOpenedMsg{session: session}
	}
}

// startRun launches the playback run. The goroutine owns the updates
// channel and closes it when the run returns, which ends the progress
// drain with a sessionDoneMsg.
func (m *Model) startRun() tea.Cmd {
	runCtx, cancel := context.WithCancel(m.ctx)
	m.cancel = cancel

	session, updates, resultCh, opts := m.session, m.updates, m.resultCh, m.opts

	go func() {
		result, err := session.Run(runCtx, updates, opts)
		resultCh <- sessionDoneMsg{result: result, err: err}
		close(updates)
	}()

	return nil
}

func (m *Model) waitForProgress() tea.Cmd {
	updates, resultCh := m.updates, m.resultCh

	return func() tea.Msg {
		if updates == nil {
			return nil
		}

		update, ok := <-updates
		if !ok {
			return <-resultCh
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// refreshReveal recomputes word-level highlight state from the latest
// snapshot. Outside sequence mode the sounding segment is located by
// play-head position.
func (m *Model) refreshReveal() {
	m.reveal = highlight.State{SentenceIndex: -1}
	if m.plan == nil || m.mapper == nil {
		return
	}

	idx := m.snapshot.SegmentIndex
	if m.snapshot.Mode != "sequence" {
		found, ok := m.plan.FindAt(models.ParseTrack(m.snapshot.Track), m.snapshot.Position, m.cfg.Playback.Epsilon)
		if !ok {
			return
		}
		idx = found
	}

	segment, ok := m.plan.Segment(idx)
	if !ok {
		return
	}
	m.reveal = m.mapper.At(segment, m.snapshot.Position)
}

func (m *Model) renderLibrary() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.chunkList.View(), helpView)
}

func (m *Model) renderReader() string {
	chunk := m.session.Chunk()

	title := chunk.Title
	if title == "" {
		title = chunk.ID
	}

	var state string
	if m.snapshot.Playing {
		state = styles.ok.Render("playing")
	} else {
		state = styles.warn.Render("paused")
	}

	status := fmt.Sprintf(
		"%s • %s • %s • %.1fs • sentence %d/%d",
		state,
		m.snapshot.Mode,
		styles.track.Render(m.snapshot.Track),
		m.snapshot.Position,
		m.snapshot.SentenceIndex+1,
		len(chunk.Sentences),
	)

	body := m.renderSentence(chunk)

	helpKeys := []key.Binding{m.keys.playPause, m.keys.sequence, m.keys.prev, m.keys.next, m.keys.back}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s\n\n%s\n%s",
		styles.title.Render(title), status, body, m.progressLine(), helpView)
}

// renderSentence renders every text variant of the current sentence,
// styling spoken tokens per the reveal state.
func (m *Model) renderSentence(chunk *models.Chunk) string {
	idx := m.snapshot.SentenceIndex
	if idx < 0 || idx >= len(chunk.Sentences) {
		return styles.help.Render("(between sentences)")
	}
	sentence := chunk.Sentences[idx]

	var lines []string
	for _, variant := range sentence.Variants {
		lines = append(lines, m.renderVariant(variant))
	}
	if len(lines) == 0 {
		return styles.help.Render("(no text for this sentence)")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderVariant(variant models.Variant) string {
	revealed := 0
	if m.reveal.SentenceIndex == m.snapshot.SentenceIndex {
		for _, vr := range m.reveal.Variants {
			if vr.Kind == variant.Kind {
				revealed = vr.Revealed
			}
		}
	}

	if len(variant.Tokens) == 0 {
		return fmt.Sprintf("%-16s %s", variant.Kind+":", variant.Text)
	}

	words := make([]string, len(variant.Tokens))
	for i, token := range variant.Tokens {
		if i < revealed {
			words[i] = styles.spoken.Render(token.Text)
		} else {
			words[i] = styles.unread.Render(token.Text)
		}
	}
	return fmt.Sprintf("%-16s %s", variant.Kind+":", strings.Join(words, " "))
}

func (m *Model) progressLine() string {
	if m.progress.Message == "" {
		return ""
	}
	if m.progress.Total > 1 {
		return styles.help.Render(fmt.Sprintf("[%s %d/%d] %s",
			m.progress.Phase, m.progress.Step, m.progress.Total, m.progress.Message))
	}
	return styles.help.Render(fmt.Sprintf("[%s] %s", m.progress.Phase, m.progress.Message))
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Playback failed: %v\n\nPress r to return, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to return, q to quit")
	}

	var title string
	if m.result.Completed {
		title = styles.ok.Render("✓ Chunk Complete")
	} else {
		title = styles.warn.Render("Playback Stopped")
	}

	info := fmt.Sprintf(
		"\nChunk: %s\nSegments played: %d\nFinal position: %.1fs on %s\nResumed from bookmark: %v",
		m.result.ChunkID,
		m.result.SegmentsPlayed,
		m.result.Snapshot.Position,
		m.result.Snapshot.Track,
		m.result.Resumed,
	)

	backKey := key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "library"))
	helpKeys := []key.Binding{backKey, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
