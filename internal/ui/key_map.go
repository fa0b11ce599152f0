package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up          key.Binding
	down        key.Binding
	enter       key.Binding
	back        key.Binding
	playPause   key.Binding
	sequence    key.Binding
	original    key.Binding
	translation key.Binding
	prev        key.Binding
	next        key.Binding
	quit        key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "read")),
		back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		playPause:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "play/pause")),
		sequence:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "alternate")),
		original:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "original")),
		translation: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "translation")),
		prev:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev sentence")),
		next:        key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next sentence")),
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter},
		{k.playPause, k.sequence, k.prev, k.next},
		{k.original, k.translation, k.back, k.quit},
	}
}
