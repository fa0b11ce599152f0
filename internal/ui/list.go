package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/tandemreader/tandem/internal/content"
)

var (
	_ list.Item = chunkItem{}
)

// chunkItem wraps [content.Summary] to implement [list.Item].
type chunkItem struct {
	summary content.Summary
}

func (i chunkItem) FilterValue() string { return i.summary.Title }

func (i chunkItem) Title() string {
	if i.summary.Title != "" {
		return i.summary.Title
	}
	return i.summary.ID
}

func (i chunkItem) Description() string {
	return fmt.Sprintf("%d sentences • %s", i.summary.SentenceCount, i.summary.ID)
}
