// Package content loads chunk metadata and media manifests from a library
// directory on disk.
//
// A library is a flat directory of JSON documents, one per chunk. Each
// document bundles the chunk's sentences (gates, phase durations, text
// variants) with the manifest of its audio renditions. The [Library] type is
// the only way the rest of the application obtains chunks.
package content

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/tandemreader/tandem/internal/models"
	"github.com/tandemreader/tandem/internal/shared"
)

// Entry is one library document: a chunk and the manifest of its media.
type Entry struct {
	Chunk    models.Chunk    `json:"chunk"`
	Manifest models.Manifest `json:"manifest"`
}

// Summary describes a chunk without loading its sentences.
type Summary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	SentenceCount int    `json:"sentence_count"`
	Path          string `json:"path"`
}

// Library reads chunk documents from a directory.
type Library struct {
	logger *log.Logger
	root   string
}

// NewLibrary creates a Library rooted at the given directory.
func NewLibrary(root string, logger *log.Logger) *Library {
	return &Library{logger: logger, root: root}
}

// Root returns the library's root directory.
func (l *Library) Root() string { return l.root }

// List returns summaries for every chunk document in the library, sorted by ID.
func (l *Library) List() ([]Summary, error) {
	entries, err := os.ReadDir(l.root)
	if err != nil {
		return nil, fmt.Errorf("failed to read library directory: %w", err)
	}

	var summaries []Summary
	for _, dirEntry := range entries {
		if dirEntry.IsDir() || !strings.HasSuffix(dirEntry.Name(), ".json") {
			continue
		}

		path := filepath.Join(l.root, dirEntry.Name())
		entry, err := l.readEntry(path)
		if err != nil {
			l.logger.Warn("skipping unreadable chunk document", "path", path, "error", err)
			continue
		}

		summaries = append(summaries, Summary{
			ID:            entry.Chunk.ID,
			Title:         entry.Chunk.Title,
			SentenceCount: len(entry.Chunk.Sentences),
			Path:          path,
		})
	}

	sort.Slice(summaries, func(i, j int) bool { return summaries[i].ID < summaries[j].ID })

	return summaries, nil
}

// Load retrieves the chunk and manifest with the given ID.
func (l *Library) Load(id string) (*models.Chunk, *models.Manifest, error) {
	// Fast path: document named after the chunk ID.
	direct := filepath.Join(l.root, id+".json")
	if entry, err := l.readEntry(direct); err == nil && entry.Chunk.ID == id {
		return l.validated(entry)
	}

	summaries, err := l.List()
	if err != nil {
		return nil, nil, err
	}

	for _, summary := range summaries {
		if summary.ID != id {
			continue
		}
		entry, err := l.readEntry(summary.Path)
		if err != nil {
			return nil, nil, err
		}
		return l.validated(entry)
	}

	return nil, nil, fmt.Errorf("%w: %s", shared.ErrChunkNotFound, id)
}

// readEntry parses one chunk document from disk.
func (l *Library) readEntry(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read chunk document: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("failed to parse chunk document: %w", err)
	}

	return &entry, nil
}

// validated checks structural invariants before handing a chunk out.
func (l *Library) validated(entry *Entry) (*models.Chunk, *models.Manifest, error) {
	chunk := entry.Chunk
	manifest := entry.Manifest

	if err := Validate(&chunk); err != nil {
		return nil, nil, err
	}

	// Chunk-level durations fill in for missing manifest durations, since
	// older documents only recorded them on the chunk.
	if manifest.OriginalDuration == 0 {
		manifest.OriginalDuration = chunk.OriginalDuration
	}
	if manifest.TranslationDuration == 0 {
		manifest.TranslationDuration = chunk.TranslationDuration
	}

	if manifest.OriginalURL == "" && manifest.TranslationURL == "" && manifest.CombinedURL == "" {
		return nil, nil, fmt.Errorf("%w: chunk %s", shared.ErrMissingManifest, chunk.ID)
	}

	return &chunk, &manifest, nil
}

// Validate checks that a chunk is structurally usable: a non-empty ID and
// sentences indexed 0..n-1 in order.
func Validate(chunk *models.Chunk) error {
	if chunk == nil || chunk.ID == "" {
		return fmt.Errorf("%w: missing id", shared.ErrInvalidChunk)
	}

	if len(chunk.Sentences) == 0 {
		return fmt.Errorf("%w: chunk %s has no sentences", shared.ErrInvalidChunk, chunk.ID)
	}

	for i, sentence := range chunk.Sentences {
		if sentence.Index != i {
			return fmt.Errorf("%w: chunk %s sentence %d has index %d", shared.ErrInvalidChunk, chunk.ID, i, sentence.Index)
		}
	}

	return nil
}
