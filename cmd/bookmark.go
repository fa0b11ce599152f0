package main

import (
	"context"
	"fmt"
	"time"

	"github.com/tandemreader/tandem/internal/models"
	"github.com/tandemreader/tandem/internal/shared"
	"github.com/urfave/cli/v3"
)

// bookmarkRow is the JSON shape of one listed bookmark.
type bookmarkRow struct {
	ID            string  `json:"id"`
	ChunkID       string  `json:"chunk_id"`
	MediaURL      string  `json:"media_url"`
	Track         string  `json:"track"`
	Position      float64 `json:"position"`
	SentenceIndex int     `json:"sentence_index"`
	UpdatedAt     string  `json:"updated_at"`
}

func toBookmarkRow(b *models.Bookmark) bookmarkRow {
	return bookmarkRow{
		ID:            b.ID(),
		ChunkID:       b.ChunkID(),
		MediaURL:      b.MediaURL(),
		Track:         b.Track().String(),
		Position:      b.Position(),
		SentenceIndex: b.SentenceIndex(),
		UpdatedAt:     b.UpdatedAt().Format(time.RFC3339),
	}
}

// BookmarkList lists stored playback positions.
func (r *Runner) BookmarkList(ctx context.Context, cmd *cli.Command) error {
	db, repo, err := r.openRepository()
	if err != nil {
		return err
	}
	defer db.Close()

	criteria := map[string]any{}
	if chunkID := cmd.String("chunk"); chunkID != "" {
		criteria["chunk_id"] = chunkID
	}

	bookmarks, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list bookmarks: %w", err)
	}

	if cmd.Bool("json") {
		rows := make([]bookmarkRow, len(bookmarks))
		for i, b := range bookmarks {
			rows[i] = toBookmarkRow(b)
		}
		return r.writeJSON(rows, cmd.Bool("pretty"))
	}

	if len(bookmarks) == 0 {
		r.writePlain("No bookmarks stored\n")
		return nil
	}

	r.writePlainHeader("Bookmarks")
	for _, b := range bookmarks {
		r.writePlain("%s  %s  %s @ %s (sentence %d)\n",
			b.ID(), b.ChunkID(), b.Track(),
			shared.FormatSeconds(b.Position()), b.SentenceIndex()+1)
	}

	return nil
}

// BookmarkDelete removes a stored playback position by ID.
func (r *Runner) BookmarkDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.StringArg("id")
	if id == "" {
		return fmt.Errorf("%w: bookmark ID", shared.ErrMissingArgument)
	}

	db, repo, err := r.openRepository()
	if err != nil {
		return err
	}
	defer db.Close()

	if err := repo.Delete(id); err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	r.logger.Info("bookmark deleted", "id", id)
	r.writePlain("Deleted bookmark %s\n", id)
	return nil
}
