package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/tandemreader/tandem/internal/models"
	"github.com/tandemreader/tandem/internal/shared"
)

// bookmarkColumns is the column list shared by every bookmark SELECT.
const bookmarkColumns = "id, sequence, chunk_id, media_url, track, position, sentence_index, created_at, updated_at, deleted_at"

// BookmarkRepository implements models.Repository[*models.Bookmark] for resume positions.
//
// Each media URL holds at most one live bookmark; progress updates land as
// upserts via [BookmarkRepository.Record].
type BookmarkRepository struct {
	db *sql.DB
}

// NewBookmarkRepository creates a new BookmarkRepository with the given database connection
func NewBookmarkRepository(db *sql.DB) *BookmarkRepository {
	return &BookmarkRepository{db: db}
}

// Create inserts a new bookmark into the database with generated ID and sequence
func (r *BookmarkRepository) Create(bookmark *models.Bookmark) error {
	sequence, err := NextSequence(r.db, "bookmarks")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	bookmark.SetID(id)
	bookmark.SetSequence(sequence)

	if err := bookmark.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO bookmarks (id, sequence, chunk_id, media_url, track, position, sentence_index, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		bookmark.ChunkID(),
		bookmark.MediaURL(),
		bookmark.Track().String(),
		bookmark.Position(),
		bookmark.SentenceIndex(),
		bookmark.CreatedAt(),
		bookmark.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert bookmark: %w", err)
	}

	return nil
}

// Get retrieves a bookmark by ID, excluding soft-deleted bookmarks
func (r *BookmarkRepository) Get(id string) (*models.Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookmarks
		WHERE id = ? AND deleted_at IS NULL
	`, bookmarkColumns)

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByMediaURL retrieves the live bookmark for a media URL
func (r *BookmarkRepository) GetByMediaURL(mediaURL string) (*models.Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookmarks
		WHERE media_url = ? AND deleted_at IS NULL
	`, bookmarkColumns)

	return r.scanOne(r.db.QueryRow(query, mediaURL))
}

// GetByChunkID retrieves all live bookmarks for a content chunk
func (r *BookmarkRepository) GetByChunkID(chunkID string) ([]*models.Bookmark, error) {
	return r.List(map[string]any{"chunk_id": chunkID})
}

// Record upserts the resume position for a media URL.
//
// If a live bookmark exists for the URL it is advanced in place, otherwise a
// new one is created. This is the write path wired to throttled progress
// updates, so it must stay cheap: one lookup, one write.
func (r *BookmarkRepository) Record(chunkID, mediaURL string, track models.Track, position float64, sentenceIndex int) (*models.Bookmark, error) {
	existing, err := r.GetByMediaURL(mediaURL)
	if err == nil {
		existing.Advance(track, position, sentenceIndex)
		if err := r.Update(existing); err != nil {
			return nil, err
		}
		return existing, nil
	}

	bookmark := models.NewBookmark(chunkID, mediaURL, track, position, sentenceIndex)
	if err := r.Create(bookmark); err != nil {
		return nil, err
	}
	return bookmark, nil
}

// Update modifies an existing bookmark in the database
func (r *BookmarkRepository) Update(bookmark *models.Bookmark) error {
	if err := bookmark.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		UPDATE bookmarks
		SET track = ?, position = ?, sentence_index = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		bookmark.Track().String(),
		bookmark.Position(),
		bookmark.SentenceIndex(),
		bookmark.UpdatedAt(),
		bookmark.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bookmark not found or already deleted: %s", bookmark.ID())
	}

	return nil
}

// Delete soft-deletes a bookmark by ID
func (r *BookmarkRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE bookmarks
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("bookmark not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all bookmarks matching the given criteria, excluding soft-deleted bookmarks
func (r *BookmarkRepository) List(criteria map[string]any) ([]*models.Bookmark, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM bookmarks
		WHERE deleted_at IS NULL
	`, bookmarkColumns)

	args := []any{}

	if chunkID, ok := criteria["chunk_id"].(string); ok && chunkID != "" {
		query += " AND chunk_id = ?"
		args = append(args, chunkID)
	}

	if track, ok := criteria["track"].(string); ok && track != "" {
		query += " AND track = ?"
		args = append(args, track)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookmarks: %w", err)
	}
	defer rows.Close()

	var bookmarks []*models.Bookmark
	for rows.Next() {
		bookmark, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		bookmarks = append(bookmarks, bookmark)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return bookmarks, nil
}

// scanOne scans a single row into a [models.Bookmark]
func (r *BookmarkRepository) scanOne(row *sql.Row) (*models.Bookmark, error) {
	var (
		id            string
		sequence      int
		chunkID       string
		mediaURL      string
		track         string
		position      float64
		sentenceIndex int
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := row.Scan(&id, &sequence, &chunkID, &mediaURL, &track, &position, &sentenceIndex, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, shared.ErrBookmarkNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan bookmark: %w", err)
	}

	return restore(id, sequence, chunkID, mediaURL, track, position, sentenceIndex, createdAt, updatedAt, deletedAt), nil
}

// scanRow scans a row from a multi-row result set into a [models.Bookmark]
func (r *BookmarkRepository) scanRow(rows *sql.Rows) (*models.Bookmark, error) {
	var (
		id            string
		sequence      int
		chunkID       string
		mediaURL      string
		track         string
		position      float64
		sentenceIndex int
		createdAt     time.Time
		updatedAt     time.Time
		deletedAt     sql.NullTime
	)

	err := rows.Scan(&id, &sequence, &chunkID, &mediaURL, &track, &position, &sentenceIndex, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan bookmark: %w", err)
	}

	return restore(id, sequence, chunkID, mediaURL, track, position, sentenceIndex, createdAt, updatedAt, deletedAt), nil
}

func restore(id string, sequence int, chunkID, mediaURL, track string, position float64, sentenceIndex int, createdAt, updatedAt time.Time, deletedAt sql.NullTime) *models.Bookmark {
	var deleted *time.Time
	if deletedAt.Valid {
		deleted = &deletedAt.Time
	}
	return models.RestoreBookmark(id, sequence, chunkID, mediaURL, models.ParseTrack(track), position, sentenceIndex, createdAt, updatedAt, deleted)
}
