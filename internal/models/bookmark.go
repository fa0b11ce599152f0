package models

import (
	"fmt"
	"time"
)

// Bookmark is a persisted resume position for one media URL. It is the
// reference consumer of the engine's progress events: every throttled
// position update for the effective track lands here.
type Bookmark struct {
	id            string
	sequence      int
	chunkID       string
	mediaURL      string
	track         Track
	position      float64
	sentenceIndex int
	createdAt     time.Time
	updatedAt     time.Time
	deletedAt     *time.Time
}

// NewBookmark creates an unsaved bookmark for the given chunk and media URL.
func NewBookmark(chunkID, mediaURL string, track Track, position float64, sentenceIndex int) *Bookmark {
	now := time.Now()
	return &Bookmark{
		chunkID:       chunkID,
		mediaURL:      mediaURL,
		track:         track,
		position:      position,
		sentenceIndex: sentenceIndex,
		createdAt:     now,
		updatedAt:     now,
	}
}

// RestoreBookmark rebuilds a bookmark from stored column values.
func RestoreBookmark(id string, sequence int, chunkID, mediaURL string, track Track, position float64, sentenceIndex int, createdAt, updatedAt time.Time, deletedAt *time.Time) *Bookmark {
	return &Bookmark{
		id:            id,
		sequence:      sequence,
		chunkID:       chunkID,
		mediaURL:      mediaURL,
		track:         track,
		position:      position,
		sentenceIndex: sentenceIndex,
		createdAt:     createdAt,
		updatedAt:     updatedAt,
		deletedAt:     deletedAt,
	}
}

// ID returns the unique identifier for this bookmark.
func (b *Bookmark) ID() string { return b.id }

// SetID assigns the identifier, used by the repository on create.
func (b *Bookmark) SetID(id string) { b.id = id }

// Sequence returns the human-readable ordering number.
func (b *Bookmark) Sequence() int { return b.sequence }

// SetSequence assigns the ordering number, used by the repository on create.
func (b *Bookmark) SetSequence(seq int) { b.sequence = seq }

// ChunkID returns the content chunk this bookmark belongs to.
func (b *Bookmark) ChunkID() string { return b.chunkID }

// MediaURL returns the media URL the position refers to.
func (b *Bookmark) MediaURL() string { return b.mediaURL }

// Track returns the narration track the position refers to.
func (b *Bookmark) Track() Track { return b.track }

// Position returns the stored in-track position in seconds.
func (b *Bookmark) Position() float64 { return b.position }

// SentenceIndex returns the sentence the position falls in.
func (b *Bookmark) SentenceIndex() int { return b.sentenceIndex }

// CreatedAt returns when this bookmark was created.
func (b *Bookmark) CreatedAt() time.Time { return b.createdAt }

// UpdatedAt returns when this bookmark was last updated.
func (b *Bookmark) UpdatedAt() time.Time { return b.updatedAt }

// DeletedAt returns the soft-delete timestamp, or nil.
func (b *Bookmark) DeletedAt() *time.Time { return b.deletedAt }

// Advance replaces the stored position and bumps the update timestamp.
func (b *Bookmark) Advance(track Track, position float64, sentenceIndex int) {
	b.track = track
	b.position = position
	b.sentenceIndex = sentenceIndex
	b.updatedAt = time.Now()
}

// Validate checks if the bookmark's data is valid and returns an error if not.
func (b *Bookmark) Validate() error {
	if b.chunkID == "" {
		return fmt.Errorf("bookmark missing chunk id")
	}
	if b.mediaURL == "" {
		return fmt.Errorf("bookmark missing media url")
	}
	if b.position < 0 {
		return fmt.Errorf("bookmark position %f is negative", b.position)
	}
	if b.sentenceIndex < 0 {
		return fmt.Errorf("bookmark sentence index %d is negative", b.sentenceIndex)
	}
	return nil
}
