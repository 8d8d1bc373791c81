package models

import (
	"time"

	"github.com/google/uuid"
)

// Story lifecycle statuses.
const (
	StoryStatusDraft     = "draft"
	StoryStatusPublished = "published"
)

// MaxImagesPerStory caps the number of gallery images accepted per story.
const MaxImagesPerStory = 10

// StoryDB represents a story row in the database.
type StoryDB struct {
	StoryID      uuid.UUID  `json:"id" db:"id"`                         // Primary key
	UserID       uuid.UUID  `json:"user_id" db:"user_id"`               // Owning user
	Title        string     `json:"title" db:"title"`                   // Story title
	Introduction string     `json:"introduction" db:"introduction"`     // Introduction text
	Materials    *string    `json:"materials" db:"materials"`           // Optional materials free text
	Techniques   *string    `json:"techniques" db:"techniques"`         // Optional techniques free text
	Content      string     `json:"content" db:"content"`               // Main story content
	Status       string     `json:"status" db:"status"`                 // draft or published
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`         // Creation timestamp
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`         // Last update timestamp
	PublishedAt  *time.Time `json:"published_at" db:"published_at"`     // Set iff status is published
}

// StoryImageDB represents a story image row in the database.
type StoryImageDB struct {
	ImageID   uuid.UUID `json:"id" db:"id"`                 // Primary key
	StoryID   uuid.UUID `json:"story_id" db:"story_id"`     // Owning story
	ImageURL  string    `json:"url" db:"image_url"`         // Retrievable object reference
	Caption   *string   `json:"caption" db:"caption"`       // Optional caption
	CreatedAt time.Time `json:"created_at" db:"created_at"` // Creation timestamp
}

// StoryWithImages is a story enriched with its associated images.
// Images is an empty slice, never nil, when the story has none.
type StoryWithImages struct {
	StoryDB
	Images []StoryImageDB `json:"images"`
}

// StoryInput is the validated payload of a story save request.
type StoryInput struct {
	Title        string // required
	Introduction string // required
	Materials    string // optional
	Techniques   string // optional
	Content      string // required unless AIPrompt is set
	AIPrompt     string // optional generation prompt
}

// StoryImageInput describes one image reference persisted with a story.
type StoryImageInput struct {
	ImageURL string
	Caption  string
}

// ImageUpload carries one received image byte stream.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}

// StoryEvent is published to Kafka after a successful story save.
type StoryEvent struct {
	EventID   string `json:"event_id"`
	StoryID   string `json:"story_id"`
	UserID    string `json:"user_id"`
	Status    string `json:"status"`
	Timestamp int64  `json:"timestamp"`
}
