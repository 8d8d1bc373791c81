package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/artisanhub/artisan-stories/internal/logger"
	"github.com/artisanhub/artisan-stories/internal/models"
)

var (
	// ErrTooManyImages is returned when a save carries more gallery images
	// than the per-story cap.
	ErrTooManyImages = errors.New("too many images")
)

// StoryWriter persists a story and its images atomically.
type StoryWriter interface {
	Save(ctx context.Context, userID uuid.UUID, input models.StoryInput, images []models.StoryImageInput, status string) (uuid.UUID, error)
}

// StoryReader lists stories owned by a user.
type StoryReader interface {
	ListByUser(ctx context.Context, userID uuid.UUID, status *string) ([]models.StoryWithImages, error)
}

// StoryCache caches story listings per user and status filter.
type StoryCache interface {
	Get(ctx context.Context, userID uuid.UUID, status *string) ([]models.StoryWithImages, error)
	Set(ctx context.Context, userID uuid.UUID, status *string, stories []models.StoryWithImages) error
	Invalidate(ctx context.Context, userID uuid.UUID) error
}

// FileStore accepts a byte stream under a key and can remove it again.
type FileStore interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Remove(ctx context.Context, key string) error
}

// ContentGenerator drafts story text from the user-supplied fields.
type ContentGenerator interface {
	GenerateStoryContent(ctx context.Context, prompt, title, introduction, materials, techniques string) (string, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// StoryService orchestrates content generation, image storage, the
// transactional save, cache invalidation and event publishing.
type StoryService struct {
	writeRepo   StoryWriter
	readRepo    StoryReader
	cacheRepo   StoryCache
	fileStore   FileStore
	generator   ContentGenerator
	kafkaWriter KafkaWriter
}

// NewStoryService creates a new StoryService.
func NewStoryService(
	writeRepo StoryWriter,
	readRepo StoryReader,
	cacheRepo StoryCache,
	fileStore FileStore,
	generator ContentGenerator,
	kafkaWriter KafkaWriter,
) *StoryService {
	return &StoryService{
		writeRepo:   writeRepo,
		readRepo:    readRepo,
		cacheRepo:   cacheRepo,
		fileStore:   fileStore,
		generator:   generator,
		kafkaWriter: kafkaWriter,
	}
}

// publishStoryEvent publishes a story lifecycle event to Kafka. Publishing is
// best-effort: failures are logged and never fail the save.
func (s *StoryService) publishStoryEvent(ctx context.Context, event models.StoryEvent) {
	if s.kafkaWriter == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "story_id", event.StoryID)
		return
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("Failed to marshal story event for Kafka", "story_id", event.StoryID, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.StoryID),
		Value: data,
	}

	if err := s.kafkaWriter.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("Failed to publish story event to Kafka", "story_id", event.StoryID, "error", err)
	} else {
		logger.Log.Infow("Story event published to Kafka", "story_id", event.StoryID, "status", event.Status)
	}
}

// SaveStory saves one story with its images under the given status.
// When the main content is empty and a prompt is present, the content is
// drafted by the generator first. Image bytes go to the file store; the
// returned object keys are persisted with the story in one transaction.
func (s *StoryService) SaveStory(ctx context.Context, userID uuid.UUID, input models.StoryInput, images []models.ImageUpload, status string) (uuid.UUID, error) {
	if len(images) > models.MaxImagesPerStory {
		return uuid.Nil, ErrTooManyImages
	}

	if input.Content == "" && input.AIPrompt != "" {
		content, err := s.generator.GenerateStoryContent(ctx, input.AIPrompt, input.Title, input.Introduction, input.Materials, input.Techniques)
		if err != nil {
			logger.Log.Errorw("failed to generate story content", "userID", userID, "error", err)
			return uuid.Nil, err
		}
		input.Content = content
	}

	imageRefs := make([]models.StoryImageInput, 0, len(images))
	for _, img := range images {
		key := fmt.Sprintf("stories/%s%s", uuid.New(), path.Ext(img.Filename))
		if err := s.fileStore.Upload(ctx, key, img.Data, img.ContentType); err != nil {
			logger.Log.Errorw("failed to upload story image", "userID", userID, "key", key, "error", err)
			s.removeUploaded(ctx, imageRefs)
			return uuid.Nil, err
		}
		imageRefs = append(imageRefs, models.StoryImageInput{ImageURL: key})
	}

	storyID, err := s.writeRepo.Save(ctx, userID, input, imageRefs, status)
	if err != nil {
		logger.Log.Errorw("failed to save story", "userID", userID, "status", status, "error", err)
		s.removeUploaded(ctx, imageRefs)
		return uuid.Nil, err
	}

	if err := s.cacheRepo.Invalidate(ctx, userID); err != nil {
		logger.Log.Errorw("failed to invalidate story cache", "userID", userID, "error", err)
	}

	event := models.StoryEvent{
		EventID:   uuid.NewString(),
		StoryID:   storyID.String(),
		UserID:    userID.String(),
		Status:    status,
		Timestamp: time.Now().Unix(),
	}
	s.publishStoryEvent(ctx, event)

	return storyID, nil
}

// removeUploaded cleans already-uploaded objects after an aborted save.
func (s *StoryService) removeUploaded(ctx context.Context, refs []models.StoryImageInput) {
	for _, ref := range refs {
		if err := s.fileStore.Remove(ctx, ref.ImageURL); err != nil {
			logger.Log.Errorw("failed to remove uploaded image", "key", ref.ImageURL, "error", err)
		}
	}
}

// ListStories returns the user's stories, optionally filtered by status,
// reading through the cache.
func (s *StoryService) ListStories(ctx context.Context, userID uuid.UUID, status *string) ([]models.StoryWithImages, error) {
	if cached, err := s.cacheRepo.Get(ctx, userID, status); err == nil {
		return cached, nil
	}

	stories, err := s.readRepo.ListByUser(ctx, userID, status)
	if err != nil {
		logger.Log.Errorw("failed to list stories", "userID", userID, "error", err)
		return nil, err
	}

	if err := s.cacheRepo.Set(ctx, userID, status, stories); err != nil {
		logger.Log.Errorw("failed to cache story listing", "userID", userID, "error", err)
	}

	return stories, nil
}
