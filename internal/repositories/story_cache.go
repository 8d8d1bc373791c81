package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/artisanhub/artisan-stories/internal/logger"
	"github.com/artisanhub/artisan-stories/internal/models"
)

// StoryCacheRepository provides cached story listings using Redis.
type StoryCacheRepository struct {
	client *redis.Client
	exp    time.Duration // expiration duration for cached listings
}

// NewStoryCacheRepository creates a new repository instance with a TTL.
func NewStoryCacheRepository(client *redis.Client, expiration time.Duration) *StoryCacheRepository {
	return &StoryCacheRepository{
		client: client,
		exp:    expiration,
	}
}

func storyListKey(userID uuid.UUID, status *string) string {
	filter := "all"
	if status != nil {
		filter = *status
	}
	return fmt.Sprintf("stories:%s:%s", userID, filter)
}

// Get fetches a cached listing for the user and status filter.
// A cache miss is reported as an error.
func (r *StoryCacheRepository) Get(ctx context.Context, userID uuid.UUID, status *string) ([]models.StoryWithImages, error) {
	key := storyListKey(userID, status)

	val, err := r.client.Get(ctx, key).Result()
	if err != nil {
		logger.Log.Infow("story cache get",
			"key", key,
			"error", err,
		)
		if err == redis.Nil {
			return nil, fmt.Errorf("story listing not found in cache for %s", key)
		}
		return nil, err
	}

	var stories []models.StoryWithImages
	if err := json.Unmarshal([]byte(val), &stories); err != nil {
		logger.Log.Infow("story cache get",
			"key", key,
			"error", err,
		)
		return nil, err
	}

	logger.Log.Infow("story cache get",
		"key", key,
		"count", len(stories),
		"error", nil,
	)

	return stories, nil
}

// Set caches a listing for the user and status filter with expiration.
func (r *StoryCacheRepository) Set(ctx context.Context, userID uuid.UUID, status *string, stories []models.StoryWithImages) error {
	key := storyListKey(userID, status)

	data, err := json.Marshal(stories)
	if err != nil {
		return err
	}

	err = r.client.Set(ctx, key, data, r.exp).Err()

	logger.Log.Infow("story cache set",
		"key", key,
		"count", len(stories),
		"error", err,
	)

	return err
}

// Invalidate drops every cached listing for the user. Called after a save so
// readers never observe a stale listing past the write.
func (r *StoryCacheRepository) Invalidate(ctx context.Context, userID uuid.UUID) error {
	draft := models.StoryStatusDraft
	published := models.StoryStatusPublished
	keys := []string{
		storyListKey(userID, nil),
		storyListKey(userID, &draft),
		storyListKey(userID, &published),
	}

	err := r.client.Del(ctx, keys...).Err()

	logger.Log.Infow("story cache invalidate",
		"keys", keys,
		"error", err,
	)

	return err
}
