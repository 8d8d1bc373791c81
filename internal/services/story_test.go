package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/artisanhub/artisan-stories/internal/models"
	"github.com/artisanhub/artisan-stories/internal/services"
)

type storyServiceMocks struct {
	writeRepo *services.MockStoryWriter
	readRepo  *services.MockStoryReader
	cache     *services.MockStoryCache
	fileStore *services.MockFileStore
	generator *services.MockContentGenerator
	kafka     *services.MockKafkaWriter
}

func newStoryService(ctrl *gomock.Controller) (*services.StoryService, storyServiceMocks) {
	m := storyServiceMocks{
		writeRepo: services.NewMockStoryWriter(ctrl),
		readRepo:  services.NewMockStoryReader(ctrl),
		cache:     services.NewMockStoryCache(ctrl),
		fileStore: services.NewMockFileStore(ctrl),
		generator: services.NewMockContentGenerator(ctrl),
		kafka:     services.NewMockKafkaWriter(ctrl),
	}
	svc := services.NewStoryService(m.writeRepo, m.readRepo, m.cache, m.fileStore, m.generator, m.kafka)
	return svc, m
}

func TestStoryService_SaveStory_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStoryService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	storyID := uuid.New()
	input := models.StoryInput{Title: "Teapot", Introduction: "intro", Content: "already written"}
	images := []models.ImageUpload{
		{Filename: "a.jpg", ContentType: "image/jpeg", Data: []byte("aaa")},
		{Filename: "b.png", ContentType: "image/png", Data: []byte("bbb")},
	}

	var uploadedKeys []string
	m.fileStore.EXPECT().
		Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, _ []byte, _ string) error {
			uploadedKeys = append(uploadedKeys, key)
			return nil
		}).
		Times(2)

	m.writeRepo.EXPECT().
		Save(gomock.Any(), userID, input, gomock.Any(), models.StoryStatusPublished).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, _ models.StoryInput, refs []models.StoryImageInput, _ string) (uuid.UUID, error) {
			require.Len(t, refs, 2)
			assert.Equal(t, uploadedKeys[0], refs[0].ImageURL)
			assert.Equal(t, uploadedKeys[1], refs[1].ImageURL)
			return storyID, nil
		})

	m.cache.EXPECT().Invalidate(gomock.Any(), userID).Return(nil)
	m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.SaveStory(ctx, userID, input, images, models.StoryStatusPublished)
	assert.NoError(t, err)
	assert.Equal(t, storyID, got)

	// Keys get a fresh name but keep the original extension.
	assert.Contains(t, uploadedKeys[0], "stories/")
	assert.Contains(t, uploadedKeys[0], ".jpg")
	assert.Contains(t, uploadedKeys[1], ".png")
}

func TestStoryService_SaveStory_GeneratesContent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStoryService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	storyID := uuid.New()
	input := models.StoryInput{
		Title:        "Teapot",
		Introduction: "intro",
		Materials:    "clay",
		Techniques:   "throwing",
		AIPrompt:     "tell the story of this teapot",
	}

	m.generator.EXPECT().
		GenerateStoryContent(gomock.Any(), input.AIPrompt, input.Title, input.Introduction, input.Materials, input.Techniques).
		Return("generated text", nil)

	m.writeRepo.EXPECT().
		Save(gomock.Any(), userID, gomock.Any(), gomock.Any(), models.StoryStatusDraft).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, in models.StoryInput, _ []models.StoryImageInput, _ string) (uuid.UUID, error) {
			assert.Equal(t, "generated text", in.Content)
			return storyID, nil
		})

	m.cache.EXPECT().Invalidate(gomock.Any(), userID).Return(nil)
	m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

	got, err := svc.SaveStory(ctx, userID, input, nil, models.StoryStatusDraft)
	assert.NoError(t, err)
	assert.Equal(t, storyID, got)
}

func TestStoryService_SaveStory_SkipsGenerationWhenContentPresent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStoryService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	input := models.StoryInput{Title: "t", Introduction: "i", Content: "written by hand", AIPrompt: "ignored"}

	// No generator expectation: content is already present.
	m.writeRepo.EXPECT().
		Save(gomock.Any(), userID, input, gomock.Any(), models.StoryStatusDraft).
		Return(uuid.New(), nil)
	m.cache.EXPECT().Invalidate(gomock.Any(), userID).Return(nil)
	m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil)

	_, err := svc.SaveStory(ctx, userID, input, nil, models.StoryStatusDraft)
	assert.NoError(t, err)
}

func TestStoryService_SaveStory_GenerationError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStoryService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	input := models.StoryInput{Title: "t", Introduction: "i", AIPrompt: "prompt"}
	genErr := errors.New("generation unavailable")

	m.generator.EXPECT().
		GenerateStoryContent(gomock.Any(), "prompt", "t", "i", "", "").
		Return("", genErr)

	got, err := svc.SaveStory(ctx, userID, input, nil, models.StoryStatusPublished)
	assert.ErrorIs(t, err, genErr)
	assert.Equal(t, uuid.Nil, got)
}

func TestStoryService_SaveStory_TooManyImages(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, _ := newStoryService(ctrl)
	ctx := context.Background()

	images := make([]models.ImageUpload, models.MaxImagesPerStory+1)
	for i := range images {
		images[i] = models.ImageUpload{Filename: "x.jpg", Data: []byte("x")}
	}

	got, err := svc.SaveStory(ctx, uuid.New(), models.StoryInput{Title: "t", Introduction: "i", Content: "c"}, images, models.StoryStatusDraft)
	assert.ErrorIs(t, err, services.ErrTooManyImages)
	assert.Equal(t, uuid.Nil, got)
}

func TestStoryService_SaveStory_UploadErrorCleansUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStoryService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	input := models.StoryInput{Title: "t", Introduction: "i", Content: "c"}
	images := []models.ImageUpload{
		{Filename: "a.jpg", Data: []byte("aaa")},
		{Filename: "b.jpg", Data: []byte("bbb")},
	}
	uploadErr := errors.New("storage down")

	var firstKey string
	first := m.fileStore.EXPECT().
		Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string, _ []byte, _ string) error {
			firstKey = key
			return nil
		})
	m.fileStore.EXPECT().
		Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(uploadErr).
		After(first)

	// The already-stored object is removed again.
	m.fileStore.EXPECT().
		Remove(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, key string) error {
			assert.Equal(t, firstKey, key)
			return nil
		})

	got, err := svc.SaveStory(ctx, userID, input, images, models.StoryStatusDraft)
	assert.ErrorIs(t, err, uploadErr)
	assert.Equal(t, uuid.Nil, got)
}

func TestStoryService_SaveStory_RepoErrorCleansUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStoryService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	input := models.StoryInput{Title: "t", Introduction: "i", Content: "c"}
	images := []models.ImageUpload{{Filename: "a.jpg", Data: []byte("aaa")}}
	repoErr := errors.New("insert failed")

	m.fileStore.EXPECT().
		Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil)
	m.writeRepo.EXPECT().
		Save(gomock.Any(), userID, input, gomock.Any(), models.StoryStatusPublished).
		Return(uuid.Nil, repoErr)
	m.fileStore.EXPECT().
		Remove(gomock.Any(), gomock.Any()).
		Return(nil)

	got, err := svc.SaveStory(ctx, userID, input, images, models.StoryStatusPublished)
	assert.ErrorIs(t, err, repoErr)
	assert.Equal(t, uuid.Nil, got)
}

func TestStoryService_SaveStory_CacheAndKafkaErrorsTolerated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStoryService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	storyID := uuid.New()
	input := models.StoryInput{Title: "t", Introduction: "i", Content: "c"}

	m.writeRepo.EXPECT().
		Save(gomock.Any(), userID, input, gomock.Any(), models.StoryStatusPublished).
		Return(storyID, nil)
	m.cache.EXPECT().Invalidate(gomock.Any(), userID).Return(errors.New("redis down"))
	m.kafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(errors.New("kafka down"))

	got, err := svc.SaveStory(ctx, userID, input, nil, models.StoryStatusPublished)
	assert.NoError(t, err)
	assert.Equal(t, storyID, got)
}

func TestStoryService_SaveStory_NilKafkaWriter(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	writeRepo := services.NewMockStoryWriter(ctrl)
	readRepo := services.NewMockStoryReader(ctrl)
	cache := services.NewMockStoryCache(ctrl)
	fileStore := services.NewMockFileStore(ctrl)
	generator := services.NewMockContentGenerator(ctrl)

	svc := services.NewStoryService(writeRepo, readRepo, cache, fileStore, generator, nil)
	ctx := context.Background()

	userID := uuid.New()
	storyID := uuid.New()
	input := models.StoryInput{Title: "t", Introduction: "i", Content: "c"}

	writeRepo.EXPECT().
		Save(gomock.Any(), userID, input, gomock.Any(), models.StoryStatusDraft).
		Return(storyID, nil)
	cache.EXPECT().Invalidate(gomock.Any(), userID).Return(nil)

	got, err := svc.SaveStory(ctx, userID, input, nil, models.StoryStatusDraft)
	assert.NoError(t, err)
	assert.Equal(t, storyID, got)
}

func TestStoryService_ListStories_CacheHit(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStoryService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	cached := []models.StoryWithImages{
		{StoryDB: models.StoryDB{StoryID: uuid.New(), UserID: userID, Title: "cached"}, Images: []models.StoryImageDB{}},
	}

	m.cache.EXPECT().Get(gomock.Any(), userID, gomock.Nil()).Return(cached, nil)

	got, err := svc.ListStories(ctx, userID, nil)
	assert.NoError(t, err)
	assert.Equal(t, cached, got)
}

func TestStoryService_ListStories_CacheMiss(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStoryService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	status := models.StoryStatusPublished
	stories := []models.StoryWithImages{
		{StoryDB: models.StoryDB{StoryID: uuid.New(), UserID: userID, Title: "from db"}, Images: []models.StoryImageDB{}},
	}

	m.cache.EXPECT().Get(gomock.Any(), userID, &status).Return(nil, errors.New("cache miss"))
	m.readRepo.EXPECT().ListByUser(gomock.Any(), userID, &status).Return(stories, nil)
	m.cache.EXPECT().Set(gomock.Any(), userID, &status, stories).Return(nil)

	got, err := svc.ListStories(ctx, userID, &status)
	assert.NoError(t, err)
	assert.Equal(t, stories, got)
}

func TestStoryService_ListStories_RepoError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStoryService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	repoErr := errors.New("db error")

	m.cache.EXPECT().Get(gomock.Any(), userID, gomock.Nil()).Return(nil, errors.New("cache miss"))
	m.readRepo.EXPECT().ListByUser(gomock.Any(), userID, gomock.Nil()).Return(nil, repoErr)

	got, err := svc.ListStories(ctx, userID, nil)
	assert.ErrorIs(t, err, repoErr)
	assert.Nil(t, got)
}

func TestStoryService_ListStories_CacheSetErrorTolerated(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, m := newStoryService(ctrl)
	ctx := context.Background()

	userID := uuid.New()
	stories := []models.StoryWithImages{}

	m.cache.EXPECT().Get(gomock.Any(), userID, gomock.Nil()).Return(nil, errors.New("cache miss"))
	m.readRepo.EXPECT().ListByUser(gomock.Any(), userID, gomock.Nil()).Return(stories, nil)
	m.cache.EXPECT().Set(gomock.Any(), userID, gomock.Nil(), stories).Return(errors.New("redis down"))

	got, err := svc.ListStories(ctx, userID, nil)
	assert.NoError(t, err)
	assert.Equal(t, stories, got)
}
