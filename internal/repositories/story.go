package repositories

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/artisanhub/artisan-stories/internal/logger"
	"github.com/artisanhub/artisan-stories/internal/models"
)

// StoryWriteRepository handles story write operations. The story row and all
// of its image rows are inserted in one transaction: either everything
// commits or nothing does.
type StoryWriteRepository struct {
	db       *sqlx.DB
	txGetter func(ctx context.Context) *sqlx.Tx
}

// NewStoryWriteRepository creates a repository. txGetter may be nil; when it
// yields a transaction the save runs inside it and the caller owns the
// commit, otherwise the repository begins and finishes its own transaction.
func NewStoryWriteRepository(db *sqlx.DB, txGetter func(ctx context.Context) *sqlx.Tx) *StoryWriteRepository {
	return &StoryWriteRepository{db: db, txGetter: txGetter}
}

// Save inserts one story plus its image rows atomically and returns the new
// story ID. If status is published, published_at is set to the time of the
// transaction. Any error rolls the whole write back.
func (r *StoryWriteRepository) Save(ctx context.Context, userID uuid.UUID, input models.StoryInput, images []models.StoryImageInput, status string) (uuid.UUID, error) {
	var (
		tx       *sqlx.Tx
		ownersTx bool
		err      error
	)

	if r.txGetter != nil {
		tx = r.txGetter(ctx)
	}
	if tx == nil {
		tx, err = r.db.BeginTxx(ctx, nil)
		if err != nil {
			logger.Log.Errorw("failed to begin story transaction", "error", err)
			return uuid.Nil, err
		}
		ownersTx = true
	}

	storyID, err := r.save(ctx, tx, userID, input, images, status)
	if !ownersTx {
		return storyID, err
	}

	if err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			logger.Log.Errorw("failed to roll back story transaction", "error", rbErr)
		}
		return uuid.Nil, err
	}
	if err := tx.Commit(); err != nil {
		logger.Log.Errorw("failed to commit story transaction", "error", err)
		return uuid.Nil, err
	}

	return storyID, nil
}

func (r *StoryWriteRepository) save(ctx context.Context, tx *sqlx.Tx, userID uuid.UUID, input models.StoryInput, images []models.StoryImageInput, status string) (uuid.UUID, error) {
	const storyQuery = `
		INSERT INTO stories (id, user_id, title, introduction, materials, techniques, content, status, published_at, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), $7, $8, $9, NOW(), NOW())
		RETURNING id
	`

	var publishedAt *time.Time
	if status == models.StoryStatusPublished {
		now := time.Now()
		publishedAt = &now
	}

	storyID := uuid.New()
	args := []any{storyID, userID, input.Title, input.Introduction, input.Materials, input.Techniques, input.Content, status, publishedAt}

	err := tx.GetContext(ctx, &storyID, storyQuery, args...)

	// Log with query in single line
	logger.Log.Infow("story insert",
		"query", strings.Join(strings.Fields(storyQuery), " "),
		"args", args,
		"error", err,
	)

	if err != nil {
		return uuid.Nil, err
	}

	const imageQuery = `
		INSERT INTO story_images (id, story_id, image_url, caption, created_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), NOW())
	`

	for _, img := range images {
		imgArgs := []any{uuid.New(), storyID, img.ImageURL, img.Caption}
		_, err := tx.ExecContext(ctx, imageQuery, imgArgs...)

		logger.Log.Infow("story image insert",
			"query", strings.Join(strings.Fields(imageQuery), " "),
			"args", imgArgs,
			"error", err,
		)

		if err != nil {
			return uuid.Nil, err
		}
	}

	return storyID, nil
}

// StoryReadRepository handles story read operations.
type StoryReadRepository struct {
	db *sqlx.DB
}

func NewStoryReadRepository(db *sqlx.DB) *StoryReadRepository {
	return &StoryReadRepository{db: db}
}

// ListByUser returns the stories owned by userID, newest-created first,
// optionally narrowed to one status, each carrying its image list. A story
// without images gets an empty slice, not nil.
func (r *StoryReadRepository) ListByUser(ctx context.Context, userID uuid.UUID, status *string) ([]models.StoryWithImages, error) {
	const query = `
		SELECT id, user_id, title, introduction, materials, techniques, content, status, created_at, updated_at, published_at
		FROM stories
		WHERE user_id = $1
		  AND ($2::VARCHAR IS NULL OR status = $2)
		ORDER BY created_at DESC
	`

	var rows []models.StoryDB
	err := r.db.SelectContext(ctx, &rows, query, userID, status)

	logger.Log.Infow("story list",
		"query", strings.Join(strings.Fields(query), " "),
		"args", []any{userID, status},
		"count", len(rows),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	stories := make([]models.StoryWithImages, 0, len(rows))
	for _, row := range rows {
		stories = append(stories, models.StoryWithImages{StoryDB: row, Images: []models.StoryImageDB{}})
	}
	if len(stories) == 0 {
		return stories, nil
	}

	ids := make([]uuid.UUID, 0, len(rows))
	for _, row := range rows {
		ids = append(ids, row.StoryID)
	}

	imgQuery, imgArgs, err := sqlx.In(`
		SELECT id, story_id, image_url, caption, created_at
		FROM story_images
		WHERE story_id IN (?)
	`, ids)
	if err != nil {
		return nil, err
	}
	imgQuery = r.db.Rebind(imgQuery)

	var images []models.StoryImageDB
	err = r.db.SelectContext(ctx, &images, imgQuery, imgArgs...)

	logger.Log.Infow("story images list",
		"query", strings.Join(strings.Fields(imgQuery), " "),
		"count", len(images),
		"error", err,
	)

	if err != nil {
		return nil, err
	}

	byStory := make(map[uuid.UUID]int, len(stories))
	for i, s := range stories {
		byStory[s.StoryID] = i
	}
	for _, img := range images {
		if i, ok := byStory[img.StoryID]; ok {
			stories[i].Images = append(stories[i].Images, img)
		}
	}

	return stories, nil
}
