package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"

	"github.com/artisanhub/artisan-stories/internal/jwt"
	"github.com/artisanhub/artisan-stories/internal/logger"
	"github.com/artisanhub/artisan-stories/internal/models"
	"github.com/artisanhub/artisan-stories/internal/services"
)

// maxMultipartMemory bounds in-memory staging of multipart bodies; larger
// parts spill to temp files which are removed after the response.
const maxMultipartMemory = 32 << 20

// StorySaver defines the interface that the story service must implement.
type StorySaver interface {
	SaveStory(ctx context.Context, userID uuid.UUID, input models.StoryInput, images []models.ImageUpload, status string) (uuid.UUID, error)
}

// Tokener extracts and parses the bearer token for protected handlers.
// The user identity always comes from the verified token, never from the
// request payload.
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	GetClaims(ctx context.Context, tokenString string) (*jwt.Claims, error)
}

// SaveStoryResponse represents a successful story save
// swagger:model SaveStoryResponse
type SaveStoryResponse struct {
	// Always true on success
	Success bool `json:"success"`

	// Success message
	Message string `json:"message"`

	// ID of the created story
	StoryID string `json:"storyId"`
}

// SaveStoryErrorResponse represents a failed story save
// swagger:model SaveStoryErrorResponse
type SaveStoryErrorResponse struct {
	// Always false on failure
	Success bool `json:"success"`

	// Error message
	Error string `json:"error"`
}

// NewPublishStoryHandler returns the handler for publishing a story.
// @Summary Publish a story
// @Description Saves a story with status published. Multipart form with text fields (storyTitle, introduction, aiPrompt, materials, techniques, mainContent) and up to 10 galleryImages attachments. When mainContent is empty and aiPrompt is set, the content is drafted by the generation service.
// @Tags stories
// @Accept mpfd
// @Produce json
// @Param storyTitle formData string true "Story title"
// @Param introduction formData string true "Introduction"
// @Param aiPrompt formData string false "Generation prompt"
// @Param materials formData string false "Materials"
// @Param techniques formData string false "Techniques"
// @Param mainContent formData string false "Main content"
// @Param galleryImages formData file false "Gallery images"
// @Success 200 {object} handlers.SaveStoryResponse "Story published"
// @Failure 400 {object} handlers.SaveStoryErrorResponse "Validation failure"
// @Failure 401 {object} handlers.ErrorResponse "Missing token"
// @Failure 403 {object} handlers.ErrorResponse "Invalid or expired token"
// @Failure 500 {object} handlers.SaveStoryErrorResponse "Persistence or generation failure"
// @Router /api/upload-content [post]
// @Security BearerAuth
func NewPublishStoryHandler(svc StorySaver, tokener Tokener) http.HandlerFunc {
	return newSaveStoryHandler(svc, tokener, models.StoryStatusPublished,
		"Story published successfully!", "Failed to publish story.")
}

// NewSaveDraftHandler returns the handler for saving a story draft.
// @Summary Save a story draft
// @Description Saves a story with status draft. Same form shape as /api/upload-content.
// @Tags stories
// @Accept mpfd
// @Produce json
// @Param storyTitle formData string true "Story title"
// @Param introduction formData string true "Introduction"
// @Param aiPrompt formData string false "Generation prompt"
// @Param materials formData string false "Materials"
// @Param techniques formData string false "Techniques"
// @Param mainContent formData string false "Main content"
// @Param galleryImages formData file false "Gallery images"
// @Success 200 {object} handlers.SaveStoryResponse "Draft saved"
// @Failure 400 {object} handlers.SaveStoryErrorResponse "Validation failure"
// @Failure 401 {object} handlers.ErrorResponse "Missing token"
// @Failure 403 {object} handlers.ErrorResponse "Invalid or expired token"
// @Failure 500 {object} handlers.SaveStoryErrorResponse "Persistence or generation failure"
// @Router /api/save-draft [post]
// @Security BearerAuth
func NewSaveDraftHandler(svc StorySaver, tokener Tokener) http.HandlerFunc {
	return newSaveStoryHandler(svc, tokener, models.StoryStatusDraft,
		"Draft saved successfully!", "Failed to save draft.")
}

func newSaveStoryHandler(svc StorySaver, tokener Tokener, status, successMsg, failureMsg string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("Content-Type", "application/json")

		tokenStr, err := tokener.GetTokenFromRequest(ctx, r)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Access token required"})
			return
		}
		claims, err := tokener.GetClaims(ctx, tokenStr)
		if err != nil {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(ErrorResponse{Error: "Invalid or expired token"})
			return
		}

		if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SaveStoryErrorResponse{Error: "Invalid multipart form"})
			return
		}
		// Temp files staged by the multipart parser are removed on every
		// exit path, success or failure.
		defer func() {
			if err := r.MultipartForm.RemoveAll(); err != nil {
				logger.Log.Errorw("failed to remove multipart temp files", "error", err)
			}
		}()

		input := models.StoryInput{
			Title:        r.FormValue("storyTitle"),
			Introduction: r.FormValue("introduction"),
			AIPrompt:     r.FormValue("aiPrompt"),
			Materials:    r.FormValue("materials"),
			Techniques:   r.FormValue("techniques"),
			Content:      r.FormValue("mainContent"),
		}

		if input.Title == "" || input.Introduction == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SaveStoryErrorResponse{Error: "Title and introduction are required"})
			return
		}
		if input.Content == "" && input.AIPrompt == "" {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SaveStoryErrorResponse{Error: "Main content or an AI prompt is required"})
			return
		}

		fileHeaders := r.MultipartForm.File["galleryImages"]
		if len(fileHeaders) > models.MaxImagesPerStory {
			w.WriteHeader(http.StatusBadRequest)
			json.NewEncoder(w).Encode(SaveStoryErrorResponse{Error: "Too many images"})
			return
		}

		images := make([]models.ImageUpload, 0, len(fileHeaders))
		for _, fh := range fileHeaders {
			f, err := fh.Open()
			if err != nil {
				logger.Log.Errorw("failed to open uploaded file", "filename", fh.Filename, "error", err)
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(SaveStoryErrorResponse{Error: "Invalid multipart form"})
				return
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				logger.Log.Errorw("failed to read uploaded file", "filename", fh.Filename, "error", err)
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(SaveStoryErrorResponse{Error: "Invalid multipart form"})
				return
			}
			images = append(images, models.ImageUpload{
				Filename:    fh.Filename,
				ContentType: fh.Header.Get("Content-Type"),
				Data:        data,
			})
		}

		storyID, err := svc.SaveStory(ctx, claims.UserID, input, images, status)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrTooManyImages):
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(SaveStoryErrorResponse{Error: "Too many images"})
			default:
				logger.Log.Errorw("failed to save story", "userID", claims.UserID, "status", status, "err", err)
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(SaveStoryErrorResponse{Error: failureMsg})
			}
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(SaveStoryResponse{
			Success: true,
			Message: successMsg,
			StoryID: storyID.String(),
		})
	}
}
