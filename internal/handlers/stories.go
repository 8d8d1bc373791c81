package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/artisanhub/artisan-stories/internal/logger"
	"github.com/artisanhub/artisan-stories/internal/models"
)

// StoryLister defines the interface that the listing service must implement.
type StoryLister interface {
	ListStories(ctx context.Context, userID uuid.UUID, status *string) ([]models.StoryWithImages, error)
}

// StoriesResponse represents the listing response
// swagger:model StoriesResponse
type StoriesResponse struct {
	// Always true on success
	Success bool `json:"success"`

	// Stories owned by the authenticated user, newest first
	Stories []models.StoryWithImages `json:"stories"`
}

// NewGetStoriesHandler returns an HTTP handler that lists the authenticated
// user's stories. Authorization is row-scoped: only stories owned by the
// token's user are ever returned.
// @Summary List own stories
// @Description Returns the stories of the authenticated user, newest first, each with its image list. Optionally filtered by status.
// @Tags stories
// @Produce json
// @Param status query string false "Filter by status (draft or published)"
// @Success 200 {object} handlers.StoriesResponse "Stories returned"
// @Failure 401 {object} handlers.ErrorResponse "Missing token"
// @Failure 403 {object} handlers.ErrorResponse "Invalid or expired token"
// @Failure 500 {object} handlers.SaveStoryErrorResponse "Internal server error"
// @Router /api/stories [get]
// @Security BearerAuth
func NewGetStoriesHandler(svc StoryLister, tokener Tokener) http.HandlerFunc {
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

		var status *string
		if s := r.URL.Query().Get("status"); s != "" {
			status = &s
		}

		stories, err := svc.ListStories(ctx, claims.UserID, status)
		if err != nil {
			logger.Log.Errorw("failed to fetch stories", "userID", claims.UserID, "err", err)
			w.WriteHeader(http.StatusInternalServerError)
			json.NewEncoder(w).Encode(SaveStoryErrorResponse{Error: "Failed to fetch stories."})
			return
		}

		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(StoriesResponse{
			Success: true,
			Stories: stories,
		})
	}
}
