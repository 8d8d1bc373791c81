package middlewares

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/artisanhub/artisan-stories/internal/logger"
)

// Tokener defines the minimal interface needed by the middleware
type Tokener interface {
	GetTokenFromRequest(ctx context.Context, r *http.Request) (string, error)
	Validate(ctx context.Context, tokenString string) error
}

// authError is the JSON envelope written on rejected requests.
type authError struct {
	Error string `json:"error"`
}

// AuthMiddleware returns a middleware that validates the bearer token before
// any protected handler runs. A missing token yields 401; a token that fails
// verification (bad signature, malformed, expired) yields 403.
func AuthMiddleware(tokener Tokener) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			tokenString, err := tokener.GetTokenFromRequest(ctx, r)
			if err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				json.NewEncoder(w).Encode(authError{Error: "Access token required"})
				return
			}

			if err := tokener.Validate(ctx, tokenString); err != nil {
				logger.Log.Errorw("authorization failed", "err", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				json.NewEncoder(w).Encode(authError{Error: "Invalid or expired token"})
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
