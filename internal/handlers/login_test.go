package handlers_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/artisanhub/artisan-stories/internal/handlers"
	"github.com/artisanhub/artisan-stories/internal/models"
	"github.com/artisanhub/artisan-stories/internal/services"
)

func TestLoginHandler(t *testing.T) {
	userID := uuid.New()

	tests := []struct {
		name       string
		body       string
		expectCall bool
		user       *models.UserDB
		token      string
		svcErr     error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "successful login",
			body:       `{"email":"alice@example.com","password":"pw123456"}`,
			expectCall: true,
			user:       &models.UserDB{UserID: userID, Username: "alice", Email: "alice@example.com"},
			token:      "token123",
			wantStatus: http.StatusOK,
			wantBody:   "Login successful",
		},
		{
			name:       "invalid json",
			body:       `{not json`,
			wantStatus: http.StatusBadRequest,
			wantBody:   "Invalid request body",
		},
		{
			name:       "invalid credentials",
			body:       `{"email":"alice@example.com","password":"pw123456"}`,
			expectCall: true,
			svcErr:     services.ErrInvalidCredentials,
			wantStatus: http.StatusUnauthorized,
			wantBody:   "Invalid credentials",
		},
		{
			name:       "internal error",
			body:       `{"email":"alice@example.com","password":"pw123456"}`,
			expectCall: true,
			svcErr:     errors.New("db down"),
			wantStatus: http.StatusInternalServerError,
			wantBody:   "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			mockSvc := handlers.NewMockLoginer(ctrl)
			if tt.expectCall {
				mockSvc.EXPECT().
					Login(gomock.Any(), "alice@example.com", "pw123456").
					Return(tt.user, tt.token, tt.svcErr)
			}

			handler := handlers.NewLoginHandler(mockSvc)

			req := httptest.NewRequest(http.MethodPost, "/api/login", bytes.NewBufferString(tt.body))
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)

			if tt.wantStatus == http.StatusOK {
				var resp handlers.LoginResponse
				assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
				assert.Equal(t, "token123", resp.Token)
				assert.Equal(t, userID.String(), resp.User.ID)
			}
		})
	}
}
