package middlewarectx_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bookvahub/lms-backend/internal/http/middlewarectx"
	"github.com/bookvahub/lms-backend/internal/models"
)

func TestActiveUserMiddleware(t *testing.T) {
	logger := newNoopLogger()

	tests := []struct {
		name           string
		user           *models.User
		wantStatusCode int
		wantCalled     bool
		wantBody       string
	}{
		{
			name:           "active user passes",
			user:           &models.User{UID: "uid-1", Role: models.RoleBorrower},
			wantStatusCode: http.StatusOK,
			wantCalled:     true,
		},
		{
			name:           "deactivated account rejected",
			user:           &models.User{UID: "uid-2", Role: models.RoleBorrower, IsDeleted: true},
			wantStatusCode: http.StatusForbidden,
			wantCalled:     false,
			wantBody:       "deactivated",
		},
		{
			name:           "no user in context",
			user:           nil,
			wantStatusCode: http.StatusUnauthorized,
			wantCalled:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handlerCalled := false
			nextHandler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				handlerCalled = true
				w.WriteHeader(http.StatusOK)
			})

			mw := middlewarectx.ActiveUserMiddleware(logger)(nextHandler)

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.user != nil {
				ctx := context.WithValue(req.Context(), middlewarectx.User, tt.user)
				req = req.WithContext(ctx)
			}

			w := httptest.NewRecorder()
			mw.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatusCode, w.Code)
			assert.Equal(t, tt.wantCalled, handlerCalled)
			if tt.wantBody != "" {
				assert.True(t, strings.Contains(w.Body.String(), tt.wantBody))
			}
		})
	}
}
