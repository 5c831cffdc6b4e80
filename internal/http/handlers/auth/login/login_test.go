package login

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/bookvahub/lms-backend/internal/http/middlewarectx"
	"github.com/bookvahub/lms-backend/internal/models"
	"github.com/bookvahub/lms-backend/internal/services/auth"
)

// MockService реализует интерфейс login.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Login(ctx context.Context, email, password string) (string, *models.User, error) {
	args := m.Called(ctx, email, password)
	if res := args.Get(1); res != nil {
		return args.String(0), res.(*models.User), args.Error(2)
	}
	return args.String(0), nil, args.Error(2)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
		wantCookie     bool
	}{
		{
			name: "успешный вход",
			body: `{"email":"reader@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				user := &models.User{
					UID:   "8d3a6f2e-5a60-4f0c-9f3e-0b2c5a1d7e44",
					Email: "reader@example.com",
					Role:  models.RoleBorrower,
				}
				m.On("Login", mock.Anything, "reader@example.com", "secret123").
					Return("signed-token", user, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"signed-token"`,
			wantCookie:     true,
		},
		{
			name:           "некорректный JSON",
			body:           `{"email":`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "пустой пароль не проходит валидацию",
			body:           `{"email":"reader@example.com","password":""}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `password`,
		},
		{
			name: "неверные учетные данные",
			body: `{"email":"reader@example.com","password":"wrongpass"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "reader@example.com", "wrongpass").
					Return("", nil, auth.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `invalid email or password`,
		},
		{
			name: "ошибка сервиса",
			body: `{"email":"reader@example.com","password":"secret123"}`,
			setupMock: func(m *MockService) {
				m.On("Login", mock.Anything, "reader@example.com", "secret123").
					Return("", nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `server error occurred during login`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			if tt.wantCookie {
				cookies := w.Result().Cookies()
				var found bool
				for _, c := range cookies {
					if c.Name == middlewarectx.TokenCookie && c.Value == "signed-token" {
						found = true
						assert.True(t, c.HttpOnly)
					}
				}
				assert.True(t, found, "token cookie should be set")
			}

			mockService.AssertExpectations(t)
		})
	}
}
