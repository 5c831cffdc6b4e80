package list

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

	"github.com/bookvahub/lms-backend/internal/models"
)

// MockService реализует интерфейс list.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) List(ctx context.Context, limit int) ([]*models.Book, error) {
	args := m.Called(ctx, limit)
	if res := args.Get(0); res != nil {
		return res.([]*models.Book), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestBookListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		url            string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "полный каталог",
			url:  "/books",
			setupMock: func(m *MockService) {
				books := []*models.Book{
					{ID: 1, Title: "Dune"},
					{ID: 2, Title: "Neuromancer"},
				}
				m.On("List", mock.Anything, 0).Return(books, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Dune"`,
		},
		{
			name: "подборка популярных книг",
			url:  "/books?limit=1",
			setupMock: func(m *MockService) {
				books := []*models.Book{{ID: 2, Title: "Neuromancer", Rating: 9.5}}
				m.On("List", mock.Anything, 1).Return(books, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"title":"Neuromancer"`,
		},
		{
			name:           "отрицательный limit",
			url:            "/books?limit=-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `limit must be a non-negative integer`,
		},
		{
			name:           "нечисловой limit",
			url:            "/books?limit=abc",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `limit must be a non-negative integer`,
		},
		{
			name: "ошибка сервиса",
			url:  "/books",
			setupMock: func(m *MockService) {
				m.On("List", mock.Anything, 0).Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `failed to retrieve books`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, tt.url, nil)
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
