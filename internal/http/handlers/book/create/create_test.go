package create

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bookvahub/lms-backend/internal/lib/upload"
	"github.com/bookvahub/lms-backend/internal/models"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DummyBook, imagePath string) (*models.Book, error) {
	args := m.Called(ctx, req, imagePath)
	if res := args.Get(0); res != nil {
		return res.(*models.Book), args.Error(1)
	}
	return nil, args.Error(1)
}

func newMultipartBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := new(bytes.Buffer)
	writer := multipart.NewWriter(body)
	for name, value := range fields {
		require.NoError(t, writer.WriteField(name, value))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestBookCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	saver, err := upload.NewSaver(t.TempDir())
	require.NoError(t, err)

	validFields := map[string]string{
		"title":       "Dune",
		"author":      "Frank Herbert",
		"isbn":        "9780441172719",
		"quantity":    "4",
		"description": "Sci-fi classic",
	}

	tests := []struct {
		name           string
		fields         map[string]string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:   "успешное добавление книги",
			fields: validFields,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(b models.DummyBook) bool {
					return b.Title == "Dune" && b.Quantity == 4
				}), "").Return(&models.Book{ID: 11, Title: "Dune", Quantity: 4, Available: 4}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"title":"Dune"`,
		},
		{
			name: "отсутствует обязательное поле title",
			fields: map[string]string{
				"author":   "Frank Herbert",
				"isbn":     "9780441172719",
				"quantity": "4",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `title`,
		},
		{
			name: "нулевое количество не проходит валидацию",
			fields: map[string]string{
				"title":    "Dune",
				"author":   "Frank Herbert",
				"isbn":     "9780441172719",
				"quantity": "0",
			},
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `quantity`,
		},
		{
			name:   "ошибка сервиса",
			fields: validFields,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything, "").
					Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `failed to add book`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService, saver)

			body, contentType := newMultipartBody(t, tt.fields)
			req := httptest.NewRequest(http.MethodPost, "/books", body)
			req.Header.Set("Content-Type", contentType)

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
