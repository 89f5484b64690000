package create

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

	"github.com/streamhub/streamhub/internal/models"
	"github.com/streamhub/streamhub/internal/storage/repository"
)

// MockService реализует интерфейс create.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Create(ctx context.Context, req models.DummyContent) (*models.Content, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Content), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное создание контента",
			body: `{"title":"Dune","content_type":"MOVIE","genre":"sci-fi"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.MatchedBy(func(req models.DummyContent) bool {
					return req.Title == "Dune" && req.ContentType == "MOVIE"
				})).Return(&models.Content{ID: 1, Title: "Dune"}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"title":"Dune"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "отсутствует обязательное поле",
			body:           `{"content_type":"MOVIE"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `Title`,
		},
		{
			name: "дубликат заголовка",
			body: `{"title":"Dune","content_type":"MOVIE"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(nil, repository.ErrDuplicateTitle)
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `already exists`,
		},
		{
			name: "ошибка сервиса",
			body: `{"title":"Dune","content_type":"MOVIE"}`,
			setupMock: func(m *MockService) {
				m.On("Create", mock.Anything, mock.Anything).
					Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `could not create content`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/content", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
