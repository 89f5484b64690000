package read

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/streamhub/streamhub/internal/models"
	"github.com/streamhub/streamhub/internal/storage/repository"
)

// MockService реализует интерфейс read.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) Get(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestReadHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	const uid = "a45d7a80-4be9-4423-bd78-125bcf733fa6"

	tests := []struct {
		name           string
		uidParam       string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name:     "успешное чтение пользователя",
			uidParam: uid,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, uid).
					Return(&models.User{UUID: uid, Username: "alice", Status: models.UserPending}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"username":"alice"`,
		},
		{
			name:     "пользователь не найден",
			uidParam: uid,
			setupMock: func(m *MockService) {
				m.On("Get", mock.Anything, uid).Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `user not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/users/"+tt.uidParam, nil)
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("uid", tt.uidParam)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))

			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
