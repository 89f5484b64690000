package create

import (
	"context"
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

func (m *MockService) Subscribe(ctx context.Context, req models.DummySubscription) (*models.Subscription, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*models.Subscription), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestCreateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))
	const userUID = "0b7aa0a0-13c8-47b2-9a2f-6f3f87c4d101"

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешное оформление подписки",
			body: `{"user_uid":"` + userUID + `","plan_id":3}`,
			setupMock: func(m *MockService) {
				m.On("Subscribe", mock.Anything, models.DummySubscription{UserUID: userUID, PlanID: 3}).
					Return(&models.Subscription{ID: 1, UserUID: userUID, PlanID: 3, Status: models.SubscriptionActive}, nil)
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `"status":"ACTIVE"`,
		},
		{
			name: "вторая активная подписка отклоняется",
			body: `{"user_uid":"` + userUID + `","plan_id":3}`,
			setupMock: func(m *MockService) {
				m.On("Subscribe", mock.Anything, mock.Anything).
					Return(nil, repository.ErrActiveSubscriptionExists)
			},
			expectedStatus: http.StatusConflict,
			expectedBody:   `already has an active subscription`,
		},
		{
			name: "план не найден",
			body: `{"user_uid":"` + userUID + `","plan_id":99}`,
			setupMock: func(m *MockService) {
				m.On("Subscribe", mock.Anything, mock.Anything).
					Return(nil, repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `plan not found`,
		},
		{
			name:           "ошибка валидации",
			body:           `{"user_uid":"not-a-uuid","plan_id":3}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `UserUID`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/subscriptions", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
