package webhook

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
	"github.com/streamhub/streamhub/internal/services/subscription"
	"github.com/streamhub/streamhub/internal/storage/repository"
)

// MockService реализует интерфейс webhook.Service
type MockService struct {
	mock.Mock
}

func (m *MockService) RegisterPayment(ctx context.Context, req models.DummyPayment) (*models.PaymentTransaction, models.SubscriptionStatus, error) {
	args := m.Called(ctx, req)
	if res := args.Get(0); res != nil {
		return res.(*models.PaymentTransaction), args.Get(1).(models.SubscriptionStatus), args.Error(2)
	}
	return nil, "", args.Error(2)
}

func TestWebhookHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tests := []struct {
		name           string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный платеж возвращает статус подписки",
			body: `{"subscription_id":4,"amount_cents":999,"payment_method":"card","transaction_status":"SUCCESS"}`,
			setupMock: func(m *MockService) {
				m.On("RegisterPayment", mock.Anything, mock.MatchedBy(func(req models.DummyPayment) bool {
					return req.SubscriptionID == 4 && req.Status == "SUCCESS"
				})).Return(&models.PaymentTransaction{ID: 1, SubscriptionID: 4, Status: models.TransactionSuccess},
					models.SubscriptionActive, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"subscription_status":"ACTIVE"`,
		},
		{
			name: "неуспешный платеж переводит подписку в PAST_DUE",
			body: `{"subscription_id":4,"amount_cents":999,"payment_method":"card","transaction_status":"FAILED","error_message":"insufficient funds"}`,
			setupMock: func(m *MockService) {
				m.On("RegisterPayment", mock.Anything, mock.Anything).
					Return(&models.PaymentTransaction{ID: 2, Status: models.TransactionFailed},
						models.SubscriptionPastDue, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"subscription_status":"PAST_DUE"`,
		},
		{
			name:           "некорректный JSON",
			body:           `{not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `invalid request body`,
		},
		{
			name:           "нулевая сумма отклоняется валидацией",
			body:           `{"subscription_id":4,"amount_cents":0,"payment_method":"card","transaction_status":"SUCCESS"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `AmountCents`,
		},
		{
			name: "неизвестный статус транзакции",
			body: `{"subscription_id":4,"amount_cents":999,"payment_method":"card","transaction_status":"DECLINED"}`,
			setupMock: func(m *MockService) {
				m.On("RegisterPayment", mock.Anything, mock.Anything).
					Return(nil, models.SubscriptionStatus(""), subscription.ErrInvalidTransactionStatus)
			},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `unknown transaction status`,
		},
		{
			name: "подписка не найдена",
			body: `{"subscription_id":404,"amount_cents":999,"payment_method":"card","transaction_status":"SUCCESS"}`,
			setupMock: func(m *MockService) {
				m.On("RegisterPayment", mock.Anything, mock.Anything).
					Return(nil, models.SubscriptionStatus(""), repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `subscription not found`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodPost, "/payments/webhook", strings.NewReader(tt.body))
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.True(t, strings.Contains(w.Body.String(), tt.expectedBody),
				"response body should contain %s, got %s", tt.expectedBody, w.Body.String())

			mockService.AssertExpectations(t)
		})
	}
}
