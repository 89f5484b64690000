// Package webhook реализует HTTP-обработчик уведомлений платежного шлюза.
//
// Каждое уведомление фиксируется неизменяемой строкой платежа; переход статуса
// подписки применяется той же транзакцией хранилища.
package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/streamhub/streamhub/internal/http/response"
	"github.com/streamhub/streamhub/internal/lib/sl"
	"github.com/streamhub/streamhub/internal/models"
	"github.com/streamhub/streamhub/internal/services/subscription"
	"github.com/streamhub/streamhub/internal/storage/repository"
)

// Handler управляет HTTP-запросами платежного шлюза.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики приема платежей.
type Service interface {
	RegisterPayment(ctx context.Context, req models.DummyPayment) (*models.PaymentTransaction, models.SubscriptionStatus, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// webhookResult тело ответа на платежное уведомление.
type webhookResult struct {
	Payment            *models.PaymentTransaction `json:"payment"`
	SubscriptionStatus models.SubscriptionStatus  `json:"subscription_status"`
}

// ServeHTTP godoc
// @Summary Принять уведомление платежного шлюза
// @Description Фиксирует исход платежа и применяет переход статуса подписки.
// @Tags Payments
// @Accept  json
// @Produce  json
// @Param request body models.DummyPayment true "Исход платежа"
// @Success 200 {object} response.Response "Платеж и итоговый статус подписки"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации или неизвестный статус"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /payments/webhook [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.webhook"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyPayment
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	payment, subStatus, err := h.service.RegisterPayment(r.Context(), req)
	switch {
	case errors.Is(err, subscription.ErrInvalidTransactionStatus):
		log.Error("unknown transaction status", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case errors.Is(err, repository.ErrNotFound):
		log.Error("subscription not found", sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscription not found"))
		return
	case err != nil:
		log.Error("failed to register payment", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not register payment"))
		return
	}

	log.Info("payment registered",
		slog.Int64("payment_id", payment.ID),
		slog.String("subscription_status", string(subStatus)))
	render.JSON(w, r, response.OKWithData(webhookResult{
		Payment:            payment,
		SubscriptionStatus: subStatus,
	}))
}
