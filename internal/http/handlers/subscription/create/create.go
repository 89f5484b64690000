// Package create реализует HTTP-обработчик оформления подписки.
package create

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
	"github.com/streamhub/streamhub/internal/storage/repository"
)

// Handler управляет HTTP-запросами на оформление подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оформления подписки.
type Service interface {
	Subscribe(ctx context.Context, req models.DummySubscription) (*models.Subscription, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Оформить подписку
// @Description Оформляет подписку пользователя на тарифный план. У пользователя может быть только одна активная подписка.
// @Tags Subscriptions
// @Accept  json
// @Produce  json
// @Param request body models.DummySubscription true "Пользователь и тарифный план"
// @Success 201 {object} response.Response "Созданная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или неактивный план"
// @Failure 404 {object} response.ErrorResponse "Тарифный план не найден"
// @Failure 409 {object} response.ErrorResponse "У пользователя уже есть активная подписка"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummySubscription
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

	sub, err := h.service.Subscribe(r.Context(), req)
	switch {
	case errors.Is(err, repository.ErrActiveSubscriptionExists):
		log.Error("active subscription already exists", sl.Err(err))
		w.WriteHeader(http.StatusConflict)
		render.JSON(w, r, response.Error("user already has an active subscription"))
		return
	case errors.Is(err, repository.ErrNotFound):
		log.Error("plan not found", sl.Err(err))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscription plan not found"))
		return
	case errors.Is(err, repository.ErrPlanInactive):
		log.Error("plan is inactive", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("subscription plan is not active"))
		return
	case err != nil:
		log.Error("failed to create subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create subscription"))
		return
	}

	log.Info("subscription created", slog.Int64("id", sub.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(sub))
}
