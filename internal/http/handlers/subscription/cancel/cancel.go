// Package cancel реализует HTTP-обработчик отмены подписки.
package cancel

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamhub/streamhub/internal/http/response"
	"github.com/streamhub/streamhub/internal/lib/sl"
	"github.com/streamhub/streamhub/internal/models"
	"github.com/streamhub/streamhub/internal/storage/repository"
)

// Handler управляет HTTP-запросами на отмену подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отмены подписки.
type Service interface {
	Cancel(ctx context.Context, id int64, cancelledBy string) (*models.Subscription, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отменить подписку
// @Description Переводит подписку в конечный статус CANCELLED. Повторная отмена отклоняется.
// @Tags Subscriptions
// @Produce  json
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response "Отмененная подписка"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Подписка не найдена"
// @Failure 422 {object} response.ErrorResponse "Подписка уже отменена"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id}/cancel [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.cancel"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	cancelledBy := r.URL.Query().Get("cancelled_by")

	sub, err := h.service.Cancel(r.Context(), id, cancelledBy)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Info("subscription not found", slog.Int64("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("subscription not found"))
		return
	case errors.Is(err, repository.ErrInvalidStatusTransition):
		log.Error("subscription already cancelled", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error("subscription is already cancelled"))
		return
	case err != nil:
		log.Error("failed to cancel subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not cancel subscription"))
		return
	}

	log.Info("subscription cancelled", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(sub))
}
