// Package list реализует HTTP-обработчик выдачи активных тарифных планов.
package list

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamhub/streamhub/internal/http/response"
	"github.com/streamhub/streamhub/internal/lib/sl"
	"github.com/streamhub/streamhub/internal/models"
)

// Handler управляет HTTP-запросами выдачи тарифных планов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики тарифных планов.
type Service interface {
	ListPlans(ctx context.Context) ([]*models.Plan, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Активные тарифные планы
// @Description Возвращает доступные для оформления тарифные планы.
// @Tags Plans
// @Produce  json
// @Success 200 {object} response.Response "Список планов"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /plans [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.plan.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	plans, err := h.service.ListPlans(r.Context())
	if err != nil {
		log.Error("failed to list plans", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list plans"))
		return
	}

	render.JSON(w, r, response.OKWithData(plans))
}
