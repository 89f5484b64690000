// Package stats реализует HTTP-обработчик агрегированной статистики каталога.
package stats

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

// Handler управляет HTTP-запросами статистики каталога.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики статистики.
type Service interface {
	Stats(ctx context.Context) (*models.ContentStats, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Статистика каталога
// @Description Возвращает агрегированные счетчики: всего, активных, доступных и премиум.
// @Tags Content
// @Produce  json
// @Success 200 {object} response.Response "Счетчики каталога"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /stats [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.stats"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	stats, err := h.service.Stats(r.Context())
	if err != nil {
		log.Error("failed to collect catalog stats", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not collect stats"))
		return
	}

	render.JSON(w, r, response.OKWithData(stats))
}
