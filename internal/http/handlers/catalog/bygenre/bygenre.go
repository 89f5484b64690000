// Package bygenre реализует HTTP-обработчик выдачи каталога по жанру.
package bygenre

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamhub/streamhub/internal/http/handlers/catalog/list"
	"github.com/streamhub/streamhub/internal/models"
	"github.com/streamhub/streamhub/internal/services/catalog"
)

// Handler управляет HTTP-запросами выдачи каталога по жанру.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи по жанру.
type Service interface {
	ListByGenre(ctx context.Context, genre string, query models.CatalogQuery) *catalog.Envelope
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выдача каталога по жанру
// @Description Возвращает страницу каталога, отфильтрованную по жанру.
// @Tags Catalog
// @Produce  json
// @Param genre path string true "Жанр"
// @Param page query int false "Номер страницы, с нуля"
// @Param pageSize query int false "Размер страницы"
// @Success 200 {object} catalog.Envelope "Конверт выдачи"
// @Router /content/genre/{genre} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.bygenre"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	genre := chi.URLParam(r, "genre")
	envelope := h.service.ListByGenre(r.Context(), genre, list.ParseQuery(r))

	log.Info("catalog page served", slog.String("genre", genre), slog.Int("count", envelope.Count))
	render.JSON(w, r, envelope)
}
