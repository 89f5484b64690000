// Package bytype реализует HTTP-обработчик выдачи каталога по типу контента.
package bytype

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

// Handler управляет HTTP-запросами выдачи каталога по типу.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи по типу.
type Service interface {
	ListByType(ctx context.Context, contentType string, query models.CatalogQuery) *catalog.Envelope
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Выдача каталога по типу контента
// @Description Возвращает страницу каталога, отфильтрованную по типу контента.
// @Tags Catalog
// @Produce  json
// @Param contentType path string true "Тип контента (MOVIE, MUSIC, EBOOK...)"
// @Param page query int false "Номер страницы, с нуля"
// @Param pageSize query int false "Размер страницы"
// @Success 200 {object} catalog.Envelope "Конверт выдачи"
// @Router /content/type/{contentType} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.bytype"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	contentType := chi.URLParam(r, "contentType")
	envelope := h.service.ListByType(r.Context(), contentType, list.ParseQuery(r))

	log.Info("catalog page served", slog.String("content_type", contentType), slog.Int("count", envelope.Count))
	render.JSON(w, r, envelope)
}
