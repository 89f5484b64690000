// Package search реализует HTTP-обработчик поиска по каталогу.
package search

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamhub/streamhub/internal/http/handlers/catalog/list"
	"github.com/streamhub/streamhub/internal/models"
	"github.com/streamhub/streamhub/internal/services/catalog"
)

// Handler управляет HTTP-запросами поиска по каталогу.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики поиска по каталогу.
type Service interface {
	Search(ctx context.Context, keyword string, query models.CatalogQuery) *catalog.Envelope
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Поиск по каталогу
// @Description Ищет контент по подстроке заголовка без учета регистра.
// @Tags Catalog
// @Produce  json
// @Param keyword query string true "Подстрока для поиска"
// @Param page query int false "Номер страницы, с нуля"
// @Param pageSize query int false "Размер страницы"
// @Success 200 {object} catalog.Envelope "Конверт выдачи"
// @Router /search [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.search"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	keyword := r.URL.Query().Get("keyword")
	envelope := h.service.Search(r.Context(), keyword, list.ParseQuery(r))

	log.Info("search served", slog.String("keyword", keyword), slog.Int("count", envelope.Count))
	render.JSON(w, r, envelope)
}
