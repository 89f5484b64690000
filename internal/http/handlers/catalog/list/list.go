// Package list реализует HTTP-обработчик выдачи каталога.
//
// Ошибки хранилища не пробрасываются клиенту: выдача деградирует до конверта
// со статусом "error" и пустым списком, код ответа всегда 200.
package list

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamhub/streamhub/internal/models"
	"github.com/streamhub/streamhub/internal/services/catalog"
)

// Handler управляет HTTP-запросами выдачи каталога.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики выдачи каталога.
type Service interface {
	List(ctx context.Context, filter models.CatalogFilter, query models.CatalogQuery) *catalog.Envelope
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ParseQuery разбирает параметры пагинации и сортировки из строки запроса.
// Используется всеми обработчиками выдачи каталога.
func ParseQuery(r *http.Request) models.CatalogQuery {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("pageSize"))
	return models.CatalogQuery{
		Page:          page,
		PageSize:      pageSize,
		SortField:     r.URL.Query().Get("sortBy"),
		SortDirection: models.ParseSortDirection(r.URL.Query().Get("sortDirection")),
	}
}

// ServeHTTP godoc
// @Summary Выдача каталога
// @Description Возвращает страницу каталога доступного контента в конверте ответа.
// @Tags Catalog
// @Produce  json
// @Param page query int false "Номер страницы, с нуля"
// @Param pageSize query int false "Размер страницы"
// @Param sortBy query string false "Поле сортировки"
// @Param sortDirection query string false "asc или desc"
// @Success 200 {object} catalog.Envelope "Конверт выдачи"
// @Router /catalog [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.catalog.list"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	envelope := h.service.List(r.Context(), models.CatalogFilter{}, ParseQuery(r))

	log.Info("catalog page served", slog.Int("count", envelope.Count))
	render.JSON(w, r, envelope)
}
