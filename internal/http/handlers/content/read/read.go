// Package read реализует HTTP-обработчик чтения единицы контента по ID.
package read

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

// Handler управляет HTTP-запросами на чтение контента.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения контента.
type Service interface {
	Read(ctx context.Context, id int64) (*models.Content, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить единицу контента
// @Description Возвращает единицу контента по её ID.
// @Tags Content
// @Produce  json
// @Param id path int true "ID контента"
// @Success 200 {object} response.Response "Найденная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Контент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /content/{id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.read"
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

	item, err := h.service.Read(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("content not found", slog.Int64("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("content not found"))
		return
	}
	if err != nil {
		log.Error("failed to read content", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read content"))
		return
	}

	render.JSON(w, r, response.OKWithData(item))
}
