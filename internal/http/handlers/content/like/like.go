// Package like реализует HTTP-обработчик отметки "нравится".
package like

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
	"github.com/streamhub/streamhub/internal/storage/repository"
)

// Handler управляет HTTP-запросами на отметку "нравится".
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики отметки "нравится".
type Service interface {
	Like(ctx context.Context, id int64) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Отметить контент как понравившийся
// @Description Атомарно увеличивает счетчик отметок "нравится" у единицы контента.
// @Tags Content
// @Produce  json
// @Param id path int true "ID контента"
// @Success 200 {object} response.Response "Подтверждение"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 404 {object} response.ErrorResponse "Контент не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /content/{id}/like [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.like"
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

	err = h.service.Like(r.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("content not found", slog.Int64("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("content not found"))
		return
	}
	if err != nil {
		log.Error("failed to like content", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not like content"))
		return
	}

	log.Info("content liked", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(map[string]int64{"liked_id": id}))
}
