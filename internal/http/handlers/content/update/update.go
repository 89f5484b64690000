// Package update реализует HTTP-обработчик частичного обновления контента.
//
// Изменяются только переданные поля из зафиксированного набора: заголовок,
// описание, тип, жанр, язык, статус, метаданные и автор изменения.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/streamhub/streamhub/internal/http/response"
	"github.com/streamhub/streamhub/internal/lib/sl"
	"github.com/streamhub/streamhub/internal/models"
	"github.com/streamhub/streamhub/internal/services/content"
	"github.com/streamhub/streamhub/internal/storage/repository"
)

// Handler управляет HTTP-запросами на обновление контента.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики обновления контента.
type Service interface {
	Update(ctx context.Context, id int64, req models.UpdateContent) (*models.Content, error)
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
// @Summary Обновить единицу контента
// @Description Частично обновляет единицу контента: изменяются только переданные поля.
// @Tags Content
// @Accept  json
// @Produce  json
// @Param id path int true "ID контента"
// @Param request body models.UpdateContent true "Изменяемые поля"
// @Success 200 {object} response.Response "Обновленная запись"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос или дубликат заголовка"
// @Failure 404 {object} response.ErrorResponse "Контент не найден"
// @Failure 422 {object} response.ErrorResponse "Недопустимое значение или переход статуса"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /content/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.update"
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

	var req models.UpdateContent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	updated, err := h.service.Update(r.Context(), id, req)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		log.Info("content not found", slog.Int64("id", id))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("content not found"))
		return
	case errors.Is(err, repository.ErrDuplicateTitle):
		log.Error("duplicate title", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("content with this title already exists"))
		return
	case errors.Is(err, repository.ErrInvalidStatusTransition),
		errors.Is(err, content.ErrInvalidContentType),
		errors.Is(err, content.ErrInvalidStatus):
		log.Error("invalid update values", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case err != nil:
		log.Error("failed to update content", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update content"))
		return
	}

	log.Info("content updated", slog.Int64("id", id))
	render.JSON(w, r, response.OKWithData(updated))
}
