// Package create реализует HTTP-обработчик для добавления единиц каталога.
//
// Handler принимает JSON-запрос с данными контента, валидирует их, вызывает
// бизнес-логику создания и возвращает сохраненную запись в JSON-формате.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/streamhub/streamhub/internal/http/response"
	"github.com/streamhub/streamhub/internal/lib/sl"
	"github.com/streamhub/streamhub/internal/models"
	"github.com/streamhub/streamhub/internal/services/content"
	"github.com/streamhub/streamhub/internal/storage/repository"
)

// Handler управляет HTTP-запросами на добавление контента.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики создания контента.
type Service interface {
	Create(ctx context.Context, req models.DummyContent) (*models.Content, error)
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
// @Summary Добавить единицу контента
// @Description Добавляет новую единицу контента в каталог. Возвращает сохраненную запись.
// @Tags Content
// @Accept  json
// @Produce  json
// @Param request body models.DummyContent true "Данные новой единицы контента"
// @Success 201 {object} response.Response "Успешное создание"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или дубликат заголовка"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /content [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.create"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req models.DummyContent
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	log.Info("request body decoded", slog.Any("request", req))

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	created, err := h.service.Create(r.Context(), req)
	switch {
	case errors.Is(err, repository.ErrDuplicateTitle):
		log.Error("duplicate title", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("content with this title already exists"))
		return
	case errors.Is(err, content.ErrInvalidContentType),
		errors.Is(err, content.ErrInvalidStatus),
		errors.Is(err, content.ErrInvalidReleaseDate):
		log.Error("invalid request values", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.Error(err.Error()))
		return
	case err != nil:
		log.Error("failed to create content", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create content"))
		return
	}

	log.Info("content created", slog.Int64("id", created.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OKWithData(created))
}
