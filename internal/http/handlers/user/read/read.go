// Package read реализует HTTP-обработчик чтения пользователя по UID.
package read

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamhub/streamhub/internal/http/response"
	"github.com/streamhub/streamhub/internal/lib/sl"
	"github.com/streamhub/streamhub/internal/models"
	"github.com/streamhub/streamhub/internal/storage/repository"
)

// Handler управляет HTTP-запросами чтения пользователя.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения пользователя.
type Service interface {
	Get(ctx context.Context, userUID string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Получить пользователя
// @Description Возвращает учетную запись по её UID. Хэш пароля наружу не отдается.
// @Tags Users
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Success 200 {object} response.Response "Найденный пользователь"
// @Failure 404 {object} response.ErrorResponse "Пользователь не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{uid} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.user.read"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	uid := chi.URLParam(r, "uid")

	user, err := h.service.Get(r.Context(), uid)
	if errors.Is(err, repository.ErrNotFound) {
		log.Info("user not found", slog.String("uid", uid))
		w.WriteHeader(http.StatusNotFound)
		render.JSON(w, r, response.Error("user not found"))
		return
	}
	if err != nil {
		log.Error("failed to read user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read user"))
		return
	}

	render.JSON(w, r, response.OKWithData(user))
}
