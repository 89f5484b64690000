// Package history реализует HTTP-обработчик чтения журнала попыток доступа.
package history

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/streamhub/streamhub/internal/http/response"
	"github.com/streamhub/streamhub/internal/lib/sl"
	"github.com/streamhub/streamhub/internal/models"
)

// Handler управляет HTTP-запросами журнала попыток доступа.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики журнала доступа.
type Service interface {
	History(ctx context.Context, userUID string, limit, offset int) ([]*models.AccessLogEntry, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Журнал попыток доступа пользователя
// @Description Возвращает попытки доступа пользователя от новых к старым с пагинацией.
// @Tags Access
// @Produce  json
// @Param uid path string true "UID пользователя"
// @Param limit query int false "Размер страницы"
// @Param offset query int false "Смещение"
// @Success 200 {object} response.Response "Записи журнала"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /users/{uid}/access-logs [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.history"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID := chi.URLParam(r, "uid")
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	entries, err := h.service.History(r.Context(), userUID, limit, offset)
	if err != nil {
		log.Error("failed to read access logs", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read access logs"))
		return
	}

	render.JSON(w, r, response.OKWithData(entries))
}
