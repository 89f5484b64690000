// Package audit реализует HTTP-обработчик чтения журнала изменений контента.
package audit

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

// Handler управляет HTTP-запросами чтения журнала изменений.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения журнала изменений.
type Service interface {
	AuditTrail(ctx context.Context, id int64) ([]*models.AuditLogEntry, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Журнал изменений контента
// @Description Возвращает журнал изменений единицы контента от старых к новым. Журнал переживает удаление самой записи.
// @Tags Content
// @Produce  json
// @Param id path int true "ID контента"
// @Success 200 {object} response.Response "Записи журнала"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /content/{id}/audit [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.content.audit"
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

	entries, err := h.service.AuditTrail(r.Context(), id)
	if err != nil {
		log.Error("failed to read audit trail", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not read audit trail"))
		return
	}

	log.Info("audit trail served", slog.Int64("id", id), slog.Int("count", len(entries)))
	render.JSON(w, r, response.OKWithData(entries))
}
