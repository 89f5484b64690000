// Package health реализует HTTP-обработчики проб живости и готовности.
package health

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/streamhub/streamhub/internal/http/response"
	"github.com/streamhub/streamhub/internal/lib/sl"
)

// StorageChecker проверяет готовность хранилища принимать запросы.
type StorageChecker interface {
	CheckDatabaseReady(ctx context.Context) error
}

// Handler отвечает на пробы живости и готовности.
type Handler struct {
	log     *slog.Logger
	storage StorageChecker
}

// New создает новый Handler с переданными логгером и хранилищем.
func New(log *slog.Logger, storage StorageChecker) *Handler {
	return &Handler{
		log:     log,
		storage: storage,
	}
}

// Live godoc
// @Summary Проба живости
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response
// @Router /health/live [get]
func (h *Handler) Live(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, response.OKWithData(map[string]any{"status": "ok"}))
}

// Ready godoc
// @Summary Проба готовности
// @Description Проверяет доступность базы данных и применённость схемы.
// @Tags Health
// @Produce  json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.ErrorResponse "Хранилище недоступно"
// @Router /health/ready [get]
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health.ready"
	if err := h.storage.CheckDatabaseReady(r.Context()); err != nil {
		h.log.Error("storage is not ready", slog.String("op", op), sl.Err(err))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, response.Error("storage is not ready"))
		return
	}
	render.JSON(w, r, response.OKWithData(map[string]any{"status": "ok"}))
}
