// Package check реализует HTTP-обработчик проверки доступа к контенту.
//
// Каждая проверка, включая отказ, фиксируется в журнале попыток доступа.
package check

import (
	"context"
	"encoding/json"
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
	"github.com/streamhub/streamhub/internal/services/access"
)

// Handler управляет HTTP-запросами на проверку доступа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики проверки доступа.
type Service interface {
	Check(ctx context.Context, contentID int64, userUID, ipAddress, userAgent string) (*access.Decision, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// checkResult тело ответа на проверку доступа.
type checkResult struct {
	Allowed bool                   `json:"allowed"`
	Reason  string                 `json:"reason,omitempty"`
	Log     *models.AccessLogEntry `json:"log"`
}

// ServeHTTP godoc
// @Summary Проверить доступ к контенту
// @Description Проверяет, может ли пользователь получить доступ к контенту, и записывает попытку в журнал.
// @Tags Access
// @Accept  json
// @Produce  json
// @Param id path int true "ID контента"
// @Param request body models.DummyAccessCheck true "Идентификатор пользователя"
// @Success 200 {object} response.Response "Решение о доступе"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /content/{id}/access [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.access.check"
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	contentID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		log.Error("failed to decode id from url", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("failed to decode id from url"))
		return
	}

	var req models.DummyAccessCheck
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	decision, err := h.service.Check(r.Context(), contentID, req.UserUID, clientIP(r), r.UserAgent())
	if err != nil {
		log.Error("access check failed", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not check access"))
		return
	}

	log.Info("access check completed",
		slog.Int64("content_id", contentID),
		slog.String("user_uid", req.UserUID),
		slog.Bool("allowed", decision.Allowed))
	render.JSON(w, r, response.OKWithData(checkResult{
		Allowed: decision.Allowed,
		Reason:  decision.Reason,
		Log:     decision.Entry,
	}))
}

func clientIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		return forwarded
	}
	return r.RemoteAddr
}
