// Package list реализует HTTP-обработчик чтения платежей подписки.
package list

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

// Handler управляет HTTP-запросами чтения платежей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения платежей.
type Service interface {
	ListPayments(ctx context.Context, subscriptionID int64) ([]*models.PaymentTransaction, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{log: log, service: service}
}

// ServeHTTP godoc
// @Summary Платежи подписки
// @Description Возвращает платежные транзакции подписки от новых к старым.
// @Tags Payments
// @Produce  json
// @Param id path int true "ID подписки"
// @Success 200 {object} response.Response "Список платежей"
// @Failure 400 {object} response.ErrorResponse "Некорректный ID"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscriptions/{id}/payments [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.payment.list"
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

	payments, err := h.service.ListPayments(r.Context(), id)
	if err != nil {
		log.Error("failed to list payments", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not list payments"))
		return
	}

	render.JSON(w, r, response.OKWithData(payments))
}
